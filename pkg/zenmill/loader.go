package zenmill

import (
	"context"
	"io/fs"
)

// Loader supplies template source for a normalized logical path. Paths
// never carry a leading slash. Load is called from multiple goroutines
// during a compile and must honor ctx cancellation.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) (string, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// MemoryLoader serves templates from an in-memory map.
type MemoryLoader map[string]string

func (m MemoryLoader) Load(_ context.Context, name string) (string, error) {
	if s, ok := m[name]; ok {
		return s, nil
	}
	return "", ErrTemplateNotFound{name}
}

// FSLoader serves templates from a file system.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) Load(_ context.Context, name string) (string, error) {
	b, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
