package zenmill

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// A job owns one compile invocation: the per-job source/AST cache and
// the group of in-flight loads. Each distinct normalized path is
// loaded once and parsed at most once; include and inline targets are
// prefetched as soon as the file that references them has parsed, so
// loads overlap while the composition walk stays sequential.
type job struct {
	loader Loader
	group  *errgroup.Group
	ctx    context.Context

	mu       sync.Mutex
	entries  map[string]*sourceEntry
	firstErr error
}

// sourceEntry is one cached load. ready closes once src/err are set.
type sourceEntry struct {
	ready chan struct{}
	src   string
	err   error

	parseOnce sync.Once
	nodes     []Node
	parseErr  error
}

func newJob(ctx context.Context, loader Loader) *job {
	g, gctx := errgroup.WithContext(ctx)
	return &job{
		loader:  loader,
		group:   g,
		ctx:     gctx,
		entries: map[string]*sourceEntry{},
	}
}

// fetch returns the entry for path, starting its load if needed.
func (j *job) fetch(path string) *sourceEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if e, ok := j.entries[path]; ok {
		return e
	}
	e := &sourceEntry{ready: make(chan struct{})}
	j.entries[path] = e
	j.group.Go(func() error {
		src, err := j.loader.Load(j.ctx, path)
		if err != nil {
			e.err = &LoadError{Path: path, Cause: err}
			j.recordErr(e.err)
		} else {
			e.src = src
		}
		close(e.ready)
		return e.err
	})
	return e
}

// recordErr keeps the first load failure. Later failures are usually
// cancellation fallout and must not mask it.
func (j *job) recordErr(err error) {
	j.mu.Lock()
	if j.firstErr == nil {
		j.firstErr = err
	}
	j.mu.Unlock()
}

func (j *job) loadErr() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.firstErr
}

// source waits for the load of path and returns its raw contents.
func (j *job) source(ctx context.Context, path string) (string, error) {
	e := j.fetch(path)
	select {
	case <-e.ready:
	case <-ctx.Done():
		if err := j.loadErr(); err != nil {
			return "", err
		}
		return "", ctx.Err()
	}
	if err := j.loadErr(); err != nil {
		return "", err
	}
	return e.src, e.err
}

// nodes waits for the load of path and parses it at most once. A
// successful parse prefetches the file's own include and inline
// targets.
func (j *job) nodes(ctx context.Context, path string) ([]Node, error) {
	e := j.fetch(path)
	select {
	case <-e.ready:
	case <-ctx.Done():
		if err := j.loadErr(); err != nil {
			return nil, err
		}
		return nil, ctx.Err()
	}
	if err := j.loadErr(); err != nil {
		return nil, err
	}
	if e.err != nil {
		return nil, e.err
	}
	e.parseOnce.Do(func() {
		nodes, err := Parse(e.src)
		if err != nil {
			if se, ok := err.(*SyntaxError); ok {
				se.Path = path
			}
			e.parseErr = err
			return
		}
		e.nodes = nodes
		j.prefetch(path, nodes)
	})
	return e.nodes, e.parseErr
}

// prefetch starts loads for every include and inline target reachable
// from nodes, resolved against file. Resolution failures are left for
// the composition walk to report.
func (j *job) prefetch(file string, nodes []Node) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *IncludeNode:
			if p, err := localPath(file, t.File); err == nil {
				j.group.Go(func() error {
					// parse in the background to pipeline the next level
					_, _ = j.nodes(j.ctx, p)
					return nil
				})
			}
			j.prefetch(file, t.Children)
		case *InlineNode:
			if p, err := localPath(file, t.File); err == nil {
				j.fetch(p)
			}
		case *DefNode:
			j.prefetch(file, t.Nodes)
		case *BlockNode:
			j.prefetch(file, t.Nodes)
		case *IfNode:
			for _, w := range t.When {
				j.prefetch(file, w.Nodes)
			}
			j.prefetch(file, t.Otherwise)
		case *EachNode:
			j.prefetch(file, t.Nodes)
		}
	}
}

// wait blocks until every in-flight load has finished or been
// abandoned.
func (j *job) wait() { _ = j.group.Wait() }
