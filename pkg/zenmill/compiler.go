// Package zenmill composes XML-ish documents (HTML, SVG) from
// templates. Compile resolves a root template and everything it
// statically references — includes, inlines, block definitions — into
// a Renderer: a pure function from a data environment to the expanded
// document string.
//
// Template sources come from a caller-supplied Loader; expression
// evaluation is pluggable through the Evaluator capability, with an
// expr-lang-backed default.
package zenmill

import (
	"context"
	"strings"
)

// Options configures a Compiler. The zero value is a usable default.
type Options struct {
	// StripComments drops XML comments from the output.
	StripComments bool
	// Evaluator compiles the expression sub-language. nil selects
	// DefaultEvaluator.
	Evaluator Evaluator
}

// Compiler turns logical template paths into Renderers. A Compiler is
// reusable; every Compile call owns a fresh single-shot job with its
// own source and AST cache.
type Compiler struct {
	loader Loader
	opts   Options
}

// Renderer expands a compiled template against a data environment. It
// performs no I/O and is safe for concurrent use.
type Renderer func(data map[string]any) (string, error)

// New returns a Compiler reading templates through loader.
func New(loader Loader, opts Options) *Compiler {
	if opts.Evaluator == nil {
		opts.Evaluator = DefaultEvaluator()
	}
	return &Compiler{loader: loader, opts: opts}
}

// Compile loads path and every template it references, composes them,
// and returns the renderer for the finished document. Any load, parse,
// resolution or expression-compile failure aborts the whole job; loads
// still in flight are abandoned.
func (c *Compiler) Compile(ctx context.Context, path string) (Renderer, error) {
	jctx, cancel := context.WithCancel(ctx)
	j := newJob(jctx, c.loader)
	defer j.wait()
	defer cancel()

	root, err := rootPath(path)
	if err != nil {
		return nil, err
	}
	nodes, err := j.nodes(jctx, root)
	if err != nil {
		return nil, err
	}
	co := &composer{job: j, ctx: jctx, eval: c.opts.Evaluator, strip: c.opts.StripComments}
	steps, err := co.compose(&compCtx{file: root, defs: map[string]*blockDef{}}, nodes)
	if err != nil {
		return nil, err
	}

	globals := Globals()
	return func(data map[string]any) (string, error) {
		sc := NewScope(nil)
		for k, v := range globals {
			sc.Set(k, v)
		}
		for k, v := range data {
			sc.Set(k, v)
		}
		var buf strings.Builder
		if err := run(steps, sc, &buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	}, nil
}

// Render is shorthand for Compile followed by the renderer call.
func (c *Compiler) Render(ctx context.Context, path string, data map[string]any) (string, error) {
	r, err := c.Compile(ctx, path)
	if err != nil {
		return "", err
	}
	return r(data)
}
