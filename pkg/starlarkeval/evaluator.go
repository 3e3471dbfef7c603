// Package starlarkeval provides a Starlark-backed expression
// evaluator for zenmill templates. It is an alternative to the
// built-in evaluator for callers who want Starlark expression syntax
// (and/or/not, comprehensions, string methods) inside #{...} and
// expr attributes.
package starlarkeval

import (
	"fmt"

	"github.com/zenmill/zenmill-go/pkg/zenmill"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Evaluator implements zenmill.Evaluator on go.starlark.net.
type Evaluator struct{}

// New returns a Starlark expression evaluator.
func New() *Evaluator { return &Evaluator{} }

// CompileExpr checks the expression's syntax. Starlark resolves names
// against the environment at evaluation time, so compilation cannot
// bind identifiers early.
func (*Evaluator) CompileExpr(src string) (zenmill.Program, error) {
	if _, err := syntax.ParseExpr("<expr>", src, 0); err != nil {
		return nil, fmt.Errorf("starlark: %w", err)
	}
	return &program{src: src}, nil
}

type program struct {
	src string
}

// Eval evaluates the expression with the environment as predeclared
// names. A fresh thread per call keeps programs safe for concurrent
// renders.
func (p *program) Eval(env map[string]any) (any, error) {
	thread := &starlark.Thread{Name: "zenmill"}
	predeclared := make(starlark.StringDict, len(env))
	for k, v := range env {
		predeclared[k] = toStarlark(v)
	}
	val, err := starlark.Eval(thread, "<expr>", p.src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("starlark: %w", err)
	}
	return fromStarlark(val), nil
}
