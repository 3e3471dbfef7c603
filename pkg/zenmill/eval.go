package zenmill

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator compiles expression strings into runnable programs. The
// engine treats expression syntax as a capability supplied here; any
// evaluator that can compile once and evaluate against a flat variable
// environment will do.
type Evaluator interface {
	CompileExpr(src string) (Program, error)
}

// Program evaluates a compiled expression against an environment.
type Program interface {
	Eval(env map[string]any) (any, error)
}

// DefaultEvaluator returns the built-in expression evaluator. Its
// grammar covers member access, literals, arithmetic, comparisons,
// &&/|| and function calls.
func DefaultEvaluator() Evaluator { return exprEvaluator{} }

type exprEvaluator struct{}

func (exprEvaluator) CompileExpr(src string) (Program, error) {
	prog, err := expr.Compile(src)
	if err != nil {
		return nil, err
	}
	return exprProgram{prog}, nil
}

type exprProgram struct {
	prog *vm.Program
}

func (p exprProgram) Eval(env map[string]any) (any, error) {
	return expr.Run(p.prog, env)
}
