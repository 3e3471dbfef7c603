package zenmill

import (
	"fmt"
	"strings"
)

// A step is one lowered output operation. The composed program is a
// step sequence executed against a scope chain and an output buffer.
type step interface {
	step()
}

type stepText struct {
	text string
}

type stepExpr struct {
	prog   Program
	escape bool
	expr   string
	loc    Location
}

type stepAssign struct {
	name string
	prog Program
	expr string
	loc  Location
}

type stepScope struct {
	steps []step
}

type ifArm struct {
	prog Program
	expr string
	loc  Location
	body []step
}

type stepIf struct {
	arms      []ifArm
	otherwise []step
}

type stepEach struct {
	name string
	prog Program
	expr string
	loc  Location
	body []step
}

func (*stepText) step()   {}
func (*stepExpr) step()   {}
func (*stepAssign) step() {}
func (*stepScope) step()  {}
func (*stepIf) step()     {}
func (*stepEach) step()   {}

// run executes steps, appending output to buf.
func run(steps []step, sc *Scope, buf *strings.Builder) error {
	for _, s := range steps {
		switch t := s.(type) {
		case *stepText:
			buf.WriteString(t.text)
		case *stepExpr:
			v, err := evalStep(t.prog, t.expr, t.loc, sc)
			if err != nil {
				return err
			}
			out := Stringify(v)
			if t.escape {
				out = EscapeHTML(out)
			}
			buf.WriteString(out)
		case *stepAssign:
			v, err := evalStep(t.prog, t.expr, t.loc, sc)
			if err != nil {
				return err
			}
			sc.Set(t.name, v)
		case *stepScope:
			if err := run(t.steps, NewScope(sc), buf); err != nil {
				return err
			}
		case *stepIf:
			fired := false
			for _, arm := range t.arms {
				v, err := evalStep(arm.prog, arm.expr, arm.loc, sc)
				if err != nil {
					return err
				}
				if Truthy(v) {
					if err := run(arm.body, NewScope(sc), buf); err != nil {
						return err
					}
					fired = true
					break
				}
			}
			if !fired {
				if err := run(t.otherwise, NewScope(sc), buf); err != nil {
					return err
				}
			}
		case *stepEach:
			v, err := evalStep(t.prog, t.expr, t.loc, sc)
			if err != nil {
				return err
			}
			err = Each(v, t.name, sc, func(iter *Scope) error {
				return run(t.body, iter, buf)
			})
			if err != nil {
				if ne, ok := err.(*NonIterableError); ok && ne.Loc == (Location{}) {
					ne.Loc = t.loc
				}
				return err
			}
		default:
			return &UnknownNodeError{Tag: fmt.Sprintf("%T", s)}
		}
	}
	return nil
}

func evalStep(p Program, expr string, loc Location, sc *Scope) (any, error) {
	v, err := p.Eval(sc.Environ())
	if err != nil {
		return nil, &ExprError{Expr: expr, Loc: loc, Cause: err}
	}
	return v, nil
}
