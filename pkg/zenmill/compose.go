package zenmill

import (
	"context"
	"fmt"
)

// compCtx is one frame of the include chain. Definitions resolve by
// walking parent frames outward; file names the template whose nodes
// are currently being lowered.
type compCtx struct {
	file   string
	defs   map[string]*blockDef
	parent *compCtx
}

// blockDef is a lowered definition body with its merge mode.
type blockDef struct {
	mode DefMode
	body []step
}

func (c *compCtx) lookup(name string) *blockDef {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if d, ok := ctx.defs[name]; ok {
			return d
		}
	}
	return nil
}

type composer struct {
	job   *job
	ctx   context.Context
	eval  Evaluator
	strip bool
}

// compose lowers nodes under cc to a step sequence. Includes are
// resolved here: the produced program performs no I/O.
func (co *composer) compose(cc *compCtx, nodes []Node) ([]step, error) {
	var steps []step
	text := func(s string) {
		if s == "" {
			return
		}
		// Coalesce adjacent literals. Never mutate the previous step in
		// place: definition bodies are emitted by reference and may be
		// shared across blocks.
		if len(steps) > 0 {
			if last, ok := steps[len(steps)-1].(*stepText); ok {
				steps[len(steps)-1] = &stepText{text: last.text + s}
				return
			}
		}
		steps = append(steps, &stepText{text: s})
	}
	for _, n := range nodes {
		switch t := n.(type) {
		case *PlainNode:
			text(t.Text)
		case *CommentNode:
			if !co.strip {
				text("<!--" + t.Content + "-->")
			}
		case *ExprNode:
			prog, loc, err := co.compileExpr(cc.file, t.Expr, t.Off)
			if err != nil {
				return nil, err
			}
			steps = append(steps, &stepExpr{prog: prog, escape: t.Escape, expr: t.Expr, loc: loc})
		case *VarNode:
			prog, loc, err := co.compileExpr(cc.file, t.Expr, t.Off)
			if err != nil {
				return nil, err
			}
			steps = append(steps, &stepAssign{name: t.Name, prog: prog, expr: t.Expr, loc: loc})
		case *IncludeNode:
			sub, err := co.composeInclude(cc, t)
			if err != nil {
				return nil, err
			}
			steps = append(steps, &stepScope{steps: sub})
		case *InlineNode:
			resolved, err := localPath(cc.file, t.File)
			if err != nil {
				return nil, err
			}
			src, err := co.job.source(co.ctx, resolved)
			if err != nil {
				return nil, err
			}
			if t.Escape {
				src = EscapeHTML(src)
			}
			text(src)
		case *DefNode:
			if err := co.defineBlock(cc, t); err != nil {
				return nil, err
			}
		case *BlockNode:
			body, err := co.compose(cc, t.Nodes)
			if err != nil {
				return nil, err
			}
			switch d := cc.lookup(t.Name); {
			case d == nil:
				steps = append(steps, body...)
			case d.mode == DefReplace:
				steps = append(steps, d.body...)
			case d.mode == DefAppend:
				steps = append(steps, body...)
				steps = append(steps, d.body...)
			case d.mode == DefPrepend:
				steps = append(steps, d.body...)
				steps = append(steps, body...)
			}
		case *IfNode:
			s, err := co.composeIf(cc, t)
			if err != nil {
				return nil, err
			}
			steps = append(steps, s)
		case *EachNode:
			prog, loc, err := co.compileExpr(cc.file, t.Expr, t.Off)
			if err != nil {
				return nil, err
			}
			body, err := co.compose(cc, t.Nodes)
			if err != nil {
				return nil, err
			}
			steps = append(steps, &stepEach{name: t.Name, prog: prog, expr: t.Expr, loc: loc, body: body})
		default:
			return nil, &UnknownNodeError{Tag: fmt.Sprintf("%T", n)}
		}
	}
	return steps, nil
}

// composeInclude opens a fresh frame, collects the include's
// definitions and var bindings, then lowers the target file under it.
// The caller wraps the result in a fresh lexical scope.
func (co *composer) composeInclude(cc *compCtx, inc *IncludeNode) ([]step, error) {
	child := &compCtx{file: cc.file, defs: map[string]*blockDef{}, parent: cc}
	var pre []step
	for _, c := range inc.Children {
		switch t := c.(type) {
		case *DefNode:
			if err := co.defineBlock(child, t); err != nil {
				return nil, err
			}
		case *VarNode:
			prog, loc, err := co.compileExpr(cc.file, t.Expr, t.Off)
			if err != nil {
				return nil, err
			}
			pre = append(pre, &stepAssign{name: t.Name, prog: prog, expr: t.Expr, loc: loc})
		default:
			return nil, &UnknownNodeError{Tag: fmt.Sprintf("%T", c)}
		}
	}
	resolved, err := localPath(cc.file, inc.File)
	if err != nil {
		return nil, err
	}
	nodes, err := co.job.nodes(co.ctx, resolved)
	if err != nil {
		return nil, err
	}
	child.file = resolved
	body, err := co.compose(child, nodes)
	if err != nil {
		return nil, err
	}
	return append(pre, body...), nil
}

// defineBlock lowers a definition body and merges it into cc's defs.
// Merging follows the new definition's mode: replace supersedes,
// append and prepend extend the stored body.
func (co *composer) defineBlock(cc *compCtx, def *DefNode) error {
	body, err := co.compose(cc, def.Nodes)
	if err != nil {
		return err
	}
	old, ok := cc.defs[def.Name]
	if !ok || def.Mode == DefReplace {
		cc.defs[def.Name] = &blockDef{mode: def.Mode, body: body}
		return nil
	}
	switch def.Mode {
	case DefAppend:
		old.body = append(old.body, body...)
	case DefPrepend:
		old.body = append(append([]step{}, body...), old.body...)
	}
	return nil
}

// composeIf lowers the conditional: arms evaluate in the if's own
// scope, and each chosen body runs in a scope nested inside it.
func (co *composer) composeIf(cc *compCtx, n *IfNode) (step, error) {
	arms := make([]ifArm, 0, len(n.When))
	for _, w := range n.When {
		prog, loc, err := co.compileExpr(cc.file, w.Expr, w.Off)
		if err != nil {
			return nil, err
		}
		body, err := co.compose(cc, w.Nodes)
		if err != nil {
			return nil, err
		}
		arms = append(arms, ifArm{prog: prog, expr: w.Expr, loc: loc, body: body})
	}
	otherwise, err := co.compose(cc, n.Otherwise)
	if err != nil {
		return nil, err
	}
	return &stepScope{steps: []step{&stepIf{arms: arms, otherwise: otherwise}}}, nil
}

func (co *composer) compileExpr(file, src string, off int) (Program, Location, error) {
	loc := co.loc(file, off)
	prog, err := co.eval.CompileExpr(src)
	if err != nil {
		return nil, loc, &ExprError{Expr: src, Loc: loc, Cause: err}
	}
	return prog, loc, nil
}

// loc converts a byte offset in file to a line/column location using
// the job's cached source.
func (co *composer) loc(file string, off int) Location {
	src, err := co.job.source(co.ctx, file)
	if err != nil {
		return Location{Path: file}
	}
	line, col := position(src, off)
	return Location{Path: file, Line: line, Col: col}
}
