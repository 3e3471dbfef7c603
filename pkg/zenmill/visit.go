package zenmill

import (
	"bytes"
	"fmt"
)

type Visitor interface {
	Visit(n Node) error
}

// Walk applies v to n and its children, depth first.
func Walk(v Visitor, n Node) error {
	if err := v.Visit(n); err != nil {
		return err
	}
	walkAll := func(nodes []Node) error {
		for _, c := range nodes {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
		return nil
	}
	switch t := n.(type) {
	case *IncludeNode:
		return walkAll(t.Children)
	case *DefNode:
		return walkAll(t.Nodes)
	case *BlockNode:
		return walkAll(t.Nodes)
	case *IfNode:
		for _, w := range t.When {
			if err := Walk(v, w); err != nil {
				return err
			}
		}
		return walkAll(t.Otherwise)
	case *WhenNode:
		return walkAll(t.Nodes)
	case *EachNode:
		return walkAll(t.Nodes)
	}
	return nil
}

// Pretty returns a line-oriented string representation of a node list.
func Pretty(nodes []Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		ppNode(&buf, 0, n)
	}
	return buf.String()
}

func ppNode(buf *bytes.Buffer, indent int, n Node) {
	ind := func() {
		for i := 0; i < indent; i++ {
			buf.WriteByte(' ')
		}
	}
	ppAll := func(nodes []Node) {
		for _, c := range nodes {
			ppNode(buf, indent+2, c)
		}
	}
	switch t := n.(type) {
	case *PlainNode:
		ind()
		fmt.Fprintf(buf, "Plain(%q)\n", t.Text)
	case *CommentNode:
		ind()
		fmt.Fprintf(buf, "Comment(%q)\n", t.Content)
	case *ExprNode:
		ind()
		fmt.Fprintf(buf, "Expr(%q escape=%v)\n", t.Expr, t.Escape)
	case *VarNode:
		ind()
		fmt.Fprintf(buf, "Var(%s = %q)\n", t.Name, t.Expr)
	case *IncludeNode:
		ind()
		fmt.Fprintf(buf, "Include(%q)\n", t.File)
		ppAll(t.Children)
	case *InlineNode:
		ind()
		fmt.Fprintf(buf, "Inline(%q escape=%v)\n", t.File, t.Escape)
	case *DefNode:
		ind()
		fmt.Fprintf(buf, "Def(%s %s)\n", t.Mode, t.Name)
		ppAll(t.Nodes)
	case *BlockNode:
		ind()
		fmt.Fprintf(buf, "Block(%s)\n", t.Name)
		ppAll(t.Nodes)
	case *IfNode:
		ind()
		buf.WriteString("If\n")
		for _, w := range t.When {
			ppNode(buf, indent+2, w)
		}
		if t.Otherwise != nil {
			ind()
			buf.WriteString("Otherwise\n")
			ppAll(t.Otherwise)
		}
	case *WhenNode:
		ind()
		fmt.Fprintf(buf, "When(%q)\n", t.Expr)
		ppAll(t.Nodes)
	case *EachNode:
		ind()
		fmt.Fprintf(buf, "Each(%s in %q)\n", t.Name, t.Expr)
		ppAll(t.Nodes)
	}
}
