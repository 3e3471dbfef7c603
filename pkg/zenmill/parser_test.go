package zenmill

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) []Node {
	t.Helper()
	nodes, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return nodes
}

func TestParsePlainAndInterp(t *testing.T) {
	nodes := mustParse(t, "Hello #{name}!")
	if len(nodes) != 3 {
		t.Fatalf("want 3 nodes, got %d: %s", len(nodes), Pretty(nodes))
	}
	if pn, ok := nodes[0].(*PlainNode); !ok || pn.Text != "Hello " {
		t.Fatalf("node0 not Plain('Hello '): %#v", nodes[0])
	}
	en, ok := nodes[1].(*ExprNode)
	if !ok || en.Expr != "name" || !en.Escape {
		t.Fatalf("node1 not escaped Expr(name): %#v", nodes[1])
	}
	if pn, ok := nodes[2].(*PlainNode); !ok || pn.Text != "!" {
		t.Fatalf("node2 not Plain('!'): %#v", nodes[2])
	}
}

func TestParseInterpKinds(t *testing.T) {
	cases := []struct {
		src    string
		escape bool
	}{
		{"#{x}", true},
		{"${x}", true},
		{"!{x}", false},
	}
	for _, tc := range cases {
		nodes := mustParse(t, tc.src)
		en, ok := nodes[0].(*ExprNode)
		if !ok {
			t.Fatalf("%s: not an ExprNode: %#v", tc.src, nodes[0])
		}
		if en.Escape != tc.escape {
			t.Fatalf("%s: escape = %v, want %v", tc.src, en.Escape, tc.escape)
		}
	}
}

func TestParseHashWithoutBraceIsPlain(t *testing.T) {
	nodes := mustParse(t, "a # b ! c $ d")
	if len(nodes) != 1 {
		t.Fatalf("want 1 plain node, got %s", Pretty(nodes))
	}
	if pn := nodes[0].(*PlainNode); pn.Text != "a # b ! c $ d" {
		t.Fatalf("got %q", pn.Text)
	}
}

func TestParseUnknownTagIsPlain(t *testing.T) {
	nodes := mustParse(t, "<div>a < b</div><blocky>")
	if len(nodes) != 1 {
		t.Fatalf("want 1 plain node, got %s", Pretty(nodes))
	}
}

func TestParseComment(t *testing.T) {
	nodes := mustParse(t, "a<!-- hi -->b")
	cn, ok := nodes[1].(*CommentNode)
	if !ok || cn.Content != " hi " {
		t.Fatalf("node1 not Comment(' hi '): %#v", nodes[1])
	}
}

func TestParseUnterminatedComment(t *testing.T) {
	_, err := Parse("a<!-- hi")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("want SyntaxError, got %v", err)
	}
	if len(se.Expected) == 0 || se.Expected[0] != "'-->'" {
		t.Fatalf("expected set: %v", se.Expected)
	}
}

func TestParseIncludeSelfClosing(t *testing.T) {
	nodes := mustParse(t, "<include file='a.html'/>")
	in, ok := nodes[0].(*IncludeNode)
	if !ok || in.File != "a.html" || len(in.Children) != 0 {
		t.Fatalf("got %#v", nodes[0])
	}
}

func TestParseIncludeChildren(t *testing.T) {
	src := `<include file="layout.html">
		<def:title>T</def:title>
		<append:body>B</append:body>
		<var:x>1</var:x>
	</include>`
	nodes := mustParse(t, src)
	in := nodes[0].(*IncludeNode)
	if len(in.Children) != 3 {
		t.Fatalf("want 3 children, got %s", Pretty(in.Children))
	}
	if d := in.Children[0].(*DefNode); d.Name != "title" || d.Mode != DefReplace {
		t.Fatalf("child0: %#v", d)
	}
	if d := in.Children[1].(*DefNode); d.Name != "body" || d.Mode != DefAppend {
		t.Fatalf("child1: %#v", d)
	}
	if v := in.Children[2].(*VarNode); v.Name != "x" || v.Expr != "1" {
		t.Fatalf("child2: %#v", v)
	}
}

func TestParseIncludeRejectsStrayContent(t *testing.T) {
	_, err := Parse("<include file='a.html'>stray</include>")
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("want SyntaxError, got %v", err)
	}
}

func TestParseInlinePrefix(t *testing.T) {
	nodes := mustParse(t, "<inline file='!raw.svg'/><inline file='esc.svg'/>")
	a := nodes[0].(*InlineNode)
	if a.File != "raw.svg" || a.Escape {
		t.Fatalf("got %#v", a)
	}
	b := nodes[1].(*InlineNode)
	if b.File != "esc.svg" || !b.Escape {
		t.Fatalf("got %#v", b)
	}
}

func TestParseBlockForms(t *testing.T) {
	nodes := mustParse(t, "<block:side/><block:main>default</block:main>")
	if b := nodes[0].(*BlockNode); b.Name != "side" || len(b.Nodes) != 0 {
		t.Fatalf("got %#v", nodes[0])
	}
	b := nodes[1].(*BlockNode)
	if b.Name != "main" || len(b.Nodes) != 1 {
		t.Fatalf("got %#v", b)
	}
}

func TestParseBlockNameMismatch(t *testing.T) {
	_, err := Parse("<block:a>x</block:b>")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("want SyntaxError, got %v", err)
	}
	if want := "'</block:a>'"; len(se.Expected) == 0 || se.Expected[0] != want {
		t.Fatalf("expected %s, got %v", want, se.Expected)
	}
}

func TestParseEachNameMismatch(t *testing.T) {
	_, err := Parse(`<each:x in="xs">y</each:y>`)
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("want SyntaxError, got %v", err)
	}
}

func TestParseVarBalancedBraces(t *testing.T) {
	nodes := mustParse(t, `<var:m>{a: 1, b: "<tag>"}</var:m>`)
	v := nodes[0].(*VarNode)
	if v.Expr != `{a: 1, b: "<tag>"}` {
		t.Fatalf("got %q", v.Expr)
	}
}

func TestParseStandaloneIf(t *testing.T) {
	nodes := mustParse(t, `<if expr="ok">yes</if>`)
	n := nodes[0].(*IfNode)
	if len(n.When) != 1 || n.When[0].Expr != "ok" || n.Otherwise != nil {
		t.Fatalf("got %s", Pretty(nodes))
	}
}

func TestParseCompoundIf(t *testing.T) {
	src := `<if>
		<when expr="a">A</when>
		<when expr="b">B</when>
		<otherwise>C</otherwise>
	</if>`
	nodes := mustParse(t, src)
	n := nodes[0].(*IfNode)
	if len(n.When) != 2 || n.When[1].Expr != "b" {
		t.Fatalf("got %s", Pretty(nodes))
	}
	if len(n.Otherwise) != 1 {
		t.Fatalf("otherwise missing: %s", Pretty(nodes))
	}
}

func TestParseCompoundIfRequiresWhen(t *testing.T) {
	_, err := Parse("<if></if>")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("want SyntaxError, got %v", err)
	}
	found := false
	for _, e := range se.Expected {
		if e == "'<when'" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected set %v lacks '<when'", se.Expected)
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("line one\n<var:x>1")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("want SyntaxError, got %v", err)
	}
	if se.Line != 2 {
		t.Fatalf("line = %d, want 2", se.Line)
	}
}

func TestPositionLineBreaks(t *testing.T) {
	cases := []struct {
		src  string
		off  int
		line int
		col  int
	}{
		{"abc", 2, 1, 3},
		{"a\nb", 2, 2, 1},
		{"a\r\nb", 3, 2, 1},
		{"a\n\rb", 3, 2, 1},
		{"a\u2028b", 4, 2, 1},
	}
	for _, tc := range cases {
		line, col := position(tc.src, tc.off)
		if line != tc.line || col != tc.col {
			t.Fatalf("%q@%d: got %d:%d, want %d:%d", tc.src, tc.off, line, col, tc.line, tc.col)
		}
	}
}

func TestParseTrailingCloserRejected(t *testing.T) {
	_, err := Parse("text</if>")
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("want SyntaxError, got %v", err)
	}
}

func TestPrettyDump(t *testing.T) {
	nodes := mustParse(t, "<block:a>#{x}</block:a>")
	s := Pretty(nodes)
	if !strings.Contains(s, "Block(a)") || !strings.Contains(s, "Expr(") {
		t.Fatalf("unexpected dump:\n%s", s)
	}
}

func TestWalkVisitsAll(t *testing.T) {
	nodes := mustParse(t, `<if expr="a"><each:x in="xs">#{x}</each:x></if>`)
	var count int
	v := countVisitor{&count}
	for _, n := range nodes {
		if err := Walk(v, n); err != nil {
			t.Fatalf("walk: %v", err)
		}
	}
	// If, When, Each, Expr
	if count != 4 {
		t.Fatalf("visited %d nodes, want 4", count)
	}
}

type countVisitor struct{ n *int }

func (v countVisitor) Visit(Node) error {
	*v.n++
	return nil
}
