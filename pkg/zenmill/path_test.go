package zenmill

import "testing"

func TestLocalPath(t *testing.T) {
	cases := []struct {
		parent string
		file   string
		want   string
	}{
		{"index.html", "header.html", "header.html"},
		{"sub/page.html", "header.html", "sub/header.html"},
		{"sub/page.html", "../top.html", "top.html"},
		{"sub/page.html", "/abs.html", "abs.html"},
		{"deep/sub/page.html", "/shared/x.html", "shared/x.html"},
		{"a/b.html", "./c.html", "a/c.html"},
		{"index.html", "/..//x.html", "x.html"},
	}
	for _, tc := range cases {
		got, err := localPath(tc.parent, tc.file)
		if err != nil {
			t.Fatalf("localPath(%q, %q): %v", tc.parent, tc.file, err)
		}
		if got != tc.want {
			t.Fatalf("localPath(%q, %q) = %q, want %q", tc.parent, tc.file, got, tc.want)
		}
	}
}

func TestLocalPathOutOfScope(t *testing.T) {
	cases := []struct {
		parent string
		file   string
	}{
		{"index.html", "../x.html"},
		{"sub/page.html", "../../x.html"},
		{"index.html", ".."},
	}
	for _, tc := range cases {
		if _, err := localPath(tc.parent, tc.file); err == nil {
			t.Fatalf("localPath(%q, %q): want OutOfScopeError", tc.parent, tc.file)
		} else if _, ok := err.(*OutOfScopeError); !ok {
			t.Fatalf("localPath(%q, %q): got %T", tc.parent, tc.file, err)
		}
	}
}

func TestRootPath(t *testing.T) {
	got, err := rootPath("/index.html")
	if err != nil || got != "index.html" {
		t.Fatalf("got %q, %v", got, err)
	}
	got, err = rootPath("sub/./page.html")
	if err != nil || got != "sub/page.html" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := rootPath("../escape.html"); err == nil {
		t.Fatal("want OutOfScopeError")
	}
}
