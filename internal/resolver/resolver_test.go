package resolver_test

import (
	"path/filepath"
	"testing"

	"copyselect/internal/resolver"
)

func TestResolve(t *testing.T) {
	r := resolver.Resolver{Root: "/work/project"}

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"file uri", "file:///work/project/src/main.go", "/work/project/src/main.go", false},
		{"escaped uri", "file:///work/project/my%20notes.md", "/work/project/my notes.md", false},
		{"absolute path", "/tmp/../tmp/x.txt", "/tmp/x.txt", false},
		{"relative path", "docs/readme.md", "/work/project/docs/readme.md", false},
		{"other scheme", "untitled://Untitled-1", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Resolve(%q) = %q, expected error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.in, err)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestURIRoundTrip(t *testing.T) {
	r := resolver.Resolver{Root: "/work"}
	path := "/work/my notes/a.md"

	uri := r.URI(path)
	if uri != "file:///work/my%20notes/a.md" {
		t.Errorf("URI = %q", uri)
	}
	back, err := r.Resolve(string(uri))
	if err != nil {
		t.Fatal(err)
	}
	if back != path {
		t.Errorf("Resolve(URI(p)) = %q, want %q", back, path)
	}
}

func TestRelative(t *testing.T) {
	r := resolver.Resolver{Root: "/work/project"}

	tests := []struct {
		in, want string
	}{
		{"/work/project/a/b.go", "a/b.go"},
		{"/work/project", "."},
		{"/work/other/c.go", "/work/other/c.go"},
		{"/work/project-two/d.go", "/work/project-two/d.go"},
	}
	for _, tt := range tests {
		if got := r.Relative(tt.in); got != tt.want {
			t.Errorf("Relative(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := (resolver.Resolver{}).Relative("/x/y"); got != "/x/y" {
		t.Errorf("Relative without root = %q", got)
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	r, err := resolver.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(r.Root) {
		t.Errorf("Root %q is not absolute", r.Root)
	}
}
