package resolver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"copyselect/internal/cache"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Resolver maps between document URIs and the absolute paths the cache
// keys selections by.
type Resolver struct {
	Root string
}

func New(root string) (Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Resolver{}, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}
	return Resolver{Root: abs}, nil
}

// Resolve turns a file:// URI, an absolute path or a path relative to the
// root into a cleaned absolute path.
func (r Resolver) Resolve(base string) (cache.Path, error) {
	if base == "" {
		return "", fmt.Errorf("empty document reference")
	}

	path := base
	if strings.Contains(base, "://") {
		u, err := url.Parse(base)
		if err != nil {
			return "", err
		}
		if u.Scheme != "file" {
			return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
		}
		path = filepath.FromSlash(u.Path)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Root, path)
	}
	return filepath.Clean(path), nil
}

// URI returns the file:// URI of path.
func (r Resolver) URI(path cache.Path) protocol.DocumentUri {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}
	return protocol.DocumentUri(u.String())
}

// Relative returns path relative to the root, or path itself when it lies
// outside the root.
func (r Resolver) Relative(path cache.Path) string {
	if r.Root == "" {
		return path
	}
	rel, err := filepath.Rel(r.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
