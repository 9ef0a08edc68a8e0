package weblog

import (
	"net/url"
	"strings"
)

// BuildFullURL resolves path against root with standard URL-join semantics.
//
// An empty path returns root unchanged. root is given a trailing slash
// before resolution so its last segment is treated as a directory; an
// absolute path replaces root's path entirely while a relative path is
// appended under it. Unparsable inputs fall back to the raw values: a bad
// root yields path, a bad path yields root.
func BuildFullURL(path, root string) string {
	if path == "" {
		return root
	}

	base, err := url.Parse(strings.TrimRight(root, "/") + "/")
	if err != nil {
		return path
	}

	ref, err := url.Parse(path)
	if err != nil {
		return root
	}

	return base.ResolveReference(ref).String()
}
