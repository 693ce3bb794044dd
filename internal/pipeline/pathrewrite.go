package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// resourceAttrs maps elements to the attribute naming a resource.
var resourceAttrs = map[atom.Atom]string{
	atom.Img:    "src",
	atom.A:      "href",
	atom.Audio:  "src",
	atom.Video:  "src",
	atom.Source: "src",
}

// RewriteRelativePaths turns relative resource references in a chapter
// fragment into file:// URLs resolved against sourceDir. References that
// resolve outside rootDir are left as written; an empty rootDir means
// sourceDir. URLs, anchors and absolute paths are never touched.
// With an empty sourceDir the fragment is returned unchanged.
func RewriteRelativePaths(fragment, sourceDir, rootDir string) (string, error) {
	if sourceDir == "" {
		return fragment, nil
	}

	base, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	root := base
	if rootDir != "" {
		if root, err = filepath.Abs(rootDir); err != nil {
			return "", err
		}
	}

	return editFragment(fragment, func(el *html.Node) {
		attr, ok := resourceAttrs[el.DataAtom]
		if !ok {
			return
		}
		for i := range el.Attr {
			if el.Attr[i].Key == attr {
				el.Attr[i].Val = resolveResource(el.Attr[i].Val, base, root)
			}
		}
	})
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

// resolveResource returns the file:// form of a relative reference, or ref
// unchanged when it is not a local relative path under root.
func resolveResource(ref, base, root string) string {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return ref
	}
	if filepath.IsAbs(u.Path) || filepath.VolumeName(u.Path) != "" {
		return ref
	}

	target := filepath.Join(base, filepath.FromSlash(u.Path))
	if !isPathUnderDir(target, root) {
		return ref
	}

	out := url.URL{Scheme: "file", Path: filepath.ToSlash(target), RawQuery: u.RawQuery, Fragment: u.Fragment}
	if !strings.HasPrefix(out.Path, "/") {
		out.Path = "/" + out.Path // drive letter paths: file:///C:/...
	}
	return out.String()
}

// isPathUnderDir reports whether path is dir or inside it.
func isPathUnderDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// FileURL returns the file:// URL of path, made absolute first.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String()
}
