package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Anchors records which chapters define each id, in book order. It links
// ScopeIDs, which fills it, to RelinkAnchors, which reads it.
type Anchors struct {
	owners map[string][]string // original id -> chapter prefixes
}

// NewAnchors returns an empty record.
func NewAnchors() *Anchors {
	return &Anchors{owners: make(map[string][]string)}
}

func (a *Anchors) add(id, prefix string) {
	for _, p := range a.owners[id] {
		if p == prefix {
			return
		}
	}
	a.owners[id] = append(a.owners[id], prefix)
}

// resolve returns the scoped form of id as seen from the chapter scoped with
// prefix: the chapter's own id first, else the first chapter defining it.
func (a *Anchors) resolve(id, prefix string) (string, bool) {
	owners := a.owners[id]
	if len(owners) == 0 {
		return "", false
	}
	owner := owners[0]
	for _, p := range owners {
		if p == prefix {
			owner = p
			break
		}
	}
	return owner + "-" + id, true
}

// ScopeIDs prefixes every id attribute in a chapter fragment with prefix and
// a hyphen, and records the original ids in anchors when it is non-nil.
// Chapters are rendered separately, so heading and footnote ids would
// otherwise collide once the chapters share a document. Links are left
// alone until every chapter is scoped; see RelinkAnchors.
// An empty prefix returns the fragment unchanged.
func ScopeIDs(fragment, prefix string, anchors *Anchors) (string, error) {
	if prefix == "" {
		return fragment, nil
	}
	return editFragment(fragment, func(el *html.Node) {
		for i, a := range el.Attr {
			if a.Key == "id" && a.Val != "" {
				if anchors != nil {
					anchors.add(a.Val, prefix)
				}
				el.Attr[i].Val = prefix + "-" + a.Val
			}
		}
	})
}

// RelinkAnchors points the same-document links of a chapter scoped with
// prefix at their scoped targets. A target defined in the chapter itself
// wins; otherwise the first chapter defining it is used. Links to ids no
// chapter defines are kept as written.
func RelinkAnchors(fragment, prefix string, anchors *Anchors) (string, error) {
	if anchors == nil || len(anchors.owners) == 0 {
		return fragment, nil
	}
	return editFragment(fragment, func(el *html.Node) {
		if el.DataAtom != atom.A {
			return
		}
		for i, a := range el.Attr {
			if a.Key != "href" || len(a.Val) < 2 || a.Val[0] != '#' {
				continue
			}
			if scoped, ok := anchors.resolve(a.Val[1:], prefix); ok {
				el.Attr[i].Val = "#" + scoped
			}
		}
	})
}

// editFragment parses an HTML body fragment, calls fn on every element and
// renders the result.
func editFragment(fragment string, fn func(*html.Node)) (string, error) {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, n := range nodes {
		walkElements(n, fn)
		if err := html.Render(&sb, n); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
