// Package goquery implements HTML inspection of archive pages with goquery.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/zimjson"
	"golang.org/x/net/html"
)

// Ensure Inspector implements zimjson.Inspector at compile time.
var _ zimjson.Inspector = (*Inspector)(nil)

// Inspector detects meta-refresh redirects, extracts the main fragment of a
// page and harvests its category and image references.
// The underlying parser is the HTML5 tree builder, so malformed markup
// degrades to a best-effort tree instead of an error.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// IsMetaRefresh reports whether the document has a refresh <meta> with
// content. All <meta> elements are considered, not only those in <head>.
func (i *Inspector) IsMetaRefresh(s string) bool {
	doc, err := parse(s)
	if err != nil {
		return false
	}

	found := false
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		equiv, _ := sel.Attr("http-equiv")
		if !strings.EqualFold(equiv, "refresh") {
			return true
		}
		if content, _ := sel.Attr("content"); content != "" {
			found = true
			return false
		}
		return true
	})
	return found
}

// MainFragment returns the trimmed inner HTML of the first <main> element.
func (i *Inspector) MainFragment(s string) string {
	doc, err := parse(s)
	if err != nil {
		return ""
	}

	main := doc.Find("main").First()
	if main.Length() == 0 {
		return ""
	}

	inner, err := renderChildren(main.Nodes[0])
	if err != nil {
		return ""
	}
	return strings.TrimSpace(inner)
}

// HarvestLinks collects the category references of all anchors and the
// sources of all images in the fragment. Leading slashes, queries and
// fragments are stripped; duplicates keep their first position.
func (i *Inspector) HarvestLinks(fragment string) *zimjson.Links {
	links := zimjson.NewLinks()

	doc, err := parse(fragment)
	if err != nil {
		return links
	}

	categories := newOrderedSet()
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimPrefix(strings.TrimSpace(href), "/")
		if !strings.HasPrefix(href, "Category/") {
			return
		}
		categories.add(stripQueryAndFragment(href))
	})

	images := newOrderedSet()
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		src = strings.TrimPrefix(strings.TrimSpace(src), "/")
		images.add(stripQueryAndFragment(src))
	})

	links.CategoryPaths = categories.items
	links.ImagePaths = images.items
	return links
}

func parse(s string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(s))
}

// renderChildren serializes the children of n, which is the inner HTML of n.
func renderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// stripQueryAndFragment truncates a reference at its first '#' or '?'.
func stripQueryAndFragment(ref string) string {
	if i := strings.IndexAny(ref, "#?"); i >= 0 {
		return ref[:i]
	}
	return ref
}

// orderedSet keeps non-empty strings in insertion order without duplicates.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
