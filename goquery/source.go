// Package goquery provides a postvault.DocumentSource backed by parsed HTML.
// It serves both fetched pages and post fragments captured in the browser.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/koomastudio/postvault"
)

// Ensure Source implements postvault.DocumentSource at compile time.
var _ postvault.DocumentSource = (*Source)(nil)

// Source is a DocumentSource over an HTML string.
type Source struct {
	doc    *goquery.Document
	markup string
}

// NewSource parses markup into a queryable source.
func NewSource(markup string) (*Source, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, postvault.Errorf(postvault.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Source{doc: doc, markup: markup}, nil
}

// Select returns all nodes matching the CSS selector in document order.
func (s *Source) Select(selector string) []postvault.Node {
	return wrapSelections(s.doc.Find(selector))
}

// Markup returns the original markup the source was parsed from.
func (s *Source) Markup() string {
	return s.markup
}

// node wraps a single-element goquery selection.
type node struct {
	sel *goquery.Selection
}

var _ postvault.Node = (*node)(nil)

// Attr returns the value of the named attribute and whether it exists.
func (n *node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// Text returns the node's text content with surrounding whitespace trimmed.
func (n *node) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

// Markup returns the node's outer HTML.
func (n *node) Markup() string {
	html, err := goquery.OuterHtml(n.sel)
	if err != nil {
		return ""
	}
	return html
}

// Select returns all descendant nodes matching the CSS selector.
func (n *node) Select(selector string) []postvault.Node {
	return wrapSelections(n.sel.Find(selector))
}

// Parent returns the node's parent element, if any.
func (n *node) Parent() (postvault.Node, bool) {
	parent := n.sel.Parent()
	if parent.Length() == 0 {
		return nil, false
	}
	return &node{sel: parent}, true
}

func wrapSelections(sel *goquery.Selection) []postvault.Node {
	nodes := make([]postvault.Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &node{sel: s})
	})
	return nodes
}
