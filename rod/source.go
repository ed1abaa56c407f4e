package rod

import (
	"github.com/go-rod/rod"
	"github.com/koomastudio/postvault"
)

// Ensure Source implements postvault.DocumentSource at compile time.
var _ postvault.DocumentSource = (*Source)(nil)

// Source is a DocumentSource over a live browser page. Query failures read
// as misses, per the DocumentSource contract, so a page that navigates away
// mid-extraction degrades to a soft extraction failure instead of an error.
type Source struct {
	page *rod.Page
}

// NewSource wraps an open page as a queryable source.
func NewSource(page *rod.Page) *Source {
	return &Source{page: page}
}

// Select returns all nodes matching the CSS selector in document order.
func (s *Source) Select(selector string) []postvault.Node {
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil
	}
	return wrapElements(els)
}

// Markup returns the page's current HTML.
func (s *Source) Markup() string {
	html, err := s.page.HTML()
	if err != nil {
		return ""
	}
	return html
}

// node wraps a live page element.
type node struct {
	el *rod.Element
}

var _ postvault.Node = (*node)(nil)

// Attr returns the value of the named attribute and whether it exists.
func (n *node) Attr(name string) (string, bool) {
	v, err := n.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

// Text returns the element's visible text.
func (n *node) Text() string {
	text, err := n.el.Text()
	if err != nil {
		return ""
	}
	return text
}

// Markup returns the element's outer HTML.
func (n *node) Markup() string {
	html, err := n.el.HTML()
	if err != nil {
		return ""
	}
	return html
}

// Select returns all descendant nodes matching the CSS selector.
func (n *node) Select(selector string) []postvault.Node {
	els, err := n.el.Elements(selector)
	if err != nil {
		return nil
	}
	return wrapElements(els)
}

// Parent returns the element's parent, if any.
func (n *node) Parent() (postvault.Node, bool) {
	parent, err := n.el.Parent()
	if err != nil || parent == nil {
		return nil, false
	}
	return &node{el: parent}, true
}

func wrapElements(els rod.Elements) []postvault.Node {
	nodes := make([]postvault.Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, &node{el: el})
	}
	return nodes
}
