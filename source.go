package postvault

// Node is a single element within a structured document.
//
// Implementations swallow their transport errors: a failed lookup reads as an
// absent attribute or empty text, which the extraction strategies treat as a
// miss. This keeps strategy logic identical across a parsed HTML string and a
// live browser page.
type Node interface {
	// Attr returns the value of the named attribute and whether it exists.
	Attr(name string) (string, bool)

	// Text returns the node's visible text content.
	Text() string

	// Markup returns the node's markup, including its own tags. Text
	// cleanup runs over markup so line-break tags survive into newlines.
	Markup() string

	// Select returns all descendant nodes matching the CSS selector.
	Select(selector string) []Node

	// Parent returns the node's parent element, if any.
	Parent() (Node, bool)
}

// DocumentSource provides uniform lookup over a structured document. It
// performs no extraction logic itself; strategies are written once against
// this interface and run unchanged over both document representations.
type DocumentSource interface {
	// Select returns all nodes matching the CSS selector in document order.
	Select(selector string) []Node

	// Markup returns the document's raw markup, used for keyword and class
	// presence checks that don't map onto a selector.
	Markup() string
}

// ClimbAttr walks from node up through at most maxDepth ancestors. At each
// level it reads the first present of the named attributes and returns the
// value if match accepts it; a rejected value is climbed past without
// consulting the remaining names on that level. A nil match accepts any
// non-empty value.
func ClimbAttr(node Node, maxDepth int, match func(string) bool, names ...string) (string, bool) {
	if match == nil {
		match = func(v string) bool { return v != "" }
	}
	for i := 0; i <= maxDepth && node != nil; i++ {
		for _, name := range names {
			v, ok := node.Attr(name)
			if !ok {
				continue
			}
			if match(v) {
				return v, true
			}
			break
		}
		parent, ok := node.Parent()
		if !ok {
			break
		}
		node = parent
	}
	return "", false
}
