package htmldom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/shadowinit/dom"
)

// Element wraps one element node of a Document. It is a small comparable
// value: two Elements are equal exactly when they wrap the same node, so
// results from separate searches can be compared for identity.
type Element struct {
	node *html.Node
	doc  *Document
}

var _ dom.Element = Element{}

func (e Element) TagName() string {
	return strings.ToLower(e.node.Data)
}

func (e Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// ShadowRoot returns the element's attached shadow tree. Closed trees are
// reported as absent: they are unreachable from script on the platform,
// and this backend preserves that.
func (e Element) ShadowRoot() (dom.Root, bool) {
	sr, ok := e.doc.shadows[e.node]
	if !ok || sr.mode != ModeOpen {
		return nil, false
	}
	return sr, true
}

// Text returns the concatenated text content of the element's light tree,
// whitespace-trimmed. Handy for initializers that label themselves from
// their target's content.
func (e Element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return strings.TrimSpace(b.String())
}

// Node exposes the underlying parse node for callers that need to go
// beyond the dom.Element surface.
func (e Element) Node() *html.Node { return e.node }
