// Package htmldom implements dom.Root and dom.Element over a statically
// parsed HTML document using golang.org/x/net/html.
//
// Shadow trees come from two places: declarative shadow DOM — a
// <template shadowrootmode="open"> (or "closed") child of a host element,
// hoisted out of the light tree at parse time — and programmatic
// AttachShadow calls. Closed shadow trees are stored but never exposed:
// Element.ShadowRoot reports them as absent, so the locator cannot reach
// into them.
package htmldom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/shadowinit/dom"
)

// ShadowMode is the encapsulation mode of a shadow tree.
type ShadowMode string

const (
	ModeOpen   ShadowMode = "open"
	ModeClosed ShadowMode = "closed"
)

// Document is a parsed HTML document with shadow-tree bookkeeping.
// It implements dom.Root for the main (light) tree.
type Document struct {
	root *html.Node

	// shadows maps a host element node to its attached shadow tree.
	// One shadow root per host; re-attachment replaces.
	shadows map[*html.Node]*ShadowRoot
}

// ShadowRoot is a shadow tree attached to a host element. Open roots
// implement dom.Root; closed roots exist here but are unreachable through
// the dom interfaces.
type ShadowRoot struct {
	doc  *Document
	host *html.Node
	frag *html.Node // children of frag are the shadow tree contents
	mode ShadowMode
}

// Parse reads an HTML document and hoists every declarative shadow
// template into an attached shadow tree.
func Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse: %w", err)
	}

	d := &Document{
		root:    node,
		shadows: make(map[*html.Node]*ShadowRoot),
	}
	d.hoistShadowTemplates(node)
	return d, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// hoistShadowTemplates detaches <template shadowrootmode=...> children and
// records them as shadow roots of their host. Templates are hoisted
// bottom-up within each subtree so nested declarative shadow trees inside
// a template body are attached too.
func (d *Document) hoistShadowTemplates(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling

		if mode, ok := shadowTemplateMode(c); ok && n.Type == html.ElementNode {
			n.RemoveChild(c)
			sr := &ShadowRoot{doc: d, host: n, frag: c, mode: mode}
			d.shadows[n] = sr
			d.hoistShadowTemplates(c)
			continue
		}

		d.hoistShadowTemplates(c)
	}
}

func shadowTemplateMode(n *html.Node) (ShadowMode, bool) {
	if n.Type != html.ElementNode || n.DataAtom != atom.Template {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key != "shadowrootmode" {
			continue
		}
		switch ShadowMode(a.Val) {
		case ModeOpen:
			return ModeOpen, true
		case ModeClosed:
			return ModeClosed, true
		}
	}
	return "", false
}

// AttachShadow attaches an empty shadow tree to el and returns it,
// replacing any previously attached tree. The element's light children are
// left in place, matching platform behavior.
func (d *Document) AttachShadow(el Element, mode ShadowMode) *ShadowRoot {
	frag := &html.Node{Type: html.DocumentNode}
	sr := &ShadowRoot{doc: d, host: el.node, frag: frag, mode: mode}
	d.shadows[el.node] = sr
	return sr
}

// SetHTML replaces the shadow tree's contents with the parsed fragment.
// Nested declarative shadow templates inside the fragment are hoisted the
// same way Parse does for the main document.
func (s *ShadowRoot) SetHTML(fragment string) error {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return fmt.Errorf("htmldom: parse shadow fragment: %w", err)
	}

	for s.frag.FirstChild != nil {
		s.frag.RemoveChild(s.frag.FirstChild)
	}
	for _, n := range nodes {
		s.frag.AppendChild(n)
	}
	d := s.doc
	d.hoistShadowTemplates(s.frag)
	return nil
}

// Mode returns the shadow tree's encapsulation mode.
func (s *ShadowRoot) Mode() ShadowMode { return s.mode }

// Host returns the element this shadow tree is attached to.
func (s *ShadowRoot) Host() Element { return Element{node: s.host, doc: s.doc} }

// dom.Root implementation for the main document.

func (d *Document) ElementByID(id string) (dom.Element, bool) {
	return elementByID(d, d.root, id)
}

func (d *Document) Query(selector string) ([]dom.Element, error) {
	return queryScope(d, d.root, selector)
}

func (d *Document) Elements() []dom.Element {
	return collectElements(d, d.root)
}

// dom.Root implementation for an open shadow tree. The methods work on
// closed trees too, but nothing hands a closed tree out through the dom
// interfaces.

func (s *ShadowRoot) ElementByID(id string) (dom.Element, bool) {
	return elementByID(s.doc, s.frag, id)
}

func (s *ShadowRoot) Query(selector string) ([]dom.Element, error) {
	return queryScope(s.doc, s.frag, selector)
}

func (s *ShadowRoot) Elements() []dom.Element {
	return collectElements(s.doc, s.frag)
}

// walkElements visits every element node strictly below scope in document
// order, stopping early when visit returns false. Hoisted shadow fragments
// are not children of their hosts, so the walk never crosses a shadow
// boundary.
func walkElements(scope *html.Node, visit func(*html.Node) bool) bool {
	for c := scope.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if !visit(c) {
				return false
			}
		}
		if !walkElements(c, visit) {
			return false
		}
	}
	return true
}

func elementByID(d *Document, scope *html.Node, id string) (dom.Element, bool) {
	var found *html.Node
	walkElements(scope, func(n *html.Node) bool {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				found = n
				return false
			}
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return Element{node: found, doc: d}, true
}

func collectElements(d *Document, scope *html.Node) []dom.Element {
	var els []dom.Element
	walkElements(scope, func(n *html.Node) bool {
		els = append(els, Element{node: n, doc: d})
		return true
	})
	return els
}
