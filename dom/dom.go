// Package dom defines the contracts for element location across shadow-tree
// boundaries. A Root is one search scope — the document itself or a single
// open shadow tree — and its lookup methods never cross into nested shadow
// trees on their own; the locator functions in this package do the crossing.
//
// Two backends implement these interfaces: htmldom (a parsed static document)
// and livedom (a live Chrome page). The locator and the component dispatcher
// work against the interfaces and do not care which backend is underneath.
package dom

// Root is a search scope: the main document or one open shadow tree.
// All three methods are scoped to this root only — they do not descend
// into shadow trees attached below it.
type Root interface {
	// ElementByID returns the first element in this root whose id
	// attribute equals id, in document order.
	ElementByID(id string) (Element, bool)

	// Query returns every element in this root matching the selector,
	// in document order. An unparsable selector returns an error.
	Query(selector string) ([]Element, error)

	// Elements enumerates every element in this root in document order.
	Elements() []Element
}

// Element is a located node. Implementations must be comparable so that
// callers can check result identity across separate searches.
type Element interface {
	// TagName returns the lowercase tag name.
	TagName() string

	// ID returns the id attribute, or "" if absent.
	ID() string

	// Attr returns the named attribute value.
	Attr(name string) (string, bool)

	// ShadowRoot returns the element's attached shadow tree. Closed
	// shadow trees are never returned: they are unreachable from
	// script, a permanent platform limitation rather than a bug.
	ShadowRoot() (Root, bool)
}

// Match pairs a located element with the root that directly contains it.
// The context may differ from the root a search started at when the match
// was found inside a nested shadow tree. Matches are produced fresh on
// every search and never cached.
type Match struct {
	Element Element
	Context Root
}
