package dom

// FindByID searches root and every open shadow tree reachable from it for
// an element with the given id, depth-first in document order.
//
// The root is checked directly first. Failing that, every element under the
// root is enumerated; for each one hosting an open shadow tree, that tree is
// checked directly and then descended into with the same algorithm. The
// first match wins silently — if the same id exists in several shadow trees
// the one discovered earliest in traversal order is returned.
//
// Recursion is finite: a shadow tree's host element is never inside its own
// shadow tree, so the reachable graph is acyclic and bounded by node count.
func FindByID(id string, root Root) (Match, bool) {
	if el, ok := root.ElementByID(id); ok {
		return Match{Element: el, Context: root}, true
	}

	for _, el := range root.Elements() {
		shadow, ok := el.ShadowRoot()
		if !ok {
			continue
		}
		if found, ok := shadow.ElementByID(id); ok {
			return Match{Element: found, Context: shadow}, true
		}
		if m, ok := FindByID(id, shadow); ok {
			return m, true
		}
	}

	return Match{}, false
}

// FindAll collects every element matching selector under root and under
// every reachable open shadow tree, in depth-first document-then-shadow
// order. Each descendant's shadow tree is descended into whether or not the
// descendant itself matched. The result is a materialized slice — empty,
// never nil-vs-present ambiguous, and free of duplicates since every
// element lives in exactly one root.
func FindAll(selector string, root Root) ([]Match, error) {
	direct, err := root.Query(selector)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(direct))
	for _, el := range direct {
		matches = append(matches, Match{Element: el, Context: root})
	}

	for _, el := range root.Elements() {
		shadow, ok := el.ShadowRoot()
		if !ok {
			continue
		}
		nested, err := FindAll(selector, shadow)
		if err != nil {
			return nil, err
		}
		matches = append(matches, nested...)
	}

	return matches, nil
}
