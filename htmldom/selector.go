package htmldom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/hazyhaar/shadowinit/dom"
)

// The selector engine supports the subset the query surface needs:
//
//   - tag:            "div", "article"
//   - universal:      "*"
//   - id:             "#main"
//   - class:          ".accordion"
//   - attribute:      "[data-accordion]", "[role=main]", `[role="main"]`
//   - compounds:      "div#main.content[data-x=1]"
//   - descendants:    "article .body" (space combinator)
//   - groups:         "h2, h3" (comma-separated)
//
// Anything else is a parse error. Matching is per-element against a full
// walk of the scope, so results are in document order and duplicate-free
// even when several ancestors could satisfy a descendant chain.

type attrCond struct {
	key    string
	val    string
	hasVal bool
}

type compound struct {
	tag     string // "" or "*" matches any tag
	id      string
	classes []string
	attrs   []attrCond
}

// queryScope evaluates selector against every element below scope.
func queryScope(d *Document, scope *html.Node, selector string) ([]dom.Element, error) {
	groups, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}

	var out []dom.Element
	walkElements(scope, func(n *html.Node) bool {
		for _, chain := range groups {
			if chainMatches(chain, n, scope) {
				out = append(out, Element{node: n, doc: d})
				break
			}
		}
		return true
	})
	return out, nil
}

// parseSelector splits comma groups, each group being a descendant chain
// of compound selectors.
func parseSelector(selector string) ([][]compound, error) {
	var groups [][]compound
	for _, part := range strings.Split(selector, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			return nil, fmt.Errorf("htmldom: empty selector in %q", selector)
		}
		chain := make([]compound, 0, len(fields))
		for _, f := range fields {
			c, err := parseCompound(f)
			if err != nil {
				return nil, err
			}
			chain = append(chain, c)
		}
		groups = append(groups, chain)
	}
	return groups, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	rest := s

	// Leading tag name (or *).
	if i := strings.IndexAny(rest, "#.["); i != 0 {
		if i < 0 {
			c.tag = rest
			rest = ""
		} else {
			c.tag = rest[:i]
			rest = rest[i:]
		}
	}

	for rest != "" {
		switch rest[0] {
		case '#':
			name, rem := takeName(rest[1:])
			if name == "" {
				return compound{}, fmt.Errorf("htmldom: bad id selector in %q", s)
			}
			c.id = name
			rest = rem
		case '.':
			name, rem := takeName(rest[1:])
			if name == "" {
				return compound{}, fmt.Errorf("htmldom: bad class selector in %q", s)
			}
			c.classes = append(c.classes, name)
			rest = rem
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return compound{}, fmt.Errorf("htmldom: unterminated attribute selector in %q", s)
			}
			body := rest[1:end]
			rest = rest[end+1:]
			cond := attrCond{key: body}
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				cond.key = body[:eq]
				cond.val = strings.Trim(body[eq+1:], `"'`)
				cond.hasVal = true
			}
			if cond.key == "" {
				return compound{}, fmt.Errorf("htmldom: empty attribute name in %q", s)
			}
			c.attrs = append(c.attrs, cond)
		default:
			return compound{}, fmt.Errorf("htmldom: unsupported selector syntax %q", s)
		}
	}

	return c, nil
}

// takeName consumes an identifier: everything up to the next delimiter.
func takeName(s string) (name, rest string) {
	i := strings.IndexAny(s, "#.[")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// chainMatches reports whether n satisfies the descendant chain within
// scope: the last compound matches n itself and each earlier compound
// matches some strict ancestor of the previous match, never escaping scope.
func chainMatches(chain []compound, n *html.Node, scope *html.Node) bool {
	if !matchCompound(chain[len(chain)-1], n) {
		return false
	}
	i := len(chain) - 2
	for anc := n.Parent; i >= 0 && anc != nil && anc != scope; anc = anc.Parent {
		if anc.Type == html.ElementNode && matchCompound(chain[i], anc) {
			i--
		}
	}
	return i < 0
}

func matchCompound(c compound, n *html.Node) bool {
	if c.tag != "" && c.tag != "*" && !strings.EqualFold(c.tag, n.Data) {
		return false
	}
	if c.id != "" && attrValue(n, "id") != c.id {
		return false
	}
	for _, cls := range c.classes {
		if !hasClass(n, cls) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := lookupAttr(n, a.key)
		if !ok {
			return false
		}
		if a.hasVal && v != a.val {
			return false
		}
	}
	return true
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrValue(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attrValue(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}
