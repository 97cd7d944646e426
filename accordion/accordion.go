// Package accordion is the bundled convenience initializer for
// Flowbite-style accordion markup. It is a collaborator of the component
// dispatcher, not part of it: the Probe below plugs into the dispatcher's
// fallback chain and claims the names "accordion" and "flowbite-accordion".
//
// Expected markup is the Flowbite convention — trigger elements carrying
// data-accordion-target="#body-id" with aria-expanded reflecting the
// initial state, body elements found by id in the same tree:
//
//	<div id="faq" data-accordion="collapse">
//	  <h2><button data-accordion-target="#faq-1" aria-expanded="true">…</button></h2>
//	  <div id="faq-1">…</div>
//	</div>
package accordion

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/shadowinit/dom"
)

const triggerAttr = "data-accordion-target"

// Options controls accordion behavior.
type Options struct {
	// AlwaysOpen keeps other items open when one is toggled. The default
	// (collapse mode) closes every sibling when an item opens.
	AlwaysOpen bool
}

// Item is one trigger/body pair of an accordion.
type Item struct {
	Trigger dom.Element
	Body    dom.Element
	open    bool
}

// Open reports whether the item is currently expanded.
func (it *Item) Open() bool { return it.open }

// Accordion tracks the expand/collapse state of the items found under a
// container. It never mutates the document; consumers read item state and
// render accordingly.
type Accordion struct {
	container dom.Element
	items     []*Item
	opts      Options
}

// New wires up an accordion on container. Triggers are located by scoped
// query inside the container (or root-wide when the container has no id),
// and each trigger's target body is resolved by id within root. A trigger
// whose body is missing is skipped with no error; a container yielding no
// items at all is an error.
func New(container dom.Element, root dom.Root, opts Options) (*Accordion, error) {
	selector := "[" + triggerAttr + "]"
	if id := container.ID(); id != "" {
		selector = "#" + id + " " + selector
	}

	triggers, err := root.Query(selector)
	if err != nil {
		return nil, fmt.Errorf("accordion: query triggers: %w", err)
	}

	a := &Accordion{container: container, opts: opts}
	for _, trig := range triggers {
		target, _ := trig.Attr(triggerAttr)
		bodyID := strings.TrimPrefix(target, "#")
		if bodyID == "" {
			continue
		}
		body, ok := root.ElementByID(bodyID)
		if !ok {
			continue
		}
		expanded, _ := trig.Attr("aria-expanded")
		a.items = append(a.items, &Item{
			Trigger: trig,
			Body:    body,
			open:    expanded == "true",
		})
	}

	if len(a.items) == 0 {
		return nil, fmt.Errorf("accordion: no items under %q", container.ID())
	}
	return a, nil
}

// Items returns the wired trigger/body pairs in document order.
func (a *Accordion) Items() []*Item { return a.items }

// Toggle flips item i, collapsing siblings unless AlwaysOpen is set.
func (a *Accordion) Toggle(i int) {
	if i < 0 || i >= len(a.items) {
		return
	}
	if a.items[i].open {
		a.items[i].open = false
		return
	}
	a.OpenItem(i)
}

// OpenItem expands item i, collapsing siblings unless AlwaysOpen is set.
func (a *Accordion) OpenItem(i int) {
	if i < 0 || i >= len(a.items) {
		return
	}
	if !a.opts.AlwaysOpen {
		for _, it := range a.items {
			it.open = false
		}
	}
	a.items[i].open = true
}

// CloseItem collapses item i.
func (a *Accordion) CloseItem(i int) {
	if i < 0 || i >= len(a.items) {
		return
	}
	a.items[i].open = false
}

// Probe adapts this package to the dispatcher's fallback contract. It
// claims "accordion" and "flowbite-accordion" and passes on every other
// name. A claimed type that fails to wire is reported absent so the
// dispatcher falls through to its unknown-type handling; the cause is
// logged here as a warning.
func Probe(logger *slog.Logger) func(componentType string, el dom.Element, root dom.Root, options any) (any, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(componentType string, el dom.Element, root dom.Root, options any) (any, bool) {
		switch componentType {
		case "accordion", "flowbite-accordion":
		default:
			return nil, false
		}

		a, err := New(el, root, decodeOptions(options))
		if err != nil {
			logger.Warn("accordion: fallback init failed",
				"type", componentType, "id", el.ID(), "error", err)
			return nil, false
		}
		return a, true
	}
}

// decodeOptions accepts the dispatcher's opaque options value as either an
// Options struct or the loosely-typed map a config file produces.
func decodeOptions(v any) Options {
	switch o := v.(type) {
	case Options:
		return o
	case *Options:
		if o != nil {
			return *o
		}
	case map[string]any:
		always, _ := o["alwaysOpen"].(bool)
		return Options{AlwaysOpen: always}
	}
	return Options{}
}
