package accordion

import (
	"strings"
	"testing"

	"github.com/hazyhaar/shadowinit/htmldom"
)

const markup = `<html><body>
	<div id="faq" data-accordion="collapse">
		<h2><button id="t1" data-accordion-target="#faq-1" aria-expanded="true">One</button></h2>
		<div id="faq-1">first body</div>
		<h2><button id="t2" data-accordion-target="#faq-2" aria-expanded="false">Two</button></h2>
		<div id="faq-2">second body</div>
		<h2><button id="t3" data-accordion-target="#missing-body">Three</button></h2>
	</div>
	<div id="empty"></div>
</body></html>`

func container(t *testing.T, id string) (htmldom.Element, *htmldom.Document) {
	t.Helper()
	doc, err := htmldom.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	el, ok := doc.ElementByID(id)
	if !ok {
		t.Fatalf("container %q not found", id)
	}
	return el.(htmldom.Element), doc
}

func TestNew_WiresTriggerBodyPairs(t *testing.T) {
	el, doc := container(t, "faq")

	a, err := New(el, doc, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	items := a.Items()
	// The trigger with a missing body is skipped without error.
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Trigger.ID() != "t1" || items[0].Body.ID() != "faq-1" {
		t.Fatalf("item 0 wired wrong: %s -> %s", items[0].Trigger.ID(), items[0].Body.ID())
	}
	if !items[0].Open() {
		t.Fatal("aria-expanded=true item should start open")
	}
	if items[1].Open() {
		t.Fatal("aria-expanded=false item should start closed")
	}
}

func TestNew_NoItemsIsAnError(t *testing.T) {
	el, doc := container(t, "empty")
	if _, err := New(el, doc, Options{}); err == nil {
		t.Fatal("expected error for a container with no items")
	}
}

func TestToggle_CollapseMode(t *testing.T) {
	el, doc := container(t, "faq")
	a, err := New(el, doc, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	a.Toggle(1)
	if a.Items()[0].Open() {
		t.Fatal("collapse mode should close siblings")
	}
	if !a.Items()[1].Open() {
		t.Fatal("toggled item should open")
	}

	a.Toggle(1)
	if a.Items()[1].Open() {
		t.Fatal("second toggle should close the item")
	}
}

func TestToggle_AlwaysOpen(t *testing.T) {
	el, doc := container(t, "faq")
	a, err := New(el, doc, Options{AlwaysOpen: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	a.Toggle(1)
	if !a.Items()[0].Open() || !a.Items()[1].Open() {
		t.Fatal("always-open mode should keep siblings open")
	}

	a.CloseItem(0)
	if a.Items()[0].Open() {
		t.Fatal("close should collapse item 0")
	}
}

func TestProbe_ClaimsOnlyAccordionNames(t *testing.T) {
	el, doc := container(t, "faq")
	probe := Probe(nil)

	if _, ok := probe("carousel", el, doc, nil); ok {
		t.Fatal("probe claimed a foreign type")
	}

	v, ok := probe("accordion", el, doc, map[string]any{"alwaysOpen": true})
	if !ok {
		t.Fatal("probe declined its own type")
	}
	a, isAcc := v.(*Accordion)
	if !isAcc {
		t.Fatalf("got %T", v)
	}
	if !a.opts.AlwaysOpen {
		t.Fatal("options map not decoded")
	}

	if _, ok := probe("flowbite-accordion", el, doc, nil); !ok {
		t.Fatal("probe declined its alias")
	}
}

func TestProbe_FailedWiringReportsAbsent(t *testing.T) {
	el, doc := container(t, "empty")
	probe := Probe(nil)

	if _, ok := probe("accordion", el, doc, nil); ok {
		t.Fatal("probe claimed a container it could not wire")
	}
}
