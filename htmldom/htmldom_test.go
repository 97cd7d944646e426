package htmldom

import (
	"strings"
	"testing"

	"github.com/hazyhaar/shadowinit/dom"
)

const fixture = `<!DOCTYPE html>
<html><body>
<div id="app">
  <my-widget id="host" class="widget">
    <template shadowrootmode="open">
      <div id="inner" class="pane">
        <nested-box id="nested-host">
          <template shadowrootmode="open">
            <span id="deep" class="leaf">deep text</span>
          </template>
        </nested-box>
      </div>
    </template>
    <p id="light-child">light</p>
  </my-widget>
  <secret-box id="vault-host">
    <template shadowrootmode="closed">
      <span id="vault">hidden</span>
    </template>
  </secret-box>
</div>
</body></html>`

func parseFixture(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestParse_HoistsDeclarativeShadowTemplates(t *testing.T) {
	doc := parseFixture(t, fixture)

	// Shadow contents must not be reachable through the light tree.
	if _, ok := doc.ElementByID("inner"); ok {
		t.Fatal("shadow content visible in light tree")
	}
	if _, ok := doc.ElementByID("deep"); ok {
		t.Fatal("nested shadow content visible in light tree")
	}

	// Light children of the host stay in place.
	if _, ok := doc.ElementByID("light-child"); !ok {
		t.Fatal("light child lost during hoisting")
	}

	host, ok := doc.ElementByID("host")
	if !ok {
		t.Fatal("host not found")
	}
	shadow, ok := host.ShadowRoot()
	if !ok {
		t.Fatal("open shadow root not attached")
	}
	if _, ok := shadow.ElementByID("inner"); !ok {
		t.Fatal("shadow root missing its content")
	}

	// The nested host lives inside the first shadow tree.
	nestedHost, ok := shadow.ElementByID("nested-host")
	if !ok {
		t.Fatal("nested host not in outer shadow tree")
	}
	nested, ok := nestedHost.ShadowRoot()
	if !ok {
		t.Fatal("nested shadow root not attached")
	}
	if _, ok := nested.ElementByID("deep"); !ok {
		t.Fatal("nested shadow root missing its content")
	}
}

func TestParse_ClosedShadowRootInvisible(t *testing.T) {
	doc := parseFixture(t, fixture)

	vaultHost, ok := doc.ElementByID("vault-host")
	if !ok {
		t.Fatal("vault host not found")
	}
	if _, ok := vaultHost.ShadowRoot(); ok {
		t.Fatal("closed shadow root must not be exposed")
	}
	if m, ok := dom.FindByID("vault", doc); ok {
		t.Fatalf("element inside closed shadow root located: %v", m.Element.ID())
	}
}

func TestElements_DoNotCrossShadowBoundary(t *testing.T) {
	doc := parseFixture(t, fixture)
	for _, el := range doc.Elements() {
		switch el.ID() {
		case "inner", "deep", "vault", "nested-host":
			t.Fatalf("enumeration crossed a shadow boundary: %s", el.ID())
		}
	}
}

func TestAttachShadow_AndSetHTML(t *testing.T) {
	doc := parseFixture(t, `<html><body><div id="target"></div></body></html>`)

	el, ok := doc.ElementByID("target")
	if !ok {
		t.Fatal("target not found")
	}
	sr := doc.AttachShadow(el.(Element), ModeOpen)
	if sr.Mode() != ModeOpen {
		t.Fatalf("mode: got %q", sr.Mode())
	}
	if sr.Host() != el.(Element) {
		t.Fatal("host should be the attach target")
	}
	if err := sr.SetHTML(`<span id="prog" class="x">hi</span>`); err != nil {
		t.Fatalf("set html: %v", err)
	}

	m, ok := dom.FindByID("prog", doc)
	if !ok {
		t.Fatal("programmatic shadow content not located")
	}
	if m.Context != dom.Root(sr) {
		t.Fatal("context should be the attached shadow root")
	}

	// Re-attachment replaces; closed mode hides the new tree.
	closed := doc.AttachShadow(el.(Element), ModeClosed)
	if err := closed.SetHTML(`<span id="gone"></span>`); err != nil {
		t.Fatalf("set html: %v", err)
	}
	if _, ok := dom.FindByID("gone", doc); ok {
		t.Fatal("closed shadow content located")
	}
	if _, ok := dom.FindByID("prog", doc); ok {
		t.Fatal("replaced shadow tree still reachable")
	}
}

func TestSetHTML_HoistsNestedDeclarativeTemplates(t *testing.T) {
	doc := parseFixture(t, `<html><body><div id="target"></div></body></html>`)
	el, _ := doc.ElementByID("target")
	sr := doc.AttachShadow(el.(Element), ModeOpen)
	if err := sr.SetHTML(`<x-inner id="h2"><template shadowrootmode="open"><b id="deep2">x</b></template></x-inner>`); err != nil {
		t.Fatalf("set html: %v", err)
	}

	if _, ok := sr.ElementByID("deep2"); ok {
		t.Fatal("nested template not hoisted out of shadow light tree")
	}
	if _, ok := dom.FindByID("deep2", doc); !ok {
		t.Fatal("nested declarative shadow content not reachable via locator")
	}
}

func TestQuery_SelectorSubset(t *testing.T) {
	doc := parseFixture(t, `<html><body>
		<article id="a" class="post featured" data-kind="top">
			<h2 class="title">one</h2>
			<div class="body"><p class="t">x</p></div>
		</article>
		<article id="b" class="post">
			<h2 class="title">two</h2>
		</article>
		<section role="main"><p class="t">y</p></section>
	</body></html>`)

	tests := []struct {
		selector string
		wantIDs  []string
		wantLen  int
	}{
		{selector: "article", wantIDs: []string{"a", "b"}, wantLen: 2},
		{selector: "#a", wantIDs: []string{"a"}, wantLen: 1},
		{selector: ".post", wantIDs: []string{"a", "b"}, wantLen: 2},
		{selector: ".post.featured", wantIDs: []string{"a"}, wantLen: 1},
		{selector: "article.post[data-kind=top]", wantIDs: []string{"a"}, wantLen: 1},
		{selector: `[role="main"]`, wantLen: 1},
		{selector: "[data-kind]", wantIDs: []string{"a"}, wantLen: 1},
		{selector: "article .t", wantLen: 1},
		{selector: ".post h2, section p", wantLen: 3},
		{selector: "*", wantLen: 11},
		{selector: "nav", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := doc.Query(tt.selector)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("got %d matches, want %d", len(got), tt.wantLen)
			}
			for i, id := range tt.wantIDs {
				if got[i].ID() != id {
					t.Fatalf("match %d: got id %q, want %q", i, got[i].ID(), id)
				}
			}
		})
	}
}

func TestQuery_NoDuplicatesThroughMultipleAncestorPaths(t *testing.T) {
	doc := parseFixture(t, `<html><body>
		<div class="outer"><div class="outer"><p class="t">x</p></div></div>
	</body></html>`)

	got, err := doc.Query(".outer .t")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d matches, want exactly 1", len(got))
	}
}

func TestQuery_BadSelectors(t *testing.T) {
	doc := parseFixture(t, `<html><body></body></html>`)

	for _, sel := range []string{"", "#", ".", "[=x]", "div[unterminated", "a,,b"} {
		if _, err := doc.Query(sel); err == nil {
			t.Errorf("selector %q: expected error", sel)
		}
	}
}

func TestElement_Accessors(t *testing.T) {
	doc := parseFixture(t, `<html><body><button id="go" data-x="1"> Click me </button></body></html>`)

	el, ok := doc.ElementByID("go")
	if !ok {
		t.Fatal("not found")
	}
	if el.TagName() != "button" {
		t.Fatalf("tag: got %q", el.TagName())
	}
	if v, ok := el.Attr("data-x"); !ok || v != "1" {
		t.Fatalf("attr: got %q, %v", v, ok)
	}
	if _, ok := el.Attr("missing"); ok {
		t.Fatal("missing attr reported present")
	}
	if text := el.(Element).Text(); text != "Click me" {
		t.Fatalf("text: got %q", text)
	}
	if n := el.(Element).Node(); n == nil || n.Data != "button" {
		t.Fatalf("node escape hatch: got %v", n)
	}
}

func TestElement_IdentityAcrossSearches(t *testing.T) {
	doc := parseFixture(t, `<html><body><div id="x"></div></body></html>`)

	a, _ := doc.ElementByID("x")
	b, ok := dom.FindByID("x", doc)
	if !ok {
		t.Fatal("not found")
	}
	if a != b.Element {
		t.Fatal("same node should compare equal across searches")
	}
}
