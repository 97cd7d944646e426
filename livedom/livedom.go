// Package livedom implements dom.Root and dom.Element against a live
// Chrome page over CDP, so the same locator and dispatcher code that runs
// on a parsed document can run on a real page. Scoped lookups map to CDP
// queries; shadow boundaries are crossed through the element's shadow root
// handle, with closed roots kept invisible to match platform script access.
//
// CDP is fallible where a parsed tree is not: backend faults on lookup are
// logged and reported as not-found, and Query surfaces them as errors.
package livedom

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/shadowinit/dom"
)

// Option configures Attach and Open.
type Option func(*Page)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Page) { p.logger = l }
}

// WithNavTimeout bounds Open's navigation and load wait. Default 30s.
func WithNavTimeout(d time.Duration) Option {
	return func(p *Page) { p.navTimeout = d }
}

// WithControlURL connects Open to an already-running browser instead of
// launching one.
func WithControlURL(u string) Option {
	return func(p *Page) { p.controlURL = u }
}

// Page is a live document root backed by a rod page.
type Page struct {
	page       *rod.Page
	logger     *slog.Logger
	navTimeout time.Duration
	controlURL string
}

var _ dom.Root = (*Page)(nil)

// Attach wraps an existing rod page.
func Attach(page *rod.Page, opts ...Option) *Page {
	p := &Page{page: page, logger: slog.Default(), navTimeout: 30 * time.Second}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Open launches (or connects to) a browser, opens a stealth page, and
// navigates to url. The returned cleanup closes the page and, when the
// browser was launched here, the browser too.
func Open(ctx context.Context, url string, opts ...Option) (*Page, func(), error) {
	p := &Page{logger: slog.Default(), navTimeout: 30 * time.Second}
	for _, o := range opts {
		o(p)
	}

	controlURL := p.controlURL
	launched := false
	if controlURL == "" {
		u, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("livedom: launch browser: %w", err)
		}
		controlURL = u
		launched = true
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, nil, fmt.Errorf("livedom: connect browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		browser.Close()
		return nil, nil, fmt.Errorf("livedom: create page: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, p.navTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		page.Close()
		browser.Close()
		return nil, nil, fmt.Errorf("livedom: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		p.logger.Warn("livedom: wait load timeout", "url", url, "error", err)
	}

	p.page = page
	cleanup := func() {
		page.Close()
		if launched {
			browser.Close()
		}
	}
	return p, cleanup, nil
}

// queryScope is the shared lookup surface of *rod.Page and *rod.Element.
type queryScope interface {
	Has(selector string) (bool, *rod.Element, error)
	Elements(selector string) (rod.Elements, error)
}

func (p *Page) ElementByID(id string) (dom.Element, bool) {
	return elementByID(p.page, id, p.logger)
}

func (p *Page) Query(selector string) ([]dom.Element, error) {
	return queryElements(p.page, selector, p.logger)
}

func (p *Page) Elements() []dom.Element {
	return allElements(p.page, p.logger)
}

// shadowScope is one open shadow tree of a live page.
type shadowScope struct {
	root   *rod.Element
	logger *slog.Logger
}

var _ dom.Root = (*shadowScope)(nil)

func (s *shadowScope) ElementByID(id string) (dom.Element, bool) {
	return elementByID(s.root, id, s.logger)
}

func (s *shadowScope) Query(selector string) ([]dom.Element, error) {
	return queryElements(s.root, selector, s.logger)
}

func (s *shadowScope) Elements() []dom.Element {
	return allElements(s.root, s.logger)
}

func elementByID(scope queryScope, id string, logger *slog.Logger) (dom.Element, bool) {
	found, el, err := scope.Has(fmt.Sprintf("[id=%q]", id))
	if err != nil {
		logger.Warn("livedom: id lookup failed", "id", id, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	return Element{el: el, logger: logger}, true
}

func queryElements(scope queryScope, selector string, logger *slog.Logger) ([]dom.Element, error) {
	els, err := scope.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("livedom: query %q: %w", selector, err)
	}
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		out = append(out, Element{el: el, logger: logger})
	}
	return out, nil
}

func allElements(scope queryScope, logger *slog.Logger) []dom.Element {
	out, err := queryElements(scope, "*", logger)
	if err != nil {
		logger.Warn("livedom: enumerate failed", "error", err)
		return nil
	}
	return out
}

// Element is one live element handle. Equality only holds between values
// wrapping the same CDP handle: separate searches produce fresh handles,
// so cross-search identity checks belong to the static backend.
type Element struct {
	el     *rod.Element
	logger *slog.Logger
}

var _ dom.Element = Element{}

func (e Element) TagName() string {
	res, err := e.el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		e.logger.Warn("livedom: tag name failed", "error", err)
		return ""
	}
	return res.Value.Str()
}

func (e Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

func (e Element) Attr(name string) (string, bool) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

// ShadowRoot descends into the element's shadow tree. Only open roots are
// returned: CDP can describe closed roots, but script cannot reach them,
// and this backend preserves script semantics.
func (e Element) ShadowRoot() (dom.Root, bool) {
	node, err := e.el.Describe(1, false)
	if err != nil || len(node.ShadowRoots) == 0 {
		return nil, false
	}
	if node.ShadowRoots[0].ShadowRootType != proto.DOMShadowRootTypeOpen {
		return nil, false
	}
	root, err := e.el.ShadowRoot()
	if err != nil {
		e.logger.Warn("livedom: shadow root handle failed", "error", err)
		return nil, false
	}
	return &shadowScope{root: root, logger: e.logger}, true
}
