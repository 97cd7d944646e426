package component

import (
	"time"

	"github.com/hazyhaar/shadowinit/dom"
)

// Request describes one dispatch attempt. Exactly one target selection
// (ElementID or Selector) and one handler selection (Type or Init) must be
// supplied.
//
// When both ElementID and Selector are set, ElementID silently wins and
// the selector is ignored — longstanding behavior, kept for compatibility
// even though it can surprise callers.
type Request struct {
	// ElementID locates the target by id across shadow boundaries.
	ElementID string

	// Selector locates the target by pattern; when it matches more than
	// one element, the first in traversal order is used and the rest are
	// discarded.
	Selector string

	// Type names a registry entry (or a fallback probe) to initialize
	// the target with. Ignored when Init is set.
	Type string

	// Init is a directly supplied initializer, bypassing the registry.
	Init Initializer

	// Options is passed through opaquely as the initializer's third
	// argument.
	Options any

	// Delay overrides the dispatcher's configured search delay for this
	// request only. Nil means use the configured default; an explicit
	// zero skips the wait.
	Delay *time.Duration
}

func (r *Request) validate() error {
	if r.ElementID == "" && r.Selector == "" {
		return &ConfigError{Reason: "either an element id or a selector is required"}
	}
	if r.Type == "" && r.Init == nil {
		return &ConfigError{Reason: "either a component type or a custom initializer is required"}
	}
	return nil
}

// Init runs one locate-then-initialize sequence and returns its future
// outcome. The request first waits out its delay (the host page may still
// be attaching shadow trees — this is a coarse fixed wait, not a readiness
// poll), then locates the target from the dispatcher's root, resolves the
// handler, and invokes it. Every path settles the returned Settlement
// exactly once; no failure escapes as a fault or touches other requests.
//
// Invalid requests settle immediately, without scheduling any search.
func (d *Dispatcher) Init(req Request) *Settlement {
	s := newSettlement()

	if err := req.validate(); err != nil {
		d.logger.Error("component: rejecting request", "error", err)
		s.fail(err)
		return s
	}

	delay := d.delay
	if req.Delay != nil {
		delay = *req.Delay
	}

	go d.run(req, delay, s)
	return s
}

func (d *Dispatcher) run(req Request, delay time.Duration, s *Settlement) {
	if delay > 0 {
		time.Sleep(delay)
	}

	target, ok, err := d.locate(req)
	if err != nil {
		d.logger.Warn("component: locate failed", "selector", req.Selector, "error", err)
		s.fail(err)
		return
	}
	if !ok {
		nf := &NotFoundError{Key: req.ElementID, BySelector: false}
		if req.ElementID == "" {
			nf = &NotFoundError{Key: req.Selector, BySelector: true}
		}
		d.logger.Warn("component: target not found", "error", nf)
		s.fail(nf)
		return
	}
	d.debugf("component: target located",
		"tag", target.Element.TagName(), "id", target.Element.ID())

	fn := req.Init
	if fn == nil {
		var found bool
		fn, found = d.registry.Resolve(req.Type)
		if !found {
			d.debugf("component: registry miss, trying fallbacks",
				"type", req.Type, "probes", len(d.probes))
			for _, probe := range d.probes {
				v, claimed, err := invokeProbe(probe, req.Type, target, req.Options)
				if err != nil {
					d.logger.Error("component: fallback probe failed",
						"type", req.Type, "id", target.Element.ID(), "error", err)
					s.fail(err)
					return
				}
				if claimed {
					s.succeed(v)
					return
				}
			}
			ut := &UnknownTypeError{Type: req.Type}
			d.logger.Warn("component: no handler", "error", ut)
			s.fail(ut)
			return
		}
	}

	result, err := invoke(fn, target, req.Options)
	if err != nil {
		d.logger.Error("component: initializer failed",
			"type", req.Type, "id", target.Element.ID(), "error", err)
		s.fail(err)
		return
	}
	d.debugf("component: initialized", "type", req.Type, "id", target.Element.ID())
	s.succeed(result)
}

// locate resolves the request's target against the dispatcher's root.
// The returned bool distinguishes not-found from a query error.
func (d *Dispatcher) locate(req Request) (dom.Match, bool, error) {
	if req.ElementID != "" {
		m, ok := dom.FindByID(req.ElementID, d.root)
		return m, ok, nil
	}

	matches, err := dom.FindAll(req.Selector, d.root)
	if err != nil {
		return dom.Match{}, false, err
	}
	if len(matches) == 0 {
		return dom.Match{}, false, nil
	}
	// First in traversal order wins; the rest are discarded.
	return matches[0], true, nil
}

// invoke runs fn with panic containment: a panicking initializer settles
// its own request as a failure instead of crashing the process.
func invoke(fn Initializer, m dom.Match, options any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerPanicError{Value: r}
		}
	}()
	return fn(m.Element, m.Context, options)
}

// invokeProbe runs a fallback probe under the same containment as invoke:
// a panicking probe fails its own request, never the process or other
// in-flight requests.
func invokeProbe(p Probe, componentType string, m dom.Match, options any) (v any, claimed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, claimed = nil, false
			err = &HandlerPanicError{Value: r}
		}
	}()
	v, claimed = p(componentType, m.Element, m.Context, options)
	return v, claimed, nil
}
