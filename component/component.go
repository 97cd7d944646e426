// Package component dispatches initializer functions onto elements located
// across shadow-tree boundaries. A Dispatcher owns a name→initializer
// registry and a default search root; each Init request runs a delayed
// locate-then-initialize sequence and settles exactly once.
//
//	doc, _ := htmldom.ParseString(page)
//	d := component.New(doc, component.Config{Debug: true})
//	d.Register("counter", newCounter)
//
//	s := d.Init(component.Request{ElementID: "hits", Type: "counter"})
//	instance, err := s.Await(ctx)
//
// Requests are independent: two outstanding Init calls may settle in either
// order, and a failure in one never affects the other.
package component

import (
	"log/slog"
	"time"

	"github.com/hazyhaar/shadowinit/dom"
)

// Initializer is the handler contract: it receives the located element,
// the root that directly contains it (the document or a shadow tree), and
// the request's opaque options value. Whatever it returns settles the
// request; an error or a panic settles it as a failure.
type Initializer func(el dom.Element, root dom.Root, options any) (any, error)

// Probe is a built-in fallback handler consulted by name when the registry
// has no entry for a component type. It returns the initialized instance
// and true when it claims the type, or ok=false to pass.
type Probe func(componentType string, el dom.Element, root dom.Root, options any) (any, bool)

// DefaultSearchDelay is the instance-wide delay applied before each
// request's locate step when the configuration does not override it.
const DefaultSearchDelay = 300 * time.Millisecond

// Config carries the recognized construction options. Anything the caller
// wants to stash beyond these goes in Extra: it is retained on the
// dispatcher but has no effect on dispatch.
type Config struct {
	// Debug enables informational diagnostics. Warnings and errors are
	// always emitted.
	Debug bool

	// SearchDelay is the default suspension before each locate step,
	// giving the host time to finish attaching and populating shadow
	// trees. Nil selects DefaultSearchDelay; an explicit zero disables
	// the wait, and negative values are treated as zero. A per-request
	// Delay overrides it.
	SearchDelay *time.Duration

	// Extra holds unrecognized options, passed through and retained.
	Extra map[string]any
}

// Option configures a Dispatcher beyond its Config.
type Option func(*Dispatcher)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithFallback appends a fallback probe. Probes are consulted in the
// order given, after a registry miss and before an unknown-type failure.
func WithFallback(p Probe) Option {
	return func(d *Dispatcher) { d.probes = append(d.probes, p) }
}

// Dispatcher pairs an initializer registry with a default search root.
// Construct one per document or page; instances share nothing.
type Dispatcher struct {
	root     dom.Root
	registry *Registry
	probes   []Probe
	logger   *slog.Logger
	debug    bool
	delay    time.Duration
	extra    map[string]any
}

// New creates a Dispatcher searching from root by default.
func New(root dom.Root, cfg Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		root:   root,
		logger: slog.Default(),
		debug:  cfg.Debug,
		delay:  DefaultSearchDelay,
		extra:  cfg.Extra,
	}
	if cfg.SearchDelay != nil {
		d.delay = max(*cfg.SearchDelay, 0)
	}
	for _, o := range opts {
		o(d)
	}
	d.registry = NewRegistry(d.logger)
	return d
}

// Register adds a named initializer to this dispatcher's registry.
// Re-registering a name replaces the previous initializer.
func (d *Dispatcher) Register(name string, fn Initializer) {
	d.registry.Register(name, fn)
}

// Registry exposes the dispatcher's registry for direct use.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Extra returns a retained unrecognized construction option.
func (d *Dispatcher) Extra(key string) (any, bool) {
	v, ok := d.extra[key]
	return v, ok
}

// debugf emits flag-gated informational diagnostics. Warnings and errors
// bypass this and always go straight to the logger.
func (d *Dispatcher) debugf(msg string, args ...any) {
	if d.debug {
		d.logger.Info(msg, args...)
	}
}
