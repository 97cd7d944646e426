package component

import (
	"log/slog"
	"sort"
	"sync"
)

// Registry maps component type names to initializer functions. Each
// Dispatcher owns one; there is no package-level registry. Entries are
// only ever added — re-registering a name replaces the old entry, last
// write wins, no duplicate-key error.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Initializer
	logger   *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger falls back to
// slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handlers: make(map[string]Initializer),
		logger:   logger,
	}
}

// Register stores fn under name. A nil fn is refused: the error is logged
// and the registry is left unchanged.
func (r *Registry) Register(name string, fn Initializer) {
	if fn == nil {
		r.logger.Error("component: refusing nil initializer", "type", name)
		return
	}
	r.mu.Lock()
	r.handlers[name] = fn
	r.mu.Unlock()
}

// Resolve looks up the initializer for name. Absence is a normal outcome,
// handled by the caller, not an error.
func (r *Registry) Resolve(name string) (Initializer, bool) {
	r.mu.RLock()
	fn, ok := r.handlers[name]
	r.mu.RUnlock()
	return fn, ok
}

// Types returns the registered type names, sorted, for diagnostics.
func (r *Registry) Types() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
