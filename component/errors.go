package component

import "fmt"

// ConfigError reports a request that cannot be dispatched as written:
// a missing target selection or a missing handler selection.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("component: invalid request: %s", e.Reason)
}

// NotFoundError reports that the locate step matched nothing. Key is the
// element id or the selector that was searched.
type NotFoundError struct {
	Key        string
	BySelector bool
}

func (e *NotFoundError) Error() string {
	if e.BySelector {
		return fmt.Sprintf("component: no element matches selector %q", e.Key)
	}
	return fmt.Sprintf("component: no element with id %q", e.Key)
}

// UnknownTypeError reports a component type with no registry entry and no
// fallback probe claiming it.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("component: unknown component type %q", e.Type)
}

// HandlerPanicError wraps a panic recovered from an initializer so that a
// faulty handler settles its own request instead of taking the process down.
type HandlerPanicError struct {
	Value any
}

func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("component: initializer panicked: %v", e.Value)
}
