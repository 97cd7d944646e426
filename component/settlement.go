package component

import (
	"context"
	"sync"
)

// Settlement is the single-resolution outcome of one Init request. It
// settles exactly once — success with the initializer's return value, or
// failure with an error — and is immutable afterwards.
//
// There is no way to abort an in-flight request; a caller that stops
// caring simply discards the Settlement and the outcome goes unread.
type Settlement struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

func newSettlement() *Settlement {
	return &Settlement{done: make(chan struct{})}
}

func (s *Settlement) succeed(v any) {
	s.once.Do(func() {
		s.value = v
		close(s.done)
	})
}

func (s *Settlement) fail(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

// Done is closed once the request has settled.
func (s *Settlement) Done() <-chan struct{} { return s.done }

// Await blocks until the request settles or ctx is cancelled. Cancellation
// abandons the wait only — the request itself runs to settlement regardless.
func (s *Settlement) Await(ctx context.Context) (any, error) {
	select {
	case <-s.done:
		return s.value, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Value returns the success value. Only meaningful after Done is closed.
func (s *Settlement) Value() any {
	select {
	case <-s.done:
		return s.value
	default:
		return nil
	}
}

// Err returns the failure reason, or nil for success or not-yet-settled.
func (s *Settlement) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}
