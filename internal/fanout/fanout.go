// Package fanout runs independent upstream lookups concurrently and lets
// callers tolerate partial failure: a failing source settles to its fallback
// value plus a captured error descriptor instead of aborting the aggregate,
// and a sibling failure never cancels other in-flight calls.
package fanout

import (
	"context"
	"errors"
	"time"

	"github.com/nribeiro/voyago/internal/upstream"
)

// Result is the settled outcome of one source call. Data is always usable:
// on failure it holds the fallback and Err describes what went wrong so the
// caller can render a partial-failure banner.
type Result[T any] struct {
	Data T
	Err  *upstream.AppError
}

// Failed reports whether the source settled with an error.
func (r Result[T]) Failed() bool { return r.Err != nil }

// Future is a handle on one in-flight source call.
type Future[T any] struct {
	ch chan Result[T]
}

// Go starts fn concurrently. The call observes ctx but is never cancelled by
// sibling failures; errors settle into a Result instead of propagating.
func Go[T any](ctx context.Context, source string, fallback T, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{ch: make(chan Result[T], 1)}
	go func() {
		data, err := fn(ctx)
		if err != nil {
			f.ch <- Result[T]{Data: fallback, Err: asAppError(source, err)}
			return
		}
		f.ch <- Result[T]{Data: data}
	}()
	return f
}

// Wait blocks until the call settles.
func (f *Future[T]) Wait() Result[T] {
	return <-f.ch
}

// All runs one call per entry of fns concurrently and waits for every one to
// settle, preserving order. Used for per-item enrichment, e.g. attraction
// detail lookups.
func All[T any](ctx context.Context, source string, fallback T, fns []func(context.Context) (T, error)) []Result[T] {
	futures := make([]*Future[T], len(fns))
	for i, fn := range fns {
		futures[i] = Go(ctx, source, fallback, fn)
	}
	results := make([]Result[T], len(fns))
	for i, f := range futures {
		results[i] = f.Wait()
	}
	return results
}

// asAppError preserves an already-normalized upstream error and wraps
// anything else into the generic shape.
func asAppError(source string, err error) *upstream.AppError {
	var appErr *upstream.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &upstream.AppError{
		Code:      "UNKNOWN",
		Message:   err.Error(),
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}
