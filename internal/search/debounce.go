// Package search provides a debounced, self-cancelling search runner for
// streams of user-entered form values: it waits for a quiet period before
// issuing a request, skips values equal to the previous one, drops nil
// values, and cancels an in-flight search when a newer value qualifies, so
// only the latest result is ever delivered.
package search

import (
	"context"
	"reflect"
	"time"
)

// DefaultQuietPeriod is how long the input must stay silent before a search
// is issued.
const DefaultQuietPeriod = 400 * time.Millisecond

// Result pairs a search outcome with its error. Exactly one of the two is
// meaningful.
type Result[R any] struct {
	Value R
	Err   error
}

// Searcher debounces a stream of search parameters into calls of a single
// search function. Create with NewSearcher, feed values via Submit, consume
// outcomes from Results, and Close when the input stream ends.
type Searcher[P, R any] struct {
	fn      func(context.Context, P) (R, error)
	quiet   time.Duration
	input   chan P
	results chan Result[R]
}

// NewSearcher starts a Searcher around fn. quiet <= 0 selects
// DefaultQuietPeriod. ctx bounds every search the Searcher issues;
// cancelling it stops the run loop.
func NewSearcher[P, R any](ctx context.Context, fn func(context.Context, P) (R, error), quiet time.Duration) *Searcher[P, R] {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	s := &Searcher[P, R]{
		fn:      fn,
		quiet:   quiet,
		input:   make(chan P, 16),
		results: make(chan Result[R], 1),
	}
	go s.run(ctx)
	return s
}

// Submit feeds one form value into the debounce window.
func (s *Searcher[P, R]) Submit(p P) {
	s.input <- p
}

// Results returns the delivery channel. It is closed after Close (or the
// parent context) ends the run loop.
func (s *Searcher[P, R]) Results() <-chan Result[R] {
	return s.results
}

// Close ends the input stream. Any in-flight search is cancelled without
// delivering.
func (s *Searcher[P, R]) Close() {
	close(s.input)
}

func (s *Searcher[P, R]) run(ctx context.Context) {
	defer close(s.results)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending P
		queued  bool
		last    P
		hasLast bool
		cancel  context.CancelFunc
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timerC = nil
		}
	}
	defer func() {
		stopTimer()
		if cancel != nil {
			cancel()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case v, ok := <-s.input:
			if !ok {
				return
			}
			if isNil(v) {
				continue
			}
			pending = v
			queued = true
			if timer == nil {
				timer = time.NewTimer(s.quiet)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.quiet)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if !queued {
				continue
			}
			queued = false
			if hasLast && reflect.DeepEqual(pending, last) {
				continue
			}
			last = pending
			hasLast = true

			// Supersede the in-flight search, if any.
			if cancel != nil {
				cancel()
			}
			var searchCtx context.Context
			searchCtx, cancel = context.WithCancel(ctx)
			go s.search(searchCtx, pending)
		}
	}
}

// search runs one call of fn and delivers its result unless this search was
// superseded while in flight.
func (s *Searcher[P, R]) search(ctx context.Context, params P) {
	value, err := s.fn(ctx, params)
	if ctx.Err() != nil {
		return // superseded or shut down; drop the stale result
	}
	select {
	case s.results <- Result[R]{Value: value, Err: err}:
	case <-ctx.Done():
	}
}

// isNil reports whether v is an untyped nil or a nil pointer/map/slice,
// mirroring the original stream's null/undefined filter.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
