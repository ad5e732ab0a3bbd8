package middleware

import (
	"net/http"
	"sync/atomic"
)

// InflightCounter tracks how many requests are currently being served.
// The health endpoint reports the count, the way the web client keeps a
// spinner up while any request is outstanding.
type InflightCounter struct {
	active atomic.Int64
}

// NewInflightCounter constructs a counter to wrap the router with.
func NewInflightCounter() *InflightCounter {
	return &InflightCounter{}
}

// Handler is the middleware: increments on entry, decrements on exit.
func (c *InflightCounter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.active.Add(1)
		defer c.active.Add(-1)
		next.ServeHTTP(w, r)
	})
}

// Active returns the number of requests currently in flight, including the
// one asking.
func (c *InflightCounter) Active() int64 {
	return c.active.Load()
}
