// Package querycount tracks how many SQL statements were issued on behalf of a context.
package querycount

import (
	"context"
	"sync/atomic"
)

type ctxKey struct{}

type Counter struct {
	n atomic.Int64
}

func (c *Counter) Load() int64 {
	if c == nil {
		return 0
	}
	return c.n.Load()
}

func (c *Counter) add() {
	if c != nil {
		c.n.Add(1)
	}
}

// WithCounter returns a context carrying a fresh counter. Nested calls keep the
// outermost counter so that a measurement wraps everything below it.
func WithCounter(ctx context.Context) (context.Context, *Counter) {
	if c := FromContext(ctx); c != nil {
		return ctx, c
	}
	c := &Counter{}
	return context.WithValue(ctx, ctxKey{}, c), c
}

func FromContext(ctx context.Context) *Counter {
	c, _ := ctx.Value(ctxKey{}).(*Counter)
	return c
}

// Inc records one statement against the counter in ctx, if any.
func Inc(ctx context.Context) {
	FromContext(ctx).add()
}
