// Package reqid tags request contexts with a random identifier so eventbus
// subscribers can correlate events belonging to the same request.
package reqid

import (
	"context"
	"math/rand/v2"
)

type key struct{}

// NewContext returns a copy of parent carrying a fresh random request ID,
// together with the ID itself.
func NewContext(parent context.Context) (context.Context, int64) {
	id := rand.Int64()
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the request ID from ctx, reporting whether one is set.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(key{}).(int64)
	return id, ok
}
