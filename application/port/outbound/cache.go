package outbound

import (
	"context"
	"time"
)

// RepresentationCache stores rendered representations by key
type RepresentationCache interface {
	// Get decodes the cached value into dst and reports whether it was found
	Get(ctx context.Context, key string, dst interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
