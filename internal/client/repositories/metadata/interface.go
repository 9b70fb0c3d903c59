// Package metadata stores sync bookkeeping of the local cache as small
// key/value pairs.
package metadata

import (
	"context"
	"time"
)

// KeyLastSync holds the time of the last successful sync.
const KeyLastSync = "lastSync"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error

	// GetTime returns the zero time when key is absent.
	GetTime(ctx context.Context, key string) (time.Time, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}
