// Package metadata is a small key/value store kept in the local SQLite
// database. The client keeps its identity there.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
