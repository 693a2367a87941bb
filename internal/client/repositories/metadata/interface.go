// Package metadata provides the key-value byte store accountkeeper persists
// its state in. Implementations are backed by SQLite, Redis or process memory.
package metadata

import (
	"context"
)

// Repository is a flat key -> bytes store.
//
// Get returns (nil, nil) for an absent key; Set upserts; Delete of an absent
// key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
