// Package storage defines the key-value substrate the clinic record store
// persists into, along with the available backends: an in-memory map, a
// local JSON file, Redis, and Postgres.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Read when no value exists under a key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the persistence contract. Collections are stored as whole
// JSON-encoded snapshots under fixed keys; a Write either replaces the
// snapshot completely or fails without touching it.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
