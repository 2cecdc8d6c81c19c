package services

import "context"

// KVStore is the persistence contract consumed by the quota and saved-trip
// services: a durable key to JSON-blob mapping. Implementations live in the
// repo package; services receive one through their constructor so tests can
// substitute fakes.
type KVStore interface {
	// Get returns the blob stored under key. The boolean is false when the
	// key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous blob.
	Put(ctx context.Context, key string, value []byte) error
}
