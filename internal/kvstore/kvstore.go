// Package kvstore provides the durable key-value facility the state stores
// persist through. Values are whole serialized records, rewritten wholesale on
// every mutation; there are no partial updates and no schema versioning.
package kvstore

import "context"

type Store interface {
	// Get returns the value stored under key, or ok=false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
