// Package kvstore persists small scalar values that must survive restarts.
//
// The usage gate keeps its whole state in four string keys per client, so the
// backends only need get/set/delete. Every implementation is safe for
// concurrent use.
package kvstore

import "context"

type Store interface {
	// returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
