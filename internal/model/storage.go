package model

import "context"

// SlotStore is a durable key/value backend. Values are replaced wholesale.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
