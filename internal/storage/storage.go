package storage

import "context"

// Store is the durable key-value substrate every client component writes
// through. Carts, order history, the session record and the remembered
// login email all live under plain string keys holding serialized JSON.
//
// Get reports absence with the bool; implementations never translate a
// missing key into an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
