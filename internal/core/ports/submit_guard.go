package ports

import "context"

// SubmitGuard blocks duplicate submissions of the same mutation while the
// first one is still in flight. Acquire returns false when an identical key
// is already held; Release frees the key once the mutation settles.
type SubmitGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
