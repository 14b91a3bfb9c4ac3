package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Locker serializes product writes (ledger movements and catalog edits) per product. Acquire returns ok=false when the
// key is held elsewhere and could not be obtained before ctx expired.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

type noopLocker struct{}

// NoopLocker is used when redis is not configured; the compare-and-set on the
// product row is then the only guard against lost updates.
func NoopLocker() Locker { return noopLocker{} }

func (noopLocker) Acquire(context.Context, string) (func(), bool, error) {
	return func() {}, true, nil
}

// lockProduct takes the per-product lock shared by the ledger and the catalog.
// A lock held elsewhere is reported as a Conflict.
func lockProduct(ctx context.Context, l Locker, id uuid.UUID) (func(), error) {
	release, ok, err := l.Acquire(ctx, "lock:product:"+id.String())
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}
	if !ok {
		return nil, conflict("product %s is being updated by another request", id)
	}
	return release, nil
}

// EmailQueue hands outbound mail to the background worker pool.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}
