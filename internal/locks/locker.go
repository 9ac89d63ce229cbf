// Package locks serializes writers of the same departure.
package locks

import (
	"context"
	"errors"
)

// ErrLockTimeout is returned when the lock could not be taken before the
// context ended.
var ErrLockTimeout = errors.New("departure lock not acquired")

// Locker hands out exclusive locks by key. The returned release func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}
