// Package lock provides keyed mutual exclusion for the booking engine.
// The in-process Keyed locker serves a single instance; the Redis locker
// extends the same guarantee across replicas sharing one Redis.
package lock

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned (wrapped together with the context error) when
// the lock could not be taken before the context was done.
var ErrTimeout = errors.New("lock wait timeout")

func timeoutError(key string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrTimeout, key, cause)
}
