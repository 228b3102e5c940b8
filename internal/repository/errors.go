// Package repository implements the booking engine's Catalog and Store
// on MySQL.  Repositories return the sentinel errors declared by the
// booking package (ErrRoomNotFound, ErrBookingNotFound, ErrContention,
// ErrCommitUncertain) so that the engine can classify failures without
// knowing anything about SQL.
package repository

import (
    "database/sql"
    "errors"
    "fmt"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/hotel-reservation/internal/booking"
)

// MySQL server error numbers that mean "try again".
const (
    errLockWaitTimeout = 1205 // ER_LOCK_WAIT_TIMEOUT
    errDeadlock        = 1213 // ER_LOCK_DEADLOCK
)

// mapErr converts driver errors into booking sentinels.  Lock waits and
// deadlocks become ErrContention; everything else is returned unchanged.
func mapErr(err error) error {
    if err == nil {
        return nil
    }
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        switch me.Number {
        case errLockWaitTimeout, errDeadlock:
            return fmt.Errorf("%w: %v", booking.ErrContention, err)
        }
    }
    return err
}

// notFound maps sql.ErrNoRows to the given sentinel.
func notFound(err error, sentinel error, id uint64) error {
    if errors.Is(err, sql.ErrNoRows) {
        return fmt.Errorf("id %d: %w", id, sentinel)
    }
    return mapErr(err)
}
