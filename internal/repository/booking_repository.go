package repository

import (
    "context"
    "database/sql"
    "fmt"
    "strings"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingRepo persists bookings and implements booking.Store.  Units run
// in READ COMMITTED transactions.  A room unit starts by locking the
// room's row with SELECT ... FOR UPDATE, which serializes every
// check-then-insert for that room across all server instances; a booking
// unit locks the booking row the same way when the engine reads it.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, room_id, user_id, check_in_date, check_out_date, guests,
    total_price, special_requests, status, created_at, updated_at`

var txOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// InRoomTx runs fn inside a transaction holding the room row lock.
func (r *BookingRepo) InRoomTx(ctx context.Context, roomID uint64, fn func(context.Context, booking.Tx) error) error {
    return r.inTx(ctx, fn, func(tx *sql.Tx) error {
        var id uint64
        err := tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, roomID).Scan(&id)
        return notFound(err, booking.ErrRoomNotFound, roomID)
    })
}

// InBookingTx runs fn inside a transaction.  The booking row is locked
// by the first Tx.GetBooking call.
func (r *BookingRepo) InBookingTx(ctx context.Context, bookingID uint64, fn func(context.Context, booking.Tx) error) error {
    return r.inTx(ctx, fn, nil)
}

func (r *BookingRepo) inTx(ctx context.Context, fn func(context.Context, booking.Tx) error, prepare func(*sql.Tx) error) error {
    tx, err := r.db.BeginTx(ctx, txOptions)
    if err != nil {
        return mapErr(err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if prepare != nil {
        if err := prepare(tx); err != nil {
            return err
        }
    }
    if err := fn(ctx, &bookingTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return fmt.Errorf("%w: %v", booking.ErrCommitUncertain, err)
    }
    committed = true
    return nil
}

// FindBlockingBookings reads committed bookings outside any unit.
func (r *BookingRepo) FindBlockingBookings(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Booking, error) {
    return findBlocking(ctx, r.db, roomID, checkIn, checkOut)
}

// GetBooking fetches a booking by ID.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
    b, err := scanBooking(row)
    if err != nil {
        return nil, notFound(err, booking.ErrBookingNotFound, id)
    }
    return b, nil
}

// ListBookings returns bookings matching f, newest first.
func (r *BookingRepo) ListBookings(ctx context.Context, f booking.ListFilter) ([]model.Booking, error) {
    var (
        where []string
        args  []any
    )
    if f.UserID != 0 {
        where = append(where, "user_id = ?")
        args = append(args, f.UserID)
    }
    if f.RoomID != 0 {
        where = append(where, "room_id = ?")
        args = append(args, f.RoomID)
    }
    if f.Status != "" {
        where = append(where, "status = ?")
        args = append(args, string(f.Status))
    }
    q := `SELECT ` + bookingColumns + ` FROM bookings`
    if len(where) > 0 {
        q += ` WHERE ` + strings.Join(where, " AND ")
    }
    q += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
    args = append(args, f.Limit, f.Offset)

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, mapErr(err)
    }
    defer rows.Close()
    return scanBookings(rows)
}

type queryer interface {
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func findBlocking(ctx context.Context, q queryer, roomID uint64, checkIn, checkOut time.Time) ([]model.Booking, error) {
    // two ranges overlap unless one ends on or before the other starts
    const sel = `SELECT ` + bookingColumns + ` FROM bookings
        WHERE room_id = ? AND status IN (?, ?, ?)
        AND NOT (check_out_date <= ? OR check_in_date >= ?)
        ORDER BY check_in_date`
    args := []any{roomID}
    for _, s := range model.BlockingStatuses {
        args = append(args, string(s))
    }
    args = append(args, checkIn.Format(model.DateLayout), checkOut.Format(model.DateLayout))
    rows, err := q.QueryContext(ctx, sel, args...)
    if err != nil {
        return nil, mapErr(err)
    }
    defer rows.Close()
    return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]model.Booking, error) {
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *b)
    }
    return out, mapErr(rows.Err())
}

func scanBooking(s scanner) (*model.Booking, error) {
    var (
        b      model.Booking
        price  string
        notes  sql.NullString
        status string
    )
    if err := s.Scan(&b.ID, &b.RoomID, &b.UserID, &b.CheckIn, &b.CheckOut, &b.Guests,
        &price, &notes, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
        return nil, err
    }
    c, err := model.ParseCents(price)
    if err != nil {
        return nil, fmt.Errorf("booking %d total price: %w", b.ID, err)
    }
    b.TotalPriceCents = c
    if notes.Valid {
        n := notes.String
        b.SpecialRequests = &n
    }
    b.Status = model.BookingStatus(status)
    b.CheckIn = model.TruncateDate(b.CheckIn)
    b.CheckOut = model.TruncateDate(b.CheckOut)
    return &b, nil
}

// bookingTx implements booking.Tx on an open transaction.
type bookingTx struct {
    tx *sql.Tx
}

func (t *bookingTx) FindBlockingBookings(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Booking, error) {
    return findBlocking(ctx, t.tx, roomID, checkIn, checkOut)
}

// InsertBooking inserts b and reads the row back to pick up the
// generated ID and timestamps.
func (t *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) (uint64, error) {
    const q = `INSERT INTO bookings (room_id, user_id, check_in_date, check_out_date, guests, total_price, special_requests, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    var notes any
    if b.SpecialRequests != nil {
        notes = *b.SpecialRequests
    }
    res, err := t.tx.ExecContext(ctx, q, b.RoomID, b.UserID,
        b.CheckIn.Format(model.DateLayout), b.CheckOut.Format(model.DateLayout),
        b.Guests, b.TotalPriceCents.String(), notes, string(b.Status))
    if err != nil {
        return 0, mapErr(err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    b.ID = uint64(id)
    row := t.tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
    got, err := scanBooking(row)
    if err != nil {
        return 0, mapErr(err)
    }
    *b = *got
    return b.ID, nil
}

// GetBooking reads and locks the booking row.
func (t *bookingTx) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
    row := t.tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id)
    b, err := scanBooking(row)
    if err != nil {
        return nil, notFound(err, booking.ErrBookingNotFound, id)
    }
    return b, nil
}

func (t *bookingTx) UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
    res, err := t.tx.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(status), id)
    if err != nil {
        return mapErr(err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return fmt.Errorf("id %d: %w", id, booking.ErrBookingNotFound)
    }
    return nil
}
