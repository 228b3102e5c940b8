package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo is the read-only room catalog.  Prices live on room_types and
// are joined in; a room whose type is missing or carries no base price is
// returned with HasRate=false rather than as an error so the engine can
// report the rate as missing.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle for readiness checks.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomSelect = `SELECT r.id, r.room_type_id, COALESCE(rt.name, ''), rt.description, r.room_number, r.floor,
    rt.base_price, r.status, r.created_at
    FROM rooms r LEFT JOIN room_types rt ON rt.id = r.room_type_id`

// GetRoom fetches a room by ID.  booking.ErrRoomNotFound is returned
// when no row matches.
func (r *RoomRepo) GetRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
    row := r.db.QueryRowContext(ctx, roomSelect+` WHERE r.id = ?`, roomID)
    room, err := scanRoom(row)
    if err != nil {
        return nil, notFound(err, booking.ErrRoomNotFound, roomID)
    }
    return room, nil
}

// ListRooms returns rooms ordered by room number.  With onlyAvailable
// set, rooms whose catalog status is not 'available' are skipped.
func (r *RoomRepo) ListRooms(ctx context.Context, onlyAvailable bool) ([]model.Room, error) {
    q := roomSelect
    if onlyAvailable {
        q += ` WHERE r.status = 'available'`
    }
    q += ` ORDER BY r.room_number`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, mapErr(err)
    }
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        room, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *room)
    }
    return out, rows.Err()
}

type scanner interface {
    Scan(dest ...any) error
}

func scanRoom(s scanner) (*model.Room, error) {
    var (
        room   model.Room
        desc   sql.NullString
        price  sql.NullString
        status string
    )
    if err := s.Scan(&room.ID, &room.RoomTypeID, &room.RoomTypeName, &desc, &room.RoomNumber, &room.Floor,
        &price, &status, &room.CreatedAt); err != nil {
        return nil, err
    }
    room.IsAvailable = status == "available"
    if desc.Valid {
        room.RoomTypeDescription = &desc.String
    }
    if price.Valid {
        c, err := model.ParseCents(price.String)
        if err != nil {
            return nil, fmt.Errorf("room %d base price: %w", room.ID, err)
        }
        room.BasePriceCents = c
        room.HasRate = true
    }
    return &room, nil
}
