// Package memory is an in-process Catalog and Store for the booking
// engine.  It backs STORE_DRIVER=memory deployments and the engine's
// tests.  Units are isolated per room and per booking, and writes are
// staged until the unit succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/lock"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

type Config struct {
	// Now stamps created_at/updated_at; defaults to time.Now.
	Now func() time.Time
}

type Store struct {
	mu       sync.RWMutex
	rooms    map[uint64]model.Room
	bookings map[uint64]model.Booking
	nextID   uint64

	units *lock.Keyed
	now   func() time.Time
}

func New(conf Config) *Store {
	if conf.Now == nil {
		conf.Now = time.Now
	}
	return &Store{
		rooms:    make(map[uint64]model.Room),
		bookings: make(map[uint64]model.Booking),
		units:    lock.NewKeyed(),
		now:      conf.Now,
	}
}

// AddRoom inserts or replaces a catalog entry.
func (s *Store) AddRoom(r model.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	s.rooms[r.ID] = r
}

// Seed stores bookings as-is, keeping their IDs.  It is meant for fixtures.
func (s *Store) Seed(bs ...model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bs {
		if b.ID == 0 {
			s.nextID++
			b.ID = s.nextID
		} else if b.ID > s.nextID {
			s.nextID = b.ID
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = s.now().UTC()
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = b.CreatedAt
		}
		s.bookings[b.ID] = b
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) GetRoom(_ context.Context, roomID uint64) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %d: %w", roomID, booking.ErrRoomNotFound)
	}
	return &r, nil
}

// ListRooms returns rooms ordered by room number.
func (s *Store) ListRooms(_ context.Context, onlyAvailable bool) ([]model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if onlyAvailable && !r.IsAvailable {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *Store) InRoomTx(ctx context.Context, roomID uint64, fn func(context.Context, booking.Tx) error) error {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return err
	}
	return s.inUnit(ctx, fmt.Sprintf("room:%d", roomID), fn)
}

func (s *Store) InBookingTx(ctx context.Context, bookingID uint64, fn func(context.Context, booking.Tx) error) error {
	return s.inUnit(ctx, fmt.Sprintf("booking:%d", bookingID), fn)
}

func (s *Store) inUnit(ctx context.Context, key string, fn func(context.Context, booking.Tx) error) error {
	unlock, err := s.units.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %w", booking.ErrContention, err)
	}
	defer unlock()

	t := &tx{s: s, inserts: map[uint64]model.Booking{}, updates: map[uint64]model.BookingStatus{}}
	if err := fn(ctx, t); err != nil {
		return err
	}
	s.commit(t)
	return nil
}

func (s *Store) commit(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, b := range t.inserts {
		s.bookings[id] = b
	}
	now := s.now().UTC()
	for id, st := range t.updates {
		b, ok := s.bookings[id]
		if !ok {
			continue
		}
		b.Status = st
		b.UpdatedAt = now
		s.bookings[id] = b
	}
}

func (s *Store) FindBlockingBookings(_ context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocking(nil, roomID, checkIn, checkOut), nil
}

// blocking scans committed bookings, overlaid with t's staged writes
// when t is non-nil.  Callers hold s.mu.
func (s *Store) blocking(t *tx, roomID uint64, checkIn, checkOut time.Time) []model.Booking {
	var out []model.Booking
	visit := func(b model.Booking) {
		if t != nil {
			if st, ok := t.updates[b.ID]; ok {
				b.Status = st
			}
		}
		if b.RoomID == roomID && b.Status.IsBlocking() && b.Overlaps(checkIn, checkOut) {
			out = append(out, b)
		}
	}
	for _, b := range s.bookings {
		visit(b)
	}
	if t != nil {
		for _, b := range t.inserts {
			visit(b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func (s *Store) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, booking.ErrBookingNotFound)
	}
	return &b, nil
}

// ListBookings returns matches newest first; ties break on the higher ID.
func (s *Store) ListBookings(_ context.Context, f booking.ListFilter) ([]model.Booking, error) {
	s.mu.RLock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if f.UserID != 0 && b.UserID != f.UserID {
			continue
		}
		if f.RoomID != 0 && b.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if f.Offset >= len(out) {
		return []model.Booking{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type tx struct {
	s       *Store
	inserts map[uint64]model.Booking
	updates map[uint64]model.BookingStatus
}

func (t *tx) FindBlockingBookings(_ context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Booking, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.blocking(t, roomID, checkIn, checkOut), nil
}

func (t *tx) InsertBooking(_ context.Context, b *model.Booking) (uint64, error) {
	t.s.mu.Lock()
	t.s.nextID++
	id := t.s.nextID
	t.s.mu.Unlock()

	now := t.s.now().UTC()
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	t.inserts[id] = *b
	return id, nil
}

func (t *tx) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	if b, ok := t.inserts[id]; ok {
		if st, ok := t.updates[id]; ok {
			b.Status = st
		}
		return &b, nil
	}
	b, err := t.s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if st, ok := t.updates[id]; ok {
		b.Status = st
	}
	return b, nil
}

func (t *tx) UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	if b, ok := t.inserts[id]; ok {
		b.Status = status
		t.inserts[id] = b
		return nil
	}
	if _, err := t.s.GetBooking(ctx, id); err != nil {
		return err
	}
	t.updates[id] = status
	return nil
}
