package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

func day(s string) time.Time {
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func newStore() *Store {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(Config{Now: func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}})
	s.AddRoom(model.Room{ID: 1, RoomNumber: "101", BasePriceCents: 10000, HasRate: true, IsAvailable: true})
	s.AddRoom(model.Room{ID: 2, RoomNumber: "102", BasePriceCents: 15000, HasRate: true})
	return s
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InRoomTx(ctx, 1, func(ctx context.Context, tx booking.Tx) error {
		b := &model.Booking{RoomID: 1, UserID: 5, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-03"), Guests: 1, Status: model.StatusUnpaid}
		_, err := tx.InsertBooking(ctx, b)
		require.NoError(t, err)

		// visible inside the unit, invisible outside
		got, err := tx.FindBlockingBookings(ctx, 1, day("2024-06-02"), day("2024-06-04"))
		require.NoError(t, err)
		assert.Len(t, got, 1)
		outside, _ := s.FindBlockingBookings(ctx, 1, day("2024-06-02"), day("2024-06-04"))
		assert.Empty(t, outside)
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := s.ListBookings(ctx, booking.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInRoomTxUnknownRoom(t *testing.T) {
	s := newStore()
	err := s.InRoomTx(context.Background(), 99, func(context.Context, booking.Tx) error { return nil })
	assert.ErrorIs(t, err, booking.ErrRoomNotFound)
}

func TestStatusUpdateCommits(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	s.Seed(model.Booking{ID: 10, RoomID: 1, UserID: 5, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05"), Guests: 2, Status: model.StatusConfirmed})

	err := s.InBookingTx(ctx, 10, func(ctx context.Context, tx booking.Tx) error {
		return tx.UpdateBookingStatus(ctx, 10, model.StatusCancelled)
	})
	require.NoError(t, err)

	b, err := s.GetBooking(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, b.Status)
	assert.True(t, b.UpdatedAt.After(b.CreatedAt))

	blocking, _ := s.FindBlockingBookings(ctx, 1, day("2024-06-01"), day("2024-06-05"))
	assert.Empty(t, blocking)
}

func TestUpdateUnknownBooking(t *testing.T) {
	s := newStore()
	err := s.InBookingTx(context.Background(), 42, func(ctx context.Context, tx booking.Tx) error {
		return tx.UpdateBookingStatus(ctx, 42, model.StatusCancelled)
	})
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestListBookingsFiltersAndOrders(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	s.Seed(
		model.Booking{RoomID: 1, UserID: 5, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-02"), Guests: 1, Status: model.StatusUnpaid},
		model.Booking{RoomID: 2, UserID: 5, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-02"), Guests: 1, Status: model.StatusConfirmed},
		model.Booking{RoomID: 1, UserID: 6, CheckIn: day("2024-06-03"), CheckOut: day("2024-06-04"), Guests: 1, Status: model.StatusUnpaid},
	)

	mine, err := s.ListBookings(ctx, booking.ListFilter{UserID: 5})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, uint64(2), mine[0].ID, "newest first")
	assert.Equal(t, uint64(1), mine[1].ID)

	unpaid, _ := s.ListBookings(ctx, booking.ListFilter{Status: model.StatusUnpaid, RoomID: 1})
	assert.Len(t, unpaid, 2)

	page, _ := s.ListBookings(ctx, booking.ListFilter{Limit: 1, Offset: 1})
	require.Len(t, page, 1)
	assert.Equal(t, uint64(2), page[0].ID)

	empty, _ := s.ListBookings(ctx, booking.ListFilter{Offset: 10})
	assert.Empty(t, empty)
}

func TestListRoomsOrderedByNumber(t *testing.T) {
	s := newStore()
	s.AddRoom(model.Room{ID: 3, RoomNumber: "003", IsAvailable: true})

	all, err := s.ListRooms(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "003", all[0].RoomNumber)

	avail, _ := s.ListRooms(context.Background(), true)
	assert.Len(t, avail, 2)
}
