package booking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/lock"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/storage/memory"
)

var (
	admin  = model.Principal{UserID: 1, Role: model.RoleAdmin}
	alice  = model.Principal{UserID: 10, Role: model.RoleCustomer}
	bob    = model.Principal{UserID: 11, Role: model.RoleCustomer}
	roomID = uint64(7)
)

func day(s string) time.Time {
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

type recorder struct {
	mu      sync.Mutex
	created []model.Booking
	changed []string
	fail    bool
}

func (r *recorder) BookingCreated(_ context.Context, b model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, b)
	if r.fail {
		return errors.New("broker down")
	}
	return nil
}

func (r *recorder) BookingStatusChanged(_ context.Context, b model.Booking, from model.BookingStatus, _ model.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, fmt.Sprintf("%d:%s->%s", b.ID, from, b.Status))
	return nil
}

type fixture struct {
	store  *memory.Store
	mgr    *booking.Manager
	events *recorder
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.New(memory.Config{})
	store.AddRoom(model.Room{ID: roomID, RoomTypeID: 1, RoomNumber: "701", BasePriceCents: 10000, HasRate: true, IsAvailable: true})
	store.AddRoom(model.Room{ID: 8, RoomTypeID: 2, RoomNumber: "801"})
	log, _ := test.NewNullLogger()
	events := &recorder{}
	mgr := booking.New(booking.Config{LockWait: time.Second}, log, store, store, lock.NewKeyed(), events)
	return fixture{store: store, mgr: mgr, events: events}
}

func (f fixture) create(t *testing.T, user model.Principal, in, out string) *model.Booking {
	t.Helper()
	b, err := f.mgr.CreateBooking(context.Background(), booking.CreateInput{
		RoomID: roomID, UserID: user.UserID, CheckIn: day(in), CheckOut: day(out), Guests: 2,
	})
	require.NoError(t, err)
	return b
}

func TestComputePrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, err := f.mgr.ComputePrice(ctx, roomID, day("2024-05-01"), day("2024-05-04"))
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, "300.00", q.Total.String())

	q, err = f.mgr.ComputePrice(ctx, roomID, day("2024-05-01"), day("2024-05-02"))
	require.NoError(t, err)
	assert.Equal(t, model.Cents(10000), q.Total)

	_, err = f.mgr.ComputePrice(ctx, roomID, day("2024-05-01"), day("2024-05-01"))
	assert.ErrorIs(t, err, booking.ErrInvalidInput)
	assert.ErrorIs(t, err, booking.ErrInvalidRange)

	_, err = f.mgr.ComputePrice(ctx, 99, day("2024-05-01"), day("2024-05-02"))
	assert.ErrorIs(t, err, booking.ErrNotFound)

	_, err = f.mgr.ComputePrice(ctx, 8, day("2024-05-01"), day("2024-05-02"))
	require.ErrorIs(t, err, booking.ErrNotFound)
	assert.Equal(t, booking.CodeRateNotFound, booking.AsError(err).Code)
}

func TestPriceStayIsExact(t *testing.T) {
	total, nights, err := booking.PriceStay(model.Cents(3333), day("2024-02-27"), day("2024-03-02"))
	require.NoError(t, err)
	assert.Equal(t, 4, nights, "leap day counts")
	assert.Equal(t, "133.32", total.String())
}

func TestCheckAvailabilityIsIdempotent(t *testing.T) {
	f := setup(t)
	existing := f.create(t, alice, "2024-06-01", "2024-06-05")

	ctx := context.Background()
	a1, err := f.mgr.CheckAvailability(ctx, roomID, day("2024-06-03"), day("2024-06-07"))
	require.NoError(t, err)
	a2, err := f.mgr.CheckAvailability(ctx, roomID, day("2024-06-03"), day("2024-06-07"))
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.False(t, a1.Available)
	assert.Equal(t, []uint64{existing.ID}, a1.ConflictIDs())

	free, err := f.mgr.CheckAvailability(ctx, roomID, day("2024-06-05"), day("2024-06-07"))
	require.NoError(t, err)
	assert.True(t, free.Available)
	assert.Empty(t, free.Conflicts)
}

func TestCheckAvailabilityErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.mgr.CheckAvailability(ctx, 99, day("2024-06-01"), day("2024-06-02"))
	assert.ErrorIs(t, err, booking.ErrNotFound)

	_, err = f.mgr.CheckAvailability(ctx, roomID, day("2024-06-02"), day("2024-06-01"))
	assert.ErrorIs(t, err, booking.ErrInvalidRange)
}

func TestCreateBooking(t *testing.T) {
	f := setup(t)
	b, err := f.mgr.CreateBooking(context.Background(), booking.CreateInput{
		RoomID: roomID, UserID: alice.UserID,
		CheckIn: day("2024-06-01"), CheckOut: day("2024-06-04"),
		Guests: 2, SpecialRequests: "  late arrival ",
	})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, model.StatusUnpaid, b.Status)
	assert.Equal(t, model.Cents(30000), b.TotalPriceCents)
	require.NotNil(t, b.SpecialRequests)
	assert.Equal(t, "late arrival", *b.SpecialRequests)
	assert.Len(t, f.events.created, 1)

	stored, err := f.store.GetBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, *b, *stored)
}

func TestCreateBookingValidation(t *testing.T) {
	f := setup(t)
	cases := []struct {
		name  string
		in    booking.CreateInput
		code  string
		field string
	}{
		{"zero nights", booking.CreateInput{RoomID: roomID, UserID: 1, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-01"), Guests: 1}, booking.CodeInvalidRange, "check_out_date"},
		{"reversed", booking.CreateInput{RoomID: roomID, UserID: 1, CheckIn: day("2024-06-03"), CheckOut: day("2024-06-01"), Guests: 1}, booking.CodeInvalidRange, "check_out_date"},
		{"missing dates", booking.CreateInput{RoomID: roomID, UserID: 1, Guests: 1}, booking.CodeInvalidRange, "check_in_date"},
		{"no guests", booking.CreateInput{RoomID: roomID, UserID: 1, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-02")}, booking.CodeInvalidGuests, "guests"},
		{"negative guests", booking.CreateInput{RoomID: roomID, UserID: 1, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-02"), Guests: -3}, booking.CodeInvalidGuests, "guests"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.mgr.CreateBooking(context.Background(), tc.in)
			require.ErrorIs(t, err, booking.ErrInvalidInput)
			e := booking.AsError(err)
			assert.Equal(t, tc.code, e.Code)
			assert.Contains(t, e.Fields, tc.field)
		})
	}
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	f := setup(t)
	_, err := f.mgr.CreateBooking(context.Background(), booking.CreateInput{
		RoomID: 99, UserID: 1, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-02"), Guests: 1,
	})
	require.ErrorIs(t, err, booking.ErrNotFound)
	assert.Equal(t, booking.CodeRoomNotFound, booking.AsError(err).Code)
}

func TestConflictReportingAndExclusiveCheckOut(t *testing.T) {
	f := setup(t)
	existing := f.create(t, alice, "2024-06-01", "2024-06-05")
	_, err := f.mgr.TransitionStatus(context.Background(), existing.ID, model.StatusConfirmed, admin)
	require.NoError(t, err)

	_, err = f.mgr.CreateBooking(context.Background(), booking.CreateInput{
		RoomID: roomID, UserID: bob.UserID, CheckIn: day("2024-06-03"), CheckOut: day("2024-06-07"), Guests: 1,
	})
	require.ErrorIs(t, err, booking.ErrConflict)
	assert.Equal(t, []uint64{existing.ID}, booking.AsError(err).ConflictIDs)

	adjacent := f.create(t, bob, "2024-06-05", "2024-06-07")
	assert.Equal(t, model.StatusUnpaid, adjacent.Status)

	before := f.create(t, bob, "2024-05-28", "2024-06-01")
	assert.NotZero(t, before.ID)
}

func TestCancellationFreesRoom(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	existing := f.create(t, alice, "2024-06-01", "2024-06-05")
	_, err := f.mgr.TransitionStatus(ctx, existing.ID, model.StatusConfirmed, alice)
	require.NoError(t, err)

	_, err = f.mgr.TransitionStatus(ctx, existing.ID, model.StatusCancelled, alice)
	require.NoError(t, err)

	again := f.create(t, bob, "2024-06-01", "2024-06-05")
	assert.Equal(t, bob.UserID, again.UserID)
}

func TestCheckedOutFreesRoom(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.create(t, alice, "2024-06-01", "2024-06-05")
	for _, st := range []model.BookingStatus{model.StatusConfirmed, model.StatusCheckedIn, model.StatusCheckedOut} {
		_, err := f.mgr.TransitionStatus(ctx, b.ID, st, admin)
		require.NoError(t, err, st)
	}
	f.create(t, bob, "2024-06-02", "2024-06-03")
}

func TestTransitionLegality(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	checkedIn := f.create(t, alice, "2024-07-01", "2024-07-03")
	for _, st := range []model.BookingStatus{model.StatusConfirmed, model.StatusCheckedIn} {
		_, err := f.mgr.TransitionStatus(ctx, checkedIn.ID, st, admin)
		require.NoError(t, err)
	}
	_, err := f.mgr.TransitionStatus(ctx, checkedIn.ID, model.StatusCancelled, admin)
	require.ErrorIs(t, err, booking.ErrIllegalTransition)
	assert.Equal(t, model.StatusCheckedIn, booking.AsError(err).Status)

	unpaid := f.create(t, alice, "2024-07-10", "2024-07-12")
	_, err = f.mgr.TransitionStatus(ctx, unpaid.ID, model.StatusConfirmed, bob)
	require.ErrorIs(t, err, booking.ErrForbidden)
	assert.Equal(t, model.RoleCustomer, booking.AsError(err).Role)

	got, err := f.mgr.TransitionStatus(ctx, unpaid.ID, model.StatusCancelled, alice)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Equal(t, unpaid.TotalPriceCents, got.TotalPriceCents)
	assert.True(t, got.CheckIn.Equal(unpaid.CheckIn))

	_, err = f.mgr.TransitionStatus(ctx, unpaid.ID, model.StatusConfirmed, admin)
	assert.ErrorIs(t, err, booking.ErrIllegalTransition, "terminal status")
}

func TestCustomerCannotCheckIn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.create(t, alice, "2024-08-01", "2024-08-02")
	_, err := f.mgr.TransitionStatus(ctx, b.ID, model.StatusConfirmed, alice)
	require.NoError(t, err)

	_, err = f.mgr.TransitionStatus(ctx, b.ID, model.StatusCheckedIn, alice)
	assert.ErrorIs(t, err, booking.ErrForbidden)

	_, err = f.mgr.TransitionStatus(ctx, b.ID, model.StatusCheckedOut, alice)
	assert.ErrorIs(t, err, booking.ErrIllegalTransition)
}

func TestTransitionErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.mgr.TransitionStatus(ctx, 404, model.StatusCancelled, admin)
	require.ErrorIs(t, err, booking.ErrNotFound)
	assert.Equal(t, booking.CodeBookingNotFound, booking.AsError(err).Code)

	_, err = f.mgr.TransitionStatus(ctx, 1, model.BookingStatus("paid"), admin)
	require.ErrorIs(t, err, booking.ErrInvalidInput)
	assert.Equal(t, booking.CodeInvalidStatus, booking.AsError(err).Code)

	_, err = f.mgr.TransitionStatus(ctx, 1, model.StatusCancelled, model.Principal{UserID: 3, Role: "GUEST"})
	assert.ErrorIs(t, err, booking.ErrForbidden)
}

func TestTransitionPublishesEvent(t *testing.T) {
	f := setup(t)
	b := f.create(t, alice, "2024-09-01", "2024-09-02")
	_, err := f.mgr.TransitionStatus(context.Background(), b.ID, model.StatusConfirmed, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{fmt.Sprintf("%d:unpaid->confirmed", b.ID)}, f.events.changed)
}

func TestPublishFailureDoesNotUndoBooking(t *testing.T) {
	f := setup(t)
	f.events.fail = true
	b := f.create(t, alice, "2024-09-01", "2024-09-02")
	_, err := f.store.GetBooking(context.Background(), b.ID)
	assert.NoError(t, err)
}

func TestConcurrentCreatesNeverOverlap(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ranges := [][2]string{
		{"2024-10-01", "2024-10-05"},
		{"2024-10-03", "2024-10-06"},
		{"2024-10-04", "2024-10-08"},
		{"2024-10-05", "2024-10-07"},
		{"2024-10-01", "2024-10-02"},
		{"2024-10-06", "2024-10-09"},
	}

	var wg sync.WaitGroup
	for round := 0; round < 5; round++ {
		for i, r := range ranges {
			wg.Add(1)
			go func(user uint64, in, out string) {
				defer wg.Done()
				_, err := f.mgr.CreateBooking(ctx, booking.CreateInput{
					RoomID: roomID, UserID: user, CheckIn: day(in), CheckOut: day(out), Guests: 1,
				})
				if err != nil {
					assert.ErrorIs(t, err, booking.ErrConflict)
				}
			}(uint64(100+i), r[0], r[1])
		}
	}
	wg.Wait()

	all, err := f.store.ListBookings(ctx, booking.ListFilter{RoomID: roomID})
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			assert.False(t, all[i].Overlaps(all[j].CheckIn, all[j].CheckOut),
				"bookings %d and %d overlap", all[i].ID, all[j].ID)
		}
	}
}

func TestConcurrentTransitionsSerialize(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.create(t, alice, "2024-11-01", "2024-11-03")

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	targets := []model.BookingStatus{model.StatusConfirmed, model.StatusCancelled}
	for i, st := range targets {
		wg.Add(1)
		go func(i int, st model.BookingStatus) {
			defer wg.Done()
			_, errs[i] = f.mgr.TransitionStatus(ctx, b.ID, st, admin)
		}(i, st)
	}
	wg.Wait()

	got, err := f.store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	// confirmed -> cancelled is legal but cancelled -> confirmed is not,
	// so cancel always wins and confirm either precedes it or is refused.
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.NoError(t, errs[1])
	if errs[0] != nil {
		assert.ErrorIs(t, errs[0], booking.ErrIllegalTransition)
	}
}

type blockingLocker struct{}

func (blockingLocker) Lock(ctx context.Context, key string) (func(), error) {
	<-ctx.Done()
	return nil, fmt.Errorf("%w: %s: %w", lock.ErrTimeout, key, ctx.Err())
}

func TestLockTimeoutIsBusy(t *testing.T) {
	store := memory.New(memory.Config{})
	store.AddRoom(model.Room{ID: roomID, BasePriceCents: 100, HasRate: true})
	mgr := booking.New(booking.Config{LockWait: 10 * time.Millisecond}, nil, store, store, blockingLocker{}, nil)

	_, err := mgr.CreateBooking(context.Background(), booking.CreateInput{
		RoomID: roomID, UserID: 1, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-02"), Guests: 1,
	})
	require.ErrorIs(t, err, booking.ErrBusy)
	assert.True(t, booking.KindOf(err).Retryable())
	assert.Equal(t, booking.CodeLockTimeout, booking.AsError(err).Code)
}

// flakyStore reports every commit as uncertain.  When applied is true the
// write did land; otherwise it was lost.
type flakyStore struct {
	*memory.Store
	applied bool
}

func (s *flakyStore) InRoomTx(ctx context.Context, roomID uint64, fn func(context.Context, booking.Tx) error) error {
	return s.uncertain(ctx, fn, func(ctx context.Context, fn func(context.Context, booking.Tx) error) error {
		return s.Store.InRoomTx(ctx, roomID, fn)
	})
}

func (s *flakyStore) InBookingTx(ctx context.Context, bookingID uint64, fn func(context.Context, booking.Tx) error) error {
	return s.uncertain(ctx, fn, func(ctx context.Context, fn func(context.Context, booking.Tx) error) error {
		return s.Store.InBookingTx(ctx, bookingID, fn)
	})
}

var errRolledBack = errors.New("rolled back")

func (s *flakyStore) uncertain(ctx context.Context, fn func(context.Context, booking.Tx) error, run func(context.Context, func(context.Context, booking.Tx) error) error) error {
	if s.applied {
		if err := run(ctx, fn); err != nil {
			return err
		}
		return fmt.Errorf("commit: connection reset: %w", booking.ErrCommitUncertain)
	}
	err := run(ctx, func(ctx context.Context, tx booking.Tx) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return errRolledBack
	})
	if errors.Is(err, errRolledBack) {
		return fmt.Errorf("commit: connection reset: %w", booking.ErrCommitUncertain)
	}
	return err
}

func warned(hook *test.Hook) bool {
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			return true
		}
	}
	return false
}

func TestUncertainCommitIsVerifiedByReRead(t *testing.T) {
	for _, applied := range []bool{true, false} {
		t.Run(fmt.Sprintf("applied=%v", applied), func(t *testing.T) {
			mem := memory.New(memory.Config{})
			mem.AddRoom(model.Room{ID: roomID, BasePriceCents: 100, HasRate: true})
			store := &flakyStore{Store: mem, applied: applied}
			log, hook := test.NewNullLogger()
			mgr := booking.New(booking.Config{}, log, mem, store, lock.NewKeyed(), nil)

			b, err := mgr.CreateBooking(context.Background(), booking.CreateInput{
				RoomID: roomID, UserID: 1, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-02"), Guests: 1,
			})
			if applied {
				require.NoError(t, err)
				assert.NotZero(t, b.ID)
				assert.True(t, warned(hook))
				return
			}
			require.ErrorIs(t, err, booking.ErrUnavailable)
			assert.Nil(t, b)
		})
	}
}

func TestUncertainTransitionIsVerifiedByReRead(t *testing.T) {
	for _, applied := range []bool{true, false} {
		t.Run(fmt.Sprintf("applied=%v", applied), func(t *testing.T) {
			mem := memory.New(memory.Config{})
			mem.AddRoom(model.Room{ID: roomID, BasePriceCents: 100, HasRate: true})
			mem.Seed(model.Booking{
				ID: 5, RoomID: roomID, UserID: alice.UserID, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-02"),
				Guests: 1, TotalPriceCents: 100, Status: model.StatusUnpaid,
			})
			store := &flakyStore{Store: mem, applied: applied}
			log, hook := test.NewNullLogger()
			events := &recorder{}
			mgr := booking.New(booking.Config{}, log, mem, store, lock.NewKeyed(), events)

			b, err := mgr.TransitionStatus(context.Background(), 5, model.StatusConfirmed, alice)
			if applied {
				require.NoError(t, err)
				assert.Equal(t, model.StatusConfirmed, b.Status)
				assert.True(t, warned(hook))
				assert.Equal(t, []string{"5:unpaid->confirmed"}, events.changed)
				return
			}
			require.ErrorIs(t, err, booking.ErrUnavailable)
			assert.Nil(t, b)
			assert.Empty(t, events.changed)

			cur, err := mem.GetBooking(context.Background(), 5)
			require.NoError(t, err)
			assert.Equal(t, model.StatusUnpaid, cur.Status)
		})
	}
}

func TestLongStaysAreBounded(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	q, err := f.mgr.ComputePrice(ctx, roomID, day("2024-01-01"), day("2024-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 365, q.Nights)
	assert.Equal(t, "36500.00", q.Total.String())

	_, err = f.mgr.ComputePrice(ctx, roomID, day("2000-01-01"), day("2400-01-01"))
	require.ErrorIs(t, err, booking.ErrInvalidRange)

	_, err = f.mgr.CreateBooking(ctx, booking.CreateInput{
		RoomID: roomID, UserID: alice.UserID, CheckIn: day("2000-01-01"), CheckOut: day("2400-01-01"), Guests: 1,
	})
	require.ErrorIs(t, err, booking.ErrInvalidRange)
	bs, err := f.store.ListBookings(ctx, booking.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, bs)

	_, _, err = booking.PriceStay(model.MaxAmount/10, day("2024-01-01"), day("2024-01-12"))
	require.ErrorIs(t, err, booking.ErrInvalidRange)
	total, _, err := booking.PriceStay(model.MaxAmount/10, day("2024-01-01"), day("2024-01-11"))
	require.NoError(t, err)
	assert.Equal(t, model.MaxAmount-9, total)
}

func TestListBookingsScopesCustomers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a1 := f.create(t, alice, "2024-06-01", "2024-06-02")
	f.create(t, bob, "2024-06-02", "2024-06-03")
	a2 := f.create(t, alice, "2024-06-03", "2024-06-04")

	mine, err := f.mgr.ListBookings(ctx, alice, booking.ListFilter{UserID: bob.UserID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, b := range mine {
		assert.Equal(t, alice.UserID, b.UserID)
	}
	assert.ElementsMatch(t, []uint64{a1.ID, a2.ID}, []uint64{mine[0].ID, mine[1].ID})

	all, err := f.mgr.ListBookings(ctx, admin, booking.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.mgr.ListBookings(ctx, admin, booking.ListFilter{Status: "paid"})
	assert.ErrorIs(t, err, booking.ErrInvalidInput)
}

func TestGetBookingOwnership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.create(t, alice, "2024-06-01", "2024-06-02")

	got, err := f.mgr.GetBooking(ctx, alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.mgr.GetBooking(ctx, bob, b.ID)
	assert.ErrorIs(t, err, booking.ErrForbidden)

	_, err = f.mgr.GetBooking(ctx, admin, b.ID)
	assert.NoError(t, err)

	_, err = f.mgr.GetBooking(ctx, admin, 999)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}
