// Package booking is the admission and lifecycle engine for hotel room
// bookings.  It decides whether a stay can be admitted without
// double-booking a room, prices it, and moves bookings through their
// status lifecycle.  Persistence, room lookup, locking and event
// delivery are collaborators injected through the interfaces in
// store.go.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

const (
	// DefaultLockWait bounds how long a request waits for its room or
	// booking lock before failing with Busy.
	DefaultLockWait = 5 * time.Second

	DefaultListLimit = 50
	MaxListLimit     = 500

	// MaxSpecialRequests caps the free-text notes stored with a booking.
	MaxSpecialRequests = 1000

	// MaxStayNights bounds a single stay.  Longer ranges are INVALID_RANGE.
	MaxStayNights = 365
)

// Config tunes a Manager.
type Config struct {
	LockWait time.Duration
	// Now overrides the clock; tests use it to pin timestamps.
	Now func() time.Time
}

// Manager owns the booking rules.  It holds no booking state of its own;
// every decision is made against the store inside a room- or
// booking-scoped unit.
type Manager struct {
	log      logrus.FieldLogger
	catalog  Catalog
	store    Store
	locker   Locker
	events   EventPublisher
	lockWait time.Duration
	now      func() time.Time
}

// New builds a Manager.  catalog, store and locker are required; a nil
// events publisher disables lifecycle notifications.
func New(cfg Config, log logrus.FieldLogger, catalog Catalog, store Store, locker Locker, events EventPublisher) *Manager {
	if catalog == nil || store == nil || locker == nil {
		panic("booking: nil collaborator passed to New")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if events == nil {
		events = noopPublisher{}
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = DefaultLockWait
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		log:      log.WithField("component", "booking"),
		catalog:  catalog,
		store:    store,
		locker:   locker,
		events:   events,
		lockWait: cfg.LockWait,
		now:      cfg.Now,
	}
}

// CreateInput carries the caller-supplied fields of a new booking.
type CreateInput struct {
	RoomID          uint64
	UserID          uint64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
}

func (in CreateInput) validate() error {
	ie := newInputError()
	if err := validateRange(in.RoomID, in.CheckIn, in.CheckOut); err != nil {
		for f, msg := range AsError(err).Fields {
			ie.add(AsError(err).Code, f, msg)
		}
	}
	if in.UserID == 0 {
		ie.add(CodeInvalidRequest, "user_id", "must be a positive integer")
	}
	if in.Guests <= 0 {
		ie.add(CodeInvalidGuests, "guests", "must be greater than zero")
	}
	if utf8.RuneCountInString(in.SpecialRequests) > MaxSpecialRequests {
		ie.add(CodeInvalidRequest, "special_requests", "is too long")
	}
	return ie.err()
}

// CreateBooking admits a new stay in status unpaid.  The availability
// re-check and the insert run in one unit under the room lock, so two
// concurrent requests for overlapping dates cannot both succeed.
func (m *Manager) CreateBooking(ctx context.Context, in CreateInput) (*model.Booking, error) {
	in.CheckIn, in.CheckOut = model.TruncateDate(in.CheckIn), model.TruncateDate(in.CheckOut)
	in.SpecialRequests = strings.TrimSpace(in.SpecialRequests)
	if err := in.validate(); err != nil {
		return nil, err
	}
	log := m.log.WithFields(logrus.Fields{"room_id": in.RoomID, "user_id": in.UserID})

	room, err := m.catalog.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, m.translate(err, "create booking")
	}
	quote, err := quoteRoom(room, in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}

	unlock, err := m.acquire(ctx, RoomLockKey(in.RoomID))
	if err != nil {
		log.WithError(err).Warn("room lock not acquired")
		return nil, err
	}
	defer unlock()

	b := &model.Booking{
		RoomID:          in.RoomID,
		UserID:          in.UserID,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		Guests:          in.Guests,
		TotalPriceCents: quote.Total,
		Status:          model.StatusUnpaid,
	}
	if in.SpecialRequests != "" {
		notes := in.SpecialRequests
		b.SpecialRequests = &notes
	}

	err = m.store.InRoomTx(ctx, in.RoomID, func(ctx context.Context, tx Tx) error {
		found, err := tx.FindBlockingBookings(ctx, in.RoomID, in.CheckIn, in.CheckOut)
		if err != nil {
			return err
		}
		if conflicts := filterConflicts(found, in.CheckIn, in.CheckOut); len(conflicts) > 0 {
			return conflictError(conflicts)
		}
		_, err = tx.InsertBooking(ctx, b)
		return err
	})
	if errors.Is(err, ErrCommitUncertain) {
		err = m.confirmCreated(ctx, b, err)
	}
	if err != nil {
		if KindOf(err) == KindConflict {
			log.WithField("conflicts", AsError(err).ConflictIDs).Info("booking rejected: dates unavailable")
			return nil, err
		}
		return nil, m.translate(err, "create booking")
	}

	log.WithFields(logrus.Fields{
		"booking_id":  b.ID,
		"check_in":    b.CheckIn.Format(model.DateLayout),
		"check_out":   b.CheckOut.Format(model.DateLayout),
		"total_price": b.TotalPriceCents.String(),
	}).Info("booking created")
	if perr := m.events.BookingCreated(context.WithoutCancel(ctx), *b); perr != nil {
		log.WithError(perr).WithField("booking_id", b.ID).Warn("publish booking.created failed")
	}
	return b, nil
}

// confirmCreated resolves an uncertain commit by reading the booking
// back.  Success is only reported when the row is actually there.
func (m *Manager) confirmCreated(ctx context.Context, b *model.Booking, cause error) error {
	if b.ID == 0 {
		return cause
	}
	got, err := m.store.GetBooking(ctx, b.ID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return cause
		}
		return errors.Join(cause, err)
	}
	if got.RoomID != b.RoomID || got.UserID != b.UserID || !got.CheckIn.Equal(b.CheckIn) || !got.CheckOut.Equal(b.CheckOut) {
		return cause
	}
	*b = *got
	m.log.WithField("booking_id", b.ID).Warn("commit outcome was uncertain; booking verified by re-read")
	return nil
}

// TransitionStatus moves a booking to next on behalf of by.  The current
// status is read inside the booking-scoped unit, so concurrent
// transitions of the same booking are validated one after another
// against fresh state.
//
// Admins may apply any transition in the table.  Customers may act on
// their own bookings only, and only to confirm an unpaid booking or to
// cancel one that is unpaid or confirmed.
func (m *Manager) TransitionStatus(ctx context.Context, bookingID uint64, next model.BookingStatus, by model.Principal) (*model.Booking, error) {
	ie := newInputError()
	if bookingID == 0 {
		ie.add(CodeInvalidRequest, "booking_id", "must be a positive integer")
	}
	if !next.IsValid() {
		ie.add(CodeInvalidStatus, "status", "must be one of unpaid, confirmed, checked_in, checked_out, cancelled")
	}
	if err := ie.err(); err != nil {
		return nil, err
	}
	if err := checkPrincipal(by); err != nil {
		return nil, err
	}
	log := m.log.WithFields(logrus.Fields{"booking_id": bookingID, "user_id": by.UserID, "role": by.Role, "to": next})

	unlock, err := m.acquire(ctx, BookingLockKey(bookingID))
	if err != nil {
		log.WithError(err).Warn("booking lock not acquired")
		return nil, err
	}
	defer unlock()

	var (
		from    model.BookingStatus
		updated model.Booking
	)
	err = m.store.InBookingTx(ctx, bookingID, func(ctx context.Context, tx Tx) error {
		cur, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := authorizeTransition(cur, next, by); err != nil {
			return err
		}
		if err := tx.UpdateBookingStatus(ctx, bookingID, next); err != nil {
			return err
		}
		from = cur.Status
		updated = *cur
		updated.Status = next
		updated.UpdatedAt = m.now().UTC()
		return nil
	})
	if errors.Is(err, ErrCommitUncertain) {
		got, rerr := m.store.GetBooking(ctx, bookingID)
		if rerr == nil && got.Status == next {
			log.Warn("commit outcome was uncertain; transition verified by re-read")
			updated, err = *got, nil
		}
	}
	if err != nil {
		switch KindOf(err) {
		case KindForbidden, KindIllegalTransition:
			log.WithError(err).Info("transition rejected")
			return nil, err
		}
		return nil, m.translate(err, "transition status")
	}

	log.WithField("from", from).Info("booking status changed")
	if perr := m.events.BookingStatusChanged(context.WithoutCancel(ctx), updated, from, by); perr != nil {
		log.WithError(perr).Warn("publish booking.status_changed failed")
	}
	return &updated, nil
}

func authorizeTransition(cur *model.Booking, next model.BookingStatus, by model.Principal) error {
	if !by.IsAdmin() && !by.Owns(cur) {
		return &Error{
			Kind:    KindForbidden,
			Message: "booking belongs to another user",
			Role:    by.Role,
		}
	}
	if !cur.Status.CanTransitionTo(next) {
		return &Error{
			Kind:    KindIllegalTransition,
			Message: "cannot change status from " + string(cur.Status) + " to " + string(next),
			Status:  cur.Status,
		}
	}
	if !by.IsAdmin() && next != model.StatusConfirmed && next != model.StatusCancelled {
		return &Error{
			Kind:    KindForbidden,
			Message: "only an admin may set status " + string(next),
			Role:    by.Role,
		}
	}
	return nil
}

// ListBookings returns bookings newest first.  Non-admin principals only
// ever see their own bookings whatever the filter says.
func (m *Manager) ListBookings(ctx context.Context, by model.Principal, f ListFilter) ([]model.Booking, error) {
	if err := checkPrincipal(by); err != nil {
		return nil, err
	}
	if !by.IsAdmin() {
		f.UserID = by.UserID
	}
	if f.Status != "" && !f.Status.IsValid() {
		return nil, &Error{
			Kind:    KindInvalidInput,
			Code:    CodeInvalidStatus,
			Message: "unknown status " + string(f.Status),
			Fields:  map[string]string{"status": "is not a known status"},
		}
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	out, err := m.store.ListBookings(ctx, f)
	if err != nil {
		return nil, m.translate(err, "list bookings")
	}
	return out, nil
}

// GetBooking returns one booking if by may see it.
func (m *Manager) GetBooking(ctx context.Context, by model.Principal, bookingID uint64) (*model.Booking, error) {
	if err := checkPrincipal(by); err != nil {
		return nil, err
	}
	b, err := m.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, m.translate(err, "get booking")
	}
	if !by.IsAdmin() && !by.Owns(b) {
		return nil, &Error{Kind: KindForbidden, Message: "booking belongs to another user", Role: by.Role}
	}
	return b, nil
}

func checkPrincipal(by model.Principal) error {
	if by.UserID == 0 || (by.Role != model.RoleAdmin && by.Role != model.RoleCustomer) {
		return &Error{Kind: KindForbidden, Message: "unknown principal", Role: by.Role}
	}
	return nil
}

// acquire takes a lock with the configured wait bound.  A wait that runs
// out is Busy; any other locker failure is Unavailable.
func (m *Manager) acquire(ctx context.Context, key string) (func(), error) {
	lctx, cancel := context.WithTimeout(ctx, m.lockWait)
	defer cancel()
	unlock, err := m.locker.Lock(lctx, key)
	if err == nil {
		return unlock, nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, &Error{Kind: KindBusy, Code: CodeLockTimeout, Message: "timed out waiting for " + key, Err: err}
	}
	return nil, &Error{Kind: KindUnavailable, Code: CodeStoreFailure, Message: "lock backend failed", Err: err}
}

// translate maps collaborator errors onto the engine taxonomy.
func (m *Manager) translate(err error, op string) error {
	if e := AsError(err); e != nil {
		return e
	}
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return &Error{Kind: KindNotFound, Code: CodeRoomNotFound, Message: "room not found", Err: err}
	case errors.Is(err, ErrBookingNotFound):
		return &Error{Kind: KindNotFound, Code: CodeBookingNotFound, Message: "booking not found", Err: err}
	case errors.Is(err, ErrContention), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		m.log.WithError(err).WithField("op", op).Warn("store contention")
		return &Error{Kind: KindBusy, Code: CodeLockTimeout, Message: "store is busy, retry later", Err: err}
	}
	m.log.WithError(err).WithField("op", op).Error("store failure")
	return &Error{Kind: KindUnavailable, Code: CodeStoreFailure, Message: "booking store unavailable", Err: err}
}
