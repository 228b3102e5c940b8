package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Quote is a priced stay.
type Quote struct {
	RoomID      uint64
	Nights      int
	NightlyRate model.Cents
	Total       model.Cents
}

// PriceStay multiplies the nightly rate by the number of nights in
// [checkIn, checkOut).  It fails with INVALID_RANGE for stays of zero
// nights, stays over MaxStayNights, and totals a DECIMAL(10,2) column
// cannot hold.
func PriceStay(nightly model.Cents, checkIn, checkOut time.Time) (model.Cents, int, error) {
	nights := model.NightsBetween(checkIn, checkOut)
	if nights < 1 {
		return 0, 0, rangeError("stay must cover at least one night", "must be after check_in_date")
	}
	if nights > MaxStayNights {
		return 0, 0, rangeError("stay is too long", "stay may not exceed "+strconv.Itoa(MaxStayNights)+" nights")
	}
	if nightly < 0 || nightly > model.MaxAmount/model.Cents(nights) {
		return 0, 0, rangeError("total price is out of range", "stay total exceeds "+model.MaxAmount.String())
	}
	return nightly.Mul(int64(nights)), nights, nil
}

func rangeError(msg, field string) error {
	return &Error{
		Kind:    KindInvalidInput,
		Code:    CodeInvalidRange,
		Message: msg,
		Fields:  map[string]string{"check_out_date": field},
	}
}

// ComputePrice prices a stay in the room at its current base rate.
func (m *Manager) ComputePrice(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (Quote, error) {
	checkIn, checkOut = model.TruncateDate(checkIn), model.TruncateDate(checkOut)
	if err := validateRange(roomID, checkIn, checkOut); err != nil {
		return Quote{}, err
	}
	room, err := m.catalog.GetRoom(ctx, roomID)
	if err != nil {
		return Quote{}, m.translate(err, "compute price")
	}
	return quoteRoom(room, checkIn, checkOut)
}

func quoteRoom(room *model.Room, checkIn, checkOut time.Time) (Quote, error) {
	if !room.HasRate {
		return Quote{}, &Error{
			Kind:    KindNotFound,
			Code:    CodeRateNotFound,
			Message: "room " + uitoa(room.ID) + " has no nightly rate",
		}
	}
	total, nights, err := PriceStay(room.BasePriceCents, checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	return Quote{RoomID: room.ID, Nights: nights, NightlyRate: room.BasePriceCents, Total: total}, nil
}
