// Package pricing computes the price of a stay. It is pure: it never reads a
// clock, storage or configuration on its own.
package pricing

import (
	"fmt"
	"math"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/pkg/model"
)

// ComfortRatePerDay is the published daily rate of a comfort car with driver.
const ComfortRatePerDay model.Money = 70000

const day = 24 * time.Hour

// Nights returns the number of nights between check-in and check-out, with a
// partial day counted as a full night.
func Nights(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, fmt.Errorf("%w: check-out must be after check-in", reservationserrors.ErrInvalidArgument)
	}
	diff := checkOut.Sub(checkIn)
	nights := diff / day
	if diff%day != 0 {
		nights++
	}
	return int(nights), nil
}

// Quote prices a stay of nights × units at pricePerNight, plus the driver
// service when requested. Driver cost is charged per day and does not scale
// with units. A luxury car has no numeric price: the driver charge is
// quote-required and Total covers accommodation only.
func Quote(nights, units int, pricePerNight model.Money, driverService bool, tier model.CarTier, standardPerDay model.Money) (model.Quote, error) {
	if nights < 0 {
		return model.Quote{}, fmt.Errorf("%w: nights must not be negative, got %d", reservationserrors.ErrInvalidArgument, nights)
	}
	if units < 1 {
		return model.Quote{}, fmt.Errorf("%w: units must be at least 1, got %d", reservationserrors.ErrInvalidArgument, units)
	}
	if pricePerNight < 0 {
		return model.Quote{}, fmt.Errorf("%w: price per night must not be negative", reservationserrors.ErrInvalidArgument)
	}

	accommodation, err := multiply(pricePerNight, nights, units)
	if err != nil {
		return model.Quote{}, err
	}

	quote := model.Quote{
		Nights:        nights,
		Accommodation: accommodation,
		Total:         accommodation,
	}
	if !driverService {
		return quote, nil
	}

	var rate model.Money
	switch tier {
	case model.CarStandard, "":
		if standardPerDay < 0 {
			return model.Quote{}, fmt.Errorf("%w: standard driver rate must not be negative", reservationserrors.ErrInvalidArgument)
		}
		rate = standardPerDay
	case model.CarComfort:
		rate = ComfortRatePerDay
	case model.CarLuxury:
		charge := model.QuoteRequiredCharge()
		quote.Driver = &charge
		quote.QuotePending = true
		return quote, nil
	default:
		return model.Quote{}, fmt.Errorf("%w: unknown car tier %q", reservationserrors.ErrInvalidArgument, tier)
	}

	driverCost, err := multiply(rate, nights, 1)
	if err != nil {
		return model.Quote{}, err
	}
	if accommodation > math.MaxInt64-driverCost {
		return model.Quote{}, fmt.Errorf("%w: total overflows", reservationserrors.ErrInvalidArgument)
	}

	charge := model.FixedCharge(driverCost)
	quote.Driver = &charge
	quote.Total = accommodation + driverCost
	return quote, nil
}

func multiply(amount model.Money, nights, units int) (model.Money, error) {
	if amount == 0 || nights == 0 {
		return 0, nil
	}
	factor := int64(nights) * int64(units)
	if int64(amount) > math.MaxInt64/factor {
		return 0, fmt.Errorf("%w: price overflows", reservationserrors.ErrInvalidArgument)
	}
	return amount * model.Money(factor), nil
}
