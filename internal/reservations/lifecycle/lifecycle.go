// Package lifecycle holds the booking state machine. It is the only code that
// derives a successor state, and it tells the caller whether the transition
// has to give units back to the ledger.
package lifecycle

import (
	"fmt"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/pkg/model"
)

type Event string

const (
	EventConfirm Event = "confirm"
	EventCancel  Event = "cancel"
	EventSweep   Event = "sweep"
)

type Effect int

const (
	EffectNone Effect = iota
	EffectReserve
	EffectRelease
)

func (e Effect) String() string {
	switch e {
	case EffectReserve:
		return "reserve"
	case EffectRelease:
		return "release"
	default:
		return "none"
	}
}

// Start is the Create transition: a new temporary hold that lapses after hold.
func Start(now time.Time, hold time.Duration) (model.BookingState, Effect) {
	return model.TemporaryState(now.Add(hold)), EffectReserve
}

// Next applies event to state at now.
//
//	temporary + confirm -> confirmed   (rejected once the hold lapsed)
//	temporary + cancel  -> cancelled   release
//	confirmed + cancel  -> cancelled   release
//	temporary + sweep   -> expired     release (only once the hold lapsed)
//	cancelled/expired   -> rejected
func Next(state model.BookingState, event Event, now time.Time) (model.BookingState, Effect, error) {
	if state.Status.IsTerminal() {
		return state, EffectNone, fmt.Errorf("%w: booking is %s", reservationserrors.ErrAlreadyTerminal, state.Status)
	}

	switch event {
	case EventConfirm:
		if state.Status != model.StatusTemporary {
			return state, EffectNone, fmt.Errorf("%w: cannot confirm a %s booking", reservationserrors.ErrInvalidTransition, state.Status)
		}
		if state.HoldLapsed(now) {
			return state, EffectNone, reservationserrors.ErrHoldExpired
		}
		return model.ConfirmedState(), EffectNone, nil

	case EventCancel:
		return model.CancelledState(), EffectRelease, nil

	case EventSweep:
		if state.Status != model.StatusTemporary {
			return state, EffectNone, fmt.Errorf("%w: cannot expire a %s booking", reservationserrors.ErrInvalidTransition, state.Status)
		}
		if !state.HoldLapsed(now) {
			return state, EffectNone, reservationserrors.ErrHoldNotExpired
		}
		return model.ExpiredState(), EffectRelease, nil
	}

	return state, EffectNone, fmt.Errorf("%w: unknown event %q", reservationserrors.ErrInvalidTransition, event)
}
