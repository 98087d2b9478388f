package lifecycle

import (
	"testing"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC)

func TestStart(t *testing.T) {
	state, effect := Start(now, time.Hour)

	assert.Equal(t, model.StatusTemporary, state.Status)
	require.NotNil(t, state.ExpiresAt)
	assert.Equal(t, now.Add(time.Hour), *state.ExpiresAt)
	assert.Equal(t, EffectReserve, effect)
}

func TestNext(t *testing.T) {
	live := model.TemporaryState(now.Add(time.Minute))
	lapsed := model.TemporaryState(now.Add(-time.Minute))
	atDeadline := model.TemporaryState(now)

	tests := []struct {
		name       string
		state      model.BookingState
		event      Event
		wantStatus model.Status
		wantEffect Effect
		wantErr    error
	}{
		{"confirm live hold", live, EventConfirm, model.StatusConfirmed, EffectNone, nil},
		{"confirm lapsed hold", lapsed, EventConfirm, model.StatusTemporary, EffectNone, reservationserrors.ErrHoldExpired},
		{"confirm exactly at deadline", atDeadline, EventConfirm, model.StatusTemporary, EffectNone, reservationserrors.ErrHoldExpired},
		{"confirm confirmed", model.ConfirmedState(), EventConfirm, model.StatusConfirmed, EffectNone, reservationserrors.ErrInvalidTransition},
		{"cancel temporary", live, EventCancel, model.StatusCancelled, EffectRelease, nil},
		{"cancel confirmed", model.ConfirmedState(), EventCancel, model.StatusCancelled, EffectRelease, nil},
		{"sweep lapsed", lapsed, EventSweep, model.StatusExpired, EffectRelease, nil},
		{"sweep at deadline", atDeadline, EventSweep, model.StatusExpired, EffectRelease, nil},
		{"sweep live hold", live, EventSweep, model.StatusTemporary, EffectNone, reservationserrors.ErrHoldNotExpired},
		{"sweep confirmed", model.ConfirmedState(), EventSweep, model.StatusConfirmed, EffectNone, reservationserrors.ErrInvalidTransition},
		{"unknown event", live, Event("teleport"), model.StatusTemporary, EffectNone, reservationserrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effect, err := Next(tt.state, tt.event, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, next.Status)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestNext_TerminalStatesAreStable(t *testing.T) {
	for _, state := range []model.BookingState{model.CancelledState(), model.ExpiredState()} {
		for _, event := range []Event{EventConfirm, EventCancel, EventSweep} {
			next, effect, err := Next(state, event, now)

			assert.ErrorIs(t, err, reservationserrors.ErrAlreadyTerminal, "%s + %s", state.Status, event)
			assert.Equal(t, state, next)
			assert.Equal(t, EffectNone, effect)
		}
	}
}

func TestNext_OnlyTemporaryCarriesExpiry(t *testing.T) {
	live := model.TemporaryState(now.Add(time.Hour))

	confirmed, _, err := Next(live, EventConfirm, now)
	require.NoError(t, err)
	assert.Nil(t, confirmed.ExpiresAt)

	cancelled, _, err := Next(live, EventCancel, now)
	require.NoError(t, err)
	assert.Nil(t, cancelled.ExpiresAt)

	expired, _, err := Next(live, EventSweep, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, expired.ExpiresAt)
}
