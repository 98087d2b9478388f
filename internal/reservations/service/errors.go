package service

import (
	"context"
	"errors"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/internal/reservations/validator"
	apperrors "eventstay/pkg/errors"
	"eventstay/pkg/model"
)

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Validation failed", verrs.Details())
	}
	return apperrors.InvalidInput(err.Error())
}

// bookingError turns a domain error from a booking operation into the
// AppError the caller sees. status is the booking's status when known.
func bookingError(err error, id string, status model.Status) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, reservationserrors.ErrAlreadyTerminal):
		return apperrors.AlreadyTerminal(id, string(status))
	case errors.Is(err, reservationserrors.ErrHoldExpired):
		return apperrors.HoldExpired(id)
	case errors.Is(err, reservationserrors.ErrInvalidTransition):
		return apperrors.Conflict(err.Error()).WithDetails(map[string]any{"id": id, "status": string(status)})
	case errors.Is(err, reservationserrors.ErrStaleStatus):
		return apperrors.Conflict("Booking was modified concurrently, please retry").WithDetails(map[string]any{"id": id})
	}
	return storageError(err, "Failed to update booking")
}

func propertyError(err error, id string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, reservationserrors.ErrPropertyNotFound):
		return apperrors.NotFoundWithID("Property", id)
	case errors.Is(err, reservationserrors.ErrInvalidArgument):
		return apperrors.InvalidInput(err.Error())
	}
	return storageError(err, "Failed to access property")
}

func storageError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout("Storage did not respond in time")
	}
	return apperrors.Internal(message, err)
}
