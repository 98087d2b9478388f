package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")

	ErrInvalidID = fmt.Errorf("%w: malformed id", ErrInvalidArgument)

	// ErrPropertyNotFound is an invalid argument when reserving and a plain
	// not-found when the property itself is requested.
	ErrPropertyNotFound = fmt.Errorf("%w: property not found", ErrInvalidArgument)

	ErrNotFound = errors.New("booking not found")

	ErrInsufficientInventory = errors.New("insufficient inventory")

	ErrAlreadyTerminal = errors.New("booking is in a terminal state")

	ErrHoldExpired = errors.New("temporary hold has expired")

	ErrHoldNotExpired = errors.New("temporary hold has not expired yet")

	ErrInvalidTransition = errors.New("transition not allowed from current status")

	ErrStaleStatus = errors.New("booking status changed concurrently")

	ErrHoldNotFound = errors.New("inventory hold not found")

	ErrDuplicateHold = errors.New("inventory already held for booking")

	ErrAlreadyReleased = errors.New("inventory hold already released")
)
