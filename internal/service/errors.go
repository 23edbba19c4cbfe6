package service

import "errors"

// Booking failure kinds. Every error returned by BookingService.CreateBooking
// wraps exactly one of them; callers branch with errors.Is.
var (
	// ErrInvalidRequest: caller-supplied data failed a required-field or
	// format check. The wrapped message is safe to show to the visitor.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrOfferUnavailable: the offer does not exist or is inactive.
	ErrOfferUnavailable = errors.New("offer unavailable")

	// ErrOperatorUnavailable: the offer's operator is inactive or has no
	// WhatsApp number to hand the booking off to.
	ErrOperatorUnavailable = errors.New("operator unavailable")

	// ErrPersistence: the store failed or timed out. No booking row exists.
	ErrPersistence = errors.New("persistence error")
)
