package booking

import (
	"errors"
	"fmt"
)

// Reason identifies which business rule a booking request failed.  The
// order of the constants mirrors the validation order: the first failing
// rule wins and later rules are not reported.
type Reason int

const (
	// ReasonNone means validation passed.
	ReasonNone Reason = iota
	// ReasonNoDatesSelected: the submitted selection was empty.
	ReasonNoDatesSelected
	// ReasonInvalidDate: a slot key was malformed, referenced a week
	// outside the bookable horizon or a template foreign to the resource.
	ReasonInvalidDate
	// ReasonFullyBooked: at least one requested occurrence is held by
	// another member.
	ReasonFullyBooked
	// ReasonNotEnoughItems: an occurrence is not bookable for a reason
	// other than being held by someone else (e.g. it lies in the past).
	ReasonNotEnoughItems
)

// String returns the stable wire identifier of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonNoDatesSelected:
		return "noDatesSelected"
	case ReasonInvalidDate:
		return "invalidDate"
	case ReasonFullyBooked:
		return "resourceFullyBooked"
	case ReasonNotEnoughItems:
		return "notEnoughItemsAvailable"
	}
	return "unknown"
}

// Message returns the user-facing message for the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonNoDatesSelected:
		return "Please select one or more booking dates."
	case ReasonInvalidDate:
		return "Please select valid booking dates inside the allowed time span."
	case ReasonFullyBooked:
		return "The resource is already fully booked in the selected period."
	case ReasonNotEnoughItems:
		return "Not enough items available in the selected period."
	}
	return ""
}

// ValidationError reports a recoverable booking-rule violation.  The
// request still completes normally; handlers surface the reason message
// with passedValidation=false.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking validation failed: %s", e.Reason)
}

// ErrNoResourceSelected is the ConfigurationError of the engine: a
// booking operation was attempted while the session filter holds no
// resource.  Fatal to the request, surfaced as a generic error.
var ErrNoResourceSelected = errors.New("booking: no resource selected")

// ErrNotInitialized is returned when a window operation runs before
// Initialize succeeded.
var ErrNotInitialized = errors.New("booking: window not initialized")

// ErrNotOwner is the AuthorizationError: a cancellation was requested by
// a member who does not own the booking.  Handlers surface a generic
// "not allowed" message and never reveal ownership details.
var ErrNotOwner = errors.New("booking: not allowed to cancel this booking")

// ErrBookingNotFound is returned when a cancellation references an
// unknown booking id.
var ErrBookingNotFound = errors.New("booking: booking not found")
