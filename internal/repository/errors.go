// Package repository implements the MySQL persistence layer.  This
// file defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers and the booking engine to distinguish between failure
// scenarios without depending on driver specifics.
package repository

import "errors"

// ErrSlotTaken is returned by BookingRepo.Insert when the unique
// (resource, start, end) interval constraint is violated: the slot was
// grabbed by a concurrent request.  The booking engine treats this as
// "slot became unavailable", not as a fatal error.
var ErrSlotTaken = errors.New("slot already taken")

// ErrEmailExists is returned when a member registration collides with
// an existing email address.  Handlers should translate this into an
// HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
