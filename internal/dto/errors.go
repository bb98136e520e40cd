package dto

import (
	"errors"
)

// Validation and input errors
var (
	ErrBadInput        = errors.New("invalid input")
	ErrBadDateTime     = errors.New("invalid datetime")
	ErrBadCoordinates  = errors.New("invalid coordinates")
	ErrUnsupportedRule = errors.New("unsupported recurrence rule")
	ErrRangeTooLarge   = errors.New("requested date range is too large")
)

// Lookup and ownership errors
var (
	ErrNotFound        = errors.New("not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("forbidden")
)

// Booking lifecycle errors
var (
	ErrAlreadyBooked    = errors.New("subject already has a booking for this session")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrAtCapacity       = errors.New("session is at capacity")
)

// Attendance errors
var (
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrTooEarly         = errors.New("check-in window has not opened")
	ErrTooLate          = errors.New("check-in window has closed")
	ErrOutOfRange       = errors.New("too far from session location")
)

// Store errors
var (
	ErrCounterUnderflow = errors.New("booked count underflow")
	ErrStoreConflict    = errors.New("conflicting write, retry")
)

// ErrorResponse is the error body for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse wraps an error message for the wire.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error()}
}
