// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/clock"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/geo"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/recurrence"
)

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrAtCapacity),
		errors.Is(err, dto.ErrAlreadyBooked),
		errors.Is(err, dto.ErrStoreConflict):
		return http.StatusConflict
	case errors.Is(err, dto.ErrNotFound),
		errors.Is(err, dto.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, dto.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, dto.ErrBadInput),
		errors.Is(err, dto.ErrBadDateTime),
		errors.Is(err, dto.ErrBadCoordinates),
		errors.Is(err, dto.ErrUnsupportedRule),
		errors.Is(err, dto.ErrRangeTooLarge),
		errors.Is(err, dto.ErrAlreadyCancelled),
		errors.Is(err, dto.ErrAlreadyCheckedIn),
		errors.Is(err, dto.ErrTooEarly),
		errors.Is(err, dto.ErrTooLate),
		errors.Is(err, dto.ErrOutOfRange),
		errors.Is(err, clock.ErrBadDateTime),
		errors.Is(err, geo.ErrBadCoordinates),
		errors.Is(err, recurrence.ErrUnsupportedRule):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the taxonomy-mapped status with the flat error body.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// Do not leak internals on server faults.
		c.JSON(status, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, dto.NewErrorResponse(err))
}

// respondBadRequest is the binding-failure shortcut.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
}
