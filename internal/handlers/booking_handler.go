// internal/handlers/booking_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/middlewares"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Get returns a session's bookings when sessionId is present, else the
// caller's own bookings with optional limit/status.
func (h *BookingHandler) Get(c *gin.Context) {
	tenantID := middlewares.TenantID(c)
	ctx := c.Request.Context()

	if sessionID := c.Query("sessionId"); sessionID != "" {
		bookings, err := h.bookingService.ListBySession(ctx, tenantID, sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.BookingListResponse{Bookings: deref(bookings), Count: len(bookings)})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, dto.ErrBadInput)
			return
		}
		limit = n
	}

	bookings, err := h.bookingService.ListBySubject(ctx, tenantID, middlewares.SubjectID(c), limit, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BookingListResponse{Bookings: deref(bookings), Count: len(bookings)})
}

// Create books the subject onto a session. The subject falls back from the
// resolved identity to the request body.
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if subjectID := middlewares.SubjectID(c); subjectID != "" {
		req.SubjectID = subjectID
	}

	booking, err := h.bookingService.Create(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// Delete cancels a booking by bookingId.
func (h *BookingHandler) Delete(c *gin.Context) {
	bookingID := c.Query("bookingId")
	if bookingID == "" {
		respondError(c, dto.ErrBadInput)
		return
	}

	booking, err := h.bookingService.Cancel(c.Request.Context(), middlewares.TenantID(c), bookingID, middlewares.SubjectID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
