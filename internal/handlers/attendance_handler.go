// internal/handlers/attendance_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/middlewares"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

// AttendanceHandler handles check-in HTTP requests
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// Get returns a session's records when sessionId is present, else the
// caller's own attendance history.
func (h *AttendanceHandler) Get(c *gin.Context) {
	tenantID := middlewares.TenantID(c)
	ctx := c.Request.Context()

	if sessionID := c.Query("sessionId"); sessionID != "" {
		records, err := h.attendanceService.ListBySession(ctx, tenantID, sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.AttendanceListResponse{Records: deref(records), Count: len(records)})
		return
	}

	records, err := h.attendanceService.ListBySubject(ctx, tenantID, middlewares.SubjectID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AttendanceListResponse{Records: deref(records), Count: len(records)})
}

// Create records a check-in, GPS-validated when coordinates are sent.
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req dto.CreateCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if subjectID := middlewares.SubjectID(c); subjectID != "" {
		req.SubjectID = subjectID
	}

	record, distance, err := h.attendanceService.CheckIn(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CheckInResponse{Record: *record, DistanceMeters: distance})
}

// Update is the administrative attendance override.
func (h *AttendanceHandler) Update(c *gin.Context) {
	var req dto.OverrideAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	record, err := h.attendanceService.Override(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
