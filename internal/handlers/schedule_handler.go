// internal/handlers/schedule_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/middlewares"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

// ScheduleHandler handles schedule and exception HTTP requests
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	tenantID := middlewares.TenantID(c)

	if scheduleID := c.Query("scheduleId"); scheduleID != "" {
		schedule, err := h.scheduleService.Get(c.Request.Context(), tenantID, scheduleID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, schedule)
		return
	}

	schedules, err := h.scheduleService.List(c.Request.Context(), tenantID, c.Query("programId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	schedule, err := h.scheduleService.Create(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, schedule)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	schedule, err := h.scheduleService.Update(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	scheduleID := c.Query("scheduleId")
	if scheduleID == "" {
		respondError(c, dto.ErrBadInput)
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), middlewares.TenantID(c), scheduleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": scheduleID})
}

// ========================================
// EXCEPTIONS
// ========================================

func (h *ScheduleHandler) GetExceptions(c *gin.Context) {
	tenantID := middlewares.TenantID(c)
	scheduleID := c.Query("scheduleId")
	if scheduleID == "" {
		respondError(c, dto.ErrBadInput)
		return
	}

	if occurrenceDate := c.Query("occurrenceDate"); occurrenceDate != "" {
		exception, err := h.scheduleService.GetException(c.Request.Context(), tenantID, scheduleID, occurrenceDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, exception)
		return
	}

	exceptions, err := h.scheduleService.ListExceptions(c.Request.Context(), tenantID, scheduleID,
		c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exceptions)
}

func (h *ScheduleHandler) PutException(c *gin.Context) {
	var req dto.CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	exception, err := h.scheduleService.PutException(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exception)
}

func (h *ScheduleHandler) DeleteException(c *gin.Context) {
	scheduleID := c.Query("scheduleId")
	occurrenceDate := c.Query("occurrenceDate")
	if scheduleID == "" || occurrenceDate == "" {
		respondError(c, dto.ErrBadInput)
		return
	}

	err := h.scheduleService.DeleteException(c.Request.Context(), middlewares.TenantID(c), scheduleID, occurrenceDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": scheduleID + "#" + occurrenceDate})
}
