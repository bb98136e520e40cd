// internal/handlers/program_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/middlewares"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

// ProgramHandler handles program-related HTTP requests
type ProgramHandler struct {
	programService *services.ProgramService
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(programService *services.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// Get returns one program when programId is present, else the tenant's list.
func (h *ProgramHandler) Get(c *gin.Context) {
	tenantID := middlewares.TenantID(c)

	if programID := c.Query("programId"); programID != "" {
		program, err := h.programService.Get(c.Request.Context(), tenantID, programID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, program)
		return
	}

	programs, err := h.programService.List(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

func (h *ProgramHandler) Create(c *gin.Context) {
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	program, err := h.programService.Create(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) Update(c *gin.Context) {
	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	program, err := h.programService.Update(c.Request.Context(), middlewares.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) Delete(c *gin.Context) {
	programID := c.Query("programId")
	if programID == "" {
		respondError(c, dto.ErrBadInput)
		return
	}

	if err := h.programService.Delete(c.Request.Context(), middlewares.TenantID(c), programID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": programID})
}
