// internal/handlers/session_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/middlewares"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

// SessionHandler exposes the virtual session read path
type SessionHandler struct {
	sessionService *services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Get expands sessions for a sessionId or a startDate/endDate window.
func (h *SessionHandler) Get(c *gin.Context) {
	var query dto.SessionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, err)
		return
	}

	sessions, err := h.sessionService.Query(c.Request.Context(), middlewares.TenantID(c), &query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SessionListResponse{Sessions: sessions, Count: len(sessions)})
}
