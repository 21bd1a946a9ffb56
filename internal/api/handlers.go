// internal/api/handlers.go
package api

import (
	"net/http"
	"strconv"

	apperrors "github.com/Halcyonic/VoidTrader/internal/errors"
	"github.com/Halcyonic/VoidTrader/internal/models"
	"github.com/Halcyonic/VoidTrader/internal/services"
	"github.com/gin-gonic/gin"
)

// Handler exposes the event engine over HTTP.
type Handler struct {
	EventService *services.EventService
	WSManager    *WebSocketManager
	Response     *ResponseHelper
}

// NewHandler creates the API handler.
func NewHandler(eventService *services.EventService, wsManager *WebSocketManager) *Handler {
	return &Handler{
		EventService: eventService,
		WSManager:    wsManager,
		Response:     NewResponseHelper(),
	}
}

// serviceError maps a service error to the matching HTTP response.
func (h *Handler) serviceError(c *gin.Context, err error, resource string) {
	switch {
	case apperrors.IsNotFoundError(err):
		h.Response.NotFound(c, resource, err.Error())
	case apperrors.IsValidationError(err):
		h.Response.BadRequest(c, err.Error())
	case apperrors.IsConflictError(err):
		h.Response.Conflict(c, err.Error())
	default:
		h.Response.InternalError(c, err.Error())
	}
}

// ------------------------------------------------
// Sessions

// CreateSession starts a new engine session.
// POST /api/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req struct {
		Seed int64 `json:"seed"`
	}
	// An empty body means an unseeded session.
	c.ShouldBindJSON(&req)

	sessionID := h.EventService.CreateSession(req.Seed)
	h.Response.Created(c, gin.H{"session_id": sessionID})
}

// ListSessions returns the ids of all live sessions.
// GET /api/sessions
func (h *Handler) ListSessions(c *gin.Context) {
	h.Response.Success(c, gin.H{"sessions": h.EventService.ListSessions()})
}

// GetSession reports a session's engine state for debugging.
// GET /api/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	info, err := h.EventService.DebugInfo(c.Param("id"))
	if err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.Response.Success(c, info)
}

// DeleteSession drops a session and its persisted state.
// DELETE /api/sessions/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.EventService.DeleteSession(c.Param("id")); err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.Response.Success(c, nil, "session deleted")
}

// ------------------------------------------------
// Trigger and resolution

// CheckEvents runs one trigger check for the session.
// POST /api/sessions/:id/events/check
func (h *Handler) CheckEvents(c *gin.Context) {
	var req struct {
		Context models.EventContext `json:"context" binding:"required"`
		State   *models.GameState   `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if req.State == nil {
		req.State = models.NewGameState()
	}

	fired, err := h.EventService.Check(c.Param("id"), req.Context, req.State)
	if err != nil {
		h.serviceError(c, err, "session")
		return
	}

	if fired == nil {
		h.Response.Success(c, gin.H{"triggered": false})
		return
	}
	h.Response.Success(c, gin.H{"triggered": true, "event": fired})
}

// ResolveEvent runs one resolution step for an event.
// POST /api/sessions/:id/events/resolve
func (h *Handler) ResolveEvent(c *gin.Context) {
	var req struct {
		EventID string            `json:"event_id" binding:"required"`
		State   *models.GameState `json:"state"`
		Choice  string            `json:"choice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if req.State == nil {
		req.State = models.NewGameState()
	}

	outcome, err := h.EventService.Resolve(c.Param("id"), req.EventID, req.State, req.Choice)
	if err != nil {
		h.serviceError(c, err, "event")
		return
	}
	h.Response.Success(c, outcome)
}

// ------------------------------------------------
// Catalog management

// GetEvents lists the session's registered event definitions.
// GET /api/sessions/:id/events
func (h *Handler) GetEvents(c *gin.Context) {
	defs, err := h.EventService.Catalog(c.Param("id"))
	if err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.Response.Success(c, gin.H{"events": defs})
}

// RegisterEvent adds or replaces a custom event definition.
// POST /api/sessions/:id/events
func (h *Handler) RegisterEvent(c *gin.Context) {
	var def models.EventDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		h.Response.Error(c, http.StatusBadRequest, ErrCodeInvalidEvent, "invalid event definition", err.Error())
		return
	}

	if err := h.EventService.RegisterEvent(c.Param("id"), &def); err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.Response.Created(c, gin.H{"event_id": def.ID})
}

// UnregisterEvent removes an event definition from the catalog.
// DELETE /api/sessions/:id/events/:event_id
func (h *Handler) UnregisterEvent(c *gin.Context) {
	if err := h.EventService.UnregisterEvent(c.Param("id"), c.Param("event_id")); err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.Response.Success(c, nil, "event unregistered")
}

// ------------------------------------------------
// History and statistics

// GetEventHistory returns the most recent resolution records.
// GET /api/sessions/:id/events/history?limit=N
func (h *Handler) GetEventHistory(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.Response.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	history, err := h.EventService.History(c.Param("id"), limit)
	if err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.Response.Success(c, gin.H{"history": history})
}

// GetEventStatistics returns aggregate numbers for one session.
// GET /api/sessions/:id/events/statistics
func (h *Handler) GetEventStatistics(c *gin.Context) {
	stats, err := h.EventService.Statistics(c.Param("id"))
	if err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.Response.Success(c, stats)
}

// ------------------------------------------------
// Persistence

// SaveSession persists the session's engine state.
// POST /api/sessions/:id/save
func (h *Handler) SaveSession(c *gin.Context) {
	if err := h.EventService.Save(c.Param("id")); err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.Response.Success(c, nil, "session saved")
}

// LoadSession restores the session's engine state from disk.
// POST /api/sessions/:id/load
func (h *Handler) LoadSession(c *gin.Context) {
	if err := h.EventService.Load(c.Param("id")); err != nil {
		h.serviceError(c, err, "saved state")
		return
	}
	h.Response.Success(c, nil, "session loaded")
}

// ------------------------------------------------
// Archive

// GetArchiveStatistics aggregates the durable archive across all sessions.
// GET /api/archive/statistics
func (h *Handler) GetArchiveStatistics(c *gin.Context) {
	stats, err := h.EventService.ArchiveStatistics()
	if err != nil {
		h.Response.InternalError(c, err.Error())
		return
	}
	h.Response.Success(c, stats)
}

// GetArchivedHistory returns the durable event trail of one session. It
// works for deleted sessions too; the archive outlives the engine.
// GET /api/archive/sessions/:id/history?limit=N
func (h *Handler) GetArchivedHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.Response.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	records, err := h.EventService.ArchivedHistory(c.Param("id"), limit)
	if err != nil {
		h.Response.InternalError(c, err.Error())
		return
	}
	h.Response.Success(c, gin.H{"history": records})
}

// ------------------------------------------------
// WebSocket

// SessionWebSocket subscribes the caller to a session's event feed.
// GET /ws/sessions/:id
func (h *Handler) SessionWebSocket(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.EventService.DebugInfo(sessionID); err != nil {
		h.serviceError(c, err, "session")
		return
	}
	h.WSManager.serveSession(c.Writer, c.Request, sessionID)
}

// GetWebSocketStatus reports subscriber counts per session.
// GET /api/ws/status
func (h *Handler) GetWebSocketStatus(c *gin.Context) {
	h.Response.Success(c, h.WSManager.GetStatus())
}
