// handlers_sessions.go - Schedule session operation handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shiftcal/shiftcal/internal/session"
)

// SessionHandlerImpl implements the SessionHandler interface
type SessionHandlerImpl struct {
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(sessions *session.Manager) SessionHandler {
	return &SessionHandlerImpl{sessions: sessions}
}

// HandleSessionStatus returns the metadata of a schedule session
func (h *SessionHandlerImpl) HandleSessionStatus(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	sess, ok := h.sessions.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	// Touch session to prevent cleanup while being viewed
	h.sessions.Touch(id)

	return c.JSON(http.StatusOK, sess)
}

// HandleSessionKeepAlive extends session lifetime for active viewing
func (h *SessionHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if ok := h.sessions.Touch(id); !ok {
		return NewNotFoundError("session", id)
	}

	return c.NoContent(http.StatusNoContent)
}
