// handlers_calendar.go - Calendar generation handlers
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shiftcal/shiftcal/internal/calendar"
	"github.com/shiftcal/shiftcal/internal/session"
)

// CalendarHandlerImpl implements the CalendarHandler interface
type CalendarHandlerImpl struct {
	sessions *session.Manager
	shiftMap ShiftMapHandler
}

// NewCalendarHandler creates a new calendar handler instance
func NewCalendarHandler(sessions *session.Manager, shiftMap ShiftMapHandler) CalendarHandler {
	return &CalendarHandlerImpl{
		sessions: sessions,
		shiftMap: shiftMap,
	}
}

type generateCalendarRequest struct {
	Employee  string `json:"employee"`
	SessionID string `json:"sessionId"`
}

// HandleGenerateCalendar builds an .ics calendar for one employee of a
// parsed schedule and returns it as a download. When the client omits the
// session ID the most recently used session is assumed.
func (h *CalendarHandlerImpl) HandleGenerateCalendar(c echo.Context) error {
	var req generateCalendarRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Employee == "" {
		return NewValidationError("employee")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		id, ok := h.sessions.MostRecent()
		if !ok {
			return NewBadRequestError("no schedule uploaded yet", nil)
		}
		sessionID = id
	}

	sched, ok := h.sessions.GetSchedule(sessionID)
	if !ok {
		return NewNotFoundError("session", sessionID)
	}

	cal, err := calendar.Build(sched, req.Employee, h.shiftMap.Current())
	if err != nil {
		if errors.Is(err, calendar.ErrUnknownEmployee) {
			return NewNotFoundError("employee", req.Employee)
		}
		return NewInternalError("failed to generate calendar", err)
	}

	filename := calendar.DownloadFilename(req.Employee)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
