// handlers_shifts.go - Shift map configuration handlers
package api

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shiftcal/shiftcal/internal/models"
	"github.com/shiftcal/shiftcal/internal/schedule"
)

// ShiftMapHandlerImpl implements the ShiftMapHandler interface. It owns the
// active shift-code table: built-in defaults, overridden by the YAML file at
// path when present, replaced (and persisted) by PUT requests.
type ShiftMapHandlerImpl struct {
	mu      sync.RWMutex
	path    string
	current models.ShiftMap
}

// NewShiftMapHandler creates a shift map handler backed by the YAML file at
// path. A missing or unreadable file falls back to the built-in defaults.
func NewShiftMapHandler(path string) ShiftMapHandler {
	h := &ShiftMapHandlerImpl{
		path:    path,
		current: schedule.DefaultShiftMap(),
	}

	if path != "" {
		m, err := schedule.LoadShiftMap(path)
		switch {
		case err == nil:
			h.current = m
		case os.IsNotExist(err):
			// No override file; defaults apply.
		default:
			fmt.Printf("[ShiftMap] Warning: failed to load %s, using defaults: %v\n", path, err)
		}
	}

	return h
}

// Current returns a copy of the active shift map.
func (h *ShiftMapHandlerImpl) Current() models.ShiftMap {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Clone()
}

type shiftMapBody struct {
	Shifts models.ShiftMap `json:"shifts"`
}

// HandleGetShiftMap returns the active shift map
func (h *ShiftMapHandlerImpl) HandleGetShiftMap(c echo.Context) error {
	return c.JSON(http.StatusOK, shiftMapBody{Shifts: h.Current()})
}

// HandleUpdateShiftMap replaces the active shift map and persists it
func (h *ShiftMapHandlerImpl) HandleUpdateShiftMap(c echo.Context) error {
	var req shiftMapBody
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if len(req.Shifts) == 0 {
		return NewValidationError("shifts")
	}
	if err := req.Shifts.Validate(); err != nil {
		return NewBadRequestError(err.Error(), nil)
	}

	if h.path != "" {
		if err := schedule.SaveShiftMap(h.path, req.Shifts); err != nil {
			return NewInternalError("failed to save shift map", err)
		}
	}

	h.mu.Lock()
	h.current = req.Shifts.Clone()
	h.mu.Unlock()

	return c.JSON(http.StatusOK, shiftMapBody{Shifts: h.Current()})
}
