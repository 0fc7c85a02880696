// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/shiftcal/shiftcal/internal/models"
)

// UploadHandler handles workbook upload and file management operations
type UploadHandler interface {
	HandleUploadSchedule(c echo.Context) error
	HandleReopenSchedule(c echo.Context) error
	HandleRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleRenameFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
}

// CalendarHandler handles calendar generation
type CalendarHandler interface {
	HandleGenerateCalendar(c echo.Context) error
}

// ShiftMapHandler handles the shift-code mapping configuration
type ShiftMapHandler interface {
	HandleGetShiftMap(c echo.Context) error
	HandleUpdateShiftMap(c echo.Context) error
	Current() models.ShiftMap
}

// SessionHandler handles schedule session operations
type SessionHandler interface {
	HandleSessionStatus(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
