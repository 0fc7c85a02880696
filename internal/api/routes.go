// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/shiftcal/shiftcal/internal/session"
	"github.com/shiftcal/shiftcal/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store        storage.Store
	Sessions     *session.Manager
	Cache        *session.ParsedCache
	ShiftMapPath string
	Version      string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Upload   UploadHandler
	Calendar CalendarHandler
	ShiftMap ShiftMapHandler
	Session  SessionHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	shiftMap := NewShiftMapHandler(deps.ShiftMapPath)
	return &Handlers{
		Health:   NewHealthHandler(deps.Version),
		Upload:   NewUploadHandler(deps.Store, deps.Sessions, deps.Cache, shiftMap),
		Calendar: NewCalendarHandler(deps.Sessions, shiftMap),
		ShiftMap: shiftMap,
		Session:  NewSessionHandler(deps.Sessions),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Core client contract
	e.POST("/upload", handlers.Upload.HandleUploadSchedule)
	e.POST("/generate-calendar", handlers.Calendar.HandleGenerateCalendar)
	e.GET("/shifts", handlers.ShiftMap.HandleGetShiftMap)
	e.PUT("/shifts", handlers.ShiftMap.HandleUpdateShiftMap)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// File management
	fileGroup := apiGroup.Group("/files")
	fileGroup.GET("/recent", handlers.Upload.HandleRecentFiles)
	fileGroup.GET("/:id", handlers.Upload.HandleGetFile)
	fileGroup.PUT("/:id", handlers.Upload.HandleRenameFile)
	fileGroup.DELETE("/:id", handlers.Upload.HandleDeleteFile)

	// Schedule sessions
	apiGroup.POST("/schedules/reopen", handlers.Upload.HandleReopenSchedule)
	sessionGroup := apiGroup.Group("/sessions")
	sessionGroup.GET("/:sessionId", handlers.Session.HandleSessionStatus)
	sessionGroup.POST("/:sessionId/keepalive", handlers.Session.HandleSessionKeepAlive)
}
