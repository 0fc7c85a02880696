package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shiftcal/shiftcal/internal/api"
	"github.com/shiftcal/shiftcal/internal/config"
	"github.com/shiftcal/shiftcal/internal/session"
	"github.com/shiftcal/shiftcal/internal/storage"
	"github.com/shiftcal/shiftcal/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Optional .env for local development; env vars override XML config.
	_ = godotenv.Load()

	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	configPath := filepath.Join(exeDir, "shiftcal.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	embeddedMode := web.HasEmbeddedFiles()

	// Initialize storage
	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	// Initialize parsed-schedule snapshot cache
	parsedCache, err := session.NewParsedCache(cfg.GetParsedDir())
	if err != nil {
		fmt.Printf("Failed to initialize parsed cache: %v\n", err)
		os.Exit(1)
	}

	// Initialize session manager
	sessionMgr := session.NewManager(parsedCache)

	// Start background session cleanup
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Processing.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			sessionMgr.CleanupOldSessions(time.Duration(cfg.Processing.SessionTimeoutMinutes) * time.Minute)
		}
	}()

	handlers := api.NewHandlers(&api.Dependencies{
		Store:        fileStore,
		Sessions:     sessionMgr,
		Cache:        parsedCache,
		ShiftMapPath: cfg.GetShiftMapPath(),
		Version:      Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/api/health" ||
				strings.Contains(path, "/keepalive")
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			return strings.Contains(c.Request().URL.Path, "/upload")
		},
		ErrorMessage: "Request timeout",
	}))

	if cfg.Processing.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Processing.CompressionLevel,
		}))
	}

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration
	if cfg.Server.EnableCORS {
		if embeddedMode {
			origins := strings.Split(cfg.Server.AllowOrigins, ",")
			for i := range origins {
				origins[i] = strings.TrimSpace(origins[i])
			}
			if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
				origins = []string{"*"}
			}
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: origins,
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			}))
		} else {
			// Development mode - only allow localhost
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: []string{
					"http://localhost:5173", "http://127.0.0.1:5173",
					"http://localhost:3000", "http://127.0.0.1:3000",
				},
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			}))
		}
	}

	api.RegisterRoutes(e, handlers)

	// Register embedded client if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded client from binary")
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("Shift Schedule Converter\n")
	fmt.Printf("  Version:    %s (%s)\n", Version, BuildTime)
	fmt.Printf("  Config:     %s\n", configPath)
	fmt.Printf("  Listen:     http://%s\n", cfg.GetServerAddr())
	fmt.Printf("  Data Dir:   %s\n", cfg.GetDataDir())
	fmt.Printf("\n")

	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	e.Logger.Fatal(e.StartServer(s))
}
