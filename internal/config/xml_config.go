// Package config provides XML-based configuration for the converter server.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"ShiftCalendar"`

	Server     ServerConfig     `xml:"Server"`
	Storage    StorageConfig    `xml:"Storage"`
	Processing ProcessingConfig `xml:"Processing"`
	Advanced   AdvancedConfig   `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	DataDirectory    string `xml:"DataDirectory"`
	UploadsDirectory string `xml:"UploadsDirectory"`
	ParsedDirectory  string `xml:"ParsedDirectory"`
	ShiftMapFile     string `xml:"ShiftMapFile"`
}

// ProcessingConfig contains schedule session settings
type ProcessingConfig struct {
	SessionTimeoutMinutes  int  `xml:"SessionTimeoutMinutes"`
	CleanupIntervalMinutes int  `xml:"CleanupIntervalMinutes"`
	EnableCompression      bool `xml:"EnableCompression"`
	CompressionLevel       int  `xml:"CompressionLevel"`
}

// AdvancedConfig contains tuning options
type AdvancedConfig struct {
	EnableRequestLogging bool `xml:"EnableRequestLogging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "16M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			ParsedDirectory:  "./data/parsed",
			ShiftMapFile:     "./data/shifts.yaml",
		},
		Processing: ProcessingConfig{
			SessionTimeoutMinutes:  30,
			CleanupIntervalMinutes: 5,
			EnableCompression:      true,
			CompressionLevel:       5,
		},
		Advanced: AdvancedConfig{
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &AppConfig{}
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Shift Schedule Converter Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("SHIFTCAL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("SHIFTCAL_DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
		c.Storage.ParsedDirectory = filepath.Join(dataDir, "parsed")
		c.Storage.ShiftMapFile = filepath.Join(dataDir, "shifts.yaml")
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.UploadsDirectory) {
		c.Storage.UploadsDirectory = filepath.Join(configDir, c.Storage.UploadsDirectory)
	}
	if !filepath.IsAbs(c.Storage.ParsedDirectory) {
		c.Storage.ParsedDirectory = filepath.Join(configDir, c.Storage.ParsedDirectory)
	}
	if !filepath.IsAbs(c.Storage.ShiftMapFile) {
		c.Storage.ShiftMapFile = filepath.Join(configDir, c.Storage.ShiftMapFile)
	}
}

// EnsureDirectories creates all configured data directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
		c.Storage.ParsedDirectory,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetUploadDir returns the absolute uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetParsedDir returns the absolute parsed snapshot directory path
func (c *AppConfig) GetParsedDir() string {
	return c.Storage.ParsedDirectory
}

// GetShiftMapPath returns the absolute shift map override file path
func (c *AppConfig) GetShiftMapPath() string {
	return c.Storage.ShiftMapFile
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}
