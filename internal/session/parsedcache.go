package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shiftcal/shiftcal/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	snapshotPrefix = "file_"
	snapshotExt    = ".msgpack"
)

// ParsedCache persists parsed schedules to disk keyed by file ID so that a
// workbook reopened from "recent files" does not need re-parsing.
type ParsedCache struct {
	dir   string
	mu    sync.RWMutex
	known map[string]string // fileID -> snapshot path
}

// NewParsedCache creates a cache rooted at dir and indexes any snapshots
// already on disk.
func NewParsedCache(dir string) (*ParsedCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating parsed cache directory: %w", err)
	}

	c := &ParsedCache{
		dir:   dir,
		known: make(map[string]string),
	}
	c.scanExisting()
	return c, nil
}

// scanExisting indexes snapshots left over from previous runs.
func (c *ParsedCache) scanExisting() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		fmt.Printf("[ParsedCache] Warning: failed to scan %s: %v\n", c.dir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		fileID := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotExt)
		c.known[fileID] = filepath.Join(c.dir, name)
	}

	if len(c.known) > 0 {
		fmt.Printf("[ParsedCache] Found %d existing schedule snapshots\n", len(c.known))
	}
}

// Path returns where the snapshot for a file ID lives.
func (c *ParsedCache) Path(fileID string) string {
	return filepath.Join(c.dir, snapshotPrefix+fileID+snapshotExt)
}

// Has reports whether a snapshot exists for the file ID.
func (c *ParsedCache) Has(fileID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.known[fileID]
	return ok
}

// Store writes a schedule snapshot for the file ID.
func (c *ParsedCache) Store(fileID string, sched *models.Schedule) error {
	data, err := msgpack.Marshal(sched)
	if err != nil {
		return fmt.Errorf("encoding schedule snapshot: %w", err)
	}

	path := c.Path(fileID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing schedule snapshot: %w", err)
	}

	c.mu.Lock()
	c.known[fileID] = path
	c.mu.Unlock()
	return nil
}

// Load reads the schedule snapshot for the file ID.
func (c *ParsedCache) Load(fileID string) (*models.Schedule, error) {
	c.mu.RLock()
	path, ok := c.known[fileID]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no snapshot for file: %s", fileID)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule snapshot: %w", err)
	}

	var sched models.Schedule
	if err := msgpack.Unmarshal(data, &sched); err != nil {
		return nil, fmt.Errorf("decoding schedule snapshot: %w", err)
	}
	if sched.Shifts == nil {
		sched.Shifts = make(map[string]map[string]string)
	}
	return &sched, nil
}

// Delete removes the snapshot for a file ID, if any.
func (c *ParsedCache) Delete(fileID string) {
	c.mu.Lock()
	path, ok := c.known[fileID]
	delete(c.known, fileID)
	c.mu.Unlock()

	if ok {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Printf("[ParsedCache] Warning: failed to remove snapshot %s: %v\n", path, err)
		}
	}
}
