// Package session keeps parsed schedules in memory between the upload and
// calendar generation requests.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shiftcal/shiftcal/internal/models"
	"github.com/shiftcal/shiftcal/internal/schedule"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion.
const MaxSessions = 32

// KeepAliveWindow is how long to keep sessions that are actively being used.
const KeepAliveWindow = 5 * time.Minute

// State holds session metadata and the parsed schedule.
type State struct {
	Session      *models.ScheduleSession
	Schedule     *models.Schedule
	LastAccessed time.Time
}

// Manager handles active schedule sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*State
	cache    *ParsedCache // optional; nil disables snapshotting
}

// NewManager creates a new session manager. cache may be nil.
func NewManager(cache *ParsedCache) *Manager {
	return &Manager{
		sessions: make(map[string]*State),
		cache:    cache,
	}
}

// StartSession parses the workbook at filePath and registers a session for
// it. Parsing a roster is sub-second, so this is synchronous; a parse
// failure is returned directly rather than surfaced through session status.
func (m *Manager) StartSession(fileID, fileName, filePath string, shifts models.ShiftMap) (*models.ScheduleSession, *models.Schedule, error) {
	start := time.Now()

	sched, err := schedule.ParseWorkbook(filePath, shifts)
	if err != nil {
		return nil, nil, err
	}

	if m.cache != nil {
		if err := m.cache.Store(fileID, sched); err != nil {
			fmt.Printf("[Session] Warning: failed to snapshot parsed schedule for file %s: %v\n", shortID(fileID), err)
		}
	}

	sess := m.adopt(fileID, fileName, sched)
	sess.ProcessingTimeMs = time.Since(start).Milliseconds()
	return sess, sched, nil
}

// Reopen restores a session for a previously uploaded file, preferring the
// parsed-schedule snapshot over a re-parse.
func (m *Manager) Reopen(fileID, fileName, filePath string, shifts models.ShiftMap) (*models.ScheduleSession, *models.Schedule, error) {
	start := time.Now()

	if m.cache != nil && m.cache.Has(fileID) {
		sched, err := m.cache.Load(fileID)
		if err == nil {
			sess := m.adopt(fileID, fileName, sched)
			sess.ProcessingTimeMs = time.Since(start).Milliseconds()
			return sess, sched, nil
		}
		fmt.Printf("[Session] Warning: snapshot for file %s unreadable, re-parsing: %v\n", shortID(fileID), err)
	}

	return m.StartSession(fileID, fileName, filePath, shifts)
}

// adopt registers a completed session around an already-parsed schedule.
func (m *Manager) adopt(fileID, fileName string, sched *models.Schedule) *models.ScheduleSession {
	m.evictIfNeeded()

	sess := models.NewScheduleSession(uuid.New().String(), fileID)
	sess.FileName = fileName
	sess.Status = models.SessionStatusComplete
	sess.EmployeeCount = len(sched.Employees)
	sess.DayCount = len(sched.Dates)
	if !sched.StartDate().IsZero() {
		sess.StartDate = sched.StartDate().Format(models.DateKeyLayout)
	}

	m.mu.Lock()
	m.sessions[sess.ID] = &State{
		Session:      sess,
		Schedule:     sched,
		LastAccessed: time.Now(),
	}
	m.mu.Unlock()

	return sess
}

// GetSession returns session metadata by ID.
func (m *Manager) GetSession(id string) (*models.ScheduleSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return state.Session, true
}

// GetSchedule returns the parsed schedule for a session and refreshes its
// keep-alive timestamp.
func (m *Manager) GetSchedule(id string) (*models.Schedule, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	state.LastAccessed = time.Now()
	return state.Schedule, true
}

// MostRecent returns the ID of the most recently accessed session. Clients
// that omit a session ID on calendar generation fall back to it.
func (m *Manager) MostRecent() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		bestID string
		bestAt time.Time
	)
	for id, state := range m.sessions {
		if state.LastAccessed.After(bestAt) {
			bestID = id
			bestAt = state.LastAccessed
		}
	}
	return bestID, bestID != ""
}

// Touch updates the LastAccessed timestamp for a session so the cleanup
// loop does not reap it while a client is still on the selection view.
func (m *Manager) Touch(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions removes sessions older than maxAge, keeping sessions
// accessed within the keep-alive window regardless of age.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-KeepAliveWindow)

	for id, state := range m.sessions {
		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			fmt.Printf("[Session] Cleaned up aged session %s (last accessed %s ago)\n",
				shortID(id), time.Since(state.LastAccessed).Round(time.Second))
		}
	}
}

// evictIfNeeded removes the least recently accessed sessions when at
// capacity.
func (m *Manager) evictIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.sessions) >= MaxSessions {
		var (
			oldestID string
			oldestAt time.Time
		)
		for id, state := range m.sessions {
			if oldestID == "" || state.LastAccessed.Before(oldestAt) {
				oldestID = id
				oldestAt = state.LastAccessed
			}
		}
		if oldestID == "" {
			return
		}
		delete(m.sessions, oldestID)
		fmt.Printf("[Session] Evicted session %s to stay under capacity\n", shortID(oldestID))
	}
}

// shortID safely truncates an ID for logging.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
