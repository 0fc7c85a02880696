package models

// SessionStatus represents the status of a schedule session.
type SessionStatus string

const (
	SessionStatusPending  SessionStatus = "pending"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusError    SessionStatus = "error"
)

// ScheduleSession represents a parsed workbook held in memory for a client,
// created on upload and consumed by calendar generation requests.
type ScheduleSession struct {
	ID               string        `json:"id"`
	FileID           string        `json:"fileId"`
	FileName         string        `json:"fileName,omitempty"`
	Status           SessionStatus `json:"status"`
	EmployeeCount    int           `json:"employeeCount,omitempty"`
	DayCount         int           `json:"dayCount,omitempty"`
	StartDate        string        `json:"startDate,omitempty"` // YYYY-MM-DD
	ProcessingTimeMs int64         `json:"processingTimeMs,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// NewScheduleSession creates a new ScheduleSession in pending status.
func NewScheduleSession(id, fileID string) *ScheduleSession {
	return &ScheduleSession{
		ID:     id,
		FileID: fileID,
		Status: SessionStatusPending,
	}
}
