package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shiftcal/shiftcal/internal/session"
	"github.com/shiftcal/shiftcal/internal/storage"
	"github.com/shiftcal/shiftcal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rosterBytes builds a small .xlsx roster in memory.
func rosterBytes(t *testing.T) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	date := time.Now().Format("2006-01-02")
	require.NoError(t, testutil.WriteWorkbook(path, [][]interface{}{
		{"Name", date},
		{"Alice Smith", "A"},
		{"Bob Lee", "N"},
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func newTestHandlers(t *testing.T) (*Handlers, *storage.LocalStore, *session.Manager) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := storage.NewLocalStore(filepath.Join(tmpDir, "uploads"))
	require.NoError(t, err)
	cache, err := session.NewParsedCache(filepath.Join(tmpDir, "parsed"))
	require.NoError(t, err)
	sessions := session.NewManager(cache)

	handlers := NewHandlers(&Dependencies{
		Store:        store,
		Sessions:     sessions,
		Cache:        cache,
		ShiftMapPath: filepath.Join(tmpDir, "shifts.yaml"),
		Version:      "test",
	})
	return handlers, store, sessions
}

func TestUploadGenerateFlow(t *testing.T) {
	e := echo.New()
	handlers, _, _ := newTestHandlers(t)

	// 1. Upload a roster
	body, contentType := multipartBody(t, "roster.xlsx", rosterBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handlers.Upload.HandleUploadSchedule(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var uploadResp struct {
		Success   bool     `json:"success"`
		SessionID string   `json:"sessionId"`
		FileID    string   `json:"fileId"`
		Employees []string `json:"employees"`
		StartDate string   `json:"startDate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploadResp))
	assert.True(t, uploadResp.Success)
	assert.Equal(t, []string{"Alice Smith", "Bob Lee"}, uploadResp.Employees)
	assert.NotEmpty(t, uploadResp.SessionID)
	assert.Equal(t, time.Now().Format("2006-01-02"), uploadResp.StartDate)

	// 2. Generate a calendar for one employee
	genBody, _ := json.Marshal(map[string]string{
		"employee":  "Bob Lee",
		"sessionId": uploadResp.SessionID,
	})
	req = httptest.NewRequest(http.MethodPost, "/generate-calendar", bytes.NewReader(genBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	require.NoError(t, handlers.Calendar.HandleGenerateCalendar(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/calendar")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `filename="Bob_Lee_schedule.ics"`)
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Work Shift: N")

	// 3. Generation without a session ID falls back to the latest session
	genBody, _ = json.Marshal(map[string]string{"employee": "Alice Smith"})
	req = httptest.NewRequest(http.MethodPost, "/generate-calendar", bytes.NewReader(genBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	require.NoError(t, handlers.Calendar.HandleGenerateCalendar(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `filename="Alice_Smith_schedule.ics"`)
}

func TestHandleUploadSchedule_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		wantCode string
	}{
		{"wrong extension", "schedule.csv", []byte("a,b"), "BAD_REQUEST"},
		{"no extension", "schedule", []byte("data"), "BAD_REQUEST"},
		{"xlsx that is not a workbook", "fake.xlsx", []byte("not a zip archive"), "UNPROCESSABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			handlers, store, sessions := newTestHandlers(t)

			body, contentType := multipartBody(t, tt.filename, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set(echo.HeaderContentType, contentType)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handlers.Upload.HandleUploadSchedule(c)
			require.Error(t, err)

			apiErr, ok := err.(*APIError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, apiErr.Code)

			// No session may exist after a rejected upload.
			assert.Equal(t, 0, sessions.Len())

			if apiErr.Code == "BAD_REQUEST" {
				// Extension gate fires before anything is stored.
				files, _ := store.List(10)
				assert.Empty(t, files)
			}
		})
	}
}

func TestHandleUploadSchedule_CaseInsensitiveExtension(t *testing.T) {
	e := echo.New()
	handlers, _, _ := newTestHandlers(t)

	body, contentType := multipartBody(t, "ROSTER.XLSX", rosterBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handlers.Upload.HandleUploadSchedule(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleUploadSchedule_NoFile(t *testing.T) {
	e := echo.New()
	handlers, _, _ := newTestHandlers(t)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handlers.Upload.HandleUploadSchedule(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestHandleUploadSchedule_StoreFailure(t *testing.T) {
	e := echo.New()
	tmpDir := t.TempDir()
	store := testutil.NewMockStore(filepath.Join(tmpDir, "uploads"))
	store.SaveErr = errors.New("disk full")
	cache, err := session.NewParsedCache(filepath.Join(tmpDir, "parsed"))
	require.NoError(t, err)
	handlers := NewHandlers(&Dependencies{
		Store:        store,
		Sessions:     session.NewManager(cache),
		Cache:        cache,
		ShiftMapPath: filepath.Join(tmpDir, "shifts.yaml"),
		Version:      "test",
	})

	body, contentType := multipartBody(t, "roster.xlsx", rosterBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	uploadErr := handlers.Upload.HandleUploadSchedule(e.NewContext(req, rec))
	require.Error(t, uploadErr)
	assert.Equal(t, http.StatusInternalServerError, uploadErr.(*APIError).Status)
	assert.Equal(t, 0, store.Len())
}

func TestHandleGenerateCalendar_Errors(t *testing.T) {
	e := echo.New()
	handlers, _, _ := newTestHandlers(t)

	// No uploads at all: nothing to fall back to.
	body, _ := json.Marshal(map[string]string{"employee": "Alice Smith"})
	req := httptest.NewRequest(http.MethodPost, "/generate-calendar", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handlers.Calendar.HandleGenerateCalendar(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*APIError).Status)

	// Missing employee field.
	body, _ = json.Marshal(map[string]string{"sessionId": "whatever"})
	req = httptest.NewRequest(http.MethodPost, "/generate-calendar", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	err = handlers.Calendar.HandleGenerateCalendar(c)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*APIError).Code)

	// Unknown session.
	body, _ = json.Marshal(map[string]string{"employee": "Alice Smith", "sessionId": "missing"})
	req = httptest.NewRequest(http.MethodPost, "/generate-calendar", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	err = handlers.Calendar.HandleGenerateCalendar(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.(*APIError).Status)
}

func TestHandleGenerateCalendar_UnknownEmployee(t *testing.T) {
	e := echo.New()
	handlers, _, _ := newTestHandlers(t)

	body, contentType := multipartBody(t, "roster.xlsx", rosterBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	require.NoError(t, handlers.Upload.HandleUploadSchedule(e.NewContext(req, rec)))

	genBody, _ := json.Marshal(map[string]string{"employee": "Nobody"})
	req = httptest.NewRequest(http.MethodPost, "/generate-calendar", bytes.NewReader(genBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()

	err := handlers.Calendar.HandleGenerateCalendar(e.NewContext(req, rec))
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Nobody")
}

func TestErrorHandler_BodyShape(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(NewBadRequestError("no file uploaded", nil), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no file uploaded", body["error"])
	assert.Equal(t, "BAD_REQUEST", body["code"])
}

func TestHandleRenameFile(t *testing.T) {
	e := echo.New()
	handlers, store, _ := newTestHandlers(t)

	info, err := store.Save("roster.xlsx", strings.NewReader("data"))
	require.NoError(t, err)

	payload, _ := json.Marshal(map[string]string{"name": "june-roster.xlsx"})
	req := httptest.NewRequest(http.MethodPut, "/api/files/"+info.ID, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(info.ID)

	require.NoError(t, handlers.Upload.HandleRenameFile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"june-roster.xlsx"`)

	renamed, err := store.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, "june-roster.xlsx", renamed.Name)

	// Unknown ID is a 404, empty name a validation error.
	req = httptest.NewRequest(http.MethodPut, "/api/files/missing", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c = e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")
	renameErr := handlers.Upload.HandleRenameFile(c)
	require.Error(t, renameErr)
	assert.Equal(t, http.StatusNotFound, renameErr.(*APIError).Status)

	payload, _ = json.Marshal(map[string]string{"name": ""})
	req = httptest.NewRequest(http.MethodPut, "/api/files/"+info.ID, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c = e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(info.ID)
	renameErr = handlers.Upload.HandleRenameFile(c)
	require.Error(t, renameErr)
	assert.Equal(t, "VALIDATION_ERROR", renameErr.(*APIError).Code)
}

func TestHandleRecentFiles(t *testing.T) {
	e := echo.New()
	handlers, store, _ := newTestHandlers(t)

	_, err := store.Save("a.xlsx", strings.NewReader("a"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/files/recent", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handlers.Upload.HandleRecentFiles(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"a.xlsx"`)
}

func TestHandleHealth(t *testing.T) {
	e := echo.New()
	handlers, _, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handlers.Health.HandleHealth(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status        string `json:"status"`
		Version       string `json:"version"`
		UptimeSeconds *int64 `json:"uptimeSeconds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test", body.Version)
	require.NotNil(t, body.UptimeSeconds)
	assert.GreaterOrEqual(t, *body.UptimeSeconds, int64(0))
}
