// handlers_upload.go - Workbook upload operation handlers
package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shiftcal/shiftcal/internal/models"
	"github.com/shiftcal/shiftcal/internal/session"
	"github.com/shiftcal/shiftcal/internal/storage"
)

// workbookExt is the accepted upload extension, compared case-insensitively.
const workbookExt = ".xlsx"

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store    storage.Store
	sessions *session.Manager
	cache    *session.ParsedCache
	shiftMap ShiftMapHandler
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(store storage.Store, sessions *session.Manager, cache *session.ParsedCache, shiftMap ShiftMapHandler) UploadHandler {
	return &UploadHandlerImpl{
		store:    store,
		sessions: sessions,
		cache:    cache,
		shiftMap: shiftMap,
	}
}

// uploadScheduleResponse is the body for both fresh uploads and reopens.
type uploadScheduleResponse struct {
	Success   bool     `json:"success"`
	SessionID string   `json:"sessionId"`
	FileID    string   `json:"fileId"`
	Employees []string `json:"employees"`
	StartDate string   `json:"startDate"`
}

func newUploadScheduleResponse(sess *models.ScheduleSession, sched *models.Schedule) uploadScheduleResponse {
	return uploadScheduleResponse{
		Success:   true,
		SessionID: sess.ID,
		FileID:    sess.FileID,
		Employees: sched.Employees,
		StartDate: sess.StartDate,
	}
}

// HandleUploadSchedule accepts a roster workbook as multipart form data,
// parses it and returns the employee names found in it.
func (h *UploadHandlerImpl) HandleUploadSchedule(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file uploaded", err)
	}
	if file.Filename == "" {
		return NewBadRequestError("no file selected", nil)
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), workbookExt) {
		return NewBadRequestError("invalid file format: please upload an Excel workbook (.xlsx)", nil)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(file.Filename, src)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	path, err := h.store.GetFilePath(info.ID)
	if err != nil {
		return NewInternalError("failed to resolve file path", err)
	}

	sess, sched, err := h.sessions.StartSession(info.ID, info.Name, path, h.shiftMap.Current())
	if err != nil {
		h.store.SetStatus(info.ID, "error")
		return NewUnprocessableError("failed to parse schedule", err)
	}
	h.store.SetStatus(info.ID, "parsed")

	return c.JSON(http.StatusOK, newUploadScheduleResponse(sess, sched))
}

type reopenScheduleRequest struct {
	FileID string `json:"fileId"`
}

// HandleReopenSchedule restores a session for a previously uploaded
// workbook, using the parsed snapshot when one exists.
func (h *UploadHandlerImpl) HandleReopenSchedule(c echo.Context) error {
	var req reopenScheduleRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.FileID == "" {
		return NewValidationError("fileId")
	}

	info, err := h.store.Get(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}

	path, err := h.store.GetFilePath(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}

	sess, sched, err := h.sessions.Reopen(info.ID, info.Name, path, h.shiftMap.Current())
	if err != nil {
		return NewUnprocessableError("failed to parse schedule", err)
	}

	return c.JSON(http.StatusOK, newUploadScheduleResponse(sess, sched))
}

// HandleRecentFiles returns the most recently uploaded workbooks.
func (h *UploadHandlerImpl) HandleRecentFiles(c echo.Context) error {
	files, err := h.store.List(20)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	return c.JSON(http.StatusOK, files)
}

// HandleGetFile returns metadata for a specific file
func (h *UploadHandlerImpl) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	return c.JSON(http.StatusOK, info)
}

type renameFileRequest struct {
	Name string `json:"name"`
}

// HandleRenameFile updates the name of a file
func (h *UploadHandlerImpl) HandleRenameFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req renameFileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Name == "" {
		return NewValidationError("name")
	}

	info, err := h.store.Rename(id, req.Name)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	return c.JSON(http.StatusOK, info)
}

// HandleDeleteFile deletes a file and its parsed snapshot
func (h *UploadHandlerImpl) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(id); err != nil {
		return NewNotFoundError("file", id)
	}

	if h.cache != nil {
		h.cache.Delete(id)
	}

	return c.NoContent(http.StatusNoContent)
}
