package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"spisovka/internal/config"
	"spisovka/internal/domain"
	fmmodels "spisovka/internal/domain/models/filemanager"
	"spisovka/internal/domain/services"
	fm "spisovka/internal/domain/services/filemanager"
	"spisovka/internal/httputil"
)

// multipartMemory is the part of an upload request kept in memory;
// the rest spills to temporary files.
const multipartMemory = 32 << 20

// FileManagerHandler exposes the attachment lists of a spis as a file manager.
type FileManagerHandler struct {
	attachments services.AttachmentService
	logger      *slog.Logger
}

// NewFileManagerHandler creates a new file manager handler
func NewFileManagerHandler(attachments services.AttachmentService, logger *slog.Logger) *FileManagerHandler {
	return &FileManagerHandler{
		attachments: attachments,
		logger:      logger,
	}
}

// View returns the contents and breadcrumbs of a folder
// GET /api/spisy/{id}/files/{category}?folder_id=
func (h *FileManagerHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.attachments.View(r.Context(), attachmentTarget(r), r.URL.Query().Get("folder_id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}

// CreateFolder creates a folder. A blank name creates nothing (204).
// POST /api/spisy/{id}/files/{category}/folders
func (h *FileManagerHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req fmmodels.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.attachments.CreateFolder(r.Context(), attachmentTarget(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	if folder == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// Upload stores the multipart "files" parts in a folder
// POST /api/spisy/{id}/files/{category}/upload?folder_id=
//
// Partial failures still answer 200; see DropResult.Failed.
func (h *FileManagerHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadRequestSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "upload exceeds request size limit")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }() // Error ignored: temp files only

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "No files provided")
		return
	}
	if len(headers) > config.MaxUploadBatch {
		httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("at most %d files per upload", config.MaxUploadBatch))
		return
	}

	files := make([]*fm.UploadFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readUploadFile(fh)
		if err != nil {
			h.logger.Warn("failed to read uploaded file",
				"file", fh.Filename,
				"error", err,
			)
			handleError(w, err)
			return
		}
		files = append(files, file)
	}

	t := attachmentTarget(r)
	result, err := h.attachments.Upload(r.Context(), t, r.URL.Query().Get("folder_id"), files)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("upload request handled",
		"spis_id", t.SpisID,
		"category", t.Category,
		"files", len(files),
		"added", len(result.Added),
		"failed", len(result.Failed),
	)
	httputil.RespondJSON(w, http.StatusOK, result)
}

// UpdateItem moves an item and/or edits its description
// PATCH /api/spisy/{id}/files/{category}/items/{itemId}
func (h *FileManagerHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req fmmodels.UpdateItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.attachments.UpdateItem(r.Context(), attachmentTarget(r), r.PathValue("itemId"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// DeleteItem removes an item and everything below it. Without
// ?confirm=true it answers 428 with the number of affected items.
// DELETE /api/spisy/{id}/files/{category}/items/{itemId}
func (h *FileManagerHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	result, err := h.attachments.Delete(r.Context(), attachmentTarget(r), r.PathValue("itemId"), httputil.QueryBool(r, "confirm"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// MoveTargets lists the folders an item may be moved into
// GET /api/spisy/{id}/files/{category}/items/{itemId}/move-targets
func (h *FileManagerHandler) MoveTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.attachments.MoveTargets(r.Context(), attachmentTarget(r), r.PathValue("itemId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"targets": targets})
}

func readUploadFile(fh *multipart.FileHeader) (*fm.UploadFile, error) {
	if fh.Size > config.MaxUploadSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrValidation, fh.Filename, config.MaxUploadSize)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer func() { _ = file.Close() }() // Error ignored: read-only

	data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &fm.UploadFile{
		Name:        fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
