package handler

import (
	"log/slog"
	"mime"
	"net/http"
	gopath "path"
	"strconv"

	"spisovka/internal/httputil"
)

// BlobReader reads stored blobs. Implemented by the local blob store.
type BlobReader interface {
	Get(path string) ([]byte, string, error)
}

// FilesHandler serves blobs of the local storage backend
type FilesHandler struct {
	blobs  BlobReader
	logger *slog.Logger
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(blobs BlobReader, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		blobs:  blobs,
		logger: logger,
	}
}

// inlineTypes are rendered by the browser; everything else, HTML and SVG
// included, is served as a download.
var inlineTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/bmp":       true,
	"application/pdf": true,
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

// ServeBlob writes a stored blob. Uploaded content types are not trusted:
// responses are sandboxed and non-media types download.
// GET /files/{path...}
func (h *FilesHandler) ServeBlob(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	if path == "" {
		httputil.RespondError(w, http.StatusNotFound, "file not found")
		return
	}

	data, contentType, err := h.blobs.Get(path)
	if err != nil {
		handleError(w, err)
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	disposition := "attachment"
	if inlineTypes[mediaType(contentType)] {
		disposition = "inline"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": gopath.Base(path)}))
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}
