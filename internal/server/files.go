package server

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/vidswap/vidswap-api/internal/storage"
)

// PutFile handles PUT /files/{key...}: the upload target the local storage
// backend hands out instead of a presigned S3 URL. Development only; the
// route 404s when S3 is configured.
func (h *Handlers) PutFile(w http.ResponseWriter, r *http.Request) {
	if h.localFiles == nil {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return
	}

	key := r.PathValue("key")
	url, err := h.localFiles.Upload(r.Context(), key, r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		h.logger.Error("failed to store uploaded file",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to store file", "UPLOAD_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// GetFile handles GET /files/{key...} for the local storage backend.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	if h.localFiles == nil {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return
	}

	key := r.PathValue("key")
	f, err := h.localFiles.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		h.logger.Error("failed to open stored file",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to read file", "READ_FAILED")
		return
	}
	defer func() { _ = f.Close() }()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Warn("failed to stream stored file",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
