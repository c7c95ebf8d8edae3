package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/vidswap/vidswap-api/internal/generation"
	"github.com/vidswap/vidswap-api/internal/media"
	"github.com/vidswap/vidswap-api/internal/refimage"
	"github.com/vidswap/vidswap-api/internal/storage"
	"github.com/vidswap/vidswap-api/internal/submission"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	generations *generation.Service
	refImages   refimage.Repository
	submissions submission.Repository
	blobs       storage.Store
	localFiles  *storage.LocalStore // nil unless the local backend is active
	limits      media.Limits
	adminAPIKey string
	validator   *validator.Validate
	logger      *slog.Logger
}

// HandlersConfig bundles the dependencies for NewHandlers.
type HandlersConfig struct {
	Generations *generation.Service
	RefImages   refimage.Repository
	Submissions submission.Repository
	Blobs       storage.Store
	// LocalFiles enables the /files routes when the local storage backend
	// is in use. Leave nil with S3.
	LocalFiles  *storage.LocalStore
	Limits      media.Limits
	AdminAPIKey string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg HandlersConfig, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		generations: cfg.Generations,
		refImages:   cfg.RefImages,
		submissions: cfg.Submissions,
		blobs:       cfg.Blobs,
		localFiles:  cfg.LocalFiles,
		limits:      cfg.Limits,
		adminAPIKey: cfg.AdminAPIKey,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// On failure it writes the error response and returns false.
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return false
	}
	return true
}

// requireIdentity resolves the caller's owner id or writes a 401.
func (h *Handlers) requireIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := callerIdentity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user or anonymous id", "UNAUTHORIZED")
		return "", false
	}
	return owner, true
}

// pathID parses the {id} path value or writes a 400.
func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id", "INVALID_ID")
		return 0, false
	}
	return id, true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
