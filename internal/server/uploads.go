package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/vidswap/vidswap-api/internal/media"
)

// IssueUploadToken handles POST /upload: it validates the declared asset
// metadata against the configured limits and returns a scoped upload URL.
// The checks gate what a well-behaved client declares; the blob store's own
// limits are the backstop.
func (h *Handlers) IssueUploadToken(w http.ResponseWriter, r *http.Request) {
	var req UploadTokenRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	check := media.UploadCheck{
		ContentType:     req.ContentType,
		SizeBytes:       req.SizeBytes,
		DurationSeconds: req.DurationSeconds,
		Width:           req.Width,
		Height:          req.Height,
	}
	if err := h.limits.Validate(check); err != nil {
		code := "UPLOAD_REJECTED"
		switch {
		case errors.Is(err, media.ErrVideoTooLarge):
			code = "VIDEO_TOO_LARGE"
		case errors.Is(err, media.ErrDurationOutOfRange):
			code = "DURATION_OUT_OF_RANGE"
		case errors.Is(err, media.ErrImageTooSmall):
			code = "IMAGE_TOO_SMALL"
		}
		writeError(w, http.StatusBadRequest, err.Error(), code)
		return
	}

	scope := "public"
	if owner, ok := callerIdentity(r); ok {
		scope = owner
	}
	key := fmt.Sprintf("uploads/%s/%s%s", scope, uuid.NewString(), safeExtension(req.Filename))

	uploadURL, publicURL, err := h.blobs.PresignUpload(r.Context(), key, req.ContentType)
	if err != nil {
		h.logger.Error("failed to presign upload",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to issue upload token", "UPLOAD_TOKEN_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, UploadTokenResponse{
		UploadURL: uploadURL,
		PublicURL: publicURL,
		Key:       key,
	})
}

// safeExtension extracts a usable file extension from a client filename.
func safeExtension(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
