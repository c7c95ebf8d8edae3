package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vidswap/vidswap-api/internal/submission"
)

// HeaderAdminKey authenticates moderation requests.
const HeaderAdminKey = "X-Admin-Key"

func toSubmissionResponse(cs *submission.CharacterSubmission) SubmissionResponse {
	return SubmissionResponse{
		ID:                cs.ID,
		ImageURL:          cs.ImageURL,
		SuggestedName:     cs.SuggestedName,
		SuggestedCategory: cs.SuggestedCategory,
		Status:            string(cs.Status),
		CreatedAt:         cs.CreatedAt,
	}
}

// ListApprovedSubmissions handles GET /character-submissions. Only approved
// submissions are visible; pending and rejected ones stay private.
func (h *Handlers) ListApprovedSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissions.ListByStatus(r.Context(), submission.StatusApproved)
	if err != nil {
		h.logger.Error("failed to list submissions",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list submissions", "LIST_FAILED")
		return
	}

	resp := make([]SubmissionResponse, 0, len(subs))
	for _, cs := range subs {
		resp = append(resp, toSubmissionResponse(cs))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateSubmission handles POST /character-submissions.
func (h *Handlers) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	cs := &submission.CharacterSubmission{
		ImageURL:          req.ImageURL,
		SuggestedName:     req.SuggestedName,
		SuggestedCategory: req.SuggestedCategory,
	}
	if err := h.submissions.Create(r.Context(), cs); err != nil {
		h.logger.Error("failed to create submission",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to save submission", "CREATE_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, toSubmissionResponse(cs))
}

// ModerateSubmission handles PATCH /character-submissions/{id}. It requires
// the admin key; with no key configured the endpoint is disabled.
func (h *Handlers) ModerateSubmission(w http.ResponseWriter, r *http.Request) {
	if h.adminAPIKey == "" || r.Header.Get(HeaderAdminKey) != h.adminAPIKey {
		writeError(w, http.StatusUnauthorized, "admin key required", "UNAUTHORIZED")
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req ModerateSubmissionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.submissions.SetStatus(r.Context(), id, submission.Status(req.Status)); err != nil {
		if errors.Is(err, submission.ErrNotFound) {
			writeError(w, http.StatusNotFound, "submission not found", "NOT_FOUND")
			return
		}
		h.logger.Error("failed to moderate submission",
			slog.Int64("submission_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to update submission", "UPDATE_FAILED")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
