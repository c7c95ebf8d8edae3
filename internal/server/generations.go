package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vidswap/vidswap-api/internal/generation"
)

// toGenerationResponse maps a domain generation to its JSON shape.
func toGenerationResponse(g *generation.Generation) GenerationResponse {
	return GenerationResponse{
		ID:                g.ID,
		Status:            string(g.Status),
		CharacterName:     g.CharacterName,
		CharacterImageURL: g.CharacterImageURL,
		SourceAspectRatio: g.SourceAspectRatio,
		OutputAspectRatio: g.OutputAspectRatio,
		RunID:             g.RunID,
		ResultURL:         g.ResultURL,
		ErrorMessage:      g.ErrorMessage,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
	}
}

// ListGenerations handles GET /generations.
func (h *Handlers) ListGenerations(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit", "VALIDATION_ERROR")
			return
		}
		limit = n
	}

	gens, err := h.generations.List(r.Context(), owner, limit)
	if err != nil {
		h.logger.Error("failed to list generations",
			slog.String("owner_id", owner),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list generations", "LIST_FAILED")
		return
	}

	resp := make([]GenerationResponse, 0, len(gens))
	for _, g := range gens {
		resp = append(resp, toGenerationResponse(g))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateGeneration handles POST /generations. The row is created pending,
// before the source upload finishes, so the client can show progress.
func (h *Handlers) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateGenerationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	g, err := h.generations.Create(r.Context(), generation.CreateInput{
		OwnerID:           owner,
		CharacterName:     req.CharacterName,
		CharacterImageURL: req.CharacterImageURL,
		SourceAspectRatio: req.SourceAspectRatio,
		OutputAspectRatio: req.OutputAspectRatio,
		OwnerEmail:        req.Email,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create generation", "CREATE_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, toGenerationResponse(g))
}

// ReportGenerationFailure handles PATCH /generations/{id}: the client reports
// a failure it observed (an upload that never finished, an abandoned run).
// Non-owners get a 404, never a hint that the row exists.
func (h *Handlers) ReportGenerationFailure(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req ReportFailureRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.generations.ReportFailure(r.Context(), id, owner, req.ErrorMessage); err != nil {
		if errors.Is(err, generation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "generation not found", "NOT_FOUND")
			return
		}
		h.logger.Error("failed to record client-reported failure",
			slog.Int64("generation_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to update generation", "UPDATE_FAILED")
		return
	}

	g, err := h.generations.Get(r.Context(), id, owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load generation", "FETCH_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, toGenerationResponse(g))
}

// DeleteGeneration handles DELETE /generations/{id}. Deleting removes the
// bookkeeping row only; an in-flight provider job is not cancelled.
func (h *Handlers) DeleteGeneration(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.generations.Delete(r.Context(), id, owner); err != nil {
		if errors.Is(err, generation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "generation not found", "NOT_FOUND")
			return
		}
		h.logger.Error("failed to delete generation",
			slog.Int64("generation_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to delete generation", "DELETE_FAILED")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateVideo handles POST /generate-video: the direct-processing trigger.
// The request blocks for the whole provider call, up to the run budget, and
// always answers with the resulting row; a failed run shows up as a
// status=failed row with its error message, not as an HTTP error.
func (h *Handlers) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req GenerateVideoRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	g, err := h.generations.Run(r.Context(), generation.RunInput{
		GenerationID:      req.GenerationID,
		VideoURL:          req.VideoURL,
		CharacterImageURL: req.CharacterImageURL,
	})
	if err != nil {
		if errors.Is(err, generation.ErrNotFound) {
			writeError(w, http.StatusNotFound, "generation not found", "NOT_FOUND")
			return
		}
		h.logger.Error("generation trigger failed",
			slog.Int64("generation_id", req.GenerationID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to run generation", "RUN_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, toGenerationResponse(g))
}
