package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vidswap/vidswap-api/internal/refimage"
)

func toReferenceImageResponse(ri *refimage.ReferenceImage) ReferenceImageResponse {
	return ReferenceImageResponse{
		ID:        ri.ID,
		Name:      ri.Name,
		ImageURL:  ri.ImageURL,
		Category:  ri.Category,
		CreatedAt: ri.CreatedAt,
	}
}

// ListReferenceImages handles GET /reference-images.
func (h *Handlers) ListReferenceImages(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	images, err := h.refImages.ListByOwner(r.Context(), owner)
	if err != nil {
		h.logger.Error("failed to list reference images",
			slog.String("owner_id", owner),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list reference images", "LIST_FAILED")
		return
	}

	resp := make([]ReferenceImageResponse, 0, len(images))
	for _, ri := range images {
		resp = append(resp, toReferenceImageResponse(ri))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateReferenceImage handles POST /reference-images. A failed persist is a
// failed request; the API never pretends the character was saved.
func (h *Handlers) CreateReferenceImage(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateReferenceImageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ri := &refimage.ReferenceImage{
		OwnerID:  owner,
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Category: req.Category,
	}
	if err := h.refImages.Create(r.Context(), ri); err != nil {
		h.logger.Error("failed to create reference image",
			slog.String("owner_id", owner),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to save reference image", "CREATE_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, toReferenceImageResponse(ri))
}

// UpdateReferenceImage handles PATCH /reference-images/{id}.
func (h *Handlers) UpdateReferenceImage(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req UpdateReferenceImageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	u := refimage.Update{Name: req.Name, Category: req.Category}
	if err := h.refImages.Update(r.Context(), id, owner, u); err != nil {
		if errors.Is(err, refimage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reference image not found", "NOT_FOUND")
			return
		}
		h.logger.Error("failed to update reference image",
			slog.Int64("reference_image_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to update reference image", "UPDATE_FAILED")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteReferenceImage handles DELETE /reference-images/{id}.
func (h *Handlers) DeleteReferenceImage(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.refImages.Delete(r.Context(), id, owner); err != nil {
		if errors.Is(err, refimage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reference image not found", "NOT_FOUND")
			return
		}
		h.logger.Error("failed to delete reference image",
			slog.Int64("reference_image_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to delete reference image", "DELETE_FAILED")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
