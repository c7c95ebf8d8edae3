package server

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vidswap/vidswap-api/internal/fal"
)

// maxWebhookBody bounds the callback body read.
const maxWebhookBody = 1 << 20

// ProviderWebhook handles POST /fal-webhook?generation_id=N, the legacy
// asynchronous completion path. It funnels into the same transition logic as
// the direct trigger. The response is always 200 "received", whatever
// happened, so the provider does not retry indefinitely; problems are logged
// and, where a row exists, recorded on it.
func (h *Handlers) ProviderWebhook(w http.ResponseWriter, r *http.Request) {
	received := func() {
		writeJSON(w, http.StatusOK, ReceivedResponse{Status: "received"})
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("generation_id"), 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("webhook without usable generation_id",
			slog.String("raw", r.URL.Query().Get("generation_id")),
		)
		received()
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("failed to read webhook body",
			slog.Int64("generation_id", id),
			slog.String("error", err.Error()),
		)
		received()
		return
	}

	payload, err := fal.ParseWebhook(body)
	if err != nil {
		h.logger.Warn("failed to parse webhook payload",
			slog.Int64("generation_id", id),
			slog.String("error", err.Error()),
		)
		received()
		return
	}

	if _, err := h.generations.HandleCallback(r.Context(), id, payload); err != nil {
		h.logger.Warn("webhook processing failed",
			slog.Int64("generation_id", id),
			slog.String("error", err.Error()),
		)
	}
	received()
}

// ProviderWebhookProbe handles GET /fal-webhook. Some providers probe the
// callback URL before registering it.
func (h *Handlers) ProviderWebhookProbe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
