package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /generations", h.ListGenerations)
	mux.HandleFunc("POST /generations", h.CreateGeneration)
	mux.HandleFunc("PATCH /generations/{id}", h.ReportGenerationFailure)
	mux.HandleFunc("DELETE /generations/{id}", h.DeleteGeneration)

	mux.HandleFunc("POST /generate-video", h.GenerateVideo)

	mux.HandleFunc("GET /reference-images", h.ListReferenceImages)
	mux.HandleFunc("POST /reference-images", h.CreateReferenceImage)
	mux.HandleFunc("PATCH /reference-images/{id}", h.UpdateReferenceImage)
	mux.HandleFunc("DELETE /reference-images/{id}", h.DeleteReferenceImage)

	mux.HandleFunc("POST /upload", h.IssueUploadToken)

	// Legacy asynchronous completion path.
	mux.HandleFunc("POST /fal-webhook", h.ProviderWebhook)
	mux.HandleFunc("GET /fal-webhook", h.ProviderWebhookProbe)

	mux.HandleFunc("GET /character-submissions", h.ListApprovedSubmissions)
	mux.HandleFunc("POST /character-submissions", h.CreateSubmission)
	mux.HandleFunc("PATCH /character-submissions/{id}", h.ModerateSubmission)

	// Local storage backend only; 404 when S3 is configured.
	mux.HandleFunc("PUT /files/{key...}", h.PutFile)
	mux.HandleFunc("GET /files/{key...}", h.GetFile)

	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
