package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidswap/vidswap-api/internal/fal"
	"github.com/vidswap/vidswap-api/internal/notify"
	"github.com/vidswap/vidswap-api/internal/storage"
)

// defaultRunBudget bounds the synchronous provider call. Video generation is
// slow; the direct trigger blocks its request for the whole run.
const defaultRunBudget = 12 * time.Minute

// notifyTimeout bounds the detached completion-email send.
const notifyTimeout = 30 * time.Second

// Service orchestrates the generation lifecycle. The direct trigger (Run)
// and the legacy webhook path (HandleCallback) are two adapters converging
// on the same idempotent transition calls; neither can move a row out of a
// terminal state.
type Service struct {
	repo     Repository
	provider fal.Client
	blobs    storage.Store
	notifier notify.Notifier
	fetch    *http.Client
	logger   *slog.Logger

	runBudget time.Duration
}

// ServiceOption is a function that configures a Service.
type ServiceOption func(*Service)

// WithRunBudget sets the wall-clock budget for the synchronous provider call.
func WithRunBudget(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.runBudget = d
		}
	}
}

// WithFetchClient sets the HTTP client used to download provider output.
func WithFetchClient(c *http.Client) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.fetch = c
		}
	}
}

// NewService creates a new generation lifecycle service.
func NewService(repo Repository, provider fal.Client, blobs storage.Store, notifier notify.Notifier, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewNoopNotifier(logger)
	}
	s := &Service{
		repo:      repo,
		provider:  provider,
		blobs:     blobs,
		notifier:  notifier,
		fetch:     &http.Client{Timeout: 5 * time.Minute},
		logger:    logger,
		runBudget: defaultRunBudget,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput contains the parameters for creating a pending generation.
type CreateInput struct {
	OwnerID           string
	CharacterName     string
	CharacterImageURL string
	SourceAspectRatio string
	OutputAspectRatio string
	OwnerEmail        string
}

// Create persists a new pending generation. The row is created before the
// source upload finishes so the UI can show progress immediately.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Generation, error) {
	g := &Generation{
		OwnerID:           input.OwnerID,
		CharacterName:     input.CharacterName,
		CharacterImageURL: input.CharacterImageURL,
		SourceAspectRatio: input.SourceAspectRatio,
		OutputAspectRatio: input.OutputAspectRatio,
		OwnerEmail:        input.OwnerEmail,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Error("failed to create generation",
			slog.String("owner_id", input.OwnerID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("generation created",
		slog.Int64("generation_id", g.ID),
		slog.String("character", g.CharacterName),
	)
	return g, nil
}

// Get retrieves a generation owned by ownerID.
// Rows owned by someone else surface as ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64, ownerID string) (*Generation, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return g, nil
}

// List returns the owner's generations, newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit int) ([]*Generation, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit)
}

// RunInput contains the parameters for the direct generation trigger.
type RunInput struct {
	// GenerationID is the pending row created earlier.
	GenerationID int64
	// VideoURL is the uploaded source video.
	VideoURL string
	// CharacterImageURL optionally overrides the URL stored on the row,
	// for the case where the character image finished uploading after the
	// row was created.
	CharacterImageURL string
}

// Run executes the direct-processing path: mark the row processing, call the
// provider synchronously under the run budget, re-host the output, and record
// the terminal state. Provider, fetch, and store failures all mark the row
// failed; the returned row reflects the outcome either way. There is no
// automatic retry.
//
// Calling Run on an already-terminal row is a no-op at the semantic level:
// the row is returned as-is.
func (s *Service) Run(ctx context.Context, input RunInput) (*Generation, error) {
	g, err := s.repo.FindByID(ctx, input.GenerationID)
	if err != nil {
		return nil, err
	}
	if g.IsTerminal() {
		return g, nil
	}

	runID := "run_" + uuid.NewString()
	if err := s.repo.Begin(ctx, g.ID, runID); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Lost a race with a terminal write on the same row; honor it.
			return s.repo.FindByID(ctx, g.ID)
		}
		return nil, err
	}

	faceURL := g.CharacterImageURL
	if input.CharacterImageURL != "" {
		faceURL = input.CharacterImageURL
	}

	s.logger.Info("invoking provider",
		slog.Int64("generation_id", g.ID),
		slog.String("run_id", runID),
	)

	runCtx, cancel := context.WithTimeout(ctx, s.runBudget)
	defer cancel()

	out, err := s.provider.Run(runCtx, fal.RunInput{
		VideoURL:          input.VideoURL,
		FaceImageURL:      faceURL,
		OutputAspectRatio: g.OutputAspectRatio,
	})
	if err != nil {
		return s.failWith(ctx, g.ID, providerMessage(err))
	}

	return s.finish(ctx, g, out.VideoURL)
}

// HandleCallback applies an asynchronous provider callback to a generation.
// This is the legacy path, kept for providers that call back instead of
// returning synchronously; it funnels into the same transition calls as Run.
// A callback arriving after the row is terminal is a no-op.
func (s *Service) HandleCallback(ctx context.Context, generationID int64, payload *fal.WebhookPayload) (*Generation, error) {
	g, err := s.repo.FindByID(ctx, generationID)
	if err != nil {
		return nil, err
	}
	if g.IsTerminal() {
		s.logger.Info("callback for terminal generation ignored",
			slog.Int64("generation_id", g.ID),
			slog.String("status", string(g.Status)),
		)
		return g, nil
	}

	if !payload.OK() {
		msg := payload.ErrorMessage()
		if msg == "" {
			msg = GenericFailureMessage
		}
		return s.failWith(ctx, g.ID, msg)
	}

	return s.finish(ctx, g, payload.VideoURL())
}

// ReportFailure records a client-reported failure on an owned row.
func (s *Service) ReportFailure(ctx context.Context, id int64, ownerID, message string) error {
	return s.repo.FailOwned(ctx, id, ownerID, message)
}

// Delete removes an owned generation row. An in-flight provider job is not
// cancelled; only the bookkeeping row goes away.
func (s *Service) Delete(ctx context.Context, id int64, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// finish re-hosts the provider's transient output and marks the row
// completed, then fires the best-effort completion email.
func (s *Service) finish(ctx context.Context, g *Generation, providerURL string) (*Generation, error) {
	durableURL, err := s.rehost(ctx, g.ID, providerURL)
	if err != nil {
		s.logger.Warn("failed to re-host output video",
			slog.Int64("generation_id", g.ID),
			slog.String("error", err.Error()),
		)
		return s.failWith(ctx, g.ID, "failed to store generated video")
	}

	if err := s.repo.Complete(ctx, g.ID, durableURL); err != nil {
		if errors.Is(err, ErrNotFound) {
			// The row went failed underneath us; the terminal write wins.
			return s.repo.FindByID(ctx, g.ID)
		}
		return nil, err
	}

	s.logger.Info("generation completed",
		slog.Int64("generation_id", g.ID),
		slog.String("result_url", durableURL),
	)

	if g.OwnerEmail != "" {
		s.sendCompletionEmail(ctx, g, durableURL)
	}

	return s.repo.FindByID(ctx, g.ID)
}

// failWith records a failure and returns the refreshed row. A completed row
// never matches the fail write; the completed state is returned instead.
func (s *Service) failWith(ctx context.Context, id int64, message string) (*Generation, error) {
	if message == "" {
		message = GenericFailureMessage
	}
	if err := s.repo.Fail(ctx, id, message); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	s.logger.Info("generation failed",
		slog.Int64("generation_id", id),
		slog.String("reason", message),
	)
	return s.repo.FindByID(ctx, id)
}

// rehost downloads the provider's output and uploads it to durable storage.
// The provider's own URL is not considered permanent.
func (s *Service) rehost(ctx context.Context, generationID int64, providerURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, providerURL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := s.fetch.Do(req)
	if err != nil {
		return "", fmt.Errorf("download output video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download output video: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}

	key := fmt.Sprintf("results/%d/%s.mp4", generationID, uuid.NewString())
	url, err := s.blobs.Upload(ctx, key, contentType, resp.Body)
	if err != nil {
		return "", fmt.Errorf("upload output video: %w", err)
	}
	return url, nil
}

// sendCompletionEmail fires the notification in a detached goroutine.
// Delivery failure is logged and never alters the generation.
func (s *Service) sendCompletionEmail(ctx context.Context, g *Generation, resultURL string) {
	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		err := s.notifier.SendCompletion(ctx, notify.Completion{
			To:            g.OwnerEmail,
			CharacterName: g.CharacterName,
			ResultURL:     resultURL,
		})
		if err != nil {
			s.logger.Warn("completion email failed",
				slog.Int64("generation_id", g.ID),
				slog.String("error", err.Error()),
			)
		}
	}(context.WithoutCancel(ctx))
}

// providerMessage maps a provider call error to the message persisted on the
// row. Provider-reported failures carry their extracted message; transport
// errors (including timeouts while the call was in flight) fall back to the
// generic message, matching how fetch failures are treated.
func providerMessage(err error) string {
	var pe *fal.ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return GenericFailureMessage
}
