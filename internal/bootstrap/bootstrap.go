// Package bootstrap provides dependency initialization for the vidswap API.
// Every external resource is constructed here and injected; nothing is a
// process-wide singleton.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidswap/vidswap-api/internal/config"
	"github.com/vidswap/vidswap-api/internal/fal"
	"github.com/vidswap/vidswap-api/internal/generation"
	"github.com/vidswap/vidswap-api/internal/media"
	"github.com/vidswap/vidswap-api/internal/notify"
	"github.com/vidswap/vidswap-api/internal/postgres"
	"github.com/vidswap/vidswap-api/internal/refimage"
	"github.com/vidswap/vidswap-api/internal/server"
	"github.com/vidswap/vidswap-api/internal/storage"
	"github.com/vidswap/vidswap-api/internal/submission"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Handlers *server.Handlers

	pool *pgxpool.Pool
}

// Close releases held resources.
func (d *Dependencies) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, localFiles, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	provider, err := fal.NewClient(cfg.FalAPIKey,
		fal.WithBaseURL(cfg.FalBaseURL),
		fal.WithModel(cfg.FalModel),
		fal.WithTimeout(cfg.GenerationBudget),
	)
	if err != nil {
		return nil, fmt.Errorf("create fal client: %w", err)
	}

	notifier, err := initNotifier(cfg, logger)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}

	var (
		genRepo generation.Repository
		refRepo refimage.Repository
		subRepo submission.Repository
	)
	if cfg.DatabaseEnabled() {
		pool, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		deps.pool = pool
		genRepo = postgres.NewGenerationRepository(pool)
		refRepo = postgres.NewReferenceImageRepository(pool)
		subRepo = postgres.NewSubmissionRepository(pool)
	} else {
		logger.Warn("no DATABASE_URL configured, using in-memory repositories")
		genRepo = generation.NewMemoryRepository()
		refRepo = refimage.NewMemoryRepository()
		subRepo = submission.NewMemoryRepository()
	}

	svc := generation.NewService(genRepo, provider, store, notifier, logger,
		generation.WithRunBudget(cfg.GenerationBudget),
	)

	deps.Handlers = server.NewHandlers(server.HandlersConfig{
		Generations: svc,
		RefImages:   refRepo,
		Submissions: subRepo,
		Blobs:       store,
		LocalFiles:  localFiles,
		Limits:      limitsFromConfig(cfg),
		AdminAPIKey: cfg.AdminAPIKey,
	}, logger)

	return deps, nil
}

// initStorage creates the blob storage backend based on configuration.
// The second return value is non-nil only for the local backend, which needs
// the /files routes wired.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Store, *storage.LocalStore, error) {
	if cfg.S3Enabled() {
		s3Store, err := storage.NewS3Store(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil, nil
	}

	localStore, err := storage.NewLocalStore(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("dir", cfg.StorageDir),
	)
	return localStore, localStore, nil
}

// initNotifier creates the completion-email notifier based on configuration.
func initNotifier(cfg *config.Config, logger *slog.Logger) (notify.Notifier, error) {
	if !cfg.SMTPEnabled() {
		return notify.NewNoopNotifier(logger), nil
	}
	n, err := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("create SMTP notifier: %w", err)
	}
	logger.Info("SMTP notifier configured",
		slog.String("host", cfg.SMTPHost),
	)
	return n, nil
}

// limitsFromConfig maps the configured upload constraints.
func limitsFromConfig(cfg *config.Config) media.Limits {
	limits := media.DefaultLimits()
	if cfg.MaxVideoMB > 0 {
		limits.MaxVideoBytes = int64(cfg.MaxVideoMB) << 20
	}
	if cfg.MinVideoSeconds > 0 {
		limits.MinDuration = time.Duration(cfg.MinVideoSeconds) * time.Second
	}
	if cfg.MaxVideoSeconds > 0 {
		limits.MaxDuration = time.Duration(cfg.MaxVideoSeconds) * time.Second
	}
	if cfg.MinImagePixels > 0 {
		limits.MinImageDim = cfg.MinImagePixels
	}
	return limits
}
