// Package notify sends best-effort completion emails. Delivery failure never
// affects a generation's status; callers log and move on.
package notify

import (
	"context"
	"log/slog"
)

// Completion describes a finished generation to announce.
type Completion struct {
	// To is the recipient address.
	To string
	// CharacterName is the character used for the swap, for the subject line.
	CharacterName string
	// ResultURL links to the finished video.
	ResultURL string
}

// Notifier defines the interface for completion notifications.
type Notifier interface {
	// SendCompletion delivers a completion notice. Implementations return an
	// error for logging only; callers must not let it alter job state.
	SendCompletion(ctx context.Context, c Completion) error
}

// NoopNotifier discards notifications. Used when SMTP is not configured.
type NoopNotifier struct {
	logger *slog.Logger
}

// NewNoopNotifier creates a notifier that logs and drops every notice.
func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopNotifier{logger: logger}
}

// SendCompletion logs the notice at debug level and succeeds.
func (n *NoopNotifier) SendCompletion(_ context.Context, c Completion) error {
	n.logger.Debug("completion notification dropped (no mailer configured)",
		slog.String("to", c.To),
		slog.String("character", c.CharacterName),
	)
	return nil
}

// Compile-time check that NoopNotifier implements Notifier.
var _ Notifier = (*NoopNotifier)(nil)
