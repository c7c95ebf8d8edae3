package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Static errors for SMTP notifier configuration.
var (
	// ErrSMTPHostRequired is returned when no SMTP host is configured.
	ErrSMTPHostRequired = errors.New("notify: SMTP host is required")
	// ErrFromAddressRequired is returned when no sender address is configured.
	ErrFromAddressRequired = errors.New("notify: from address is required")
)

// SMTPConfig holds the configuration for the SMTP notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends completion emails over SMTP.
type SMTPNotifier struct {
	client *mail.Client
	from   string
}

// NewSMTPNotifier creates a new SMTP-backed notifier.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, ErrSMTPHostRequired
	}
	if cfg.From == "" {
		return nil, ErrFromAddressRequired
	}

	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: create SMTP client: %w", err)
	}

	return &SMTPNotifier{client: client, from: cfg.From}, nil
}

// SendCompletion delivers the completion email.
func (n *SMTPNotifier) SendCompletion(ctx context.Context, c Completion) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("notify: set from address: %w", err)
	}
	if err := msg.To(c.To); err != nil {
		return fmt.Errorf("notify: set recipient: %w", err)
	}

	subject := "Your video is ready"
	if c.CharacterName != "" {
		subject = fmt.Sprintf("Your %s video is ready", c.CharacterName)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Your face-swap video has finished processing.\n\nWatch it here: %s\n", c.ResultURL,
	))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("notify: send completion email: %w", err)
	}
	return nil
}

// Compile-time check that SMTPNotifier implements Notifier.
var _ Notifier = (*SMTPNotifier)(nil)
