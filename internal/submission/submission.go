// Package submission provides the CharacterSubmission aggregate:
// community-submitted characters awaiting moderation. Only approved
// submissions are visible to other users.
package submission

import (
	"context"
	"errors"
	"time"
)

// Status represents the moderation state of a submission.
type Status string

const (
	// StatusPending indicates the submission awaits moderation.
	StatusPending Status = "pending"
	// StatusApproved indicates the submission is visible to everyone.
	StatusApproved Status = "approved"
	// StatusRejected indicates the submission was declined.
	StatusRejected Status = "rejected"
)

// IsValid returns true if the status is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// ErrNotFound is returned when a submission cannot be found by id.
var ErrNotFound = errors.New("submission not found")

// CharacterSubmission is a community-submitted character.
type CharacterSubmission struct {
	ID                int64
	ImageURL          string
	SuggestedName     string
	SuggestedCategory string // optional
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone creates a copy for safe reads.
func (s *CharacterSubmission) Clone() *CharacterSubmission {
	c := *s
	return &c
}

// Repository defines the persistence port for character submissions.
type Repository interface {
	// Create persists a new pending submission and fills in ID and timestamps.
	Create(ctx context.Context, cs *CharacterSubmission) error

	// ListByStatus returns submissions with the given status, newest first.
	ListByStatus(ctx context.Context, status Status) ([]*CharacterSubmission, error)

	// SetStatus moves a submission to the given moderation state.
	// Returns ErrNotFound if the submission does not exist.
	SetStatus(ctx context.Context, id int64, status Status) error
}
