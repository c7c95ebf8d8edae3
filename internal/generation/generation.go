// Package generation provides the Generation aggregate for face-swap video
// jobs. It owns the lifecycle state machine (pending -> processing ->
// completed/failed), the repository port for persistence, and the lifecycle
// service that both completion paths (direct trigger and provider webhook)
// converge on.
package generation

import (
	"time"
)

// Status represents the current state of a Generation.
type Status string

const (
	// StatusPending indicates the row was created but processing has not started.
	StatusPending Status = "pending"
	// StatusProcessing indicates the provider call is in flight.
	StatusProcessing Status = "processing"
	// StatusCompleted indicates the output video was produced and re-hosted.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the generation failed; ErrorMessage holds the reason.
	StatusFailed Status = "failed"
)

// GenericFailureMessage is recorded when a failure carries no specific reason.
const GenericFailureMessage = "video generation failed"

// validTransitions defines which state transitions are allowed. The
// repositories enforce the same table in their write predicates. A terminal
// state admits only a rewrite of itself: re-applying it is a harmless
// idempotent write, but nothing moves a row out of it.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed},
	StatusProcessing: {StatusProcessing, StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusCompleted},
	StatusFailed:     {StatusFailed},
}

// CanTransition reports whether a transition from one status to another is allowed.
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Generation represents one user-initiated face-swap job.
// Instances are value snapshots of a stored row; the repository owns
// concurrency, so there is no lock on the struct itself.
type Generation struct {
	// ID is assigned by the store on creation.
	ID int64
	// OwnerID is the authenticated user id or an anon_-prefixed token.
	// Every update and delete re-verifies ownership against this value.
	OwnerID string
	// Status is the current lifecycle state.
	Status Status
	// CharacterName is the display name of the selected character.
	CharacterName string
	// CharacterImageURL points at the character portrait used for the swap.
	CharacterImageURL string
	// SourceAspectRatio is the aspect ratio of the recorded source video.
	SourceAspectRatio string
	// OutputAspectRatio is the requested aspect ratio of the output.
	OutputAspectRatio string
	// RunID is an opaque token set once processing starts.
	RunID string
	// ResultURL is the durable output video URL; set only when completed.
	ResultURL string
	// ErrorMessage holds the failure reason; set only when failed.
	ErrorMessage string
	// OwnerEmail, when present, receives a best-effort completion email.
	OwnerEmail string
	// CreatedAt is when the row was created.
	CreatedAt time.Time
	// UpdatedAt is when the row was last written.
	UpdatedAt time.Time
}

// IsTerminal returns true if the generation is in a terminal state.
func (g *Generation) IsTerminal() bool {
	return g.Status.IsTerminal()
}

// Clone creates a copy of the generation for safe reads.
func (g *Generation) Clone() *Generation {
	c := *g
	return &c
}
