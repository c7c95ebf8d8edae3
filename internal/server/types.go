// Package server provides the HTTP surface of the vidswap API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "time"

// CreateGenerationRequest is the request body for creating a pending generation.
type CreateGenerationRequest struct {
	// CharacterName is the display name of the selected character.
	CharacterName string `json:"character_name" validate:"required"`
	// CharacterImageURL points at the character portrait.
	CharacterImageURL string `json:"character_image_url" validate:"required,url"`
	// SourceAspectRatio is the aspect ratio of the recorded video.
	SourceAspectRatio string `json:"source_aspect_ratio,omitempty"`
	// OutputAspectRatio is the requested output aspect ratio.
	OutputAspectRatio string `json:"output_aspect_ratio,omitempty"`
	// Email optionally registers an address for the completion notice.
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// GenerationResponse is the JSON shape of a generation row.
type GenerationResponse struct {
	ID                int64     `json:"id"`
	Status            string    `json:"status"`
	CharacterName     string    `json:"character_name"`
	CharacterImageURL string    `json:"character_image_url"`
	SourceAspectRatio string    `json:"source_aspect_ratio,omitempty"`
	OutputAspectRatio string    `json:"output_aspect_ratio,omitempty"`
	RunID             string    `json:"run_id,omitempty"`
	ResultURL         string    `json:"result_url,omitempty"`
	ErrorMessage      string    `json:"error_message,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GenerateVideoRequest is the request body for the direct generation trigger.
type GenerateVideoRequest struct {
	// GenerationID is the pending row created by POST /generations.
	GenerationID int64 `json:"generation_id" validate:"required,min=1"`
	// VideoURL is the uploaded source video.
	VideoURL string `json:"video_url" validate:"required,url"`
	// CharacterImageURL optionally overrides the URL stored on the row.
	CharacterImageURL string `json:"character_image_url,omitempty" validate:"omitempty,url"`
}

// ReportFailureRequest is the request body for a client-reported failure.
type ReportFailureRequest struct {
	Status       string `json:"status" validate:"required,eq=failed"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// UploadTokenRequest declares an upload and asks for a scoped token.
// Duration and dimensions are optional; when the client could not read the
// asset's metadata the corresponding checks are skipped.
type UploadTokenRequest struct {
	Filename        string  `json:"filename" validate:"required"`
	ContentType     string  `json:"content_type" validate:"required"`
	SizeBytes       int64   `json:"size_bytes" validate:"required,min=1"`
	DurationSeconds float64 `json:"duration_seconds,omitempty" validate:"omitempty,min=0"`
	Width           int     `json:"width,omitempty" validate:"omitempty,min=0"`
	Height          int     `json:"height,omitempty" validate:"omitempty,min=0"`
}

// UploadTokenResponse carries the scoped upload URL and the durable URL the
// object will have once uploaded.
type UploadTokenResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
}

// CreateReferenceImageRequest is the request body for saving a custom character.
type CreateReferenceImageRequest struct {
	Name     string `json:"name" validate:"required"`
	ImageURL string `json:"image_url" validate:"required,url"`
	Category string `json:"category,omitempty"`
}

// UpdateReferenceImageRequest is a partial update; absent fields stay unchanged.
type UpdateReferenceImageRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
}

// ReferenceImageResponse is the JSON shape of a reference image row.
type ReferenceImageResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSubmissionRequest submits a community character for moderation.
type CreateSubmissionRequest struct {
	ImageURL          string `json:"image_url" validate:"required,url"`
	SuggestedName     string `json:"suggested_name" validate:"required"`
	SuggestedCategory string `json:"suggested_category,omitempty"`
}

// ModerateSubmissionRequest approves or rejects a submission.
type ModerateSubmissionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// SubmissionResponse is the JSON shape of a character submission.
type SubmissionResponse struct {
	ID                int64     `json:"id"`
	ImageURL          string    `json:"image_url"`
	SuggestedName     string    `json:"suggested_name"`
	SuggestedCategory string    `json:"suggested_category,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReceivedResponse acknowledges a provider callback. The webhook always
// answers 200 so the provider does not retry indefinitely.
type ReceivedResponse struct {
	Status string `json:"status"`
}
