// Package fal provides an HTTP client for the fal.ai face-swap video model
// and parsing for its asynchronous webhook callbacks. Both the synchronous
// run response and the webhook payload share one error-message extraction
// chain: validation detail array, then error field, then message field.
package fal

import (
	"encoding/json"
	"fmt"
)

// RunInput contains the parameters for a synchronous face-swap run.
type RunInput struct {
	// VideoURL is the source video recorded or uploaded by the user.
	VideoURL string
	// FaceImageURL is the character portrait whose face is swapped in.
	FaceImageURL string
	// OutputAspectRatio is the requested output aspect ratio (e.g. "9:16").
	OutputAspectRatio string
}

// RunOutput contains the result of a successful run.
type RunOutput struct {
	// RequestID is the provider's id for this run.
	RequestID string
	// VideoURL is the provider-hosted output video. The URL is transient;
	// callers must re-host the asset before treating it as durable.
	VideoURL string
}

// ProviderError is a failure reported by the provider, carrying the most
// specific message obtainable from the response body.
type ProviderError struct {
	// StatusCode is the HTTP status of the response, 0 for in-body errors.
	StatusCode int
	// Message is the extracted failure reason.
	Message string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fal: provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fal: provider error: %s", e.Message)
}

// detailItem is one entry of a validation-error detail array.
type detailItem struct {
	Msg string `json:"msg"`
}

// videoOutput is the video object in a successful response.
type videoOutput struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
}

// runRequest is the request body for the synchronous run endpoint.
type runRequest struct {
	VideoURL     string `json:"video_url"`
	FaceImageURL string `json:"face_image_url"`
	AspectRatio  string `json:"aspect_ratio,omitempty"`
}

// runResponse covers both success and error shapes of a run response.
type runResponse struct {
	RequestID string       `json:"request_id,omitempty"`
	Status    string       `json:"status,omitempty"`
	Video     *videoOutput `json:"video,omitempty"`
	Detail    []detailItem `json:"detail,omitempty"`
	Error     string       `json:"error,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// videoURL returns the output video URL, if any.
func (r *runResponse) videoURL() string {
	if r.Video == nil {
		return ""
	}
	return r.Video.URL
}

// errorMessage extracts the most specific error string from the response,
// in priority order: detail array, error field, message field. Returns ""
// when none is present; callers fall back to a generic message.
func (r *runResponse) errorMessage() string {
	for _, d := range r.Detail {
		if d.Msg != "" {
			return d.Msg
		}
	}
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// WebhookPayload is the body of an asynchronous completion callback.
// The provider posts it when a queued run finishes, successfully or not.
type WebhookPayload struct {
	RequestID string          `json:"request_id"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Error     string          `json:"error,omitempty"`

	body runResponse
}

// ParseWebhook decodes a webhook callback body.
func ParseWebhook(data []byte) (*WebhookPayload, error) {
	var p WebhookPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("fal: decode webhook payload: %w", err)
	}
	if len(p.Payload) > 0 {
		// The payload mirrors the synchronous response shape. A malformed
		// inner payload is treated as absent; the outer fields still apply.
		_ = json.Unmarshal(p.Payload, &p.body)
	}
	return &p, nil
}

// OK reports whether the callback carries a usable output video.
func (p *WebhookPayload) OK() bool {
	return p.Status != "ERROR" && p.VideoURL() != ""
}

// VideoURL returns the provider-hosted output video URL, if any.
func (p *WebhookPayload) VideoURL() string {
	return p.body.videoURL()
}

// ErrorMessage extracts the failure reason using the shared priority chain,
// considering the inner payload first and the outer error field last.
func (p *WebhookPayload) ErrorMessage() string {
	if msg := p.body.errorMessage(); msg != "" {
		return msg
	}
	return p.Error
}
