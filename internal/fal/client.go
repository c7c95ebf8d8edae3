package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Static errors for fal client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("fal: API key is required")
	// ErrVideoURLRequired is returned when the run input has no source video.
	ErrVideoURLRequired = errors.New("fal: video URL is required")
	// ErrFaceImageURLRequired is returned when the run input has no face image.
	ErrFaceImageURLRequired = errors.New("fal: face image URL is required")
)

// defaultTimeout bounds a synchronous run. Video generation is slow, so the
// budget is on the order of ten-plus minutes.
const defaultTimeout = 12 * time.Minute

// Client defines the interface for invoking the face-swap model.
type Client interface {
	// Run performs a synchronous face-swap generation. It blocks, up to the
	// configured wall-clock budget, until the provider returns.
	Run(ctx context.Context, input RunInput) (RunOutput, error)
}

// HTTPClient is the HTTP implementation of the fal Client interface.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL sets a custom base URL for the fal API.
func WithBaseURL(url string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = url
	}
}

// WithModel sets the model path invoked by Run.
func WithModel(model string) ClientOption {
	return func(c *HTTPClient) {
		c.model = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the wall-clock budget for a synchronous run.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new fal HTTP client. The API key is required.
func NewClient(apiKey string, opts ...ClientOption) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &HTTPClient{
		apiKey:     apiKey,
		baseURL:    "https://fal.run",
		model:      "fal-ai/video-face-swap",
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run performs a synchronous face-swap generation.
//
// There is no automatic retry: a failed run is surfaced to the caller, which
// records it on the generation row. Failures reported by the provider come
// back as a *ProviderError carrying the most specific message available.
func (c *HTTPClient) Run(ctx context.Context, input RunInput) (RunOutput, error) {
	if input.VideoURL == "" {
		return RunOutput{}, ErrVideoURLRequired
	}
	if input.FaceImageURL == "" {
		return RunOutput{}, ErrFaceImageURLRequired
	}

	body, err := json.Marshal(runRequest{
		VideoURL:     input.VideoURL,
		FaceImageURL: input.FaceImageURL,
		AspectRatio:  input.OutputAspectRatio,
	})
	if err != nil {
		return RunOutput{}, fmt.Errorf("fal: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return RunOutput{}, fmt.Errorf("fal: create request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RunOutput{}, fmt.Errorf("fal: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return RunOutput{}, fmt.Errorf("fal: read response: %w", err)
	}

	var parsed runResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return RunOutput{}, &ProviderError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("request failed with status %d", resp.StatusCode),
			}
		}
		return RunOutput{}, fmt.Errorf("fal: unmarshal response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.errorMessage()
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return RunOutput{}, &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	// A 2xx body can still report a model-level failure, or omit the video.
	if parsed.Status == "ERROR" || parsed.videoURL() == "" {
		msg := parsed.errorMessage()
		if msg == "" {
			msg = "provider returned no output video"
		}
		return RunOutput{}, &ProviderError{Message: msg}
	}

	return RunOutput{
		RequestID: parsed.RequestID,
		VideoURL:  parsed.videoURL(),
	}, nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
