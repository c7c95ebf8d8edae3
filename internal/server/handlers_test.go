package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vidswap/vidswap-api/internal/fal"
	"github.com/vidswap/vidswap-api/internal/generation"
	"github.com/vidswap/vidswap-api/internal/media"
	"github.com/vidswap/vidswap-api/internal/refimage"
	"github.com/vidswap/vidswap-api/internal/storage"
	"github.com/vidswap/vidswap-api/internal/submission"
)

// mockProvider is a testify mock for the fal Client interface.
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Run(ctx context.Context, input fal.RunInput) (fal.RunOutput, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(fal.RunOutput), args.Error(1)
}

// testEnv wires a full router backed by in-memory repositories and the local
// storage backend.
type testEnv struct {
	handler     http.Handler
	generations *generation.MemoryRepository
	provider    *mockProvider
	store       *storage.LocalStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := generation.NewMemoryRepository()
	provider := &mockProvider{}
	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	svc := generation.NewService(repo, provider, store, nil, logger)
	h := NewHandlers(HandlersConfig{
		Generations: svc,
		RefImages:   refimage.NewMemoryRepository(),
		Submissions: submission.NewMemoryRepository(),
		Blobs:       store,
		LocalFiles:  store,
		Limits:      media.DefaultLimits(),
		AdminAPIKey: "admin-secret",
	}, logger)

	return &testEnv{
		handler:     NewRouter(h, logger, DefaultConfig()),
		generations: repo,
		provider:    provider,
		store:       store,
	}
}

func (e *testEnv) do(t *testing.T, method, target, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if owner != "" {
		req.Header.Set(HeaderAnonymousID, owner)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (e *testEnv) createGeneration(t *testing.T, owner string) GenerationResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/generations", owner, CreateGenerationRequest{
		CharacterName:     "Django",
		CharacterImageURL: "https://cdn.example.com/django.png",
		OutputAspectRatio: "9:16",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[GenerationResponse](t, rec)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
}

func TestIdentityResolution(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
	}{
		{"no identity", nil, http.StatusUnauthorized},
		{"anonymous id without prefix", map[string]string{HeaderAnonymousID: "alice"}, http.StatusUnauthorized},
		{"anonymous prefix only", map[string]string{HeaderAnonymousID: "anon_"}, http.StatusUnauthorized},
		{"valid anonymous id", map[string]string{HeaderAnonymousID: "anon_alice"}, http.StatusOK},
		{"authenticated user id", map[string]string{HeaderUserID: "user-42"}, http.StatusOK},
		{"user id wins over bad anon id", map[string]string{HeaderUserID: "user-42", HeaderAnonymousID: "junk"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/generations", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCreateGeneration(t *testing.T) {
	env := newTestEnv(t)

	g := env.createGeneration(t, "anon_alice")
	assert.Equal(t, "pending", g.Status)
	assert.Equal(t, "Django", g.CharacterName)
	assert.NotZero(t, g.ID)
}

func TestCreateGeneration_Validation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing character name", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/generations", "anon_alice", CreateGenerationRequest{
			CharacterImageURL: "https://cdn.example.com/django.png",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeBody[ErrorResponse](t, rec).Code)
	})

	t.Run("invalid image URL", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/generations", "anon_alice", CreateGenerationRequest{
			CharacterName:     "Django",
			CharacterImageURL: "not-a-url",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/generations", "anon_alice", CreateGenerationRequest{
			CharacterName:     "Django",
			CharacterImageURL: "https://cdn.example.com/django.png",
			Email:             "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/generations", strings.NewReader("{"))
		req.Header.Set(HeaderAnonymousID, "anon_alice")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_JSON", decodeBody[ErrorResponse](t, rec).Code)
	})
}

func TestListGenerations_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)

	env.createGeneration(t, "anon_alice")
	env.createGeneration(t, "anon_alice")
	env.createGeneration(t, "anon_bob")

	rec := env.do(t, http.MethodGet, "/generations", "anon_alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]GenerationResponse](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/generations?limit=1", "anon_alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]GenerationResponse](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/generations?limit=oops", "anon_alice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportGenerationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.createGeneration(t, "anon_alice")

	t.Run("owner marks failure", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/generations/1", "anon_alice", ReportFailureRequest{
			Status:       "failed",
			ErrorMessage: "upload never finished",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[GenerationResponse](t, rec)
		assert.Equal(t, "failed", resp.Status)
		assert.Equal(t, "upload never finished", resp.ErrorMessage)
	})

	t.Run("cross-owner gets 404", func(t *testing.T) {
		other := env.createGeneration(t, "anon_alice")
		rec := env.do(t, http.MethodPatch, "/generations/2", "anon_mallory", ReportFailureRequest{
			Status: "failed",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)

		// The row is untouched.
		raw, err := env.generations.FindByID(context.Background(), other.ID)
		require.NoError(t, err)
		assert.Equal(t, generation.StatusPending, raw.Status)
	})

	t.Run("only failed is accepted", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/generations/1", "anon_alice", ReportFailureRequest{
			Status: "completed",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/generations/abc", "anon_alice", ReportFailureRequest{
			Status: "failed",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteGeneration(t *testing.T) {
	env := newTestEnv(t)
	g := env.createGeneration(t, "anon_alice")

	rec := env.do(t, http.MethodDelete, "/generations/1", "anon_mallory", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, err := env.generations.FindByID(context.Background(), g.ID)
	require.NoError(t, err, "row must survive a cross-owner delete")

	rec = env.do(t, http.MethodDelete, "/generations/1", "anon_alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/generations/1", "anon_alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateVideo_Success(t *testing.T) {
	env := newTestEnv(t)
	g := env.createGeneration(t, "anon_alice")

	asset := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("output-bytes"))
	}))
	t.Cleanup(asset.Close)

	env.provider.On("Run", mock.Anything, mock.Anything).
		Return(fal.RunOutput{RequestID: "req-1", VideoURL: asset.URL + "/out.mp4"}, nil)

	rec := env.do(t, http.MethodPost, "/generate-video", "", GenerateVideoRequest{
		GenerationID: g.ID,
		VideoURL:     "https://cdn.example.com/source.mp4",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[GenerationResponse](t, rec)
	assert.Equal(t, "completed", resp.Status)
	assert.Contains(t, resp.ResultURL, "/files/results/")
	assert.NotEqual(t, asset.URL+"/out.mp4", resp.ResultURL)
	env.provider.AssertExpectations(t)
}

func TestGenerateVideo_ProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	g := env.createGeneration(t, "anon_alice")

	env.provider.On("Run", mock.Anything, mock.Anything).
		Return(fal.RunOutput{}, &fal.ProviderError{StatusCode: 422, Message: "face not detected"})

	rec := env.do(t, http.MethodPost, "/generate-video", "", GenerateVideoRequest{
		GenerationID: g.ID,
		VideoURL:     "https://cdn.example.com/source.mp4",
	})

	// A failed run still answers 200; the outcome lives on the row.
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[GenerationResponse](t, rec)
	assert.Equal(t, "failed", resp.Status)
	assert.Equal(t, "face not detected", resp.ErrorMessage)
}

func TestGenerateVideo_UnknownGeneration(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/generate-video", "", GenerateVideoRequest{
		GenerationID: 404,
		VideoURL:     "https://cdn.example.com/source.mp4",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProviderWebhook(t *testing.T) {
	env := newTestEnv(t)
	g := env.createGeneration(t, "anon_alice")

	asset := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("cb"))
	}))
	t.Cleanup(asset.Close)

	post := func(target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("success callback completes the row", func(t *testing.T) {
		rec := post("/fal-webhook?generation_id=1",
			`{"request_id": "req-1", "status": "OK", "payload": {"video": {"url": "`+asset.URL+`/out.mp4"}}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "received", decodeBody[ReceivedResponse](t, rec).Status)

		row, err := env.generations.FindByID(context.Background(), g.ID)
		require.NoError(t, err)
		assert.Equal(t, generation.StatusCompleted, row.Status)
	})

	t.Run("late error callback cannot regress the row", func(t *testing.T) {
		rec := post("/fal-webhook?generation_id=1",
			`{"request_id": "req-1", "status": "ERROR", "error": "late failure"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		row, err := env.generations.FindByID(context.Background(), g.ID)
		require.NoError(t, err)
		assert.Equal(t, generation.StatusCompleted, row.Status)
		assert.NotEmpty(t, row.ResultURL)
	})

	t.Run("missing generation_id still answers 200", func(t *testing.T) {
		rec := post("/fal-webhook", `{"request_id": "req-9"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown generation still answers 200", func(t *testing.T) {
		rec := post("/fal-webhook?generation_id=999", `{"request_id": "req-9", "status": "ERROR"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed body still answers 200", func(t *testing.T) {
		rec := post("/fal-webhook?generation_id=1", `not json`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("probe", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/fal-webhook", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestIssueUploadToken(t *testing.T) {
	env := newTestEnv(t)

	t.Run("scoped key for identified caller", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/upload", "anon_alice", UploadTokenRequest{
			Filename:        "clip.mp4",
			ContentType:     "video/mp4",
			SizeBytes:       10 << 20,
			DurationSeconds: 12,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[UploadTokenResponse](t, rec)
		assert.True(t, strings.HasPrefix(resp.Key, "uploads/anon_alice/"))
		assert.True(t, strings.HasSuffix(resp.Key, ".mp4"))
		assert.NotEmpty(t, resp.UploadURL)
		assert.NotEmpty(t, resp.PublicURL)
	})

	t.Run("public scope without identity", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/upload", "", UploadTokenRequest{
			Filename:    "face.png",
			ContentType: "image/png",
			SizeBytes:   1 << 20,
			Width:       512,
			Height:      512,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[UploadTokenResponse](t, rec)
		assert.True(t, strings.HasPrefix(resp.Key, "uploads/public/"))
	})

	t.Run("oversized video rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/upload", "anon_alice", UploadTokenRequest{
			Filename:    "huge.mp4",
			ContentType: "video/mp4",
			SizeBytes:   51 << 20,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VIDEO_TOO_LARGE", decodeBody[ErrorResponse](t, rec).Code)
	})

	t.Run("out-of-range duration rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/upload", "anon_alice", UploadTokenRequest{
			Filename:        "long.mp4",
			ContentType:     "video/mp4",
			SizeBytes:       1 << 20,
			DurationSeconds: 45,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "DURATION_OUT_OF_RANGE", decodeBody[ErrorResponse](t, rec).Code)
	})

	t.Run("small image rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/upload", "anon_alice", UploadTokenRequest{
			Filename:    "tiny.png",
			ContentType: "image/png",
			SizeBytes:   1 << 10,
			Width:       64,
			Height:      64,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "IMAGE_TOO_SMALL", decodeBody[ErrorResponse](t, rec).Code)
	})

	t.Run("suspicious extension dropped", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/upload", "anon_alice", UploadTokenRequest{
			Filename:        "../../etc/passwd",
			ContentType:     "video/mp4",
			SizeBytes:       1 << 20,
			DurationSeconds: 5,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[UploadTokenResponse](t, rec)
		assert.False(t, strings.Contains(resp.Key, ".."))
	})
}

func TestSafeExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"clip.mp4", ".mp4"},
		{"CLIP.MP4", ".mp4"},
		{"face.png", ".png"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
		{"trailing.", ""},
		{"weird.mp4!", ""},
		{"dir/../../x.webm", ".webm"},
		{"toolong.abcdefgh", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, safeExtension(tt.filename))
		})
	}
}

func TestReferenceImages_CRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/reference-images", "anon_alice", CreateReferenceImageRequest{
		Name:     "My Hero",
		ImageURL: "https://cdn.example.com/hero.png",
		Category: "custom",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[ReferenceImageResponse](t, rec)
	assert.NotZero(t, created.ID)

	rec = env.do(t, http.MethodGet, "/reference-images", "anon_alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]ReferenceImageResponse](t, rec), 1)

	// Other owners see nothing.
	rec = env.do(t, http.MethodGet, "/reference-images", "anon_bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]ReferenceImageResponse](t, rec))

	name := "Renamed Hero"
	rec = env.do(t, http.MethodPatch, "/reference-images/1", "anon_alice", UpdateReferenceImageRequest{Name: &name})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPatch, "/reference-images/1", "anon_bob", UpdateReferenceImageRequest{Name: &name})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/reference-images/1", "anon_bob", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/reference-images/1", "anon_alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/reference-images", "anon_alice", nil)
	assert.Empty(t, decodeBody[[]ReferenceImageResponse](t, rec))
}

func TestCharacterSubmissions_Moderation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/character-submissions", "anon_alice", CreateSubmissionRequest{
		ImageURL:      "https://cdn.example.com/community.png",
		SuggestedName: "Community Hero",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[SubmissionResponse](t, rec)
	assert.Equal(t, "pending", created.Status)

	// Pending submissions are not listed publicly.
	rec = env.do(t, http.MethodGet, "/character-submissions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]SubmissionResponse](t, rec))

	t.Run("moderation requires admin key", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/character-submissions/1", "anon_alice", ModerateSubmissionRequest{Status: "approved"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("approve with admin key", func(t *testing.T) {
		body, _ := json.Marshal(ModerateSubmissionRequest{Status: "approved"})
		req := httptest.NewRequest(http.MethodPatch, "/character-submissions/1", bytes.NewReader(body))
		req.Header.Set(HeaderAdminKey, "admin-secret")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		list := env.do(t, http.MethodGet, "/character-submissions", "", nil)
		require.Equal(t, http.StatusOK, list.Code)
		assert.Len(t, decodeBody[[]SubmissionResponse](t, list), 1)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		body, _ := json.Marshal(ModerateSubmissionRequest{Status: "maybe"})
		req := httptest.NewRequest(http.MethodPatch, "/character-submissions/1", bytes.NewReader(body))
		req.Header.Set(HeaderAdminKey, "admin-secret")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown submission", func(t *testing.T) {
		body, _ := json.Marshal(ModerateSubmissionRequest{Status: "rejected"})
		req := httptest.NewRequest(http.MethodPatch, "/character-submissions/99", bytes.NewReader(body))
		req.Header.Set(HeaderAdminKey, "admin-secret")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestModerationDisabledWithoutAdminKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	svc := generation.NewService(generation.NewMemoryRepository(), &mockProvider{}, store, nil, logger)
	h := NewHandlers(HandlersConfig{
		Generations: svc,
		RefImages:   refimage.NewMemoryRepository(),
		Submissions: submission.NewMemoryRepository(),
		Blobs:       store,
		Limits:      media.DefaultLimits(),
	}, logger)
	handler := NewRouter(h, logger, DefaultConfig())

	body, _ := json.Marshal(ModerateSubmissionRequest{Status: "approved"})
	req := httptest.NewRequest(http.MethodPatch, "/character-submissions/1", bytes.NewReader(body))
	// Even an empty key header must not match an unset admin key.
	req.Header.Set(HeaderAdminKey, "")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFiles_PutAndGet(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPut, "/files/uploads/anon_alice/clip.mp4", strings.NewReader("uploaded-bytes"))
	req.Header.Set("Content-Type", "video/mp4")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/files/uploads/anon_alice/clip.mp4", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uploaded-bytes", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/files/uploads/missing.mp4", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSHeaders(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/generations", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), HeaderAnonymousID)
}
