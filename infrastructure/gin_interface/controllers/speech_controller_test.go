package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-gateway/application/services"
	"speech-gateway/config"
	"speech-gateway/domain"
	"speech-gateway/infrastructure/adapters"
	"speech-gateway/infrastructure/gin_interface/dto"
)

type stubGenerator struct {
	calls int
	err   error
}

func (s *stubGenerator) Generate(_ context.Context, _ domain.SpeechRequest) (*domain.SpeechResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.SpeechResult{
		Audio:       io.NopCloser(strings.NewReader("fake-mp3-bytes")),
		ContentType: domain.DefaultContentType,
	}, nil
}

type inlineDispatcher struct{}

func (inlineDispatcher) Submit(task func()) error {
	task()
	return nil
}

func newSpeechRouter(t *testing.T, generator *stubGenerator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := adapters.NewZerologWrapper()
	deepgramConfig := &config.DeepgramConfig{
		DefaultModel: "aura-asteria-en",
		Timeout:      5 * time.Second,
	}
	service := services.NewSpeechService(logger, generator, nil, nil, nil, inlineDispatcher{})
	controller := NewSpeechController(logger, service, nil, deepgramConfig)

	router := gin.New()
	controller.RegisterRoutes(router, func(c *gin.Context) { c.Next() })

	return router
}

func postSpeech(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/text-to-speech", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSpeechController_SynthesizeReturnsAudio(t *testing.T) {
	generator := &stubGenerator{}
	router := newSpeechRouter(t, generator)

	rec := postSpeech(router, `{"text": "Hello world"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "fake-mp3-bytes", rec.Body.String())
	assert.Equal(t, 1, generator.calls)
}

func TestSpeechController_EmptyTextMakesNoUpstreamCall(t *testing.T) {
	generator := &stubGenerator{}
	router := newSpeechRouter(t, generator)

	rec := postSpeech(router, `{"text": ""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, generator.calls)

	var envelope dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "ValidationError", envelope.Error.Type)
	assert.Equal(t, "INVALID_INPUT", envelope.Error.Code)
}

func TestSpeechController_MalformedBody(t *testing.T) {
	generator := &stubGenerator{}
	router := newSpeechRouter(t, generator)

	rec := postSpeech(router, `{"text": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, generator.calls)
}

func TestSpeechController_UpstreamFailure(t *testing.T) {
	generator := &stubGenerator{err: domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", nil)}
	router := newSpeechRouter(t, generator)

	rec := postSpeech(router, `{"text": "Hello world"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var envelope dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "UpstreamError", envelope.Error.Type)
	assert.Equal(t, "SYNTHESIS_FAILED", envelope.Error.Code)
	assert.NotContains(t, rec.Body.String(), "fake-mp3-bytes")
}

func TestSpeechController_UpstreamTimeout(t *testing.T) {
	generator := &stubGenerator{err: domain.NewUpstreamError(domain.CodeUpstreamTimeout, "Speech provider timed out", nil)}
	router := newSpeechRouter(t, generator)

	rec := postSpeech(router, `{"text": "Hello world"}`)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestSpeechController_MissingCredential(t *testing.T) {
	generator := &stubGenerator{err: domain.NewAuthenticationError(domain.CodeInvalidCredential, "Provider credential is not configured")}
	router := newSpeechRouter(t, generator)

	rec := postSpeech(router, `{"text": "Hello world"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
