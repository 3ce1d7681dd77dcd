package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"speech-gateway/application/ports/outbound"
	"speech-gateway/config"
	"speech-gateway/domain"
)

type DeepgramSpeakRequest struct {
	Text string `json:"text"`
}

type speechGenerator struct {
	ContentFetcher
	deepgramConfig *config.DeepgramConfig
	logger         outbound.LoggerPort
}

func NewSpeechGenerator(contentFetcher ContentFetcher, deepgramConfig *config.DeepgramConfig, logger outbound.LoggerPort) outbound.SpeechGeneratorPort {
	return &speechGenerator{
		ContentFetcher: contentFetcher,
		deepgramConfig: deepgramConfig,
		logger:         logger,
	}
}

func (g *speechGenerator) Generate(ctx context.Context, speechReq domain.SpeechRequest) (*domain.SpeechResult, error) {
	if g.deepgramConfig.ApiKey == "" {
		return nil, domain.NewAuthenticationError(domain.CodeInvalidCredential, "Provider credential is not configured")
	}

	req, err := g.getRequest(ctx, speechReq)
	if err != nil {
		g.logger.ErrorWithFields(err, "Failed to construct the HTTP request for speech synthesis", map[string]interface{}{
			"model": speechReq.Model,
		})
		return nil, err
	}

	res, err := g.FetchStream(req)
	if err != nil {
		return nil, classifyProviderError(err)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = domain.DefaultContentType
	}

	return &domain.SpeechResult{
		Audio:       res.Body,
		ContentType: contentType,
	}, nil
}

func (g *speechGenerator) getRequest(ctx context.Context, speechReq domain.SpeechRequest) (*http.Request, error) {
	jsonPayload, err := json.Marshal(DeepgramSpeakRequest{Text: speechReq.Text})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("model", speechReq.Model)
	if speechReq.Encoding != "" {
		query.Set("encoding", speechReq.Encoding)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.deepgramConfig.ApiUrl+"?"+query.Encode(), bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Token "+g.deepgramConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", domain.DefaultContentType)

	return req, nil
}

// classifyProviderError folds transport and status failures into the
// gateway's error taxonomy. A 400 whose body mentions length limits is the
// provider's text-too-long rejection and surfaces as a validation failure.
func classifyProviderError(err error) error {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return domain.NewUpstreamError(domain.CodeUpstreamTimeout, "Speech provider timed out", err)
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.NewAuthenticationError(domain.CodeInvalidCredential, "Speech provider rejected the credential")
		case http.StatusBadRequest:
			if mentionsLengthLimit(statusErr.Body) {
				return domain.NewValidationError(domain.CodeTextTooLong, "Text exceeds maximum allowed length")
			}
		}
		return domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", err)
	}

	return domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", err)
}

func mentionsLengthLimit(body string) bool {
	lowered := strings.ToLower(body)
	for _, keyword := range []string{"too long", "length", "limit", "exceed"} {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
