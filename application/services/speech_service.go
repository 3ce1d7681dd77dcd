package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"speech-gateway/application/ports/inbound"
	"speech-gateway/application/ports/outbound"
	"speech-gateway/domain"
)

const backgroundTaskTimeout = 30 * time.Second

type speechService struct {
	logger     outbound.LoggerPort
	generator  outbound.SpeechGeneratorPort
	audioCache outbound.AudioCachePort
	usage      outbound.UsageRecorderPort
	events     outbound.EventPublisherPort
	workerPool outbound.TaskDispatcher
}

// NewSpeechService wires the synthesis path. audioCache, usage and events
// may be nil; the service then skips those concerns.
func NewSpeechService(logger outbound.LoggerPort, generator outbound.SpeechGeneratorPort, audioCache outbound.AudioCachePort,
	usage outbound.UsageRecorderPort, events outbound.EventPublisherPort, workerPool outbound.TaskDispatcher) inbound.SpeechSynthesizerPort {
	return &speechService{
		logger:     logger,
		generator:  generator,
		audioCache: audioCache,
		usage:      usage,
		events:     events,
		workerPool: workerPool,
	}
}

func (s *speechService) Synthesize(ctx context.Context, params inbound.SynthesizeParams) (*domain.SpeechResult, error) {
	if strings.TrimSpace(params.Text) == "" {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "Text required")
	}
	// The provider cap is in characters, not bytes.
	if utf8.RuneCountInString(params.Text) > domain.MaxTextLength {
		return nil, domain.NewValidationError(domain.CodeTextTooLong, "Text exceeds maximum allowed length")
	}

	speechReq := domain.SpeechRequest{
		Text:     params.Text,
		Model:    params.Model,
		Encoding: params.Encoding,
	}

	key := cacheKey(speechReq)
	if s.audioCache != nil {
		cached, err := s.audioCache.Get(ctx, key)
		if err != nil {
			s.logger.WarnWithFields("Cache lookup failed, synthesizing instead", map[string]interface{}{
				"request_id": params.RequestID,
			})
		}
		if cached != nil {
			s.publish(params, domain.SynthesisCached, 0)
			return cached, nil
		}
	}

	start := time.Now()
	result, err := s.generator.Generate(ctx, speechReq)
	if err != nil {
		s.publish(params, domain.SynthesisFailed, time.Since(start))
		return nil, err
	}
	elapsed := time.Since(start)

	// Only the cache and usage paths need the full payload in memory; the
	// plain path hands the provider stream straight through.
	if s.audioCache == nil && s.usage == nil {
		s.publish(params, domain.SynthesisSucceeded, elapsed)
		return result, nil
	}

	payload, err := io.ReadAll(result.Audio)
	closeErr := result.Audio.Close()
	if err != nil {
		s.publish(params, domain.SynthesisFailed, elapsed)
		return nil, domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", err)
	}
	if closeErr != nil {
		s.logger.Error(closeErr, "Failed to close the provider response body")
	}

	s.publish(params, domain.SynthesisSucceeded, elapsed)
	s.recordBackground(params, result.ContentType, key, payload, elapsed)

	return &domain.SpeechResult{
		Audio:       io.NopCloser(bytes.NewReader(payload)),
		ContentType: result.ContentType,
	}, nil
}

func (s *speechService) recordBackground(params inbound.SynthesizeParams, contentType, key string, payload []byte, elapsed time.Duration) {
	if s.audioCache != nil {
		cache := s.audioCache
		err := s.workerPool.Submit(func() {
			taskCtx, cancel := context.WithTimeout(context.Background(), backgroundTaskTimeout)
			defer cancel()
			if putErr := cache.Put(taskCtx, key, contentType, payload); putErr != nil {
				s.logger.Error(putErr, "Failed to cache synthesized audio")
			}
		})
		if err != nil {
			s.logger.Error(err, "Failed to submit cache write")
		}
	}

	if s.usage != nil {
		usage := s.usage
		record := domain.UsageRecord{
			RequestID:  params.RequestID,
			Model:      params.Model,
			Characters: utf8.RuneCountInString(params.Text),
			Bytes:      len(payload),
			DurationMs: elapsed.Milliseconds(),
		}
		err := s.workerPool.Submit(func() {
			taskCtx, cancel := context.WithTimeout(context.Background(), backgroundTaskTimeout)
			defer cancel()
			if recordErr := usage.Record(taskCtx, record); recordErr != nil {
				s.logger.Error(recordErr, "Failed to record synthesis usage")
			}
		})
		if err != nil {
			s.logger.Error(err, "Failed to submit usage record")
		}
	}
}

func (s *speechService) publish(params inbound.SynthesizeParams, outcome domain.SynthesisOutcome, elapsed time.Duration) {
	if s.events == nil {
		return
	}
	s.events.PublishSynthesis(domain.SynthesisEvent{
		RequestID:  params.RequestID,
		Model:      params.Model,
		Characters: utf8.RuneCountInString(params.Text),
		Outcome:    outcome,
		DurationMs: elapsed.Milliseconds(),
	})
}

func cacheKey(req domain.SpeechRequest) string {
	digest := sha256.Sum256([]byte(req.Text + "|" + req.Model + "|" + req.Encoding))
	return hex.EncodeToString(digest[:])
}
