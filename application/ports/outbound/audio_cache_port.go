package outbound

import (
	"context"

	"speech-gateway/domain"
)

// AudioCachePort stores synthesized payloads keyed by a content digest.
// Get returns (nil, nil) on a miss.
type AudioCachePort interface {
	Get(ctx context.Context, key string) (*domain.SpeechResult, error)
	Put(ctx context.Context, key string, contentType string, payload []byte) error
}
