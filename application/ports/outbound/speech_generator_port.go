package outbound

import (
	"context"

	"speech-gateway/domain"
)

type SpeechGeneratorPort interface {
	Generate(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResult, error)
}
