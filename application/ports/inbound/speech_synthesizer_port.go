package inbound

import (
	"context"

	"speech-gateway/domain"
)

type SynthesizeParams struct {
	RequestID string
	Text      string
	Model     string
	Encoding  string
}

type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, params SynthesizeParams) (*domain.SpeechResult, error)
}
