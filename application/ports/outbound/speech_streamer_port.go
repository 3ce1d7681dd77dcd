package outbound

import (
	"context"

	"speech-gateway/domain"
)

// SpeechStreamerPort relays the provider's streaming speak protocol.
// onAudio is invoked once per audio chunk; returning an error from it
// aborts the stream.
type SpeechStreamerPort interface {
	Stream(ctx context.Context, req domain.SpeechRequest, onAudio func(chunk []byte) error) error
}
