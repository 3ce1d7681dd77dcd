package outbound

import "speech-gateway/domain"

// EventPublisherPort fans synthesis activity out to live subscribers.
// Publishing is best-effort and must never block the request path.
type EventPublisherPort interface {
	PublishSynthesis(event domain.SynthesisEvent)
}
