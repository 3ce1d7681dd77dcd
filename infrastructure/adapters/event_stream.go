package adapters

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/donovanhide/eventsource"

	"speech-gateway/application/ports/outbound"
	"speech-gateway/domain"
)

const synthesisChannel = "synthesis"

type synthesisSourcedEvent struct {
	id   string
	data string
}

func (e *synthesisSourcedEvent) Id() string    { return e.id }
func (e *synthesisSourcedEvent) Event() string { return synthesisChannel }
func (e *synthesisSourcedEvent) Data() string  { return e.data }

type EventStream struct {
	server *eventsource.Server
	logger outbound.LoggerPort
	nextID atomic.Int64
}

// NewEventStream exposes a live feed of synthesis activity for the demo
// page and operators. Delivery is lossy: slow subscribers miss events.
func NewEventStream(logger outbound.LoggerPort) *EventStream {
	server := eventsource.NewServer()
	server.AllowCORS = true

	return &EventStream{
		server: server,
		logger: logger,
	}
}

func (s *EventStream) PublishSynthesis(event domain.SynthesisEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error(err, "Failed to marshal synthesis event")
		return
	}

	s.server.Publish([]string{synthesisChannel}, &synthesisSourcedEvent{
		id:   strconv.FormatInt(s.nextID.Add(1), 10),
		data: string(payload),
	})
}

func (s *EventStream) Handler() http.HandlerFunc {
	return s.server.Handler(synthesisChannel)
}

func (s *EventStream) Close() {
	s.server.Close()
}
