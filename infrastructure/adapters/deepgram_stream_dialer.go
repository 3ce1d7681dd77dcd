package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"speech-gateway/application/ports/outbound"
	"speech-gateway/config"
	"speech-gateway/domain"
)

type deepgramControlMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type streamDialer struct {
	deepgramConfig *config.DeepgramConfig
	logger         outbound.LoggerPort
}

// NewDeepgramStreamDialer relays one utterance at a time over the
// provider's streaming speak socket.
func NewDeepgramStreamDialer(deepgramConfig *config.DeepgramConfig, logger outbound.LoggerPort) outbound.SpeechStreamerPort {
	return &streamDialer{
		deepgramConfig: deepgramConfig,
		logger:         logger,
	}
}

func (d *streamDialer) Stream(ctx context.Context, req domain.SpeechRequest, onAudio func(chunk []byte) error) error {
	if d.deepgramConfig.ApiKey == "" {
		return domain.NewAuthenticationError(domain.CodeInvalidCredential, "Provider credential is not configured")
	}

	query := url.Values{}
	query.Set("model", req.Model)
	if req.Encoding != "" {
		query.Set("encoding", req.Encoding)
	}

	header := http.Header{}
	header.Set("Authorization", "Token "+d.deepgramConfig.ApiKey)

	conn, res, err := websocket.DefaultDialer.DialContext(ctx, d.deepgramConfig.WsUrl+"?"+query.Encode(), header)
	if err != nil {
		if res != nil && (res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden) {
			return domain.NewAuthenticationError(domain.CodeInvalidCredential, "Speech provider rejected the credential")
		}
		d.logger.ErrorWithFields(err, "Failed to dial the provider speak socket", map[string]interface{}{
			"URL": d.deepgramConfig.WsUrl,
		})
		return domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			d.logger.Error(closeErr, "Failed to close the provider speak socket")
		}
	}()

	// A blocked read only returns once the socket dies, so caller
	// disconnect has to close it out from under the read loop.
	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-watcherDone:
		}
	}()

	if err = conn.WriteJSON(deepgramControlMessage{Type: "Speak", Text: req.Text}); err != nil {
		return domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", err)
	}
	if err = conn.WriteJSON(deepgramControlMessage{Type: "Flush"}); err != nil {
		return domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", err)
	}

	for {
		messageType, payload, readErr := conn.ReadMessage()
		if readErr != nil {
			if ctx.Err() != nil {
				return domain.NewUpstreamError(domain.CodeUpstreamTimeout, "Speech provider timed out", ctx.Err())
			}
			return domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", readErr)
		}

		if messageType == websocket.BinaryMessage {
			if err = onAudio(payload); err != nil {
				return err
			}
			continue
		}

		var control deepgramControlMessage
		if err = json.Unmarshal(payload, &control); err != nil {
			continue
		}
		if control.Type == "Flushed" {
			return nil
		}
	}
}
