package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"speech-gateway/config"
	"speech-gateway/domain"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func fakeSpeakSocket(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error("failed to upgrade fake speak socket:", err)
			return
		}
		defer conn.Close()

		for {
			var control deepgramControlMessage
			if err := conn.ReadJSON(&control); err != nil {
				return
			}

			if control.Type == "Flush" {
				_ = conn.WriteMessage(websocket.BinaryMessage, []byte("chunk-one"))
				_ = conn.WriteMessage(websocket.BinaryMessage, []byte("chunk-two"))
				_ = conn.WriteJSON(deepgramControlMessage{Type: "Flushed"})
			}
		}
	}))
}

func wsConfig(serverURL string) *config.DeepgramConfig {
	return &config.DeepgramConfig{
		WsUrl:        "ws" + strings.TrimPrefix(serverURL, "http"),
		ApiKey:       "test-key",
		DefaultModel: "aura-asteria-en",
		Timeout:      5 * time.Second,
	}
}

func TestStreamDialer_RelaysAudioChunks(t *testing.T) {
	server := fakeSpeakSocket(t)
	t.Cleanup(server.Close)

	dialer := NewDeepgramStreamDialer(wsConfig(server.URL), NewZerologWrapper())

	var chunks []string
	err := dialer.Stream(context.Background(), domain.SpeechRequest{
		Text:  "Hello world",
		Model: "aura-asteria-en",
	}, func(chunk []byte) error {
		chunks = append(chunks, string(chunk))
		return nil
	})
	if err != nil {
		t.Fatal("Failed to stream speech:", err)
	}

	if len(chunks) != 2 || chunks[0] != "chunk-one" || chunks[1] != "chunk-two" {
		t.Fatal("unexpected chunks:", chunks)
	}
}

func TestStreamDialer_RejectedCredential(t *testing.T) {
	server := fakeSpeakSocket(t)
	t.Cleanup(server.Close)

	deepgramConfig := wsConfig(server.URL)
	deepgramConfig.ApiKey = "wrong-key"
	dialer := NewDeepgramStreamDialer(deepgramConfig, NewZerologWrapper())

	err := dialer.Stream(context.Background(), domain.SpeechRequest{Text: "Hello world", Model: "aura-asteria-en"},
		func([]byte) error { return nil })
	assertDomainError(t, err, domain.AuthenticationError, domain.CodeInvalidCredential)
}

func TestStreamDialer_CallerDisconnectAbortsBlockedRead(t *testing.T) {
	silent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error("failed to upgrade fake speak socket:", err)
			return
		}
		defer conn.Close()

		// Swallow control messages and never answer, leaving the
		// dialer blocked in its read loop.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(silent.Close)

	dialer := NewDeepgramStreamDialer(wsConfig(silent.URL), NewZerologWrapper())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() {
		done <- dialer.Stream(ctx, domain.SpeechRequest{Text: "Hello world", Model: "aura-asteria-en"},
			func([]byte) error { return nil })
	}()

	select {
	case err := <-done:
		assertDomainError(t, err, domain.UpstreamError, domain.CodeUpstreamTimeout)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not abort after the caller went away")
	}
}

func TestStreamDialer_MissingCredential(t *testing.T) {
	deepgramConfig := wsConfig("http://127.0.0.1:0")
	deepgramConfig.ApiKey = ""
	dialer := NewDeepgramStreamDialer(deepgramConfig, NewZerologWrapper())

	err := dialer.Stream(context.Background(), domain.SpeechRequest{Text: "Hello world", Model: "aura-asteria-en"},
		func([]byte) error { return nil })
	assertDomainError(t, err, domain.AuthenticationError, domain.CodeInvalidCredential)
}
