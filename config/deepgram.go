package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type DeepgramConfig struct {
	ApiUrl       string
	WsUrl        string
	ApiKey       string
	DefaultModel string
	Timeout      time.Duration
}

func GetDeepgramConfig() (*DeepgramConfig, error) {
	apiKey := os.Getenv("DEEPGRAM_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("DEEPGRAM_API_KEY must be set")
	}

	apiUrl := os.Getenv("DEEPGRAM_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.deepgram.com/v1/speak"
	}

	wsUrl := os.Getenv("DEEPGRAM_WS_URL")
	if wsUrl == "" {
		wsUrl = "wss://api.deepgram.com/v1/speak"
	}

	model := os.Getenv("DEEPGRAM_MODEL")
	if model == "" {
		model = "aura-asteria-en"
	}

	timeoutSeconds := 30
	if raw := os.Getenv("DEEPGRAM_TIMEOUT_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DEEPGRAM_TIMEOUT_SECONDS: %w", err)
		}
		timeoutSeconds = parsed
	}

	return &DeepgramConfig{
		ApiUrl:       apiUrl,
		WsUrl:        wsUrl,
		ApiKey:       apiKey,
		DefaultModel: model,
		Timeout:      time.Duration(timeoutSeconds) * time.Second,
	}, nil
}
