package config

import (
	"testing"
	"time"
)

func TestGetDeepgramConfig_RequiresApiKey(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "")

	if _, err := GetDeepgramConfig(); err == nil {
		t.Fatal("expected an error when DEEPGRAM_API_KEY is unset")
	}
}

func TestGetDeepgramConfig_Defaults(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "test-key")

	deepgramConfig, err := GetDeepgramConfig()
	if err != nil {
		t.Fatal("Failed to get deepgram config:", err)
	}

	if deepgramConfig.ApiUrl != "https://api.deepgram.com/v1/speak" {
		t.Fatal("unexpected api url:", deepgramConfig.ApiUrl)
	}
	if deepgramConfig.DefaultModel != "aura-asteria-en" {
		t.Fatal("unexpected default model:", deepgramConfig.DefaultModel)
	}
	if deepgramConfig.Timeout != 30*time.Second {
		t.Fatal("unexpected timeout:", deepgramConfig.Timeout)
	}
}

func TestGetDeepgramConfig_BadTimeout(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "test-key")
	t.Setenv("DEEPGRAM_TIMEOUT_SECONDS", "soon")

	if _, err := GetDeepgramConfig(); err == nil {
		t.Fatal("expected an error for an unparseable timeout")
	}
}

func TestGetSessionConfig_GeneratedSecretDisablesNonce(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	sessionConfig, err := GetSessionConfig()
	if err != nil {
		t.Fatal("Failed to get session config:", err)
	}

	if sessionConfig.RequireNonce {
		t.Fatal("nonce must not be required without an explicit secret")
	}
	if len(sessionConfig.Secret) == 0 {
		t.Fatal("expected a generated secret")
	}
}

func TestGetSessionConfig_ExplicitSecretEnablesNonce(t *testing.T) {
	t.Setenv("SESSION_SECRET", "configured-secret")

	sessionConfig, err := GetSessionConfig()
	if err != nil {
		t.Fatal("Failed to get session config:", err)
	}

	if !sessionConfig.RequireNonce {
		t.Fatal("nonce must be required with an explicit secret")
	}
	if string(sessionConfig.Secret) != "configured-secret" {
		t.Fatal("unexpected secret")
	}
}

func TestGetServerConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HOST", "")

	serverConfig, err := GetServerConfig()
	if err != nil {
		t.Fatal("Failed to get server config:", err)
	}

	if serverConfig.Addr() != "0.0.0.0:8080" {
		t.Fatal("unexpected addr:", serverConfig.Addr())
	}
}

func TestGetAudioCacheConfig_DisabledWithoutBucket(t *testing.T) {
	t.Setenv("AUDIO_CACHE_BUCKET", "")

	if GetAudioCacheConfig().Enabled {
		t.Fatal("cache must be disabled without a bucket")
	}
}

func TestGetUsageConfig_DisabledWithoutTable(t *testing.T) {
	t.Setenv("USAGE_TABLE", "")

	usageConfig, err := GetUsageConfig()
	if err != nil {
		t.Fatal("Failed to get usage config:", err)
	}
	if usageConfig.Enabled {
		t.Fatal("usage recording must be disabled without a table")
	}
}
