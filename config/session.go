package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"
)

type SessionConfig struct {
	Secret []byte
	// RequireNonce is only on when SESSION_SECRET was set explicitly.
	// A random per-boot secret means dev mode: tokens without nonces.
	RequireNonce bool
	TokenTTL     time.Duration
	NonceTTL     time.Duration
	JwksUrl      string
}

func GetSessionConfig() (*SessionConfig, error) {
	secret := os.Getenv("SESSION_SECRET")
	requireNonce := secret != ""
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
	}

	tokenTTLSeconds := 3600
	if raw := os.Getenv("SESSION_TOKEN_TTL_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SESSION_TOKEN_TTL_SECONDS: %w", err)
		}
		tokenTTLSeconds = parsed
	}

	nonceTTLSeconds := 300
	if raw := os.Getenv("SESSION_NONCE_TTL_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SESSION_NONCE_TTL_SECONDS: %w", err)
		}
		nonceTTLSeconds = parsed
	}

	return &SessionConfig{
		Secret:       []byte(secret),
		RequireNonce: requireNonce,
		TokenTTL:     time.Duration(tokenTTLSeconds) * time.Second,
		NonceTTL:     time.Duration(nonceTTLSeconds) * time.Second,
		JwksUrl:      os.Getenv("JWKS_URL"),
	}, nil
}
