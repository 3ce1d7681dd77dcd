package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-gateway/config"
	"speech-gateway/domain"
	"speech-gateway/infrastructure/adapters"
)

func newTestSessionService(requireNonce bool) *SessionService {
	return NewSessionService(&config.SessionConfig{
		Secret:       []byte("test-session-secret"),
		RequireNonce: requireNonce,
		TokenTTL:     time.Hour,
		NonceTTL:     5 * time.Minute,
	}, adapters.NewZerologWrapper())
}

func TestSessionService_IssuesVerifiableToken(t *testing.T) {
	service := newTestSessionService(false)

	signed, err := service.IssueToken("")
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) {
		return []byte("test-session-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.True(t, token.Valid)

	expiry, err := token.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.True(t, expiry.After(time.Now()))
}

func TestSessionService_NonceIsSingleUse(t *testing.T) {
	service := newTestSessionService(true)
	nonce := service.IssueNonce()

	_, err := service.IssueToken(nonce)
	require.NoError(t, err)

	_, err = service.IssueToken(nonce)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.AuthenticationError, domainErr.Type)
	assert.Equal(t, domain.CodeInvalidNonce, domainErr.Code)
}

func TestSessionService_MissingNonceRejected(t *testing.T) {
	service := newTestSessionService(true)

	_, err := service.IssueToken("")
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidNonce, domainErr.Code)
}

func TestSessionService_ExpiredNonceRejected(t *testing.T) {
	service := newTestSessionService(true)

	nonce := service.IssueNonce()
	service.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	_, err := service.IssueToken(nonce)
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidNonce, domainErr.Code)
}

func TestSessionService_CleanupDropsExpiredOnly(t *testing.T) {
	service := newTestSessionService(true)

	service.IssueNonce()
	service.IssueNonce()

	assert.Zero(t, service.Cleanup())

	service.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	assert.Equal(t, 2, service.Cleanup())
	assert.Zero(t, service.Cleanup())
}
