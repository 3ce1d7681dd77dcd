package services

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"speech-gateway/application/ports/inbound"
	"speech-gateway/application/ports/outbound"
	"speech-gateway/config"
	"speech-gateway/domain"
)

const janitorInterval = time.Minute

// SessionService issues single-use page nonces and short-lived HS256
// session tokens. Nonces live in memory; this is per-process state only.
type SessionService struct {
	sessionConfig *config.SessionConfig
	logger        outbound.LoggerPort

	mu     sync.Mutex
	nonces map[string]time.Time

	now func() time.Time
}

func NewSessionService(sessionConfig *config.SessionConfig, logger outbound.LoggerPort) *SessionService {
	return &SessionService{
		sessionConfig: sessionConfig,
		logger:        logger,
		nonces:        make(map[string]time.Time),
		now:           time.Now,
	}
}

var _ inbound.SessionIssuerPort = (*SessionService)(nil)

func (s *SessionService) IssueNonce() string {
	nonce := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonces[nonce] = s.now().Add(s.sessionConfig.NonceTTL)

	return nonce
}

func (s *SessionService) consumeNonce(nonce string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.nonces[nonce]
	if !ok {
		return false
	}
	delete(s.nonces, nonce)

	return s.now().Before(expiry)
}

func (s *SessionService) IssueToken(nonce string) (string, error) {
	if s.sessionConfig.RequireNonce && !s.consumeNonce(nonce) {
		return "", domain.NewAuthenticationError(domain.CodeInvalidNonce, "Valid session nonce required. Please refresh the page.")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionConfig.TokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.sessionConfig.Secret)
	if err != nil {
		s.logger.Error(err, "Failed to sign session token")
		return "", err
	}

	return token, nil
}

func (s *SessionService) NonceRequired() bool {
	return s.sessionConfig.RequireNonce
}

// Cleanup drops expired nonces and reports how many were removed.
func (s *SessionService) Cleanup() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for nonce, expiry := range s.nonces {
		if !now.Before(expiry) {
			delete(s.nonces, nonce)
			removed++
		}
	}

	return removed
}

// StartJanitor runs the nonce cleanup loop on the shared worker pool for
// the life of the process.
func (s *SessionService) StartJanitor(workerPool outbound.TaskDispatcher) error {
	return workerPool.Submit(func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for range ticker.C {
			if removed := s.Cleanup(); removed > 0 {
				s.logger.DebugWithFields("Expired session nonces removed", map[string]interface{}{
					"count": removed,
				})
			}
		}
	})
}
