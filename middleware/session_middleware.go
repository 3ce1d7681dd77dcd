package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"speech-gateway/application/ports/outbound"
	"speech-gateway/config"
	"speech-gateway/domain"
	"speech-gateway/infrastructure/gin_interface/dto"
)

type AuthHandler interface {
	AuthMiddleware() gin.HandlerFunc
}

type authHandler struct {
	secret []byte
	jwks   *keyfunc.JWKS
}

// NewAuthHandler validates bearer tokens. With JWKS_URL set the tokens are
// checked against the remote key set; otherwise against the HS256 session
// secret the gateway itself issues with.
func NewAuthHandler(sessionConfig *config.SessionConfig, logger outbound.LoggerPort) (AuthHandler, error) {
	handler := &authHandler{secret: sessionConfig.Secret}

	if sessionConfig.JwksUrl != "" {
		options := keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				logger.Error(err, "Failed to refresh the JWKS")
			},
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		}

		jwks, err := keyfunc.Get(sessionConfig.JwksUrl, options)
		if err != nil {
			return nil, err
		}
		handler.jwks = jwks
	}

	return handler, nil
}

func (h *authHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			dto.AbortWithError(c, domain.NewAuthenticationError(domain.CodeMissingToken,
				"Authorization header with Bearer token is required"))
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := h.parse(tokenString)
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				dto.AbortWithError(c, domain.NewAuthenticationError(domain.CodeInvalidToken,
					"Session expired, please refresh the page"))
				return
			}
			dto.AbortWithError(c, domain.NewAuthenticationError(domain.CodeInvalidToken,
				"Invalid session token"))
			return
		}

		c.Next()
	}
}

func (h *authHandler) parse(tokenString string) (*jwt.Token, error) {
	if h.jwks != nil {
		return jwt.Parse(tokenString, h.jwks.Keyfunc)
	}

	return jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return h.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}
