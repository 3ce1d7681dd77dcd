package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"speech-gateway/domain"
)

type ErrorBody struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every error path answers with.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func NewErrorResponse(errType domain.ErrorType, code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Type:    string(errType),
		Code:    code,
		Message: message,
	}}
}

// StatusFor maps the domain taxonomy onto HTTP: validation 400, auth 401
// (403 for nonce rejection), upstream 502 (504 on timeout), anything
// untyped 500.
func StatusFor(err error) int {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Type {
	case domain.ValidationError:
		return http.StatusBadRequest
	case domain.AuthenticationError:
		if domainErr.Code == domain.CodeInvalidNonce {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case domain.UpstreamError:
		if domainErr.Code == domain.CodeUpstreamTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case domain.InternalError:
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}

// AbortWithError writes the envelope for err and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			NewErrorResponse(domain.UpstreamError, domain.CodeSynthesisFailed, "TTS synthesis failed"))
		return
	}

	c.AbortWithStatusJSON(StatusFor(domainErr), NewErrorResponse(domainErr.Type, domainErr.Code, domainErr.Message))
}
