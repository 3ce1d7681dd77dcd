package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"speech-gateway/application/ports/inbound"
	"speech-gateway/application/ports/outbound"
	"speech-gateway/infrastructure/gin_interface/dto"
)

type SessionController interface {
	GetSession(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type sessionController struct {
	logger outbound.LoggerPort
	issuer inbound.SessionIssuerPort
}

func NewSessionController(logger outbound.LoggerPort, issuer inbound.SessionIssuerPort) SessionController {
	return &sessionController{
		logger: logger,
		issuer: issuer,
	}
}

func (s *sessionController) GetSession(c *gin.Context) {
	token, err := s.issuer.IssueToken(c.GetHeader("X-Session-Nonce"))
	if err != nil {
		dto.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionResponse{Token: token})
}

func (s *sessionController) RegisterRoutes(g *gin.Engine) {
	g.GET("/api/session", s.GetSession)
}
