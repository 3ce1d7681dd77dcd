package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"speech-gateway/application/ports/inbound"
	"speech-gateway/application/ports/outbound"
	"speech-gateway/domain"
	"speech-gateway/infrastructure/gin_interface/dto"
)

type PagesController interface {
	Index(c *gin.Context)
	Health(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type pagesController struct {
	logger   outbound.LoggerPort
	issuer   inbound.SessionIssuerPort
	template string
}

// NewPagesController serves the demo page. The built frontend is read once
// at startup, like the starter does; absence means dev mode and a 404.
func NewPagesController(logger outbound.LoggerPort, issuer inbound.SessionIssuerPort, frontendDir string) PagesController {
	template := ""
	payload, err := os.ReadFile(filepath.Join(frontendDir, "index.html"))
	if err == nil {
		template = string(payload)
	} else if !os.IsNotExist(err) {
		logger.Error(err, "Failed to read the frontend template")
	}

	return &pagesController{
		logger:   logger,
		issuer:   issuer,
		template: template,
	}
}

func (p *pagesController) Index(c *gin.Context) {
	if p.template == "" {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(domain.InternalError, domain.CodeFrontendNotBuilt,
			"Frontend not built. Run make build first."))
		return
	}

	nonce := p.issuer.IssueNonce()
	html := strings.Replace(p.template, "</head>",
		`<meta name="session-nonce" content="`+nonce+`">`+"\n</head>", 1)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (p *pagesController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (p *pagesController) RegisterRoutes(g *gin.Engine) {
	g.GET("/", p.Index)
	g.GET("/health", p.Health)
}
