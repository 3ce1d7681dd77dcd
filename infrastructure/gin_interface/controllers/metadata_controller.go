package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"speech-gateway/application/ports/outbound"
	"speech-gateway/domain"
	"speech-gateway/infrastructure/adapters"
	"speech-gateway/infrastructure/gin_interface/dto"
)

type MetadataController interface {
	GetMetadata(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type metadataController struct {
	logger outbound.LoggerPort
	reader adapters.MetadataReader
}

func NewMetadataController(logger outbound.LoggerPort, reader adapters.MetadataReader) MetadataController {
	return &metadataController{
		logger: logger,
		reader: reader,
	}
}

func (m *metadataController) GetMetadata(c *gin.Context) {
	meta, err := m.reader.ReadMeta()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(domain.InternalError, domain.CodeMetadataFailed,
			"Metadata read failed"))
		return
	}

	c.JSON(http.StatusOK, meta)
}

func (m *metadataController) RegisterRoutes(g *gin.Engine) {
	g.GET("/api/metadata", m.GetMetadata)
}
