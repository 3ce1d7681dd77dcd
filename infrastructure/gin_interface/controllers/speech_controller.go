package controllers

import (
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"speech-gateway/application/ports/inbound"
	"speech-gateway/application/ports/outbound"
	"speech-gateway/config"
	"speech-gateway/domain"
	"speech-gateway/infrastructure/gin_interface/dto"
	"speech-gateway/middleware"
)

var streamUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type SpeechController interface {
	Synthesize(c *gin.Context)
	StreamSpeech(c *gin.Context)
	RegisterRoutes(g *gin.Engine, auth gin.HandlerFunc)
}

type speechController struct {
	logger         outbound.LoggerPort
	synthesizer    inbound.SpeechSynthesizerPort
	streamer       outbound.SpeechStreamerPort
	deepgramConfig *config.DeepgramConfig
}

func NewSpeechController(logger outbound.LoggerPort, synthesizer inbound.SpeechSynthesizerPort,
	streamer outbound.SpeechStreamerPort, deepgramConfig *config.DeepgramConfig) SpeechController {
	return &speechController{
		logger:         logger,
		synthesizer:    synthesizer,
		streamer:       streamer,
		deepgramConfig: deepgramConfig,
	}
}

func (s *speechController) Synthesize(c *gin.Context) {
	var synthesizeRequest dto.SynthesizeRequest
	if err := c.ShouldBindJSON(&synthesizeRequest); err != nil {
		dto.AbortWithError(c, domain.NewValidationError(domain.CodeInvalidInput, "Invalid request"))
		return
	}

	requestID := uuid.NewString()

	result, err := s.synthesizer.Synthesize(c.Request.Context(), inbound.SynthesizeParams{
		RequestID: requestID,
		Text:      synthesizeRequest.Text,
		Model:     c.DefaultQuery("model", s.deepgramConfig.DefaultModel),
		Encoding:  c.Query("encoding"),
	})
	if err != nil {
		s.countUpstream(err)
		dto.AbortWithError(c, err)
		return
	}

	defer func() {
		if closeErr := result.Audio.Close(); closeErr != nil {
			s.logger.Error(closeErr, "Failed to close the audio stream")
		}
	}()

	c.Header("Content-Type", result.ContentType)
	c.Status(http.StatusOK)
	if _, err = io.Copy(c.Writer, result.Audio); err != nil {
		// Caller went away mid-stream; nothing left to answer.
		s.logger.DebugWithFields("Audio relay interrupted", map[string]interface{}{
			"request_id": requestID,
		})
	}
}

func (s *speechController) StreamSpeech(c *gin.Context) {
	conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error(err, "Failed to upgrade the speak stream connection")
		return
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			s.logger.Error(closeErr, "Failed to close the speak stream connection")
		}
	}()

	for {
		var streamRequest struct {
			Text     string `json:"text"`
			Model    string `json:"model"`
			Encoding string `json:"encoding"`
		}
		if err = conn.ReadJSON(&streamRequest); err != nil {
			return
		}

		if streamRequest.Text == "" {
			s.writeStreamError(conn, domain.NewValidationError(domain.CodeInvalidInput, "Text required"))
			continue
		}
		if utf8.RuneCountInString(streamRequest.Text) > domain.MaxTextLength {
			s.writeStreamError(conn, domain.NewValidationError(domain.CodeTextTooLong, "Text exceeds maximum allowed length"))
			continue
		}

		model := streamRequest.Model
		if model == "" {
			model = s.deepgramConfig.DefaultModel
		}

		err = s.streamer.Stream(c.Request.Context(), domain.SpeechRequest{
			Text:     streamRequest.Text,
			Model:    model,
			Encoding: streamRequest.Encoding,
		}, func(chunk []byte) error {
			return conn.WriteMessage(websocket.BinaryMessage, chunk)
		})
		if err != nil {
			s.countUpstream(err)
			s.writeStreamError(conn, err)
			continue
		}

		if err = conn.WriteJSON(gin.H{"type": "Flushed"}); err != nil {
			return
		}
	}
}

func (s *speechController) writeStreamError(conn *websocket.Conn, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewUpstreamError(domain.CodeSynthesisFailed, "TTS synthesis failed", err)
	}
	if writeErr := conn.WriteJSON(dto.NewErrorResponse(domainErr.Type, domainErr.Code, domainErr.Message)); writeErr != nil {
		s.logger.Error(writeErr, "Failed to write the speak stream error")
	}
}

func (s *speechController) countUpstream(err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Type == domain.UpstreamError {
		middleware.CountUpstreamError(domainErr.Code)
	}
}

func (s *speechController) RegisterRoutes(g *gin.Engine, auth gin.HandlerFunc) {
	g.POST("/api/text-to-speech", auth, s.Synthesize)
	g.GET("/api/text-to-speech/stream", auth, s.StreamSpeech)
}
