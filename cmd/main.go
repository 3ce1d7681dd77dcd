package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"speech-gateway/application/ports/outbound"
	"speech-gateway/application/services"
	"speech-gateway/config"
	"speech-gateway/infrastructure/adapters"
	"speech-gateway/infrastructure/gin_interface/controllers"
	"speech-gateway/middleware"
)

func main() {
	// Real environment wins over .env, matching the starter's load_dotenv.
	_ = godotenv.Load()

	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	deepgramConfig, err := config.GetDeepgramConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get deepgram config")
	}

	sessionConfig, err := config.GetSessionConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get session config")
	}

	audioCacheConfig := config.GetAudioCacheConfig()

	usageConfig, err := config.GetUsageConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get usage config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(serverConfig.WorkerPoolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	var audioCache outbound.AudioCachePort
	var usageRecorder outbound.UsageRecorderPort
	if audioCacheConfig.Enabled || usageConfig.Enabled {
		sess := session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}))
		if audioCacheConfig.Enabled {
			audioCache = adapters.NewS3AudioCache(s3.New(sess), audioCacheConfig, zeroLogger)
		}
		if usageConfig.Enabled {
			usageRecorder = adapters.NewDynamoUsageRecorder(zeroLogger, dynamodb.New(sess), usageConfig)
		}
	}

	eventStream := adapters.NewEventStream(zeroLogger)
	defer eventStream.Close()

	contentFetcher := adapters.NewContentFetcher(zeroLogger, deepgramConfig.Timeout)
	speechGenerator := adapters.NewSpeechGenerator(contentFetcher, deepgramConfig, zeroLogger)
	streamDialer := adapters.NewDeepgramStreamDialer(deepgramConfig, zeroLogger)
	metadataReader := adapters.NewTomlMetadataReader(serverConfig.MetadataFile, zeroLogger)

	speechService := services.NewSpeechService(zeroLogger, speechGenerator, audioCache, usageRecorder, eventStream, workerPool)

	sessionService := services.NewSessionService(sessionConfig, zeroLogger)
	if err = sessionService.StartJanitor(workerPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to start nonce janitor")
	}

	speechController := controllers.NewSpeechController(zeroLogger, speechService, streamDialer, deepgramConfig)
	sessionController := controllers.NewSessionController(zeroLogger, sessionService)
	metadataController := controllers.NewMetadataController(zeroLogger, metadataReader)
	pagesController := controllers.NewPagesController(zeroLogger, sessionService, serverConfig.FrontendDir)

	router := gin.Default()

	if err = router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	authHandler, err := middleware.NewAuthHandler(sessionConfig, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}

	speechController.RegisterRoutes(router, authHandler.AuthMiddleware())
	sessionController.RegisterRoutes(router)
	metadataController.RegisterRoutes(router)
	pagesController.RegisterRoutes(router)

	router.GET("/api/events", gin.WrapF(eventStream.Handler()))
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	zeroLogger.InfoWithFields("Speech gateway listening", map[string]interface{}{
		"addr":           serverConfig.Addr(),
		"nonce_required": sessionService.NonceRequired(),
	})

	if err = router.Run(serverConfig.Addr()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
