package config

import (
	"fmt"
	"os"
	"strconv"
)

type ServerConfig struct {
	Host           string
	Port           int
	WorkerPoolSize int
	FrontendDir    string
	MetadataFile   string
}

func GetServerConfig() (*ServerConfig, error) {
	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	port := 8080
	if raw := os.Getenv("PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PORT: %w", err)
		}
		port = parsed
	}

	poolSize := 64
	if raw := os.Getenv("WORKER_POOL_SIZE"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse WORKER_POOL_SIZE: %w", err)
		}
		poolSize = parsed
	}

	frontendDir := os.Getenv("FRONTEND_DIR")
	if frontendDir == "" {
		frontendDir = "frontend/dist"
	}

	metadataFile := os.Getenv("METADATA_FILE")
	if metadataFile == "" {
		metadataFile = "deepgram.toml"
	}

	return &ServerConfig{
		Host:           host,
		Port:           port,
		WorkerPoolSize: poolSize,
		FrontendDir:    frontendDir,
		MetadataFile:   metadataFile,
	}, nil
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
