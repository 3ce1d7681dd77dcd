package config

import (
	"fmt"
	"os"
	"strconv"
)

// UsageConfig is optional: recording is off unless a table is named.
type UsageConfig struct {
	Enabled    bool
	TableName  string
	TtlMinutes int
}

func GetUsageConfig() (*UsageConfig, error) {
	table := os.Getenv("USAGE_TABLE")

	ttlMinutes := 60 * 24 * 30
	if raw := os.Getenv("USAGE_TTL_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse USAGE_TTL_MINUTES: %w", err)
		}
		ttlMinutes = parsed
	}

	return &UsageConfig{
		Enabled:    table != "",
		TableName:  table,
		TtlMinutes: ttlMinutes,
	}, nil
}
