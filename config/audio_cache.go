package config

import "os"

// AudioCacheConfig is optional: the cache is off unless a bucket is named.
type AudioCacheConfig struct {
	Enabled bool
	Bucket  string
	Prefix  string
}

func GetAudioCacheConfig() *AudioCacheConfig {
	bucket := os.Getenv("AUDIO_CACHE_BUCKET")
	prefix := os.Getenv("AUDIO_CACHE_PREFIX")
	if prefix == "" {
		prefix = "speech"
	}

	return &AudioCacheConfig{
		Enabled: bucket != "",
		Bucket:  bucket,
		Prefix:  prefix,
	}
}
