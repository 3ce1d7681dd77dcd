package adapters

import (
	"github.com/BurntSushi/toml"

	"speech-gateway/application/ports/outbound"
)

type MetadataReader interface {
	ReadMeta() (map[string]interface{}, error)
}

type tomlMetadataReader struct {
	path   string
	logger outbound.LoggerPort
}

// NewTomlMetadataReader serves the [meta] table of the provider starter
// manifest (deepgram.toml by default).
func NewTomlMetadataReader(path string, logger outbound.LoggerPort) MetadataReader {
	return &tomlMetadataReader{
		path:   path,
		logger: logger,
	}
}

func (r *tomlMetadataReader) ReadMeta() (map[string]interface{}, error) {
	var manifest struct {
		Meta map[string]interface{} `toml:"meta"`
	}

	if _, err := toml.DecodeFile(r.path, &manifest); err != nil {
		r.logger.ErrorWithFields(err, "Failed to read the metadata manifest", map[string]interface{}{
			"path": r.path,
		})
		return nil, err
	}

	if manifest.Meta == nil {
		return map[string]interface{}{}, nil
	}

	return manifest.Meta, nil
}
