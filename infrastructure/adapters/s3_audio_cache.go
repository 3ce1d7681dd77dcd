package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"

	"speech-gateway/application/ports/outbound"
	"speech-gateway/config"
	"speech-gateway/domain"
)

type s3AudioCache struct {
	s3Svc       *s3.S3
	cacheConfig *config.AudioCacheConfig
	logger      outbound.LoggerPort
}

func NewS3AudioCache(s3Svc *s3.S3, cacheConfig *config.AudioCacheConfig, logger outbound.LoggerPort) outbound.AudioCachePort {
	return &s3AudioCache{
		s3Svc:       s3Svc,
		cacheConfig: cacheConfig,
		logger:      logger,
	}
}

func (c *s3AudioCache) Get(ctx context.Context, key string) (*domain.SpeechResult, error) {
	output, err := c.s3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cacheConfig.Bucket),
		Key:    aws.String(c.objectKey(key)),
	})
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) && awsErr.Code() == s3.ErrCodeNoSuchKey {
			return nil, nil
		}
		c.logger.ErrorWithFields(err, "Failed to read cached audio", map[string]interface{}{
			"bucket": c.cacheConfig.Bucket,
			"key":    key,
		})
		return nil, err
	}

	contentType := domain.DefaultContentType
	if output.ContentType != nil && *output.ContentType != "" {
		contentType = *output.ContentType
	}

	return &domain.SpeechResult{
		Audio:       output.Body,
		ContentType: contentType,
	}, nil
}

func (c *s3AudioCache) Put(ctx context.Context, key string, contentType string, payload []byte) error {
	_, err := c.s3Svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cacheConfig.Bucket),
		Key:         aws.String(c.objectKey(key)),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to write cached audio", map[string]interface{}{
			"bucket": c.cacheConfig.Bucket,
			"key":    key,
			"bytes":  len(payload),
		})
		return err
	}

	return nil
}

func (c *s3AudioCache) objectKey(key string) string {
	return fmt.Sprintf("%s/%s.audio", c.cacheConfig.Prefix, key)
}
