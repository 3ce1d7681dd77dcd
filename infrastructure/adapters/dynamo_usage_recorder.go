package adapters

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"speech-gateway/application/ports/outbound"
	"speech-gateway/config"
	"speech-gateway/domain"
)

type dynamoUsageItem struct {
	RequestId  string `dynamodbav:"request_id"`
	Model      string `dynamodbav:"model"`
	Characters int    `dynamodbav:"characters"`
	Bytes      int    `dynamodbav:"bytes"`
	DurationMs int64  `dynamodbav:"duration_ms"`
	CreatedAt  int64  `dynamodbav:"created_at"`
	TTL        int64  `dynamodbav:"ttl"`
}

type dynamoUsageRecorder struct {
	logger      outbound.LoggerPort
	dynamoSvc   *dynamodb.DynamoDB
	usageConfig *config.UsageConfig
}

func NewDynamoUsageRecorder(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, usageConfig *config.UsageConfig) outbound.UsageRecorderPort {
	return &dynamoUsageRecorder{
		logger:      logger,
		dynamoSvc:   dynamoSvc,
		usageConfig: usageConfig,
	}
}

func (r *dynamoUsageRecorder) Record(ctx context.Context, record domain.UsageRecord) error {
	now := time.Now()
	item := dynamoUsageItem{
		RequestId:  record.RequestID,
		Model:      record.Model,
		Characters: record.Characters,
		Bytes:      record.Bytes,
		DurationMs: record.DurationMs,
		CreatedAt:  now.Unix(),
		TTL:        now.Add(time.Duration(r.usageConfig.TtlMinutes) * time.Minute).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to marshal usage item", map[string]interface{}{
			"item": item,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(r.usageConfig.TableName),
	}

	_, err = r.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to save usage item", map[string]interface{}{
			"item": item,
		})
		return err
	}

	return nil
}
