package outbound

import (
	"context"

	"speech-gateway/domain"
)

type UsageRecorderPort interface {
	Record(ctx context.Context, record domain.UsageRecord) error
}
