package storage

import (
	"context"
	"time"

	"schwabstream/internal/memorystore"
	"schwabstream/pkg/schwab"
	"schwabstream/pkg/schwab/stream"
)

// CandleSink persists completed chart bars.
type CandleSink interface {
	SaveCandle(ctx context.Context, c memorystore.Candle) error
}

// QuoteSink publishes the latest snapshot of a keyed record.
type QuoteSink interface {
	PublishQuote(ctx context.Context, service schwab.Service, key string, quote any) error
}

// ActivitySink receives deduplicated account activity.
type ActivitySink interface {
	SaveActivity(ctx context.Context, receivedAt time.Time, a stream.Activity) error
}
