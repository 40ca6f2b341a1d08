package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schwabstream/config"
	"schwabstream/pkg/schwab"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// QuotePublisher keeps the latest snapshot of every streamed key in Redis under
// quote:<service>:<key>. Entries expire when the stream goes quiet.
type QuotePublisher struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewQuotePublisher(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*QuotePublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &QuotePublisher{
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With(zap.String("component", "redis_publisher")),
	}, nil
}

// QuoteKey renders the cache key of one record.
func QuoteKey(service schwab.Service, key string) string {
	return fmt.Sprintf("quote:%s:%s", service, key)
}

// PublishQuote stores the JSON encoding of quote with the configured TTL.
func (p *QuotePublisher) PublishQuote(ctx context.Context, service schwab.Service, key string, quote any) error {
	b, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("json marshal failed: %w", err)
	}

	if err := p.client.Set(ctx, QuoteKey(service, key), b, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}

	p.logger.Debug("Published quote", zap.String("service", string(service)), zap.String("key", key))
	return nil
}

// GetQuote reads a published snapshot back into dst.
func (p *QuotePublisher) GetQuote(ctx context.Context, service schwab.Service, key string, dst any) error {
	b, err := p.client.Get(ctx, QuoteKey(service, key)).Bytes()
	if err != nil {
		return fmt.Errorf("redis GET failed: %w", err)
	}
	return json.Unmarshal(b, dst)
}

func (p *QuotePublisher) Close() error {
	return p.client.Close()
}
