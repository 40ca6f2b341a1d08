package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"schwabstream/config"
	"schwabstream/pkg/schwab"
	"schwabstream/pkg/schwab/stream"

	"go.uber.org/zap/zaptest"
)

// go test -v --run TestQuoteKey
func TestQuoteKey(t *testing.T) {
	if got := QuoteKey(schwab.ServiceLevelOneFutures, "/ES"); got != "quote:LEVELONE_FUTURES:/ES" {
		t.Errorf("QuoteKey = %q", got)
	}
}

// go test -v --run TestPublishQuote
func TestPublishQuote(t *testing.T) {
	addr := os.Getenv("SCHWABSTREAM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SCHWABSTREAM_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	p, err := NewQuotePublisher(ctx, config.RedisConfig{Addr: addr, TTL: time.Minute}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	quote := stream.LevelOneEquity{Symbol: "AAPL", BidPrice: 190.25, AskPrice: 190.3}
	quote.Key = "AAPL"
	if err := p.PublishQuote(ctx, schwab.ServiceLevelOneEquities, "AAPL", quote); err != nil {
		t.Fatalf("publish: %v", err)
	}

	var got stream.LevelOneEquity
	if err := p.GetQuote(ctx, schwab.ServiceLevelOneEquities, "AAPL", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Key != "AAPL" || got.BidPrice != 190.25 {
		t.Errorf("unexpected quote: %+v", got)
	}
}

// go test -v --run TestPublisherUnreachable
func TestPublisherUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewQuotePublisher(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected ping failure")
	}
}
