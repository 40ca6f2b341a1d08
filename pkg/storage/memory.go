package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"schwabstream/internal/memorystore"
	"schwabstream/pkg/schwab"
	"schwabstream/pkg/schwab/stream"
)

// MemoryStore implements every sink in process. It backs local runs without
// external services and the collector tests.
type MemoryStore struct {
	mu         sync.Mutex
	candles    []memorystore.Candle
	quotes     map[string][]byte
	activities []stream.Activity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotes: make(map[string][]byte),
	}
}

func (m *MemoryStore) SaveCandle(_ context.Context, c memorystore.Candle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candles = append(m.candles, c)
	return nil
}

// PublishQuote stores the JSON encoding, as the Redis sink does.
func (m *MemoryStore) PublishQuote(_ context.Context, service schwab.Service, key string, quote any) error {
	b, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[string(service)+":"+key] = b
	return nil
}

func (m *MemoryStore) SaveActivity(_ context.Context, _ time.Time, a stream.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities = append(m.activities, a)
	return nil
}

func (m *MemoryStore) GetCandles() []memorystore.Candle {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to avoid race
	cp := make([]memorystore.Candle, len(m.candles))
	copy(cp, m.candles)
	return cp
}

func (m *MemoryStore) GetQuote(service schwab.Service, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.quotes[string(service)+":"+key]
	return b, ok
}

func (m *MemoryStore) GetActivities() []stream.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]stream.Activity, len(m.activities))
	copy(cp, m.activities)
	return cp
}
