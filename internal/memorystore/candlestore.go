package memorystore

import (
	"sync"
	"time"
)

// CandleStore keeps completed candles per symbol in arrival order.
type CandleStore struct {
	globalMu sync.RWMutex
	data     map[string]*symbolCandleStore
}

type symbolCandleStore struct {
	mu      sync.Mutex
	candles []Candle
}

func NewCandleStore() *CandleStore {
	return &CandleStore{
		data: make(map[string]*symbolCandleStore),
	}
}

// Add appends a candle, or replaces the last one when it covers the same bar.
func (s *CandleStore) Add(c Candle) {
	// Fast path: lock per-symbol store only
	s.globalMu.RLock()
	store, ok := s.data[c.Symbol]
	s.globalMu.RUnlock()

	if !ok {
		s.globalMu.Lock()
		if store, ok = s.data[c.Symbol]; !ok {
			store = &symbolCandleStore{}
			s.data[c.Symbol] = store
		}
		s.globalMu.Unlock()
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if n := len(store.candles); n > 0 && store.candles[n-1].Start.Equal(c.Start) {
		store.candles[n-1] = c
		return
	}
	store.candles = append(store.candles, c)
}

func (s *CandleStore) GetBySymbol(symbol string) []Candle {
	s.globalMu.RLock()
	store, ok := s.data[symbol]
	s.globalMu.RUnlock()
	if !ok {
		return nil
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	cp := make([]Candle, len(store.candles))
	copy(cp, store.candles)
	return cp
}

// Prune drops candles that started before the cutoff.
func (s *CandleStore) Prune(before time.Time) int {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	dropped := 0
	for _, store := range s.data {
		store.mu.Lock()
		i := 0
		for i < len(store.candles) && store.candles[i].Start.Before(before) {
			i++
		}
		store.candles = store.candles[i:]
		dropped += i
		store.mu.Unlock()
	}
	return dropped
}

// CountAll returns the total number of candles stored across all symbols.
func (s *CandleStore) CountAll() int {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	total := 0
	for _, store := range s.data {
		store.mu.Lock()
		total += len(store.candles)
		store.mu.Unlock()
	}
	return total
}
