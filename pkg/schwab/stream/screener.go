package stream

import (
	"encoding/json"
	"fmt"
	"time"
)

type ScreenerItem struct {
	Description      string  `json:"description"`
	LastPrice        float64 `json:"lastPrice"`
	MarketShare      float64 `json:"marketShare"`
	NetChange        float64 `json:"netChange"`
	NetPercentChange float64 `json:"netPercentChange"`
	Symbol           string  `json:"symbol"`
	TotalVolume      int64   `json:"totalVolume"`
	Trades           int64   `json:"trades"`
	Volume           int64   `json:"volume"`
}

// Screener is a ranked mover list (SCREENER_EQUITY, SCREENER_OPTION), keyed like
// "$COMPX_VOLUME_0". Each update carries the full list.
type Screener struct {
	Key       string         `json:"key"`
	Symbol    string         `json:"symbol"`
	Timestamp time.Time      `json:"timestamp"`
	SortField string         `json:"sortField"`
	Frequency int64          `json:"frequency"`
	Items     []ScreenerItem `json:"items"`
}

func (s *Screener) SetKey(key string) {
	s.Key = key
}

func (s *Screener) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 0:
		return setString(&s.Symbol, raw)
	case 1:
		return setTime(&s.Timestamp, raw)
	case 2:
		return setString(&s.SortField, raw)
	case 3:
		return setInt(&s.Frequency, raw)
	case 4:
		var items []ScreenerItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode screener items: %w", err)
		}
		s.Items = items
	}
	return nil
}

type Screeners = Handler[Screener, *Screener]
