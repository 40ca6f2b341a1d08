package stream

import (
	"encoding/json"
	"fmt"
	"time"
)

// MarketMakerQuote is one participant's size at a price level.
type MarketMakerQuote struct {
	ID        string    `json:"marketMakerId"`
	Size      int64     `json:"size"`
	QuoteTime time.Time `json:"quoteTime"`
}

// BookLevel is one aggregated price level.
type BookLevel struct {
	Price            float64            `json:"price"`
	TotalSize        int64              `json:"aggregateSize"`
	MarketMakerCount int64              `json:"marketMakerCount"`
	MarketMakers     []MarketMakerQuote `json:"marketMakers"`
}

// Book is a Level-2 order book (NYSE_BOOK, NASDAQ_BOOK). The exchange always
// sends complete sides, so every update replaces the previous book.
type Book struct {
	Key      string      `json:"key"`
	Symbol   string      `json:"symbol"`
	BookTime time.Time   `json:"bookTime"`
	Bids     []BookLevel `json:"bids"`
	Asks     []BookLevel `json:"asks"`
}

// Levels and market makers are themselves keyed by field identifiers.
type wireBookLevel struct {
	Price        float64           `json:"0"`
	TotalSize    int64             `json:"1"`
	Count        int64             `json:"2"`
	MarketMakers []wireMarketMaker `json:"3"`
}

type wireMarketMaker struct {
	ID        string `json:"0"`
	Size      int64  `json:"1"`
	QuoteTime int64  `json:"2"`
}

func (b *Book) SetKey(key string) {
	b.Key = key
}

func (b *Book) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 0:
		return setString(&b.Symbol, raw)
	case 1:
		return setTime(&b.BookTime, raw)
	case 2:
		return decodeBookSide(&b.Bids, raw)
	case 3:
		return decodeBookSide(&b.Asks, raw)
	}
	return nil
}

func decodeBookSide(dst *[]BookLevel, raw json.RawMessage) error {
	var wire []wireBookLevel
	if err := json.Unmarshal(raw, &wire); err != nil {
		return fmt.Errorf("decode book side: %w", err)
	}

	levels := make([]BookLevel, 0, len(wire))
	for _, w := range wire {
		lvl := BookLevel{
			Price:            w.Price,
			TotalSize:        w.TotalSize,
			MarketMakerCount: w.Count,
			MarketMakers:     make([]MarketMakerQuote, 0, len(w.MarketMakers)),
		}
		for _, mm := range w.MarketMakers {
			lvl.MarketMakers = append(lvl.MarketMakers, MarketMakerQuote{
				ID:        mm.ID,
				Size:      mm.Size,
				QuoteTime: time.UnixMilli(mm.QuoteTime).UTC(),
			})
		}
		levels = append(levels, lvl)
	}
	*dst = levels
	return nil
}

type Books = Handler[Book, *Book]
