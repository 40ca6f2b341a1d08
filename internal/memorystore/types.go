package memorystore

import "time"

// Candle is one completed chart bar received from a CHART_* stream.
type Candle struct {
	Service string    `json:"service"`  // e.g., "CHART_EQUITY"
	Symbol  string    `json:"symbol"`   // e.g., "AAPL" or "/ES"
	Start   time.Time `json:"start"`    // Start of the bar
	Open    float64   `json:"open"`     // Opening price
	High    float64   `json:"high"`     // Highest price during the interval
	Low     float64   `json:"low"`      // Lowest price during the interval
	Close   float64   `json:"close"`    // Closing price
	Volume  float64   `json:"volume"`   // Shares or contracts traded
	Seq     int64     `json:"sequence"` // Server sequence, 0 when the service has none
}
