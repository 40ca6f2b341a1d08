package stream

import (
	"encoding/json"
	"time"
)

// ChartEquityBar is the minute bar currently being built for an equity (CHART_EQUITY).
// Sequence is assigned by the server and increases by one per bar; a jump means a missed bar.
type ChartEquityBar struct {
	Key       string    `json:"key"`
	Open      float64   `json:"openPrice"`
	High      float64   `json:"highPrice"`
	Low       float64   `json:"lowPrice"`
	Close     float64   `json:"closePrice"`
	Volume    float64   `json:"volume"`
	Sequence  int64     `json:"sequence"`
	ChartTime time.Time `json:"chartTime"`
	ChartDay  int64     `json:"chartDay"`
}

func (c *ChartEquityBar) SetKey(key string) {
	c.Key = key
}

func (c *ChartEquityBar) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 1:
		return setFloat(&c.Open, raw)
	case 2:
		return setFloat(&c.High, raw)
	case 3:
		return setFloat(&c.Low, raw)
	case 4:
		return setFloat(&c.Close, raw)
	case 5:
		return setFloat(&c.Volume, raw)
	case 6:
		return setInt(&c.Sequence, raw)
	case 7:
		return setTime(&c.ChartTime, raw)
	case 8:
		return setInt(&c.ChartDay, raw)
	}
	return nil
}

// ChartFuturesBar is the minute bar for a futures contract (CHART_FUTURES).
type ChartFuturesBar struct {
	Key       string    `json:"key"`
	ChartTime time.Time `json:"chartTime"`
	Open      float64   `json:"openPrice"`
	High      float64   `json:"highPrice"`
	Low       float64   `json:"lowPrice"`
	Close     float64   `json:"closePrice"`
	Volume    float64   `json:"volume"`
}

func (c *ChartFuturesBar) SetKey(key string) {
	c.Key = key
}

func (c *ChartFuturesBar) Merge(field int, raw json.RawMessage) error {
	switch field {
	case 1:
		return setTime(&c.ChartTime, raw)
	case 2:
		return setFloat(&c.Open, raw)
	case 3:
		return setFloat(&c.High, raw)
	case 4:
		return setFloat(&c.Low, raw)
	case 5:
		return setFloat(&c.Close, raw)
	case 6:
		return setFloat(&c.Volume, raw)
	}
	return nil
}

type (
	ChartEquities = Handler[ChartEquityBar, *ChartEquityBar]
	ChartFutures  = Handler[ChartFuturesBar, *ChartFuturesBar]
)
