package postgres

import (
	"context"
	"time"

	"schwabstream/internal/memorystore"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// UpsertCandle inserts a bar, or refreshes it when the same bar was stored earlier
// (the server re-sends the open bar as it fills).
func (p *PostgresClient) UpsertCandle(ctx context.Context, record *CandleRecord) error {
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "service"},
			{Name: "symbol"},
			{Name: "start"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume", "sequence", "updated_at"}),
	}).Create(record).Error
}

// SaveCandle converts and upserts a candle.
func (p *PostgresClient) SaveCandle(ctx context.Context, c memorystore.Candle) error {
	return p.UpsertCandle(ctx, ToCandleRecord(c))
}

func (p *PostgresClient) GetCandle(ctx context.Context, service, symbol string, start time.Time) (*CandleRecord, error) {
	var candle CandleRecord
	err := p.DB.WithContext(ctx).
		Where("service = ? AND symbol = ? AND start = ?", service, symbol, start).
		First(&candle).Error

	if err != nil {
		return nil, err
	}
	return &candle, nil
}

// ListCandles returns a symbol's bars in [from, to) ordered by start.
func (p *PostgresClient) ListCandles(ctx context.Context, symbol string, from, to time.Time) ([]CandleRecord, error) {
	var candles []CandleRecord
	err := p.DB.WithContext(ctx).
		Where("symbol = ? AND start >= ? AND start < ?", symbol, from, to).
		Order("start").
		Find(&candles).Error
	return candles, err
}

func (p *PostgresClient) DeleteOldCandles(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("start < ?", before).
		Delete(&CandleRecord{}).Error
}

// ToCandleRecord converts an in-memory candle into a CandleRecord for DB insertion.
func ToCandleRecord(c memorystore.Candle) *CandleRecord {
	return &CandleRecord{
		Service:  c.Service,
		Symbol:   c.Symbol,
		Start:    c.Start.UTC(),
		Open:     decimal.NewFromFloat(c.Open),
		High:     decimal.NewFromFloat(c.High),
		Low:      decimal.NewFromFloat(c.Low),
		Close:    decimal.NewFromFloat(c.Close),
		Volume:   decimal.NewFromFloat(c.Volume),
		Sequence: c.Seq,
	}
}
