package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// CandleRecord represents a completed chart bar stored in the database.
type CandleRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Service string    `gorm:"type:varchar(32);not null;index:idx_candle_service_symbol_start,unique"`
	Symbol  string    `gorm:"type:text;not null;index:idx_candle_symbol;index:idx_candle_service_symbol_start,unique"`
	Start   time.Time `gorm:"not null;index:idx_candle_service_symbol_start,unique"`

	Open  decimal.Decimal `gorm:"type:numeric;not null"`
	High  decimal.Decimal `gorm:"type:numeric;not null"`
	Low   decimal.Decimal `gorm:"type:numeric;not null"`
	Close decimal.Decimal `gorm:"type:numeric;not null"`

	Volume   decimal.Decimal `gorm:"type:numeric;not null"`
	Sequence int64           `gorm:"not null;default:0"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the default table name for GORM.
func (CandleRecord) TableName() string {
	return "candle_record"
}
