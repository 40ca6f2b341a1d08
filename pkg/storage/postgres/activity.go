package postgres

import (
	"context"
	"time"

	"schwabstream/pkg/schwab/stream"
)

// ActivityRecord is one account activity message as received.
type ActivityRecord struct {
	ID uint `gorm:"primaryKey"`

	Account    string    `gorm:"type:varchar(32);not null;index:idx_activity_account_received"`
	Type       string    `gorm:"type:varchar(64);not null"`
	Kind       string    `gorm:"type:varchar(16);not null"`
	OrderID    string    `gorm:"type:varchar(32);index:idx_activity_order"`
	Payload    string    `gorm:"type:text;not null"`
	ReceivedAt time.Time `gorm:"not null;index:idx_activity_account_received"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (ActivityRecord) TableName() string {
	return "account_activity"
}

func (p *PostgresClient) InsertActivity(ctx context.Context, record *ActivityRecord) error {
	return p.DB.WithContext(ctx).Create(record).Error
}

// SaveActivity converts and inserts an activity.
func (p *PostgresClient) SaveActivity(ctx context.Context, receivedAt time.Time, a stream.Activity) error {
	return p.InsertActivity(ctx, ToActivityRecord(receivedAt, a))
}

// ListActivities returns the newest activities of an account first.
func (p *PostgresClient) ListActivities(ctx context.Context, account string, limit int) ([]ActivityRecord, error) {
	var records []ActivityRecord
	err := p.DB.WithContext(ctx).
		Where("account = ?", account).
		Order("received_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func ToActivityRecord(receivedAt time.Time, a stream.Activity) *ActivityRecord {
	record := &ActivityRecord{
		Account:    a.Account,
		Type:       a.Type,
		Kind:       stream.ActivityUnknown.String(),
		Payload:    a.Raw,
		ReceivedAt: receivedAt.UTC(),
	}
	if a.Payload != nil {
		record.Kind = a.Payload.Kind().String()
	}
	switch ev := a.Payload.(type) {
	case stream.OrderEvent:
		record.OrderID = ev.SchwabOrderID
	case stream.FillEvent:
		record.OrderID = ev.SchwabOrderID
	}
	return record
}
