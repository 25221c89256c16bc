package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Club_Hub/internal/model"

	"gorm.io/gorm"
)

// MaxOutboxRetry bounds how often a failed record is handed back to the relay.
const MaxOutboxRetry = 5

type OutboxRepository struct {
	DB *gorm.DB
}

// insertOutbox must be called with the transaction that performs the change.
func insertOutbox(tx *gorm.DB, event string, p model.OutboxPayload) error {
	p.EventTime = time.Now().UTC().Format(time.RFC3339Nano)
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return tx.Create(&model.ClubOutbox{
		EventType: event,
		ClubID:    p.ClubID,
		UserID:    p.UserID,
		Payload:   string(payload),
		Status:    model.OutboxPending,
	}).Error
}

// List returns pending records and failed ones that still have retries left.
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.ClubOutbox, error) {
	var list []model.ClubOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, MaxOutboxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate marks the record failed and remembers which sinks already
// took it.
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64, delivered string) error {
	return r.DB.WithContext(ctx).Model(&model.ClubOutbox{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":    model.OutboxFailed,
			"retry":     gorm.Expr("retry + 1"),
			"delivered": delivered,
		}).Error
}

func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ClubOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
