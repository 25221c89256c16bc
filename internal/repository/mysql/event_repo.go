package mysql

import (
	"context"

	"Club_Hub/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

// Create holds a shared lock on the club row so a concurrent DeleteCascade
// cannot leave the event behind without its club.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := shareClub(tx, e.ClubID); err != nil {
			return err
		}
		return tx.Create(e).Error
	})
}

func (r *EventRepository) FindByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	if err := r.DB.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	list := make([]model.Event, 0)
	err := r.DB.WithContext(ctx).Order("date ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *EventRepository) ListByClub(ctx context.Context, clubID uint64) ([]model.Event, error) {
	list := make([]model.Event, 0)
	err := r.DB.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("date ASC, id ASC").
		Find(&list).Error
	return list, err
}

// Update never rewrites club_id.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	tx := r.DB.WithContext(ctx).Model(e).
		Select("title", "description", "date", "time", "venue", "banner").
		Updates(e)
	return tx.Error
}

func (r *EventRepository) Delete(ctx context.Context, id uint64) error {
	tx := r.DB.WithContext(ctx).Delete(&model.Event{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
