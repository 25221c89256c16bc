package mysql

import (
	"context"

	"Club_Hub/internal/model"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	DB *gorm.DB
}

// Create stores the announcement and queues its notification in one
// transaction, under a shared lock on the club row.
func (r *AnnouncementRepository) Create(ctx context.Context, a *model.Announcement) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := shareClub(tx, a.ClubID); err != nil {
			return err
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.OutboxAnnouncementPosted, model.OutboxPayload{
			ClubID:         a.ClubID,
			UserID:         a.AuthorID,
			AnnouncementID: a.ID,
			Title:          a.Title,
		})
	})
}

func (r *AnnouncementRepository) FindByID(ctx context.Context, id uint64) (*model.Announcement, error) {
	var a model.Announcement
	if err := r.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AnnouncementRepository) ListByClub(ctx context.Context, clubID uint64) ([]model.Announcement, error) {
	list := make([]model.Announcement, 0)
	err := r.DB.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id uint64) error {
	tx := r.DB.WithContext(ctx).Delete(&model.Announcement{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
