package mysql

import (
	"context"
	"errors"

	"Club_Hub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubRepository struct {
	DB *gorm.DB
}

func (r *ClubRepository) Create(ctx context.Context, c *model.Club) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *ClubRepository) FindByID(ctx context.Context, id uint64) (*model.Club, error) {
	var club model.Club
	if err := r.DB.WithContext(ctx).First(&club, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &club, nil
}

func (r *ClubRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Club, error) {
	out := make(map[uint64]model.Club, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []model.Club
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, c := range list {
		out[c.ID] = c
	}
	return out, nil
}

func (r *ClubRepository) List(ctx context.Context) ([]model.Club, error) {
	list := make([]model.Club, 0)
	err := r.DB.WithContext(ctx).Order("id desc").Find(&list).Error
	return list, err
}

// Update writes the editable columns. Owner and membership are never touched
// here.
func (r *ClubRepository) Update(ctx context.Context, c *model.Club) error {
	tx := r.DB.WithContext(ctx).Model(c).
		Select("name", "description", "category", "banner").
		Updates(c)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		var n int64
		if err := r.DB.WithContext(ctx).Model(&model.Club{}).Where("id = ?", c.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// DeleteCascade removes the club together with its events, announcements
// and memberships in one transaction.
func (r *ClubRepository) DeleteCascade(ctx context.Context, id, actorID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var club model.Club
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&club, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("club_id = ?", id).Delete(&model.Announcement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", id).Delete(&model.ClubMember{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Club{}, id).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.OutboxClubDeleted, model.OutboxPayload{ClubID: id, UserID: actorID})
	})
}

type memberRow struct {
	ClubID uint64
	ID     uint64
	Name   string
}

// Members is the club side of the membership view, keyed by club id. Every
// requested club has an entry, possibly empty.
func (r *ClubRepository) Members(ctx context.Context, clubIDs []uint64) (map[uint64][]model.UserRef, error) {
	out := make(map[uint64][]model.UserRef, len(clubIDs))
	for _, id := range clubIDs {
		out[id] = []model.UserRef{}
	}
	if len(clubIDs) == 0 {
		return out, nil
	}
	var rows []memberRow
	err := r.DB.WithContext(ctx).Table("club_members AS m").
		Select("m.club_id, u.id, u.name").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.club_id IN ?", clubIDs).
		Order("m.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ClubID] = append(out[row.ClubID], model.UserRef{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func (r *ClubRepository) MemberEmails(ctx context.Context, clubID uint64) ([]string, error) {
	var emails []string
	err := r.DB.WithContext(ctx).Table("club_members AS m").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.club_id = ?", clubID).
		Pluck("u.email", &emails).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return emails, err
}
