package mysql

import (
	"context"
	"errors"

	"Club_Hub/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.DB.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Refs resolves user ids to their display names. Unknown ids are absent from
// the result.
func (r *UserRepository) Refs(ctx context.Context, ids []uint64) (map[uint64]model.UserRef, error) {
	out := make(map[uint64]model.UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.UserRef
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// JoinedClubs is the user side of the membership view.
func (r *UserRepository) JoinedClubs(ctx context.Context, userID uint64) ([]model.ClubRef, error) {
	list := make([]model.ClubRef, 0)
	err := r.DB.WithContext(ctx).Table("club_members AS m").
		Select("c.id, c.name").
		Joins("JOIN clubs c ON c.id = m.club_id").
		Where("m.user_id = ?", userID).
		Order("m.id ASC").
		Scan(&list).Error
	return list, err
}
