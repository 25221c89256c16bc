package mysql

import (
	"context"
	"errors"

	"Club_Hub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository owns the club_members table. A membership row is the
// only stored form of the club/user relation, so a single insert or delete
// changes both club.members and user.joinedClubs at once.
type MembershipRepository struct {
	DB *gorm.DB
}

// Join locks the club row so that concurrent join/leave calls for the same
// club are serialized, then inserts the membership and its outbox record.
func (r *MembershipRepository) Join(ctx context.Context, clubID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockClub(tx, clubID); err != nil {
			return err
		}
		if err := userExists(tx, userID); err != nil {
			return err
		}
		member, err := isMember(tx, clubID, userID)
		if err != nil {
			return err
		}
		if member {
			return ErrAlreadyMember
		}
		if err := tx.Create(&model.ClubMember{ClubID: clubID, UserID: userID}).Error; err != nil {
			// uk_club_user is the last line against a racing insert
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return err
		}
		return insertOutbox(tx, model.OutboxMemberJoined, model.OutboxPayload{ClubID: clubID, UserID: userID})
	})
}

func (r *MembershipRepository) Leave(ctx context.Context, clubID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockClub(tx, clubID); err != nil {
			return err
		}
		if err := userExists(tx, userID); err != nil {
			return err
		}
		res := tx.Where("club_id = ? AND user_id = ?", clubID, userID).Delete(&model.ClubMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotMember
		}
		return insertOutbox(tx, model.OutboxMemberLeft, model.OutboxPayload{ClubID: clubID, UserID: userID})
	})
}

func lockClub(tx *gorm.DB, clubID uint64) error {
	var club model.Club
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&club, clubID).Error
	return notFound(err)
}

// shareClub blocks DeleteCascade on the club until the caller commits.
func shareClub(tx *gorm.DB, clubID uint64) error {
	var club model.Club
	err := tx.Clauses(clause.Locking{Strength: "SHARE"}).Select("id").First(&club, clubID).Error
	return notFound(err)
}

func userExists(tx *gorm.DB, userID uint64) error {
	var user model.User
	return notFound(tx.Select("id").First(&user, userID).Error)
}

func isMember(db *gorm.DB, clubID, userID uint64) (bool, error) {
	var count int64
	err := db.Model(&model.ClubMember{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Count(&count).Error
	return count > 0, err
}
