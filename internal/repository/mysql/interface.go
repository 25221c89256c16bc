package mysql

import (
	"context"

	"Club_Hub/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Refs(ctx context.Context, ids []uint64) (map[uint64]model.UserRef, error)
	JoinedClubs(ctx context.Context, userID uint64) ([]model.ClubRef, error)
}

type ClubStore interface {
	Create(ctx context.Context, club *model.Club) error
	FindByID(ctx context.Context, id uint64) (*model.Club, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Club, error)
	List(ctx context.Context) ([]model.Club, error)
	Update(ctx context.Context, club *model.Club) error
	DeleteCascade(ctx context.Context, id, actorID uint64) error
	Members(ctx context.Context, clubIDs []uint64) (map[uint64][]model.UserRef, error)
	MemberEmails(ctx context.Context, clubID uint64) ([]string, error)
}

type MembershipStore interface {
	Join(ctx context.Context, clubID, userID uint64) error
	Leave(ctx context.Context, clubID, userID uint64) error
}

type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uint64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListByClub(ctx context.Context, clubID uint64) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint64) error
}

type AnnouncementStore interface {
	Create(ctx context.Context, a *model.Announcement) error
	FindByID(ctx context.Context, id uint64) (*model.Announcement, error)
	ListByClub(ctx context.Context, clubID uint64) ([]model.Announcement, error)
	Delete(ctx context.Context, id uint64) error
}

type OutboxStore interface {
	List(ctx context.Context, batchSize int) ([]model.ClubOutbox, error)
	RetryUpdate(ctx context.Context, id uint64, delivered string) error
	SuccessUpdate(ctx context.Context, id uint64) error
}

var (
	_ UserStore         = (*UserRepository)(nil)
	_ ClubStore         = (*ClubRepository)(nil)
	_ MembershipStore   = (*MembershipRepository)(nil)
	_ EventStore        = (*EventRepository)(nil)
	_ AnnouncementStore = (*AnnouncementRepository)(nil)
	_ OutboxStore       = (*OutboxRepository)(nil)
)
