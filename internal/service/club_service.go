package service

import (
	"context"
	"strings"

	"Club_Hub/internal/model"
	"Club_Hub/internal/pkg"
	"Club_Hub/internal/repository/mysql"

	"go.uber.org/zap"
)

type ClubService struct {
	clubs   mysql.ClubStore
	users   mysql.UserStore
	members mysql.MembershipStore
	metrics *pkg.Metrics
	log     *zap.Logger
}

func NewClubService(clubs mysql.ClubStore, users mysql.UserStore, members mysql.MembershipStore, metrics *pkg.Metrics, log *zap.Logger) *ClubService {
	return &ClubService{
		clubs:   clubs,
		users:   users,
		members: members,
		metrics: metrics,
		log:     log,
	}
}

// ClubInput is used for both create and partial update. On update an empty
// field keeps the stored value.
type ClubInput struct {
	Name        string
	Description string
	Category    string
	Banner      string
}

func (in ClubInput) trimmed() ClubInput {
	return ClubInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Banner:      strings.TrimSpace(in.Banner),
	}
}

func (in ClubInput) checkLengths(verr *ValidationError) {
	verr.maxLen("name", in.Name, model.MaxClubNameLen)
	verr.maxBytes("description", in.Description, model.MaxTextBytes)
	verr.maxLen("category", in.Category, model.MaxCategoryLen)
	verr.maxLen("banner", in.Banner, model.MaxBannerLen)
}

func (s *ClubService) Create(ctx context.Context, actor Identity, in ClubInput) (*model.Club, error) {
	in = in.trimmed()

	verr := &ValidationError{}
	if in.Name == "" {
		verr.add("name", "name is required")
	}
	if in.Description == "" {
		verr.add("description", "description is required")
	}
	if in.Category == "" {
		verr.add("category", "category is required")
	}
	in.checkLengths(verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if !actor.Role.CanCreateClubs() {
		return nil, ErrUnauthorized
	}
	if _, err := s.users.FindByID(ctx, actor.UserID); err != nil {
		return nil, storeErr("find owner", err)
	}

	club := &model.Club{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Banner:      in.Banner,
		OwnerID:     actor.UserID,
	}
	if club.Banner == "" {
		club.Banner = model.DefaultBanner
	}
	if err := s.clubs.Create(ctx, club); err != nil {
		return nil, storeErr("create club", err)
	}
	s.log.Info("club created", zap.Uint64("club_id", club.ID), zap.Uint64("owner_id", club.OwnerID))
	return club, nil
}

func (s *ClubService) List(ctx context.Context) ([]model.ClubView, error) {
	clubs, err := s.clubs.List(ctx)
	if err != nil {
		return nil, storeErr("list clubs", err)
	}
	return s.resolve(ctx, clubs)
}

func (s *ClubService) Get(ctx context.Context, id uint64) (*model.ClubView, error) {
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find club", err)
	}
	views, err := s.resolve(ctx, []model.Club{*club})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ClubService) Update(ctx context.Context, actor Identity, id uint64, in ClubInput) (*model.Club, error) {
	in = in.trimmed()
	verr := &ValidationError{}
	in.checkLengths(verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find club", err)
	}
	if err := gate(club, actor); err != nil {
		return nil, err
	}

	if in.Name != "" {
		club.Name = in.Name
	}
	if in.Description != "" {
		club.Description = in.Description
	}
	if in.Category != "" {
		club.Category = in.Category
	}
	if in.Banner != "" {
		club.Banner = in.Banner
	}
	if err := s.clubs.Update(ctx, club); err != nil {
		return nil, storeErr("update club", err)
	}
	return club, nil
}

// Delete removes the club with its events, announcements and memberships.
func (s *ClubService) Delete(ctx context.Context, actor Identity, id uint64) error {
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return storeErr("find club", err)
	}
	if err := gate(club, actor); err != nil {
		return err
	}
	if err := s.clubs.DeleteCascade(ctx, id, actor.UserID); err != nil {
		return storeErr("delete club", err)
	}
	s.log.Info("club deleted", zap.Uint64("club_id", id), zap.Uint64("actor_id", actor.UserID))
	return nil
}

func (s *ClubService) Join(ctx context.Context, actor Identity, clubID uint64) error {
	err := s.membership(ctx, actor, clubID, s.members.Join)
	s.observe("join", err)
	return err
}

func (s *ClubService) Leave(ctx context.Context, actor Identity, clubID uint64) error {
	err := s.membership(ctx, actor, clubID, s.members.Leave)
	s.observe("leave", err)
	return err
}

func (s *ClubService) membership(ctx context.Context, actor Identity, clubID uint64, op func(ctx context.Context, clubID, userID uint64) error) error {
	if !actor.Role.CanJoinClubs() {
		return ErrUnauthorized
	}
	if err := op(ctx, clubID, actor.UserID); err != nil {
		return storeErr("membership", err)
	}
	return nil
}

func (s *ClubService) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.MembershipOps.WithLabelValues(op, ErrorKind(err)).Inc()
	}
	if err != nil && ErrorKind(err) == "store_failure" {
		s.log.Error("membership change failed", zap.String("op", op), zap.Error(err))
	}
}

// resolve expands owner and member references into display form.
func (s *ClubService) resolve(ctx context.Context, clubs []model.Club) ([]model.ClubView, error) {
	ids := make([]uint64, 0, len(clubs))
	ownerIDs := make([]uint64, 0, len(clubs))
	for _, c := range clubs {
		ids = append(ids, c.ID)
		ownerIDs = append(ownerIDs, c.OwnerID)
	}

	owners, err := s.users.Refs(ctx, ownerIDs)
	if err != nil {
		return nil, storeErr("resolve owners", err)
	}
	members, err := s.clubs.Members(ctx, ids)
	if err != nil {
		return nil, storeErr("resolve members", err)
	}

	views := make([]model.ClubView, 0, len(clubs))
	for _, c := range clubs {
		owner, ok := owners[c.OwnerID]
		if !ok {
			owner = model.UserRef{ID: c.OwnerID}
		}
		m := members[c.ID]
		if m == nil {
			m = []model.UserRef{}
		}
		views = append(views, model.ClubView{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Category:    c.Category,
			Banner:      c.Banner,
			Owner:       owner,
			Members:     m,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return views, nil
}
