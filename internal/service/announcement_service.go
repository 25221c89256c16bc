package service

import (
	"context"
	"strings"

	"Club_Hub/internal/model"
	"Club_Hub/internal/repository/mysql"

	"go.uber.org/zap"
)

type AnnouncementService struct {
	announcements mysql.AnnouncementStore
	clubs         mysql.ClubStore
	users         mysql.UserStore
	log           *zap.Logger
}

func NewAnnouncementService(announcements mysql.AnnouncementStore, clubs mysql.ClubStore, users mysql.UserStore, log *zap.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		clubs:         clubs,
		users:         users,
		log:           log,
	}
}

type AnnouncementInput struct {
	ClubID  uint64
	Title   string
	Content string
}

// Create posts an announcement authored by the caller, who must own the club.
func (s *AnnouncementService) Create(ctx context.Context, actor Identity, in AnnouncementInput) (*model.Announcement, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	verr := &ValidationError{}
	if in.ClubID == 0 {
		verr.add("club_id", "club_id is required")
	}
	if title == "" {
		verr.add("title", "title is required")
	}
	if content == "" {
		verr.add("content", "content is required")
	}
	verr.maxLen("title", title, model.MaxTitleLen)
	verr.maxBytes("content", content, model.MaxTextBytes)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	club, err := s.clubs.FindByID(ctx, in.ClubID)
	if err != nil {
		return nil, storeErr("find club", err)
	}
	if err := gate(club, actor); err != nil {
		return nil, err
	}

	a := &model.Announcement{
		ClubID:   club.ID,
		Title:    title,
		Content:  content,
		AuthorID: actor.UserID,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, storeErr("create announcement", err)
	}
	s.log.Info("announcement posted", zap.Uint64("announcement_id", a.ID), zap.Uint64("club_id", a.ClubID))
	return a, nil
}

func (s *AnnouncementService) ListByClub(ctx context.Context, clubID uint64) ([]model.AnnouncementView, error) {
	list, err := s.announcements.ListByClub(ctx, clubID)
	if err != nil {
		return nil, storeErr("list announcements", err)
	}

	authorIDs := make([]uint64, 0, len(list))
	for _, a := range list {
		authorIDs = append(authorIDs, a.AuthorID)
	}
	authors, err := s.users.Refs(ctx, authorIDs)
	if err != nil {
		return nil, storeErr("resolve authors", err)
	}

	views := make([]model.AnnouncementView, 0, len(list))
	for _, a := range list {
		author, ok := authors[a.AuthorID]
		if !ok {
			author = model.UserRef{ID: a.AuthorID}
		}
		views = append(views, model.AnnouncementView{
			ID:        a.ID,
			ClubID:    a.ClubID,
			Title:     a.Title,
			Content:   a.Content,
			Author:    author,
			CreatedAt: a.CreatedAt,
		})
	}
	return views, nil
}

// Delete gates on the club stored with the announcement.
func (s *AnnouncementService) Delete(ctx context.Context, actor Identity, id uint64) error {
	a, err := s.announcements.FindByID(ctx, id)
	if err != nil {
		return storeErr("find announcement", err)
	}
	club, err := s.clubs.FindByID(ctx, a.ClubID)
	if err != nil {
		return storeErr("find club", err)
	}
	if err := gate(club, actor); err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, id); err != nil {
		return storeErr("delete announcement", err)
	}
	return nil
}
