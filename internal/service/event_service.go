package service

import (
	"context"
	"strings"
	"time"

	"Club_Hub/internal/model"
	"Club_Hub/internal/repository/mysql"

	"go.uber.org/zap"
)

type EventService struct {
	events mysql.EventStore
	clubs  mysql.ClubStore
	log    *zap.Logger
}

func NewEventService(events mysql.EventStore, clubs mysql.ClubStore, log *zap.Logger) *EventService {
	return &EventService{events: events, clubs: clubs, log: log}
}

type EventInput struct {
	ClubID      uint64
	Title       string
	Description string
	Date        string
	Time        string
	Venue       string
	Banner      string
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and keeps only
// the date part.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func checkEventLengths(verr *ValidationError, title, desc, clock, venue, banner string) {
	verr.maxLen("title", title, model.MaxTitleLen)
	verr.maxBytes("description", desc, model.MaxTextBytes)
	verr.maxLen("time", clock, model.MaxTimeLen)
	verr.maxLen("venue", venue, model.MaxVenueLen)
	verr.maxLen("banner", banner, model.MaxBannerLen)
}

func (s *EventService) Create(ctx context.Context, actor Identity, in EventInput) (*model.Event, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	clock := strings.TrimSpace(in.Time)
	venue := strings.TrimSpace(in.Venue)
	banner := strings.TrimSpace(in.Banner)

	verr := &ValidationError{}
	if in.ClubID == 0 {
		verr.add("club_id", "club_id is required")
	}
	if title == "" {
		verr.add("title", "title is required")
	}
	if desc == "" {
		verr.add("description", "description is required")
	}
	date, ok := parseDate(strings.TrimSpace(in.Date))
	if !ok {
		verr.add("date", "date must be YYYY-MM-DD")
	}
	if clock == "" {
		verr.add("time", "time is required")
	}
	if venue == "" {
		verr.add("venue", "venue is required")
	}
	checkEventLengths(verr, title, desc, clock, venue, banner)
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

	event := &model.Event{
		ClubID:      club.ID,
		Title:       title,
		Description: desc,
		Date:        date,
		Time:        clock,
		Venue:       venue,
		Banner:      banner,
	}
	if event.Banner == "" {
		event.Banner = model.DefaultBanner
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, storeErr("create event", err)
	}
	s.log.Info("event created", zap.Uint64("event_id", event.ID), zap.Uint64("club_id", event.ClubID))
	return event, nil
}

func (s *EventService) List(ctx context.Context) ([]model.EventView, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	return s.resolve(ctx, events)
}

func (s *EventService) ListByClub(ctx context.Context, clubID uint64) ([]model.EventView, error) {
	events, err := s.events.ListByClub(ctx, clubID)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	return s.resolve(ctx, events)
}

func (s *EventService) Get(ctx context.Context, id uint64) (*model.EventView, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find event", err)
	}
	views, err := s.resolve(ctx, []model.Event{*event})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update applies the non-empty fields of in. The club is taken from the
// stored event; in.ClubID is ignored.
func (s *EventService) Update(ctx context.Context, actor Identity, id uint64, in EventInput) (*model.Event, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	clock := strings.TrimSpace(in.Time)
	venue := strings.TrimSpace(in.Venue)
	banner := strings.TrimSpace(in.Banner)

	verr := &ValidationError{}
	var date time.Time
	if d := strings.TrimSpace(in.Date); d != "" {
		var ok bool
		if date, ok = parseDate(d); !ok {
			verr.add("date", "date must be YYYY-MM-DD")
		}
	}
	checkEventLengths(verr, title, desc, clock, venue, banner)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	event, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		event.Title = title
	}
	if desc != "" {
		event.Description = desc
	}
	if !date.IsZero() {
		event.Date = date
	}
	if clock != "" {
		event.Time = clock
	}
	if venue != "" {
		event.Venue = venue
	}
	if banner != "" {
		event.Banner = banner
	}
	if err := s.events.Update(ctx, event); err != nil {
		return nil, storeErr("update event", err)
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, actor Identity, id uint64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return storeErr("delete event", err)
	}
	return nil
}

// owned loads the event and its club and gates on the club owner.
func (s *EventService) owned(ctx context.Context, actor Identity, id uint64) (*model.Event, error) {
	return ownedEvent(ctx, s.events, s.clubs, actor, id)
}

func ownedEvent(ctx context.Context, events mysql.EventStore, clubs mysql.ClubStore, actor Identity, id uint64) (*model.Event, error) {
	event, err := events.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find event", err)
	}
	club, err := clubs.FindByID(ctx, event.ClubID)
	if err != nil {
		return nil, storeErr("find club", err)
	}
	if err := gate(club, actor); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) resolve(ctx context.Context, events []model.Event) ([]model.EventView, error) {
	ids := make([]uint64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ClubID)
	}
	clubs, err := s.clubs.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("resolve clubs", err)
	}

	views := make([]model.EventView, 0, len(events))
	for _, e := range events {
		club := clubs[e.ClubID]
		views = append(views, model.EventView{
			ID:          e.ID,
			Club:        model.ClubRef{ID: e.ClubID, Name: club.Name},
			OwnerID:     club.OwnerID,
			Title:       e.Title,
			Description: e.Description,
			Date:        e.Date.Format(model.DateLayout),
			Time:        e.Time,
			Venue:       e.Venue,
			Banner:      e.Banner,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		})
	}
	return views, nil
}
