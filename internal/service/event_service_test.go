package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"Club_Hub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent(clubID uint64) EventInput {
	return EventInput{
		ClubID:      clubID,
		Title:       "Open day",
		Description: "Meet the team",
		Date:        "2026-09-14",
		Time:        "10:00",
		Venue:       "Main hall",
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("owner creates event", func(t *testing.T) {
		f := newFixture()
		owner := f.db.addUser("alice", model.RoleAdmin)
		club := newClub(t, f, owner)

		event, err := f.eventSvc.Create(ctx, asIdentity(owner), validEvent(club.ID))
		require.NoError(t, err)
		assert.Equal(t, club.ID, event.ClubID)
		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), event.Date)
		assert.Equal(t, model.DefaultBanner, event.Banner)
	})

	t.Run("accepts RFC3339 dates", func(t *testing.T) {
		f := newFixture()
		owner := f.db.addUser("alice", model.RoleAdmin)
		club := newClub(t, f, owner)

		in := validEvent(club.ID)
		in.Date = "2026-09-14T15:04:05Z"
		event, err := f.eventSvc.Create(ctx, asIdentity(owner), in)
		require.NoError(t, err)
		assert.Equal(t, "2026-09-14", event.Date.Format(model.DateLayout))
	})

	t.Run("unknown club writes nothing", func(t *testing.T) {
		f := newFixture()
		owner := f.db.addUser("alice", model.RoleAdmin)

		_, err := f.eventSvc.Create(ctx, asIdentity(owner), validEvent(999))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, f.db.events)
	})

	t.Run("non-owner", func(t *testing.T) {
		f := newFixture()
		owner := f.db.addUser("alice", model.RoleAdmin)
		other := f.db.addUser("bob", model.RoleAdmin)
		club := newClub(t, f, owner)

		_, err := f.eventSvc.Create(ctx, asIdentity(other), validEvent(club.ID))
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Empty(t, f.db.events)
	})

	t.Run("values longer than their columns", func(t *testing.T) {
		f := newFixture()
		owner := f.db.addUser("alice", model.RoleAdmin)
		club := newClub(t, f, owner)

		in := validEvent(club.ID)
		in.Title = strings.Repeat("t", model.MaxTitleLen+1)
		in.Time = strings.Repeat("9", model.MaxTimeLen+1)
		in.Venue = strings.Repeat("v", model.MaxVenueLen+1)
		in.Description = strings.Repeat("d", model.MaxTextBytes+1)
		_, err := f.eventSvc.Create(ctx, asIdentity(owner), in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{
			"title":       "title must be at most 200 characters",
			"time":        "time must be at most 32 characters",
			"venue":       "venue must be at most 200 characters",
			"description": "description is too long",
		}, verr.FieldErrors)
		assert.Empty(t, f.db.events)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture()
		owner := f.db.addUser("alice", model.RoleAdmin)

		_, err := f.eventSvc.Create(ctx, asIdentity(owner), EventInput{Date: "14/09/2026"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		for _, field := range []string{"club_id", "title", "description", "date", "time", "venue"} {
			assert.Contains(t, verr.FieldErrors, field)
		}
	})
}

func TestEventService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := f.db.addUser("alice", model.RoleAdmin)
	other := f.db.addUser("bob", model.RoleAdmin)
	club := newClub(t, f, owner)
	otherClub := newClub(t, f, other)

	event, err := f.eventSvc.Create(ctx, asIdentity(owner), validEvent(club.ID))
	require.NoError(t, err)

	t.Run("club comes from the stored event", func(t *testing.T) {
		in := EventInput{ClubID: otherClub.ID, Title: "Taken over"}
		_, err := f.eventSvc.Update(ctx, asIdentity(other), event.ID, in)
		assert.ErrorIs(t, err, ErrUnauthorized)

		updated, err := f.eventSvc.Update(ctx, asIdentity(owner), event.ID, in)
		require.NoError(t, err)
		assert.Equal(t, club.ID, updated.ClubID)
		assert.Equal(t, "Taken over", updated.Title)
		assert.Equal(t, event.Venue, updated.Venue)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := f.eventSvc.Update(ctx, asIdentity(owner), event.ID, EventInput{Date: "tomorrow"})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("over-long time", func(t *testing.T) {
		_, err := f.eventSvc.Update(ctx, asIdentity(owner), event.ID, EventInput{Time: strings.Repeat("1", model.MaxTimeLen+1)})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{"time": "time must be at most 32 characters"}, verr.FieldErrors)

		stored, err := f.events.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.Time, stored.Time)
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := f.eventSvc.Update(ctx, asIdentity(owner), 4242, EventInput{Title: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, f.eventSvc.Delete(ctx, asIdentity(owner), 4242), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, f.eventSvc.Delete(ctx, asIdentity(other), event.ID), ErrUnauthorized)
		require.NoError(t, f.eventSvc.Delete(ctx, asIdentity(owner), event.ID))
		_, err := f.eventSvc.Get(ctx, event.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEventService_Views(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := f.db.addUser("alice", model.RoleAdmin)
	club := newClub(t, f, owner)
	other := newClub(t, f, owner)

	e1, err := f.eventSvc.Create(ctx, asIdentity(owner), validEvent(club.ID))
	require.NoError(t, err)
	_, err = f.eventSvc.Create(ctx, asIdentity(owner), validEvent(other.ID))
	require.NoError(t, err)

	view, err := f.eventSvc.Get(ctx, e1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ClubRef{ID: club.ID, Name: club.Name}, view.Club)
	assert.Equal(t, owner.ID, view.OwnerID)
	assert.Equal(t, "2026-09-14", view.Date)

	all, err := f.eventSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byClub, err := f.eventSvc.ListByClub(ctx, club.ID)
	require.NoError(t, err)
	require.Len(t, byClub, 1)
	assert.Equal(t, e1.ID, byClub[0].ID)

	none, err := f.eventSvc.ListByClub(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}
