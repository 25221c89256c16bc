package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"Club_Hub/internal/model"
	"Club_Hub/internal/repository/mysql"
	redisrepo "Club_Hub/internal/repository/redis"

	"go.uber.org/zap"
)

// memDB backs every fake store with shared state so membership can be
// checked from both the club and the user side.
type memDB struct {
	mu            sync.Mutex
	nextID        uint64
	users         map[uint64]*model.User
	clubs         map[uint64]*model.Club
	members       map[uint64][]uint64
	events        map[uint64]*model.Event
	announcements map[uint64]*model.Announcement
	outbox        []model.ClubOutbox

	// err, when set, is returned by every store call.
	err error
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[uint64]*model.User{},
		clubs:         map[uint64]*model.Club{},
		members:       map[uint64][]uint64{},
		events:        map[uint64]*model.Event{},
		announcements: map[uint64]*model.Announcement{},
	}
}

func (db *memDB) id() uint64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) addUser(name string, role model.Role) *model.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &model.User{ID: db.id(), Name: name, Email: name + "@campus.edu", Role: role, CreatedAt: time.Now()}
	db.users[u.ID] = u
	return u
}

func (db *memDB) memberOf(clubID uint64) []uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]uint64(nil), db.members[clubID]...)
}

func (db *memDB) outboxTypes() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]string, 0, len(db.outbox))
	for _, ob := range db.outbox {
		out = append(out, ob.EventType)
	}
	return out
}

func (db *memDB) stores() (*fakeUsers, *fakeClubs, *fakeMembers, *fakeEvents, *fakeAnnouncements) {
	return &fakeUsers{db}, &fakeClubs{db}, &fakeMembers{db: db}, &fakeEvents{db}, &fakeAnnouncements{db}
}

type fakeUsers struct{ db *memDB }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	for _, existing := range f.db.users {
		if existing.Email == u.Email {
			return mysql.ErrDuplicateEmail
		}
	}
	u.ID = f.db.id()
	u.CreatedAt = time.Now()
	cp := *u
	f.db.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uint64) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	u, ok := f.db.users[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	for _, u := range f.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mysql.ErrNotFound
}

func (f *fakeUsers) Refs(_ context.Context, ids []uint64) (map[uint64]model.UserRef, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	out := map[uint64]model.UserRef{}
	for _, id := range ids {
		if u, ok := f.db.users[id]; ok {
			out[id] = model.UserRef{ID: u.ID, Name: u.Name}
		}
	}
	return out, nil
}

func (f *fakeUsers) JoinedClubs(_ context.Context, userID uint64) ([]model.ClubRef, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	var out []model.ClubRef
	for clubID, users := range f.db.members {
		for _, u := range users {
			if u == userID {
				out = append(out, model.ClubRef{ID: clubID, Name: f.db.clubs[clubID].Name})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeClubs struct{ db *memDB }

func (f *fakeClubs) Create(_ context.Context, c *model.Club) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	c.ID = f.db.id()
	cp := *c
	f.db.clubs[c.ID] = &cp
	return nil
}

func (f *fakeClubs) FindByID(_ context.Context, id uint64) (*model.Club, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	c, ok := f.db.clubs[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClubs) FindByIDs(_ context.Context, ids []uint64) (map[uint64]model.Club, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	out := map[uint64]model.Club{}
	for _, id := range ids {
		if c, ok := f.db.clubs[id]; ok {
			out[id] = *c
		}
	}
	return out, nil
}

func (f *fakeClubs) List(_ context.Context) ([]model.Club, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	out := make([]model.Club, 0, len(f.db.clubs))
	for _, c := range f.db.clubs {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeClubs) Update(_ context.Context, c *model.Club) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	stored, ok := f.db.clubs[c.ID]
	if !ok {
		return mysql.ErrNotFound
	}
	stored.Name, stored.Description, stored.Category, stored.Banner = c.Name, c.Description, c.Category, c.Banner
	return nil
}

func (f *fakeClubs) DeleteCascade(_ context.Context, id, actorID uint64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	if _, ok := f.db.clubs[id]; !ok {
		return mysql.ErrNotFound
	}
	for eid, e := range f.db.events {
		if e.ClubID == id {
			delete(f.db.events, eid)
		}
	}
	for aid, a := range f.db.announcements {
		if a.ClubID == id {
			delete(f.db.announcements, aid)
		}
	}
	delete(f.db.members, id)
	delete(f.db.clubs, id)
	f.db.outbox = append(f.db.outbox, model.ClubOutbox{EventType: model.OutboxClubDeleted, ClubID: id, UserID: actorID})
	return nil
}

func (f *fakeClubs) Members(_ context.Context, clubIDs []uint64) (map[uint64][]model.UserRef, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	out := map[uint64][]model.UserRef{}
	for _, id := range clubIDs {
		refs := []model.UserRef{}
		for _, uid := range f.db.members[id] {
			refs = append(refs, model.UserRef{ID: uid, Name: f.db.users[uid].Name})
		}
		out[id] = refs
	}
	return out, nil
}

func (f *fakeClubs) MemberEmails(_ context.Context, clubID uint64) ([]string, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	var out []string
	for _, uid := range f.db.members[clubID] {
		out = append(out, f.db.users[uid].Email)
	}
	return out, nil
}

// fakeMembers serializes on the db mutex the way the club row lock does.
type fakeMembers struct {
	db *memDB

	JoinFunc func(ctx context.Context, clubID, userID uint64) error
}

func (f *fakeMembers) Join(ctx context.Context, clubID, userID uint64) error {
	if f.JoinFunc != nil {
		return f.JoinFunc(ctx, clubID, userID)
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	if _, ok := f.db.clubs[clubID]; !ok {
		return mysql.ErrNotFound
	}
	if _, ok := f.db.users[userID]; !ok {
		return mysql.ErrNotFound
	}
	for _, u := range f.db.members[clubID] {
		if u == userID {
			return mysql.ErrAlreadyMember
		}
	}
	f.db.members[clubID] = append(f.db.members[clubID], userID)
	f.db.outbox = append(f.db.outbox, model.ClubOutbox{EventType: model.OutboxMemberJoined, ClubID: clubID, UserID: userID})
	return nil
}

func (f *fakeMembers) Leave(_ context.Context, clubID, userID uint64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	if _, ok := f.db.clubs[clubID]; !ok {
		return mysql.ErrNotFound
	}
	if _, ok := f.db.users[userID]; !ok {
		return mysql.ErrNotFound
	}
	list := f.db.members[clubID]
	for i, u := range list {
		if u == userID {
			f.db.members[clubID] = append(list[:i:i], list[i+1:]...)
			f.db.outbox = append(f.db.outbox, model.ClubOutbox{EventType: model.OutboxMemberLeft, ClubID: clubID, UserID: userID})
			return nil
		}
	}
	return mysql.ErrNotMember
}

type fakeEvents struct{ db *memDB }

func (f *fakeEvents) Create(_ context.Context, e *model.Event) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	e.ID = f.db.id()
	cp := *e
	f.db.events[e.ID] = &cp
	return nil
}

func (f *fakeEvents) FindByID(_ context.Context, id uint64) (*model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	e, ok := f.db.events[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) list(match func(*model.Event) bool) []model.Event {
	out := []model.Event{}
	for _, e := range f.db.events {
		if match(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeEvents) List(_ context.Context) ([]model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	return f.list(func(*model.Event) bool { return true }), nil
}

func (f *fakeEvents) ListByClub(_ context.Context, clubID uint64) ([]model.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	return f.list(func(e *model.Event) bool { return e.ClubID == clubID }), nil
}

func (f *fakeEvents) Update(_ context.Context, e *model.Event) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	if _, ok := f.db.events[e.ID]; !ok {
		return mysql.ErrNotFound
	}
	cp := *e
	f.db.events[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id uint64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	if _, ok := f.db.events[id]; !ok {
		return mysql.ErrNotFound
	}
	delete(f.db.events, id)
	return nil
}

type fakeAnnouncements struct{ db *memDB }

func (f *fakeAnnouncements) Create(_ context.Context, a *model.Announcement) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	a.ID = f.db.id()
	a.CreatedAt = time.Now()
	cp := *a
	f.db.announcements[a.ID] = &cp
	f.db.outbox = append(f.db.outbox, model.ClubOutbox{EventType: model.OutboxAnnouncementPosted, ClubID: a.ClubID, UserID: a.AuthorID})
	return nil
}

func (f *fakeAnnouncements) FindByID(_ context.Context, id uint64) (*model.Announcement, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	a, ok := f.db.announcements[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAnnouncements) ListByClub(_ context.Context, clubID uint64) ([]model.Announcement, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return nil, f.db.err
	}
	out := []model.Announcement{}
	for _, a := range f.db.announcements {
		if a.ClubID == clubID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeAnnouncements) Delete(_ context.Context, id uint64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.err != nil {
		return f.db.err
	}
	if _, ok := f.db.announcements[id]; !ok {
		return mysql.ErrNotFound
	}
	delete(f.db.announcements, id)
	return nil
}

type fakeSessions struct {
	mu       sync.Mutex
	tokens   map[uint64]string
	refresh  map[uint64]string
	SaveFunc func(ctx context.Context, userID uint64, token, refreshID string) error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[uint64]string{}, refresh: map[uint64]string{}}
}

func (f *fakeSessions) Save(ctx context.Context, userID uint64, token, refreshID string) error {
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, userID, token, refreshID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userID] = token
	f.refresh[userID] = refreshID
	return nil
}

func (f *fakeSessions) RefreshID(_ context.Context, userID uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.refresh[userID]
	if !ok {
		return "", redisrepo.ErrTokenNotFound
	}
	return id, nil
}

func (f *fakeSessions) Delete(_ context.Context, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, userID)
	delete(f.refresh, userID)
	return nil
}

func (f *fakeSessions) token(userID uint64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[userID]
}

type fakeOutbox struct {
	ListFunc          func(ctx context.Context, batchSize int) ([]model.ClubOutbox, error)
	RetryUpdateFunc   func(ctx context.Context, id uint64, delivered string) error
	SuccessUpdateFunc func(ctx context.Context, id uint64) error
}

func (f *fakeOutbox) List(ctx context.Context, batchSize int) ([]model.ClubOutbox, error) {
	return f.ListFunc(ctx, batchSize)
}

func (f *fakeOutbox) RetryUpdate(ctx context.Context, id uint64, delivered string) error {
	return f.RetryUpdateFunc(ctx, id, delivered)
}

func (f *fakeOutbox) SuccessUpdate(ctx context.Context, id uint64) error {
	return f.SuccessUpdateFunc(ctx, id)
}

type fakeImages struct {
	PutFunc func(ctx context.Context, prefix string, r io.Reader, size int64) (string, error)
}

func (f *fakeImages) Put(ctx context.Context, prefix string, r io.Reader, size int64) (string, error) {
	return f.PutFunc(ctx, prefix, r, size)
}

type fakeMailer struct {
	to      []string
	subject string
	err     error
}

func (f *fakeMailer) SendBcc(to []string, subject, _ string) error {
	f.to, f.subject = to, subject
	return f.err
}

// fixture wires every service against one memDB.
type fixture struct {
	db            *memDB
	users         *fakeUsers
	clubs         *fakeClubs
	members       *fakeMembers
	events        *fakeEvents
	announcements *fakeAnnouncements

	clubSvc         *ClubService
	eventSvc        *EventService
	announcementSvc *AnnouncementService
}

func newFixture() *fixture {
	db := newMemDB()
	users, clubs, members, events, announcements := db.stores()
	log := zap.NewNop()
	return &fixture{
		db:              db,
		users:           users,
		clubs:           clubs,
		members:         members,
		events:          events,
		announcements:   announcements,
		clubSvc:         NewClubService(clubs, users, members, nil, log),
		eventSvc:        NewEventService(events, clubs, log),
		announcementSvc: NewAnnouncementService(announcements, clubs, users, log),
	}
}

func asIdentity(u *model.User) Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

var (
	_ mysql.UserStore         = (*fakeUsers)(nil)
	_ mysql.ClubStore         = (*fakeClubs)(nil)
	_ mysql.MembershipStore   = (*fakeMembers)(nil)
	_ mysql.EventStore        = (*fakeEvents)(nil)
	_ mysql.AnnouncementStore = (*fakeAnnouncements)(nil)
	_ mysql.OutboxStore       = (*fakeOutbox)(nil)
	_ SessionStore            = (*fakeSessions)(nil)
	_ ImageStore              = (*fakeImages)(nil)
	_ BccMailer               = (*fakeMailer)(nil)
)
