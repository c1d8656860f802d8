package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "today-scheduler/core/errors"
	authEntity "today-scheduler/modules/auth/entity"
	"today-scheduler/modules/event/dto"
	"today-scheduler/modules/event/entity"
	"today-scheduler/modules/event/repository"
	scheduleEntity "today-scheduler/modules/schedule/entity"
)

type fakeEventRepo struct {
	mu        sync.Mutex
	events    map[string]*entity.Event
	updateErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*entity.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.Version = 1
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	stored := *event
	r.events[event.ID] = &stored
	return event, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.events[event.ID]
	if !ok || stored.Version != event.Version {
		return repository.ErrVersionConflict
	}
	event.Version++
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) ListByParticipant(_ context.Context, tid string) ([]entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Event
	for _, e := range r.events {
		if e.Participants.Contains(tid) {
			result = append(result, *e)
		}
	}
	return result, nil
}

type fakeDirectory struct {
	byID  map[uuid.UUID]*authEntity.User
	byTid map[string]*authEntity.User
}

func newFakeDirectory(users ...*authEntity.User) *fakeDirectory {
	d := &fakeDirectory{
		byID:  make(map[uuid.UUID]*authEntity.User),
		byTid: make(map[string]*authEntity.User),
	}
	for _, u := range users {
		d.byID[u.ID] = u
		d.byTid[u.Tid] = u
	}
	return d
}

func (d *fakeDirectory) GetByID(_ context.Context, id uuid.UUID) (*authEntity.User, error) {
	return d.byID[id], nil
}

func (d *fakeDirectory) GetByTid(_ context.Context, tid string) (*authEntity.User, error) {
	return d.byTid[tid], nil
}

func (d *fakeDirectory) ValidAccessToken(_ context.Context, user *authEntity.User) (string, *apperrors.AppError) {
	return "token-" + user.Tid, nil
}

type fakeGateway struct {
	mu    sync.Mutex
	busy  map[string][]scheduleEntity.BusyInterval
	err   error
	calls int
}

func (g *fakeGateway) FetchBusyIntervals(_ context.Context, _, calendarID string, _, _ time.Time) ([]scheduleEntity.BusyInterval, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.busy[calendarID], nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type publishRecord struct {
	eventID string
	slots   []scheduleEntity.FreeSlot
}

type fakeSink struct {
	mu        sync.Mutex
	published []publishRecord
}

func (s *fakeSink) Publish(eventID string, slots []scheduleEntity.FreeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, publishRecord{eventID: eventID, slots: slots})
}

func (s *fakeSink) records() []publishRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]publishRecord(nil), s.published...)
}

func testUser(tid string) *authEntity.User {
	u := &authEntity.User{
		Tid:   tid,
		Email: tid + "@example.com",
	}
	u.ID = uuid.New()
	return u
}

type fixture struct {
	svc     EventServiceInterface
	repo    *fakeEventRepo
	gateway *fakeGateway
	sink    *fakeSink
	creator *authEntity.User
}

func newFixture(t *testing.T, users ...*authEntity.User) *fixture {
	t.Helper()
	creator := testUser("creator")
	repo := newFakeEventRepo()
	gateway := &fakeGateway{busy: make(map[string][]scheduleEntity.BusyInterval)}
	sink := &fakeSink{}
	directory := newFakeDirectory(append([]*authEntity.User{creator}, users...)...)
	svc := NewEventService(repo, directory, gateway, sink, nil)
	return &fixture{svc: svc, repo: repo, gateway: gateway, sink: sink, creator: creator}
}

func (f *fixture) mustCreate(t *testing.T, description string) *dto.CreateEventResponse {
	t.Helper()
	resp, appErr := f.svc.CreateEvent(context.Background(), f.creator.ID, &dto.CreateEventRequest{Description: description})
	if appErr != nil {
		t.Fatalf("CreateEvent failed: %v", appErr)
	}
	return resp
}

func TestCreateEvent(t *testing.T) {
	alice := testUser("alice")
	f := newFixture(t, alice)

	resp := f.mustCreate(t, "Planning sync @alice and @bob tomorrow")

	if resp.Event.Status != string(entity.EventStatusProposed) {
		t.Errorf("status = %s, want proposed", resp.Event.Status)
	}
	if len(resp.Event.Participants) != 2 || resp.Event.Participants[0] != "alice" || resp.Event.Participants[1] != "bob" {
		t.Errorf("participants = %v, want [alice bob]", resp.Event.Participants)
	}
	if len(resp.Event.Accepted) != 0 {
		t.Errorf("accepted = %v, want empty", resp.Event.Accepted)
	}

	want := []dto.ParticipantStatus{
		{Tid: "alice", Registered: true},
		{Tid: "bob", Registered: false},
	}
	if len(resp.Participants) != len(want) {
		t.Fatalf("participant statuses = %v, want %v", resp.Participants, want)
	}
	for i, w := range want {
		if resp.Participants[i] != w {
			t.Errorf("participant[%d] = %v, want %v", i, resp.Participants[i], w)
		}
	}

	stored, _ := f.repo.GetByID(context.Background(), resp.Event.ID)
	if stored == nil {
		t.Fatal("event was not persisted")
	}
	if stored.Slug == "" {
		t.Error("expected non-empty slug")
	}
}

func TestCreateEventNoMentions(t *testing.T) {
	f := newFixture(t)

	_, appErr := f.svc.CreateEvent(context.Background(), f.creator.ID, &dto.CreateEventRequest{Description: "Lunch tomorrow at noon"})
	if appErr == nil || appErr.Code != apperrors.ErrNoParticipantsFound {
		t.Fatalf("expected NO_PARTICIPANTS_FOUND, got %v", appErr)
	}
}

func TestCreateEventUnknownCreator(t *testing.T) {
	f := newFixture(t)

	_, appErr := f.svc.CreateEvent(context.Background(), uuid.New(), &dto.CreateEventRequest{Description: "Sync @alice"})
	if appErr == nil || appErr.Code != apperrors.ErrCreatorNotFound {
		t.Fatalf("expected CREATOR_NOT_FOUND, got %v", appErr)
	}
}

func TestAccept(t *testing.T) {
	alice := testUser("alice")
	f := newFixture(t, alice)
	f.gateway.busy[f.creator.Email] = []scheduleEntity.BusyInterval{{Start: 600, End: 660}}
	f.gateway.busy[alice.Email] = []scheduleEntity.BusyInterval{{Start: 840, End: 900}}

	created := f.mustCreate(t, "Design review @alice @bob")

	resp, appErr := f.svc.Accept(context.Background(), created.Event.ID, "alice")
	if appErr != nil {
		t.Fatalf("Accept failed: %v", appErr)
	}

	if resp.Event.Status != string(entity.EventStatusPartiallyAccepted) {
		t.Errorf("status = %s, want partially_accepted", resp.Event.Status)
	}
	if len(resp.Event.Accepted) != 1 || resp.Event.Accepted[0] != "alice" {
		t.Errorf("accepted = %v, want [alice]", resp.Event.Accepted)
	}

	wantSlots := []dto.SlotView{
		{Start: "09:00", End: "10:00", StartMinute: 540, EndMinute: 600},
		{Start: "11:00", End: "14:00", StartMinute: 660, EndMinute: 840},
		{Start: "15:00", End: "18:00", StartMinute: 900, EndMinute: 1080},
	}
	if len(resp.FreeSlots) != len(wantSlots) {
		t.Fatalf("free slots = %v, want %v", resp.FreeSlots, wantSlots)
	}
	for i, w := range wantSlots {
		if resp.FreeSlots[i] != w {
			t.Errorf("slot[%d] = %v, want %v", i, resp.FreeSlots[i], w)
		}
	}

	if got := f.gateway.callCount(); got != 2 {
		t.Errorf("gateway calls = %d, want 2", got)
	}

	records := f.sink.records()
	if len(records) != 1 {
		t.Fatalf("published %d notifications, want 1", len(records))
	}
	if records[0].eventID != created.Event.ID {
		t.Errorf("published event id = %s, want %s", records[0].eventID, created.Event.ID)
	}
	if len(records[0].slots) != 3 {
		t.Errorf("published %d slots, want 3", len(records[0].slots))
	}
}

func TestAcceptIdempotent(t *testing.T) {
	alice := testUser("alice")
	f := newFixture(t, alice)
	created := f.mustCreate(t, "Retro @alice @bob")

	first, appErr := f.svc.Accept(context.Background(), created.Event.ID, "alice")
	if appErr != nil {
		t.Fatalf("first Accept failed: %v", appErr)
	}
	second, appErr := f.svc.Accept(context.Background(), created.Event.ID, "alice")
	if appErr != nil {
		t.Fatalf("second Accept failed: %v", appErr)
	}

	if second.Event.Status != first.Event.Status {
		t.Errorf("status changed on re-accept: %s -> %s", first.Event.Status, second.Event.Status)
	}
	if len(second.Event.Accepted) != 1 {
		t.Errorf("accepted = %v, want exactly [alice]", second.Event.Accepted)
	}

	// Re-accepting still does the full calendar round trip and re-notifies
	if got := f.gateway.callCount(); got != 4 {
		t.Errorf("gateway calls = %d, want 4", got)
	}
	if got := len(f.sink.records()); got != 2 {
		t.Errorf("published %d notifications, want 2", got)
	}
}

func TestAcceptConfirmsWhenAllAccept(t *testing.T) {
	alice := testUser("alice")
	bob := testUser("bob")
	f := newFixture(t, alice, bob)
	created := f.mustCreate(t, "Kickoff @alice @bob")

	if _, appErr := f.svc.Accept(context.Background(), created.Event.ID, "alice"); appErr != nil {
		t.Fatalf("alice Accept failed: %v", appErr)
	}
	resp, appErr := f.svc.Accept(context.Background(), created.Event.ID, "bob")
	if appErr != nil {
		t.Fatalf("bob Accept failed: %v", appErr)
	}

	if resp.Event.Status != string(entity.EventStatusConfirmed) {
		t.Errorf("status = %s, want confirmed", resp.Event.Status)
	}
}

func TestAcceptNotInvited(t *testing.T) {
	mallory := testUser("mallory")
	f := newFixture(t, mallory)
	created := f.mustCreate(t, "1:1 @alice")

	_, appErr := f.svc.Accept(context.Background(), created.Event.ID, "mallory")
	if appErr == nil || appErr.Code != apperrors.ErrParticipantNotInvited {
		t.Fatalf("expected PARTICIPANT_NOT_INVITED, got %v", appErr)
	}
	if got := f.gateway.callCount(); got != 0 {
		t.Errorf("gateway calls = %d, want 0", got)
	}
	if got := len(f.sink.records()); got != 0 {
		t.Errorf("published %d notifications, want 0", got)
	}
}

func TestAcceptUnknownEvent(t *testing.T) {
	alice := testUser("alice")
	f := newFixture(t, alice)

	_, appErr := f.svc.Accept(context.Background(), "missing1", "alice")
	if appErr == nil || appErr.Code != apperrors.ErrEventNotFound {
		t.Fatalf("expected EVENT_NOT_FOUND, got %v", appErr)
	}
}

func TestAcceptUnregisteredParticipant(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, "Sync @ghost")

	_, appErr := f.svc.Accept(context.Background(), created.Event.ID, "ghost")
	if appErr == nil || appErr.Code != apperrors.ErrParticipantNotFound {
		t.Fatalf("expected PARTICIPANT_NOT_FOUND, got %v", appErr)
	}
}

func TestAcceptCalendarUnavailable(t *testing.T) {
	alice := testUser("alice")
	f := newFixture(t, alice)
	created := f.mustCreate(t, "Sync @alice")
	f.gateway.err = fmt.Errorf("freebusy endpoint: connection refused")

	_, appErr := f.svc.Accept(context.Background(), created.Event.ID, "alice")
	if appErr == nil || appErr.Code != apperrors.ErrCalendarUnavailable {
		t.Fatalf("expected CALENDAR_UNAVAILABLE, got %v", appErr)
	}

	// Acceptance must not be recorded when availability cannot be computed
	stored, _ := f.repo.GetByID(context.Background(), created.Event.ID)
	if len(stored.Accepted) != 0 {
		t.Errorf("accepted = %v, want empty after failed accept", stored.Accepted)
	}
	if got := len(f.sink.records()); got != 0 {
		t.Errorf("published %d notifications, want 0", got)
	}
}

func TestAcceptConcurrentModification(t *testing.T) {
	alice := testUser("alice")
	f := newFixture(t, alice)
	created := f.mustCreate(t, "Sync @alice")
	f.repo.updateErr = repository.ErrVersionConflict

	_, appErr := f.svc.Accept(context.Background(), created.Event.ID, "alice")
	if appErr == nil || appErr.Code != apperrors.ErrConcurrentModification {
		t.Fatalf("expected CONCURRENT_MODIFICATION, got %v", appErr)
	}
	if !errors.Is(appErr.Err, repository.ErrVersionConflict) {
		t.Errorf("expected wrapped version conflict, got %v", appErr.Err)
	}
}

func TestGetMyEvents(t *testing.T) {
	alice := testUser("alice")
	f := newFixture(t, alice)
	f.mustCreate(t, "Sync @alice")
	f.mustCreate(t, "Other @bob")

	events, appErr := f.svc.GetMyEvents(context.Background(), "alice")
	if appErr != nil {
		t.Fatalf("GetMyEvents failed: %v", appErr)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if !containsTid(events[0].Participants, "alice") {
		t.Errorf("participants = %v, want alice invited", events[0].Participants)
	}
}

func TestObservers(t *testing.T) {
	alice := testUser("alice")
	f := newFixture(t, alice)
	created := f.mustCreate(t, "Sync @alice @bob")

	observers, err := f.svc.Observers(context.Background(), created.Event.ID)
	if err != nil {
		t.Fatalf("Observers failed: %v", err)
	}

	// Creator plus alice; bob never signed in
	if len(observers) != 2 {
		t.Fatalf("observers = %v, want creator and alice", observers)
	}
	if observers[0] != f.creator.ID {
		t.Errorf("observers[0] = %s, want creator %s", observers[0], f.creator.ID)
	}
	if observers[1] != alice.ID {
		t.Errorf("observers[1] = %s, want alice %s", observers[1], alice.ID)
	}
}

func containsTid(tids []string, tid string) bool {
	for _, t := range tids {
		if t == tid {
			return true
		}
	}
	return false
}
