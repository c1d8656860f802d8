package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"today-scheduler/core/cache"
	"today-scheduler/core/config"
	"today-scheduler/core/constants"
	"today-scheduler/core/errors"
	"today-scheduler/core/logger"
	"today-scheduler/core/utils"
	authEntity "today-scheduler/modules/auth/entity"
	"today-scheduler/modules/event/dto"
	"today-scheduler/modules/event/entity"
	"today-scheduler/modules/event/repository"
	scheduleEntity "today-scheduler/modules/schedule/entity"
	scheduleService "today-scheduler/modules/schedule/service"
)

const (
	acceptLockTTL       = 10 * time.Second
	calendarCallTimeout = 30 * time.Second
	slugMaxSourceLen    = 48
)

// CalendarGateway supplies a participant's busy intervals for a time window.
// Implemented outside this module; the lifecycle never talks to a calendar
// provider directly.
type CalendarGateway interface {
	FetchBusyIntervals(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]scheduleEntity.BusyInterval, error)
}

// NotificationSink receives the free-slot result for broadcast. Fire and
// forget: implementations must never block or fail the accept call.
type NotificationSink interface {
	Publish(eventID string, slots []scheduleEntity.FreeSlot)
}

// ParticipantDirectory resolves participant references and keeps their
// calendar tokens usable. Satisfied by the auth service.
type ParticipantDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*authEntity.User, error)
	GetByTid(ctx context.Context, tid string) (*authEntity.User, error)
	ValidAccessToken(ctx context.Context, user *authEntity.User) (string, *errors.AppError)
}

// EventService drives the proposal → acceptance lifecycle.
type EventService struct {
	repo       repository.EventRepositoryInterface
	directory  ParticipantDirectory
	gateway    CalendarGateway
	sink       NotificationSink
	locks      cache.Cache
	slotFinder *scheduleService.SlotFinder
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, creatorID uuid.UUID, req *dto.CreateEventRequest) (*dto.CreateEventResponse, *errors.AppError)
	Accept(ctx context.Context, eventID, tid string) (*dto.AcceptResponse, *errors.AppError)
	GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, *errors.AppError)
	GetMyEvents(ctx context.Context, tid string) ([]dto.EventResponse, *errors.AppError)
	GetShareLink(ctx context.Context, eventID string) (*dto.ShareLinkResponse, *errors.AppError)
	Observers(ctx context.Context, eventID string) ([]uuid.UUID, error)
}

func NewEventService(
	repo repository.EventRepositoryInterface,
	directory ParticipantDirectory,
	gateway CalendarGateway,
	sink NotificationSink,
	locks cache.Cache,
) EventServiceInterface {
	return &EventService{
		repo:       repo,
		directory:  directory,
		gateway:    gateway,
		sink:       sink,
		locks:      locks,
		slotFinder: scheduleService.NewSlotFinder(),
	}
}

// CreateEvent builds a new event from a free-text description. The invited
// participants are the @mentions in the text, extracted once and frozen.
func (s *EventService) CreateEvent(ctx context.Context, creatorID uuid.UUID, req *dto.CreateEventRequest) (*dto.CreateEventResponse, *errors.AppError) {
	description := strings.TrimSpace(req.Description)

	mentions := ExtractMentions(description)
	if len(mentions) == 0 {
		return nil, errors.NewAppError(errors.ErrNoParticipantsFound, "Description mentions no participants", nil)
	}

	creator, err := s.directory.GetByID(ctx, creatorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up creator", err)
	}
	if creator == nil {
		return nil, errors.NewAppError(errors.ErrCreatorNotFound, "Creator is not a registered user", nil)
	}

	id := utils.GenerateEventID()
	event := &entity.Event{
		ID:           id,
		Slug:         makeSlug(description, id),
		Description:  description,
		CreatorID:    creatorID,
		Participants: entity.StringSet(mentions),
		Accepted:     entity.StringSet{},
		Status:       entity.EventStatusProposed,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	statuses := make([]dto.ParticipantStatus, 0, len(mentions))
	for _, tid := range mentions {
		user, lookupErr := s.directory.GetByTid(ctx, tid)
		if lookupErr != nil {
			logger.Warn("EventService:CreateEvent:ParticipantLookup", "tid", tid, "error", lookupErr)
		}
		statuses = append(statuses, dto.ParticipantStatus{Tid: tid, Registered: user != nil})
	}

	logger.Info("EventService:CreateEvent:Success",
		"event_id", created.ID, "creator_id", creatorID, "participants", len(mentions))

	return &dto.CreateEventResponse{
		Event:        dto.ToEventResponse(created),
		Participants: statuses,
	}, nil
}

// Accept records a participant's acceptance, reconciles the creator's and the
// accepter's calendars over the 24h window after event creation, and emits
// the free slots to the notification sink. Re-accepting is a state no-op that
// still repeats the calendar round trip and the notification.
func (s *EventService) Accept(ctx context.Context, eventID, tid string) (*dto.AcceptResponse, *errors.AppError) {
	if s.locks != nil {
		acquired, err := s.locks.AcquireLock(ctx, "event:"+eventID, acceptLockTTL)
		if err != nil {
			// Lock service down: proceed, the version check still protects us
			logger.Warn("EventService:Accept:LockError", "event_id", eventID, "error", err)
		} else if !acquired {
			return nil, errors.NewAppError(errors.ErrConcurrentModification, "Another accept is in flight for this event", nil)
		} else {
			defer func() {
				if err := s.locks.ReleaseLock(context.WithoutCancel(ctx), "event:"+eventID); err != nil {
					logger.Warn("EventService:Accept:UnlockError", "event_id", eventID, "error", err)
				}
			}()
		}
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}

	participant, err := s.directory.GetByTid(ctx, tid)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up participant", err)
	}
	if participant == nil {
		return nil, errors.NewAppError(errors.ErrParticipantNotFound, "Participant is not a registered user", nil)
	}

	creator, err := s.directory.GetByID(ctx, event.CreatorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up creator", err)
	}
	if creator == nil {
		return nil, errors.NewAppError(errors.ErrCreatorNotFound, "Event creator no longer exists", nil)
	}

	if !event.IsInvited(tid, creator.Tid) {
		return nil, errors.NewAppError(errors.ErrParticipantNotInvited,
			fmt.Sprintf("%s is not invited to this event", tid), nil)
	}

	windowStart := event.CreatedAt
	windowEnd := windowStart.Add(constants.AcceptSearchWindowHours * time.Hour)

	busyCreator, busyParticipant, appErr := s.fetchBusyPair(ctx, creator, participant, windowStart, windowEnd)
	if appErr != nil {
		return nil, appErr
	}

	slots, appErr := s.slotFinder.FindAvailableSlots(busyCreator, busyParticipant)
	if appErr != nil {
		return nil, appErr
	}

	event.RegisterAcceptance(tid)
	if err := s.repo.Update(ctx, event); err != nil {
		if stderrors.Is(err, repository.ErrVersionConflict) {
			return nil, errors.NewAppError(errors.ErrConcurrentModification, "Event was modified concurrently, retry the accept", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to persist acceptance", err)
	}

	s.sink.Publish(event.ID, slots)

	logger.Info("EventService:Accept:Success",
		"event_id", event.ID, "tid", tid, "status", event.Status, "free_slots", len(slots))

	return &dto.AcceptResponse{
		Event:     dto.ToEventResponse(event),
		FreeSlots: dto.ToSlotViews(slots),
	}, nil
}

// fetchBusyPair fetches both calendars concurrently. Both fetches run to
// completion before slot computation; either failure fails the accept with no
// partial availability.
func (s *EventService) fetchBusyPair(ctx context.Context, creator, participant *authEntity.User, from, to time.Time) ([]scheduleEntity.BusyInterval, []scheduleEntity.BusyInterval, *errors.AppError) {
	var (
		wg              sync.WaitGroup
		busyCreator     []scheduleEntity.BusyInterval
		busyParticipant []scheduleEntity.BusyInterval
		errCreator      *errors.AppError
		errParticipant  *errors.AppError
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		busyCreator, errCreator = s.fetchBusy(ctx, creator, from, to)
	}()
	go func() {
		defer wg.Done()
		busyParticipant, errParticipant = s.fetchBusy(ctx, participant, from, to)
	}()
	wg.Wait()

	if errCreator != nil {
		return nil, nil, errCreator
	}
	if errParticipant != nil {
		return nil, nil, errParticipant
	}
	return busyCreator, busyParticipant, nil
}

func (s *EventService) fetchBusy(ctx context.Context, user *authEntity.User, from, to time.Time) ([]scheduleEntity.BusyInterval, *errors.AppError) {
	token, appErr := s.directory.ValidAccessToken(ctx, user)
	if appErr != nil {
		return nil, appErr
	}

	callCtx, cancel := context.WithTimeout(ctx, calendarCallTimeout)
	defer cancel()

	intervals, err := s.gateway.FetchBusyIntervals(callCtx, token, user.Email, from, to)
	if err != nil {
		var ae *errors.AppError
		if stderrors.As(err, &ae) {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrCalendarUnavailable, "Calendar lookup failed", err)
	}
	return intervals, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}

	resp := dto.ToEventResponse(event)
	return &resp, nil
}

// GetMyEvents returns the events whose participant set mentions the handle.
func (s *EventService) GetMyEvents(ctx context.Context, tid string) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.ListByParticipant(ctx, tid)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, dto.ToEventResponse(&events[i]))
	}
	return result, nil
}

// GetShareLink builds the public URL participants can open from chat.
func (s *EventService) GetShareLink(ctx context.Context, eventID string) (*dto.ShareLinkResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrEventNotFound, "Event not found", nil)
	}

	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Server configuration error", nil)
	}

	host := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if cfg.Server.Host != "" && cfg.Server.Host != "0.0.0.0" {
		host = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	return &dto.ShareLinkResponse{
		URL: fmt.Sprintf("%s/e/%s", host, event.Slug),
	}, nil
}

// Observers lists the user IDs that should receive notifications about this
// event: the creator plus every registered invited participant.
func (s *EventService) Observers(ctx context.Context, eventID string) ([]uuid.UUID, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", eventID)
	}

	observers := []uuid.UUID{event.CreatorID}
	for _, tid := range event.Participants {
		user, err := s.directory.GetByTid(ctx, tid)
		if err != nil {
			logger.Warn("EventService:Observers:Lookup", "tid", tid, "error", err)
			continue
		}
		if user == nil {
			// Mentioned but never signed in; nothing to deliver to
			continue
		}
		observers = append(observers, user.ID)
	}

	return observers, nil
}

func makeSlug(description, id string) string {
	source := description
	if len(source) > slugMaxSourceLen {
		source = source[:slugMaxSourceLen]
	}
	base := slug.Make(source)
	if base == "" {
		return strings.ToLower(id)
	}
	return base + "-" + strings.ToLower(id)
}
