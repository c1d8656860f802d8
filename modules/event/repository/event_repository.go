package repository

import (
	"context"
	"database/sql"
	"errors"

	"today-scheduler/core/database"
	"today-scheduler/core/logger"
	"today-scheduler/modules/event/entity"
)

// ErrVersionConflict is returned when an optimistic update lost the race.
var ErrVersionConflict = errors.New("event was modified concurrently")

// EventRepository handles event database operations
type EventRepository struct {
	db database.Database
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	ListByParticipant(ctx context.Context, tid string) ([]entity.Event, error)
}

func NewEventRepository(db database.Database) EventRepositoryInterface {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (id, slug, description, creator_id, participants, accepted, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING id, slug, description, creator_id, participants, accepted, status, version, created_at, updated_at
	`

	var created entity.Event
	err := r.db.GetContext(ctx, &created, query,
		event.ID, event.Slug, event.Description, event.CreatorID,
		event.Participants, event.Accepted, event.Status)
	if err != nil {
		logger.Error("EventRepository:Create", "error", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	query := `
		SELECT id, slug, description, creator_id, participants, accepted, status, version, created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", "error", err)
		return nil, err
	}

	return &event, nil
}

// Update persists the accepted set and status with a compare-and-swap on the
// version column; a lost race surfaces as ErrVersionConflict instead of a
// silent lost update.
func (r *EventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET accepted = :accepted, status = :status, version = version + 1, updated_at = NOW()
		WHERE id = :id AND version = :version
	`

	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		logger.Error("EventRepository:Update", "error", err)
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	event.Version++
	return nil
}

// ListByParticipant returns every event the handle is invited to.
func (r *EventRepository) ListByParticipant(ctx context.Context, tid string) ([]entity.Event, error) {
	query := `
		SELECT id, slug, description, creator_id, participants, accepted, status, version, created_at, updated_at
		FROM events
		WHERE participants @> jsonb_build_array($1::text)
		ORDER BY created_at DESC
	`

	var events []entity.Event
	err := r.db.SelectContext(ctx, &events, query, tid)
	if err != nil {
		logger.Error("EventRepository:ListByParticipant", "error", err)
		return nil, err
	}

	return events, nil
}
