package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"today-scheduler/core/cache"
	"today-scheduler/core/logger"
	"today-scheduler/modules/notification/dto"
	"today-scheduler/modules/notification/entity"
	scheduleService "today-scheduler/modules/schedule/service"
)

// EventObserver resolves which users should be told about an event.
// Satisfied by the event service.
type EventObserver interface {
	Observers(ctx context.Context, eventID string) ([]uuid.UUID, error)
}

// Worker fans a free-slots task out to per-user notification rows and pushes
// a live copy onto each user's redis channel for the SSE stream.
type Worker struct {
	notifications NotificationServiceInterface
	observers     EventObserver
	cache         cache.Cache
}

func NewWorker(notifications NotificationServiceInterface, observers EventObserver, c cache.Cache) *Worker {
	return &Worker{notifications: notifications, observers: observers, cache: c}
}

// StreamChannel names the redis pub/sub channel for one user's live feed.
func StreamChannel(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

func (w *Worker) HandleFreeSlots(ctx context.Context, task *asynq.Task) error {
	var payload FreeSlotsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal free slots payload: %w", err)
	}

	observers, err := w.observers.Observers(ctx, payload.EventID)
	if err != nil {
		return fmt.Errorf("resolve observers for event %s: %w", payload.EventID, err)
	}

	message := formatSlotsMessage(payload)
	data := map[string]interface{}{
		"event_id": payload.EventID,
		"slots":    payload.Slots,
	}

	for _, userID := range observers {
		req := &dto.CreateNotificationRequest{
			UserID:  userID,
			Title:   "New availability",
			Message: message,
			Type:    entity.TypeFreeSlots,
			Data:    data,
		}
		if err := w.notifications.Create(ctx, req); err != nil {
			logger.Error("NotificationWorker:Create", "user_id", userID, "event_id", payload.EventID, "error", err)
			continue
		}

		live, _ := json.Marshal(req)
		if err := w.cache.Publish(ctx, StreamChannel(userID), live); err != nil {
			logger.Warn("NotificationWorker:Stream", "user_id", userID, "error", err)
		}
	}

	logger.Info("NotificationWorker:HandleFreeSlots",
		"event_id", payload.EventID, "observers", len(observers), "slots", len(payload.Slots))
	return nil
}

func formatSlotsMessage(payload FreeSlotsPayload) string {
	if len(payload.Slots) == 0 {
		return fmt.Sprintf("No mutual free slots found for event %s", payload.EventID)
	}

	message := fmt.Sprintf("Event %s has %d mutual free slot(s):", payload.EventID, len(payload.Slots))
	for _, slot := range payload.Slots {
		message += fmt.Sprintf(" %s-%s",
			scheduleService.FormatMinuteOfDay(slot.Start),
			scheduleService.FormatMinuteOfDay(slot.End))
	}
	return message
}
