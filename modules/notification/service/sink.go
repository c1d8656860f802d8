package service

import (
	"context"
	"encoding/json"
	"time"

	"today-scheduler/core/logger"
	"today-scheduler/core/queue"
	scheduleEntity "today-scheduler/modules/schedule/entity"
)

// TaskFreeSlots is the queue task type the worker consumes.
const TaskFreeSlots = "notification:free_slots"

const enqueueTimeout = 5 * time.Second

// FreeSlotsPayload is the task body for a computed availability result.
type FreeSlotsPayload struct {
	EventID string                    `json:"event_id"`
	Slots   []scheduleEntity.FreeSlot `json:"slots"`
}

// QueueSink delivers availability results to the background worker. Publish
// never fails the caller: enqueue errors are logged and dropped.
type QueueSink struct {
	q queue.Queue
}

func NewQueueSink(q queue.Queue) *QueueSink {
	return &QueueSink{q: q}
}

func (s *QueueSink) Publish(eventID string, slots []scheduleEntity.FreeSlot) {
	payload, err := json.Marshal(FreeSlotsPayload{EventID: eventID, Slots: slots})
	if err != nil {
		logger.Error("QueueSink:Publish:Marshal", "event_id", eventID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()

	if err := s.q.Enqueue(ctx, TaskFreeSlots, payload); err != nil {
		logger.Error("QueueSink:Publish:Enqueue", "event_id", eventID, "error", err)
	}
}
