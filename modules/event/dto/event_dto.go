package dto

import (
	"time"

	"today-scheduler/modules/event/entity"
	scheduleEntity "today-scheduler/modules/schedule/entity"
	scheduleService "today-scheduler/modules/schedule/service"
)

type CreateEventRequest struct {
	Description string `json:"description"`
}

// ParticipantStatus tells the creator which mentioned handles are already
// registered and which still need the bot invite link.
type ParticipantStatus struct {
	Tid        string `json:"tid"`
	Registered bool   `json:"registered"`
}

// SlotView is a free slot rendered for humans alongside the raw minutes.
type SlotView struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
}

type EventResponse struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	CreatorID    string    `json:"creator_id"`
	Participants []string  `json:"participants"`
	Accepted     []string  `json:"accepted"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateEventResponse struct {
	Event        EventResponse       `json:"event"`
	Participants []ParticipantStatus `json:"participants"`
}

type AcceptResponse struct {
	Event     EventResponse `json:"event"`
	FreeSlots []SlotView    `json:"free_slots"`
}

type ShareLinkResponse struct {
	URL string `json:"url"`
}

func ToEventResponse(e *entity.Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Slug:         e.Slug,
		Description:  e.Description,
		CreatorID:    e.CreatorID.String(),
		Participants: append([]string{}, e.Participants...),
		Accepted:     append([]string{}, e.Accepted...),
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt,
	}
}

func ToSlotViews(slots []scheduleEntity.FreeSlot) []SlotView {
	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, SlotView{
			Start:       scheduleService.FormatMinuteOfDay(slot.Start),
			End:         scheduleService.FormatMinuteOfDay(slot.End),
			StartMinute: slot.Start,
			EndMinute:   slot.End,
		})
	}
	return views
}
