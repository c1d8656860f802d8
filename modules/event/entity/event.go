package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventStatus tracks the acceptance lifecycle of a proposed meeting.
type EventStatus string

const (
	// EventStatusProposed: just created, nobody has accepted.
	EventStatusProposed EventStatus = "proposed"
	// EventStatusPartiallyAccepted: at least one invitee accepted.
	EventStatusPartiallyAccepted EventStatus = "partially_accepted"
	// EventStatusConfirmed: every invited participant accepted.
	EventStatusConfirmed EventStatus = "confirmed"
)

// StringSet is a JSONB-stored set of identifiers. Order-irrelevant, unique.
type StringSet []string

func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

func (s *StringSet) Scan(value any) error {
	if value == nil {
		*s = StringSet{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}

func (s StringSet) Contains(item string) bool {
	for _, v := range s {
		if v == item {
			return true
		}
	}
	return false
}

// Add appends item if absent and reports whether the set changed.
func (s *StringSet) Add(item string) bool {
	if s.Contains(item) {
		return false
	}
	*s = append(*s, item)
	return true
}

// Event is the aggregate root of the scheduling lifecycle. Participants are
// derived once from the description at creation and never mutated afterwards;
// Accepted only grows. Version backs optimistic concurrency on accept.
type Event struct {
	ID           string      `db:"id" json:"id"`
	Slug         string      `db:"slug" json:"slug"`
	Description  string      `db:"description" json:"description"`
	CreatorID    uuid.UUID   `db:"creator_id" json:"creator_id"`
	Participants StringSet   `db:"participants" json:"participants"`
	Accepted     StringSet   `db:"accepted" json:"accepted"`
	Status       EventStatus `db:"status" json:"status"`
	Version      int         `db:"version" json:"-"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// IsInvited reports whether tid may accept this event: the invited
// participants plus the creator's own handle.
func (e *Event) IsInvited(tid, creatorTid string) bool {
	return tid == creatorTid || e.Participants.Contains(tid)
}

// RegisterAcceptance adds tid to the accepted set (idempotently) and derives
// the resulting status. Returns whether the set changed.
func (e *Event) RegisterAcceptance(tid string) bool {
	changed := e.Accepted.Add(tid)
	e.Status = e.deriveStatus()
	return changed
}

func (e *Event) deriveStatus() EventStatus {
	if len(e.Accepted) == 0 {
		return EventStatusProposed
	}
	for _, participant := range e.Participants {
		if !e.Accepted.Contains(participant) {
			return EventStatusPartiallyAccepted
		}
	}
	return EventStatusConfirmed
}

func (Event) TableName() string {
	return "events"
}
