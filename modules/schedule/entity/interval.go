package entity

// BusyInterval is a time range, in minutes since midnight, during which a
// participant is unavailable. Intervals are built per availability query and
// never persisted; the same participant may report overlapping intervals
// before merging.
type BusyInterval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FreeSlot is a gap in the merged busy timeline long enough to host a meeting.
// Immutable once returned.
type FreeSlot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// WorkingHours is the fixed daily window within which meetings may be
// scheduled, in minutes since midnight.
type WorkingHours struct {
	OpenMinute  int `json:"open_minute"`
	CloseMinute int `json:"close_minute"`
}
