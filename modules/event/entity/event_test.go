package entity

import "testing"

func TestRegisterAcceptance(t *testing.T) {
	e := &Event{
		Participants: StringSet{"alice", "bob"},
		Accepted:     StringSet{},
		Status:       EventStatusProposed,
	}

	if changed := e.RegisterAcceptance("alice"); !changed {
		t.Error("first acceptance should change the set")
	}
	if e.Status != EventStatusPartiallyAccepted {
		t.Errorf("status = %s, want %s", e.Status, EventStatusPartiallyAccepted)
	}

	// Re-accepting is a state no-op
	if changed := e.RegisterAcceptance("alice"); changed {
		t.Error("repeated acceptance should not change the set")
	}
	if len(e.Accepted) != 1 {
		t.Errorf("accepted set grew on repeat: %v", e.Accepted)
	}

	if changed := e.RegisterAcceptance("bob"); !changed {
		t.Error("second participant acceptance should change the set")
	}
	if e.Status != EventStatusConfirmed {
		t.Errorf("status = %s, want %s once all participants accepted", e.Status, EventStatusConfirmed)
	}
}

func TestRegisterAcceptance_CreatorDoesNotConfirmAlone(t *testing.T) {
	e := &Event{
		Participants: StringSet{"alice"},
		Accepted:     StringSet{},
		Status:       EventStatusProposed,
	}

	// The creator's own acceptance counts toward the set but not coverage
	e.RegisterAcceptance("carol")
	if e.Status != EventStatusPartiallyAccepted {
		t.Errorf("status = %s, want %s", e.Status, EventStatusPartiallyAccepted)
	}

	e.RegisterAcceptance("alice")
	if e.Status != EventStatusConfirmed {
		t.Errorf("status = %s, want %s", e.Status, EventStatusConfirmed)
	}
}

func TestIsInvited(t *testing.T) {
	e := &Event{Participants: StringSet{"alice", "bob"}}

	tests := []struct {
		tid  string
		want bool
	}{
		{"alice", true},
		{"bob", true},
		{"carol", true}, // creator
		{"mallory", false},
	}

	for _, tt := range tests {
		if got := e.IsInvited(tt.tid, "carol"); got != tt.want {
			t.Errorf("IsInvited(%q) = %v, want %v", tt.tid, got, tt.want)
		}
	}
}
