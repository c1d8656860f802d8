package service

import (
	"reflect"
	"testing"

	"today-scheduler/core/errors"
	"today-scheduler/modules/schedule/entity"
)

func busy(start, end int) entity.BusyInterval {
	return entity.BusyInterval{Start: start, End: end}
}

func free(start, end int) entity.FreeSlot {
	return entity.FreeSlot{Start: start, End: end}
}

func TestMergeBusy(t *testing.T) {
	sf := NewSlotFinder()

	tests := []struct {
		name string
		a, b []entity.BusyInterval
		want []entity.BusyInterval
	}{
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: []entity.BusyInterval{},
		},
		{
			name: "one side empty",
			a:    []entity.BusyInterval{busy(600, 660)},
			b:    nil,
			want: []entity.BusyInterval{busy(600, 660)},
		},
		{
			name: "overlapping across calendars",
			a:    []entity.BusyInterval{busy(540, 600)},
			b:    []entity.BusyInterval{busy(570, 660)},
			want: []entity.BusyInterval{busy(540, 660)},
		},
		{
			name: "touching intervals coalesce",
			a:    []entity.BusyInterval{busy(540, 600)},
			b:    []entity.BusyInterval{busy(600, 660)},
			want: []entity.BusyInterval{busy(540, 660)},
		},
		{
			name: "unsorted input gets sorted",
			a:    []entity.BusyInterval{busy(720, 780), busy(540, 600)},
			b:    []entity.BusyInterval{busy(660, 690)},
			want: []entity.BusyInterval{busy(540, 600), busy(660, 690), busy(720, 780)},
		},
		{
			name: "contained interval disappears",
			a:    []entity.BusyInterval{busy(540, 720)},
			b:    []entity.BusyInterval{busy(600, 660)},
			want: []entity.BusyInterval{busy(540, 720)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, appErr := sf.MergeBusy(tt.a, tt.b)
			if appErr != nil {
				t.Fatalf("MergeBusy returned error: %v", appErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeBusy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeBusy_RejectsInvalidInterval(t *testing.T) {
	sf := NewSlotFinder()

	_, appErr := sf.MergeBusy([]entity.BusyInterval{busy(660, 600)}, nil)
	if appErr == nil {
		t.Fatal("expected error for interval with start > end")
	}
	if appErr.Code != errors.ErrInvalidInterval {
		t.Errorf("error code = %s, want %s", appErr.Code, errors.ErrInvalidInterval)
	}

	// Same check on the second list
	_, appErr = sf.MergeBusy(nil, []entity.BusyInterval{busy(100, 50)})
	if appErr == nil || appErr.Code != errors.ErrInvalidInterval {
		t.Errorf("expected INVALID_INTERVAL for second list, got %v", appErr)
	}
}

func TestMergeBusy_DoesNotMutateInputs(t *testing.T) {
	sf := NewSlotFinder()

	a := []entity.BusyInterval{busy(720, 780), busy(540, 600)}
	original := []entity.BusyInterval{busy(720, 780), busy(540, 600)}

	if _, appErr := sf.MergeBusy(a, nil); appErr != nil {
		t.Fatalf("MergeBusy returned error: %v", appErr)
	}
	if !reflect.DeepEqual(a, original) {
		t.Errorf("input slice was mutated: %v", a)
	}
}

func TestMergeBusy_CoverageProperty(t *testing.T) {
	sf := NewSlotFinder()

	a := []entity.BusyInterval{busy(540, 600), busy(900, 960), busy(580, 620)}
	b := []entity.BusyInterval{busy(610, 700), busy(1000, 1020)}

	got, appErr := sf.MergeBusy(a, b)
	if appErr != nil {
		t.Fatalf("MergeBusy returned error: %v", appErr)
	}

	// Sorted, pairwise non-overlapping and non-touching
	for i := 1; i < len(got); i++ {
		if got[i].Start <= got[i-1].End {
			t.Errorf("intervals %d and %d overlap or touch: %v", i-1, i, got)
		}
	}

	// Every input interval is contained in some output interval
	for _, in := range append(append([]entity.BusyInterval{}, a...), b...) {
		contained := false
		for _, out := range got {
			if out.Start <= in.Start && in.End <= out.End {
				contained = true
				break
			}
		}
		if !contained {
			t.Errorf("input %v not covered by output %v", in, got)
		}
	}
}

func TestFindAvailableSlots(t *testing.T) {
	sf := NewSlotFinder()

	tests := []struct {
		name  string
		busyA []entity.BusyInterval
		busyB []entity.BusyInterval
		want  []entity.FreeSlot
	}{
		{
			// creator busy 9:00-10:00, participant busy 9:30-11:00
			name:  "overlapping morning meetings",
			busyA: []entity.BusyInterval{busy(540, 600)},
			busyB: []entity.BusyInterval{busy(570, 660)},
			want:  []entity.FreeSlot{free(660, 1080)},
		},
		{
			name:  "both calendars empty",
			busyA: nil,
			busyB: nil,
			want:  []entity.FreeSlot{free(540, 1080)},
		},
		{
			name:  "busy covers full working hours",
			busyA: []entity.BusyInterval{busy(540, 1080)},
			busyB: nil,
			want:  []entity.FreeSlot{},
		},
		{
			name:  "back to back intervals leave one slot",
			busyA: []entity.BusyInterval{busy(540, 600)},
			busyB: []entity.BusyInterval{busy(600, 660)},
			want:  []entity.FreeSlot{free(660, 1080)},
		},
		{
			name:  "gap shorter than minimum duration is skipped",
			busyA: []entity.BusyInterval{busy(540, 700)},
			busyB: []entity.BusyInterval{busy(720, 1080)},
			want:  []entity.FreeSlot{},
		},
		{
			name:  "gap in the middle of the day",
			busyA: []entity.BusyInterval{busy(540, 720)},
			busyB: []entity.BusyInterval{busy(840, 1080)},
			want:  []entity.FreeSlot{free(720, 840)},
		},
		{
			name:  "busy before working hours is ignored",
			busyA: []entity.BusyInterval{busy(300, 480)},
			busyB: nil,
			want:  []entity.FreeSlot{free(540, 1080)},
		},
		{
			name:  "busy past closing is clamped",
			busyA: []entity.BusyInterval{busy(1020, 1200)},
			busyB: nil,
			want:  []entity.FreeSlot{free(540, 1020)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, appErr := sf.FindAvailableSlots(tt.busyA, tt.busyB)
			if appErr != nil {
				t.Fatalf("FindAvailableSlots returned error: %v", appErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAvailableSlots = %v, want %v", got, tt.want)
			}

			// Argument order must not change the result
			swapped, appErr := sf.FindAvailableSlots(tt.busyB, tt.busyA)
			if appErr != nil {
				t.Fatalf("FindAvailableSlots(swapped) returned error: %v", appErr)
			}
			if !reflect.DeepEqual(got, swapped) {
				t.Errorf("FindAvailableSlots not symmetric: %v vs %v", got, swapped)
			}
		})
	}
}

func TestFindAvailableSlots_Guarantees(t *testing.T) {
	sf := NewSlotFinder()

	busyA := []entity.BusyInterval{busy(500, 590), busy(700, 730), busy(1050, 1100)}
	busyB := []entity.BusyInterval{busy(620, 640), busy(900, 930)}

	slots, appErr := sf.FindAvailableSlots(busyA, busyB)
	if appErr != nil {
		t.Fatalf("FindAvailableSlots returned error: %v", appErr)
	}

	for i, slot := range slots {
		if slot.End-slot.Start < sf.MinimumDurationMinutes {
			t.Errorf("slot %d shorter than minimum duration: %v", i, slot)
		}
		if slot.Start < sf.WorkingHours.OpenMinute || slot.End > sf.WorkingHours.CloseMinute {
			t.Errorf("slot %d outside working hours: %v", i, slot)
		}
		if i > 0 && slot.Start < slots[i-1].End {
			t.Errorf("slots %d and %d overlap: %v", i-1, i, slots)
		}
		for _, b := range append(append([]entity.BusyInterval{}, busyA...), busyB...) {
			if slot.Start < b.End && b.Start < slot.End {
				t.Errorf("slot %v overlaps busy interval %v", slot, b)
			}
		}
	}
}
