package service

import (
	"fmt"
	"sort"

	"today-scheduler/core/constants"
	"today-scheduler/core/errors"
	"today-scheduler/modules/schedule/entity"
)

// SlotFinder handles the algorithm to find mutually free time slots between
// two participants' calendars.
type SlotFinder struct {
	WorkingHours entity.WorkingHours
	// MinimumDurationMinutes is the shortest gap worth suggesting as a slot.
	MinimumDurationMinutes int
}

// NewSlotFinder creates a slot finder with the process-wide working hours.
func NewSlotFinder() *SlotFinder {
	return &SlotFinder{
		WorkingHours: entity.WorkingHours{
			OpenMinute:  constants.WorkingHoursOpenMinute,
			CloseMinute: constants.WorkingHoursCloseMinute,
		},
		MinimumDurationMinutes: constants.MinimumSlotDurationMinutes,
	}
}

// MergeBusy combines two participants' busy lists into a single sorted,
// coalesced timeline. Overlapping and touching intervals collapse into one
// (closed-interval semantics: an interval starting exactly where the previous
// one ends is joined to it). On equal starts the first list's interval is
// taken first; merging makes the tie-break invisible in the output.
func (sf *SlotFinder) MergeBusy(busyA, busyB []entity.BusyInterval) ([]entity.BusyInterval, *errors.AppError) {
	if appErr := validateIntervals(busyA); appErr != nil {
		return nil, appErr
	}
	if appErr := validateIntervals(busyB); appErr != nil {
		return nil, appErr
	}

	a := make([]entity.BusyInterval, len(busyA))
	copy(a, busyA)
	b := make([]entity.BusyInterval, len(busyB))
	copy(b, busyB)

	sort.SliceStable(a, func(i, j int) bool { return a[i].Start < a[j].Start })
	sort.SliceStable(b, func(i, j int) bool { return b[i].Start < b[j].Start })

	merged := make([]entity.BusyInterval, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Start <= b[j].Start {
			merged = append(merged, a[i])
			i++
		} else {
			merged = append(merged, b[j])
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)

	coalesced := make([]entity.BusyInterval, 0, len(merged))
	for _, interval := range merged {
		if len(coalesced) == 0 {
			coalesced = append(coalesced, interval)
			continue
		}

		last := &coalesced[len(coalesced)-1]
		if interval.Start <= last.End {
			if interval.End > last.End {
				last.End = interval.End
			}
		} else {
			coalesced = append(coalesced, interval)
		}
	}

	return coalesced, nil
}

// FindAvailableSlots subtracts both participants' busy timelines from the
// working-hours window. An empty result means no mutual availability, which
// is a normal outcome, not an error.
func (sf *SlotFinder) FindAvailableSlots(busyA, busyB []entity.BusyInterval) ([]entity.FreeSlot, *errors.AppError) {
	mergedBusy, appErr := sf.MergeBusy(busyA, busyB)
	if appErr != nil {
		return nil, appErr
	}

	slots := []entity.FreeSlot{}
	cursor := sf.WorkingHours.OpenMinute

	for _, busy := range mergedBusy {
		gapEnd := busy.Start
		if gapEnd > sf.WorkingHours.CloseMinute {
			gapEnd = sf.WorkingHours.CloseMinute
		}
		if gapEnd-cursor >= sf.MinimumDurationMinutes {
			slots = append(slots, entity.FreeSlot{Start: cursor, End: gapEnd})
		}
		if busy.End > cursor {
			cursor = busy.End
		}
		if cursor >= sf.WorkingHours.CloseMinute {
			return slots, nil
		}
	}

	if sf.WorkingHours.CloseMinute-cursor >= sf.MinimumDurationMinutes {
		slots = append(slots, entity.FreeSlot{Start: cursor, End: sf.WorkingHours.CloseMinute})
	}

	return slots, nil
}

func validateIntervals(intervals []entity.BusyInterval) *errors.AppError {
	for _, interval := range intervals {
		if interval.Start > interval.End {
			return errors.NewAppError(errors.ErrInvalidInterval,
				fmt.Sprintf("busy interval starts after it ends: %d > %d", interval.Start, interval.End), nil)
		}
	}
	return nil
}
