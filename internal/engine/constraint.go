package engine

import "github.com/irn-edu/timetable-api/internal/models"

type interval struct {
	start, end models.Clock
}

// overlaps tests two half-open intervals. Intervals that only share a
// boundary point do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd models.Clock) bool {
	return max(aStart, bStart) < min(aEnd, bEnd)
}

// freeIn reports whether [start, end) avoids every booked interval.
func freeIn(booked []interval, start, end models.Clock) bool {
	for _, b := range booked {
		if overlaps(start, end, b.start, b.end) {
			return false
		}
	}
	return true
}

type availabilityKey struct {
	instructorID string
	day          string
}

// availabilityIndex maps (instructor, day) to that day's availability
// windows. Built once per run instead of rescanning the table.
type availabilityIndex map[availabilityKey][]interval

func buildAvailabilityIndex(windows []models.AvailabilityWindow) availabilityIndex {
	idx := make(availabilityIndex, len(windows))
	for _, w := range windows {
		key := availabilityKey{instructorID: w.InstructorID, day: w.Day}
		idx[key] = append(idx[key], interval{start: w.Start, end: w.End})
	}
	return idx
}

// available reports whether at least one window for (instructor, day) fully
// contains [start, end). No window at all means the day is unavailable.
func (idx availabilityIndex) available(instructorID, day string, start, end models.Clock) bool {
	for _, w := range idx[availabilityKey{instructorID: instructorID, day: day}] {
		if w.start <= start && w.end >= end {
			return true
		}
	}
	return false
}

// roomSatisfies checks the two static room constraints: the room's equipment
// must cover everything required and its capacity must hold every enrolled
// student.
func roomSatisfies(room models.Room, required []string, enrolled int) bool {
	if room.Capacity < enrolled {
		return false
	}
	if len(required) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(room.Equipment))
	for _, tag := range room.Equipment {
		have[tag] = struct{}{}
	}
	for _, tag := range required {
		if _, ok := have[tag]; !ok {
			return false
		}
	}
	return true
}
