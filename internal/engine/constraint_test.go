package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/irn-edu/timetable-api/internal/models"
)

func TestOverlapsHalfOpen(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     models.Clock
		want                           bool
	}{
		{"disjoint", clock(8, 0), clock(9, 0), clock(10, 0), clock(11, 0), false},
		{"shared boundary only", clock(8, 0), clock(9, 0), clock(9, 0), clock(10, 0), false},
		{"partial", clock(8, 0), clock(9, 30), clock(9, 0), clock(10, 0), true},
		{"contained", clock(8, 0), clock(12, 0), clock(9, 0), clock(10, 0), true},
		{"identical", clock(8, 0), clock(9, 0), clock(8, 0), clock(9, 0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			assert.Equal(t, tc.want, overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd), "overlap must be symmetric")
		})
	}
}

func TestFreeIn(t *testing.T) {
	booked := []interval{{start: clock(9, 0), end: clock(10, 30)}}
	assert.True(t, freeIn(booked, clock(8, 0), clock(9, 0)))
	assert.True(t, freeIn(booked, clock(10, 30), clock(12, 0)))
	assert.False(t, freeIn(booked, clock(10, 0), clock(11, 30)))
	assert.True(t, freeIn(nil, clock(8, 0), clock(9, 0)))
}

func TestAvailabilityContainment(t *testing.T) {
	idx := buildAvailabilityIndex([]models.AvailabilityWindow{
		{InstructorID: "i1", Day: "Mon", Start: clock(9, 0), End: clock(13, 0)},
		{InstructorID: "i1", Day: "Mon", Start: clock(15, 0), End: clock(18, 0)},
	})

	assert.True(t, idx.available("i1", "Mon", clock(9, 0), clock(10, 30)))
	assert.True(t, idx.available("i1", "Mon", clock(15, 30), clock(17, 0)))
	// Straddling the gap between windows is not contained by either.
	assert.False(t, idx.available("i1", "Mon", clock(12, 0), clock(15, 30)))
	assert.False(t, idx.available("i1", "Mon", clock(8, 0), clock(9, 30)))
	assert.False(t, idx.available("i1", "Tue", clock(9, 0), clock(10, 30)), "no window means the day is unavailable")
	assert.False(t, idx.available("i2", "Mon", clock(9, 0), clock(10, 30)))
}

func TestRoomSatisfies(t *testing.T) {
	room := models.Room{ID: "r1", Capacity: 30, Equipment: []string{"projector", "lab"}}

	assert.True(t, roomSatisfies(room, nil, 10))
	assert.True(t, roomSatisfies(room, []string{"projector"}, 30))
	assert.False(t, roomSatisfies(room, []string{"projector", "piano"}, 10))
	assert.False(t, roomSatisfies(room, nil, 31))
}
