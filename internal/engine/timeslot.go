package engine

import (
	"fmt"

	"github.com/irn-edu/timetable-api/internal/models"
)

// TimeSlot is one fixed-length block of a scheduling day. Slots are immutable
// once generated and identified sequentially in generation order.
type TimeSlot struct {
	ID       string
	Day      string
	Start    models.Clock
	End      models.Clock
	Duration int
}

// GenerateTimeslots builds the full slot catalog: one block sequence derived
// from the day window, replicated across each configured day in order. A
// trailing period shorter than one block is dropped. Identical configs always
// produce identical catalogs.
func GenerateTimeslots(cfg Config) []TimeSlot {
	type block struct {
		start, end models.Clock
	}
	var blocks []block
	current := cfg.DayStart
	for models.MinutesBetween(current, cfg.DayEnd) >= cfg.BlockMinutes {
		next := current + models.Clock(cfg.BlockMinutes)
		blocks = append(blocks, block{start: current, end: next})
		current = next
	}

	slots := make([]TimeSlot, 0, len(blocks)*len(cfg.Days))
	id := 1
	for _, day := range cfg.Days {
		for _, b := range blocks {
			slots = append(slots, TimeSlot{
				ID:       fmt.Sprintf("TS%03d", id),
				Day:      day,
				Start:    b.start,
				End:      b.end,
				Duration: cfg.BlockMinutes,
			})
			id++
		}
	}
	return slots
}
