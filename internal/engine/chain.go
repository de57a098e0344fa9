package engine

import "github.com/irn-edu/timetable-api/internal/models"

// SlotChain is a run of consecutive same-day slots long enough to host one
// session of the requested duration.
type SlotChain struct {
	Day     string
	SlotIDs []string
	Start   models.Clock
	End     models.Clock
}

// BuildChains returns every window of k consecutive, fully contiguous blocks
// per day, where k is the block count covering duration (rounded up).
// Windows may overlap: a 3-block day with k=2 yields two chains. Days without
// k contiguous blocks contribute nothing.
func BuildChains(slots []TimeSlot, durationMin int) []SlotChain {
	if len(slots) == 0 || durationMin <= 0 {
		return nil
	}
	block := slots[0].Duration
	needed := (durationMin + block - 1) / block

	var chains []SlotChain
	// The catalog is day-major, so each day is one contiguous span of the slice.
	for lo := 0; lo < len(slots); {
		hi := lo
		for hi < len(slots) && slots[hi].Day == slots[lo].Day {
			hi++
		}
		day := slots[lo:hi]
		for i := 0; i+needed <= len(day); i++ {
			contiguous := true
			for j := 0; j < needed-1; j++ {
				if day[i+j].End != day[i+j+1].Start {
					contiguous = false
					break
				}
			}
			if !contiguous {
				continue
			}
			ids := make([]string, needed)
			for j := 0; j < needed; j++ {
				ids[j] = day[i+j].ID
			}
			chains = append(chains, SlotChain{
				Day:     day[i].Day,
				SlotIDs: ids,
				Start:   day[i].Start,
				End:     day[i+needed-1].End,
			})
		}
		lo = hi
	}
	return chains
}

// chainCache memoises chains per requested duration for one run; many
// sessions share the same duration.
type chainCache struct {
	slots      []TimeSlot
	byDuration map[int][]SlotChain
}

func newChainCache(slots []TimeSlot) *chainCache {
	return &chainCache{slots: slots, byDuration: make(map[int][]SlotChain)}
}

func (c *chainCache) forDuration(durationMin int) []SlotChain {
	if chains, ok := c.byDuration[durationMin]; ok {
		return chains
	}
	chains := BuildChains(c.slots, durationMin)
	c.byDuration[durationMin] = chains
	return chains
}
