package engine

import (
	"sort"

	"github.com/irn-edu/timetable-api/internal/models"
)

// edgePenalty scales the distance-from-day-edges penalty. It is small enough
// to only break ties between chains with equal preference bonuses, biasing
// towards slots centered in the working day.
const edgePenalty = 0.001

// scoreChain rates a candidate chain against an instructor's preferences:
// +2 for a preferred day, +1 for sitting fully inside the preferred window,
// minus the centering penalty.
func scoreChain(ch SlotChain, prefDays map[string]struct{}, prefStart, prefEnd, dayStart, dayEnd models.Clock) float64 {
	score := 0.0
	if _, ok := prefDays[ch.Day]; ok {
		score += 2
	}
	if ch.Start >= prefStart && ch.End <= prefEnd {
		score++
	}
	edge := models.MinutesBetween(dayStart, ch.Start) + models.MinutesBetween(ch.End, dayEnd)
	return score - edgePenalty*float64(edge)
}

// rankChains orders candidates by descending score. The sort is stable so
// equal scores keep generation order (earlier day, earlier start), which is
// what makes runs reproducible.
func rankChains(chains []SlotChain, prefDays map[string]struct{}, prefStart, prefEnd, dayStart, dayEnd models.Clock) []SlotChain {
	type scored struct {
		chain SlotChain
		score float64
	}
	rated := make([]scored, len(chains))
	for i, ch := range chains {
		rated[i] = scored{chain: ch, score: scoreChain(ch, prefDays, prefStart, prefEnd, dayStart, dayEnd)}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].score > rated[j].score
	})
	ranked := make([]SlotChain, len(rated))
	for i, r := range rated {
		ranked[i] = r.chain
	}
	return ranked
}
