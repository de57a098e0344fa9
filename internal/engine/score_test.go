package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreChainPreferredDayBonus(t *testing.T) {
	cfg := defaultConfig()
	ch := SlotChain{Day: "Mon", Start: clock(8, 0), End: clock(9, 30)}

	base := scoreChain(ch, nil, cfg.DayStart, cfg.DayEnd, cfg.DayStart, cfg.DayEnd)
	preferred := scoreChain(ch, map[string]struct{}{"Mon": {}}, cfg.DayStart, cfg.DayEnd, cfg.DayStart, cfg.DayEnd)
	assert.InDelta(t, 2.0, preferred-base, 1e-9)
}

func TestScoreChainWindowBonus(t *testing.T) {
	cfg := defaultConfig()
	inside := SlotChain{Day: "Mon", Start: clock(9, 30), End: clock(11, 0)}
	outside := SlotChain{Day: "Mon", Start: clock(8, 0), End: clock(9, 30)}

	insideScore := scoreChain(inside, nil, clock(9, 0), clock(12, 0), cfg.DayStart, cfg.DayEnd)
	outsideScore := scoreChain(outside, nil, clock(9, 0), clock(12, 0), cfg.DayStart, cfg.DayEnd)
	assert.InDelta(t, 1.0, insideScore-outsideScore, 1e-9)
}

func TestRankChainsTiesKeepGenerationOrder(t *testing.T) {
	cfg := defaultConfig()
	chains := BuildChains(GenerateTimeslots(cfg), 90)
	require.NotEmpty(t, chains)

	// With no preferences every chain of the same duration scores identically
	// (the edge penalty sums to a constant), so ranking must preserve
	// generation order: earliest day first, then earliest start.
	ranked := rankChains(chains, nil, cfg.DayStart, cfg.DayEnd, cfg.DayStart, cfg.DayEnd)
	assert.Equal(t, chains, ranked)
}

func TestRankChainsPreferredDayFirst(t *testing.T) {
	cfg := defaultConfig()
	chains := BuildChains(GenerateTimeslots(cfg), 90)

	ranked := rankChains(chains, map[string]struct{}{"Wed": {}}, cfg.DayStart, cfg.DayEnd, cfg.DayStart, cfg.DayEnd)
	require.NotEmpty(t, ranked)
	assert.Equal(t, "Wed", ranked[0].Day)
	assert.Equal(t, clock(8, 0), ranked[0].Start, "earliest generated Wed chain wins the tie")

	// All Wed chains outrank every other day.
	for i := 0; i < 7; i++ {
		assert.Equal(t, "Wed", ranked[i].Day)
	}
}

func TestRankChainsDoesNotMutateInput(t *testing.T) {
	cfg := defaultConfig()
	chains := BuildChains(GenerateTimeslots(cfg), 90)
	snapshot := make([]SlotChain, len(chains))
	copy(snapshot, chains)

	rankChains(chains, map[string]struct{}{"Thu": {}}, cfg.DayStart, cfg.DayEnd, cfg.DayStart, cfg.DayEnd)
	assert.Equal(t, snapshot, chains)
}
