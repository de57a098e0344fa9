package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irn-edu/timetable-api/internal/models"
	appErrors "github.com/irn-edu/timetable-api/pkg/errors"
)

func storedFixture(token string) StoredResult {
	return StoredResult{
		Token:     token,
		CreatedAt: time.Now().UTC(),
		Result: models.ScheduleResult{
			SoftScore: 0.2,
			Counts:    models.ScheduleCounts{Sessions: 2},
		},
		OutputCSV: []byte("course_id\nc1\n"),
	}
}

func TestMemoryResultStoreRoundTrip(t *testing.T) {
	store := NewMemoryResultStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, storedFixture("tok-1"), time.Hour))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.Token)
	assert.Equal(t, []byte("course_id\nc1\n"), got.OutputCSV)
	assert.InDelta(t, 0.2, got.Result.SoftScore, 1e-9)
}

func TestMemoryResultStoreMiss(t *testing.T) {
	store := NewMemoryResultStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, appErrors.ErrResultMiss)
}

func TestMemoryResultStoreExpiry(t *testing.T) {
	store := NewMemoryResultStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Save(ctx, storedFixture("tok-1"), time.Hour))

	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err := store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, appErrors.ErrResultMiss)
}

func TestMemoryResultStoreSweepsExpiredOnSave(t *testing.T) {
	store := NewMemoryResultStore()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Save(ctx, storedFixture("old"), time.Minute))

	store.now = func() time.Time { return now.Add(time.Hour) }
	require.NoError(t, store.Save(ctx, storedFixture("fresh"), time.Hour))

	store.mu.RLock()
	defer store.mu.RUnlock()
	assert.NotContains(t, store.entries, "old")
	assert.Contains(t, store.entries, "fresh")
}

func TestMemoryResultStoreRejectsEmptyToken(t *testing.T) {
	store := NewMemoryResultStore()
	err := store.Save(context.Background(), StoredResult{}, time.Hour)
	require.Error(t, err)
}
