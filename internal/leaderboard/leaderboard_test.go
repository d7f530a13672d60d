package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figrac0/quantum-game/assets"
	"github.com/figrac0/quantum-game/internal/game"
	"github.com/figrac0/quantum-game/internal/store"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, store.Migrate(db, assets.Migrations()))
	return NewStore(db)
}

var day = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func result(run, player string, score, completed int, dur time.Duration) Result {
	return Result{
		RunID:      run,
		GameID:     "g-" + run,
		PlayerID:   player,
		Name:       player,
		Date:       DateKey(day),
		Score:      score,
		Level:      completed + 1,
		Completed:  completed,
		Reason:     game.ReasonOutOfTime,
		DurationMs: dur.Milliseconds(),
		FinishedAt: day.Add(dur),
	}
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	assert.Equal(t, "2025-02-28", DateKey(time.Date(2025, 3, 1, 1, 0, 0, 0, loc)))
	assert.Equal(t, "2025-03-01", DateKey(day))
}

func TestTopOrdering(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	rows := []Result{
		result("r1", "ann", 300, 2, 40*time.Second),
		result("r2", "bob", 600, 3, 50*time.Second),
		result("r3", "cat", 600, 3, 30*time.Second),
		result("r4", "dan", 600, 4, 60*time.Second),
		result("r5", "eve", 0, 0, 61*time.Second),
	}
	for _, r := range rows {
		require.NoError(t, s.Insert(ctx, r))
	}
	other := result("r6", "fay", 9000, 15, time.Minute)
	other.Date = "2025-03-02"
	require.NoError(t, s.Insert(ctx, other))

	top, err := s.Top(ctx, DateKey(day), 0)
	require.NoError(t, err)
	var ids []string
	for _, r := range top {
		ids = append(ids, r.RunID)
	}
	assert.Equal(t, []string{"r4", "r3", "r2", "r1", "r5"}, ids)

	top, err = s.Top(ctx, DateKey(day), 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	top, err = s.Top(ctx, "1999-01-01", 10)
	require.NoError(t, err)
	assert.Empty(t, top)
	assert.NotNil(t, top)
}

func TestInsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	r := result("r1", "ann", 300, 2, 40*time.Second)
	require.NoError(t, s.Insert(ctx, r))
	r.Score = 9999
	require.NoError(t, s.Insert(ctx, r))

	got, err := s.ForPlayer(ctx, "ann", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 300, got[0].Score)
	assert.Equal(t, game.ReasonOutOfTime, got[0].Reason)
	assert.True(t, got[0].FinishedAt.Equal(day.Add(40*time.Second)))
}

func TestForPlayerNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Insert(ctx, result("r1", "ann", 100, 1, 10*time.Second)))
	require.NoError(t, s.Insert(ctx, result("r2", "ann", 200, 2, 20*time.Second)))
	require.NoError(t, s.Insert(ctx, result("r3", "bob", 300, 3, 30*time.Second)))

	got, err := s.ForPlayer(ctx, "ann", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].RunID)
	assert.Equal(t, "r1", got[1].RunID)
}

func TestFromSession(t *testing.T) {
	s := game.Session{
		RunID:          "run",
		Level:          4,
		Score:          550,
		CompletedCount: 3,
		CorrectAnswers: 3,
		WrongAnswers:   1,
		StartedAt:      day,
		EndedAt:        day.Add(42 * time.Second),
		IsFinished:     true,
		Reason:         game.ReasonOutOfLives,
	}
	r := FromSession("g1", "p1", "Ann", s)
	assert.Equal(t, Result{
		RunID:      "run",
		GameID:     "g1",
		PlayerID:   "p1",
		Name:       "Ann",
		Date:       "2025-03-01",
		Score:      550,
		Level:      4,
		Completed:  3,
		Correct:    3,
		Wrong:      1,
		Reason:     game.ReasonOutOfLives,
		DurationMs: 42000,
		FinishedAt: day.Add(42 * time.Second),
	}, r)
}
