package store

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/figrac0/quantum-game/assets"
	"github.com/figrac0/quantum-game/internal/clock"
	"github.com/figrac0/quantum-game/internal/game"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newGame(t *testing.T, id string) (*game.Game, *clock.Manual) {
	t.Helper()
	cat, err := game.NewCatalog([]game.Challenge{{
		Level:    1,
		Title:    "sum",
		Code:     "a ___ b",
		Slots:    []game.Slot{{ID: "s1", Correct: "+"}},
		Elements: []game.Element{{ID: "e1", Value: "+"}, {ID: "e2", Value: "-"}},
	}})
	require.NoError(t, err)
	clk := clock.NewManual(epoch)
	return game.New(cat, game.WithID(id), game.WithClock(clk), game.WithLogger(zerolog.Nop())), clk
}

func TestMemorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	g, _ := newGame(t, "a")

	require.NoError(t, m.Save(ctx, g))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Delete(ctx, "a"))
	assert.True(t, g.Closed())
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, m.Delete(ctx, "a"))
}

func TestMemorySaveReplacesAndClosesOld(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	old, _ := newGame(t, "a")
	repl, _ := newGame(t, "a")

	require.NoError(t, m.Save(ctx, old))
	require.NoError(t, m.Save(ctx, repl))
	assert.True(t, old.Closed())
	assert.False(t, repl.Closed())
	repl.Close()
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	now := epoch
	m := newMemory(func() time.Time { return now })

	idle, _ := newGame(t, "idle")
	playing, _ := newGame(t, "playing")
	fresh, _ := newGame(t, "fresh")
	require.NoError(t, playing.Start())
	defer playing.Close()

	require.NoError(t, m.Save(ctx, idle))
	require.NoError(t, m.Save(ctx, playing))
	now = now.Add(20 * time.Minute)
	require.NoError(t, m.Save(ctx, fresh))
	now = now.Add(15 * time.Minute)

	removed := m.Sweep(ctx, 30*time.Minute)
	assert.Equal(t, 1, removed)
	assert.True(t, idle.Closed())
	assert.False(t, playing.Closed(), "games in progress are kept")
	assert.Equal(t, 2, m.Len())

	_, err := m.Get(ctx, "fresh")
	assert.NoError(t, err)
	fresh.Close()
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	m := NewMemoryStore()
	g, _ := newGame(t, "old")
	require.NoError(t, m.Save(context.Background(), g))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunJanitor(ctx, m, 5*time.Millisecond, 0)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.True(t, g.Closed())
}

func TestMigrate(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY);`)},
		"002_b.sql": {Data: []byte(`CREATE TABLE b (id INTEGER PRIMARY KEY, a_id INTEGER REFERENCES a(id));`)},
		"README.md": {Data: []byte(`not a migration`)},
	}
	require.NoError(t, Migrate(db, fsys))
	require.NoError(t, Migrate(db, fsys), "second run is a no-op")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)

	_, err = db.Exec(`INSERT INTO b (id, a_id) VALUES (1, 42)`)
	assert.Error(t, err, "foreign keys are enforced")
}

func TestMigrateBadSQL(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(db, fstest.MapFS{"001_bad.sql": {Data: []byte(`CREATE TABLEX nope;`)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply 001_bad.sql")
}

func TestMigrateEmbedded(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, assets.Migrations()))
	_, err = db.Exec(`SELECT run_id, score, duration_ms FROM results LIMIT 1`)
	assert.NoError(t, err)
}
