// internal/store/memory.go
//
// In-memory registry of live games.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Delete and Sweep Close the games they remove, stopping their timers.
//   - State is lost when the process restarts; finished runs outlive it in
//     the leaderboard database.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/figrac0/quantum-game/internal/game"
)

// ErrNotFound is returned by Get for unknown or removed game ids.
var ErrNotFound = errors.New("store: game not found")

// Store defines the registry interface for live games.
type Store interface {
	// Save adds or replaces a game under its ID.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete closes and removes a game. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Sweep closes and removes games not touched within ttl, except those
	// still being played. It returns the number removed.
	Sweep(ctx context.Context, ttl time.Duration) int

	// Len reports the number of registered games.
	Len() int
}

type entry struct {
	game    *game.Game
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]*entry
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{games: make(map[string]*entry), now: now}
}

// Save adds or updates the game in the map.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.games[g.ID()]; ok && old.game != g {
		old.game.Close()
	}
	m.games[g.ID()] = &entry{game: g, touched: m.now()}
	return nil
}

// Get looks up a game by ID and marks it as recently used.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.touched = m.now()
	return e.game, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()
	if ok {
		e.game.Close()
	}
	return nil
}

func (m *memory) Sweep(ctx context.Context, ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	var stale []*game.Game
	for id, e := range m.games {
		if e.touched.After(cutoff) {
			continue
		}
		if e.game.Snapshot().Phase == game.PhasePlaying {
			continue
		}
		stale = append(stale, e.game)
		delete(m.games, id)
	}
	m.mu.Unlock()

	for _, g := range stale {
		g.Close()
	}
	return len(stale)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// RunJanitor sweeps s every interval until ctx is cancelled.
func RunJanitor(ctx context.Context, s Store, interval, ttl time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(ctx, ttl); n > 0 {
				log.Info().Int("removed", n).Int("live", s.Len()).Msg("swept idle games")
			}
		}
	}
}
