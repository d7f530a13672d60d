// internal/leaderboard/leaderboard.go
//
// Finished runs in SQLite.
//   - Insert is idempotent on run id.
//   - Top ranks a day: score, levels completed, then the faster run.
//   - ForPlayer lists one player's runs, newest first.

// Package leaderboard persists finished runs and ranks them per day.
package leaderboard

import (
	"context"
	"database/sql"
	"time"

	"github.com/figrac0/quantum-game/internal/game"
)

// DefaultLimit caps Top and ForPlayer when the caller passes no limit.
const DefaultLimit = 20

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Result is one finished run.
type Result struct {
	RunID      string            `json:"runId"`
	GameID     string            `json:"gameId"`
	PlayerID   string            `json:"playerId"`
	Name       string            `json:"name"`
	Date       string            `json:"date"`
	Score      int               `json:"score"`
	Level      int               `json:"level"`
	Completed  int               `json:"completed"`
	Correct    int               `json:"correct"`
	Wrong      int               `json:"wrong"`
	Reason     game.FinishReason `json:"reason"`
	DurationMs int64             `json:"durationMs"`
	FinishedAt time.Time         `json:"finishedAt"`
}

// FromSession builds the record of a finished session.
func FromSession(gameID, playerID, name string, s game.Session) Result {
	return Result{
		RunID:      s.RunID,
		GameID:     gameID,
		PlayerID:   playerID,
		Name:       name,
		Date:       DateKey(s.EndedAt),
		Score:      s.Score,
		Level:      s.Level,
		Completed:  s.CompletedCount,
		Correct:    s.CorrectAnswers,
		Wrong:      s.WrongAnswers,
		Reason:     s.Reason,
		DurationMs: s.Elapsed().Milliseconds(),
		FinishedAt: s.EndedAt.UTC(),
	}
}

// Store reads and writes results. It is safe for concurrent use.
type Store struct{ db *sql.DB }

// NewStore wraps db, which must already be migrated.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert stores r. A run id that was already recorded is ignored.
func (s *Store) Insert(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (run_id, game_id, player_id, name, date, score, level,
             completed, correct, wrong, reason, duration_ms, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.GameID, r.PlayerID, r.Name, r.Date, r.Score, r.Level,
		r.Completed, r.Correct, r.Wrong, string(r.Reason), r.DurationMs, r.FinishedAt,
	)
	return err
}

// Top returns the best runs of a day: highest score first, then most
// levels completed, then fastest.
func (s *Store) Top(ctx context.Context, date string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.query(ctx, `
        SELECT run_id, game_id, player_id, name, date, score, level,
               completed, correct, wrong, reason, duration_ms, finished_at
        FROM results
        WHERE date=?
        ORDER BY score DESC, completed DESC, duration_ms ASC, finished_at ASC
        LIMIT ?`, date, limit)
}

// ForPlayer returns a player's most recent runs.
func (s *Store) ForPlayer(ctx context.Context, playerID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.query(ctx, `
        SELECT run_id, game_id, player_id, name, date, score, level,
               completed, correct, wrong, reason, duration_ms, finished_at
        FROM results
        WHERE player_id=?
        ORDER BY finished_at DESC
        LIMIT ?`, playerID, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		var reason string
		if err := rows.Scan(&r.RunID, &r.GameID, &r.PlayerID, &r.Name, &r.Date, &r.Score, &r.Level,
			&r.Completed, &r.Correct, &r.Wrong, &reason, &r.DurationMs, &r.FinishedAt); err != nil {
			return nil, err
		}
		r.Reason = game.FinishReason(reason)
		out = append(out, r)
	}
	return out, rows.Err()
}
