// internal/game/summary.go
//
// End-of-game figures: accuracy, elapsed time, m:ss formatting.

package game

import (
	"fmt"
	"math"
	"time"
)

// Accuracy is the share of correct submissions as a whole percentage.
// A session with no submissions reports 100.
func (s Session) Accuracy() int {
	total := s.CorrectAnswers + s.WrongAnswers
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(s.CorrectAnswers) / float64(total) * 100))
}

// Elapsed is the wall time between start and end of a finished session.
func (s Session) Elapsed() time.Duration {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// FormatClock renders whole seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
