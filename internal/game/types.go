// internal/game/types.go
//
// Core type definitions for the coding mini-game engine.
// Defines:
//   - Challenge, Slot, Element: one fill-in-the-blank puzzle from the catalog.
//   - Phase / FinishReason: the session state machine.
//   - Session: mutable state of one play-through.
//   - Feedback: the transient message shown after a submission.
//   - Settings: tunables (lives, time limit, delays, points).

package game

import "time"

// BlankMarker is the placeholder a code template uses for each slot.
const BlankMarker = "___"

// Kind is the semantic class of a draggable token. Display only.
type Kind string

const (
	KindOperator   Kind = "operator"
	KindKeyword    Kind = "keyword"
	KindMethod     Kind = "method"
	KindProperty   Kind = "property"
	KindExpression Kind = "expression"
	KindOther      Kind = "other"
)

// Slot is a named blank with exactly one correct value.
type Slot struct {
	ID      string `json:"id" yaml:"id"`
	Correct string `json:"-" yaml:"correct"`
}

// Element is a candidate token; decoys share kinds with the answer.
type Element struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
	Kind  Kind   `json:"kind" yaml:"type"`
}

// Challenge is one immutable catalog entry.
type Challenge struct {
	Level    int       `json:"level" yaml:"level"`
	Title    string    `json:"title" yaml:"title"`
	Code     string    `json:"code" yaml:"code"`
	Slots    []Slot    `json:"slots" yaml:"slots"`
	Elements []Element `json:"elements" yaml:"elements"`
	Hint     string    `json:"hint" yaml:"hint"`
}

// Phase is the coarse state of a game.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// FinishReason records which terminal condition ended a session.
type FinishReason string

const (
	ReasonNone       FinishReason = ""
	ReasonCompleted  FinishReason = "completed"
	ReasonOutOfLives FinishReason = "out_of_lives"
	ReasonOutOfTime  FinishReason = "out_of_time"
)

// Session holds the state of a single play-through.
type Session struct {
	RunID          string       `json:"runId"`
	Level          int          `json:"level"`
	Score          int          `json:"score"`
	Lives          int          `json:"lives"`
	TimeRemaining  int          `json:"timeRemaining"` // seconds
	CompletedCount int          `json:"completedCount"`
	CorrectAnswers int          `json:"correctAnswers"`
	WrongAnswers   int          `json:"wrongAnswers"`
	StartedAt      time.Time    `json:"startedAt"`
	EndedAt        time.Time    `json:"endedAt"`
	IsPlaying      bool         `json:"isPlaying"`
	IsFinished     bool         `json:"isFinished"`
	Reason         FinishReason `json:"reason,omitempty"`
}

// Phase derives the state machine phase from the session flags.
func (s Session) Phase() Phase {
	switch {
	case s.IsFinished:
		return PhaseFinished
	case s.IsPlaying:
		return PhasePlaying
	default:
		return PhaseIdle
	}
}

// Feedback is the transient result message of the last submission.
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
)

// Settings are the tunables of a game. DefaultSettings matches the
// classic rules: 3 lives, 60 seconds, 1.5s feedback delay.
type Settings struct {
	Lives          int
	TimeLimit      int // seconds
	TickInterval   time.Duration
	FeedbackDelay  time.Duration
	PointsPerLevel int
	WrongPenalty   int
}

// DefaultSettings returns the standard rules.
func DefaultSettings() Settings {
	return Settings{
		Lives:          3,
		TimeLimit:      60,
		TickInterval:   time.Second,
		FeedbackDelay:  1500 * time.Millisecond,
		PointsPerLevel: 100,
		WrongPenalty:   50,
	}
}

// WithDefaults fills every unset or non-positive field from
// DefaultSettings. A zero WrongPenalty is kept; only a negative one is
// replaced.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Lives <= 0 {
		s.Lives = d.Lives
	}
	if s.TimeLimit <= 0 {
		s.TimeLimit = d.TimeLimit
	}
	if s.TickInterval <= 0 {
		s.TickInterval = d.TickInterval
	}
	if s.FeedbackDelay <= 0 {
		s.FeedbackDelay = d.FeedbackDelay
	}
	if s.PointsPerLevel <= 0 {
		s.PointsPerLevel = d.PointsPerLevel
	}
	if s.WrongPenalty < 0 {
		s.WrongPenalty = d.WrongPenalty
	}
	return s
}
