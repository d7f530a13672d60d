// internal/game/engine.go
//
// Core game engine for a single mini-game instance.
// Responsibilities:
//   - Drive the Idle → Playing → Finished state machine.
//   - Apply placements and submissions (scoring, lives, feedback).
//   - Run the countdown and the post-submission display delay (see timer.go).
//   - Publish a read-only View to subscribers after every change.
//
// All operations, user commands and timer callbacks alike, are serialised
// by g.mu. Scheduled callbacks carry the generation they were created in
// and do nothing once a restart or Close has moved the generation on.
package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/figrac0/quantum-game/internal/clock"
)

var (
	ErrNotPlaying     = errors.New("game: not playing")
	ErrAlreadyPlaying = errors.New("game: already playing")
	ErrAdvancing      = errors.New("game: level transition in progress")
	ErrClosed         = errors.New("game: closed")
)

// Option configures a Game.
type Option func(*Game)

// WithClock replaces the wall clock, typically with clock.Manual in tests.
func WithClock(c clock.Clock) Option { return func(g *Game) { g.clock = c } }

// WithSettings overrides DefaultSettings. Fields left at zero keep their
// default value.
func WithSettings(s Settings) Option { return func(g *Game) { g.settings = s } }

// WithLogger sets the logger used for state transitions.
func WithLogger(l zerolog.Logger) Option { return func(g *Game) { g.log = l } }

// WithID fixes the game id instead of generating one.
func WithID(id string) Option { return func(g *Game) { g.id = id } }

// Game is one running instance of the mini-game.
type Game struct {
	id       string
	catalog  *Catalog
	clock    clock.Clock
	settings Settings
	log      zerolog.Logger

	mu          sync.Mutex
	session     Session
	challenge   *Challenge
	dropped     Answers
	feedback    Feedback
	hintVisible bool
	advancing   bool
	closed      bool

	generation  uint64
	feedbackSeq uint64
	ticker      clock.Timer
	advanceT    clock.Timer
	feedbackT   clock.Timer

	seq       uint64
	queued    []Event
	listeners map[int]Listener
	nextLis   int
}

// New creates an idle game over catalog. Call Start to begin playing.
func New(catalog *Catalog, opts ...Option) *Game {
	g := &Game{
		id:        uuid.NewString(),
		catalog:   catalog,
		clock:     clock.Real(),
		settings:  DefaultSettings(),
		log:       log.Logger,
		dropped:   Answers{},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.settings = g.settings.WithDefaults()
	g.session = Session{
		Level:         1,
		Lives:         g.settings.Lives,
		TimeRemaining: g.settings.TimeLimit,
	}
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Catalog returns the catalog the game plays through.
func (g *Game) Catalog() *Catalog { return g.catalog }

// Start begins a fresh session. Valid from Idle or Finished.
func (g *Game) Start() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if g.session.Phase() == PhasePlaying {
		g.mu.Unlock()
		return ErrAlreadyPlaying
	}
	g.resetLocked()
	g.unlockAndEmit()
	return nil
}

// Restart discards the current session, whatever its phase, and
// immediately starts a new one.
func (g *Game) Restart() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	g.resetLocked()
	g.unlockAndEmit()
	return nil
}

// Place puts value into slotID, replacing any previous value. Unknown
// slots and values not offered by the challenge are ignored.
func (g *Game) Place(slotID, value string) error {
	g.mu.Lock()
	if err := g.playableLocked(); err != nil {
		g.mu.Unlock()
		return err
	}
	g.placeLocked(slotID, value)
	g.unlockAndEmit()
	return nil
}

// PlaceElement is Place addressed by element id, as a drag source
// carries the id of the dragged token.
func (g *Game) PlaceElement(slotID, elementID string) error {
	g.mu.Lock()
	if err := g.playableLocked(); err != nil {
		g.mu.Unlock()
		return err
	}
	if el, ok := g.challenge.ElementByID(elementID); ok {
		g.placeLocked(slotID, el.Value)
	}
	g.unlockAndEmit()
	return nil
}

// Submit checks the placed answers for the active challenge.
//
// All correct: award PointsPerLevel × level and advance after the
// feedback delay. Otherwise: lose a life and WrongPenalty points (never
// below zero). The lives check uses the value after this submission's
// deduction, so the game ends on exactly the submission that reaches 0.
func (g *Game) Submit() (Result, error) {
	g.mu.Lock()
	if err := g.playableLocked(); err != nil {
		g.mu.Unlock()
		return Result{}, err
	}

	res := Resolve(g.dropped, *g.challenge)
	s := &g.session
	if res.AllCorrect {
		s.Score += g.settings.PointsPerLevel * s.Level
		s.CompletedCount++
		s.CorrectAnswers++
		g.feedback = FeedbackCorrect
		g.advancing = true
		g.stopFeedbackLocked()
		g.scheduleAdvanceLocked()
		g.recordLocked(EventSubmitted, &res)
	} else {
		s.Lives--
		s.Score -= g.settings.WrongPenalty
		if s.Score < 0 {
			s.Score = 0
		}
		s.WrongAnswers++
		g.feedback = FeedbackWrong
		g.recordLocked(EventSubmitted, &res)
		if s.Lives <= 0 {
			s.Lives = 0
			g.finishLocked(ReasonOutOfLives)
		} else {
			g.scheduleFeedbackClearLocked()
		}
	}
	g.unlockAndEmit()
	return res, nil
}

// ToggleHint shows or hides the active challenge's hint.
func (g *Game) ToggleHint() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if g.session.Phase() != PhasePlaying {
		g.mu.Unlock()
		return ErrNotPlaying
	}
	g.hintVisible = !g.hintVisible
	g.recordLocked(EventHint, nil)
	g.unlockAndEmit()
	return nil
}

// Snapshot returns the current read-only view.
func (g *Game) Snapshot() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viewLocked()
}

// Subscribe registers l for future events and returns a function that
// removes it.
func (g *Game) Subscribe(l Listener) (cancel func()) {
	g.mu.Lock()
	id := g.nextLis
	g.nextLis++
	g.listeners[id] = l
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

// Close stops every timer and invalidates pending callbacks. Further
// commands return ErrClosed. Close is idempotent.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.stopTimersLocked()
	g.generation++
	g.listeners = make(map[int]Listener)
	g.log.Debug().Str("game", g.id).Msg("game closed")
}

// Closed reports whether Close has been called.
func (g *Game) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// ----------------------------- internals -----------------------------------

func (g *Game) resetLocked() {
	g.stopTimersLocked()
	g.generation++
	g.session = Session{
		RunID:         uuid.NewString(),
		Level:         1,
		Lives:         g.settings.Lives,
		TimeRemaining: g.settings.TimeLimit,
		StartedAt:     g.clock.Now(),
		IsPlaying:     true,
	}
	g.advancing = false
	g.loadLocked(1)
	g.scheduleTickLocked()
	g.recordLocked(EventStarted, nil)
	g.log.Debug().Str("game", g.id).Str("run", g.session.RunID).Msg("session started")
}

// loadLocked makes level the active challenge and clears everything that
// belonged to the previous one.
func (g *Game) loadLocked(level int) {
	ch := g.catalog.ByLevel(level)
	g.challenge = &ch
	g.dropped = Answers{}
	g.feedback = FeedbackNone
	g.hintVisible = false
	g.stopFeedbackLocked()
}

func (g *Game) placeLocked(slotID, value string) {
	if !g.challenge.HasSlot(slotID) || !g.challenge.HasValue(value) {
		return
	}
	g.dropped[slotID] = value
	g.recordLocked(EventPlaced, nil)
}

func (g *Game) playableLocked() error {
	switch {
	case g.closed:
		return ErrClosed
	case g.session.Phase() != PhasePlaying:
		return ErrNotPlaying
	case g.advancing:
		return ErrAdvancing
	}
	return nil
}

// advanceLocked moves to the next level, or finishes on the last one.
func (g *Game) advanceLocked() {
	g.advancing = false
	if g.session.Level < g.catalog.Len() {
		g.session.Level++
		g.loadLocked(g.session.Level)
		g.recordLocked(EventAdvanced, nil)
		g.log.Debug().Str("game", g.id).Int("level", g.session.Level).Msg("level advanced")
		return
	}
	g.finishLocked(ReasonCompleted)
}

func (g *Game) finishLocked(reason FinishReason) {
	g.stopTimersLocked()
	g.advancing = false
	g.session.IsPlaying = false
	g.session.IsFinished = true
	g.session.EndedAt = g.clock.Now()
	g.session.Reason = reason
	g.recordLocked(EventFinished, nil)
	g.log.Debug().
		Str("game", g.id).
		Str("run", g.session.RunID).
		Str("reason", string(reason)).
		Int("score", g.session.Score).
		Msg("session finished")
}

func (g *Game) viewLocked() View {
	v := View{
		GameID:      g.id,
		Seq:         g.seq,
		Phase:       g.session.Phase(),
		Session:     g.session,
		CatalogLen:  g.catalog.Len(),
		Dropped:     g.dropped.clone(),
		Feedback:    g.feedback,
		HintVisible: g.hintVisible,
		Advancing:   g.advancing,
	}
	if g.challenge != nil && v.Phase != PhaseIdle {
		v.Challenge = g.challenge.View(g.hintVisible)
	}
	return v
}

func (g *Game) recordLocked(t EventType, res *Result) {
	g.seq++
	ev := Event{Seq: g.seq, Type: t, At: g.clock.Now(), View: g.viewLocked()}
	if res != nil {
		r := *res
		ev.Result = &r
	}
	g.queued = append(g.queued, ev)
}

// unlockAndEmit releases g.mu and delivers queued events to a snapshot of
// the listeners, so listeners may call back into the game.
func (g *Game) unlockAndEmit() {
	events := g.queued
	g.queued = nil
	var ls []Listener
	if len(events) > 0 {
		ls = make([]Listener, 0, len(g.listeners))
		for _, l := range g.listeners {
			ls = append(ls, l)
		}
	}
	g.mu.Unlock()
	for _, ev := range events {
		for _, l := range ls {
			l(ev)
		}
	}
}
