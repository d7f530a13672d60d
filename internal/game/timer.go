// internal/game/timer.go
//
// Timer driver: the one-second countdown, the delayed level advance and the
// feedback clear.

package game

// Scheduled callbacks. Each captures the generation (and, for feedback,
// its sequence number) current when it was scheduled and re-checks it
// under g.mu before touching the session.

func (g *Game) scheduleTickLocked() {
	gen := g.generation
	g.ticker = g.clock.AfterFunc(g.settings.TickInterval, func() { g.onTick(gen) })
}

// onTick is one countdown step: finish when the time is spent, otherwise
// take a second off and schedule the next tick.
func (g *Game) onTick(gen uint64) {
	g.mu.Lock()
	if gen != g.generation || g.session.Phase() != PhasePlaying {
		g.mu.Unlock()
		return
	}
	g.ticker = nil
	if g.session.TimeRemaining <= 0 {
		g.finishLocked(ReasonOutOfTime)
	} else {
		g.session.TimeRemaining--
		g.recordLocked(EventTick, nil)
		g.scheduleTickLocked()
	}
	g.unlockAndEmit()
}

func (g *Game) scheduleAdvanceLocked() {
	gen := g.generation
	g.advanceT = g.clock.AfterFunc(g.settings.FeedbackDelay, func() { g.onAdvance(gen) })
}

func (g *Game) onAdvance(gen uint64) {
	g.mu.Lock()
	if gen != g.generation || g.session.Phase() != PhasePlaying || !g.advancing {
		g.mu.Unlock()
		return
	}
	g.advanceT = nil
	g.advanceLocked()
	g.unlockAndEmit()
}

func (g *Game) scheduleFeedbackClearLocked() {
	g.stopFeedbackLocked()
	g.feedbackSeq++
	gen, seq := g.generation, g.feedbackSeq
	g.feedbackT = g.clock.AfterFunc(g.settings.FeedbackDelay, func() { g.onFeedbackExpired(gen, seq) })
}

func (g *Game) onFeedbackExpired(gen, seq uint64) {
	g.mu.Lock()
	if gen != g.generation || seq != g.feedbackSeq || g.session.Phase() != PhasePlaying {
		g.mu.Unlock()
		return
	}
	g.feedbackT = nil
	g.feedback = FeedbackNone
	g.recordLocked(EventFeedbackCleared, nil)
	g.unlockAndEmit()
}

func (g *Game) stopFeedbackLocked() {
	if g.feedbackT != nil {
		g.feedbackT.Stop()
		g.feedbackT = nil
	}
	g.feedbackSeq++
}

func (g *Game) stopTimersLocked() {
	if g.ticker != nil {
		g.ticker.Stop()
		g.ticker = nil
	}
	if g.advanceT != nil {
		g.advanceT.Stop()
		g.advanceT = nil
	}
	g.stopFeedbackLocked()
}
