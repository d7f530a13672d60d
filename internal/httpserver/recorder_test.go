package httpserver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figrac0/quantum-game/internal/game"
	"github.com/figrac0/quantum-game/internal/leaderboard"
)

// stalledWriter blocks every insert until release is closed.
type stalledWriter struct {
	release chan struct{}

	mu  sync.Mutex
	got []string
}

func (w *stalledWriter) Insert(ctx context.Context, r leaderboard.Result) error {
	<-w.release
	w.mu.Lock()
	defer w.mu.Unlock()
	w.got = append(w.got, r.RunID)
	return nil
}

func (w *stalledWriter) runs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.got...)
}

func finished(run string) game.Event {
	return game.Event{
		Type: game.EventFinished,
		View: game.View{Session: game.Session{
			RunID:      run,
			StartedAt:  epoch,
			EndedAt:    epoch.Add(30 * time.Second),
			IsFinished: true,
			Reason:     game.ReasonOutOfTime,
		}},
	}
}

func TestRecorderListenerDoesNotWaitForWriter(t *testing.T) {
	w := &stalledWriter{release: make(chan struct{})}
	rec := newRecorder(w, zerolog.Nop())
	l := rec.listener("g1", "p1", "Ann")

	returned := make(chan struct{})
	go func() {
		defer close(returned)
		l(finished("r1"))
		l(game.Event{Type: game.EventTick})
		l(finished("r2"))
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("listener blocked on a stalled insert")
	}
	assert.Empty(t, w.runs())

	close(w.release)
	rec.close()
	assert.Equal(t, []string{"r1", "r2"}, w.runs(), "close drains the queue")
}

func TestRecorderDropsWhenFullOrClosed(t *testing.T) {
	w := &stalledWriter{release: make(chan struct{})}
	rec := newRecorder(w, zerolog.Nop())

	// the writer holds at most one result while stalled
	accepted := 0
	for i := 0; i < recordQueue+2; i++ {
		if rec.enqueue(leaderboard.Result{RunID: "r"}) {
			accepted++
		}
	}
	assert.Less(t, accepted, recordQueue+2)
	assert.GreaterOrEqual(t, accepted, recordQueue)

	close(w.release)
	rec.close()
	assert.Len(t, w.runs(), accepted)

	assert.False(t, rec.enqueue(leaderboard.Result{RunID: "late"}))
	rec.close()
}

func TestSeqGateDropsStaleEvents(t *testing.T) {
	gate := seqGate{last: 5}

	var sent []uint64
	for _, seq := range []uint64{4, 5, 7, 6, 8, 8, 9} {
		if gate.admit(game.Event{Seq: seq}) {
			sent = append(sent, seq)
		}
	}
	require.Equal(t, []uint64{7, 8, 9}, sent)
	assert.Equal(t, uint64(9), gate.last)
}
