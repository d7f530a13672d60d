// internal/httpserver/recorder.go
//
// Background writer for finished runs. Game listeners must not block, so
// they only enqueue; a single goroutine performs the inserts. Close drains
// what is queued before returning.

package httpserver

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/figrac0/quantum-game/internal/game"
	"github.com/figrac0/quantum-game/internal/leaderboard"
)

const (
	recordQueue   = 256
	recordTimeout = 5 * time.Second
)

type resultWriter interface {
	Insert(ctx context.Context, r leaderboard.Result) error
}

type recorder struct {
	w   resultWriter
	log zerolog.Logger

	mu     sync.Mutex
	closed bool
	queue  chan leaderboard.Result
	done   chan struct{}
}

func newRecorder(w resultWriter, lg zerolog.Logger) *recorder {
	r := &recorder{
		w:     w,
		log:   lg,
		queue: make(chan leaderboard.Result, recordQueue),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// enqueue hands res to the writer without waiting. It reports false when
// the queue is full or the recorder is closed; the result is then lost.
func (r *recorder) enqueue(res leaderboard.Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.queue <- res:
		return true
	default:
		return false
	}
}

// listener stores every finished run of one game.
func (r *recorder) listener(gameID, playerID, name string) game.Listener {
	return func(ev game.Event) {
		if ev.Type != game.EventFinished {
			return
		}
		res := leaderboard.FromSession(gameID, playerID, name, ev.View.Session)
		if !r.enqueue(res) {
			r.log.Warn().Str("game", gameID).Str("run", res.RunID).Msg("result dropped")
		}
	}
}

func (r *recorder) run() {
	defer close(r.done)
	for res := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		err := r.w.Insert(ctx, res)
		cancel()
		if err != nil {
			r.log.Warn().Err(err).Str("game", res.GameID).Str("run", res.RunID).Msg("record result")
			continue
		}
		r.log.Info().
			Str("game", res.GameID).
			Str("run", res.RunID).
			Int("score", res.Score).
			Str("reason", string(res.Reason)).
			Msg("result recorded")
	}
}

// close stops accepting results, waits for queued ones to be written, and
// is safe to call more than once.
func (r *recorder) close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()
	<-r.done
}
