// internal/httpserver/stream.go
//
// GET /game/{id}/ws streams game events as JSON text frames. The first frame
// is a "snapshot" event carrying the current state; every later frame is a
// game.Event with a higher Seq than the frame before it. The engine may
// deliver events out of order when a timer and a request race, so stale
// ones are dropped rather than sent. Inbound frames are ignored; commands go
// through the REST endpoints.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/figrac0/quantum-game/internal/game"
)

// EventSnapshot is the type of the first frame on a stream.
const EventSnapshot game.EventType = "snapshot"

const (
	streamBuffer = 64
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.opts.ClientOrigin
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameFor(w, r)
	if !ok {
		return
	}
	up := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("game", g.ID()).Msg("websocket upgrade")
		return
	}

	done := make(chan struct{})
	defer func() {
		conn.Close()
		<-done
	}()

	// Listeners must not block: a client that falls behind is dropped.
	events := make(chan game.Event, streamBuffer)
	overflow := make(chan struct{})
	var once sync.Once
	unsubscribe := g.Subscribe(func(ev game.Event) {
		select {
		case events <- ev:
		default:
			once.Do(func() { close(overflow) })
		}
	})
	defer unsubscribe()

	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.Debug().Err(err).Str("game", g.ID()).Msg("websocket read")
				}
				return
			}
		}
	}()

	s.log.Debug().Str("game", g.ID()).Msg("stream connected")
	defer s.log.Debug().Str("game", g.ID()).Msg("stream disconnected")

	snap := g.Snapshot()
	if err := writeEvent(conn, game.Event{Seq: snap.Seq, Type: EventSnapshot, At: time.Now(), View: snap}); err != nil {
		return
	}

	gate := seqGate{last: snap.Seq}
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case ev := <-events:
			if !gate.admit(ev) {
				continue
			}
			if err := writeEvent(conn, ev); err != nil {
				return
			}
		case <-overflow:
			closeWith(conn, websocket.ClosePolicyViolation, "too slow")
			return
		case <-ping.C:
			if g.Closed() {
				closeWith(conn, websocket.CloseNormalClosure, "game closed")
				return
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// seqGate passes only events newer than the last one it passed. The
// snapshot seeds it, so events already folded into the snapshot are
// skipped as well.
type seqGate struct{ last uint64 }

func (g *seqGate) admit(ev game.Event) bool {
	if ev.Seq <= g.last {
		return false
	}
	g.last = ev.Seq
	return true
}

func writeEvent(conn *websocket.Conn, ev game.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func closeWith(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}
