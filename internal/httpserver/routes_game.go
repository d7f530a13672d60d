// internal/httpserver/routes_game.go
//
// Game endpoints.
//   - POST   /game/new          → create an idle game, returns {gameId, token, state}
//   - GET    /game/{id}         → current state
//   - POST   /game/{id}/start   → Idle/Finished → Playing
//   - POST   /game/{id}/place   → {slotId, elementId} or {slotId, value}
//   - POST   /game/{id}/submit  → {result, state}
//   - POST   /game/{id}/restart → fresh session from any phase
//   - POST   /game/{id}/hint    → toggle hint
//   - DELETE /game/{id}         → close and forget the game
//
// Every /game/{id} route requires the token issued by /game/new.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/figrac0/quantum-game/internal/game"
)

// handleChallenges lists the catalog without answers or hints.
func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request) {
	all := s.catalog.All()
	out := make([]*game.ChallengeView, len(all))
	for i, ch := range all {
		out[i] = ch.View(false)
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(out), "challenges": out})
}

type newGameReq struct {
	Name  string `json:"name"`
	Start bool   `json:"start"` // start immediately instead of waiting for /start
}

type newGameRes struct {
	GameID    string    `json:"gameId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	State     game.View `json:"state"`
}

// handleNewGame creates a game, registers it, and issues its token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body is allowed
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	player := s.ensureAnonID(w, r)
	name := normalizeName(req.Name)

	g := game.New(s.catalog,
		game.WithClock(s.opts.Clock),
		game.WithSettings(s.opts.Settings),
		game.WithLogger(s.log),
	)
	if s.rec != nil {
		g.Subscribe(s.rec.listener(g.ID(), player, name))
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		s.log.Error().Err(err).Msg("save game")
		g.Close()
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	tok, exp, err := s.signGameToken(g.ID(), player, name)
	if err != nil {
		s.log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	if req.Start {
		if err := g.Start(); err != nil {
			writeGameError(w, err)
			return
		}
	}
	s.log.Info().Str("game", g.ID()).Str("player", player).Msg("game created")
	writeJSON(w, http.StatusCreated, newGameRes{GameID: g.ID(), Token: tok, ExpiresAt: exp, State: g.Snapshot()})
}

// gameFor loads the game named by the path; requireGameToken has already
// checked that the caller holds its token.
func (s *Server) gameFor(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	claims := claimsFrom(r.Context())
	g, err := s.store.Get(r.Context(), claims.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return g, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// command runs a state-changing game call and replies with the new state.
func (s *Server) command(op func(*game.Game) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.gameFor(w, r)
		if !ok {
			return
		}
		if err := op(g); err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g.Snapshot())
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.command((*game.Game).Start)(w, r)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.command((*game.Game).Restart)(w, r)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	s.command((*game.Game).ToggleHint)(w, r)
}

type placeReq struct {
	SlotID    string `json:"slotId"`
	ElementID string `json:"elementId"`
	Value     string `json:"value"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.SlotID == "" || (req.ElementID == "" && req.Value == "") {
		writeError(w, http.StatusBadRequest, "slot_and_element_required")
		return
	}
	s.command(func(g *game.Game) error {
		if req.ElementID != "" {
			return g.PlaceElement(req.SlotID, req.ElementID)
		}
		return g.Place(req.SlotID, req.Value)
	})(w, r)
}

type submitRes struct {
	Result game.Result `json:"result"`
	State  game.View   `json:"state"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameFor(w, r)
	if !ok {
		return
	}
	res, err := g.Submit()
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitRes{Result: res, State: g.Snapshot()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.store.Delete(r.Context(), claims.GameID); err != nil {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
