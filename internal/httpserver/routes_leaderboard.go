// internal/httpserver/routes_leaderboard.go
//
// Leaderboard endpoints:
//   - GET /leaderboard    → top runs for ?date=YYYY-MM-DD (default today, UTC), ?limit= (default 20, max 100)
//   - GET /leaderboard/me → the caller's recent runs, identified by the anon cookie

package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/figrac0/quantum-game/internal/leaderboard"
)

const maxLimit = 100

func (s *Server) mountLeaderboard(r chi.Router) {
	r.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", s.handleLeaderboard)
		r.Get("/me", s.handleMyResults)
	})
}

type leaderboardRes struct {
	Date    string               `json:"date"`
	Results []leaderboard.Result `json:"results"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = leaderboard.DateKey(time.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	rows, err := s.results.Top(r.Context(), date, limit)
	if err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("leaderboard query")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, leaderboardRes{Date: date, Results: rows})
}

func (s *Server) handleMyResults(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(anonCookieName)
	if err != nil || c.Value == "" {
		writeJSON(w, http.StatusOK, []leaderboard.Result{})
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	rows, err := s.results.ForPlayer(r.Context(), c.Value, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("player results query")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return leaderboard.DefaultLimit, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_limit")
		return 0, false
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, true
}
