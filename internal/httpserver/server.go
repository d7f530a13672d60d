// internal/httpserver/server.go
//
// HTTP server wiring for the quantum-game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, request log).
//   - Public endpoints: "/", "/health", "/challenges", "/debug/challenges".
//   - Game endpoints: POST /game/new, then /game/{id}/* guarded by the
//     per-game token returned from /game/new (see token.go).
//   - Leaderboard endpoints (routes_leaderboard.go), when a results store is configured.
//   - Live event stream over WebSocket (stream.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the anon cookie works).
//   - Finished runs are queued by a game listener and written by a single
//     background writer (recorder.go), so a game that ends on its own timer
//     is recorded too. Close flushes the queue.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/figrac0/quantum-game/internal/challenges"
	"github.com/figrac0/quantum-game/internal/clock"
	"github.com/figrac0/quantum-game/internal/game"
	"github.com/figrac0/quantum-game/internal/leaderboard"
	"github.com/figrac0/quantum-game/internal/store"
)

// Options configures a Server. Catalog, Store and Secret are required.
type Options struct {
	Catalog      *game.Catalog
	Settings     game.Settings
	Clock        clock.Clock        // nil means the wall clock
	Store        store.Store        // live games
	Results      *leaderboard.Store // nil disables the leaderboard
	Secret       []byte             // HMAC key for game tokens
	TokenTTL     time.Duration
	ClientOrigin string
	Secure       bool // Secure cookies (behind TLS)
	Logger       *zerolog.Logger
}

// Server bundles router, live game store, and results store.
type Server struct {
	r       *chi.Mux
	opts    Options
	log     zerolog.Logger
	catalog *game.Catalog
	store   store.Store
	results *leaderboard.Store
	rec     *recorder // nil without a results store
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 2 * time.Hour
	}
	opts.Settings = opts.Settings.WithDefaults()
	lg := log.Logger
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	s := &Server{
		r:       chi.NewRouter(),
		opts:    opts,
		log:     lg,
		catalog: opts.Catalog,
		store:   opts.Store,
		results: opts.Results,
	}
	if opts.Results != nil {
		s.rec = newRecorder(opts.Results, lg)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Everything except the stream is bounded in time.
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"quantum-game","endpoints":["/health","/challenges","POST /game/new","/game/{id}","/leaderboard"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/challenges", s.handleChallenges)
		r.Get("/debug/challenges", func(w http.ResponseWriter, r *http.Request) {
			src, levels, slots := challenges.Stats()
			writeJSON(w, http.StatusOK, map[string]any{
				"source": src, "levels": levels, "slots": slots, "liveGames": s.store.Len(),
			})
		})

		r.Post("/game/new", s.handleNewGame)

		if s.results != nil {
			s.mountLeaderboard(r)
		}
	})

	s.r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requireGameToken)
		r.Get("/ws", s.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Get("/", s.handleGetGame)
			r.Post("/start", s.handleStart)
			r.Post("/place", s.handlePlace)
			r.Post("/submit", s.handleSubmit)
			r.Post("/restart", s.handleRestart)
			r.Post("/hint", s.handleHint)
			r.Delete("/", s.handleDelete)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close flushes pending leaderboard writes and stops the writer. Call it
// after Start returns and before closing the database.
func (s *Server) Close() {
	if s.rec != nil {
		s.rec.close()
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	http.Error(w, `{"error":"`+code+`"}`, status)
}

// writeGameError maps engine errors onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotPlaying):
		writeError(w, http.StatusConflict, "not_playing")
	case errors.Is(err, game.ErrAlreadyPlaying):
		writeError(w, http.StatusConflict, "already_playing")
	case errors.Is(err, game.ErrAdvancing):
		writeError(w, http.StatusConflict, "advancing")
	case errors.Is(err, game.ErrClosed):
		writeError(w, http.StatusGone, "game_closed")
	default:
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

const anonCookieName = "quantum_anon"

// ensureAnonID returns an existing anon cookie or sets a new one.
// It is the player identity used by the leaderboard.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	sameSite := http.SameSiteLaxMode
	if s.opts.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

const maxNameLen = 24

// normalizeName trims and caps a display name.
func normalizeName(n string) string {
	n = strings.TrimSpace(n)
	if n == "" {
		return "anonymous"
	}
	if utf8.RuneCountInString(n) > maxNameLen {
		n = string([]rune(n)[:maxNameLen])
	}
	return n
}
