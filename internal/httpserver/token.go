// internal/httpserver/token.go
//
// Per-game access tokens. /game/new returns an HS256 JWT naming the game
// and the player; every /game/{id} route requires it, either as
// "Authorization: Bearer <token>" or, for WebSocket clients that cannot set
// headers, as ?token=<token>.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// gameClaims are the claims of a game token.
type gameClaims struct {
	GameID   string `json:"gid"`
	PlayerID string `json:"pid"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// signGameToken creates a token for gameID with the configured expiry.
func (s *Server) signGameToken(gameID, playerID, name string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, gameClaims{
		GameID:   gameID,
		PlayerID: playerID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString(s.opts.Secret)
	return ss, exp, err
}

// parseGameToken verifies signature, algorithm and expiry.
func (s *Server) parseGameToken(tok string) (*gameClaims, error) {
	claims := &gameClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.opts.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.GameID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// bearerOrQuery extracts a token from the Authorization header or ?token=.
func bearerOrQuery(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}

type ctxClaimsKey struct{}

func claimsFrom(ctx context.Context) *gameClaims {
	c, _ := ctx.Value(ctxClaimsKey{}).(*gameClaims)
	return c
}

// requireGameToken enforces a valid token for the game in the URL and
// injects its claims into the request context.
func (s *Server) requireGameToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrQuery(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := s.parseGameToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		if claims.GameID != chi.URLParam(r, "id") {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
