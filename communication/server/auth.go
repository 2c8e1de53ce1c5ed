package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"hive/communication"
	"hive/game"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type ctxSeatKey struct{}

// signSeat issues the bearer token that lets its holder play color c in a game.
func (s *Server) signSeat(id string, c game.Color) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"game":  id,
		"color": c.String(),
		"exp":   now.Add(s.ttl).Unix(),
		"iat":   now.Unix(),
	})
	return t.SignedString(s.secret)
}

// parseSeat validates a token for game id and returns its color.
func (s *Server) parseSeat(tok, id string) (game.Color, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return game.White, errors.New("invalid token")
	}
	if g, _ := claims["game"].(string); g != id {
		return game.White, errors.New("token is for another game")
	}
	name, _ := claims["color"].(string)
	return game.ParseColor(name)
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(tok)
	}
	return ""
}

// requireSeat rejects requests without a valid seat token for the game in
// the path and stores the seat's color in the request context.
func (s *Server) requireSeat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearer(r)
		if tok == "" {
			writeJSON(w, http.StatusUnauthorized, communication.ErrorResponse{Error: "missing seat token"})
			return
		}
		c, err := s.parseSeat(tok, chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, communication.ErrorResponse{Error: err.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSeatKey{}, c)))
	})
}

func seatFrom(ctx context.Context) game.Color {
	c, _ := ctx.Value(ctxSeatKey{}).(game.Color)
	return c
}
