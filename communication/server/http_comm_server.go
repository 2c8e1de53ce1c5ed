package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hive/communication"
	"hive/game"
	"hive/gamemaster"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a GameMaster over HTTP.
type Server struct {
	r      *chi.Mux
	gm     *gamemaster.GameMaster
	secret []byte
	ttl    time.Duration
}

// New constructs a Server, installs middleware, and registers routes.
// Seat tokens are signed with secret and expire after ttl.
func New(gm *gamemaster.GameMaster, secret string, ttl time.Duration) *Server {
	s := &Server{r: chi.NewRouter(), gm: gm, secret: []byte(secret), ttl: ttl}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)

	// the update stream is long-lived and stays outside the request timeout
	s.r.Get("/games/{id}/ws", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Post("/games", s.handleCreate)
		r.Get("/games", s.handleList)
		r.Get("/games/{id}", s.handleView)
		r.Get("/games/{id}/actions", s.handleLegalActions)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSeat)
			r.Post("/games/{id}/actions", s.handleAction)
			r.Post("/games/{id}/place", s.handlePlace)
			r.Post("/games/{id}/move", s.handleMove)
			r.Post("/games/{id}/pass", s.handlePass)
			r.Post("/games/{id}/turn", s.handleTurn)
			r.Post("/games/{id}/control", s.handleControl)
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeJSON(w, http.StatusNotFound, communication.ErrorResponse{Error: "not found: " + r.URL.Path})
	})

	return s
}

// Start serves on addr until ctx is cancelled, then drains open requests.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("serving games")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	var gameErr *game.Error
	switch {
	case errors.Is(err, gamemaster.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, gamemaster.ErrNotYourTurn):
		return http.StatusForbidden
	case errors.As(err, &gameErr):
		switch gameErr.Kind {
		case game.InputMalformed:
			return http.StatusBadRequest
		case game.GameAlreadyFinished, game.IllegalControl:
			return http.StatusConflict
		default:
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := communication.ErrorResponse{Error: err.Error()}
	var gameErr *game.Error
	if errors.As(err, &gameErr) {
		resp.Kind = gameErr.Kind.String()
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, resp)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "invalid json: " + err.Error(), Kind: game.InputMalformed.String()})
		return false
	}
	return true
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req communication.CreateRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	t := game.BaseMLP
	if req.GameType != "" {
		var err error
		if t, err = game.ParseGameType(req.GameType); err != nil {
			writeError(w, err)
			return
		}
	}
	rules := game.NewStandardRules()
	if req.Rules != nil {
		rules = *req.Rules
	}

	sess, err := s.gm.Create(r.Context(), t, rules)
	if err != nil {
		writeError(w, err)
		return
	}
	tokens := make(map[string]string, 2)
	for _, c := range []game.Color{game.White, game.Black} {
		tok, err := s.signSeat(sess.ID, c)
		if err != nil {
			writeError(w, err)
			return
		}
		tokens[c.String()] = tok
	}
	writeJSON(w, http.StatusCreated, communication.CreateResponse{ID: sess.ID, Tokens: tokens, View: sess.View()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.gm.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*gamemaster.Session, bool) {
	sess, err := s.gm.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleLegalActions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	actions := sess.LegalActions()
	if actions == nil {
		actions = []game.Action{}
	}
	writeJSON(w, http.StatusOK, actions)
}

// play runs an action for the seat of the request.
func (s *Server) play(w http.ResponseWriter, r *http.Request, a game.Action) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := sess.Play(r.Context(), seatFrom(r.Context()), a)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var a game.Action
	if decode(w, r, &a) {
		s.play(w, r, a)
	}
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req communication.PlaceRequest
	if decode(w, r, &req) {
		s.play(w, r, game.PlaceOf(req.Piece, req.To))
	}
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req communication.MoveRequest
	if decode(w, r, &req) {
		s.play(w, r, game.MoveOf(req.Piece, req.From, req.To))
	}
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	s.play(w, r, game.PassOf())
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req communication.TurnRequest
	if !decode(w, r, &req) {
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := sess.PlayTurn(r.Context(), seatFrom(r.Context()), req.Piece, req.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var req communication.ControlRequest
	if !decode(w, r, &req) {
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := sess.Control(r.Context(), game.NewControl(req.Kind, seatFrom(r.Context())))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
