// Package web exposes games, board sheets and settings over a JSON API.
package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/session"
	"github.com/atang-sp/flying-chess/internal/settings"
	"github.com/atang-sp/flying-chess/internal/transfer"

	"go.uber.org/zap"
)

type Server struct {
	Store    session.Store[game.Game]
	Settings *settings.Cache
	Transfer *transfer.Transfer
	// Setup is used when nothing has been saved in Settings.
	Setup  game.Setup
	Rand   game.Source
	Logger *zap.Logger

	// locks holds a *sync.Mutex per game ID.
	locks sync.Map
}

const (
	cookieName   = "flyingchess_gid"
	maxBodyBytes = 1 << 20
)

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/current", s.handleCurrentGame)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("POST /api/games/{id}/roll", s.handleRoll)
	mux.HandleFunc("POST /api/games/{id}/apply", s.handleApply)
	mux.HandleFunc("GET /api/games/{id}/board.pdf", s.handleBoardPDF)
	mux.HandleFunc("GET /api/games/{id}/export", s.handleExport)

	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("POST /api/restore", s.handleRestore)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
	return s.logRequests(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Server) rand() game.Source {
	if s.Rand == nil {
		return game.CryptoSource()
	}
	return s.Rand
}

// lockGame serializes the load, change and store of one game and returns
// the unlock func.
func (s *Server) lockGame(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger().Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// decodeBody reads a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidDice):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrEffectPending),
		errors.Is(err, game.ErrNoPendingEffect):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
