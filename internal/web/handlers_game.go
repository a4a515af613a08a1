package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/atang-sp/flying-chess/internal/boardgen"
	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/transfer"

	"go.uber.org/zap"
)

var errGameNotFound = errors.New("game not found")

type createGameRequest struct {
	Players      []string               `json:"players"`
	Setup        *game.Setup            `json:"setup"`
	BoardContent *transfer.BoardContent `json:"boardContent"`
}

type setupError struct {
	Error      string                    `json:"error"`
	Punishment *game.Validation          `json:"punishment,omitempty"`
	Board      *boardgen.ShapeValidation `json:"board,omitempty"`
}

// POST /api/games
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}

	setup := s.Setup
	if s.Settings != nil {
		setup = s.Settings.Setup(ctx, s.Setup)
	}
	if req.Setup != nil {
		setup = *req.Setup
	}
	if len(req.Players) > 0 {
		setup.Players = req.Players
	}

	if n := len(setup.Players); n < game.MinPlayers || n > game.MaxPlayers {
		writeError(w, http.StatusBadRequest, fmt.Errorf("need %d to %d players, got %d", game.MinPlayers, game.MaxPlayers, n))
		return
	}
	if err := setup.CheckNames(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if v := game.ValidateConfig(&setup.Punishment); !v.Valid {
		writeJSON(w, http.StatusBadRequest, setupError{Error: v.Message, Punishment: &v})
		return
	}

	var board []game.Cell
	if req.BoardContent != nil {
		board = req.BoardContent.Board
		if err := checkBoard(board); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	} else {
		if v := boardgen.ValidateShape(setup.Board); !v.Valid {
			writeJSON(w, http.StatusBadRequest, setupError{Error: "invalid board shape", Board: &v})
			return
		}
		var err error
		board, err = boardgen.New(s.rand(), s.logger()).Build(&setup)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	id := s.Store.NewID()
	g := game.NewGame(id, setup, board)
	if err := s.Store.Put(ctx, id, *g); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if s.Settings != nil {
		s.Settings.SaveSetup(ctx, setup)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger().Info("game created",
		zap.String("id", id),
		zap.Int("players", len(g.Players)),
		zap.Int("cells", len(board)))
	writeJSON(w, http.StatusCreated, g)
}

// checkBoard accepts a pre-built board only when its cells are numbered
// 1..n in order.
func checkBoard(board []game.Cell) error {
	if len(board) < 2 {
		return boardgen.ErrBoardTooSmall
	}
	for i, c := range board {
		if c.ID != i+1 {
			return fmt.Errorf("board cell %d out of order (id %d)", i+1, c.ID)
		}
	}
	return nil
}

// loadGame fetches the game named by the {id} path value, writing an error
// response when it cannot.
func (s *Server) loadGame(w http.ResponseWriter, r *http.Request) (*game.Game, bool) {
	return s.loadGameID(w, r, r.PathValue("id"))
}

func (s *Server) loadGameID(w http.ResponseWriter, r *http.Request, id string) (*game.Game, bool) {
	g, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	if !ok {
		writeError(w, http.StatusNotFound, errGameNotFound)
		return nil, false
	}
	// The stored game may share slices with other requests.
	return g.Clone(), true
}

// GET /api/games/{id}
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GET /api/games/current returns the game remembered in the cookie.
func (s *Server) handleCurrentGame(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		writeError(w, http.StatusNotFound, errGameNotFound)
		return
	}
	g, ok := s.loadGameID(w, r, c.Value)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type rollRequest struct {
	Dice *int `json:"dice"`
}

type rollResponse struct {
	Dice int             `json:"dice"`
	Turn game.TurnResult `json:"turn"`
	Game *game.Game      `json:"game"`
}

// POST /api/games/{id}/roll rolls for the current player, or uses the
// given dice value.
func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	defer s.lockGame(r.PathValue("id"))()
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	var req rollRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}
	var dice int
	if req.Dice != nil {
		dice = *req.Dice
	} else {
		dice = game.RollDice(s.rand())
	}

	res, err := g.Roll(s.rand(), dice)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := s.Store.Put(r.Context(), g.ID, *g); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rollResponse{Dice: dice, Turn: res, Game: g})
}

type applyResponse struct {
	Effect game.CellOutcome `json:"effect"`
	Game   *game.Game       `json:"game"`
}

// POST /api/games/{id}/apply
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	defer s.lockGame(r.PathValue("id"))()
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	out, err := g.ApplyPending()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := s.Store.Put(r.Context(), g.ID, *g); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, applyResponse{Effect: out, Game: g})
}
