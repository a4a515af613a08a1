// Package boardgen lays out flying-chess boards: it scatters cell categories
// over the track and fills punishment cells with varied combinations.
package boardgen

import (
	"errors"
	"fmt"

	"github.com/atang-sp/flying-chess/internal/game"

	"go.uber.org/zap"
)

var (
	ErrEmptyTrapPool = errors.New("trap cells requested but the trap pool is empty")
	ErrBoardTooSmall = errors.New("board needs at least a start and an end cell")
)

var (
	bonusDeltas   = []int{2, 3}
	reverseDeltas = []int{2, 3}
)

const restTurns = 1

// Generator builds boards from one random source.
type Generator struct {
	Rand   game.Source
	Logger *zap.Logger
}

// New returns a Generator. A nil src uses crypto randomness and a nil
// logger discards output.
func New(src game.Source, logger *zap.Logger) *Generator {
	if src == nil {
		src = game.CryptoSource()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{Rand: src, Logger: logger}
}

// Generate lays out a board of shape.TotalCells cells. Cell 1 and the last
// cell are fixed start and finish markers; the rest are shuffled and handed
// out to the categories in order punishment, bonus, reverse, rest, restart,
// trap, each getting at most what is left. Uncovered cells are normal.
// Punishment cells get a combination with no strike count yet; Assign
// settles those.
func (g *Generator) Generate(cfg *game.PunishmentConfig, shape game.BoardShape, traps []game.TrapAction) ([]game.Cell, error) {
	total := shape.TotalCells
	if total < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBoardTooSmall, total)
	}
	if shape.TrapCells > 0 && len(traps) == 0 {
		return nil, ErrEmptyTrapPool
	}

	board := make([]game.Cell, total)
	for i := range board {
		board[i] = game.Cell{ID: i + 1, Category: game.CategoryNormal, Effect: game.MoveEffect{}}
	}
	board[0] = game.Cell{ID: 1, Category: game.CategoryBonus, Effect: game.MoveEffect{Text: "Start"}}
	board[total-1] = game.Cell{ID: total, Category: game.CategoryBonus, Effect: game.MoveEffect{Text: "Finish"}}

	free := make([]int, 0, total-2)
	for pos := 2; pos < total; pos++ {
		free = append(free, pos)
	}
	game.Shuffle(g.Rand, free)

	take := func(n int) []int {
		n = max(0, min(n, len(free)))
		out := free[:n]
		free = free[n:]
		return out
	}

	for _, pos := range take(shape.PunishmentCells) {
		board[pos-1] = g.punishmentCell(cfg, pos)
	}
	for _, pos := range take(shape.BonusCells) {
		d, _ := game.Pick(g.Rand, bonusDeltas)
		board[pos-1] = game.Cell{ID: pos, Category: game.CategoryBonus,
			Effect: game.MoveEffect{Delta: d, Text: fmt.Sprintf("Forward %d", d)}}
	}
	for _, pos := range take(shape.ReverseCells) {
		d, _ := game.Pick(g.Rand, reverseDeltas)
		board[pos-1] = game.Cell{ID: pos, Category: game.CategorySpecial,
			Effect: game.ReverseEffect{Steps: d, Text: fmt.Sprintf("Back %d", d)}}
	}
	for _, pos := range take(shape.RestCells) {
		board[pos-1] = game.Cell{ID: pos, Category: game.CategorySpecial,
			Effect: game.RestEffect{Turns: restTurns, Text: fmt.Sprintf("Rest %d turn", restTurns)}}
	}
	for _, pos := range take(shape.RestartCells) {
		board[pos-1] = game.Cell{ID: pos, Category: game.CategoryRestart,
			Effect: game.RestartEffect{Text: "Back to the start"}}
	}
	for _, pos := range take(shape.TrapCells) {
		trap, _ := game.Pick(g.Rand, traps)
		board[pos-1] = game.Cell{ID: pos, Category: game.CategoryTrap, Effect: game.TrapEffect{Trap: trap}}
	}

	s := Stats(board)
	g.Logger.Debug("board generated",
		zap.Int("total", s.Total),
		zap.Int("punishment", s.Punishment),
		zap.Int("bonus", s.Bonus),
		zap.Int("reverse", s.Reverse),
		zap.Int("rest", s.Rest),
		zap.Int("restart", s.Restart),
		zap.Int("trap", s.Trap),
		zap.Int("normal", s.Normal))
	return board, nil
}

func (g *Generator) punishmentCell(cfg *game.PunishmentConfig, pos int) game.Cell {
	var a game.Action
	if cfg != nil {
		if c, ok := game.ResolveCombination(g.Rand, cfg); ok {
			a.Combination = c
		}
	}
	if a.Description == "" {
		a.Description = "Punishment"
	}
	return game.Cell{ID: pos, Category: game.CategoryPunishment, Effect: game.PunishmentEffect{Action: a}}
}

// Build generates a board for setup, draws a combination pool the size of
// the punishment slice and assigns it.
func (g *Generator) Build(setup *game.Setup) ([]game.Cell, error) {
	board, err := g.Generate(&setup.Punishment, setup.Board, setup.Traps)
	if err != nil {
		return nil, err
	}
	n := Stats(board).Punishment
	pool := game.GenerateCombinationPool(g.Rand, &setup.Punishment, n)
	return g.Assign(board, pool, &setup.Punishment, setup.Board.DynamicCells), nil
}
