package game

import (
	"errors"
	"fmt"
)

// Status is the phase of a game's turn cycle.
type Status string

const (
	StatusWaiting       Status = "waiting"
	StatusShowingEffect Status = "showing_effect"
	StatusFinished      Status = "finished"
)

var (
	ErrGameOver        = errors.New("game is over")
	ErrEffectPending   = errors.New("a cell effect is waiting to be applied")
	ErrNoPendingEffect = errors.New("no cell effect to apply")
	ErrInvalidDice     = errors.New("dice value out of range")
)

// Game is one match in progress. It is stored as JSON between requests, so
// everything it needs lives in exported fields.
type Game struct {
	ID          string       `json:"id"`
	Players     []Player     `json:"players"`
	Current     int          `json:"currentPlayer"`
	Board       []Cell       `json:"board"`
	Setup       Setup        `json:"setup"`
	Status      Status       `json:"status"`
	PendingCell int          `json:"pendingCell,omitempty"`
	Winner      *int         `json:"winner,omitempty"`
	Turn        int          `json:"turn"`
	LastDice    int          `json:"lastDice,omitempty"`
	LastTurn    *TurnResult  `json:"lastTurn,omitempty"`
	LastEffect  *CellOutcome `json:"lastEffect,omitempty"`
}

// NewGame seats setup.Players on board.
func NewGame(id string, setup Setup, board []Cell) *Game {
	return &Game{
		ID:      id,
		Players: NewPlayers(setup.Players),
		Board:   board,
		Setup:   setup,
		Status:  StatusWaiting,
		Turn:    1,
	}
}

// Clone returns a copy of g that can be changed without touching g.
// Cells hold only value types and finished turn results are never
// changed, so those are shared.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = append([]Player(nil), g.Players...)
	c.Board = append([]Cell(nil), g.Board...)
	if g.Winner != nil {
		w := *g.Winner
		c.Winner = &w
	}
	return &c
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return &g.Players[g.Current]
}

// Pending returns the effect waiting to be applied, if any.
func (g *Game) Pending() Effect {
	if g.Status != StatusShowingEffect {
		return nil
	}
	if c := CellAt(g.Board, g.PendingCell); c != nil {
		return c.Effect
	}
	return nil
}

// Roll plays the current player's turn with the given dice value. A landing
// cell with a positional effect leaves the game in StatusShowingEffect
// until ApplyPending is called; otherwise the turn passes on.
func (g *Game) Roll(src Source, dice int) (TurnResult, error) {
	switch {
	case g.Status == StatusFinished:
		return TurnResult{}, ErrGameOver
	case g.Status == StatusShowingEffect:
		return TurnResult{}, ErrEffectPending
	case dice < DiceMin || dice > DiceMax:
		return TurnResult{}, fmt.Errorf("%w: %d", ErrInvalidDice, dice)
	case len(g.Players) == 0:
		return TurnResult{}, ErrGameOver
	}

	e := NewEngine(&g.Setup.Punishment, src, nil)
	res := e.ResolveTurn(&g.Players[g.Current], dice, g.Board, g.Current, len(g.Players))
	g.LastDice = dice
	g.LastTurn = &res
	g.LastEffect = nil

	switch {
	case res.Won:
		g.finish(g.Current)
	case positional(res.CellEffect):
		g.PendingCell = res.NewPosition
		g.Status = StatusShowingEffect
	default:
		g.advance()
	}
	return res, nil
}

// ApplyPending carries out the effect of the cell the current player
// landed on and passes the turn.
func (g *Game) ApplyPending() (CellOutcome, error) {
	eff := g.Pending()
	if eff == nil {
		return CellOutcome{}, ErrNoPendingEffect
	}
	p := &g.Players[g.Current]
	out := ApplyCellEffect(*p, eff, len(g.Board))
	p.Position = out.NewPosition
	if r, ok := eff.(RestEffect); ok {
		p.RestTurns = r.Turns
	}
	g.PendingCell = 0
	g.Status = StatusWaiting
	g.LastEffect = &out

	if _, ok := eff.(MoveEffect); ok && CheckWinner(*p, len(g.Board)) {
		p.IsWinner = true
		g.finish(g.Current)
		return out, nil
	}
	g.advance()
	return out, nil
}

func positional(eff Effect) bool {
	switch eff.(type) {
	case MoveEffect, ReverseEffect, RestEffect, RestartEffect:
		return true
	}
	return false
}

func (g *Game) finish(winner int) {
	w := winner
	g.Winner = &w
	g.Status = StatusFinished
}

// advance hands the turn to the next player who is neither a winner nor
// resting. Resting players lose one rest turn each time they are skipped.
func (g *Game) advance() {
	n := len(g.Players)
	active := 0
	for _, p := range g.Players {
		if !p.IsWinner {
			active++
		}
	}
	if active == 0 {
		return
	}
	next := g.Current
	for {
		next = NextPlayer(next, n)
		p := &g.Players[next]
		if p.IsWinner {
			continue
		}
		if p.RestTurns > 0 {
			p.RestTurns--
			continue
		}
		break
	}
	g.Current = next
	g.Turn++
}

// SimulationResult summarizes an automatically played game.
type SimulationResult struct {
	Turns           int  `json:"turns"`
	Winner          *int `json:"winner,omitempty"`
	Punishments     int  `json:"punishments"`
	Strikes         int  `json:"strikes"`
	TakeoffFailures int  `json:"takeoffFailures"`
	ForcedTakeoffs  int  `json:"forcedTakeoffs"`
	EffectsApplied  int  `json:"effectsApplied"`
}

// Simulate plays a whole game on board with random dice, applying every
// cell effect as soon as it is shown. It stops after maxTurns rolls when
// nobody has won.
func Simulate(src Source, setup Setup, board []Cell, maxTurns int) SimulationResult {
	g := NewGame("", setup, board)
	var r SimulationResult
	for r.Turns < maxTurns && g.Status != StatusFinished {
		grounded := g.CurrentPlayer().Grounded()
		res, err := g.Roll(src, RollDice(src))
		if err != nil {
			break
		}
		r.Turns++
		if res.ForcedTakeoff {
			r.ForcedTakeoffs++
		} else if grounded && !res.CanTakeOff {
			r.TakeoffFailures++
		}
		if res.Punishment != nil {
			r.Punishments++
			r.Strikes += res.Punishment.Strikes
		}
		if g.Status == StatusShowingEffect {
			if _, err := g.ApplyPending(); err != nil {
				break
			}
			r.EffectsApplied++
		}
	}
	r.Winner = g.Winner
	return r
}
