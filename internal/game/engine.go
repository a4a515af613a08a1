package game

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	DiceMin = 1
	DiceMax = 6
	// TakeoffRoll is the roll a grounded player needs to enter the board.
	TakeoffRoll = DiceMax
)

// Engine resolves turns against one punishment configuration.
type Engine struct {
	Config *PunishmentConfig
	Rand   Source
	Logger *zap.Logger
}

// NewEngine returns an Engine with a crypto-backed Source when src is nil.
func NewEngine(cfg *PunishmentConfig, src Source, logger *zap.Logger) *Engine {
	if src == nil {
		src = CryptoSource()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Config: cfg, Rand: src, Logger: logger}
}

// TurnResult describes what a dice roll did. Positional cell effects are
// only reported in CellEffect; ApplyCellEffect carries them out.
type TurnResult struct {
	NewPosition       int     `json:"newPosition"`
	Description       string  `json:"description,omitempty"`
	Punishment        *Action `json:"punishment,omitempty"`
	TargetPlayerIndex *int    `json:"targetPlayerIndex,omitempty"`
	CellEffect        Effect  `json:"-"`
	CanTakeOff        bool    `json:"canTakeOff,omitempty"`
	ExecutorIndex     *int    `json:"executorIndex,omitempty"`
	ForcedTakeoff     bool    `json:"forcedTakeoff,omitempty"`
	Won               bool    `json:"won,omitempty"`
}

// ResolveTurn applies a dice roll for the player at index current. Takeoff
// state, failed attempts and the landing position are updated on p in
// place; secondary cell effects are left for ApplyCellEffect.
func (e *Engine) ResolveTurn(p *Player, dice int, board []Cell, current, total int) TurnResult {
	p.IsMoving = true
	defer func() { p.IsMoving = false }()
	if total < 1 {
		total = 1
	}

	if p.Grounded() {
		return e.resolveGrounded(p, dice, current, total)
	}

	last := len(board)
	res := TurnResult{NewPosition: min(p.Position+dice, last)}
	p.Position = res.NewPosition

	switch res.NewPosition {
	case last:
		p.IsWinner = true
		res.Won = true
		res.Description = "Reached the finish! Victory!"
		return res
	case 1:
		res.Description = "Landed on the airfield, safe"
		return res
	}

	cell := CellAt(board, res.NewPosition)
	if cell == nil || cell.Effect == nil {
		res.Description = fmt.Sprintf("Moved to cell %d", res.NewPosition)
		return res
	}

	switch eff := cell.Effect.(type) {
	case PunishmentEffect:
		a, target := resolveDynamic(eff.Action, dice, current, total)
		res.CellEffect = eff
		res.Punishment = &a
		res.TargetPlayerIndex = &target
		res.Description = "Punishment: " + a.Description
	case TrapEffect:
		res.CellEffect = eff
		res.Description = "Trap: " + eff.Trap.Description
		if e.Config != nil && e.Config.RandomTrapPunishment {
			if a, ok := RandomPunishment(e.Rand, e.Config); ok {
				target := current
				res.Punishment = &a
				res.TargetPlayerIndex = &target
			}
		}
	case MoveEffect:
		if eff.Delta == 0 {
			res.Description = fmt.Sprintf("Moved to cell %d", res.NewPosition)
			break
		}
		res.CellEffect = eff
		res.Description = fmt.Sprintf("Moved to cell %d, forward %d bonus", res.NewPosition, eff.Delta)
	case ReverseEffect:
		res.CellEffect = eff
		res.Description = fmt.Sprintf("Moved to cell %d, back %d", res.NewPosition, eff.Steps)
	case RestEffect:
		res.CellEffect = eff
		res.Description = fmt.Sprintf("Moved to cell %d, rest %d turn(s)", res.NewPosition, eff.Turns)
	case RestartEffect:
		res.CellEffect = eff
		res.Description = fmt.Sprintf("Moved to cell %d, back to the start", res.NewPosition)
	}
	return res
}

func (e *Engine) resolveGrounded(p *Player, dice, current, total int) TurnResult {
	if dice == TakeoffRoll {
		takeOff(p)
		return TurnResult{NewPosition: 1, CanTakeOff: true, Description: "Takeoff! Moved to cell 1"}
	}

	p.FailedTakeoffAttempts++
	if e.Config != nil && e.Config.MaxTakeoffFailures > 0 && p.FailedTakeoffAttempts >= e.Config.MaxTakeoffFailures {
		e.Logger.Debug("forced takeoff",
			zap.Int("player", p.ID),
			zap.Int("attempts", p.FailedTakeoffAttempts))
		takeOff(p)
		return TurnResult{
			NewPosition:   1,
			CanTakeOff:    true,
			ForcedTakeoff: true,
			Description:   "Too many failed takeoffs, forced takeoff to cell 1",
		}
	}

	res := TurnResult{NewPosition: p.Position, Description: "Takeoff failed!"}
	if e.Config == nil {
		return res
	}
	if a, ok := RandomPunishment(e.Rand, e.Config); ok {
		a.Description = "Takeoff failed: " + a.Description
		target := current
		res.Punishment = &a
		res.TargetPlayerIndex = &target
	}
	if total > 1 {
		executor := intn(e.Rand, total-1)
		if executor >= current {
			executor++
		}
		res.ExecutorIndex = &executor
	}
	return res
}

func takeOff(p *Player) {
	p.HasTakenOff = true
	p.FailedTakeoffAttempts = 0
	p.Position = 1
}

// resolveDynamic settles the target and strike count of a dynamic
// punishment for the current roll.
func resolveDynamic(a Action, dice, current, total int) (Action, int) {
	target := current
	switch a.DynamicType {
	case DynamicDiceMultiplier:
		m := a.Multiplier
		if m <= 0 {
			m = 1
		}
		a.Strikes = dice * m
		a.Description = DescribeStrikes(a.Combination, a.Strikes)
	case DynamicPreviousPlayer:
		target = (current - 1 + total) % total
	case DynamicNextPlayer:
		target = (current + 1) % total
	case DynamicOtherPlayerChoice:
		a.Strikes = 0
	}
	return a, target
}

// CellOutcome is the result of applying a cell effect.
type CellOutcome struct {
	NewPosition  int    `json:"newPosition"`
	Description  string `json:"description"`
	FromPosition int    `json:"fromPosition"`
	ToPosition   int    `json:"toPosition"`
}

// ApplyCellEffect computes where an effect leaves the player. Forward moves
// clamp to [0, totalCells], reverse moves to [1, totalCells]; restart goes to
// cell 1 and the other effects leave the position unchanged.
func ApplyCellEffect(p Player, eff Effect, totalCells int) CellOutcome {
	from := p.Position
	out := CellOutcome{NewPosition: from, FromPosition: from, ToPosition: from}
	if eff == nil {
		out.Description = "No effect"
		return out
	}

	desc := eff.Description()
	switch e := eff.(type) {
	case MoveEffect:
		out.NewPosition = clamp(from+e.Delta, 0, totalCells)
		if desc == "" {
			desc = fmt.Sprintf("Forward %d", e.Delta)
		}
	case ReverseEffect:
		out.NewPosition = clamp(from-e.Steps, 1, totalCells)
		if desc == "" {
			desc = fmt.Sprintf("Back %d", e.Steps)
		}
	case RestEffect:
		if desc == "" {
			desc = fmt.Sprintf("Rest %d turn(s)", e.Turns)
		}
	case RestartEffect:
		out.NewPosition = 1
		if desc == "" {
			desc = "Back to the start"
		}
	case PunishmentEffect:
		if desc == "" {
			desc = "Take the punishment"
		}
	case TrapEffect:
		if desc == "" {
			desc = "Trap"
		}
	default:
		desc = "Unknown effect"
	}
	out.Description = desc
	out.ToPosition = out.NewPosition
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NextPlayer returns the index after current, wrapping around.
func NextPlayer(current, total int) int {
	if total <= 0 {
		return 0
	}
	return (current + 1) % total
}

// CheckWinner reports whether p has reached the end of a board of
// totalCells cells.
func CheckWinner(p Player, totalCells int) bool {
	return p.Position >= totalCells
}
