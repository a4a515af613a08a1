package game

import (
	"encoding/json"
	"fmt"
)

// Category is the kind of a board cell.
type Category string

const (
	CategoryPunishment Category = "punishment"
	CategoryBonus      Category = "bonus"
	CategorySpecial    Category = "special" // reverse and rest cells
	CategoryRestart    Category = "restart"
	CategoryTrap       Category = "trap"
	CategoryNormal     Category = "normal"
)

// EffectType tags the payload carried by a cell.
type EffectType string

const (
	EffectMove       EffectType = "move"
	EffectReverse    EffectType = "reverse"
	EffectRest       EffectType = "rest"
	EffectRestart    EffectType = "restart"
	EffectPunishment EffectType = "punishment"
	EffectTrap       EffectType = "trap"
)

// EffectTypes lists every effect tag known to the engine.
var EffectTypes = []EffectType{
	EffectMove, EffectReverse, EffectRest, EffectRestart, EffectPunishment, EffectTrap,
}

// Effect is what happens when a player lands on a cell. The concrete types
// are MoveEffect, ReverseEffect, RestEffect, RestartEffect, PunishmentEffect
// and TrapEffect.
type Effect interface {
	Type() EffectType
	Value() int
	Description() string
}

// MoveEffect moves the player forward by Delta cells. Start, end and normal
// cells carry a zero-delta move.
type MoveEffect struct {
	Delta int
	Text  string
}

func (e MoveEffect) Type() EffectType    { return EffectMove }
func (e MoveEffect) Value() int          { return e.Delta }
func (e MoveEffect) Description() string { return e.Text }

// ReverseEffect moves the player back by Steps cells, never past the start.
type ReverseEffect struct {
	Steps int
	Text  string
}

func (e ReverseEffect) Type() EffectType    { return EffectReverse }
func (e ReverseEffect) Value() int          { return e.Steps }
func (e ReverseEffect) Description() string { return e.Text }

// RestEffect makes the player skip Turns turns.
type RestEffect struct {
	Turns int
	Text  string
}

func (e RestEffect) Type() EffectType    { return EffectRest }
func (e RestEffect) Value() int          { return e.Turns }
func (e RestEffect) Description() string { return e.Text }

// RestartEffect sends the player back to the start cell.
type RestartEffect struct {
	Text string
}

func (e RestartEffect) Type() EffectType    { return EffectRestart }
func (e RestartEffect) Value() int          { return 0 }
func (e RestartEffect) Description() string { return e.Text }

// PunishmentEffect carries the punishment assigned to the cell.
type PunishmentEffect struct {
	Action Action
}

func (e PunishmentEffect) Type() EffectType    { return EffectPunishment }
func (e PunishmentEffect) Value() int          { return 0 }
func (e PunishmentEffect) Description() string { return e.Action.Description }

// TrapEffect carries a trap's flavor text.
type TrapEffect struct {
	Trap TrapAction
}

func (e TrapEffect) Type() EffectType    { return EffectTrap }
func (e TrapEffect) Value() int          { return 0 }
func (e TrapEffect) Description() string { return e.Trap.Description }

// Cell is one board position. ID equals the 1-based position on the board.
type Cell struct {
	ID       int
	Category Category
	Effect   Effect
}

type effectJSON struct {
	Type        EffectType  `json:"type"`
	Value       int         `json:"value"`
	Description string      `json:"description"`
	Name        string      `json:"name,omitempty"`
	Punishment  *Action     `json:"punishment,omitempty"`
	DynamicType DynamicType `json:"dynamicType,omitempty"`
	Multiplier  int         `json:"multiplier,omitempty"`
}

type cellJSON struct {
	ID       int         `json:"id"`
	Type     Category    `json:"type"`
	Position int         `json:"position"`
	Effect   *effectJSON `json:"effect,omitempty"`
}

// MarshalJSON writes the cell in the board-content wire format used by
// exported files.
func (c Cell) MarshalJSON() ([]byte, error) {
	out := cellJSON{ID: c.ID, Type: c.Category, Position: c.ID}
	if c.Effect != nil {
		ej := &effectJSON{
			Type:        c.Effect.Type(),
			Value:       c.Effect.Value(),
			Description: c.Effect.Description(),
		}
		switch e := c.Effect.(type) {
		case PunishmentEffect:
			a := e.Action
			ej.Punishment = &a
			ej.DynamicType = a.DynamicType
			ej.Multiplier = a.Multiplier
		case TrapEffect:
			ej.Name = e.Trap.Name
		}
		out.Effect = ej
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a cell in the board-content wire format.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var in cellJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	id := in.ID
	if id == 0 {
		id = in.Position
	}
	c.ID = id
	c.Category = in.Type
	c.Effect = nil
	if in.Effect == nil {
		return nil
	}
	e := in.Effect
	switch e.Type {
	case EffectMove:
		c.Effect = MoveEffect{Delta: e.Value, Text: e.Description}
	case EffectReverse:
		c.Effect = ReverseEffect{Steps: e.Value, Text: e.Description}
	case EffectRest:
		c.Effect = RestEffect{Turns: e.Value, Text: e.Description}
	case EffectRestart:
		c.Effect = RestartEffect{Text: e.Description}
	case EffectPunishment:
		var a Action
		if e.Punishment != nil {
			a = *e.Punishment
		} else {
			a.Description = e.Description
		}
		if a.DynamicType == DynamicNone {
			a.DynamicType = e.DynamicType
			a.Multiplier = e.Multiplier
		}
		c.Effect = PunishmentEffect{Action: a}
	case EffectTrap:
		c.Effect = TrapEffect{Trap: TrapAction{Name: e.Name, Description: e.Description}}
	default:
		return fmt.Errorf("cell %d: unknown effect type %q", id, e.Type)
	}
	return nil
}

// CellAt returns the cell at the 1-based position, or nil when the
// position is off the board.
func CellAt(board []Cell, position int) *Cell {
	if position >= 1 && position <= len(board) && board[position-1].ID == position {
		return &board[position-1]
	}
	for i := range board {
		if board[i].ID == position {
			return &board[i]
		}
	}
	return nil
}
