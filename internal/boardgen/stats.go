package boardgen

import (
	"fmt"

	"github.com/atang-sp/flying-chess/internal/game"
)

// MinTotalCells is the smallest board ValidateShape accepts.
const MinTotalCells = 20

// BoardStats counts cells per category. Reverse and rest cells share the
// special category on the board and are split out here. Start and finish
// are not counted as bonus cells.
type BoardStats struct {
	Total      int `json:"total"`
	Punishment int `json:"punishment"`
	Bonus      int `json:"bonus"`
	Reverse    int `json:"reverse"`
	Rest       int `json:"rest"`
	Restart    int `json:"restart"`
	Trap       int `json:"trap"`
	Normal     int `json:"normal"`
}

// Stats counts the cells of board by category.
func Stats(board []game.Cell) BoardStats {
	s := BoardStats{Total: len(board)}
	for _, c := range board {
		switch c.Category {
		case game.CategoryPunishment:
			s.Punishment++
		case game.CategoryBonus:
			if c.ID != 1 && c.ID != len(board) {
				s.Bonus++
			}
		case game.CategorySpecial:
			switch c.Effect.(type) {
			case game.ReverseEffect:
				s.Reverse++
			case game.RestEffect:
				s.Rest++
			}
		case game.CategoryRestart:
			s.Restart++
		case game.CategoryTrap:
			s.Trap++
		default:
			s.Normal++
		}
	}
	return s
}

// ShapeValidation is the result of ValidateShape.
type ShapeValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateShape checks that every count is non-negative, that the counts fit
// on the board and that the board is at least MinTotalCells long. Dynamic
// cells must have a known type and sit between start and finish.
func ValidateShape(shape game.BoardShape) ShapeValidation {
	var errs []string
	counts := []struct {
		name string
		n    int
	}{
		{"punishmentCells", shape.PunishmentCells},
		{"bonusCells", shape.BonusCells},
		{"reverseCells", shape.ReverseCells},
		{"restCells", shape.RestCells},
		{"restartCells", shape.RestartCells},
		{"trapCells", shape.TrapCells},
	}
	sum := 0
	for _, c := range counts {
		if c.n < 0 {
			errs = append(errs, fmt.Sprintf("%s must not be negative, got %d", c.name, c.n))
		}
		sum += c.n
	}
	if sum > shape.TotalCells {
		errs = append(errs, fmt.Sprintf("category counts add up to %d, more than the %d cells on the board", sum, shape.TotalCells))
	}
	if shape.TotalCells < MinTotalCells {
		errs = append(errs, fmt.Sprintf("totalCells must be at least %d, got %d", MinTotalCells, shape.TotalCells))
	}
	for _, d := range shape.DynamicCells {
		if d.Type == game.DynamicNone || !d.Type.Valid() {
			errs = append(errs, fmt.Sprintf("dynamic cell %d has unknown type %q", d.Position, d.Type))
		}
		if d.Position <= 1 || d.Position >= shape.TotalCells {
			errs = append(errs, fmt.Sprintf("dynamic cell position %d is outside the track", d.Position))
		}
	}
	return ShapeValidation{Valid: len(errs) == 0, Errors: errs}
}
