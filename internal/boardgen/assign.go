package boardgen

import (
	"sort"

	"github.com/atang-sp/flying-chess/internal/game"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

// Diversity scoring. A candidate starts at baseScore and loses a penalty for
// every nearby assignment sharing an attribute.
const (
	windowRadius   = 3
	baseScore      = 100
	toolPenalty    = 30
	partPenalty    = 20
	posturePenalty = 10
	minWindow      = 3
)

// Assign returns a copy of board with every punishment cell filled from
// pool, in ascending position order, picking for each cell the candidate
// that repeats least of what was assigned within windowRadius cells. Each
// assignment gets a fresh strike count and, for positions listed in
// dynamic, its dynamic type. An empty pool leaves the board unchanged.
func (g *Generator) Assign(board []game.Cell, pool []game.Combination, cfg *game.PunishmentConfig, dynamic []game.DynamicCell) []game.Cell {
	out := append([]game.Cell(nil), board...)
	if len(pool) == 0 {
		return out
	}

	dyn := make(map[int]game.DynamicCell, len(dynamic))
	for _, d := range dynamic {
		if !d.Type.Valid() || d.Type == game.DynamicNone {
			g.Logger.Warn("ignoring dynamic cell with unknown type",
				zap.Int("position", d.Position), zap.String("type", string(d.Type)))
			continue
		}
		dyn[d.Position] = d
	}

	var positions []int
	for _, c := range out {
		if c.Category == game.CategoryPunishment {
			positions = append(positions, c.ID)
		}
	}
	sort.Ints(positions)

	assigned := make(map[int]game.Combination, len(positions))
	for _, pos := range positions {
		c := g.pickDiverse(pool, window(assigned, pos))
		assigned[pos] = c

		a := game.Action{Combination: c}
		if cfg != nil {
			a.Strikes = game.MaterializeStrikeCount(g.Rand, cfg)
		}
		if d, ok := dyn[pos]; ok {
			a.DynamicType = d.Type
			if d.Type == game.DynamicDiceMultiplier {
				a.Multiplier = max(d.Multiplier, 1)
			}
		}
		a.Description = game.DescribeAction(a)

		cell := game.CellAt(out, pos)
		cell.Effect = game.PunishmentEffect{Action: a}
	}
	return out
}

// window collects the combinations assigned within windowRadius of pos,
// excluding pos itself.
func window(assigned map[int]game.Combination, pos int) []game.Combination {
	var w []game.Combination
	for q := pos - windowRadius; q <= pos+windowRadius; q++ {
		if q == pos {
			continue
		}
		if c, ok := assigned[q]; ok {
			w = append(w, c)
		}
	}
	return w
}

func (g *Generator) pickDiverse(pool []game.Combination, win []game.Combination) game.Combination {
	tools := mapset.New[string]()
	parts := mapset.New[string]()
	postures := mapset.New[string]()
	for _, c := range win {
		tools.Put(c.Tool.Name)
		parts.Put(c.BodyPart.Name)
		postures.Put(c.Posture.Name)
	}

	scores := make([]int, len(pool))
	var diverse []int
	for i, c := range pool {
		scores[i] = Score(c, win)
		absent := 0
		if !tools.Has(c.Tool.Name) {
			absent++
		}
		if !parts.Has(c.BodyPart.Name) {
			absent++
		}
		if !postures.Has(c.Posture.Name) {
			absent++
		}
		if len(win) < minWindow || absent >= 2 {
			diverse = append(diverse, i)
		}
	}

	candidates := diverse
	if len(candidates) == 0 {
		candidates = make([]int, len(pool))
		for i := range pool {
			candidates[i] = i
		}
	}

	best := -1
	var top []int
	for _, i := range candidates {
		switch {
		case scores[i] > best:
			best = scores[i]
			top = append(top[:0], i)
		case scores[i] == best:
			top = append(top, i)
		}
	}
	i, _ := game.Pick(g.Rand, top)
	return pool[i]
}

// Score rates c against the combinations in win: 100 minus 30 per shared
// tool, 20 per shared body part and 10 per shared posture, never below 0.
func Score(c game.Combination, win []game.Combination) int {
	s := baseScore
	for _, w := range win {
		if w.Tool.Name == c.Tool.Name {
			s -= toolPenalty
		}
		if w.BodyPart.Name == c.BodyPart.Name {
			s -= partPenalty
		}
		if w.Posture.Name == c.Posture.Name {
			s -= posturePenalty
		}
	}
	return max(s, 0)
}
