package game

import (
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"
)

// Describe builds the human-readable text for a combination.
func Describe(tool Tool, part BodyPart, posture Posture) string {
	return fmt.Sprintf("%s on the %s, posture: %s", tool.Name, part.Name, posture.Name)
}

// DescribeStrikes builds the text for a combination with a strike count.
func DescribeStrikes(c Combination, strikes int) string {
	return fmt.Sprintf("%s on the %s x%d, posture: %s", c.Tool.Name, c.BodyPart.Name, strikes, c.Posture.Name)
}

// DescribeAction builds the text shown on a punishment cell. Dynamic
// actions say who is targeted or how the count is decided instead of
// giving a fixed count.
func DescribeAction(a Action) string {
	c := a.Combination
	base := Describe(c.Tool, c.BodyPart, c.Posture)
	switch a.DynamicType {
	case DynamicDiceMultiplier:
		return fmt.Sprintf("%s (dice x %d)", base, max(a.Multiplier, 1))
	case DynamicPreviousPlayer:
		return "Previous player: " + DescribeStrikes(c, a.Strikes)
	case DynamicNextPlayer:
		return "Next player: " + DescribeStrikes(c, a.Strikes)
	case DynamicOtherPlayerChoice:
		return base + " (count decided by other players)"
	}
	return DescribeStrikes(c, a.Strikes)
}

// NewCombination assembles a combination and its description.
func NewCombination(tool Tool, part BodyPart, posture Posture) Combination {
	return Combination{
		Tool:        tool,
		BodyPart:    part,
		Posture:     posture,
		Description: Describe(tool, part, posture),
	}
}

// ResolveCombination picks a tool by weight, then a body part that can
// tolerate it, then an independent posture. When no body part tolerates the
// tool the most tolerant one is used. ok is false only when a pool is empty.
func ResolveCombination(src Source, cfg *PunishmentConfig) (Combination, bool) {
	tool, ok := SelectByWeight(src, cfg.Tools)
	if !ok {
		return Combination{}, false
	}
	part, ok := compatibleBodyPart(src, tool, cfg.BodyParts)
	if !ok {
		return Combination{}, false
	}
	posture, ok := SelectByWeight(src, cfg.Postures)
	if !ok {
		return Combination{}, false
	}
	return NewCombination(tool, part, posture), true
}

func compatibleBodyPart(src Source, tool Tool, parts []BodyPart) (BodyPart, bool) {
	if len(parts) == 0 {
		return BodyPart{}, false
	}
	compatible := make([]BodyPart, 0, len(parts))
	for _, p := range parts {
		if p.Tolerance >= tool.Intensity {
			compatible = append(compatible, p)
		}
	}
	if len(compatible) > 0 {
		return SelectByWeight(src, compatible)
	}
	return mostTolerant(parts), true
}

func mostTolerant(parts []BodyPart) BodyPart {
	best := parts[0]
	for _, p := range parts[1:] {
		if p.Tolerance > best.Tolerance {
			best = p
		}
	}
	return best
}

// RandomPunishment resolves a combination and gives it a strike count.
func RandomPunishment(src Source, cfg *PunishmentConfig) (Action, bool) {
	c, ok := ResolveCombination(src, cfg)
	if !ok {
		return Action{}, false
	}
	strikes := MaterializeStrikeCount(src, cfg)
	c.Description = DescribeStrikes(c, strikes)
	return Action{Combination: c, Strikes: strikes}, true
}

// MaterializeStrikeCount draws a strike count that is a multiple of the
// strike step within [MinStrikes, MaxStrikes]. When no multiple fits the
// range, MinStrikes is returned.
func MaterializeStrikeCount(src Source, cfg *PunishmentConfig) int {
	step := cfg.StrikeStep
	if step <= 0 {
		step = 1
	}
	lo := int(math.Ceil(float64(cfg.MinStrikes) / float64(step)))
	hi := int(math.Floor(float64(cfg.MaxStrikes) / float64(step)))
	if lo > hi {
		return cfg.MinStrikes
	}
	return (lo + intn(src, hi-lo+1)) * step
}

// Validation is the result of ValidateConfig.
type Validation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	// RequiredTolerance is set when a tool has no body part able to take it.
	RequiredTolerance *int `json:"requiredTolerance,omitempty"`
}

// ValidateConfig checks that every tool has a body part with enough
// tolerance and every body part has a tool gentle enough for it.
func ValidateConfig(cfg *PunishmentConfig) Validation {
	for _, t := range cfg.Tools {
		ok := false
		for _, b := range cfg.BodyParts {
			if b.Tolerance >= t.Intensity {
				ok = true
				break
			}
		}
		if !ok {
			need := t.Intensity
			return Validation{
				Message: fmt.Sprintf("tool %q has intensity %d and no body part can take it; "+
					"a body part needs tolerance of at least %d", t.Name, t.Intensity, t.Intensity),
				RequiredTolerance: &need,
			}
		}
	}
	for _, b := range cfg.BodyParts {
		ok := false
		for _, t := range cfg.Tools {
			if t.Intensity <= b.Tolerance {
				ok = true
				break
			}
		}
		if !ok {
			return Validation{
				Message: fmt.Sprintf("body part %q has tolerance %d and no tool is gentle enough; "+
					"a tool needs intensity of at most %d", b.Name, b.Tolerance, b.Tolerance),
			}
		}
	}
	return Validation{Valid: true}
}

// GenerateCombinationPool returns count combinations, distinct where the
// pools allow it. Compatible triples are preferred; if there are fewer than
// count of them every triple is considered, and if that is still short the
// result is padded with repeats. The pool is empty when any of the three
// pools has no positive weight.
func GenerateCombinationPool(src Source, cfg *PunishmentConfig, count int) []Combination {
	tools := positiveWeights(cfg.Tools)
	parts := positiveWeights(cfg.BodyParts)
	postures := positiveWeights(cfg.Postures)
	if count <= 0 || len(tools) == 0 || len(parts) == 0 || len(postures) == 0 {
		return []Combination{}
	}

	candidates := uniqueCombinations(enumerate(tools, parts, postures, true))
	if len(candidates) < count {
		candidates = uniqueCombinations(enumerate(tools, parts, postures, false))
	}
	shuffle(src, candidates)

	n := min(count, len(candidates))
	out := make([]Combination, n, count)
	copy(out, candidates[:n])
	for len(out) < count {
		out = append(out, candidates[intn(src, len(candidates))])
	}
	return out
}

func enumerate(tools []Tool, parts []BodyPart, postures []Posture, compatibleOnly bool) []Combination {
	var out []Combination
	for _, t := range tools {
		for _, b := range parts {
			if compatibleOnly && t.Intensity > b.Tolerance {
				continue
			}
			for _, p := range postures {
				out = append(out, NewCombination(t, b, p))
			}
		}
	}
	return out
}

func uniqueCombinations(in []Combination) []Combination {
	seen := mapset.New[string]()
	out := make([]Combination, 0, len(in))
	for _, c := range in {
		k := c.Key()
		if seen.Has(k) {
			continue
		}
		seen.Put(k)
		out = append(out, c)
	}
	return out
}

// GenerateBalancedPool builds a pool whose tools and postures follow their
// weight shares: each gets round(weight/total*count) slots, leftovers going
// to the heaviest item. Body parts are drawn by weight among those
// compatible with the chosen tool. When there are no more than count
// candidate triples, all of them are returned.
func GenerateBalancedPool(src Source, cfg *PunishmentConfig, count int) []Combination {
	tools := positiveWeights(cfg.Tools)
	parts := positiveWeights(cfg.BodyParts)
	postures := positiveWeights(cfg.Postures)
	if count <= 0 || len(tools) == 0 || len(parts) == 0 || len(postures) == 0 {
		return []Combination{}
	}

	all := uniqueCombinations(enumerate(tools, parts, postures, true))
	if len(all) < count {
		all = uniqueCombinations(enumerate(tools, parts, postures, false))
	}
	if len(all) <= count {
		return all
	}

	toolQuota := distribution(tools, count)
	postureQuota := distribution(postures, count)
	seen := mapset.New[string]()
	out := make([]Combination, 0, count)
	for attempt := 0; len(out) < count && attempt < count*5; attempt++ {
		tool := byQuota(tools, toolQuota, len(out))
		part, _ := compatibleBodyPart(src, tool, parts)
		posture := byQuota(postures, postureQuota, len(out))
		c := NewCombination(tool, part, posture)
		if seen.Has(c.Key()) {
			continue
		}
		seen.Put(c.Key())
		out = append(out, c)
	}

	if len(out) < count {
		shuffle(src, all)
		for _, c := range all {
			if len(out) >= count {
				break
			}
			if seen.Has(c.Key()) {
				continue
			}
			seen.Put(c.Key())
			out = append(out, c)
		}
	}
	return out
}

func distribution[T Weighted](items []T, count int) []int {
	quota := make([]int, len(items))
	if len(items) == 1 {
		quota[0] = count
		return quota
	}
	var total float64
	heaviest := 0
	for i, it := range items {
		total += it.SelectionWeight()
		if it.SelectionWeight() > items[heaviest].SelectionWeight() {
			heaviest = i
		}
	}
	remaining := count
	for i, it := range items {
		n := int(math.Round(it.SelectionWeight() / total * float64(count)))
		n = min(n, remaining)
		quota[i] = n
		remaining -= n
	}
	quota[heaviest] += remaining
	return quota
}

func byQuota[T any](items []T, quota []int, index int) T {
	cum := 0
	for i := range items {
		cum += quota[i]
		if index < cum {
			return items[i]
		}
	}
	return items[0]
}

// EqualizeWeights returns a copy of cfg where every item of each pool has
// the same weight, 100 split evenly.
func EqualizeWeights(cfg PunishmentConfig) PunishmentConfig {
	out := cfg
	out.Tools = append([]Tool(nil), cfg.Tools...)
	out.BodyParts = append([]BodyPart(nil), cfg.BodyParts...)
	out.Postures = append([]Posture(nil), cfg.Postures...)
	for i := range out.Tools {
		out.Tools[i].Weight = 100 / float64(len(out.Tools))
	}
	for i := range out.BodyParts {
		out.BodyParts[i].Weight = 100 / float64(len(out.BodyParts))
	}
	for i := range out.Postures {
		out.Postures[i].Weight = 100 / float64(len(out.Postures))
	}
	return out
}
