package game

// Weighted is anything that can be picked by relative weight.
type Weighted interface {
	SelectionWeight() float64
}

func (t Tool) SelectionWeight() float64     { return t.Weight }
func (b BodyPart) SelectionWeight() float64 { return b.Weight }
func (p Posture) SelectionWeight() float64  { return p.Weight }

// SelectByWeight picks one item with probability proportional to its
// weight. Items with weight <= 0 are never picked unless no item has a
// positive weight, in which case the whole list is used and, its total
// being zero, the first item is returned. ok is false only for an empty
// list.
func SelectByWeight[T Weighted](src Source, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	list := positiveWeights(items)
	if len(list) == 0 {
		list = items
	}

	var total float64
	for _, it := range list {
		if w := it.SelectionWeight(); w > 0 {
			total += w
		}
	}
	if total == 0 {
		return list[0], true
	}

	draw := src.Float64() * total
	var acc float64
	for _, it := range list {
		acc += it.SelectionWeight()
		if acc >= draw {
			return it, true
		}
	}
	// float rounding can leave draw a hair above the final sum
	return list[len(list)-1], true
}

func positiveWeights[T Weighted](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.SelectionWeight() > 0 {
			out = append(out, it)
		}
	}
	return out
}
