package dataset

import "fmt"

type selectorKind int

const (
	selectAll selectorKind = iota
	selectPositions
	selectIDs
)

// Selector picks rows or columns for Subset. A selector is either All,
// an ordered list of positions, or an ordered list of identifiers.
// Output order follows the selector, so a selector can reorder; repeating an
// entry repeats the row or column in the result.
type Selector struct {
	kind      selectorKind
	positions []int
	ids       []string
}

// All selects every position in its current order.
func All() Selector {
	return Selector{kind: selectAll}
}

// Positions selects by zero-based position.
func Positions(positions ...int) Selector {
	return Selector{kind: selectPositions, positions: positions}
}

// IDs selects by feature or sample identifier.
func IDs(ids ...string) Selector {
	return Selector{kind: selectIDs, ids: ids}
}

// resolve maps the selector to concrete positions on an axis of length n.
// byID maps identifiers to the position of their first occurrence.
func (s Selector) resolve(axis string, n int, byID map[string]int) ([]int, error) {
	switch s.kind {
	case selectAll:
		positions := make([]int, n)
		for i := range positions {
			positions[i] = i
		}
		return positions, nil

	case selectPositions:
		positions := make([]int, len(s.positions))
		for i, p := range s.positions {
			if p < 0 || p >= n {
				return nil, &SelectorError{
					Axis:   axis,
					Reason: fmt.Sprintf("position %d out of range [0, %d)", p, n),
				}
			}
			positions[i] = p
		}
		return positions, nil

	case selectIDs:
		positions := make([]int, len(s.ids))
		for i, id := range s.ids {
			p, ok := byID[id]
			if !ok {
				return nil, &SelectorError{
					Axis:   axis,
					Reason: fmt.Sprintf("unknown id %q", id),
				}
			}
			positions[i] = p
		}
		return positions, nil
	}

	return nil, &SelectorError{Axis: axis, Reason: "invalid selector"}
}
