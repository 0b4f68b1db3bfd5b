package shoplist

import (
	"github.com/emberforge/craftcost/internal/domain"
)

// Line is one aggregated leaf purchase of a shopping list
type Line struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineCost  int64  `json:"line_cost"`
}

// Expand flattens a resolved decision tree into the concrete purchases
// that realize it. It replays the decisions recorded during resolution -
// it never re-decides - so the list always agrees with the resolved cost:
// when the root is craft-decided, the sum of line costs equals the root's
// total cost; a bought root expands to the single root entry.
//
// The same leaf reached through different paths aggregates into one line.
// Distinct disambiguated ids stay distinct lines even when their display
// names match. Ordering is document order of first encounter.
func Expand(root *domain.DecisionNode) []Line {
	if root == nil {
		return nil
	}

	lines := make(map[string]*Line)
	var order []string

	var walk func(node *domain.DecisionNode, multiplier int64)
	walk = func(node *domain.DecisionNode, multiplier int64) {
		if node.Decision != domain.DecisionCraft {
			line, ok := lines[node.ItemID]
			if !ok {
				line = &Line{
					ItemID:    node.ItemID,
					Name:      node.Name,
					UnitPrice: node.TotalCost,
				}
				lines[node.ItemID] = line
				order = append(order, node.ItemID)
			}
			line.Quantity += multiplier
			line.LineCost = line.UnitPrice * line.Quantity
			return
		}

		for _, child := range node.Components {
			walk(child.Node, multiplier*int64(child.Quantity))
		}
	}
	walk(root, 1)

	result := make([]Line, 0, len(order))
	for _, id := range order {
		result = append(result, *lines[id])
	}
	return result
}

// Total sums the line costs of a shopping list
func Total(lines []Line) int64 {
	var total int64
	for _, line := range lines {
		total += line.LineCost
	}
	return total
}
