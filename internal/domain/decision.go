package domain

// Decision is the per-node outcome of cost resolution
type Decision string

const (
	// DecisionBuy means the item is purchased at its market price.
	// Ties between crafting and buying resolve to buy: crafting carries
	// an implicit time cost not reflected in the price numbers.
	DecisionBuy Decision = "buy"

	// DecisionCraft means the components are strictly cheaper than the
	// market price, or no market price exists at all.
	DecisionCraft Decision = "craft"

	// DecisionVendor means the item has a fixed vendor price and never
	// consults market snapshots.
	DecisionVendor Decision = "vendor"
)

// DecisionNode records the craft/buy choice made for one item during a
// resolution pass. Nodes for shared reagents are computed once and
// referenced from every parent that needs them.
type DecisionNode struct {
	ItemID        string     `json:"item_id"`
	Name          string     `json:"name"`
	MarketPrice   *int64     `json:"market_price,omitempty"`
	ComponentCost *int64     `json:"component_cost,omitempty"`
	Decision      Decision   `json:"decision"`
	TotalCost     int64      `json:"total_cost"`
	Components    []ChildRef `json:"components,omitempty"`
}

// ChildRef is one (child node, quantity) edge of the decision tree
type ChildRef struct {
	Node     *DecisionNode `json:"node"`
	Quantity int           `json:"quantity"`
}

// CostResult is the outcome of resolving one root item
type CostResult struct {
	TotalCost int64         `json:"total_cost"`
	Root      *DecisionNode `json:"decision_tree"`
}
