package domain

// Item represents one node of the recipe graph: an id in the upstream
// catalog, a display name, an optional observed market price, and the
// reagents of its recipe when one exists.
//
// An item is craftable iff it has components. Price is independent of
// craftability: a craftable item may also be purchasable outright.
type Item struct {
	ID         string      `json:"item_id"`
	Name       string      `json:"name"`
	Price      *int64      `json:"price,omitempty"`
	Craftable  bool        `json:"craftable"`
	Components []Component `json:"components,omitempty"`
}

// Component is one (child item, quantity) edge of the recipe graph
type Component struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// QuantityUnlimited marks a listing whose supply never runs out.
// Vendor-priced reagents are recorded with this sentinel and are
// excluded from snapshot staleness checks.
const QuantityUnlimited int64 = -1

// VendorPrice is a fixed, non-market price for a reagent sold by vendors.
// Vendor prices never depend on market snapshots.
type VendorPrice struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
}
