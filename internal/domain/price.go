package domain

import "time"

// PriceObservation is one immutable market observation: item X cost
// Price gold with Quantity units listed. Observations fetched together
// share a snapshot timestamp.
type PriceObservation struct {
	ItemID   string `json:"item_id"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// PricePoint is one entry of an item's price history
type PricePoint struct {
	Price      int64     `json:"price"`
	Quantity   int64     `json:"quantity"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DefaultResyncInterval matches the upstream market's observed refresh
// cadence. The gate only avoids wasted remote calls; it never affects
// cost math.
const DefaultResyncInterval = time.Hour

// CopperPerGold converts raw upstream copper prices to whole gold.
// All stored and resolved prices are in gold, rounded down.
const CopperPerGold = 10000
