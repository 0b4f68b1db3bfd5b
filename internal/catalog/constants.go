package catalog

// Skip reasons reported for malformed records during bulk ingest
const (
	ReasonMissingProducedItem = "missing produced item id"
	ReasonNoReagents          = "recipe has no reagents"
	ReasonMissingReagentItem  = "reagent missing item id"
	ReasonNonPositiveQuantity = "reagent quantity not positive"
)
