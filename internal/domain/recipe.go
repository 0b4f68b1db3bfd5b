package domain

import "time"

// Reagent represents a single material requirement for a recipe
type Reagent struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Recipe represents a crafting rule mapping one produced item to its reagents.
// Recipe identity is the produced ItemID: the catalog holds at most one
// recipe per produced item, regardless of the upstream ingestion id.
type Recipe struct {
	ID              int       `json:"recipe_id"`
	Profession      int       `json:"profession"`
	SkillTier       int       `json:"skill_tier"`
	Name            string    `json:"recipe_name"`
	ItemID          string    `json:"item_id"`
	ItemName        string    `json:"item_name"`
	CraftedQuantity int       `json:"crafted_quantity"`
	Reagents        []Reagent `json:"reagents"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}
