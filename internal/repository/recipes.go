package repository

import (
	"context"

	"github.com/emberforge/craftcost/internal/domain"
)

// Recipes defines the interface for recipe catalog persistence
type Recipes interface {
	// InsertRecipe inserts one recipe plus its reagent rows. The produced
	// item is registered as craftable, each reagent as a known item.
	InsertRecipe(ctx context.Context, recipe *domain.Recipe) error

	// GetRecipeByItemID returns the recipe producing the given item, or
	// domain.ErrRecipeNotFound.
	GetRecipeByItemID(ctx context.Context, itemID string) (*domain.Recipe, error)

	// GetRecipeByName returns the recipe with the given disambiguated
	// display name, or domain.ErrRecipeNotFound.
	GetRecipeByName(ctx context.Context, name string) (*domain.Recipe, error)

	// IsCraftable reports whether a recipe produces the given item
	IsCraftable(ctx context.Context, itemID string) (bool, error)

	// RecipeCount returns the number of ingested recipes for a
	// profession/skill-tier pair.
	RecipeCount(ctx context.Context, profession, skillTier int) (int, error)

	// AllReagentIDs returns the ids of every known item (produced items
	// and reagents alike); the price sync downloads listings for these.
	AllReagentIDs(ctx context.Context) ([]string, error)
}
