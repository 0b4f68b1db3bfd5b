package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/logger"
)

// Repository defines the interface for data access required by the catalog service
type Repository interface {
	InsertRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipeByItemID(ctx context.Context, itemID string) (*domain.Recipe, error)
	GetRecipeByName(ctx context.Context, name string) (*domain.Recipe, error)
	IsCraftable(ctx context.Context, itemID string) (bool, error)
	RecipeCount(ctx context.Context, profession, skillTier int) (int, error)
	AllReagentIDs(ctx context.Context) ([]string, error)
}

// SkippedRecipe records one malformed record rejected during bulk ingest
type SkippedRecipe struct {
	RecipeID int    `json:"recipe_id"`
	Reason   string `json:"reason"`
}

// IngestReport is the per-record outcome of a bulk recipe ingest.
// Malformed records are skipped and reported, never silently dropped and
// never aborting the batch.
type IngestReport struct {
	Ingested int             `json:"ingested"`
	Skipped  []SkippedRecipe `json:"skipped,omitempty"`
}

// Service defines the interface for recipe catalog operations
type Service interface {
	IngestRecipes(ctx context.Context, recipes []domain.Recipe) (*IngestReport, error)
	RecipeFor(ctx context.Context, identifier string) (*domain.Recipe, error)
	ComponentQuantities(ctx context.Context, identifier string) ([]domain.Component, error)
	IsCraftable(ctx context.Context, itemID string) (bool, error)
	HasProfession(ctx context.Context, profession, skillTier int) (bool, error)
	KnownItemIDs(ctx context.Context) ([]string, error)
}

type service struct {
	repo  Repository
	ranks RankTable
}

// NewService creates a new catalog service. The rank table is fixed
// configuration passed in explicitly, not ambient state.
func NewService(repo Repository, ranks RankTable) Service {
	return &service{
		repo:  repo,
		ranks: ranks,
	}
}

// IngestRecipes bulk-inserts recipes, disambiguating ranked variants and
// skipping malformed records without aborting the batch.
func (s *service) IngestRecipes(ctx context.Context, recipes []domain.Recipe) (*IngestReport, error) {
	log := logger.FromContext(ctx)
	log.Info("IngestRecipes called", "count", len(recipes))

	report := &IngestReport{}
	for i := range recipes {
		recipe := recipes[i]

		if reason, ok := validateRecipe(&recipe); !ok {
			log.Warn("Skipping malformed recipe", "recipeID", recipe.ID, "reason", reason)
			report.Skipped = append(report.Skipped, SkippedRecipe{RecipeID: recipe.ID, Reason: reason})
			continue
		}

		recipe.Name, recipe.ItemID = s.ranks.Disambiguate(recipe.ID, recipe.Name, recipe.ItemID)
		if recipe.ItemName == "" {
			recipe.ItemName = recipe.Name
		}

		if err := s.repo.InsertRecipe(ctx, &recipe); err != nil {
			log.Error("Failed to insert recipe", "error", err, "recipeID", recipe.ID)
			return report, fmt.Errorf("failed to insert recipe %d: %w", recipe.ID, err)
		}
		report.Ingested++
	}

	log.Info("Recipes ingested", "ingested", report.Ingested, "skipped", len(report.Skipped))
	return report, nil
}

// validateRecipe reports whether a record is well-formed enough to store
func validateRecipe(recipe *domain.Recipe) (string, bool) {
	if recipe.ItemID == "" {
		return ReasonMissingProducedItem, false
	}
	if len(recipe.Reagents) == 0 {
		return ReasonNoReagents, false
	}
	for _, reagent := range recipe.Reagents {
		if reagent.ItemID == "" {
			return ReasonMissingReagentItem, false
		}
		if reagent.Quantity <= 0 {
			return ReasonNonPositiveQuantity, false
		}
	}
	if recipe.CraftedQuantity <= 0 {
		recipe.CraftedQuantity = 1
	}
	return "", true
}

// RecipeFor looks a recipe up by produced item id first, then by its
// disambiguated display name. The upstream catalog indexes recipes by
// name for user-facing lookup but by id internally, so both work.
func (s *service) RecipeFor(ctx context.Context, identifier string) (*domain.Recipe, error) {
	recipe, err := s.repo.GetRecipeByItemID(ctx, identifier)
	if err == nil {
		return recipe, nil
	}
	if !errors.Is(err, domain.ErrRecipeNotFound) {
		return nil, fmt.Errorf("failed to look up recipe: %w", err)
	}

	recipe, err = s.repo.GetRecipeByName(ctx, identifier)
	if err == nil {
		return recipe, nil
	}
	if !errors.Is(err, domain.ErrRecipeNotFound) {
		return nil, fmt.Errorf("failed to look up recipe: %w", err)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, identifier)
}

// ComponentQuantities returns the reagent requirements of a recipe
func (s *service) ComponentQuantities(ctx context.Context, identifier string) ([]domain.Component, error) {
	recipe, err := s.RecipeFor(ctx, identifier)
	if err != nil {
		return nil, err
	}

	components := make([]domain.Component, len(recipe.Reagents))
	for i, reagent := range recipe.Reagents {
		components[i] = domain.Component{ItemID: reagent.ItemID, Quantity: reagent.Quantity}
	}
	return components, nil
}

// IsCraftable reports whether a recipe produces the given item
func (s *service) IsCraftable(ctx context.Context, itemID string) (bool, error) {
	return s.repo.IsCraftable(ctx, itemID)
}

// HasProfession reports whether a profession/tier has already been ingested
func (s *service) HasProfession(ctx context.Context, profession, skillTier int) (bool, error) {
	count, err := s.repo.RecipeCount(ctx, profession, skillTier)
	if err != nil {
		return false, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count > 0, nil
}

// KnownItemIDs returns every item id the catalog has seen
func (s *service) KnownItemIDs(ctx context.Context) ([]string, error) {
	return s.repo.AllReagentIDs(ctx)
}
