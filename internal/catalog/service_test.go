package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/craftcost/internal/domain"
)

// MockRepository is a map-backed recipe store for catalog tests
type MockRepository struct {
	byItemID map[string]*domain.Recipe
	byName   map[string]*domain.Recipe
	failOn   int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		byItemID: make(map[string]*domain.Recipe),
		byName:   make(map[string]*domain.Recipe),
	}
}

func (m *MockRepository) InsertRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if m.failOn != 0 && recipe.ID == m.failOn {
		return fmt.Errorf("insert failed for recipe %d", recipe.ID)
	}
	m.byItemID[recipe.ItemID] = recipe
	m.byName[recipe.Name] = recipe
	return nil
}

func (m *MockRepository) GetRecipeByItemID(ctx context.Context, itemID string) (*domain.Recipe, error) {
	recipe, ok := m.byItemID[itemID]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return recipe, nil
}

func (m *MockRepository) GetRecipeByName(ctx context.Context, name string) (*domain.Recipe, error) {
	recipe, ok := m.byName[name]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return recipe, nil
}

func (m *MockRepository) IsCraftable(ctx context.Context, itemID string) (bool, error) {
	_, ok := m.byItemID[itemID]
	return ok, nil
}

func (m *MockRepository) RecipeCount(ctx context.Context, profession, skillTier int) (int, error) {
	count := 0
	for _, recipe := range m.byItemID {
		if recipe.Profession == profession && recipe.SkillTier == skillTier {
			count++
		}
	}
	return count, nil
}

func (m *MockRepository) AllReagentIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.byItemID))
	for id := range m.byItemID {
		ids = append(ids, id)
	}
	return ids, nil
}

func validRecipe(id int, name, itemID string) domain.Recipe {
	return domain.Recipe{
		ID:              id,
		Profession:      164,
		SkillTier:       2437,
		Name:            name,
		ItemID:          itemID,
		CraftedQuantity: 1,
		Reagents: []domain.Reagent{
			{ItemID: "ore", Name: "Ore", Quantity: 4},
		},
	}
}

func TestIngestRecipesSkipsMalformedRecords(t *testing.T) {
	repo := NewMockRepository()
	svc := NewService(repo, RankTable{})
	ctx := context.Background()

	recipes := []domain.Recipe{
		validRecipe(1, "Stone Hammer", "hammer"),
		{ID: 2, Name: "No Product", Reagents: []domain.Reagent{{ItemID: "ore", Quantity: 1}}},
		{ID: 3, Name: "No Reagents", ItemID: "widget"},
		{ID: 4, Name: "Bad Quantity", ItemID: "gizmo", Reagents: []domain.Reagent{{ItemID: "ore", Quantity: 0}}},
		validRecipe(5, "Iron Chisel", "chisel"),
	}

	report, err := svc.IngestRecipes(ctx, recipes)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Ingested)
	require.Len(t, report.Skipped, 3)
	assert.Equal(t, SkippedRecipe{RecipeID: 2, Reason: ReasonMissingProducedItem}, report.Skipped[0])
	assert.Equal(t, SkippedRecipe{RecipeID: 3, Reason: ReasonNoReagents}, report.Skipped[1])
	assert.Equal(t, SkippedRecipe{RecipeID: 4, Reason: ReasonNonPositiveQuantity}, report.Skipped[2])
}

func TestIngestRecipesDefaultsCraftedQuantity(t *testing.T) {
	repo := NewMockRepository()
	svc := NewService(repo, RankTable{})

	recipe := validRecipe(1, "Stone Hammer", "hammer")
	recipe.CraftedQuantity = 0

	_, err := svc.IngestRecipes(context.Background(), []domain.Recipe{recipe})
	require.NoError(t, err)

	stored := repo.byItemID["hammer"]
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.CraftedQuantity)
}

func TestIngestRecipesDisambiguatesRanks(t *testing.T) {
	ctx62 := 62
	ctx63 := 63
	ranks := RankTable{
		42751: {RecipeID: 42751, NameFormat: "%s (Rank 1)", IDContext: &ctx62},
		42752: {RecipeID: 42752, NameFormat: "%s (Rank 2)", IDContext: &ctx63},
	}
	repo := NewMockRepository()
	svc := NewService(repo, ranks)
	ctx := context.Background()

	report, err := svc.IngestRecipes(ctx, []domain.Recipe{
		validRecipe(42751, "Shadowghast Ingot", "171828"),
		validRecipe(42752, "Shadowghast Ingot", "171828"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Ingested)

	rank1, err := svc.RecipeFor(ctx, "Shadowghast Ingot (Rank 1)")
	require.NoError(t, err)
	assert.Equal(t, "171828:62", rank1.ItemID)

	rank2, err := svc.RecipeFor(ctx, "171828:63")
	require.NoError(t, err)
	assert.Equal(t, "Shadowghast Ingot (Rank 2)", rank2.Name)
}

func TestIngestRecipesAbortsOnRepositoryError(t *testing.T) {
	repo := NewMockRepository()
	repo.failOn = 2
	svc := NewService(repo, RankTable{})

	report, err := svc.IngestRecipes(context.Background(), []domain.Recipe{
		validRecipe(1, "Stone Hammer", "hammer"),
		validRecipe(2, "Iron Chisel", "chisel"),
	})

	require.Error(t, err)
	assert.Equal(t, 1, report.Ingested)
}

func TestRecipeForPrefersItemID(t *testing.T) {
	repo := NewMockRepository()
	svc := NewService(repo, RankTable{})
	ctx := context.Background()

	// A recipe whose produced item id happens to equal another recipe's name
	byID := validRecipe(1, "Hammer Recipe", "collide")
	byName := validRecipe(2, "collide", "other")
	_, err := svc.IngestRecipes(ctx, []domain.Recipe{byID, byName})
	require.NoError(t, err)

	found, err := svc.RecipeFor(ctx, "collide")
	require.NoError(t, err)
	assert.Equal(t, 1, found.ID)
}

func TestRecipeForUnknownIdentifier(t *testing.T) {
	svc := NewService(NewMockRepository(), RankTable{})

	_, err := svc.RecipeFor(context.Background(), "no-such-thing")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.Contains(t, err.Error(), "no-such-thing")
}

func TestComponentQuantities(t *testing.T) {
	repo := NewMockRepository()
	svc := NewService(repo, RankTable{})
	ctx := context.Background()

	recipe := validRecipe(1, "Stone Hammer", "hammer")
	recipe.Reagents = []domain.Reagent{
		{ItemID: "ore", Name: "Ore", Quantity: 4},
		{ItemID: "haft", Name: "Haft", Quantity: 1},
	}
	_, err := svc.IngestRecipes(ctx, []domain.Recipe{recipe})
	require.NoError(t, err)

	components, err := svc.ComponentQuantities(ctx, "hammer")
	require.NoError(t, err)
	assert.Equal(t, []domain.Component{
		{ItemID: "ore", Quantity: 4},
		{ItemID: "haft", Quantity: 1},
	}, components)
}

func TestHasProfession(t *testing.T) {
	repo := NewMockRepository()
	svc := NewService(repo, RankTable{})
	ctx := context.Background()

	has, err := svc.HasProfession(ctx, 164, 2437)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.IngestRecipes(ctx, []domain.Recipe{validRecipe(1, "Stone Hammer", "hammer")})
	require.NoError(t, err)

	has, err = svc.HasProfession(ctx, 164, 2437)
	require.NoError(t, err)
	assert.True(t, has)
}
