package resolver

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/craftcost/internal/catalog"
	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/shoplist"
)

// MockCatalog is a map-backed recipe graph for resolver tests
type MockCatalog struct {
	recipes map[string]*domain.Recipe // keyed by produced item id
	byName  map[string]*domain.Recipe
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		recipes: make(map[string]*domain.Recipe),
		byName:  make(map[string]*domain.Recipe),
	}
}

func (m *MockCatalog) AddRecipe(recipe *domain.Recipe) {
	m.recipes[recipe.ItemID] = recipe
	m.byName[recipe.Name] = recipe
}

func (m *MockCatalog) RecipeFor(ctx context.Context, identifier string) (*domain.Recipe, error) {
	if recipe, ok := m.recipes[identifier]; ok {
		return recipe, nil
	}
	if recipe, ok := m.byName[identifier]; ok {
		return recipe, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, identifier)
}

// MockPrices is a single-snapshot price source that counts lookups so
// tests can assert memoization behavior.
type MockPrices struct {
	at      time.Time
	prices  map[string]int64
	missing bool
	lookups map[string]int
}

func NewMockPrices(at time.Time) *MockPrices {
	return &MockPrices{
		at:      at,
		prices:  make(map[string]int64),
		lookups: make(map[string]int),
	}
}

func (m *MockPrices) SetPrice(itemID string, price int64) {
	m.prices[itemID] = price
}

func (m *MockPrices) LatestSnapshotTime(ctx context.Context) (time.Time, error) {
	if m.missing {
		return time.Time{}, domain.ErrSnapshotMissing
	}
	return m.at, nil
}

func (m *MockPrices) PriceAt(ctx context.Context, itemID string, at time.Time) (int64, error) {
	if !at.Equal(m.at) {
		return 0, fmt.Errorf("%w: %s", domain.ErrPriceUnavailable, itemID)
	}
	m.lookups[itemID]++
	price, ok := m.prices[itemID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrPriceUnavailable, itemID)
	}
	return price, nil
}

func recipe(id int, itemID, name string, craftedQty int, reagents ...domain.Reagent) *domain.Recipe {
	return &domain.Recipe{
		ID:              id,
		Profession:      171,
		SkillTier:       2750,
		Name:            name,
		ItemID:          itemID,
		ItemName:        name,
		CraftedQuantity: craftedQty,
		Reagents:        reagents,
	}
}

func reagent(itemID, name string, qty int) domain.Reagent {
	return domain.Reagent{ItemID: itemID, Name: name, Quantity: qty}
}

func newResolver(cat Catalog, prices Prices) Service {
	return NewService(cat, prices, catalog.VendorTable{}, PolicyPerCraft)
}

func TestResolveLeafReturnsMarketPrice(t *testing.T) {
	prices := NewMockPrices(time.Now())
	prices.SetPrice("herb", 42)

	svc := newResolver(NewMockCatalog(), prices)

	result, err := svc.Resolve(context.Background(), "herb")
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.TotalCost)
	assert.Equal(t, domain.DecisionBuy, result.Root.Decision)
}

func TestResolveCraftWhenComponentsCheaper(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 1,
		reagent("r1", "Nightshade", 2),
		reagent("r2", "Widowbloom", 1)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("r1", 2)
	prices.SetPrice("r2", 3)
	prices.SetPrice("potion", 10)

	svc := newResolver(cat, prices)

	result, err := svc.Resolve(context.Background(), "potion")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.TotalCost)
	assert.Equal(t, domain.DecisionCraft, result.Root.Decision)

	lines := shoplist.Expand(result.Root)
	require.Len(t, lines, 2)
	assert.Equal(t, "r1", lines[0].ItemID)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, "r2", lines[1].ItemID)
	assert.Equal(t, int64(1), lines[1].Quantity)
}

func TestResolveTiePrefersBuying(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 1,
		reagent("r1", "Nightshade", 2),
		reagent("r2", "Widowbloom", 1)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("r1", 2)
	prices.SetPrice("r2", 3)
	prices.SetPrice("potion", 7) // exactly the component cost

	svc := newResolver(cat, prices)

	result, err := svc.Resolve(context.Background(), "potion")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.TotalCost)
	assert.Equal(t, domain.DecisionBuy, result.Root.Decision)

	lines := shoplist.Expand(result.Root)
	require.Len(t, lines, 1)
	assert.Equal(t, "potion", lines[0].ItemID)
	assert.Equal(t, int64(1), lines[0].Quantity)
}

func TestResolveBuyWhenMarketCheaper(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 1,
		reagent("r1", "Nightshade", 2)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("r1", 10)
	prices.SetPrice("potion", 5)

	svc := newResolver(cat, prices)

	result, err := svc.Resolve(context.Background(), "potion")
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.TotalCost)
	assert.Equal(t, domain.DecisionBuy, result.Root.Decision)
}

func TestResolveCraftForcedWithoutMarketPrice(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 1,
		reagent("r1", "Nightshade", 3)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("r1", 4)

	svc := newResolver(cat, prices)

	result, err := svc.Resolve(context.Background(), "potion")
	require.NoError(t, err)
	assert.Equal(t, int64(12), result.TotalCost)
	assert.Equal(t, domain.DecisionCraft, result.Root.Decision)
	assert.Nil(t, result.Root.MarketPrice)
}

func TestResolveByRecipeName(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 1,
		reagent("r1", "Nightshade", 1)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("r1", 4)

	svc := newResolver(cat, prices)

	result, err := svc.Resolve(context.Background(), "Spectral Flask")
	require.NoError(t, err)
	assert.Equal(t, "potion", result.Root.ItemID)
	assert.Equal(t, int64(4), result.TotalCost)
}

func TestResolveUnresolvableLeaf(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 1,
		reagent("unlisted", "Ghost Dust", 1)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("potion", 9)

	svc := newResolver(cat, prices)

	_, err := svc.Resolve(context.Background(), "potion")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
	assert.Contains(t, err.Error(), "unlisted")
}

func TestResolveUnknownRoot(t *testing.T) {
	prices := NewMockPrices(time.Now())
	prices.SetPrice("something", 1)

	svc := newResolver(NewMockCatalog(), prices)

	_, err := svc.Resolve(context.Background(), "no-such-item")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "no-such-item")
}

func TestResolveWithoutSnapshot(t *testing.T) {
	prices := NewMockPrices(time.Now())
	prices.missing = true

	svc := newResolver(NewMockCatalog(), prices)

	_, err := svc.Resolve(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSnapshotMissing)
}

func TestResolveCyclicRecipe(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "a", "Item A", 1, reagent("b", "Item B", 1)))
	cat.AddRecipe(recipe(2, "b", "Item B", 1, reagent("a", "Item A", 1)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("a", 1)

	svc := newResolver(cat, prices)

	_, err := svc.Resolve(context.Background(), "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCyclicRecipe)
	assert.Contains(t, err.Error(), "a -> b -> a")
}

func TestResolveDiamondDependency(t *testing.T) {
	// root needs both mid1 and mid2, each of which needs shared
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "root", "Root", 1,
		reagent("mid1", "Mid One", 1),
		reagent("mid2", "Mid Two", 1)))
	cat.AddRecipe(recipe(2, "mid1", "Mid One", 1, reagent("shared", "Shared", 2)))
	cat.AddRecipe(recipe(3, "mid2", "Mid Two", 1, reagent("shared", "Shared", 3)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("shared", 1)

	svc := newResolver(cat, prices)

	result, err := svc.Resolve(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.TotalCost)

	// The shared leaf is priced once per pass, not once per occurrence
	assert.Equal(t, 1, prices.lookups["shared"])

	lines := shoplist.Expand(result.Root)
	require.Len(t, lines, 1)
	assert.Equal(t, "shared", lines[0].ItemID)
	assert.Equal(t, int64(5), lines[0].Quantity)
}

func TestResolveIdempotent(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 1,
		reagent("r1", "Nightshade", 2),
		reagent("r2", "Widowbloom", 1)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("r1", 2)
	prices.SetPrice("r2", 3)
	prices.SetPrice("potion", 10)

	svc := newResolver(cat, prices)

	first, err := svc.Resolve(context.Background(), "potion")
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), "potion")
	require.NoError(t, err)

	assert.Equal(t, first.TotalCost, second.TotalCost)
	assert.Equal(t, first.Root, second.Root)
}

func TestResolveExpansionRoundTrip(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "cauldron", "Eternal Cauldron", 1,
		reagent("flask", "Spectral Flask", 8),
		reagent("stone", "Shadestone", 2)))
	cat.AddRecipe(recipe(2, "flask", "Spectral Flask", 1,
		reagent("herb1", "Nightshade", 3),
		reagent("herb2", "Widowbloom", 4)))
	cat.AddRecipe(recipe(3, "stone", "Shadestone", 1,
		reagent("herb2", "Widowbloom", 2),
		reagent("herb3", "Death Blossom", 5)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("herb1", 120)
	prices.SetPrice("herb2", 190)
	prices.SetPrice("herb3", 25)
	prices.SetPrice("flask", 2000)
	prices.SetPrice("cauldron", 100000)

	svc := newResolver(cat, prices)

	result, err := svc.Resolve(context.Background(), "cauldron")
	require.NoError(t, err)
	require.Equal(t, domain.DecisionCraft, result.Root.Decision)

	lines := shoplist.Expand(result.Root)
	assert.Equal(t, result.TotalCost, shoplist.Total(lines))
}

func TestResolveVendorShortCircuit(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 1,
		reagent("vial", "Rune Etched Vial", 1),
		reagent("r1", "Nightshade", 1)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("r1", 5)

	vendors := catalog.VendorTable{
		"vial": {ItemID: "vial", Name: "Rune Etched Vial", Price: 2},
	}
	svc := NewService(cat, prices, vendors, PolicyPerCraft)

	result, err := svc.Resolve(context.Background(), "potion")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.TotalCost)

	// Vendor reagents bypass snapshot lookups entirely
	assert.Equal(t, 0, prices.lookups["vial"])

	lines := shoplist.Expand(result.Root)
	require.Len(t, lines, 2)
	assert.Equal(t, domain.DecisionVendor, result.Root.Components[0].Node.Decision)
}

func TestResolvePerUnitPolicy(t *testing.T) {
	cat := NewMockCatalog()
	cat.AddRecipe(recipe(1, "potion", "Spectral Flask", 2,
		reagent("r1", "Nightshade", 7)))

	prices := NewMockPrices(time.Now())
	prices.SetPrice("r1", 1)
	prices.SetPrice("potion", 5)

	// Per-craft: 7 components vs market 5, buying wins
	perCraft := newResolver(cat, prices)
	result, err := perCraft.Resolve(context.Background(), "potion")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionBuy, result.Root.Decision)
	assert.Equal(t, int64(5), result.TotalCost)

	// Per-unit: ceil(7/2) = 4 per unit, crafting wins
	perUnit := NewService(cat, prices, catalog.VendorTable{}, PolicyPerUnit)
	result, err = perUnit.Resolve(context.Background(), "potion")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionCraft, result.Root.Decision)
	assert.Equal(t, int64(4), result.TotalCost)
}
