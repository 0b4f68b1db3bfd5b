package sync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberforge/craftcost/internal/catalog"
	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/market"
)

// MockMarket serves canned upstream responses
type MockMarket struct {
	listings  []market.AuctionListing
	recipeIDs []int
	recipes   map[int]*market.RecipeDetail
	items     map[int]*market.ItemDetail

	auctionCalls int
}

func (m *MockMarket) Auctions(ctx context.Context, connectedRealm int) ([]market.AuctionListing, error) {
	m.auctionCalls++
	return m.listings, nil
}

func (m *MockMarket) RecipeIDs(ctx context.Context, profession, skillTier int) ([]int, error) {
	return m.recipeIDs, nil
}

func (m *MockMarket) Recipe(ctx context.Context, recipeID int) (*market.RecipeDetail, error) {
	detail, ok := m.recipes[recipeID]
	if !ok {
		return nil, fmt.Errorf("unknown recipe %d", recipeID)
	}
	return detail, nil
}

func (m *MockMarket) Item(ctx context.Context, itemID int) (*market.ItemDetail, error) {
	detail, ok := m.items[itemID]
	if !ok {
		return nil, fmt.Errorf("unknown item %d", itemID)
	}
	return detail, nil
}

// MockPrices records snapshots in memory
type MockPrices struct {
	due       bool
	snapshots map[time.Time][]domain.PriceObservation
}

func (m *MockPrices) ShouldResync(ctx context.Context, now time.Time, minInterval time.Duration) (bool, error) {
	return m.due, nil
}

func (m *MockPrices) RecordSnapshot(ctx context.Context, observations []domain.PriceObservation, at time.Time) error {
	if m.snapshots == nil {
		m.snapshots = make(map[time.Time][]domain.PriceObservation)
	}
	m.snapshots[at] = observations
	return nil
}

// MockCatalog serves known ids and captures ingested recipes
type MockCatalog struct {
	hasProfession bool
	knownIDs      []string
	ingested      []domain.Recipe
}

func (m *MockCatalog) HasProfession(ctx context.Context, profession, skillTier int) (bool, error) {
	return m.hasProfession, nil
}

func (m *MockCatalog) KnownItemIDs(ctx context.Context) ([]string, error) {
	return m.knownIDs, nil
}

func (m *MockCatalog) IngestRecipes(ctx context.Context, recipes []domain.Recipe) (*catalog.IngestReport, error) {
	m.ingested = append(m.ingested, recipes...)
	return &catalog.IngestReport{Ingested: len(recipes)}, nil
}

func TestNormalizeListingsMinPriceSummedQuantity(t *testing.T) {
	listings := []market.AuctionListing{
		{ItemID: 171828, UnitPrice: 52_0000, Quantity: 3},
		{ItemID: 171828, UnitPrice: 48_9999, Quantity: 5},
		{ItemID: 171828, UnitPrice: 60_0000, Quantity: 1},
	}

	observations := NormalizeListings(listings, []string{"171828"})

	require.Len(t, observations, 1)
	assert.Equal(t, "171828", observations[0].ItemID)
	assert.Equal(t, int64(48), observations[0].Price)
	assert.Equal(t, int64(9), observations[0].Quantity)
}

func TestNormalizeListingsFloorsCopperToGold(t *testing.T) {
	listings := []market.AuctionListing{
		{ItemID: 1, UnitPrice: 9999, Quantity: 1},
	}

	observations := NormalizeListings(listings, []string{"1"})

	require.Len(t, observations, 1)
	assert.Equal(t, int64(0), observations[0].Price)
}

func TestNormalizeListingsDropsUntrackedItems(t *testing.T) {
	listings := []market.AuctionListing{
		{ItemID: 1, UnitPrice: 2_0000, Quantity: 1},
		{ItemID: 2, UnitPrice: 3_0000, Quantity: 1},
	}

	observations := NormalizeListings(listings, []string{"2"})

	require.Len(t, observations, 1)
	assert.Equal(t, "2", observations[0].ItemID)
}

func TestNormalizeListingsDropsMalformedListings(t *testing.T) {
	listings := []market.AuctionListing{
		{ItemID: 1, UnitPrice: 0, Quantity: 4},
		{ItemID: 1, UnitPrice: -5, Quantity: 4},
		{ItemID: 1, UnitPrice: 2_0000, Quantity: 0},
		{ItemID: 1, UnitPrice: 2_0000, Quantity: 4},
	}

	observations := NormalizeListings(listings, []string{"1"})

	require.Len(t, observations, 1)
	assert.Equal(t, int64(2), observations[0].Price)
	assert.Equal(t, int64(4), observations[0].Quantity)
}

func TestSyncPricesSkipsWhenFresh(t *testing.T) {
	client := &MockMarket{}
	prices := &MockPrices{due: false}
	svc := NewService(client, prices, &MockCatalog{})

	report, err := svc.SyncPrices(context.Background(), 154, domain.DefaultResyncInterval)

	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Zero(t, client.auctionCalls)
}

func TestSyncPricesRecordsNormalizedSnapshot(t *testing.T) {
	client := &MockMarket{
		listings: []market.AuctionListing{
			{ItemID: 171828, UnitPrice: 52_0000, Quantity: 3},
			{ItemID: 999, UnitPrice: 1_0000, Quantity: 1},
		},
	}
	prices := &MockPrices{due: true}
	cat := &MockCatalog{knownIDs: []string{"171828"}}
	svc := NewService(client, prices, cat)

	report, err := svc.SyncPrices(context.Background(), 154, domain.DefaultResyncInterval)

	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.Equal(t, 1, report.Observations)
	require.Len(t, prices.snapshots, 1)
	for _, observations := range prices.snapshots {
		require.Len(t, observations, 1)
		assert.Equal(t, int64(52), observations[0].Price)
	}
}

func TestSyncRecipesSkipsIngestedTier(t *testing.T) {
	svc := NewService(&MockMarket{}, &MockPrices{}, &MockCatalog{hasProfession: true})

	report, err := svc.SyncRecipes(context.Background(), 171, 2750)

	require.NoError(t, err)
	assert.True(t, report.Skipped)
}

func TestSyncRecipesFetchesAndIngests(t *testing.T) {
	client := &MockMarket{
		recipeIDs: []int{42330},
		recipes: map[int]*market.RecipeDetail{
			42330: {
				ID:              42330,
				Name:            "Spiritual Healing Potion",
				ItemID:          171267,
				ItemName:        "Spiritual Healing Potion",
				CraftedQuantity: 1,
				Reagents: []market.RecipeReagent{
					{ItemID: 168589, Name: "Marrowroot", Quantity: 2},
					{ItemID: 180457, Name: "Shadestone", Quantity: 1},
				},
			},
		},
	}
	cat := &MockCatalog{}
	svc := NewService(client, &MockPrices{}, cat)

	report, err := svc.SyncRecipes(context.Background(), 171, 2750)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Fetched)
	assert.Equal(t, 1, report.Ingested)
	require.Len(t, cat.ingested, 1)
	assert.Equal(t, "171267", cat.ingested[0].ItemID)
	require.Len(t, cat.ingested[0].Reagents, 2)
	assert.Equal(t, "168589", cat.ingested[0].Reagents[0].ItemID)
}
