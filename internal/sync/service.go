package sync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/emberforge/craftcost/internal/catalog"
	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/logger"
	"github.com/emberforge/craftcost/internal/market"
	"github.com/emberforge/craftcost/internal/metrics"
)

// Prices is the pricing surface the sync service depends on
type Prices interface {
	ShouldResync(ctx context.Context, now time.Time, minInterval time.Duration) (bool, error)
	RecordSnapshot(ctx context.Context, observations []domain.PriceObservation, at time.Time) error
}

// Catalog is the catalog surface the sync service depends on
type Catalog interface {
	HasProfession(ctx context.Context, profession, skillTier int) (bool, error)
	KnownItemIDs(ctx context.Context) ([]string, error)
	IngestRecipes(ctx context.Context, recipes []domain.Recipe) (*catalog.IngestReport, error)
}

// PriceSyncReport summarizes one price sync attempt
type PriceSyncReport struct {
	Skipped      bool      `json:"skipped"`
	Observations int       `json:"observations"`
	RecordedAt   time.Time `json:"recorded_at,omitempty"`
}

// RecipeSyncReport summarizes one recipe sync attempt
type RecipeSyncReport struct {
	Skipped  bool                    `json:"skipped"`
	Fetched  int                     `json:"fetched"`
	Ingested int                     `json:"ingested"`
	Rejected []catalog.SkippedRecipe `json:"rejected,omitempty"`
}

// Service defines the interface for upstream data synchronization
type Service interface {
	SyncPrices(ctx context.Context, connectedRealm int, minInterval time.Duration) (*PriceSyncReport, error)
	SyncRecipes(ctx context.Context, profession, skillTier int) (*RecipeSyncReport, error)
}

type service struct {
	client  market.Client
	prices  Prices
	catalog Catalog
	now     func() time.Time
}

// NewService creates a new sync service
func NewService(client market.Client, prices Prices, cat Catalog) Service {
	return &service{
		client:  client,
		prices:  prices,
		catalog: cat,
		now:     time.Now,
	}
}

// SyncPrices downloads the auction house dump for a realm and records it
// as a new snapshot. The download is skipped when the latest snapshot is
// younger than minInterval.
func (s *service) SyncPrices(ctx context.Context, connectedRealm int, minInterval time.Duration) (*PriceSyncReport, error) {
	log := logger.FromContext(ctx)
	now := s.now().UTC()

	due, err := s.prices.ShouldResync(ctx, now, minInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to check sync staleness: %w", err)
	}
	if !due {
		log.Info("Price sync skipped, latest snapshot is fresh", "minInterval", minInterval)
		metrics.SnapshotsSkipped.Inc()
		return &PriceSyncReport{Skipped: true}, nil
	}

	listings, err := s.client.Auctions(ctx, connectedRealm)
	if err != nil {
		return nil, fmt.Errorf("failed to download auctions: %w", err)
	}

	known, err := s.catalog.KnownItemIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load known item ids: %w", err)
	}

	observations := NormalizeListings(listings, known)
	if err := s.prices.RecordSnapshot(ctx, observations, now); err != nil {
		return nil, err
	}

	metrics.SnapshotsRecorded.Inc()
	log.Info("Price sync complete", "listings", len(listings), "observations", len(observations))
	return &PriceSyncReport{Observations: len(observations), RecordedAt: now}, nil
}

// NormalizeListings folds raw auction listings into one observation per
// tracked item: the minimum unit price, floored from copper to gold, and
// the summed quantity. Listings for untracked items and listings without
// a positive unit price are dropped.
func NormalizeListings(listings []market.AuctionListing, knownIDs []string) []domain.PriceObservation {
	known := make(map[string]struct{}, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = struct{}{}
	}

	byItem := make(map[string]*domain.PriceObservation)
	var order []string
	for _, listing := range listings {
		itemID := strconv.Itoa(listing.ItemID)
		if _, ok := known[itemID]; !ok {
			continue
		}
		if listing.UnitPrice <= 0 || listing.Quantity <= 0 {
			continue
		}

		gold := listing.UnitPrice / domain.CopperPerGold
		obs, ok := byItem[itemID]
		if !ok {
			byItem[itemID] = &domain.PriceObservation{
				ItemID:   itemID,
				Price:    gold,
				Quantity: listing.Quantity,
			}
			order = append(order, itemID)
			continue
		}

		obs.Quantity += listing.Quantity
		if gold < obs.Price {
			obs.Price = gold
		}
	}

	observations := make([]domain.PriceObservation, 0, len(order))
	for _, itemID := range order {
		observations = append(observations, *byItem[itemID])
	}
	return observations
}

// SyncRecipes fetches every recipe in a profession skill tier and loads
// it into the catalog. Already-ingested tiers are skipped; the upstream
// catalog is static within a game version.
func (s *service) SyncRecipes(ctx context.Context, profession, skillTier int) (*RecipeSyncReport, error) {
	log := logger.FromContext(ctx)

	has, err := s.catalog.HasProfession(ctx, profession, skillTier)
	if err != nil {
		return nil, err
	}
	if has {
		log.Info("Recipe sync skipped, tier already ingested", "profession", profession, "skillTier", skillTier)
		return &RecipeSyncReport{Skipped: true}, nil
	}

	ids, err := s.client.RecipeIDs(ctx, profession, skillTier)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(ids))
	for _, id := range ids {
		detail, err := s.client.Recipe(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch recipe %d: %w", id, err)
		}
		recipes = append(recipes, toDomainRecipe(detail, profession, skillTier))
	}

	report, err := s.catalog.IngestRecipes(ctx, recipes)
	if err != nil {
		return nil, err
	}

	metrics.RecipesIngested.Add(float64(report.Ingested))
	for _, rejected := range report.Skipped {
		metrics.RecipesRejected.WithLabelValues(rejected.Reason).Inc()
	}

	log.Info("Recipe sync complete", "fetched", len(recipes), "ingested", report.Ingested, "rejected", len(report.Skipped))
	return &RecipeSyncReport{
		Fetched:  len(recipes),
		Ingested: report.Ingested,
		Rejected: report.Skipped,
	}, nil
}

func toDomainRecipe(detail *market.RecipeDetail, profession, skillTier int) domain.Recipe {
	recipe := domain.Recipe{
		ID:              detail.ID,
		Profession:      profession,
		SkillTier:       skillTier,
		Name:            detail.Name,
		ItemName:        detail.ItemName,
		CraftedQuantity: detail.CraftedQuantity,
	}
	if detail.ItemID != 0 {
		recipe.ItemID = strconv.Itoa(detail.ItemID)
	}
	for _, reagent := range detail.Reagents {
		recipe.Reagents = append(recipe.Reagents, domain.Reagent{
			ItemID:   strconv.Itoa(reagent.ItemID),
			Name:     reagent.Name,
			Quantity: reagent.Quantity,
		})
	}
	return recipe
}
