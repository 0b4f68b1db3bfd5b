package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emberforge/craftcost/internal/catalog"
	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/logger"
)

// Catalog defines the recipe graph access required by the resolver.
// Craftability is implied by RecipeFor: an item without a recipe reports
// domain.ErrRecipeNotFound and resolves as a market leaf.
type Catalog interface {
	RecipeFor(ctx context.Context, identifier string) (*domain.Recipe, error)
}

// Prices defines the snapshot access required by the resolver
type Prices interface {
	LatestSnapshotTime(ctx context.Context) (time.Time, error)
	PriceAt(ctx context.Context, itemID string, at time.Time) (int64, error)
}

// CostPolicy names how a craft's component cost relates to its yield
type CostPolicy int

const (
	// PolicyPerCraft charges the full component cost of one craft action
	// regardless of how many units it yields. Default.
	PolicyPerCraft CostPolicy = iota

	// PolicyPerUnit divides the component cost by the crafted quantity,
	// rounding up so a craft never looks cheaper than it is.
	PolicyPerUnit
)

// Service defines the interface for cost resolution
type Service interface {
	Resolve(ctx context.Context, identifier string) (*domain.CostResult, error)
}

type service struct {
	catalog Catalog
	prices  Prices
	vendors catalog.VendorTable
	policy  CostPolicy
}

// NewService creates a new cost resolver. The vendor table is fixed
// configuration passed in explicitly, not ambient state.
func NewService(cat Catalog, prices Prices, vendors catalog.VendorTable, policy CostPolicy) Service {
	return &service{
		catalog: cat,
		prices:  prices,
		vendors: vendors,
		policy:  policy,
	}
}

// pass holds the state of one resolution pass. Memoization and cycle
// tracking are scoped per call, never shared across resolutions, so
// concurrent Resolve calls against a stable snapshot stay safe.
type pass struct {
	at         time.Time
	memo       map[string]*domain.DecisionNode
	inProgress map[string]bool
	path       []string
}

// Resolve computes the minimum achievable cost of obtaining an item,
// deciding craft-vs-buy at every node of its recipe subtree against the
// single most recent price snapshot.
func (s *service) Resolve(ctx context.Context, identifier string) (*domain.CostResult, error) {
	log := logger.FromContext(ctx)
	log.Info("Resolve called", "identifier", identifier)

	at, err := s.prices.LatestSnapshotTime(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotMissing) {
			return nil, domain.ErrSnapshotMissing
		}
		return nil, fmt.Errorf("failed to pin snapshot: %w", err)
	}

	itemID, name, err := s.rootItem(ctx, identifier, at)
	if err != nil {
		return nil, err
	}

	p := &pass{
		at:         at,
		memo:       make(map[string]*domain.DecisionNode),
		inProgress: make(map[string]bool),
	}

	root, err := s.resolveNode(ctx, p, itemID, name)
	if err != nil {
		return nil, err
	}

	log.Info("Resolved", "item", itemID, "decision", root.Decision, "totalCost", root.TotalCost)
	return &domain.CostResult{TotalCost: root.TotalCost, Root: root}, nil
}

// rootItem maps the caller's identifier onto an item node. Identifiers
// may be a produced item id, a disambiguated recipe name, a vendor
// reagent id, or a plain listed item id.
func (s *service) rootItem(ctx context.Context, identifier string, at time.Time) (string, string, error) {
	recipe, err := s.catalog.RecipeFor(ctx, identifier)
	if err == nil {
		return recipe.ItemID, recipe.ItemName, nil
	}
	if !errors.Is(err, domain.ErrRecipeNotFound) {
		return "", "", fmt.Errorf("failed to look up recipe: %w", err)
	}

	if vendor, ok := s.vendors.Lookup(identifier); ok {
		return vendor.ItemID, vendor.Name, nil
	}

	if _, err := s.prices.PriceAt(ctx, identifier, at); err == nil {
		return identifier, identifier, nil
	}

	return "", "", fmt.Errorf("%w: %s", domain.ErrNotFound, identifier)
}

// resolveNode performs the post-order craft-vs-buy recursion for one item
func (s *service) resolveNode(ctx context.Context, p *pass, itemID, name string) (*domain.DecisionNode, error) {
	// Vendor reagents short-circuit with their fixed price and never
	// consult snapshots.
	if vendor, ok := s.vendors.Lookup(itemID); ok {
		price := vendor.Price
		return &domain.DecisionNode{
			ItemID:      itemID,
			Name:        vendor.Name,
			MarketPrice: &price,
			Decision:    domain.DecisionVendor,
			TotalCost:   price,
		}, nil
	}

	// Shared reagents resolve once per pass: diamond dependencies reuse
	// the memoized node rather than recomputing the subtree.
	if node, ok := p.memo[itemID]; ok {
		return node, nil
	}

	if p.inProgress[itemID] {
		cycle := append(append([]string{}, p.path...), itemID)
		return nil, fmt.Errorf("%w: %s", domain.ErrCyclicRecipe, strings.Join(cycle, " -> "))
	}

	recipe, err := s.catalog.RecipeFor(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return s.resolveLeaf(ctx, p, itemID, name)
		}
		return nil, fmt.Errorf("failed to look up recipe: %w", err)
	}

	p.inProgress[itemID] = true
	p.path = append(p.path, itemID)

	var componentCost int64
	children := make([]domain.ChildRef, 0, len(recipe.Reagents))
	for _, reagent := range recipe.Reagents {
		child, err := s.resolveNode(ctx, p, reagent.ItemID, reagent.Name)
		if err != nil {
			return nil, err
		}
		componentCost += int64(reagent.Quantity) * child.TotalCost
		children = append(children, domain.ChildRef{Node: child, Quantity: reagent.Quantity})
	}

	p.path = p.path[:len(p.path)-1]
	delete(p.inProgress, itemID)

	if s.policy == PolicyPerUnit && recipe.CraftedQuantity > 1 {
		yield := int64(recipe.CraftedQuantity)
		componentCost = (componentCost + yield - 1) / yield
	}

	node := &domain.DecisionNode{
		ItemID:        itemID,
		Name:          name,
		ComponentCost: &componentCost,
		Components:    children,
	}

	// The craft-vs-buy comparison happens exactly once, here; the
	// expander replays the recorded decision instead of re-deciding.
	// Strict inequality: ties buy, since crafting carries a time cost
	// the price numbers do not reflect.
	marketPrice, err := s.marketPrice(ctx, p, itemID)
	if err != nil {
		return nil, err
	}
	node.MarketPrice = marketPrice

	if marketPrice == nil || componentCost < *marketPrice {
		node.Decision = domain.DecisionCraft
		node.TotalCost = componentCost
	} else {
		node.Decision = domain.DecisionBuy
		node.TotalCost = *marketPrice
	}

	p.memo[itemID] = node
	return node, nil
}

// resolveLeaf prices a non-craftable item directly off the snapshot.
// A leaf without a price is a reportable failure, never a silent zero.
func (s *service) resolveLeaf(ctx context.Context, p *pass, itemID, name string) (*domain.DecisionNode, error) {
	price, err := s.prices.PriceAt(ctx, itemID, p.at)
	if err != nil {
		if errors.Is(err, domain.ErrPriceUnavailable) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPriceUnavailable, itemID)
		}
		return nil, fmt.Errorf("failed to get price for %s: %w", itemID, err)
	}

	node := &domain.DecisionNode{
		ItemID:      itemID,
		Name:        name,
		MarketPrice: &price,
		Decision:    domain.DecisionBuy,
		TotalCost:   price,
	}
	p.memo[itemID] = node
	return node, nil
}

// marketPrice returns the item's snapshot price, or nil when the item has
// no market data at the pinned timestamp.
func (s *service) marketPrice(ctx context.Context, p *pass, itemID string) (*int64, error) {
	price, err := s.prices.PriceAt(ctx, itemID, p.at)
	if err != nil {
		if errors.Is(err, domain.ErrPriceUnavailable) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get price for %s: %w", itemID, err)
	}
	return &price, nil
}
