package market

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/emberforge/craftcost/internal/logger"
	"github.com/emberforge/craftcost/internal/metrics"
)

// AuctionListing is one raw auction house entry as the upstream API
// reports it. Prices are in copper; normalization happens downstream.
type AuctionListing struct {
	ItemID    int
	UnitPrice int64
	Quantity  int64
}

// RecipeDetail is the full upstream description of one recipe
type RecipeDetail struct {
	ID              int
	Name            string
	ItemID          int
	ItemName        string
	CraftedQuantity int
	Reagents        []RecipeReagent
}

// RecipeReagent is one reagent line of an upstream recipe
type RecipeReagent struct {
	ItemID   int
	Name     string
	Quantity int
}

// ItemDetail is the upstream description of one item
type ItemDetail struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Client defines the interface for the upstream market data API
type Client interface {
	Auctions(ctx context.Context, connectedRealm int) ([]AuctionListing, error)
	RecipeIDs(ctx context.Context, profession, skillTier int) ([]int, error)
	Recipe(ctx context.Context, recipeID int) (*RecipeDetail, error)
	Item(ctx context.Context, itemID int) (*ItemDetail, error)
}

// Config carries the OAuth credentials and endpoints for the client
type Config struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string
	TokenURL     string
}

type client struct {
	cfg   Config
	http  *resty.Client
	items *lru.Cache[int, *ItemDetail]

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a market API client. Tokens are fetched lazily via
// the client-credentials grant and refreshed shortly before expiry.
func NewClient(cfg Config) (Client, error) {
	items, err := lru.New[int, *ItemDetail](ItemCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create item cache: %w", err)
	}

	httpClient := resty.New().
		SetTimeout(DefaultTimeout).
		SetRetryCount(DefaultRetryCount)

	return &client{
		cfg:   cfg,
		http:  httpClient,
		items: items,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// token returns a valid access token, fetching a new one when the
// cached token is missing or about to expire.
func (c *client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpirySkew)) {
		return c.accessToken, nil
	}

	var tok tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&tok).
		Post(c.cfg.TokenURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgTokenFetch, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%s %d", ErrMsgTokenStatus, resp.StatusCode())
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *client) get(ctx context.Context, endpoint, path, namespace string, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"namespace": namespace,
			"locale":    DefaultLocale,
		}).
		SetResult(out).
		Get(c.cfg.APIBaseURL + path)
	if err != nil {
		metrics.MarketRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s: %w", ErrMsgRequestFailed, err)
	}

	metrics.MarketRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode())).Inc()
	if resp.IsError() {
		return fmt.Errorf("%s %d: %s", ErrMsgUnexpectedState, resp.StatusCode(), path)
	}
	return nil
}

type auctionsResponse struct {
	Auctions []struct {
		Item struct {
			ID int `json:"id"`
		} `json:"item"`
		UnitPrice int64 `json:"unit_price"`
		Quantity  int64 `json:"quantity"`
	} `json:"auctions"`
}

// Auctions downloads the current auction house dump for a connected realm
func (c *client) Auctions(ctx context.Context, connectedRealm int) ([]AuctionListing, error) {
	log := logger.FromContext(ctx)
	log.Info("Downloading auction data", "connectedRealm", connectedRealm)

	var body auctionsResponse
	path := fmt.Sprintf("/data/wow/connected-realm/%d/auctions", connectedRealm)
	if err := c.get(ctx, "auctions", path, NamespaceDynamic, &body); err != nil {
		return nil, err
	}

	listings := make([]AuctionListing, 0, len(body.Auctions))
	for _, a := range body.Auctions {
		listings = append(listings, AuctionListing{
			ItemID:    a.Item.ID,
			UnitPrice: a.UnitPrice,
			Quantity:  a.Quantity,
		})
	}

	log.Info("Auction data downloaded", "listings", len(listings))
	return listings, nil
}

type recipeIndexResponse struct {
	Categories []struct {
		Recipes []struct {
			ID int `json:"id"`
		} `json:"recipes"`
	} `json:"categories"`
}

// RecipeIDs lists every recipe id in a profession skill tier
func (c *client) RecipeIDs(ctx context.Context, profession, skillTier int) ([]int, error) {
	var body recipeIndexResponse
	path := fmt.Sprintf("/data/wow/profession/%d/skill-tier/%d", profession, skillTier)
	if err := c.get(ctx, "skill-tier", path, NamespaceStatic, &body); err != nil {
		return nil, err
	}

	var ids []int
	for _, category := range body.Categories {
		for _, recipe := range category.Recipes {
			ids = append(ids, recipe.ID)
		}
	}
	return ids, nil
}

type recipeResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	CraftedItem *struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"crafted_item"`
	CraftedQuantity struct {
		Value float64 `json:"value"`
	} `json:"crafted_quantity"`
	Reagents []struct {
		Reagent struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"reagent"`
		Quantity int `json:"quantity"`
	} `json:"reagents"`
}

// Recipe fetches the full detail for one recipe id
func (c *client) Recipe(ctx context.Context, recipeID int) (*RecipeDetail, error) {
	var body recipeResponse
	path := fmt.Sprintf("/data/wow/recipe/%d", recipeID)
	if err := c.get(ctx, "recipe", path, NamespaceStatic, &body); err != nil {
		return nil, err
	}

	detail := &RecipeDetail{
		ID:              body.ID,
		Name:            body.Name,
		CraftedQuantity: int(body.CraftedQuantity.Value),
	}
	if body.CraftedItem != nil {
		detail.ItemID = body.CraftedItem.ID
		detail.ItemName = body.CraftedItem.Name
	}
	for _, r := range body.Reagents {
		detail.Reagents = append(detail.Reagents, RecipeReagent{
			ItemID:   r.Reagent.ID,
			Name:     r.Reagent.Name,
			Quantity: r.Quantity,
		})
	}
	return detail, nil
}

// Item fetches one item's static detail. Items never change upstream,
// so results are cached.
func (c *client) Item(ctx context.Context, itemID int) (*ItemDetail, error) {
	if cached, ok := c.items.Get(itemID); ok {
		return cached, nil
	}

	var body ItemDetail
	path := fmt.Sprintf("/data/wow/item/%d", itemID)
	if err := c.get(ctx, "item", path, NamespaceStatic, &body); err != nil {
		return nil, err
	}

	c.items.Add(itemID, &body)
	return &body, nil
}
