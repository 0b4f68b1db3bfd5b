package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberforge/craftcost/internal/catalog"
	"github.com/emberforge/craftcost/internal/config"
	"github.com/emberforge/craftcost/internal/database"
	"github.com/emberforge/craftcost/internal/database/postgres"
	"github.com/emberforge/craftcost/internal/export"
	"github.com/emberforge/craftcost/internal/logger"
	"github.com/emberforge/craftcost/internal/market"
	"github.com/emberforge/craftcost/internal/pricing"
	"github.com/emberforge/craftcost/internal/resolver"
	"github.com/emberforge/craftcost/internal/shoplist"
	syncsvc "github.com/emberforge/craftcost/internal/sync"
	"github.com/emberforge/craftcost/internal/validation"
)

const usage = `Usage: craftctl <command> [flags]

Commands:
  sync-prices    download the latest auction data into a snapshot
  sync-recipes   fetch a profession skill tier into the recipe catalog
  cost           resolve the cheapest way to obtain an item
  shoplist       print the aggregated shopping list for an item
  export         write the shopping list as an xlsx workbook
  history        print the recorded price history for an item
  recipe         show a recipe by produced item id or name
`

// app bundles the wired services a subcommand may need
type app struct {
	cfg     *config.Config
	pool    *pgxpool.Pool
	pricing pricing.Service
	catalog catalog.Service
	sync    syncsvc.Service
	resolve func(policy string) resolver.Service
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, false))

	a, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.pool.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "sync-prices":
		err = a.runSyncPrices(ctx, os.Args[2:])
	case "sync-recipes":
		err = a.runSyncRecipes(ctx, os.Args[2:])
	case "cost":
		err = a.runCost(ctx, os.Args[2:])
	case "shoplist":
		err = a.runShoplist(ctx, os.Args[2:])
	case "export":
		err = a.runExport(ctx, os.Args[2:])
	case "history":
		err = a.runHistory(ctx, os.Args[2:])
	case "recipe":
		err = a.runRecipe(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func newApp(cfg *config.Config) (*app, error) {
	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.DefaultMaxConnections, 5*time.Minute, 30*time.Minute)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, pool); err != nil {
		return nil, err
	}

	sv := validation.NewSchemaValidator()
	vendors, err := catalog.LoadVendorTable(config.ConfigPathVendorReagents, sv)
	if err != nil {
		return nil, err
	}
	ranks, err := catalog.LoadRankTable(config.ConfigPathRecipeRanks, sv)
	if err != nil {
		return nil, err
	}

	pricingService := pricing.NewService(postgres.NewPriceRepository(pool))
	catalogService := catalog.NewService(postgres.NewRecipeRepository(pool), ranks)

	marketClient, err := market.NewClient(market.Config{
		ClientID:     cfg.MarketClientID,
		ClientSecret: cfg.MarketClientSecret,
		APIBaseURL:   cfg.MarketAPIBaseURL,
		TokenURL:     cfg.MarketTokenURL,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		pool:    pool,
		pricing: pricingService,
		catalog: catalogService,
		sync:    syncsvc.NewService(marketClient, pricingService, catalogService),
		resolve: func(policy string) resolver.Service {
			p := resolver.PolicyPerCraft
			if policy == "per_unit" {
				p = resolver.PolicyPerUnit
			}
			return resolver.NewService(catalogService, pricingService, vendors, p)
		},
	}, nil
}

func (a *app) runSyncPrices(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync-prices", flag.ExitOnError)
	realm := fs.Int("realm", a.cfg.RealmID, "connected-realm id")
	force := fs.Bool("force", false, "download even when the latest snapshot is fresh")
	if err := fs.Parse(args); err != nil {
		return err
	}

	interval := a.cfg.ResyncInterval
	if *force {
		interval = 0
	}

	report, err := a.sync.SyncPrices(ctx, *realm, interval)
	if err != nil {
		return err
	}
	if report.Skipped {
		fmt.Println("Latest snapshot is fresh, nothing downloaded.")
		return nil
	}
	fmt.Printf("Recorded %d observations at %s.\n", report.Observations, report.RecordedAt.Format(time.RFC3339))
	return nil
}

func (a *app) runSyncRecipes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync-recipes", flag.ExitOnError)
	profession := fs.Int("profession", 171, "profession id")
	skillTier := fs.Int("skill-tier", 2750, "skill tier id")
	all := fs.Bool("all", false, "sync every tracked profession from configs/professions.json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *all {
		professions, err := catalog.LoadProfessions(config.ConfigPathProfessions, validation.NewSchemaValidator())
		if err != nil {
			return err
		}
		for _, p := range professions {
			fmt.Printf("%s (%d/%d):\n", p.Name, p.ID, p.SkillTier)
			if err := a.syncOneTier(ctx, p.ID, p.SkillTier); err != nil {
				return err
			}
		}
		return nil
	}

	return a.syncOneTier(ctx, *profession, *skillTier)
}

func (a *app) syncOneTier(ctx context.Context, profession, skillTier int) error {
	report, err := a.sync.SyncRecipes(ctx, profession, skillTier)
	if err != nil {
		return err
	}
	if report.Skipped {
		fmt.Println("Skill tier already ingested, nothing fetched.")
		return nil
	}
	fmt.Printf("Ingested %d of %d recipes.\n", report.Ingested, report.Fetched)
	for _, rejected := range report.Rejected {
		fmt.Printf("  skipped recipe %d: %s\n", rejected.RecipeID, rejected.Reason)
	}
	return nil
}

func (a *app) runCost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cost", flag.ExitOnError)
	policy := fs.String("policy", "per_craft", "cost policy: per_craft or per_unit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one item id or recipe name")
	}

	result, err := a.resolve(*policy).Resolve(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func (a *app) runShoplist(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("shoplist", flag.ExitOnError)
	policy := fs.String("policy", "per_craft", "cost policy: per_craft or per_unit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one item id or recipe name")
	}

	result, err := a.resolve(*policy).Resolve(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	lines := shoplist.Expand(result.Root)
	for _, line := range lines {
		fmt.Printf("%4d x %-36s %6dg each %8dg\n", line.Quantity, line.Name, line.UnitPrice, line.LineCost)
	}
	fmt.Printf("Total: %dg\n", shoplist.Total(lines))
	return nil
}

func (a *app) runRecipe(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one item id or recipe name")
	}

	recipe, err := a.catalog.RecipeFor(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (recipe %d) makes %d x %s\n", recipe.Name, recipe.ID, recipe.CraftedQuantity, recipe.ItemName)
	for _, reagent := range recipe.Reagents {
		fmt.Printf("  %4d x %s\n", reagent.Quantity, reagent.Name)
	}
	return nil
}

func (a *app) runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	since := fs.String("since", "", "only show observations after this RFC3339 timestamp")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one item id")
	}

	var from time.Time
	if *since != "" {
		parsed, err := time.Parse(time.RFC3339, *since)
		if err != nil {
			return fmt.Errorf("invalid -since value: %w", err)
		}
		from = parsed
	}

	points, err := a.pricing.PriceHistory(ctx, fs.Arg(0), from)
	if err != nil {
		return err
	}
	for _, point := range points {
		fmt.Printf("%s  %6dg  x%d\n", point.RecordedAt.Format(time.RFC3339), point.Price, point.Quantity)
	}
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	policy := fs.String("policy", "per_craft", "cost policy: per_craft or per_unit")
	outPath := fs.String("out", "shopping-list.xlsx", "output file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one item id or recipe name")
	}

	result, err := a.resolve(*policy).Resolve(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteWorkbook(f, fs.Arg(0), shoplist.Expand(result.Root)); err != nil {
		return err
	}
	fmt.Printf("Wrote %s.\n", *outPath)
	return nil
}
