package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/repository"
)

type recipeRepository struct {
	db *pgxpool.Pool
}

// NewRecipeRepository creates a new PostgreSQL recipe catalog repository
func NewRecipeRepository(db *pgxpool.Pool) repository.Recipes {
	return &recipeRepository{db: db}
}

// InsertRecipe writes one recipe with its reagent rows. The produced item
// is marked craftable; reagents keep whatever craftable flag a later
// recipe ingestion may set for them.
func (r *recipeRepository) InsertRecipe(ctx context.Context, recipe *domain.Recipe) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO recipes (recipe_id, profession, skill_tier, recipe_name, item_id, crafted_quantity)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (recipe_id) DO NOTHING`,
		recipe.ID, recipe.Profession, recipe.SkillTier, recipe.Name, recipe.ItemID, recipe.CraftedQuantity)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO reagents (item_id, name, craftable)
		 VALUES ($1, $2, TRUE)
		 ON CONFLICT (item_id) DO UPDATE SET craftable = TRUE`,
		recipe.ItemID, recipe.ItemName)
	if err != nil {
		return fmt.Errorf("failed to upsert produced item: %w", err)
	}

	for _, reagent := range recipe.Reagents {
		_, err = tx.Exec(ctx,
			`INSERT INTO reagents (item_id, name, craftable)
			 VALUES ($1, $2, FALSE)
			 ON CONFLICT (item_id) DO NOTHING`,
			reagent.ItemID, reagent.Name)
		if err != nil {
			return fmt.Errorf("failed to insert reagent: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO recipe_reagents (recipe_id, item_id, quantity)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (recipe_id, item_id) DO NOTHING`,
			recipe.ID, reagent.ItemID, reagent.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert recipe reagent: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}

	return nil
}

// GetRecipeByItemID returns the recipe producing the given item
func (r *recipeRepository) GetRecipeByItemID(ctx context.Context, itemID string) (*domain.Recipe, error) {
	return r.getRecipe(ctx,
		`SELECT r.recipe_id, r.profession, r.skill_tier, r.recipe_name, r.item_id, r.crafted_quantity, i.name, r.created_at
		 FROM recipes r
		 INNER JOIN reagents i ON r.item_id = i.item_id
		 WHERE r.item_id = $1`,
		itemID)
}

// GetRecipeByName returns the recipe with the given disambiguated name
func (r *recipeRepository) GetRecipeByName(ctx context.Context, name string) (*domain.Recipe, error) {
	return r.getRecipe(ctx,
		`SELECT r.recipe_id, r.profession, r.skill_tier, r.recipe_name, r.item_id, r.crafted_quantity, i.name, r.created_at
		 FROM recipes r
		 INNER JOIN reagents i ON r.item_id = i.item_id
		 WHERE r.recipe_name = $1`,
		name)
}

func (r *recipeRepository) getRecipe(ctx context.Context, query string, arg interface{}) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&recipe.ID, &recipe.Profession, &recipe.SkillTier, &recipe.Name,
		&recipe.ItemID, &recipe.CraftedQuantity, &recipe.ItemName, &recipe.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	reagents, err := r.recipeReagents(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	recipe.Reagents = reagents

	return &recipe, nil
}

func (r *recipeRepository) recipeReagents(ctx context.Context, recipeID int) ([]domain.Reagent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT q.item_id, i.name, q.quantity
		 FROM recipe_reagents q
		 INNER JOIN reagents i ON q.item_id = i.item_id
		 WHERE q.recipe_id = $1
		 ORDER BY q.item_id`,
		recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reagents: %w", err)
	}
	defer rows.Close()

	var reagents []domain.Reagent
	for rows.Next() {
		var reagent domain.Reagent
		if err := rows.Scan(&reagent.ItemID, &reagent.Name, &reagent.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan reagent: %w", err)
		}
		reagents = append(reagents, reagent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reagents: %w", err)
	}

	return reagents, nil
}

// IsCraftable reports whether a recipe produces the given item
func (r *recipeRepository) IsCraftable(ctx context.Context, itemID string) (bool, error) {
	var craftable bool
	err := r.db.QueryRow(ctx,
		`SELECT craftable FROM reagents WHERE item_id = $1`, itemID).Scan(&craftable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check craftable: %w", err)
	}

	return craftable, nil
}

// RecipeCount returns the number of recipes for a profession/skill-tier pair
func (r *recipeRepository) RecipeCount(ctx context.Context, profession, skillTier int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM recipes WHERE profession = $1 AND skill_tier = $2`,
		profession, skillTier).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	return count, nil
}

// AllReagentIDs returns the ids of every known item
func (r *recipeRepository) AllReagentIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT item_id FROM reagents ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reagent ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan reagent id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reagent ids: %w", err)
	}

	return ids, nil
}
