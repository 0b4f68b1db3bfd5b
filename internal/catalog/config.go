package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/validation"
)

// Schema paths
const (
	VendorReagentsSchemaPath = "configs/schemas/vendor_reagents.schema.json"
	RecipeRanksSchemaPath    = "configs/schemas/recipe_ranks.schema.json"
	ProfessionsSchemaPath    = "configs/schemas/professions.schema.json"
)

// VendorConfig is the JSON configuration for vendor-priced reagents.
// Vendor prices are fixed and never depend on market snapshots; anything
// cheaper than one gold is rounded down to zero upstream.
type VendorConfig struct {
	Version  string               `json:"version"`
	Reagents []domain.VendorPrice `json:"reagents"`
}

// RankEntry maps one upstream recipe id to a synthesized unique name.
// When IDContext is set, the produced item id gains a context suffix so
// distinct ranks never collide in price lookups.
type RankEntry struct {
	RecipeID   int    `json:"recipe_id"`
	NameFormat string `json:"name_format"`
	IDContext  *int   `json:"id_context,omitempty"`
}

// RankRange expands to one RankEntry per consecutive recipe id, matching
// how the upstream catalog lays out rank variants in id blocks.
type RankRange struct {
	Start      int    `json:"start"`
	Count      int    `json:"count"`
	NameFormat string `json:"name_format"`
	IDContext  *int   `json:"id_context,omitempty"`
}

// RankConfig is the JSON configuration for recipe rank disambiguation
type RankConfig struct {
	Version string      `json:"version"`
	Recipes []RankEntry `json:"recipes"`
	Ranges  []RankRange `json:"ranges"`
}

// Profession identifies one profession/skill-tier pair to ingest
type Profession struct {
	ID        int    `json:"id"`
	SkillTier int    `json:"skill_tier"`
	Name      string `json:"name"`
}

// ProfessionConfig is the JSON configuration for tracked professions
type ProfessionConfig struct {
	Version     string       `json:"version"`
	Professions []Profession `json:"professions"`
}

// VendorTable answers fixed-price lookups for vendor reagents
type VendorTable map[string]domain.VendorPrice

// Lookup returns the vendor price for an item, if any
func (t VendorTable) Lookup(itemID string) (domain.VendorPrice, bool) {
	v, ok := t[itemID]
	return v, ok
}

// RankTable maps upstream recipe ids to their disambiguation rules.
// The mapping is fixed configuration keyed by recipe id, never inferred
// from names.
type RankTable map[int]RankEntry

// Disambiguate returns the unique recipe name and produced item id for an
// upstream recipe, applying the rank table when the recipe has an entry.
func (t RankTable) Disambiguate(recipeID int, name, itemID string) (string, string) {
	entry, ok := t[recipeID]
	if !ok {
		return name, itemID
	}

	uniqueName := fmt.Sprintf(entry.NameFormat, name)
	uniqueID := itemID
	if entry.IDContext != nil {
		uniqueID = fmt.Sprintf("%s:%d", itemID, *entry.IDContext)
	}
	return uniqueName, uniqueID
}

// LoadVendorTable reads and validates the vendor reagent configuration
func LoadVendorTable(path string, sv validation.SchemaValidator) (VendorTable, error) {
	var cfg VendorConfig
	if err := loadConfig(path, VendorReagentsSchemaPath, sv, &cfg); err != nil {
		return nil, err
	}

	table := make(VendorTable, len(cfg.Reagents))
	for _, reagent := range cfg.Reagents {
		table[reagent.ItemID] = reagent
	}
	return table, nil
}

// LoadRankTable reads and validates the rank disambiguation configuration,
// expanding ranges into per-recipe entries.
func LoadRankTable(path string, sv validation.SchemaValidator) (RankTable, error) {
	var cfg RankConfig
	if err := loadConfig(path, RecipeRanksSchemaPath, sv, &cfg); err != nil {
		return nil, err
	}

	table := make(RankTable, len(cfg.Recipes))
	for _, entry := range cfg.Recipes {
		table[entry.RecipeID] = entry
	}
	for _, rng := range cfg.Ranges {
		for id := rng.Start; id < rng.Start+rng.Count; id++ {
			table[id] = RankEntry{RecipeID: id, NameFormat: rng.NameFormat, IDContext: rng.IDContext}
		}
	}
	return table, nil
}

// LoadProfessions reads and validates the tracked profession configuration
func LoadProfessions(path string, sv validation.SchemaValidator) ([]Profession, error) {
	var cfg ProfessionConfig
	if err := loadConfig(path, ProfessionsSchemaPath, sv, &cfg); err != nil {
		return nil, err
	}
	return cfg.Professions, nil
}

func loadConfig(path, schemaPath string, sv validation.SchemaValidator, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := sv.ValidateBytes(data, schemaPath); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}
