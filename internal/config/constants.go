package config

// Configuration file paths
const (
	ConfigPathVendorReagents = "configs/vendor_reagents.json"
	ConfigPathRecipeRanks    = "configs/recipe_ranks.json"
	ConfigPathProfessions    = "configs/professions.json"
)

// Market API defaults
const (
	DefaultMarketAPIBaseURL = "https://us.api.blizzard.com"
	DefaultMarketTokenURL   = "https://us.battle.net/oauth/token"

	// Dethecus connected-realm
	DefaultRealmID = 154
)
