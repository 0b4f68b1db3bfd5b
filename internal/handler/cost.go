package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/emberforge/craftcost/internal/logger"
	"github.com/emberforge/craftcost/internal/metrics"
	"github.com/emberforge/craftcost/internal/resolver"
	"github.com/emberforge/craftcost/internal/shoplist"
)

// Cost policy request values
const (
	PolicyPerCraft = "per_craft"
	PolicyPerUnit  = "per_unit"
)

// Resolvers bundles one resolver per cost policy so a request can pick
// its policy without rebuilding services.
type Resolvers struct {
	PerCraft resolver.Service
	PerUnit  resolver.Service
}

// ForPolicy returns the resolver for a request policy value, defaulting
// to per-craft.
func (r Resolvers) ForPolicy(policy string) resolver.Service {
	if policy == PolicyPerUnit {
		return r.PerUnit
	}
	return r.PerCraft
}

// CostRequest represents the expected body of the cost request
type CostRequest struct {
	Identifier string `json:"identifier" validate:"required,max=256"`
	Policy     string `json:"policy" validate:"policy"`
}

// ShoplistResponse represents the response body of the shoplist endpoint
type ShoplistResponse struct {
	Identifier string          `json:"identifier"`
	Lines      []shoplist.Line `json:"lines"`
	TotalCost  int64           `json:"total_cost"`
}

// HandleResolveCost handles cost resolution requests
// @Summary Resolve item cost
// @Description Compute the minimum cost of obtaining an item, deciding craft-vs-buy per node
// @Tags cost
// @Accept json
// @Produce json
// @Success 200 {object} domain.CostResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/cost [post]
func HandleResolveCost(resolvers Resolvers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		start := time.Now()
		result, err := resolvers.ForPolicy(req.Policy).Resolve(r.Context(), req.Identifier)
		if err != nil {
			log.Error("Failed to resolve cost", "error", err, "identifier", req.Identifier)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
		metrics.ResolutionsTotal.WithLabelValues(string(result.Root.Decision)).Inc()
		log.Info("Cost resolved", "identifier", req.Identifier, "totalCost", result.TotalCost, "decision", result.Root.Decision)

		respondJSON(w, http.StatusOK, result)
	}
}

// HandleShoppingList handles shopping list expansion requests
// @Summary Expand shopping list
// @Description Flatten a cost resolution into aggregated purchase lines
// @Tags cost
// @Accept json
// @Produce json
// @Success 200 {object} ShoplistResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/shoplist [post]
func HandleShoppingList(resolvers Resolvers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		result, err := resolvers.ForPolicy(req.Policy).Resolve(r.Context(), req.Identifier)
		if err != nil {
			log.Error("Failed to resolve shopping list", "error", err, "identifier", req.Identifier)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		lines := shoplist.Expand(result.Root)
		log.Info("Shopping list expanded", "identifier", req.Identifier, "lines", len(lines))

		respondJSON(w, http.StatusOK, ShoplistResponse{
			Identifier: req.Identifier,
			Lines:      lines,
			TotalCost:  shoplist.Total(lines),
		})
	}
}
