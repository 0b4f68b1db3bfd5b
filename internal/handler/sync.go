package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/emberforge/craftcost/internal/logger"
	"github.com/emberforge/craftcost/internal/sync"
)

// SyncPricesRequest represents the expected body of the price sync request
type SyncPricesRequest struct {
	ConnectedRealm int  `json:"connected_realm" validate:"omitempty,gt=0"`
	Force          bool `json:"force"`
}

// SyncRecipesRequest represents the expected body of the recipe sync request
type SyncRecipesRequest struct {
	Profession int `json:"profession" validate:"required,gt=0"`
	SkillTier  int `json:"skill_tier" validate:"required,gt=0"`
}

// HandleSyncPrices handles triggering a price snapshot download
// @Summary Sync prices
// @Description Download the latest auction data and record it as a snapshot
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} sync.PriceSyncReport
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/sync/prices [post]
func HandleSyncPrices(svc sync.Service, defaultRealm int, minInterval time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SyncPricesRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
				return
			}
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		realm := req.ConnectedRealm
		if realm == 0 {
			realm = defaultRealm
		}

		interval := minInterval
		if req.Force {
			interval = 0
		}

		report, err := svc.SyncPrices(r.Context(), realm, interval)
		if err != nil {
			log.Error("Failed to sync prices", "error", err, "connectedRealm", realm)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, report)
	}
}

// HandleSyncRecipes handles triggering a recipe catalog download
// @Summary Sync recipes
// @Description Fetch every recipe in a profession skill tier into the catalog
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} sync.RecipeSyncReport
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/sync/recipes [post]
func HandleSyncRecipes(svc sync.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SyncRecipesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			respondJSON(w, http.StatusBadRequest, FormatValidationError(err))
			return
		}

		report, err := svc.SyncRecipes(r.Context(), req.Profession, req.SkillTier)
		if err != nil {
			log.Error("Failed to sync recipes", "error", err, "profession", req.Profession, "skillTier", req.SkillTier)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, report)
	}
}
