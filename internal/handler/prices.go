package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/emberforge/craftcost/internal/domain"
	"github.com/emberforge/craftcost/internal/logger"
	"github.com/emberforge/craftcost/internal/pricing"
)

// PriceResponse represents the latest-price response body
type PriceResponse struct {
	ItemID     string    `json:"item_id"`
	Price      int64     `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// PriceHistoryResponse represents the price-history response body
type PriceHistoryResponse struct {
	ItemID string              `json:"item_id"`
	Points []domain.PricePoint `json:"points"`
}

// HandleGetPrice handles getting an item's latest price
// @Summary Get latest item price
// @Description Get the price of an item in the most recent snapshot
// @Tags prices
// @Produce json
// @Success 200 {object} PriceResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/prices/{itemID} [get]
func HandleGetPrice(svc pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		itemID := chi.URLParam(r, "itemID")
		if itemID == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingPathParam, "itemID"))
			return
		}

		at, err := svc.LatestSnapshotTime(r.Context())
		if err != nil {
			log.Error("Failed to get price", "error", err, "itemID", itemID)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		price, err := svc.PriceAt(r.Context(), itemID, at)
		if err != nil {
			log.Error("Failed to get price", "error", err, "itemID", itemID)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, PriceResponse{ItemID: itemID, Price: price, RecordedAt: at})
	}
}

// HandleGetPriceHistory handles getting an item's recorded price history
// @Summary Get item price history
// @Description List recorded price observations for an item, oldest first
// @Tags prices
// @Produce json
// @Success 200 {object} PriceHistoryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/prices/{itemID}/history [get]
func HandleGetPriceHistory(svc pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		itemID := chi.URLParam(r, "itemID")
		if itemID == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingPathParam, "itemID"))
			return
		}

		var since time.Time
		if raw := r.URL.Query().Get("since"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidSince)
				return
			}
			since = parsed
		}

		points, err := svc.PriceHistory(r.Context(), itemID, since)
		if err != nil {
			log.Error("Failed to get price history", "error", err, "itemID", itemID)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		log.Info("Price history retrieved", "itemID", itemID, "points", len(points))

		respondJSON(w, http.StatusOK, PriceHistoryResponse{ItemID: itemID, Points: points})
	}
}
