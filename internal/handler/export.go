package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/emberforge/craftcost/internal/export"
	"github.com/emberforge/craftcost/internal/logger"
	"github.com/emberforge/craftcost/internal/shoplist"
)

// HandleExportShoppingList handles exporting a shopping list as a workbook
// @Summary Export shopping list
// @Description Resolve an item and download its shopping list as an xlsx workbook
// @Tags cost
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/shoplist/export [post]
func HandleExportShoppingList(resolvers Resolvers) http.HandlerFunc {
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
			log.Error("Failed to export shopping list", "error", err, "identifier", req.Identifier)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		lines := shoplist.Expand(result.Root)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "shopping-list.xlsx"))

		if err := export.WriteWorkbook(w, req.Identifier, lines); err != nil {
			// Headers are already sent; the broken download is all we can report
			log.Error("Failed to write workbook", "error", err, "identifier", req.Identifier)
			return
		}

		log.Info("Shopping list exported", "identifier", req.Identifier, "lines", len(lines))
	}
}
