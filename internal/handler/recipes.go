package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emberforge/craftcost/internal/catalog"
	"github.com/emberforge/craftcost/internal/logger"
)

// HandleGetRecipe handles recipe lookups by produced item id or name
// @Summary Get recipe
// @Description Look up a recipe by produced item id or disambiguated name
// @Tags recipes
// @Produce json
// @Success 200 {object} domain.Recipe
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/recipes/{identifier} [get]
func HandleGetRecipe(svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		identifier := chi.URLParam(r, "identifier")
		if identifier == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingPathParam, "identifier"))
			return
		}

		recipe, err := svc.RecipeFor(r.Context(), identifier)
		if err != nil {
			log.Error("Failed to get recipe", "error", err, "identifier", identifier)
			statusCode, userMsg := mapServiceErrorToStatus(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, recipe)
	}
}
