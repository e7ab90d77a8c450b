package handler

import (
	"net/http"

	"github.com/YobelBerhe/CoachOS-sub000/internal/entitlement"
)

// EntitlementResponse reports whether a recipe is unlocked for a user
type EntitlementResponse struct {
	Unlocked bool `json:"unlocked"`
}

// HandleCheckEntitlement handles the entitlement check endpoint
// @Summary Check recipe entitlement
// @Description Returns whether the user may view the recipe's paid content. Free recipes are always unlocked.
// @Tags entitlement
// @Produce json
// @Param user_id query string true "User ID"
// @Param recipe_id query string true "Recipe ID"
// @Success 200 {object} EntitlementResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 404 {object} ErrorResponse "Recipe not found"
// @Router /entitlement [get]
func HandleCheckEntitlement(entitlementSvc entitlement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUUIDQueryParam(r, w, "user_id")
		if !ok {
			return
		}
		recipeID, ok := GetUUIDQueryParam(r, w, "recipe_id")
		if !ok {
			return
		}

		unlocked, err := entitlementSvc.IsUnlocked(r.Context(), userID, recipeID)
		if err != nil {
			respondServiceError(w, r, "Check entitlement", err)
			return
		}

		respondJSON(w, http.StatusOK, EntitlementResponse{Unlocked: unlocked})
	}
}
