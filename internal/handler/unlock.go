package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/logger"
	"github.com/YobelBerhe/CoachOS-sub000/internal/unlock"
)

// UnlockRecipeRequest represents the request to purchase access to a recipe
type UnlockRecipeRequest struct {
	UserID             string `json:"user_id" validate:"required,uuid"`
	RecipeID           string `json:"recipe_id" validate:"required,uuid"`
	AuthorizationToken string `json:"authorization_token" validate:"required,max=512"`
}

// UnlockRecipeResponse represents the outcome of an unlock purchase
type UnlockRecipeResponse struct {
	Status        unlock.Status `json:"status"`
	AmountPaid    int64         `json:"amount_paid"`
	PlatformFee   int64         `json:"platform_fee"`
	CreatorPayout int64         `json:"creator_payout"`
}

// UnlockHistoryResponse represents a page of completed unlock records
type UnlockHistoryResponse struct {
	Unlocks []domain.UnlockRecord `json:"unlocks"`
	Total   int64                 `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
}

// UnlockHandler handles recipe unlock HTTP requests
type UnlockHandler struct {
	unlockSvc unlock.Service
}

// NewUnlockHandler creates a new unlock handler
func NewUnlockHandler(unlockSvc unlock.Service) *UnlockHandler {
	return &UnlockHandler{unlockSvc: unlockSvc}
}

// HandleUnlock handles the unlock purchase endpoint
// @Summary Unlock a paid recipe
// @Description Purchase one-time access to a paid recipe. Idempotent per (user, recipe): retries of a completed purchase return already_unlocked without a second charge.
// @Tags unlock
// @Accept json
// @Produce json
// @Param request body UnlockRecipeRequest true "Unlock request"
// @Success 200 {object} UnlockRecipeResponse "Purchase completed or already unlocked"
// @Failure 400 {object} ErrorResponse "Invalid request or free recipe"
// @Failure 402 {object} ErrorResponse "Payment declined"
// @Failure 404 {object} ErrorResponse "Recipe not found"
// @Failure 409 {object} ErrorResponse "Unlock in progress or resolved concurrently"
// @Failure 504 {object} ErrorResponse "Payment provider timeout"
// @Router /unlock [post]
func (h *UnlockHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req UnlockRecipeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Unlock recipe"); err != nil {
		return
	}

	// Validated by tags; parse cannot fail here.
	userID := uuid.MustParse(req.UserID)
	recipeID := uuid.MustParse(req.RecipeID)

	log.Info("Unlock request received", "user_id", userID, "recipe_id", recipeID)

	result, err := h.unlockSvc.Unlock(r.Context(), userID, recipeID, req.AuthorizationToken)
	if err != nil {
		respondServiceError(w, r, "Unlock recipe", err)
		return
	}

	respondJSON(w, http.StatusOK, UnlockRecipeResponse{
		Status:        result.Status,
		AmountPaid:    result.AmountPaid,
		PlatformFee:   result.PlatformFee,
		CreatorPayout: result.CreatorPayout,
	})
}

// HandleHistory handles the unlock history endpoint
// @Summary List completed unlocks
// @Description Returns a page of the user's completed settlement records, most recent first
// @Tags unlock
// @Produce json
// @Param user_id query string true "User ID"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} UnlockHistoryResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Router /unlocks [get]
func (h *UnlockHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUUIDQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, ErrMsgInvalidPage, http.StatusBadRequest)
			return
		}
		page = parsed
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, ErrMsgInvalidLimit, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, total, err := h.unlockSvc.History(r.Context(), userID, page, limit)
	if err != nil {
		respondServiceError(w, r, "Unlock history", err)
		return
	}
	if records == nil {
		records = []domain.UnlockRecord{}
	}

	respondJSON(w, http.StatusOK, UnlockHistoryResponse{
		Unlocks: records,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}
