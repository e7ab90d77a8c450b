package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/interaction"
	"github.com/YobelBerhe/CoachOS-sub000/internal/logger"
)

// RecordInteractionRequest represents one interaction event to append
type RecordInteractionRequest struct {
	UserID     string    `json:"user_id" validate:"required,uuid"`
	RecipeID   string    `json:"recipe_id" validate:"required,uuid"`
	EventType  string    `json:"event_type" validate:"required,eventtype"`
	OccurredAt time.Time `json:"occurred_at" validate:"required"`
}

// FavoritesResponse represents the user's currently favorited recipes
type FavoritesResponse struct {
	RecipeIDs []uuid.UUID `json:"recipe_ids"`
}

// InteractionHandler handles interaction log HTTP requests
type InteractionHandler struct {
	interactionSvc interaction.Service
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactionSvc interaction.Service) *InteractionHandler {
	return &InteractionHandler{interactionSvc: interactionSvc}
}

// HandleRecord handles the interaction recording endpoint
// @Summary Record an interaction event
// @Description Append one view/favorite/unfavorite/diary_log event to the interaction log. Duplicate events are stored verbatim.
// @Tags interaction
// @Accept json
// @Produce json
// @Param request body RecordInteractionRequest true "Interaction event"
// @Success 202 {object} SuccessResponse "Event accepted"
// @Failure 400 {object} ErrorResponse "Invalid request or unknown event type"
// @Failure 422 {object} ErrorResponse "Timestamp beyond the skew horizon"
// @Router /interactions [post]
func (h *InteractionHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RecordInteractionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Record interaction"); err != nil {
		return
	}

	userID := uuid.MustParse(req.UserID)
	recipeID := uuid.MustParse(req.RecipeID)

	err := h.interactionSvc.Record(r.Context(), userID, recipeID, domain.EventType(req.EventType), req.OccurredAt)
	switch {
	case err == nil:
		log.Debug("Interaction accepted", "user_id", userID, "recipe_id", recipeID, "type", req.EventType)
	case errors.Is(err, domain.ErrClockSkewTooLarge), errors.Is(err, domain.ErrUnknownEventType), errors.Is(err, domain.ErrInvalidInput):
		respondServiceError(w, r, "Record interaction", err)
		return
	default:
		// Recording is best-effort: a persistence failure degrades scoring but
		// must never fail the user action that triggered it.
		log.Warn("Interaction dropped", "user_id", userID, "recipe_id", recipeID, "type", req.EventType, "error", err)
	}

	respondJSON(w, http.StatusAccepted, SuccessResponse{Message: "event recorded"})
}

// HandleFavorites handles the current-favorites endpoint
// @Summary List current favorites
// @Description Returns the recipes whose most recent favorite/unfavorite event is a favorite
// @Tags interaction
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} FavoritesResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Router /favorites [get]
func (h *InteractionHandler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUUIDQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	recipeIDs, err := h.interactionSvc.Favorites(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, "List favorites", err)
		return
	}
	if recipeIDs == nil {
		recipeIDs = []uuid.UUID{}
	}

	respondJSON(w, http.StatusOK, FavoritesResponse{RecipeIDs: recipeIDs})
}
