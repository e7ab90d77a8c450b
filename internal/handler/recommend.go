package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/recommend"
)

// maxRankCandidates bounds one ranking request; larger candidate sets should
// be paged by the caller.
const maxRankCandidates = 500

// RankRecipesRequest represents a request to rank candidate recipes for a user
type RankRecipesRequest struct {
	UserID             string   `json:"user_id" validate:"required,uuid"`
	CandidateRecipeIDs []string `json:"candidate_recipe_ids" validate:"required,min=1,dive,uuid"`
}

// RankRecipesResponse represents a ranked candidate list, best first
type RankRecipesResponse struct {
	Recipes []domain.RankedRecipe `json:"recipes"`
}

// RecommendHandler handles recommendation HTTP requests
type RecommendHandler struct {
	recommendSvc recommend.Service
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(recommendSvc recommend.Service) *RecommendHandler {
	return &RecommendHandler{recommendSvc: recommendSvc}
}

// HandleRank handles the recipe ranking endpoint
// @Summary Rank candidate recipes
// @Description Scores the candidates by the user's decayed interaction affinity and returns them best first. Untouched recipes score zero.
// @Tags recommend
// @Accept json
// @Produce json
// @Param request body RankRecipesRequest true "Ranking request"
// @Success 200 {object} RankRecipesResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Router /recommendations/rank [post]
func (h *RecommendHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	var req RankRecipesRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Rank recipes"); err != nil {
		return
	}
	if len(req.CandidateRecipeIDs) > maxRankCandidates {
		respondError(w, http.StatusBadRequest, ErrMsgTooManyCandidates)
		return
	}

	userID := uuid.MustParse(req.UserID)
	candidates := make([]uuid.UUID, len(req.CandidateRecipeIDs))
	for i, raw := range req.CandidateRecipeIDs {
		candidates[i] = uuid.MustParse(raw)
	}

	ranked, err := h.recommendSvc.Rank(r.Context(), userID, candidates)
	if err != nil {
		respondServiceError(w, r, "Rank recipes", err)
		return
	}

	respondJSON(w, http.StatusOK, RankRecipesResponse{Recipes: ranked})
}
