package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

type recipeRepository struct {
	db *pgxpool.Pool
}

// NewRecipeRepository creates a new PostgreSQL recipe catalog repository
func NewRecipeRepository(db *pgxpool.Pool) repository.Recipe {
	return &recipeRepository{db: db}
}

const getRecipeSQL = `
	SELECT recipe_id, creator_id, title, price_minor, is_paid
	FROM recipes
	WHERE recipe_id = $1
`

func (r *recipeRepository) GetByID(ctx context.Context, recipeID uuid.UUID) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.db.QueryRow(ctx, getRecipeSQL, recipeID).Scan(
		&recipe.ID, &recipe.CreatorID, &recipe.Title, &recipe.PriceMinor, &recipe.IsPaid,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}
