package recipeingredients

import (
	"context"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

// Repository stores the quantity-bearing links between recipes and
// ingredients. Replacing a recipe's links is DeleteByRecipe followed by
// BulkInsert on the same transaction.
type Repository interface {
	DeleteByRecipe(ctx context.Context, recipeID int64) error
	BulkInsert(ctx context.Context, recipeID int64, items []models.IngredientAmount) error
	ListByRecipe(ctx context.Context, recipeID int64) ([]models.RecipeIngredient, error)
	ListCartLines(ctx context.Context, userID int64) ([]models.CartLine, error)
}
