package marks

import (
	"context"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

// Repository stores per-user recipe marks: favorites and shopping-cart
// entries. Both kinds share the same shape and are selected by MarkKind.
type Repository interface {
	Add(ctx context.Context, kind models.MarkKind, userID, recipeID int64) error
	Remove(ctx context.Context, kind models.MarkKind, userID, recipeID int64) error
	ListRecipes(ctx context.Context, kind models.MarkKind, userID int64) ([]models.CartRecipe, error)
}
