package recipes

import (
	"context"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

// Repository stores recipes. Read methods take the viewer's user id (0 for
// anonymous) to fill the per-viewer mark flags.
type Repository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64, viewerID int64) (*models.Recipe, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter models.RecipeFilter, viewerID int64, limit, offset int) ([]*models.Recipe, error)
	Count(ctx context.Context, filter models.RecipeFilter, viewerID int64) (int, error)
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]models.RecipeSummary, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
}
