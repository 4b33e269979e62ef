package ingredients

import (
	"context"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, name string) ([]*models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	CountExisting(ctx context.Context, ids []int64) (int, error)
	BulkInsert(ctx context.Context, items []models.Ingredient) (int, error)
}
