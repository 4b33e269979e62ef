package services

import (
	"context"
	"database/sql"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/repomanager"
)

// Column bounds of the ingredients table.
const (
	maxIngredientNameLen = 128
	maxUnitLen           = 64
)

type IngredientService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewIngredientService(db *sql.DB, m repomanager.RepositoryManager) *IngredientService {
	return &IngredientService{db: db, repomanager: m}
}

// List returns catalog entries whose name contains name, case-insensitively.
func (s *IngredientService) List(ctx context.Context, name string) ([]*models.Ingredient, error) {
	return s.repomanager.Ingredients(s.db).List(ctx, name)
}

func (s *IngredientService) Get(ctx context.Context, id int64) (*models.Ingredient, error) {
	return s.repomanager.Ingredients(s.db).GetByID(ctx, id)
}

// Import adds items to the catalog, skipping entries that already exist,
// and returns how many rows were inserted.
func (s *IngredientService) Import(ctx context.Context, items []models.Ingredient) (int, error) {
	clean := make([]models.Ingredient, 0, len(items))
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		it.MeasurementUnit = strings.TrimSpace(it.MeasurementUnit)
		if it.Name == "" || it.MeasurementUnit == "" {
			return 0, common.ErrEmptyField
		}
		if utf8.RuneCountInString(it.Name) > maxIngredientNameLen ||
			utf8.RuneCountInString(it.MeasurementUnit) > maxUnitLen {
			return 0, common.ErrValueTooLong
		}
		clean = append(clean, it)
	}
	if len(clean) == 0 {
		return 0, nil
	}
	return s.repomanager.Ingredients(s.db).BulkInsert(ctx, clean)
}
