package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/repomanager"
)

// MarkService toggles per-user recipe marks. Favorites and the shopping cart
// share this code and differ only by models.MarkKind.
type MarkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMarkService(db *sql.DB, m repomanager.RepositoryManager) *MarkService {
	return &MarkService{db: db, repomanager: m}
}

func (s *MarkService) recipe(ctx context.Context, kind models.MarkKind, userID, recipeID int64) (*models.Recipe, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown mark kind %d", int(kind))
	}
	return s.repomanager.Recipes(s.db).GetByID(ctx, recipeID, userID)
}

// Add marks the recipe for the user and returns its summary. A second Add
// of the same mark fails with common.ErrAlreadyAdded; concurrent Adds are
// settled by the storage uniqueness constraint.
func (s *MarkService) Add(ctx context.Context, kind models.MarkKind, userID, recipeID int64) (*models.RecipeSummary, error) {
	recipe, err := s.recipe(ctx, kind, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Marks(s.db).Add(ctx, kind, userID, recipeID); err != nil {
		return nil, err
	}
	summary := recipe.Summary()
	return &summary, nil
}

// Remove clears the mark. Removing an absent mark of an existing recipe
// fails with common.ErrNotPresent.
func (s *MarkService) Remove(ctx context.Context, kind models.MarkKind, userID, recipeID int64) error {
	if _, err := s.recipe(ctx, kind, userID, recipeID); err != nil {
		return err
	}
	return s.repomanager.Marks(s.db).Remove(ctx, kind, userID, recipeID)
}
