package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/logging"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/foodgram/internal/server/shoppinglist"
)

var (
	render = shoppinglist.Render
	now    = time.Now
)

type ShoppingListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewShoppingListService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ShoppingListService {
	return &ShoppingListService{db: db, repomanager: m, log: log.With("module", "shoppinglist")}
}

// Build aggregates the user's cart. Each query reads its own snapshot; cart
// changes between them are tolerated.
func (s *ShoppingListService) Build(ctx context.Context, userID int64) (*models.ShoppingList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	list := &models.ShoppingList{GeneratedAt: now()}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	switch {
	case err == nil:
		list.Username = u.Username
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	lines, err := s.repomanager.RecipeIngredients(s.db).ListCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	list.Items = shoppinglist.Aggregate(lines)

	list.Recipes, err = s.repomanager.Marks(s.db).ListRecipes(ctx, models.MarkCart, userID)
	if err != nil {
		return nil, err
	}

	return list, nil
}

// Download renders the shopping list document. A rendering failure is logged
// and replaced by a placeholder document so the download still succeeds.
func (s *ShoppingListService) Download(ctx context.Context, userID int64) ([]byte, error) {
	list, err := s.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := render(&buf, *list); err != nil {
		s.log.Error(ctx, "shopping list rendering failed", "user_id", userID, "error", err)
		return []byte(shoppinglist.FallbackText), nil
	}
	return buf.Bytes(), nil
}
