// Package services contains server-side business logic. Each service owns a
// *sql.DB and a RepositoryManager; multi-statement writes run inside
// dbx.WithTx with repositories bound to the transaction.
package services

import (
	"context"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/dbx"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/repomanager"
)

// requireUser rejects anonymous callers of mutating operations.
func requireUser(userID int64) error {
	if userID <= 0 {
		return common.ErrorUnauthorized
	}
	return nil
}

// profile composes u with the viewer's subscription state. Anonymous viewers
// are never subscribed.
func profile(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, viewerID int64, u *models.User) (*models.Profile, error) {
	p := &models.Profile{User: *u}
	p.PasswordHash = ""
	if viewerID == 0 {
		return p, nil
	}
	ok, err := rm.Subscriptions(db).Exists(ctx, viewerID, u.ID)
	if err != nil {
		return nil, err
	}
	p.IsSubscribed = ok
	return p, nil
}

// authorWithRecipes attaches up to recipesLimit recipe summaries and the
// total recipe count to p. A negative limit means all recipes.
func authorWithRecipes(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, p *models.Profile, recipesLimit int) (*models.AuthorWithRecipes, error) {
	repo := rm.Recipes(db)

	recipes, err := repo.ListByAuthor(ctx, p.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := repo.CountByAuthor(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthorWithRecipes{Profile: *p, Recipes: recipes, RecipesCount: count}, nil
}
