package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/foodgram/internal/dbx"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/marks"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/recipeingredients"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either a *sql.DB or a *sql.Tx,
// so services pick the scope of every statement explicitly.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Ingredients(db dbx.DBTX) ingredients.Repository
	Recipes(db dbx.DBTX) recipes.Repository
	RecipeIngredients(db dbx.DBTX) recipeingredients.Repository
	Marks(db dbx.DBTX) marks.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
}
