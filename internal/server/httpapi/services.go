package httpapi

import (
	"context"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (int64, error)
	Get(ctx context.Context, viewerID, id int64) (*models.Profile, error)
	Me(ctx context.Context, userID int64) (*models.Profile, error)
	List(ctx context.Context, viewerID int64, limit, offset int) ([]*models.Profile, int, error)
	SetPassword(ctx context.Context, userID int64, current, next string) error
	SetAvatar(ctx context.Context, userID int64, dataURL string) (string, error)
	DeleteAvatar(ctx context.Context, userID int64) error
}

type IngredientService interface {
	List(ctx context.Context, name string) ([]*models.Ingredient, error)
	Get(ctx context.Context, id int64) (*models.Ingredient, error)
}

type RecipeService interface {
	Create(ctx context.Context, userID int64, in models.RecipeInput) (*models.RecipeDetails, error)
	Update(ctx context.Context, userID, id int64, in models.RecipeInput) (*models.RecipeDetails, error)
	Delete(ctx context.Context, userID, id int64) error
	Get(ctx context.Context, viewerID, id int64) (*models.RecipeDetails, error)
	List(ctx context.Context, viewerID int64, filter models.RecipeFilter, limit, offset int) ([]*models.RecipeDetails, int, error)
	ShortLink(ctx context.Context, id int64) (string, error)
	Resolve(ctx context.Context, id int64) (string, error)
}

type MarkService interface {
	Add(ctx context.Context, kind models.MarkKind, userID, recipeID int64) (*models.RecipeSummary, error)
	Remove(ctx context.Context, kind models.MarkKind, userID, recipeID int64) error
}

type ShoppingListService interface {
	Download(ctx context.Context, userID int64) ([]byte, error)
}

type SubscriptionService interface {
	Follow(ctx context.Context, userID, authorID int64, recipesLimit int) (*models.AuthorWithRecipes, error)
	Unfollow(ctx context.Context, userID, authorID int64) error
	ListFollowing(ctx context.Context, userID int64, recipesLimit, limit, offset int) ([]*models.AuthorWithRecipes, int, error)
}

// Services bundles the business logic the HTTP layer dispatches to.
type Services struct {
	Users         UserService
	Ingredients   IngredientService
	Recipes       RecipeService
	Marks         MarkService
	ShoppingList  ShoppingListService
	Subscriptions SubscriptionService
}
