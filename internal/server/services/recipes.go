package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/dbx"
	"github.com/dmitrijs2005/foodgram/internal/logging"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/foodgram/internal/server/storage"
)

// RecipeService manages recipes and their ingredient lists.
type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      storage.ImageStore
	log         logging.Logger
	baseURL     string
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager, images storage.ImageStore, baseURL string, log logging.Logger) *RecipeService {
	return &RecipeService{
		db:          db,
		repomanager: m,
		images:      images,
		log:         log.With("module", "recipes"),
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Column bounds of the recipes and recipe_ingredients tables.
const (
	maxRecipeNameLen = 256
	maxCookingTime   = math.MaxInt16
	maxAmount        = math.MaxInt32
)

// validateIngredients checks a requested ingredient list: it must be
// non-empty, reference every ingredient at most once and use positive amounts.
func validateIngredients(items []models.IngredientAmount) error {
	if len(items) == 0 {
		return common.ErrNoIngredients
	}
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.IngredientID]; dup {
			return common.ErrDuplicateIngredient
		}
		seen[it.IngredientID] = struct{}{}
		if it.Amount < 1 || it.Amount > maxAmount {
			return common.ErrInvalidAmount
		}
	}
	return nil
}

func validateRecipe(in *models.RecipeInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Text = strings.TrimSpace(in.Text)
	if in.Name == "" || in.Text == "" {
		return common.ErrEmptyField
	}
	if utf8.RuneCountInString(in.Name) > maxRecipeNameLen {
		return common.ErrValueTooLong
	}
	if in.CookingTime < 1 || in.CookingTime > maxCookingTime {
		return common.ErrInvalidCookingTime
	}
	return validateIngredients(in.Ingredients)
}

// replaceIngredients swaps the recipe's links for items on tx. Callers
// validate items first.
func (s *RecipeService) replaceIngredients(ctx context.Context, tx dbx.DBTX, recipeID int64, items []models.IngredientAmount) error {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.IngredientID
	}
	n, err := s.repomanager.Ingredients(tx).CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return common.ErrUnknownIngredient
	}

	links := s.repomanager.RecipeIngredients(tx)
	if err := links.DeleteByRecipe(ctx, recipeID); err != nil {
		return err
	}
	return links.BulkInsert(ctx, recipeID, items)
}

// ReplaceIngredients atomically replaces the recipe's whole ingredient list.
// Readers see either the old or the new list, never a mix.
func (s *RecipeService) ReplaceIngredients(ctx context.Context, recipeID int64, items []models.IngredientAmount) error {
	if err := validateIngredients(items); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ok, err := s.repomanager.Recipes(tx).Exists(ctx, recipeID)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrRecipeNotFound
		}
		return s.replaceIngredients(ctx, tx, recipeID, items)
	})
}

func (s *RecipeService) Create(ctx context.Context, userID int64, in models.RecipeInput) (*models.RecipeDetails, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validateRecipe(&in); err != nil {
		return nil, err
	}
	img, err := storage.DecodeDataURL(in.Image)
	if err != nil {
		return nil, err
	}

	key, err := s.images.Put(ctx, storage.PrefixRecipeImages, img)
	if err != nil {
		return nil, fmt.Errorf("error storing image: %w", err)
	}

	recipe := &models.Recipe{
		AuthorID:    userID,
		Name:        in.Name,
		Text:        in.Text,
		Image:       key,
		CookingTime: in.CookingTime,
	}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Recipes(tx).Create(ctx, recipe); err != nil {
			return err
		}
		return s.replaceIngredients(ctx, tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}

	s.log.Info(ctx, "recipe created", "recipe_id", recipe.ID, "author_id", userID)
	return s.Get(ctx, userID, recipe.ID)
}

// Update rewrites the recipe. Only the author may do so. An empty Image
// keeps the current one.
func (s *RecipeService) Update(ctx context.Context, userID, id int64, in models.RecipeInput) (*models.RecipeDetails, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	recipe, err := s.repomanager.Recipes(s.db).GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, common.ErrNotRecipeAuthor
	}
	if err := validateRecipe(&in); err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	if strings.TrimSpace(in.Image) != "" {
		img, err := storage.DecodeDataURL(in.Image)
		if err != nil {
			return nil, err
		}
		key, err := s.images.Put(ctx, storage.PrefixRecipeImages, img)
		if err != nil {
			return nil, fmt.Errorf("error storing image: %w", err)
		}
		recipe.Image = key
	}

	recipe.Name = in.Name
	recipe.Text = in.Text
	recipe.CookingTime = in.CookingTime

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Recipes(tx).Update(ctx, recipe); err != nil {
			return err
		}
		return s.replaceIngredients(ctx, tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		if recipe.Image != oldImage {
			s.removeImage(ctx, recipe.Image)
		}
		return nil, err
	}

	if recipe.Image != oldImage {
		s.removeImage(ctx, oldImage)
	}
	return s.Get(ctx, userID, recipe.ID)
}

func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	repo := s.repomanager.Recipes(s.db)
	recipe, err := repo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return common.ErrNotRecipeAuthor
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	s.removeImage(ctx, recipe.Image)
	s.log.Info(ctx, "recipe deleted", "recipe_id", id, "author_id", userID)
	return nil
}

// Get returns the recipe as seen by viewerID (0 for anonymous).
func (s *RecipeService) Get(ctx context.Context, viewerID, id int64) (*models.RecipeDetails, error) {
	recipe, err := s.repomanager.Recipes(s.db).GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, viewerID, recipe, map[int64]*models.Profile{})
}

// List returns a page of recipes, newest first, and the total count.
// Favorite and cart filters only apply to authenticated viewers.
func (s *RecipeService) List(ctx context.Context, viewerID int64, filter models.RecipeFilter, limit, offset int) ([]*models.RecipeDetails, int, error) {
	if viewerID == 0 {
		filter.IsFavorited = nil
		filter.IsInShoppingCart = nil
	}

	repo := s.repomanager.Recipes(s.db)
	recipes, err := repo.List(ctx, filter, viewerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := repo.Count(ctx, filter, viewerID)
	if err != nil {
		return nil, 0, err
	}

	authors := map[int64]*models.Profile{}
	result := make([]*models.RecipeDetails, 0, len(recipes))
	for _, r := range recipes {
		d, err := s.details(ctx, viewerID, r, authors)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, d)
	}
	return result, count, nil
}

// details composes recipe with its author profile and ingredient list.
// authors memoizes profiles within a single call.
func (s *RecipeService) details(ctx context.Context, viewerID int64, recipe *models.Recipe, authors map[int64]*models.Profile) (*models.RecipeDetails, error) {
	author, ok := authors[recipe.AuthorID]
	if !ok {
		u, err := s.repomanager.Users(s.db).GetByID(ctx, recipe.AuthorID)
		if err != nil {
			return nil, err
		}
		author, err = profile(ctx, s.repomanager, s.db, viewerID, u)
		if err != nil {
			return nil, err
		}
		authors[recipe.AuthorID] = author
	}

	ingredients, err := s.repomanager.RecipeIngredients(s.db).ListByRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}

	return &models.RecipeDetails{Recipe: *recipe, Author: *author, Ingredients: ingredients}, nil
}

func (s *RecipeService) ensureExists(ctx context.Context, id int64) error {
	ok, err := s.repomanager.Recipes(s.db).Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrRecipeNotFound
	}
	return nil
}

// ShortLink returns the absolute short URL of the recipe.
func (s *RecipeService) ShortLink(ctx context.Context, id int64) (string, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/s/%d/", s.baseURL, id), nil
}

// Resolve returns the page URL a short link redirects to.
func (s *RecipeService) Resolve(ctx context.Context, id int64) (string, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/recipes/%d/", s.baseURL, id), nil
}

func (s *RecipeService) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "image cleanup failed", "key", key, "error", err)
	}
}
