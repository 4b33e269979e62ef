// Package recipes provides the PostgreSQL-backed recipe repository.
package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/dbx"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

const selectRecipe = `SELECT r.id, r.author_id, r.name, r.text, r.image, r.cooking_time, r.published_at,
		EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $1),
		EXISTS (SELECT 1 FROM shopping_carts c WHERE c.recipe_id = r.id AND c.user_id = $1)
	FROM recipes r`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row scanner) (*models.Recipe, error) {
	r := &models.Recipe{}
	err := row.Scan(&r.ID, &r.AuthorID, &r.Name, &r.Text, &r.Image, &r.CookingTime, &r.PublishedAt,
		&r.IsFavorited, &r.IsInShoppingCart)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// dataError maps column constraint failures to validation errors. The only
// numeric column written is cooking_time.
func dataError(err error) error {
	switch {
	case dbx.IsCheckViolation(err), dbx.IsOutOfRange(err):
		return common.ErrInvalidCookingTime
	case dbx.IsTooLong(err):
		return common.ErrValueTooLong
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipes (author_id, name, text, image, cooking_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, published_at`

	err := r.db.QueryRowContext(ctx, query,
		recipe.AuthorID, recipe.Name, recipe.Text, recipe.Image, recipe.CookingTime).
		Scan(&recipe.ID, &recipe.PublishedAt)
	if err != nil {
		if e := dataError(err); e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recipe, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if e := dataError(err); e != nil {
			return e
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrRecipeNotFound
	}
	return nil
}

// Update rewrites the editable fields. Author and publication time never change.
func (r *PostgresRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	return r.exec(ctx,
		`UPDATE recipes SET name = $1, text = $2, image = $3, cooking_time = $4 WHERE id = $5`,
		recipe.Name, recipe.Text, recipe.Image, recipe.CookingTime, recipe.ID)
}

// Delete removes the recipe; links and marks go with it by cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64, viewerID int64) (*models.Recipe, error) {
	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, selectRecipe+` WHERE r.id = $2`, viewerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return recipe, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

// where renders filter as a WHERE clause. $1 is always the viewer id; the
// returned args start at $2.
func where(filter models.RecipeFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conds = append(conds, fmt.Sprintf("r.author_id = $%d", len(args)+1))
	}
	if filter.Name != nil {
		args = append(args, *filter.Name)
		conds = append(conds, fmt.Sprintf("r.name = $%d", len(args)+1))
	}
	if filter.IsFavorited != nil {
		cond := "EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = $1)"
		if !*filter.IsFavorited {
			cond = "NOT " + cond
		}
		conds = append(conds, cond)
	}
	if filter.IsInShoppingCart != nil {
		cond := "EXISTS (SELECT 1 FROM shopping_carts c WHERE c.recipe_id = r.id AND c.user_id = $1)"
		if !*filter.IsInShoppingCart {
			cond = "NOT " + cond
		}
		conds = append(conds, cond)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns a page of recipes, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter models.RecipeFilter, viewerID int64, limit, offset int) ([]*models.Recipe, error) {
	cond, args := where(filter)
	args = append([]any{viewerID}, args...)
	args = append(args, limit, offset)

	query := fmt.Sprintf("%s%s ORDER BY r.published_at DESC, r.id DESC LIMIT $%d OFFSET $%d",
		selectRecipe, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, filter models.RecipeFilter, viewerID int64) (int, error) {
	cond, args := where(filter)
	args = append([]any{viewerID}, args...)

	// $1 must be referenced for the placeholder types to resolve.
	query := "SELECT COUNT(*) FROM recipes r WHERE $1::bigint IS NOT NULL"
	if cond != "" {
		query += " AND " + strings.TrimPrefix(cond, " WHERE ")
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ListByAuthor returns up to limit summaries of the author's recipes, newest
// first. A negative limit means no limit.
func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]models.RecipeSummary, error) {
	var lim any
	if limit >= 0 {
		lim = limit
	}

	query :=
		`SELECT id, name, image, cooking_time FROM recipes
		 WHERE author_id = $1
		 ORDER BY published_at DESC, id DESC
		 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, authorID, lim)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.RecipeSummary{}
	for rows.Next() {
		var s models.RecipeSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Image, &s.CookingTime); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes WHERE author_id = $1`, authorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
