// Package marks provides the PostgreSQL-backed favorites and shopping-cart
// repository.
package marks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/dbx"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts the (user, recipe) pair. The unique constraint on the pair
// decides races: the losing insert returns no row and yields ErrAlreadyAdded.
func (r *PostgresRepository) Add(ctx context.Context, kind models.MarkKind, userID, recipeID int64) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, recipe_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, recipe_id) DO NOTHING
		 RETURNING id`, kind.Table())

	var id int64
	err := r.db.QueryRowContext(ctx, query, userID, recipeID).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrAlreadyAdded
		case dbx.IsForeignKeyViolation(err):
			return common.ErrRecipeNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, kind models.MarkKind, userID, recipeID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND recipe_id = $2`, kind.Table())

	res, err := r.db.ExecContext(ctx, query, userID, recipeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotPresent
	}
	return nil
}

// ListRecipes returns the marked recipes with their authors' usernames, in
// the order they were marked. A recipe whose author row is missing gets an
// empty username instead of failing the listing.
func (r *PostgresRepository) ListRecipes(ctx context.Context, kind models.MarkKind, userID int64) ([]models.CartRecipe, error) {
	query := fmt.Sprintf(
		`SELECT r.id, r.name, COALESCE(u.username, '')
		 FROM %s m
		 JOIN recipes r ON r.id = m.recipe_id
		 LEFT JOIN users u ON u.id = r.author_id
		 WHERE m.user_id = $1
		 ORDER BY m.id`, kind.Table())

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.CartRecipe{}
	for rows.Next() {
		var cr models.CartRecipe
		if err := rows.Scan(&cr.ID, &cr.Name, &cr.AuthorUsername); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
