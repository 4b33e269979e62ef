// Package recipeingredients provides the PostgreSQL-backed recipe/ingredient
// link repository.
package recipeingredients

import (
	"context"
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

func (r *PostgresRepository) DeleteByRecipe(ctx context.Context, recipeID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// BulkInsert writes all links in a single statement.
func (r *PostgresRepository) BulkInsert(ctx context.Context, recipeID int64, items []models.IngredientAmount) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]int64, len(items))
	amounts := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.IngredientID
		amounts[i] = int64(it.Amount)
	}

	query :=
		`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
		 SELECT $1, t.ingredient_id, t.amount
		 FROM unnest($2::bigint[], $3::int[]) AS t (ingredient_id, amount)`

	if _, err := r.db.ExecContext(ctx, query, recipeID, ids, amounts); err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return common.ErrDuplicateIngredient
		case dbx.IsForeignKeyViolation(err):
			return common.ErrUnknownIngredient
		case dbx.IsCheckViolation(err), dbx.IsOutOfRange(err):
			return common.ErrInvalidAmount
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByRecipe returns the recipe's links joined with the catalog, by name.
func (r *PostgresRepository) ListByRecipe(ctx context.Context, recipeID int64) ([]models.RecipeIngredient, error) {
	query :=
		`SELECT i.id, i.name, i.measurement_unit, ri.amount
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = $1
		 ORDER BY i.name, ri.id`

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.RecipeIngredient{}
	for rows.Next() {
		var ri models.RecipeIngredient
		if err := rows.Scan(&ri.IngredientID, &ri.Name, &ri.MeasurementUnit, &ri.Amount); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, ri)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// ListCartLines returns every link of every recipe in the user's shopping cart.
func (r *PostgresRepository) ListCartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	query :=
		`SELECT ri.recipe_id, i.name, i.measurement_unit, ri.amount
		 FROM shopping_carts c
		 JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE c.user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.RecipeID, &l.Name, &l.MeasurementUnit, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
