// Package ingredients provides the PostgreSQL-backed ingredient catalog.
package ingredients

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns catalog entries whose name contains name (case-insensitive),
// ordered by name. Entries starting with name come first. name is matched
// literally, so "%" and "_" carry no pattern meaning.
func (r *PostgresRepository) List(ctx context.Context, name string) ([]*models.Ingredient, error) {
	query :=
		`SELECT id, name, measurement_unit FROM ingredients
		 WHERE $1 = '' OR strpos(lower(name), lower($1)) > 0
		 ORDER BY (strpos(lower(name), lower($1)) = 1) DESC, name, measurement_unit`

	rows, err := r.db.QueryContext(ctx, query, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Ingredient{}
	for rows.Next() {
		i := &models.Ingredient{}
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	query := `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`

	i := &models.Ingredient{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrIngredientAbsent
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return i, nil
}

// CountExisting returns how many of ids are present in the catalog.
// ids are expected to be distinct.
func (r *PostgresRepository) CountExisting(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients WHERE id = ANY($1)`, ids).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// BulkInsert adds items to the catalog, silently skipping entries that
// already exist, and reports how many rows were inserted.
func (r *PostgresRepository) BulkInsert(ctx context.Context, items []models.Ingredient) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	names := make([]string, len(items))
	units := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
		units[i] = it.MeasurementUnit
	}

	query :=
		`INSERT INTO ingredients (name, measurement_unit)
		 SELECT * FROM unnest($1::text[], $2::text[])
		 ON CONFLICT (name, measurement_unit) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, names, units)
	if err != nil {
		if dbx.IsTooLong(err) {
			return 0, common.ErrValueTooLong
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return int(n), nil
}
