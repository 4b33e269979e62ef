// Package subscriptions provides the PostgreSQL-backed follow-graph repository.
package subscriptions

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

// Create records that userID follows authorID. A concurrent duplicate loses
// on the unique constraint and yields ErrAlreadyFollowing.
func (r *PostgresRepository) Create(ctx context.Context, userID, authorID int64) error {
	query :=
		`INSERT INTO subscriptions (user_id, author_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, author_id) DO NOTHING
		 RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, userID, authorID).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrAlreadyFollowing
		case dbx.IsCheckViolation(err):
			return common.ErrFollowSelf
		case dbx.IsForeignKeyViolation(err):
			return common.ErrUserNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, authorID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND author_id = $2`, userID, authorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFollowing
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE user_id = $1 AND author_id = $2)`,
		userID, authorID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool)
	if len(authorIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT author_id FROM subscriptions WHERE user_id = $1 AND author_id = ANY($2)`,
		userID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// ListAuthors returns the authors userID follows, oldest subscription first.
func (r *PostgresRepository) ListAuthors(ctx context.Context, userID int64, limit, offset int) ([]*models.User, error) {
	query :=
		`SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.avatar
		 FROM subscriptions s
		 JOIN users u ON u.id = s.author_id
		 WHERE s.user_id = $1
		 ORDER BY s.id
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		var avatar sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &avatar); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		if avatar.Valid && avatar.String != "" {
			u.Avatar = &avatar.String
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
