package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, authorID int64) error
	Delete(ctx context.Context, userID, authorID int64) error
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
	// FollowedAmong reports which of authorIDs userID follows.
	FollowedAmong(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)
	ListAuthors(ctx context.Context, userID int64, limit, offset int) ([]*models.User, error)
	Count(ctx context.Context, userID int64) (int, error)
}
