package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/repomanager"
)

// SubscriptionService manages the follow graph between users.
type SubscriptionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSubscriptionService(db *sql.DB, m repomanager.RepositoryManager) *SubscriptionService {
	return &SubscriptionService{db: db, repomanager: m}
}

// Follow subscribes userID to authorID and returns the author with up to
// recipesLimit recipes (negative for all).
func (s *SubscriptionService) Follow(ctx context.Context, userID, authorID int64, recipesLimit int) (*models.AuthorWithRecipes, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	author, err := s.repomanager.Users(s.db).GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, common.ErrFollowSelf
	}

	if err := s.repomanager.Subscriptions(s.db).Create(ctx, userID, authorID); err != nil {
		return nil, err
	}

	author.PasswordHash = ""
	p := &models.Profile{User: *author, IsSubscribed: true}
	return authorWithRecipes(ctx, s.repomanager, s.db, p, recipesLimit)
}

func (s *SubscriptionService) Unfollow(ctx context.Context, userID, authorID int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, authorID); err != nil {
		return err
	}
	return s.repomanager.Subscriptions(s.db).Delete(ctx, userID, authorID)
}

// ListFollowing returns a page of followed authors in subscription order
// and the total number of subscriptions.
func (s *SubscriptionService) ListFollowing(ctx context.Context, userID int64, recipesLimit, limit, offset int) ([]*models.AuthorWithRecipes, int, error) {
	if err := requireUser(userID); err != nil {
		return nil, 0, err
	}

	repo := s.repomanager.Subscriptions(s.db)
	authors, err := repo.ListAuthors(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := repo.Count(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*models.AuthorWithRecipes, 0, len(authors))
	for _, a := range authors {
		p := &models.Profile{User: *a, IsSubscribed: true}
		awr, err := authorWithRecipes(ctx, s.repomanager, s.db, p, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, awr)
	}
	return result, count, nil
}
