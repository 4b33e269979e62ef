package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/logging"
	"github.com/dmitrijs2005/foodgram/internal/server/auth"
	"github.com/dmitrijs2005/foodgram/internal/server/config"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/dmitrijs2005/foodgram/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/foodgram/internal/server/storage"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UserService handles accounts: registration, token login, profiles,
// password changes and avatars.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	images                      storage.ImageStore
	log                         logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, images storage.ImageStore, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		images:                      images,
		log:                         log.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Column bounds of the users table.
const (
	maxEmailLen = 254
	maxNameLen  = 150
)

// Register creates an account. Emails are stored lower-cased and are unique
// regardless of case.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if in.Email == "" || in.Username == "" || in.FirstName == "" || in.LastName == "" || in.Password == "" {
		return nil, common.ErrEmptyField
	}
	if utf8.RuneCountInString(in.Email) > maxEmailLen ||
		utf8.RuneCountInString(in.Username) > maxNameLen ||
		utf8.RuneCountInString(in.FirstName) > maxNameLen ||
		utf8.RuneCountInString(in.LastName) > maxNameLen {
		return nil, common.ErrValueTooLong
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// Login verifies the credentials and returns a signed access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidLogin
		}
		return "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", common.ErrInvalidLogin
	}
	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}

// Authenticate resolves an access token to the id of an existing user.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return 0, err
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrInvalidToken
		}
		return 0, err
	}
	return id, nil
}

func (s *UserService) Get(ctx context.Context, viewerID, id int64) (*models.Profile, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile(ctx, s.repomanager, s.db, viewerID, u)
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.Profile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, userID)
}

// List returns a page of users ordered by username and the total count.
func (s *UserService) List(ctx context.Context, viewerID int64, limit, offset int) ([]*models.Profile, int, error) {
	repo := s.repomanager.Users(s.db)

	users, err := repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	followed := map[int64]bool{}
	if viewerID != 0 && len(users) > 0 {
		ids := make([]int64, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		followed, err = s.repomanager.Subscriptions(s.db).FollowedAmong(ctx, viewerID, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	result := make([]*models.Profile, len(users))
	for i, u := range users {
		u.PasswordHash = ""
		result[i] = &models.Profile{User: *u, IsSubscribed: followed[u.ID]}
	}
	return result, count, nil
}

func (s *UserService) SetPassword(ctx context.Context, userID int64, current, next string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if next == "" {
		return common.ErrEmptyField
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return common.ErrInvalidPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return repo.UpdatePassword(ctx, userID, hash)
}

// SetAvatar stores the uploaded image and returns its object key. The
// previous avatar, if any, is removed from storage afterwards.
func (s *UserService) SetAvatar(ctx context.Context, userID int64, dataURL string) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}

	img, err := storage.DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	key, err := s.images.Put(ctx, storage.PrefixAvatars, img)
	if err != nil {
		return "", fmt.Errorf("error storing avatar: %w", err)
	}
	if err := repo.UpdateAvatar(ctx, userID, &key); err != nil {
		s.removeImage(ctx, key)
		return "", err
	}

	if u.Avatar != nil {
		s.removeImage(ctx, *u.Avatar)
	}
	return key, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := repo.UpdateAvatar(ctx, userID, nil); err != nil {
		return err
	}
	if u.Avatar != nil {
		s.removeImage(ctx, *u.Avatar)
	}
	return nil
}

// removeImage deletes an object that is no longer referenced. Failures leave
// an orphaned object behind and are only logged.
func (s *UserService) removeImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "avatar cleanup failed", "key", key, "error", err)
	}
}
