package subscriptions

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if _, ok := v.([]int64); ok {
		return v, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(arrayConverter{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const insertQ = `(?s)INSERT\s+INTO\s+subscriptions\s*\(user_id,\s*author_id\).*DO\s+NOTHING\s+RETURNING\s+id`

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(insertQ).WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	require.NoError(t, repo.Create(context.Background(), 1, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(sqlmock.Sqlmock)
		want  error
	}{
		{
			name: "duplicate",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(insertQ).WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			want: common.ErrAlreadyFollowing,
		},
		{
			name: "self",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23514"})
			},
			want: common.ErrFollowSelf,
		},
		{
			name: "missing author",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23503"})
			},
			want: common.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			tt.setup(mock)
			err := repo.Create(context.Background(), 1, 2)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `DELETE FROM subscriptions WHERE user_id = \$1 AND author_id = \$2`
	mock.ExpectExec(q).WithArgs(int64(1), int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(1), int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1, 2))
	err := repo.Delete(context.Background(), 1, 2)
	assert.ErrorIs(t, err, common.ErrNotFollowing)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestExistsAndFollowedAmong(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT author_id FROM subscriptions WHERE user_id = \$1 AND author_id = ANY\(\$2\)`).
		WithArgs(int64(1), []int64{2, 3, 4}).
		WillReturnRows(sqlmock.NewRows([]string{"author_id"}).AddRow(int64(3)))

	ok, err := repo.Exists(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FollowedAmong(context.Background(), 1, []int64{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{3: true}, got)

	got, err = repo.FollowedAmong(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAuthorsAndCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)FROM\s+subscriptions\s+s\s+JOIN\s+users\s+u.*ORDER\s+BY\s+s\.id\s+LIMIT\s+\$2\s+OFFSET\s+\$3`).
		WithArgs(int64(1), 6, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "first_name", "last_name", "avatar"}).
			AddRow(int64(2), "a@x.io", "a", "A", "B", nil).
			AddRow(int64(3), "c@x.io", "c", "C", "D", "users/c.png"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM subscriptions WHERE user_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errors.New("boom"))

	got, err := repo.ListAuthors(context.Background(), 1, 6, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Avatar)
	require.NotNil(t, got[1].Avatar)
	assert.Equal(t, "users/c.png", *got[1].Avatar)
	assert.Equal(t, &models.User{ID: 2, Email: "a@x.io", Username: "a", FirstName: "A", LastName: "B"}, got[0])

	n, err := repo.Count(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = repo.Count(context.Background(), 1)
	assert.Error(t, err)
}
