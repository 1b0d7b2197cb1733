package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB wires gorm's postgres dialect onto a sqlmock connection so the
// SQL the repos emit against the production driver can be asserted on.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, mock
}

func TestUserRepoFindByUsernameSQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "is_admin"}).
		AddRow(id.String(), "alice", "alice@example.com", false)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WithArgs("alice", 1).
		WillReturnRows(rows)

	user, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoFindByUsernameMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WithArgs("ghost", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByUsername("ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCountPostsSQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "blog_posts" WHERE author_id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountPosts(id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// IncrementViews must run as a single expression update, not a
// read-modify-write, so concurrent requests cannot lose counts.
func TestIncrementViewsEmitsExpressionUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlogPostRepo(db)

	id := uuid.New()
	mock.ExpectExec(`UPDATE "blog_posts" SET "view_count"=view_count \+ \$1 WHERE id = \$2`).
		WithArgs(1, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "view_count" FROM "blog_posts" WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(42))

	count, err := repo.IncrementViews(id)
	require.NoError(t, err)
	assert.Equal(t, uint(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViewsMissingRowMapsToNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlogPostRepo(db)

	id := uuid.New()
	mock.ExpectExec(`UPDATE "blog_posts" SET "view_count"=view_count \+ \$1 WHERE id = \$2`).
		WithArgs(1, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.IncrementViews(id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
