package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema. A
// single connection keeps the in-memory database alive and serializes
// writes the way the production Postgres pool would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Description: name + " posts"}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

type postSpec struct {
	title     string
	content   string
	author    *models.User
	category  *models.Category
	tags      []models.Tag
	status    models.PostStatus
	published *time.Time
	featured  bool
}

func seedPost(t *testing.T, db *gorm.DB, spec postSpec) *models.BlogPost {
	t.Helper()

	if spec.content == "" {
		spec.content = "This is filler content long enough to pass the length validation rules."
	}
	if spec.status == "" {
		spec.status = models.StatusDraft
	}

	post := &models.BlogPost{
		Title:         spec.title,
		Slug:          uuid.NewString(),
		Content:       spec.content,
		AuthorID:      spec.author.ID,
		Status:        spec.status,
		PublishedDate: spec.published,
		IsFeatured:    spec.featured,
		Tags:          spec.tags,
	}
	if spec.category != nil {
		post.CategoryID = &spec.category.ID
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func publishedAt(t time.Time) *time.Time {
	return &t
}

func postIDs(posts []*models.BlogPost) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	return ids
}
