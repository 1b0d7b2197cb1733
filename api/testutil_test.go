package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/database"
	"github.com/pressmark-io/blog-backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// newTestEnv spins up the full router against an in-memory SQLite database
// so handler tests exercise routing, middleware and the store together.
func newTestEnv(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })

	router := newRouter(database.New(db), withConfig(map[string]string{
		"JWT_SECRET": testSecret,
	}))
	return router, db
}

func createUser(t *testing.T, db *gorm.DB, username string, admin bool) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
		IsAdmin:      admin,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

type postSeed struct {
	title     string
	author    models.User
	status    models.PostStatus
	published *time.Time
}

func createPost(t *testing.T, db *gorm.DB, seed postSeed) models.BlogPost {
	t.Helper()
	if seed.status == "" {
		seed.status = models.StatusDraft
	}
	post := models.BlogPost{
		Title:         seed.title,
		Slug:          uuid.NewString(),
		Content:       "This is filler content long enough to pass the length validation rules.",
		AuthorID:      seed.author.ID,
		Status:        seed.status,
		PublishedDate: seed.published,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

// tokenFor issues a bearer token the way login would.
func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := newTokenManager(testSecret, time.Hour).Issue(user)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
