package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/pressmark-io/blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPostsHidesDraftsFromAnonymous(t *testing.T) {
	handler, db := newTestEnv(t)

	alice := createUser(t, db, "alice", false)
	now := time.Now().UTC()
	published := createPost(t, db, postSeed{title: "Published post", author: alice,
		status: models.StatusPublished, published: &now})
	createPost(t, db, postSeed{title: "Draft post", author: alice})

	rec := doRequest(t, handler, http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	collection := decodeBody[PostCollection](t, rec)
	require.Equal(t, 1, collection.Total)
	assert.Equal(t, published.ID, collection.Posts[0].ID)
}

func TestListPostsIncludesOwnDraftsForAuthor(t *testing.T) {
	handler, db := newTestEnv(t)

	alice := createUser(t, db, "alice", false)
	createPost(t, db, postSeed{title: "Draft post", author: alice})

	rec := doRequest(t, handler, http.MethodGet, "/posts", tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	collection := decodeBody[PostCollection](t, rec)
	assert.Equal(t, 1, collection.Total)
}

func TestListPostsRejectsUnknownOrderingField(t *testing.T) {
	handler, _ := newTestEnv(t)

	rec := doRequest(t, handler, http.MethodGet, "/posts?ordering=popularity", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "ordering", body.Field)
}

func TestCreatePostRequiresAuth(t *testing.T) {
	handler, _ := newTestEnv(t)

	rec := doRequest(t, handler, http.MethodPost, "/posts", "", map[string]string{
		"title":   "A valid title",
		"content": "This is filler content long enough to pass the length validation rules.",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePostValidatesTitleLength(t *testing.T) {
	handler, db := newTestEnv(t)
	alice := createUser(t, db, "alice", false)

	rec := doRequest(t, handler, http.MethodPost, "/posts", tokenFor(t, alice), map[string]string{
		"title":   "Hey",
		"content": "This is filler content long enough to pass the length validation rules.",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "title", body.Field)
}

func TestCreatePostStartsAsDraftWithDerivedSlug(t *testing.T) {
	handler, db := newTestEnv(t)
	alice := createUser(t, db, "alice", false)

	rec := doRequest(t, handler, http.MethodPost, "/posts", tokenFor(t, alice), map[string]string{
		"title":   "My First Post",
		"content": "This is filler content long enough to pass the length validation rules.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	post := decodeBody[models.BlogPost](t, rec)
	assert.Equal(t, models.StatusDraft, post.Status)
	assert.Nil(t, post.PublishedDate)
	assert.Equal(t, "my-first-post", post.Slug)
	assert.Equal(t, alice.ID, post.AuthorID)
}

func TestPublishEndpoint(t *testing.T) {
	handler, db := newTestEnv(t)

	alice := createUser(t, db, "alice", false)
	bob := createUser(t, db, "bob", false)
	draft := createPost(t, db, postSeed{title: "Soon published", author: alice})
	path := "/posts/" + draft.ID.String() + "/publish"

	t.Run("non-author is forbidden and the draft stays put", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, path, tokenFor(t, bob), nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var reloaded models.BlogPost
		require.NoError(t, db.First(&reloaded, "id = ?", draft.ID).Error)
		assert.Equal(t, models.StatusDraft, reloaded.Status)
		assert.Nil(t, reloaded.PublishedDate)
	})

	t.Run("author publishes and the date is set", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, path, tokenFor(t, alice), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		post := decodeBody[models.BlogPost](t, rec)
		assert.Equal(t, models.StatusPublished, post.Status)
		assert.NotNil(t, post.PublishedDate)
	})

	t.Run("anonymous cannot publish", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestIncrementViewsEndpoint(t *testing.T) {
	handler, db := newTestEnv(t)

	alice := createUser(t, db, "alice", false)
	now := time.Now().UTC()
	post := createPost(t, db, postSeed{title: "Hot post", author: alice,
		status: models.StatusPublished, published: &now})
	path := "/posts/" + post.ID.String() + "/views"

	rec := doRequest(t, handler, http.MethodPost, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(1), decodeBody[map[string]uint](t, rec)["viewCount"])

	rec = doRequest(t, handler, http.MethodPost, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(2), decodeBody[map[string]uint](t, rec)["viewCount"])
}

func TestGetPostDistinguishesForbiddenFromMissing(t *testing.T) {
	handler, db := newTestEnv(t)

	alice := createUser(t, db, "alice", false)
	bob := createUser(t, db, "bob", false)
	draft := createPost(t, db, postSeed{title: "Hidden draft", author: alice})

	rec := doRequest(t, handler, http.MethodGet, "/posts/"+draft.ID.String(), tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/posts/00000000-0000-0000-0000-000000000001", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/posts/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryWritesAreAdminOnly(t *testing.T) {
	handler, db := newTestEnv(t)

	alice := createUser(t, db, "alice", false)
	admin := createUser(t, db, "root", true)
	payload := map[string]string{"name": "Go", "description": "Posts about Go"}

	rec := doRequest(t, handler, http.MethodPost, "/categories", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/categories", tokenFor(t, alice), payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/categories", tokenFor(t, admin), payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	category := decodeBody[models.Category](t, rec)
	assert.Equal(t, "Go", category.Name)
}
