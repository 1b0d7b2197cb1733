package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/pressmark-io/blog-backend/database"
	"github.com/pressmark-io/blog-backend/errs"
	"github.com/pressmark-io/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogPostHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo *database.BlogPostRepo
	tagRepo      *database.TagRepo
}

func newBlogPostHandler(blogPostRepo *database.BlogPostRepo, tagRepo *database.TagRepo) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: blogPostRepo,
		tagRepo:      tagRepo,
	}
}

// postRequest is the payload for creating or updating a post. Status,
// published date and view count are never writable through it; publishing
// and view counting are separate operations.
type postRequest struct {
	Title      string      `json:"title"`
	Slug       string      `json:"slug"`
	Content    string      `json:"content"`
	CategoryID *uuid.UUID  `json:"categoryId"`
	TagIDs     []uuid.UUID `json:"tagIds"`
	IsFeatured bool        `json:"isFeatured"`
}

// listPosts returns the posts the caller may read, narrowed by the
// recognized filter parameters and free-text search.
func (h blogPostHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		filter, err := parsePostFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		posts, err := h.blogPostRepo.FindVisible(caller, filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

// getPost returns a single post. A post the caller may not read is reported
// as forbidden, distinct from not found.
func (h blogPostHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		postID, err := parsePostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.blogPostRepo.FindVisibleByID(caller, postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createPost creates a new draft owned by the caller.
func (h blogPostHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog post request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := validatePostFields(req.Title, req.Content); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tags, err := h.resolveTags(req.TagIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post := models.BlogPost{
			Title:      req.Title,
			Slug:       req.Slug,
			Content:    req.Content,
			AuthorID:   caller.ID,
			CategoryID: req.CategoryID,
			Status:     models.StatusDraft,
			IsFeatured: req.IsFeatured,
			Tags:       tags,
		}
		if post.Slug == "" {
			post.Slug = slug.Make(post.Title)
		}

		if err := h.blogPostRepo.Add(&post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create blog post", "blog_post", err))
			return
		}

		created, err := h.blogPostRepo.FindByID(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created blog post", "blog_post", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updatePost edits a post's content fields. Only the author or an admin may
// do so; the publish state is untouched.
func (h blogPostHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		postID, err := parsePostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.blogPostRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}

		if !caller.CanModify(post.AuthorID) {
			h.responder.WriteError(w, errs.NewForbiddenError("you don't have permission to edit this post"))
			return
		}

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog post request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := validatePostFields(req.Title, req.Content); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post.Title = req.Title
		post.Content = req.Content
		post.CategoryID = req.CategoryID
		post.IsFeatured = req.IsFeatured
		if req.Slug != "" {
			post.Slug = req.Slug
		}

		if err := h.blogPostRepo.Update(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update blog post", "blog_post", err))
			return
		}

		if req.TagIDs != nil {
			tags, err := h.resolveTags(req.TagIDs)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			if err := h.blogPostRepo.ReplaceTags(post, tags); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update blog post tags", "blog_post", err))
				return
			}
		}

		updated, err := h.blogPostRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated blog post", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deletePost removes a post. Only the author or an admin may do so.
func (h blogPostHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		postID, err := parsePostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.blogPostRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}

		if !caller.CanModify(post.AuthorID) {
			h.responder.WriteError(w, errs.NewForbiddenError("you don't have permission to delete this post"))
			return
		}

		if err := h.blogPostRepo.Delete(postID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete blog post", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "blog post deleted successfully",
		})
	}
}

// publishPost transitions a draft to published. Publishing an already
// published post is a no-op beyond re-affirming the status.
func (h blogPostHandler) publishPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		postID, err := parsePostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.blogPostRepo.Publish(postID, caller)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("publish blog post", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// incrementViews bumps the view counter. Any caller may do it; the counter
// update is atomic so concurrent bumps are never lost.
func (h blogPostHandler) incrementViews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parsePostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		count, err := h.blogPostRepo.IncrementViews(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("increment views of", "blog_post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]uint{"viewCount": count})
	}
}

// featuredPosts lists published posts flagged as featured.
func (h blogPostHandler) featuredPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blogPostRepo.FindFeatured()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find featured blog posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

const defaultRecentLimit = 5

// recentPosts lists the latest published posts.
func (h blogPostHandler) recentPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRecentLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("limit", "must be a positive integer"))
				return
			}
			limit = parsed
		}

		posts, err := h.blogPostRepo.FindRecent(limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recent blog posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

// myPosts lists everything the caller has written, drafts included.
func (h blogPostHandler) myPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := ctxGetCaller(r.Context())

		posts, err := h.blogPostRepo.FindByOwner(caller.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find own blog posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

// postsByAuthor lists an author's published posts.
func (h blogPostHandler) postsByAuthor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("author")
		if raw == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("author"))
			return
		}
		authorID, err := uuid.Parse(raw)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("author", "must be a valid uuid"))
			return
		}

		posts, err := h.blogPostRepo.FindByAuthor(authorID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts by author", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

// postsByCategory lists a category's published posts.
func (h blogPostHandler) postsByCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("category")
		if raw == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("category"))
			return
		}
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "must be a valid uuid"))
			return
		}

		posts, err := h.blogPostRepo.FindByCategory(categoryID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts by category", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

// searchPosts is the public search endpoint: published posts only, matched
// by free-text query with optional structured narrowing.
func (h blogPostHandler) searchPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		q := query.Get("q")
		if q == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("q"))
			return
		}

		filter := database.PostFilter{Search: q}

		if raw := query.Get("category"); raw != "" {
			categoryID, err := uuid.Parse(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("category", "must be a valid uuid"))
				return
			}
			filter.CategoryID = &categoryID
		}

		if raw := query.Get("tag"); raw != "" {
			tagID, err := uuid.Parse(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("tag", "must be a valid uuid"))
				return
			}
			filter.TagID = &tagID
		}

		publishedOn, err := parseDateParam(query.Get("published_date"), "published_date", false)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		filter.PublishedOn = publishedOn

		posts, err := h.blogPostRepo.FindVisible(models.Anonymous(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("search blog posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

func (h blogPostHandler) resolveTags(ids []uuid.UUID) ([]models.Tag, error) {
	tags, err := h.tagRepo.FindByIDs(ids)
	if err != nil {
		return nil, errs.NewInvalidFieldError("tagIds", "one or more tag ids do not exist")
	}
	return tags, nil
}

func parsePostID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "postID")
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing postID")
	}
	postID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid postID")
	}
	return postID, nil
}

// wrapDatabaseError wraps a database error with context information, leaving
// already classified API errors untouched.
func wrapDatabaseError(operation, entity string, cause error) error {
	var apiErr *errs.ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}
	return errs.NewDatabaseError(operation, entity, cause)
}
