package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/database"
	"github.com/pressmark-io/blog-backend/errs"
	"github.com/pressmark-io/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder    Responder
	logger       zerolog.Logger
	tagRepo      *database.TagRepo
	blogPostRepo *database.BlogPostRepo
}

func newTagHandler(tagRepo *database.TagRepo, blogPostRepo *database.BlogPostRepo) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		tagRepo:      tagRepo,
		blogPostRepo: blogPostRepo,
	}
}

type tagRequest struct {
	Name string `json:"name"`
}

// listTags returns all tags with post counts, optionally narrowed by name.
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll(r.URL.Query().Get("search"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.responder.WriteJSON(w, tags)
	}
}

func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := parseTagID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.tagRepo.FindByID(tagID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tag", err))
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// createTag adds a new tag. Admin only; the route enforces it.
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode tag request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		tag := models.Tag{Name: req.Name}
		if err := h.tagRepo.Add(&tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create tag", "tag", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, tag)
	}
}

func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := parseTagID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.tagRepo.FindByID(tagID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tag", err))
			return
		}

		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode tag request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		tag.Name = req.Name
		if err := h.tagRepo.Update(tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update tag", "tag", err))
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := parseTagID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.tagRepo.FindByID(tagID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tag", err))
			return
		}

		if err := h.tagRepo.Delete(tagID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete tag", "tag", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "tag deleted successfully",
		})
	}
}

// tagPosts lists a tag's published posts. Public endpoint.
func (h tagHandler) tagPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := parseTagID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.tagRepo.FindByID(tagID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tag", err))
			return
		}

		posts, err := h.blogPostRepo.FindVisible(models.Anonymous(), database.PostFilter{TagID: &tagID})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tag posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

func parseTagID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "tagID")
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing tagID")
	}
	tagID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid tagID")
	}
	return tagID, nil
}
