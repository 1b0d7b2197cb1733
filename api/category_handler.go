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

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
	blogPostRepo *database.BlogPostRepo
}

func newCategoryHandler(categoryRepo *database.CategoryRepo, blogPostRepo *database.BlogPostRepo) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		blogPostRepo: blogPostRepo,
	}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// listCategories returns all categories with post counts, optionally
// narrowed by a name/description search.
func (h categoryHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.URL.Query().Get("search"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find categories", "categories", err))
			return
		}

		h.responder.WriteJSON(w, categories)
	}
}

func (h categoryHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseCategoryID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.categoryRepo.FindByID(categoryID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find category", "category", err))
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

// createCategory adds a new category. Admin only; the route enforces it.
func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode category request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		category := models.Category{Name: req.Name, Description: req.Description}
		if err := h.categoryRepo.Add(&category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create category", "category", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, category)
	}
}

func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseCategoryID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category, err := h.categoryRepo.FindByID(categoryID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find category", "category", err))
			return
		}

		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode category request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}

		category.Name = req.Name
		category.Description = req.Description

		if err := h.categoryRepo.Update(category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update category", "category", err))
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

// deleteCategory removes a category. Its posts stay, category reference
// nulled by the store.
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseCategoryID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.categoryRepo.FindByID(categoryID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find category", "category", err))
			return
		}

		if err := h.categoryRepo.Delete(categoryID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete category", "category", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "category deleted successfully",
		})
	}
}

// categoryPosts lists a category's published posts. Public endpoint.
func (h categoryHandler) categoryPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseCategoryID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.categoryRepo.FindByID(categoryID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find category", "category", err))
			return
		}

		posts, err := h.blogPostRepo.FindByCategory(categoryID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find category posts", "blog_posts", err))
			return
		}

		h.responder.WriteJSON(w, toPostCollection(posts))
	}
}

func parseCategoryID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "categoryID")
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing categoryID")
	}
	categoryID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid categoryID")
	}
	return categoryID, nil
}
