package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every endpoint. The identify middleware resolves a
// bearer token into a caller on all routes; mutating routes additionally
// require authentication (or admin, for taxonomy writes).
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.identify)

		// Accounts
		r.Post("/register", handlers.accountHandler.register())
		r.Post("/login", handlers.accountHandler.login())
		r.With(auth.require).Get("/me", handlers.accountHandler.me())

		// Blog posts
		r.Get("/posts", handlers.blogPostHandler.listPosts())
		r.Get("/posts/featured", handlers.blogPostHandler.featuredPosts())
		r.Get("/posts/recent", handlers.blogPostHandler.recentPosts())
		r.With(auth.require).Get("/posts/my", handlers.blogPostHandler.myPosts())
		r.Get("/posts/by-author", handlers.blogPostHandler.postsByAuthor())
		r.Get("/posts/by-category", handlers.blogPostHandler.postsByCategory())
		r.Get("/posts/search", handlers.blogPostHandler.searchPosts())
		r.Get("/posts/{postID}", handlers.blogPostHandler.getPost())
		r.With(auth.require).Post("/posts", handlers.blogPostHandler.createPost())
		r.With(auth.require).Put("/posts/{postID}", handlers.blogPostHandler.updatePost())
		r.With(auth.require).Delete("/posts/{postID}", handlers.blogPostHandler.deletePost())
		r.With(auth.require).Post("/posts/{postID}/publish", handlers.blogPostHandler.publishPost())
		// View counting mutates state, so it rides on POST, not GET.
		r.Post("/posts/{postID}/views", handlers.blogPostHandler.incrementViews())

		// Categories (writes are admin-only)
		r.Get("/categories", handlers.categoryHandler.listCategories())
		r.Get("/categories/{categoryID}", handlers.categoryHandler.getCategory())
		r.Get("/categories/{categoryID}/posts", handlers.categoryHandler.categoryPosts())
		r.With(auth.requireAdmin).Post("/categories", handlers.categoryHandler.createCategory())
		r.With(auth.requireAdmin).Put("/categories/{categoryID}", handlers.categoryHandler.updateCategory())
		r.With(auth.requireAdmin).Delete("/categories/{categoryID}", handlers.categoryHandler.deleteCategory())

		// Tags (writes are admin-only)
		r.Get("/tags", handlers.tagHandler.listTags())
		r.Get("/tags/{tagID}", handlers.tagHandler.getTag())
		r.Get("/tags/{tagID}/posts", handlers.tagHandler.tagPosts())
		r.With(auth.requireAdmin).Post("/tags", handlers.tagHandler.createTag())
		r.With(auth.requireAdmin).Put("/tags/{tagID}", handlers.tagHandler.updateTag())
		r.With(auth.requireAdmin).Delete("/tags/{tagID}", handlers.tagHandler.deleteTag())
	})
}
