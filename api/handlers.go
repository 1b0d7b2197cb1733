package api

import (
	"github.com/pressmark-io/blog-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, tokens tokenManager) *routeHandlers {
	return &routeHandlers{
		accountHandler:  newAccountHandler(database.UserRepo(), tokens),
		blogPostHandler: newBlogPostHandler(database.BlogPostRepo(), database.TagRepo()),
		categoryHandler: newCategoryHandler(database.CategoryRepo(), database.BlogPostRepo()),
		tagHandler:      newTagHandler(database.TagRepo(), database.BlogPostRepo()),
	}
}
