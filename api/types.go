package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	accountHandler  accountHandler
	blogPostHandler blogPostHandler
	categoryHandler categoryHandler
	tagHandler      tagHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// PostSummary is the compact post representation used by listings.
type PostSummary struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Excerpt       string            `json:"excerpt"`
	Author        models.UserBrief  `json:"author"`
	Category      *models.Category  `json:"category,omitempty"`
	Tags          []models.Tag      `json:"tags"`
	Status        models.PostStatus `json:"status"`
	PublishedDate *time.Time        `json:"publishedDate,omitempty"`
	ViewCount     uint              `json:"viewCount"`
	IsFeatured    bool              `json:"isFeatured"`
	ReadTime      int               `json:"readTime"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func toPostSummary(post *models.BlogPost) PostSummary {
	summary := PostSummary{
		ID:            post.ID,
		Title:         post.Title,
		Excerpt:       post.Excerpt(),
		Category:      post.Category,
		Tags:          post.Tags,
		Status:        post.Status,
		PublishedDate: post.PublishedDate,
		ViewCount:     post.ViewCount,
		IsFeatured:    post.IsFeatured,
		ReadTime:      post.ReadTime(),
		CreatedAt:     post.CreatedAt,
	}
	if summary.Tags == nil {
		summary.Tags = []models.Tag{}
	}
	if post.Author != nil {
		summary.Author = post.Author.Brief()
	}
	return summary
}

func toPostSummaries(posts []*models.BlogPost) []PostSummary {
	summaries := make([]PostSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, toPostSummary(post))
	}
	return summaries
}

// PostCollection wraps a listing with its size.
type PostCollection struct {
	Posts []PostSummary `json:"posts"`
	Total int           `json:"total"`
}

func toPostCollection(posts []*models.BlogPost) PostCollection {
	summaries := toPostSummaries(posts)
	return PostCollection{Posts: summaries, Total: len(summaries)}
}
