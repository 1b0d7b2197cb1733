package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/errs"
	"github.com/pressmark-io/blog-backend/models"
	"gorm.io/gorm"
)

// VisibleTo restricts a post query to rows the caller is allowed to read:
// anonymous callers see published posts, authenticated callers additionally
// see their own drafts, admins see everything. Applied before any other
// filter so non-visible posts never leak into search or listing results.
func VisibleTo(caller models.Caller) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch caller.Role {
		case models.RoleAdmin:
			return db
		case models.RoleUser:
			return db.Where("blog_posts.status = ? OR blog_posts.author_id = ?",
				models.StatusPublished, caller.ID)
		default:
			return db.Where("blog_posts.status = ?", models.StatusPublished)
		}
	}
}

// PostFilter holds the recognized structured filters plus free-text search.
// Structured filters combine with AND; Search ORs substring matches across
// title, content, author username, category name and tag names and is ANDed
// with the rest.
type PostFilter struct {
	Status          models.PostStatus
	Title           string // title substring, case-insensitive
	Content         string // content substring, case-insensitive
	Category        string // uuid or case-insensitive name substring
	CategoryID      *uuid.UUID
	Author          string // username substring, case-insensitive
	AuthorID        *uuid.UUID
	Tags            []string // post matches if it has ANY listed tag
	TagID           *uuid.UUID
	Featured        *bool
	PublishedAfter  *time.Time // inclusive
	PublishedBefore *time.Time // inclusive
	PublishedOn     *time.Time // match on calendar date
	Search          string
	Ordering        string // validated via ParseOrdering
	Limit           int
	Offset          int
}

// Columns callers may order by, keyed by the public parameter name.
var orderableFields = map[string]string{
	"published_date": "blog_posts.published_date",
	"created_at":     "blog_posts.created_at",
	"view_count":     "blog_posts.view_count",
	"title":          "blog_posts.title",
}

// defaultOrdering puts the most recently published posts first; drafts
// (null published_date) sort after everything that has a date.
const defaultOrdering = "blog_posts.published_date DESC NULLS LAST, blog_posts.created_at DESC"

// ParseOrdering translates an `ordering` parameter ("field" or "-field")
// into an ORDER BY clause. An unrecognized field is a validation error,
// never a silent fallback to the default.
func ParseOrdering(ordering string) (string, error) {
	if ordering == "" {
		return defaultOrdering, nil
	}

	field := ordering
	desc := false
	if strings.HasPrefix(ordering, "-") {
		field = ordering[1:]
		desc = true
	}

	column, ok := orderableFields[field]
	if !ok {
		return "", errs.NewInvalidFieldError("ordering",
			fmt.Sprintf("unknown ordering field %q", field))
	}

	clause := column
	if desc {
		clause += " DESC"
	}
	// Drafts have no published_date and always sort after dated posts.
	if field == "published_date" {
		clause += " NULLS LAST"
	}
	return clause, nil
}

// postQuery composes the final predicate over blog_posts. The visibility
// scope is already on q when this is called; everything here only narrows
// the set further.
func postQuery(q *gorm.DB, f PostFilter) (*gorm.DB, error) {
	joinedUsers := false
	joinedCategories := false
	joinedTags := false

	joinUsers := func() {
		if !joinedUsers {
			q = q.Joins("LEFT JOIN users ON users.id = blog_posts.author_id")
			joinedUsers = true
		}
	}
	joinCategories := func() {
		if !joinedCategories {
			q = q.Joins("LEFT JOIN categories ON categories.id = blog_posts.category_id")
			joinedCategories = true
		}
	}
	joinTags := func() {
		if !joinedTags {
			q = q.Joins("LEFT JOIN blog_post_tags ON blog_post_tags.blog_post_id = blog_posts.id").
				Joins("LEFT JOIN tags ON tags.id = blog_post_tags.tag_id")
			joinedTags = true
		}
	}

	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, errs.NewInvalidFieldError("status",
				fmt.Sprintf("unknown status %q", f.Status))
		}
		q = q.Where("blog_posts.status = ?", f.Status)
	}

	if f.Title != "" {
		q = q.Where(`LOWER(blog_posts.title) LIKE ? ESCAPE '\'`, contains(f.Title))
	}
	if f.Content != "" {
		q = q.Where(`LOWER(blog_posts.content) LIKE ? ESCAPE '\'`, contains(f.Content))
	}

	if f.CategoryID != nil {
		q = q.Where("blog_posts.category_id = ?", *f.CategoryID)
	}
	if f.Category != "" {
		if id, err := uuid.Parse(f.Category); err == nil {
			q = q.Where("blog_posts.category_id = ?", id)
		} else {
			joinCategories()
			q = q.Where(`LOWER(categories.name) LIKE ? ESCAPE '\'`, contains(f.Category))
		}
	}

	if f.AuthorID != nil {
		q = q.Where("blog_posts.author_id = ?", *f.AuthorID)
	}
	if f.Author != "" {
		joinUsers()
		q = q.Where(`LOWER(users.username) LIKE ? ESCAPE '\'`, contains(f.Author))
	}

	if len(f.Tags) > 0 {
		joinTags()
		q = q.Where("tags.name IN ?", f.Tags)
	}
	if f.TagID != nil {
		joinTags()
		q = q.Where("blog_post_tags.tag_id = ?", *f.TagID)
	}

	if f.Featured != nil {
		q = q.Where("blog_posts.is_featured = ?", *f.Featured)
	}

	if f.PublishedAfter != nil {
		q = q.Where("blog_posts.published_date >= ?", *f.PublishedAfter)
	}
	if f.PublishedBefore != nil {
		q = q.Where("blog_posts.published_date <= ?", *f.PublishedBefore)
	}
	if f.PublishedOn != nil {
		q = q.Where("date(blog_posts.published_date) = date(?)", *f.PublishedOn)
	}

	if f.Search != "" {
		joinUsers()
		joinCategories()
		joinTags()
		pattern := contains(f.Search)
		// The OR group is parenthesized explicitly so it can never absorb
		// the visibility scope or the structured filters ANDed around it.
		q = q.Where(
			`(LOWER(blog_posts.title) LIKE ? ESCAPE '\' OR LOWER(blog_posts.content) LIKE ? ESCAPE '\' OR LOWER(users.username) LIKE ? ESCAPE '\' OR LOWER(categories.name) LIKE ? ESCAPE '\' OR LOWER(tags.name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	// Tag and search joins can multiply rows; a post with two matching
	// tags must still count once. Joins also mean the select must be
	// pinned to blog_posts columns so joined tables cannot shadow them.
	if joinedTags {
		q = q.Distinct("blog_posts.*")
	} else if joinedUsers || joinedCategories {
		q = q.Select("blog_posts.*")
	}

	ordering, err := ParseOrdering(f.Ordering)
	if err != nil {
		return nil, err
	}
	q = q.Order(ordering)

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	return q, nil
}

// contains turns a user-supplied fragment into a case-insensitive LIKE
// pattern, escaping the LIKE metacharacters first.
func contains(fragment string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(fragment)
	return "%" + strings.ToLower(escaped) + "%"
}
