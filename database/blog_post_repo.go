package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/errs"
	"github.com/pressmark-io/blog-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *BlogPostRepo) GetDB() *gorm.DB {
	return r.db
}

// FindVisible returns the posts the caller may read, narrowed by the filter
// and ordered per the filter's ordering. The visibility scope is applied
// before anything else.
func (r *BlogPostRepo) FindVisible(caller models.Caller, filter PostFilter) ([]*models.BlogPost, error) {
	q := r.db.Model(&models.BlogPost{}).
		Preload("Author").Preload("Category").Preload("Tags").
		Scopes(VisibleTo(caller))

	q, err := postQuery(q, filter)
	if err != nil {
		return nil, err
	}

	var posts []*models.BlogPost
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByID returns a post by id regardless of visibility. Callers that need
// the visibility check should use FindVisibleByID.
func (r *BlogPostRepo) FindByID(id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.Preload("Author").Preload("Category").Preload("Tags").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindVisibleByID returns a post by id, distinguishing a missing post
// (not found) from one the caller is not allowed to read (forbidden).
func (r *BlogPostRepo) FindVisibleByID(caller models.Caller, id uuid.UUID) (*models.BlogPost, error) {
	post, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !visibleToCaller(caller, post) {
		return nil, errs.NewForbiddenError("you don't have permission to view this post")
	}
	return post, nil
}

func visibleToCaller(caller models.Caller, post *models.BlogPost) bool {
	switch caller.Role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return post.IsPublished() || post.AuthorID == caller.ID
	default:
		return post.IsPublished()
	}
}

// Add inserts a new blog post into the database
func (r *BlogPostRepo) Add(post *models.BlogPost) error {
	if post.PublishedDate != nil {
		taken, err := r.slugTakenOnDate(post.ID, post.Slug, *post.PublishedDate)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewConflictError("slug already used on this publish date")
		}
	}
	return r.db.Create(post).Error
}

// Update persists the post's scalar columns. Status, published date and the
// view counter have their own operations and are not touched here.
func (r *BlogPostRepo) Update(post *models.BlogPost) error {
	if post.PublishedDate != nil {
		taken, err := r.slugTakenOnDate(post.ID, post.Slug, *post.PublishedDate)
		if err != nil {
			return err
		}
		if taken {
			return errs.NewConflictError("slug already used on this publish date")
		}
	}
	return r.db.Model(post).Updates(map[string]interface{}{
		"title":       post.Title,
		"slug":        post.Slug,
		"content":     post.Content,
		"category_id": post.CategoryID,
		"is_featured": post.IsFeatured,
	}).Error
}

// ReplaceTags swaps the post's tag set for the given one.
func (r *BlogPostRepo) ReplaceTags(post *models.BlogPost, tags []models.Tag) error {
	return r.db.Model(post).Association("Tags").Replace(tags)
}

// Delete removes a blog post from the database by id
func (r *BlogPostRepo) Delete(id uuid.UUID) error {
	return r.db.Select("Tags").Delete(&models.BlogPost{ID: id}).Error
}

// Publish transitions a draft to published. The caller must be the author or
// an admin. The published date is set only if it is currently null, so
// republishing is a no-op beyond re-affirming the status.
func (r *BlogPostRepo) Publish(id uuid.UUID, caller models.Caller) (*models.BlogPost, error) {
	var published *models.BlogPost

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post models.BlogPost
		// Locked so two concurrent first-publishes cannot both observe a
		// null published date and race to set it.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&post, "id = ?", id).Error; err != nil {
			return err
		}

		if !caller.CanModify(post.AuthorID) {
			return errs.NewForbiddenError("you don't have permission to publish this post")
		}

		updates := map[string]interface{}{"status": models.StatusPublished}
		if post.PublishedDate == nil {
			now := time.Now().UTC()

			taken, err := slugTakenOnDate(tx, post.ID, post.Slug, now)
			if err != nil {
				return err
			}
			if taken {
				return errs.NewConflictError("slug already used on this publish date")
			}

			updates["published_date"] = now
			post.PublishedDate = &now
		}

		if err := tx.Model(&post).Updates(updates).Error; err != nil {
			return err
		}

		post.Status = models.StatusPublished
		published = &post
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(published.ID)
}

// IncrementViews bumps the view counter by one with a single atomic SQL
// expression update, never read-modify-write, and returns the new count.
func (r *BlogPostRepo) IncrementViews(id uuid.UUID) (uint, error) {
	res := r.db.Model(&models.BlogPost{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var count uint
	err := r.db.Model(&models.BlogPost{}).Select("view_count").Where("id = ?", id).
		Scan(&count).Error
	return count, err
}

// FindByAuthor returns an author's published posts, newest first.
func (r *BlogPostRepo) FindByAuthor(authorID uuid.UUID) ([]*models.BlogPost, error) {
	return r.FindVisible(models.Anonymous(), PostFilter{AuthorID: &authorID})
}

// FindByCategory returns a category's published posts, newest first.
func (r *BlogPostRepo) FindByCategory(categoryID uuid.UUID) ([]*models.BlogPost, error) {
	return r.FindVisible(models.Anonymous(), PostFilter{CategoryID: &categoryID})
}

// FindFeatured returns published posts flagged as featured.
func (r *BlogPostRepo) FindFeatured() ([]*models.BlogPost, error) {
	featured := true
	return r.FindVisible(models.Anonymous(), PostFilter{Featured: &featured})
}

// FindRecent returns the latest published posts, up to limit.
func (r *BlogPostRepo) FindRecent(limit int) ([]*models.BlogPost, error) {
	return r.FindVisible(models.Anonymous(), PostFilter{Limit: limit})
}

// FindByOwner returns every post the owner has written, drafts included.
func (r *BlogPostRepo) FindByOwner(ownerID uuid.UUID) ([]*models.BlogPost, error) {
	caller := models.Caller{ID: ownerID, Role: models.RoleUser}
	return r.FindVisible(caller, PostFilter{AuthorID: &ownerID, Ordering: "-created_at"})
}

// Slug uniqueness is per publish date, not global; drafts do not reserve a
// slug until they are published.
func (r *BlogPostRepo) slugTakenOnDate(postID uuid.UUID, slug string, date time.Time) (bool, error) {
	return slugTakenOnDate(r.db, postID, slug, date)
}

func slugTakenOnDate(tx *gorm.DB, postID uuid.UUID, slug string, date time.Time) (bool, error) {
	var count int64
	err := tx.Model(&models.BlogPost{}).
		Where("slug = ? AND id <> ? AND published_date IS NOT NULL AND date(published_date) = date(?)",
			slug, postID, date).
		Count(&count).Error
	return count > 0, err
}
