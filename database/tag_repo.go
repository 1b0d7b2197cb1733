package database

import (
	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *TagRepo) GetDB() *gorm.DB {
	return r.db
}

const tagPostCount = "(SELECT COUNT(*) FROM blog_post_tags WHERE blog_post_tags.tag_id = tags.id) AS post_count"

// FindAll returns all tags ordered by name, each carrying its post count.
// A non-empty search narrows by name.
func (r *TagRepo) FindAll(search string) ([]*models.Tag, error) {
	q := r.db.Model(&models.Tag{}).
		Select("tags.*, " + tagPostCount).
		Order("tags.name")

	if search != "" {
		q = q.Where(`LOWER(tags.name) LIKE ? ESCAPE '\'`, contains(search))
	}

	var tags []*models.Tag
	err := q.Find(&tags).Error
	return tags, err
}

// FindByID returns a tag by id with its post count.
func (r *TagRepo) FindByID(id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Model(&models.Tag{}).
		Select("tags.*, "+tagPostCount).
		First(&tag, "tags.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByIDs resolves a set of tag ids, erroring if any id is unknown.
func (r *TagRepo) FindByIDs(ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.Find(&tags, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return tags, nil
}

// Add inserts a new tag; the unique index on name rejects duplicates.
func (r *TagRepo) Add(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// Update persists tag name changes.
func (r *TagRepo) Update(tag *models.Tag) error {
	return r.db.Model(tag).Update("name", tag.Name).Error
}

// Delete removes a tag and its post associations.
func (r *TagRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_post_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, "id = ?", id).Error
	})
}
