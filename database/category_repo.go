package database

import (
	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *CategoryRepo) GetDB() *gorm.DB {
	return r.db
}

const categoryPostCount = "(SELECT COUNT(*) FROM blog_posts WHERE blog_posts.category_id = categories.id) AS post_count"

// FindAll returns all categories ordered by name, each carrying its post
// count. A non-empty search narrows by name or description.
func (r *CategoryRepo) FindAll(search string) ([]*models.Category, error) {
	q := r.db.Model(&models.Category{}).
		Select("categories.*, " + categoryPostCount).
		Order("categories.name")

	if search != "" {
		pattern := contains(search)
		q = q.Where(`LOWER(categories.name) LIKE ? ESCAPE '\' OR LOWER(categories.description) LIKE ? ESCAPE '\'`,
			pattern, pattern)
	}

	var categories []*models.Category
	err := q.Find(&categories).Error
	return categories, err
}

// FindByID returns a category by id with its post count.
func (r *CategoryRepo) FindByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.Model(&models.Category{}).
		Select("categories.*, "+categoryPostCount).
		First(&category, "categories.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Add inserts a new category; the unique index on name rejects duplicates.
func (r *CategoryRepo) Add(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update persists category name and description changes.
func (r *CategoryRepo) Update(category *models.Category) error {
	return r.db.Model(category).Updates(map[string]interface{}{
		"name":        category.Name,
		"description": category.Description,
	}).Error
}

// Delete removes a category. Posts referencing it keep existing with a null
// category, per the FK's SET NULL.
func (r *CategoryRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Category{}, "id = ?", id).Error
}
