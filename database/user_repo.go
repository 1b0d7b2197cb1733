package database

import (
	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *UserRepo) GetDB() *gorm.DB {
	return r.db
}

// FindByID returns a user by id
func (r *UserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns a user by their unique username
func (r *UserRepo) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "username = ?", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user; unique indexes on username and email reject
// duplicates at the store level.
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}

// Delete removes a user by id. Their posts go with them via the FK cascade.
func (r *UserRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.User{}, "id = ?", id).Error
}

// CountPosts returns how many posts the user has authored.
func (r *UserRepo) CountPosts(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.BlogPost{}).Where("author_id = ?", id).Count(&count).Error
	return count, err
}
