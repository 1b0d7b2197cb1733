package database

import (
	"github.com/pressmark-io/blog-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	userRepo     *UserRepo
	categoryRepo *CategoryRepo
	tagRepo      *TagRepo
	blogPostRepo *BlogPostRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:     NewUserRepo(db),
		categoryRepo: NewCategoryRepo(db),
		tagRepo:      NewTagRepo(db),
		blogPostRepo: NewBlogPostRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

// Migrate creates or updates the schema for every entity. Uniqueness of
// usernames, emails, category names and tag names is enforced here by the
// store, not checked by application code.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.BlogPost{},
	)
}
