package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups posts by topic. Deleting a category leaves its posts in
// place with a null category reference.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Description string    `json:"description" db:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`

	// PostCount is populated by list queries, not stored.
	PostCount int64 `json:"postCount" gorm:"->;-:migration"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
