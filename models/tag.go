package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a free-form label shared across posts.
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`

	// PostCount is populated by list queries, not stored.
	PostCount int64 `json:"postCount" gorm:"->;-:migration"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
