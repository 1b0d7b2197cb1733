package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the publish state of a blog post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Write-time length constraints on post fields.
const (
	TitleMinLength   = 5
	TitleMaxLength   = 200
	ContentMinLength = 50
)

// BlogPost represents a complete blog post with metadata.
//
// PublishedDate stays null while the post is a draft and is set exactly once,
// the first time the post transitions to published. ViewCount only increases.
type BlogPost struct {
	ID            uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title         string     `json:"title" db:"title" gorm:"type:text;not null"`
	Slug          string     `json:"slug" db:"slug" gorm:"type:text;not null;index"`
	Content       string     `json:"content" db:"content" gorm:"type:text;not null"`
	AuthorID      uuid.UUID  `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index"`
	CategoryID    *uuid.UUID `json:"categoryId,omitempty" db:"category_id" gorm:"type:uuid;index"`
	Status        PostStatus `json:"status" db:"status" gorm:"type:text;not null;default:draft;index"`
	PublishedDate *time.Time `json:"publishedDate,omitempty" db:"published_date" gorm:"index"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at" gorm:"not null;autoUpdateTime"`
	ViewCount     uint       `json:"viewCount" db:"view_count" gorm:"not null;default:0"`
	IsFeatured    bool       `json:"isFeatured" db:"is_featured" gorm:"not null;default:false"`

	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL"`
	Tags     []Tag     `json:"tags,omitempty" gorm:"many2many:blog_post_tags;constraint:OnDelete:CASCADE"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsPublished reports whether the post is visible to the public.
func (p BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

const excerptLength = 200

// Excerpt returns the leading slice of content used by list responses.
// Sliced on runes so a multi-byte character is never cut in half.
func (p BlogPost) Excerpt() string {
	runes := []rune(p.Content)
	if len(runes) <= excerptLength {
		return p.Content
	}
	return string(runes[:excerptLength]) + "..."
}

const wordsPerMinute = 200

// ReadTime estimates reading time in whole minutes from the content length.
func (p BlogPost) ReadTime() int {
	words := len(p.Content) / 5
	minutes := words / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
