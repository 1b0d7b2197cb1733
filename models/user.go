package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account. Credential policy beyond the password
// hash lives with the identity provider; this record is what posts hang off of.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username     string     `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Email        string     `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	FirstName    string     `json:"firstName" db:"first_name" gorm:"type:text;not null"`
	LastName     string     `json:"lastName" db:"last_name" gorm:"type:text;not null"`
	PasswordHash string     `json:"-" db:"password_hash" gorm:"type:text;not null"`
	IsAdmin      bool       `json:"isAdmin" db:"is_admin" gorm:"not null;default:false"`
	DateJoined   time.Time  `json:"dateJoined" db:"date_joined" gorm:"not null;autoCreateTime"`
	Posts        []BlogPost `json:"posts,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins the name parts the way the profile page displays them.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserBrief is the author representation embedded in post responses.
type UserBrief struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
}

func (u User) Brief() UserBrief {
	return UserBrief{ID: u.ID, Username: u.Username, FullName: u.FullName()}
}
