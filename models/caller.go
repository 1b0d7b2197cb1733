package models

import "github.com/google/uuid"

// Role classifies a caller for visibility and permission decisions.
type Role int

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "anonymous"
	}
}

// Caller identifies who is making a request. The zero value is anonymous.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

// Anonymous returns the caller used for unauthenticated requests.
func Anonymous() Caller {
	return Caller{Role: RoleAnonymous}
}

func (c Caller) IsAuthenticated() bool {
	return c.Role != RoleAnonymous
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// CanModify reports whether the caller may mutate a post owned by authorID.
// Only the author or an admin may publish, edit or delete a post.
func (c Caller) CanModify(authorID uuid.UUID) bool {
	return c.IsAdmin() || (c.IsAuthenticated() && c.ID == authorID)
}
