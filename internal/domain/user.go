package domain

import "time"

const (
	RoleChild  = "child"
	RoleParent = "parent"
	RolePro    = "pro"
)

// User is an authenticated identity. Children carry no email; they are
// identified by name plus a permanent six-digit LinkCode. Parents may
// hold a weak link to one child via ChildID; pros carry the class code
// they teach.
type User struct {
	ID        string    `json:"id" bson:"id"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Password  string    `json:"-" bson:"password,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Role      string    `json:"role" bson:"role"`
	ClassCode string    `json:"class_code,omitempty" bson:"class_code,omitempty"`
	ChildID   string    `json:"child_id,omitempty" bson:"child_id,omitempty"`
	LinkCode  string    `json:"link_code,omitempty" bson:"link_code,omitempty"`
	OrgID     string    `json:"org_id,omitempty" bson:"org_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Pin is a single-use four-digit code a child mints so a parent can
// claim the link. Expired pins are swept by the janitor.
type Pin struct {
	ID        string    `json:"id" bson:"id"`
	Pin       string    `json:"pin" bson:"pin"`
	ChildID   string    `json:"child_id" bson:"child_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

func ValidRole(role string) bool {
	return role == RoleChild || role == RoleParent || role == RolePro
}
