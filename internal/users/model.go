package users

import (
	"time"

	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// User is a directory entry. Each user carries exactly one role; the
// evaluator treats it as immutable input per request. Credentials live here
// for the identity provider's benefit and never serialize.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         rbac.Role `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
