package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserClaims is the JWT payload issued by the identity service. ProfileID
// is the restaurant or courier profile acting on orders; for clients and
// admins it equals the user id.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Role      string    `json:"role"`
}

// IsAdmin reports whether the claims carry the admin role.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
