package authgate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind selects which secret and lifetime a token is bound to.
type TokenKind string

const (
	// TokenKindAccess is the short lived token that authenticates requests.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long lived token used solely to obtain a new
	// access token.
	TokenKindRefresh TokenKind = "refresh"
)

// GateClaims is the claim set carried by both token kinds.
type GateClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// Subject returns the subject claim.
func (c *GateClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject claim.
func (c *GateClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the role claim.
func (c *GateClaims) Role() string {
	return c.UserRole
}

// HasRole checks the role claim against a specific role.
func (c *GateClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// Expires returns the expiration time, zero when the claim is absent.
func (c *GateClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issuance time, zero when the claim is absent.
func (c *GateClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
