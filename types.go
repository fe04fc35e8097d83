package authgate

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the gates need. Messages use
// printf-style formatting.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal. Values handed
// to the pipeline never carry the credential secret.
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// IdentityResolver fetches the authoritative identity for a verified token
// subject. Implementations are read only from the pipeline's perspective.
type IdentityResolver interface {
	FindIdentityByID(ctx context.Context, id string) (Identity, error)
}

// IdentityVerifier checks an identifier and password pair and returns the
// matching identity.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
}

// AccountRegistrar creates new user records for the registration surface.
type AccountRegistrar interface {
	Register(ctx context.Context, user *User) (*User, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHGATE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHGATE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHGATE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHGATE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
