package authgate

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

var identityCtxKey = &contextKey{"identity"}
var tokenCtxKey = &contextKey{"token"}

type contextKey struct {
	name string
}

// WithIdentity attaches the authenticated identity to the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext extracts the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(identityCtxKey).(Identity)
	return identity, ok
}

// WithToken stores the raw bearer token inside the context.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenCtxKey, token)
}

// TokenFromContext returns the bearer token if it was previously attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, ok := ctx.Value(tokenCtxKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// IdentityFromFiber extracts the identity the authentication gate stored in
// the request locals. An empty key falls back to DefaultContextKey.
func IdentityFromFiber(c *fiber.Ctx, key string) (Identity, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	identity, ok := raw.(Identity)
	return identity, ok
}

// TokenFromFiber extracts the raw token the authentication gate stored in
// the request locals. An empty key falls back to DefaultTokenKey.
func TokenFromFiber(c *fiber.Ctx, key string) (string, bool) {
	if key == "" {
		key = DefaultTokenKey
	}
	token, ok := c.Locals(key).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// cancelled maps a done request context onto the internal cancelled variant
// so no gate operation returns a stale or partial result.
func cancelled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, ErrOperationCancelled.Category, ErrOperationCancelled.Message).
			WithTextCode(ErrOperationCancelled.TextCode)
	}
	return nil
}
