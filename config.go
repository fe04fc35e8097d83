package authgate

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	// DefaultAccessTTL is the lifetime of an access token.
	DefaultAccessTTL = time.Hour
	// DefaultRefreshTTL is the lifetime of a refresh token.
	DefaultRefreshTTL = 7 * 24 * time.Hour
	// DefaultContextKey is the request locals key the identity is stored under.
	DefaultContextKey = "user"
	// DefaultTokenKey is the request locals key the raw token is stored under.
	DefaultTokenKey = "token"
	// DefaultAuthScheme is the expected Authorization scheme prefix.
	DefaultAuthScheme = "Bearer"
)

// Config holds the process-wide gate configuration. It is built once at
// startup, validated, and passed by reference into the gates; it is never
// mutated afterwards, so concurrent reads need no synchronization.
type Config struct {
	// AccessSecret signs and verifies access tokens.
	AccessSecret string
	// RefreshSecret signs and verifies refresh tokens. It must be
	// independent from AccessSecret so tokens of one kind never verify
	// under the other.
	RefreshSecret string
	// AccessTTL is the access token lifetime. Zero means DefaultAccessTTL.
	AccessTTL time.Duration
	// RefreshTTL is the refresh token lifetime. Zero means DefaultRefreshTTL.
	RefreshTTL time.Duration
	// Issuer is stamped into the iss claim and enforced on verification
	// when set.
	Issuer string
	// Audience is stamped into the aud claim when set.
	Audience []string
	// ContextKey overrides the locals key for the resolved identity.
	ContextKey string
	// TokenKey overrides the locals key for the raw token string.
	TokenKey string
	// AuthScheme overrides the Authorization scheme prefix.
	AuthScheme string
}

// Validate checks that the config can actually gate requests.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.AccessSecret, validation.Required),
		validation.Field(&c.RefreshSecret, validation.Required),
		validation.Field(&c.AccessTTL, validation.By(nonNegativeDuration)),
		validation.Field(&c.RefreshTTL, validation.By(nonNegativeDuration)),
	)
}

func nonNegativeDuration(value any) error {
	d, ok := value.(time.Duration)
	if !ok {
		return fmt.Errorf("expected a duration")
	}
	if d < 0 {
		return fmt.Errorf("must be non-negative")
	}
	return nil
}

func (c Config) accessTTL() time.Duration {
	if c.AccessTTL != 0 {
		return c.AccessTTL
	}
	return DefaultAccessTTL
}

func (c Config) refreshTTL() time.Duration {
	if c.RefreshTTL != 0 {
		return c.RefreshTTL
	}
	return DefaultRefreshTTL
}

func (c Config) contextKey() string {
	if c.ContextKey != "" {
		return c.ContextKey
	}
	return DefaultContextKey
}

func (c Config) tokenKey() string {
	if c.TokenKey != "" {
		return c.TokenKey
	}
	return DefaultTokenKey
}

func (c Config) authScheme() string {
	if c.AuthScheme != "" {
		return c.AuthScheme
	}
	return DefaultAuthScheme
}

// NewConfigFromEnv builds a Config from the process environment, matching
// the service's historical variable names: JWT_SECRET and
// REFRESH_TOKEN_SECRET are required, TOKEN_TTL and REFRESH_TOKEN_TTL accept
// Go duration expressions.
func NewConfigFromEnv() (Config, error) {
	cfg := Config{
		AccessSecret:  os.Getenv("JWT_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		Issuer:        os.Getenv("TOKEN_ISSUER"),
	}

	if expr := os.Getenv("TOKEN_TTL"); expr != "" {
		ttl, err := time.ParseDuration(expr)
		if err != nil {
			return Config{}, fmt.Errorf("unable to parse TOKEN_TTL %q: %w", expr, err)
		}
		cfg.AccessTTL = ttl
	}

	if expr := os.Getenv("REFRESH_TOKEN_TTL"); expr != "" {
		ttl, err := time.ParseDuration(expr)
		if err != nil {
			return Config{}, fmt.Errorf("unable to parse REFRESH_TOKEN_TTL %q: %w", expr, err)
		}
		cfg.RefreshTTL = ttl
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
