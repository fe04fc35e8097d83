package authgate

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// Rejection bodies, matched to the service's historical responses. Clients
// key off these strings, so they are part of the external contract.
const (
	MsgNoCredential   = "No authorization token provided"
	MsgInvalidToken   = "Invalid authentication token"
	MsgTokenExpired   = "Authentication token has expired"
	MsgUserNotFound   = "User not found"
	MsgAuthRequired   = "Authentication required"
	MsgAccessDenied   = "Access denied"
	MsgTooManyLogins  = "Too many login attempts"
	MsgInvalidLogin   = "Invalid credentials"
	MsgAuthFailed     = "Authentication failed"
	MsgAuthzFailed    = "Authorization error"
	MsgRefreshFailed  = "Token refresh failed"
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
)

// MiddlewareConfig configures the authentication gate.
type MiddlewareConfig struct {
	// TokenService verifies access tokens. Required.
	TokenService *TokenService
	// Resolver fetches the identity for a verified subject. Required.
	Resolver IdentityResolver
	// Filter skips the gate for matching requests.
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after the identity is attached. Default: Next.
	SuccessHandler fiber.Handler
	// ErrorHandler turns gate failures into responses. Default: the
	// structured rejection writer.
	ErrorHandler func(*fiber.Ctx, error) error
	// ContextKey is the locals key for the resolved identity. Defaults to
	// the token service's configured key.
	ContextKey string
	// TokenKey is the locals key for the raw token string. Defaults to the
	// token service's configured key.
	TokenKey string
	// AuthScheme is the Authorization scheme prefix to strip. Defaults to
	// the token service's configured scheme.
	AuthScheme string
	// Logger receives internal failures. Rejections are not logged.
	Logger Logger
}

func (cfg MiddlewareConfig) withDefaults() MiddlewareConfig {
	if cfg.TokenService == nil {
		panic("authgate: middleware configuration: TokenService is required")
	}
	if cfg.Resolver == nil {
		panic("authgate: middleware configuration: Resolver is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}
	base := cfg.TokenService.Config()
	if cfg.ContextKey == "" {
		cfg.ContextKey = base.contextKey()
	}
	if cfg.TokenKey == "" {
		cfg.TokenKey = base.tokenKey()
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = base.authScheme()
	}
	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return WriteRejection(c, logger, err, MsgAuthFailed)
		}
	}
	return cfg
}

// Protected is the authentication gate. Stages run strictly in order:
// extract the Authorization header, verify the access token, resolve the
// identity, attach both to the request. The first failure short circuits the
// request through the error handler and nothing downstream runs.
func Protected(cfg MiddlewareConfig) fiber.Handler {
	cfg = cfg.withDefaults()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return cfg.ErrorHandler(c, ErrNoCredential)
		}

		raw := stripAuthScheme(header, cfg.AuthScheme)

		claims, err := cfg.TokenService.Verify(c.UserContext(), raw, TokenKindAccess)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		identity, err := cfg.Resolver.FindIdentityByID(c.UserContext(), claims.UserID())
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if identity == nil {
			return cfg.ErrorHandler(c, ErrIdentityNotFound)
		}

		c.Locals(cfg.ContextKey, identity)
		c.Locals(cfg.TokenKey, raw)
		c.SetUserContext(WithIdentity(WithToken(c.UserContext(), raw), identity))

		return cfg.SuccessHandler(c)
	}
}

// stripAuthScheme removes the scheme prefix from the header value. The
// scheme is not required: a header carrying the bare token is accepted as
// is. This leniency is deliberate and part of the documented contract.
func stripAuthScheme(header, scheme string) string {
	prefix := scheme + " "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return strings.TrimSpace(header)
}

// RoleGateConfig tunes the authorization gate.
type RoleGateConfig struct {
	// ContextKey is the locals key the identity was stored under.
	ContextKey string
	// ErrorHandler turns gate failures into responses.
	ErrorHandler func(*fiber.Ctx, error) error
	// Logger receives internal failures.
	Logger Logger
}

// RequireRoles is the authorization gate: a pure predicate over the identity
// the authentication gate attached. The required role set is captured at
// route registration time; membership in any one role suffices. A request
// that never passed authentication is rejected as unauthenticated, not
// forbidden.
func RequireRoles(required []UserRole, config ...RoleGateConfig) fiber.Handler {
	var cfg RoleGateConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}
	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return WriteRejection(c, logger, err, MsgAuthzFailed)
		}
	}

	roles := append([]UserRole(nil), required...)

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromFiber(c, cfg.ContextKey)
		if !ok {
			return cfg.ErrorHandler(c, ErrAuthRequired)
		}

		if !RoleIn(UserRole(identity.Role()), roles...) {
			return cfg.ErrorHandler(c, ErrAccessDenied)
		}

		return c.Next()
	}
}

func rejectionMessage(textCode string) (string, int, bool) {
	switch textCode {
	case TextCodeNoCredential:
		return MsgNoCredential, fiber.StatusUnauthorized, true
	case TextCodeTokenMalformed, TextCodeTokenSignature:
		return MsgInvalidToken, fiber.StatusUnauthorized, true
	case TextCodeTokenExpired:
		return MsgTokenExpired, fiber.StatusUnauthorized, true
	case TextCodeIdentityNotFound:
		return MsgUserNotFound, fiber.StatusUnauthorized, true
	case TextCodeAuthRequired:
		return MsgAuthRequired, fiber.StatusUnauthorized, true
	case TextCodeAccessDenied:
		return MsgAccessDenied, fiber.StatusForbidden, true
	case TextCodeInvalidCreds:
		return MsgInvalidLogin, fiber.StatusUnauthorized, true
	case TextCodeTooManyAttempts:
		return MsgTooManyLogins, fiber.StatusTooManyRequests, true
	default:
		return "", 0, false
	}
}

// WriteRejection maps a gate failure onto its terminal response. Expected
// rejections produce their canonical 4xx body and are not logged as faults.
// Everything else is an internal failure: full detail goes to the logger,
// the caller gets the generic fallback message with the error string in a
// separate field. Uncertainty always fails closed.
func WriteRejection(c *fiber.Ctx, logger Logger, err error, fallbackMessage string) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "unexpected gate failure")
	}

	if message, status, ok := rejectionMessage(richErr.TextCode); ok && IsRejection(richErr) {
		return c.Status(status).JSON(fiber.Map{
			"message": message,
		})
	}

	logger.Error("%s: %v", fallbackMessage, err)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fallbackMessage,
		"error":   richErr.Message,
	})
}
