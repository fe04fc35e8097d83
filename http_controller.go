package authgate

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

// AuthControllerRoutes are the paths the controller registers.
type AuthControllerRoutes struct {
	Login    string
	Register string
	Refresh  string
	Me       string
}

// AuthController exposes the credential lifecycle over HTTP: login,
// registration, the explicit renewal endpoint, and the current identity.
type AuthController struct {
	Logger   Logger
	Routes   AuthControllerRoutes
	tokens   *TokenService
	verifier IdentityVerifier
	registry AccountRegistrar
}

// NewAuthController wires the controller with its collaborators.
func NewAuthController(tokens *TokenService, verifier IdentityVerifier, registry AccountRegistrar) *AuthController {
	return &AuthController{
		Logger:   defLogger{},
		tokens:   tokens,
		verifier: verifier,
		registry: registry,
		Routes: AuthControllerRoutes{
			Login:    "/auth/login",
			Register: "/auth/register",
			Refresh:  "/auth/refresh",
			Me:       "/auth/me",
		},
	}
}

// WithLogger overrides the controller logger.
func (ac *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		ac.Logger = logger
	}
	return ac
}

// RegisterRoutes mounts the controller. The refresh and me routes sit behind
// the provided authentication gate; renewal never re-verifies the inbound
// token itself, it trusts the identity the gate attached.
func (ac *AuthController) RegisterRoutes(app fiber.Router, protect fiber.Handler) {
	app.Post(ac.Routes.Login, ac.LoginPost)
	app.Post(ac.Routes.Register, ac.RegisterPost)
	app.Post(ac.Routes.Refresh, protect, ac.RefreshPost)
	app.Get(ac.Routes.Me, protect, ac.MeGet)
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate checks the payload before it reaches the verifier.
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Identifier, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

// LoginPost verifies the identifier and password pair and issues a fresh
// token pair on success.
func (ac *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	identity, err := ac.verifier.VerifyIdentity(c.UserContext(), payload.Identifier, payload.Password)
	if err != nil {
		return WriteRejection(c, ac.Logger, err, MsgLoginFailed)
	}

	pair, err := ac.tokens.Renew(c.UserContext(), identity)
	if err != nil {
		return WriteRejection(c, ac.Logger, err, MsgLoginFailed)
	}

	return c.JSON(fiber.Map{
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          identityResponse(identity),
	})
}

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate checks the payload before the account is created.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
	)
}

// RegisterPost creates a new account with the default role.
func (ac *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := RegisterPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return WriteRejection(c, ac.Logger, err, MsgRegisterFailed)
	}

	user, err := ac.registry.Register(c.UserContext(), &User{
		Username:     payload.Username,
		Email:        payload.Email,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		PasswordHash: hash,
	})
	if err != nil {
		return WriteRejection(c, ac.Logger, err, MsgRegisterFailed)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user.Sanitize(),
	})
}

// RefreshPost is the renewal flow: given the identity the authentication
// gate already attached, mint a fresh access and refresh token pair. It
// never consults the identity store.
func (ac *AuthController) RefreshPost(c *fiber.Ctx) error {
	identity, ok := IdentityFromFiber(c, "")
	if !ok {
		return WriteRejection(c, ac.Logger, ErrAuthRequired, MsgRefreshFailed)
	}

	pair, err := ac.tokens.Renew(c.UserContext(), identity)
	if err != nil {
		return WriteRejection(c, ac.Logger, err, MsgRefreshFailed)
	}

	return c.JSON(pair)
}

// MeGet returns the authenticated identity.
func (ac *AuthController) MeGet(c *fiber.Ctx) error {
	identity, ok := IdentityFromFiber(c, "")
	if !ok {
		return WriteRejection(c, ac.Logger, ErrAuthRequired, MsgAuthFailed)
	}

	return c.JSON(fiber.Map{
		"user": identityResponse(identity),
	})
}

func identityResponse(identity Identity) fiber.Map {
	if identity == nil {
		return fiber.Map{}
	}
	return fiber.Map{
		"id":       identity.ID(),
		"username": identity.Username(),
		"email":    identity.Email(),
		"role":     identity.Role(),
	}
}
