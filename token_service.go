package authgate

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenPair is the output of the renewal flow: a fresh access token and a
// fresh refresh token, each signed with its own secret.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService is the credential codec: it signs and verifies both token
// kinds against the immutable Config it was built with.
type TokenService struct {
	cfg    Config
	logger Logger
}

// NewTokenService creates a TokenService from a validated Config.
func NewTokenService(cfg Config) *TokenService {
	return &TokenService{
		cfg:    cfg,
		logger: defLogger{},
	}
}

// WithLogger overrides the service logger.
func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// Config returns a copy of the configuration the service was built with.
func (ts *TokenService) Config() Config {
	return ts.cfg
}

func (ts *TokenService) material(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case TokenKindAccess:
		return []byte(ts.cfg.AccessSecret), ts.cfg.accessTTL(), nil
	case TokenKindRefresh:
		return []byte(ts.cfg.RefreshSecret), ts.cfg.refreshTTL(), nil
	default:
		return nil, 0, errors.New(fmt.Sprintf("unknown token kind: %s", kind), errors.CategoryBadInput)
	}
}

// Sign mints a token of the given kind for the identity, with expiry set to
// now plus the kind's configured lifetime.
func (ts *TokenService) Sign(ctx context.Context, identity Identity, kind TokenKind) (string, error) {
	if err := cancelled(ctx); err != nil {
		return "", err
	}

	if identity == nil {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}

	secret, ttl, err := ts.material(kind)
	if err != nil {
		return "", err
	}

	now := time.Now()

	var aud jwt.ClaimStrings
	if len(ts.cfg.Audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.cfg.Audience))
		copy(aud, ts.cfg.Audience)
	}

	claims := &GateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.cfg.Issuer,
			Subject:   identity.ID(),
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UID:      identity.ID(),
		UserRole: identity.Role(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, ErrSigningFailure.Category, ErrSigningFailure.Message).
			WithTextCode(ErrSigningFailure.TextCode)
	}

	return signed, nil
}

// Verify parses a raw token of the given kind and returns its claims. Both
// the signature and the expiry instant are checked before any claim is
// trusted; failures map onto the closed rejection set: ErrTokenExpired,
// ErrTokenSignatureInvalid, or ErrTokenMalformed.
func (ts *TokenService) Verify(ctx context.Context, raw string, kind TokenKind) (*GateClaims, error) {
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	secret, _, err := ts.material(kind)
	if err != nil {
		return nil, err
	}

	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.cfg.Issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &GateClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case stderrors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	claims, ok := token.Claims.(*GateClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// Renew mints a fresh token pair for an already authenticated identity. It
// never re-verifies the inbound token and never consults the identity store;
// both already happened at the authentication gate.
func (ts *TokenService) Renew(ctx context.Context, identity Identity) (TokenPair, error) {
	access, err := ts.Sign(ctx, identity, TokenKindAccess)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := ts.Sign(ctx, identity, TokenKindRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
