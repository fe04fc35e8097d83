package authgate

import (
	"github.com/goliatone/go-errors"
)

const (
	// TextCodeNoCredential marks requests that carry no Authorization header.
	TextCodeNoCredential = "NO_CREDENTIAL"
	// TextCodeTokenMalformed marks structurally corrupt tokens.
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeTokenSignature marks tokens signed with the wrong secret.
	TextCodeTokenSignature = "TOKEN_SIGNATURE_INVALID"
	// TextCodeTokenExpired marks tokens whose expiry has elapsed.
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeIdentityNotFound marks tokens whose subject no longer exists.
	TextCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	// TextCodeAuthRequired marks the authorization gate running without a
	// prior authenticated identity on the request.
	TextCodeAuthRequired = "AUTH_REQUIRED"
	// TextCodeAccessDenied marks role-set mismatches.
	TextCodeAccessDenied = "ACCESS_DENIED"
	// TextCodeSigningFailure marks token issuance failures.
	TextCodeSigningFailure = "TOKEN_SIGNING_FAILURE"
	// TextCodeCancelled marks operations aborted by context cancellation.
	TextCodeCancelled = "OPERATION_CANCELLED"
	// TextCodeInvalidCreds marks a failed identifier and password check.
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
	// TextCodeTooManyAttempts marks logins rejected by the cool down window.
	TextCodeTooManyAttempts = "TOO_MANY_LOGIN_ATTEMPTS"
	// TextCodeEmptyPassword marks empty password input.
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
)

// The rejection taxonomy is a closed set: every gate failure is one of these
// tagged variants, discriminated by text code, never by message matching.

// ErrNoCredential is returned when the request carries no bearer credential.
var ErrNoCredential = errors.New("no authorization token provided", errors.CategoryAuth).
	WithTextCode(TextCodeNoCredential).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that cannot be parsed at all.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned when a syntactically valid token fails
// signature verification, including tokens signed for the other kind.
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a correctly signed token is past expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is returned when the token subject has no user record.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrAuthRequired is the authorization gate's defense against running on a
// request that never passed the authentication gate.
var ErrAuthRequired = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRequired).
	WithCode(errors.CodeUnauthorized)

// ErrAccessDenied is returned when the identity's role is outside the
// required role set.
var ErrAccessDenied = errors.New("access denied", errors.CategoryAuthz).
	WithTextCode(TextCodeAccessDenied).
	WithCode(errors.CodeForbidden)

// ErrSigningFailure is returned when token issuance fails.
var ErrSigningFailure = errors.New("unable to sign token", errors.CategoryInternal).
	WithTextCode(TextCodeSigningFailure).
	WithCode(errors.CodeInternal)

// ErrOperationCancelled is returned when the surrounding request deadline
// cancels a gate operation before it completes.
var ErrOperationCancelled = errors.New("operation cancelled", errors.CategoryInternal).
	WithTextCode(TextCodeCancelled).
	WithCode(errors.CodeInternal)

// ErrMismatchedHashAndPassword is returned for credential checks that fail.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned once an account hits the cool down.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts).
	WithCode(errors.CodeTooManyRequests)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsTokenExpiredError reports whether err is the expired-token variant.
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsTokenMalformedError reports whether err is the malformed-token variant.
func IsTokenMalformedError(err error) bool {
	return hasTextCode(err, TextCodeTokenMalformed)
}

// IsTokenSignatureError reports whether err is the invalid-signature variant.
func IsTokenSignatureError(err error) bool {
	return hasTextCode(err, TextCodeTokenSignature)
}

// IsIdentityNotFoundError reports whether err is the unknown-subject variant.
func IsIdentityNotFoundError(err error) bool {
	return hasTextCode(err, TextCodeIdentityNotFound)
}

// IsRejection reports whether err is an expected gate rejection, as opposed
// to an internal failure that should surface as a 500.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz, errors.CategoryRateLimit:
		return true
	default:
		return false
	}
}
