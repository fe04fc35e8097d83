package authgate_test

import (
	stderrors "errors"
	"testing"

	authgate "github.com/goliatone/go-auth-gate"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name      string
		err       *errors.Error
		textCode  string
		code      int
		rejection bool
	}{
		{name: "no credential", err: authgate.ErrNoCredential, textCode: authgate.TextCodeNoCredential, code: errors.CodeUnauthorized, rejection: true},
		{name: "malformed", err: authgate.ErrTokenMalformed, textCode: authgate.TextCodeTokenMalformed, code: errors.CodeUnauthorized, rejection: true},
		{name: "bad signature", err: authgate.ErrTokenSignatureInvalid, textCode: authgate.TextCodeTokenSignature, code: errors.CodeUnauthorized, rejection: true},
		{name: "expired", err: authgate.ErrTokenExpired, textCode: authgate.TextCodeTokenExpired, code: errors.CodeUnauthorized, rejection: true},
		{name: "identity gone", err: authgate.ErrIdentityNotFound, textCode: authgate.TextCodeIdentityNotFound, code: errors.CodeUnauthorized, rejection: true},
		{name: "auth required", err: authgate.ErrAuthRequired, textCode: authgate.TextCodeAuthRequired, code: errors.CodeUnauthorized, rejection: true},
		{name: "access denied", err: authgate.ErrAccessDenied, textCode: authgate.TextCodeAccessDenied, code: errors.CodeForbidden, rejection: true},
		{name: "signing failure", err: authgate.ErrSigningFailure, textCode: authgate.TextCodeSigningFailure, code: errors.CodeInternal, rejection: false},
		{name: "cancelled", err: authgate.ErrOperationCancelled, textCode: authgate.TextCodeCancelled, code: errors.CodeInternal, rejection: false},
		{name: "throttled", err: authgate.ErrTooManyLoginAttempts, textCode: authgate.TextCodeTooManyAttempts, code: errors.CodeTooManyRequests, rejection: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.rejection, authgate.IsRejection(tt.err))
		})
	}
}

func TestErrorPredicatesSurviveWrapping(t *testing.T) {
	wrapped := errors.Wrap(authgate.ErrTokenExpired, errors.CategoryAuth, "verify failed").
		WithTextCode(authgate.TextCodeTokenExpired)

	assert.True(t, authgate.IsTokenExpiredError(wrapped))
	assert.False(t, authgate.IsTokenSignatureError(wrapped))
	assert.False(t, authgate.IsTokenMalformedError(wrapped))
	assert.True(t, authgate.IsRejection(wrapped))
}

func TestPredicatesOnForeignErrors(t *testing.T) {
	plain := stderrors.New("database on fire")

	assert.False(t, authgate.IsRejection(plain))
	assert.False(t, authgate.IsTokenExpiredError(plain))
	assert.False(t, authgate.IsIdentityNotFoundError(plain))
	assert.False(t, authgate.IsRejection(nil))
}
