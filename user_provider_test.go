package authgate_test

import (
	"context"
	"testing"
	"time"

	authgate "github.com/goliatone/go-auth-gate"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testUser(t *testing.T, role authgate.UserRole, password string) *authgate.User {
	t.Helper()
	hash, err := authgate.HashPassword(password)
	require.NoError(t, err)
	return &authgate.User{
		ID:           uuid.New(),
		Role:         role,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}
}

func TestFindIdentityByID(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, authgate.RoleUser, "super-secret")

	store := new(MockUserStore)
	store.On("GetByID", ctx, user.ID.String()).Return(user, nil).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	identity, err := provider.FindIdentityByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "alice", identity.Username())
	assert.Equal(t, authgate.RoleUser, identity.Role())
	store.AssertExpectations(t)
}

func TestFindIdentityByIDNotFound(t *testing.T) {
	ctx := context.Background()

	store := new(MockUserStore)
	store.On("GetByID", ctx, mock.Anything).Return(nil, repository.NewRecordNotFound()).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	_, err := provider.FindIdentityByID(ctx, uuid.NewString())
	assert.True(t, authgate.IsIdentityNotFoundError(err), "expected identity-not-found, got %v", err)
	assert.True(t, authgate.IsRejection(err))
}

func TestFindIdentityByIDStoreFailure(t *testing.T) {
	ctx := context.Background()

	store := new(MockUserStore)
	store.On("GetByID", ctx, mock.Anything).
		Return(nil, errors.New("connection refused", errors.CategoryInternal)).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	_, err := provider.FindIdentityByID(ctx, uuid.NewString())
	require.Error(t, err)
	assert.False(t, authgate.IsIdentityNotFoundError(err))
	assert.False(t, authgate.IsRejection(err), "store failures are internal, never a normal rejection")
}

func TestFindIdentityByIDHonorsCancellation(t *testing.T) {
	store := new(MockUserStore)
	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.FindIdentityByID(ctx, uuid.NewString())
	require.Error(t, err)
	assert.False(t, authgate.IsRejection(err))
	store.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestVerifyIdentity(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, authgate.RoleAdmin, "super-secret")

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "alice@example.com").Return(user, nil).Once()
	store.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	identity, err := provider.VerifyIdentity(ctx, "alice@example.com", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, authgate.RoleAdmin, identity.Role())
	store.AssertExpectations(t)
}

func TestVerifyIdentityWrongPassword(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, authgate.RoleUser, "super-secret")

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "alice@example.com").Return(user, nil).Once()
	store.On("TrackAttemptedLogin", ctx, user).Return(nil).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	_, err := provider.VerifyIdentity(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, authgate.ErrMismatchedHashAndPassword)
	store.AssertExpectations(t)
}

func TestVerifyIdentityCoolDown(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, authgate.RoleUser, "super-secret")
	user.LoginAttempts = authgate.MaxLoginAttempts
	attemptAt := time.Now().Add(-time.Minute)
	user.LoginAttemptAt = &attemptAt

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "alice@example.com").Return(user, nil).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	_, err := provider.VerifyIdentity(ctx, "alice@example.com", "super-secret")
	assert.ErrorIs(t, err, authgate.ErrTooManyLoginAttempts)
	store.AssertNotCalled(t, "TrackSuccessfulLogin", mock.Anything, mock.Anything)
}

func TestVerifyIdentityCoolDownExpired(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, authgate.RoleUser, "super-secret")
	user.LoginAttempts = authgate.MaxLoginAttempts
	attemptAt := time.Now().Add(-authgate.CoolDownPeriod - time.Hour)
	user.LoginAttemptAt = &attemptAt

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, "alice@example.com").Return(user, nil).Once()
	store.On("TrackSuccessfulLogin", ctx, user).Return(nil).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	_, err := provider.VerifyIdentity(ctx, "alice@example.com", "super-secret")
	assert.NoError(t, err)
}

func TestVerifyIdentityUnknownIdentifier(t *testing.T) {
	ctx := context.Background()

	store := new(MockUserStore)
	store.On("GetByIdentifier", ctx, mock.Anything).Return(nil, repository.NewRecordNotFound()).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	_, err := provider.VerifyIdentity(ctx, "nobody", "whatever")
	assert.True(t, authgate.IsIdentityNotFoundError(err))
}

func TestProviderSanitizesIdentity(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, authgate.RoleUser, "super-secret")

	store := new(MockUserStore)
	store.On("GetByID", ctx, user.ID.String()).Return(user, nil).Once()

	provider := authgate.NewUserProvider(store).WithLogger(nopLogger{})

	identity, err := provider.FindIdentityByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username())

	// The stored record keeps its hash; only the value handed to the
	// pipeline is sanitized.
	assert.NotEmpty(t, user.PasswordHash)
}
