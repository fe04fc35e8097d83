package authgate

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// UserStore is the slice of the identity store the provider consumes.
type UserStore interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// MaxLoginAttempts is the number of failed logins an account gets inside the
// cool down window.
var MaxLoginAttempts = 5

// CoolDownPeriod is the window during which MaxLoginAttempts is enforced.
var CoolDownPeriod = 24 * time.Hour

// UserProvider resolves and verifies identities against a UserStore. It is
// the pipeline's identity resolver: read only, one lookup per request, and
// every value it returns is sanitized.
type UserProvider struct {
	store  UserStore
	logger Logger
}

var (
	_ IdentityResolver = (*UserProvider)(nil)
	_ IdentityVerifier = (*UserProvider)(nil)
)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

// WithLogger overrides the provider logger.
func (u *UserProvider) WithLogger(logger Logger) *UserProvider {
	if logger != nil {
		u.logger = logger
	}
	return u
}

// FindIdentityByID fetches the authoritative record for a verified token
// subject. A missing record maps to ErrIdentityNotFound; anything else is an
// internal store failure, reported as such so it is never confused with a
// normal rejection.
func (u *UserProvider) FindIdentityByID(ctx context.Context, id string) (Identity, error) {
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "identity store lookup failed")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return NewIdentityFromUser(user), nil
}

// VerifyIdentity finds the user, compares the password, and returns the
// sanitized identity. Failed attempts are tracked and throttled with a cool
// down window.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "identity store lookup failed")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if u.inCoolDown(user) {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if trackErr := u.store.TrackAttemptedLogin(ctx, user); trackErr != nil {
			u.logger.Warn("unable to track attempted login: %v", trackErr)
		}
		return nil, err
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Warn("unable to track successful login: %v", err)
	}

	return NewIdentityFromUser(user), nil
}

func (u *UserProvider) inCoolDown(user *User) bool {
	if user.LoginAttempts < MaxLoginAttempts {
		return false
	}
	if user.LoginAttemptAt == nil {
		return false
	}
	return time.Since(*user.LoginAttemptAt) < CoolDownPeriod
}
