package authgate

import (
	"context"
	"net/mail"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the identity store the gates read from. Everything the pipeline
// needs is a lookup; writes exist only for the supplemental login and
// register surface.
type Users interface {
	repository.Repository[*User]

	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ UserStore                    = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

// NewUsersRepository wraps an already open bun database. Opening and
// migrating the database belongs to the host application.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*User, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id})
	}

	record := &User{}
	q := a.db.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err = q.
		Where("?TableAlias.id = ?", uid.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id})
		}
		return nil, err
	}

	return record, nil
}

type identifierOption struct {
	column string
	value  string
}

func resolveUserIdentifier(identifier string) []identifierOption {
	identifier = strings.TrimSpace(identifier)

	if _, err := uuid.Parse(identifier); err == nil {
		return []identifierOption{{column: "id", value: identifier}}
	}

	if _, err := mail.ParseAddress(identifier); err == nil {
		return []identifierOption{{column: "email", value: strings.ToLower(identifier)}}
	}

	return []identifierOption{
		{column: "username", value: identifier},
		{column: "email", value: strings.ToLower(identifier)},
	}
}

func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	for _, opt := range resolveUserIdentifier(identifier) {
		record := &User{}
		q := a.db.NewSelect().Model(record)

		for _, c := range criteria {
			q.Apply(c)
		}

		err := q.
			Where("?TableAlias."+opt.column+" = ?", opt.value).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}

		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{"identifier": identifier})
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, a.db, user)
}

func prepareUserDefaults(user *User) {
	if user == nil {
		return
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Username = strings.TrimSpace(user.Username)
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	if user == nil {
		return nil
	}

	now := time.Now()
	_, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("login_attempts = login_attempts + 1").
		Set("login_attempt_at = ?", now).
		Where("?TableAlias.id = ?", user.ID.String()).
		Exec(ctx)
	return err
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	if user == nil {
		return nil
	}

	now := time.Now()
	_, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("login_attempts = 0").
		Set("login_attempt_at = NULL").
		Set("loggedin_at = ?", now).
		Where("?TableAlias.id = ?", user.ID.String()).
		Exec(ctx)
	return err
}
