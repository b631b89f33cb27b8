package blog

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// IdentityManager is the identity-store contract consumed by the handlers.
// Password hashing, salting, and storage stay behind this interface; the
// rest of the module only sees the lookup/verification surface.
//
// Mutating methods come in Tx pairs so handlers can bind them to the
// request transaction.
type IdentityManager interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	VerifyPassword(ctx context.Context, user *User, plaintext string) bool

	CreateUser(ctx context.Context, user *User, plaintext string) (*User, error)
	CreateUserTx(ctx context.Context, tx bun.IDB, user *User, plaintext string) (*User, error)

	SetUserName(ctx context.Context, user *User, newName string) (*User, error)
	SetUserNameTx(ctx context.Context, tx bun.IDB, user *User, newName string) (*User, error)

	GetRoles(ctx context.Context, user *User) ([]string, error)
	AddToRole(ctx context.Context, user *User, role string) error
	AddToRoleTx(ctx context.Context, tx bun.IDB, user *User, role string) error
	RemoveFromRole(ctx context.Context, user *User, role string) error
	RemoveFromRoleTx(ctx context.Context, tx bun.IDB, user *User, role string) error

	DeleteUser(ctx context.Context, user *User) error
	DeleteUserTx(ctx context.Context, tx bun.IDB, user *User) error
}

type identityManager struct {
	repo   RepositoryManager
	logger Logger
}

// NewIdentityManager creates the bun-backed IdentityManager.
func NewIdentityManager(repo RepositoryManager) IdentityManager {
	return &identityManager{
		repo:   repo,
		logger: defLogger{},
	}
}

func (m *identityManager) WithLogger(logger Logger) *identityManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

func (m *identityManager) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := m.repo.Users().GetByIdentifier(ctx, NormalizeEmail(email))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by email")
	}
	return user, nil
}

func (m *identityManager) FindByName(ctx context.Context, name string) (*User, error) {
	user, err := m.repo.Users().GetByIdentifier(ctx, name)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by name")
	}
	return user, nil
}

func (m *identityManager) FindByID(ctx context.Context, id string) (*User, error) {
	user, err := m.repo.Users().GetByIdentifier(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by id")
	}
	return user, nil
}

func (m *identityManager) FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error) {
	user, err := m.repo.Users().GetByIdentifierTx(ctx, tx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by id")
	}
	return user, nil
}

func (m *identityManager) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := m.repo.Users().ListWithRoles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}
	return users, nil
}

// VerifyPassword reports whether plaintext matches the stored hash. It never
// reveals why verification failed.
func (m *identityManager) VerifyPassword(ctx context.Context, user *User, plaintext string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return ComparePasswordAndHash(plaintext, user.PasswordHash) == nil
}

func (m *identityManager) CreateUser(ctx context.Context, user *User, plaintext string) (*User, error) {
	var created *User
	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		created, err = m.CreateUserTx(ctx, tx, user, plaintext)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (m *identityManager) CreateUserTx(ctx context.Context, tx bun.IDB, user *User, plaintext string) (*User, error) {
	if user == nil {
		return nil, errors.New("user is required", errors.CategoryBadInput)
	}

	if _, err := m.repo.Users().GetByIdentifierTx(ctx, tx, user.Username); err == nil {
		return nil, ErrUsernameInUse
	} else if !repository.IsRecordNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check username uniqueness")
	}

	user.Email = NormalizeEmail(user.Email)
	if _, err := m.repo.Users().GetByIdentifierTx(ctx, tx, user.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !repository.IsRecordNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
	}

	hash, err := HashPassword(plaintext)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid password provided")
	}
	user.PasswordHash = hash

	created, err := m.repo.Users().CreateTx(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return created, nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
// from the driver. Matches the sqlite and postgres wordings.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key")
}

func (m *identityManager) SetUserName(ctx context.Context, user *User, newName string) (*User, error) {
	var updated *User
	err := m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		updated, err = m.SetUserNameTx(ctx, tx, user, newName)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (m *identityManager) SetUserNameTx(ctx context.Context, tx bun.IDB, user *User, newName string) (*User, error) {
	existing, err := m.repo.Users().GetByIdentifierTx(ctx, tx, newName)
	if err == nil && existing.ID != user.ID {
		return nil, ErrUsernameInUse
	}
	if err != nil && !repository.IsRecordNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check username uniqueness")
	}

	user.Username = newName
	updated, err := m.repo.Users().UpdateTx(ctx, tx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update username")
	}
	return updated, nil
}

func (m *identityManager) GetRoles(ctx context.Context, user *User) ([]string, error) {
	if user == nil {
		return nil, ErrUserNotFound
	}
	return append([]string(nil), user.Roles...), nil
}

func (m *identityManager) AddToRole(ctx context.Context, user *User, role string) error {
	return m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return m.AddToRoleTx(ctx, tx, user, role)
	})
}

func (m *identityManager) AddToRoleTx(ctx context.Context, tx bun.IDB, user *User, role string) error {
	if user == nil {
		return ErrUserNotFound
	}
	if user.HasRole(role) {
		return nil
	}

	user.AddRole(role)
	if _, err := m.repo.Users().UpdateTx(ctx, tx, user); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to assign role")
	}
	return nil
}

func (m *identityManager) RemoveFromRole(ctx context.Context, user *User, role string) error {
	return m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return m.RemoveFromRoleTx(ctx, tx, user, role)
	})
}

func (m *identityManager) RemoveFromRoleTx(ctx context.Context, tx bun.IDB, user *User, role string) error {
	if user == nil {
		return ErrUserNotFound
	}
	if !user.HasRole(role) {
		return nil
	}

	user.RemoveRole(role)
	if _, err := m.repo.Users().UpdateTx(ctx, tx, user); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove role")
	}
	return nil
}

func (m *identityManager) DeleteUser(ctx context.Context, user *User) error {
	return m.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return m.DeleteUserTx(ctx, tx, user)
	})
}

func (m *identityManager) DeleteUserTx(ctx context.Context, tx bun.IDB, user *User) error {
	if user == nil {
		return ErrUserNotFound
	}
	if err := m.repo.Users().RemoveTx(ctx, tx, user); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}
	return nil
}
