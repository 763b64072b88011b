package user

import (
	"context"

	"github.com/xiebiao/catalog/pkg/pagination"
)

// Repository is implemented by the mysql package.
// Users are always loaded with their roles.
type Repository interface {
	// List binds a paged list of users. Sort fields: id (default), email, firstName.
	List() pagination.Query[uint, *User]

	// FindByID returns ErrUserNotFound if missing.
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail returns ErrUserNotFound if missing.
	FindByEmail(ctx context.Context, email string) (*User, error)

	ExistsByID(ctx context.Context, id uint) (bool, error)

	// Create inserts the user and its role links.
	// A duplicate email yields ErrEmailTaken.
	Create(ctx context.Context, user *User) error

	// Update saves the profile and replaces the role links.
	Update(ctx context.Context, user *User) error

	// DeleteByID removes the role links and the user.
	DeleteByID(ctx context.Context, id uint) error
}

// RoleRepository reads the fixed role table.
type RoleRepository interface {
	FindByAuthority(ctx context.Context, authority string) (*Role, error)

	// FindByIDs returns ErrRoleNotFound unless every id exists.
	FindByIDs(ctx context.Context, ids []uint) ([]Role, error)
}
