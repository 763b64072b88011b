// Package user holds the user management use cases.
package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/catalog/internal/application/tx"
	"github.com/xiebiao/catalog/internal/domain/user"
	"github.com/xiebiao/catalog/pkg/authz"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/pagination"
)

type RoleDTO struct {
	ID        uint   `json:"id"`
	Authority string `json:"authority"`
}

// UserDTO never carries the password.
type UserDTO struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Roles     []RoleDTO `json:"roles"`
}

// InsertRequest creates a user with explicit roles.
type InsertRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	RoleIDs   []uint
}

// UpdateRequest replaces the profile and the role set. The password is kept.
type UpdateRequest struct {
	FirstName string
	LastName  string
	Email     string
	RoleIDs   []uint
}

// SignupRequest registers a client account.
type SignupRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func toUserDTO(u *user.User) UserDTO {
	roles := make([]RoleDTO, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = RoleDTO{ID: r.ID, Authority: r.Authority}
	}
	return UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Roles:     roles,
	}
}

// Service manages users. Everything except Me and Signup requires ROLE_ADMIN.
type Service struct {
	users       user.Repository
	roles       user.RoleRepository
	userService user.Service
	authz       *authz.Authorizer
	tx          tx.Manager
}

func NewService(
	users user.Repository,
	roles user.RoleRepository,
	userService user.Service,
	authorizer *authz.Authorizer,
	txManager tx.Manager,
) *Service {
	return &Service{
		users:       users,
		roles:       roles,
		userService: userService,
		authz:       authorizer,
		tx:          txManager,
	}
}

func (s *Service) FindAllPaged(ctx context.Context, p *authz.Principal, req pagination.PageRequest) (*pagination.Page[UserDTO], error) {
	if err := s.authz.Check(p, authz.ResourceUser, authz.ActionManage); err != nil {
		return nil, err
	}

	var page *pagination.Page[UserDTO]
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		page, err = pagination.Search(ctx, s.users.List(), req, toUserDTO)
		return err
	})
	return page, err
}

func (s *Service) FindByID(ctx context.Context, p *authz.Principal, id uint) (*UserDTO, error) {
	if err := s.authz.Check(p, authz.ResourceUser, authz.ActionManage); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context, p *authz.Principal) (*UserDTO, error) {
	if err := s.authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *Service) Insert(ctx context.Context, p *authz.Principal, req InsertRequest) (dto *UserDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceUser, authz.ActionManage); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("user", "insert", err) }()

	var u *user.User
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		roles, err := s.roles.FindByIDs(ctx, req.RoleIDs)
		if err != nil {
			return err
		}
		u, err = s.create(ctx, req.FirstName, req.LastName, req.Email, req.Password, roles)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := toUserDTO(u)
	return &out, nil
}

// Signup registers a public account with ROLE_CLIENT.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (dto *UserDTO, err error) {
	defer func() { metrics.RecordMutation("user", "signup", err) }()

	var u *user.User
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		role, err := s.roles.FindByAuthority(ctx, user.AuthorityClient)
		if err != nil {
			return err
		}
		u, err = s.create(ctx, req.FirstName, req.LastName, req.Email, req.Password, []user.Role{*role})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user signed up", zap.Uint("id", u.ID))
	out := toUserDTO(u)
	return &out, nil
}

func (s *Service) create(ctx context.Context, firstName, lastName, email, password string, roles []user.Role) (*user.User, error) {
	if err := s.userService.EnsureEmailAvailable(ctx, email, 0); err != nil {
		return nil, err
	}
	hashed, err := s.userService.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := user.NewUser(firstName, lastName, email, hashed, roles)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, p *authz.Principal, id uint, req UpdateRequest) (dto *UserDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceUser, authz.ActionManage); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("user", "update", err) }()

	var u *user.User
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return user.UserIDNotFound(id)
			}
			return err
		}
		if err := s.userService.EnsureEmailAvailable(ctx, req.Email, id); err != nil {
			return err
		}
		roles, err := s.roles.FindByIDs(ctx, req.RoleIDs)
		if err != nil {
			return err
		}
		u.UpdateProfile(req.FirstName, req.LastName, req.Email, roles)
		return s.users.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	out := toUserDTO(u)
	return &out, nil
}

// Delete removes a user. A user who placed orders or wrote reviews yields a
// conflict and stays persisted.
func (s *Service) Delete(ctx context.Context, p *authz.Principal, id uint) (err error) {
	if err := s.authz.Check(p, authz.ResourceUser, authz.ActionManage); err != nil {
		return err
	}
	defer func() { metrics.RecordMutation("user", "delete", err) }()

	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.users.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return user.UserIDNotFound(id)
		}
		return s.users.DeleteByID(ctx, id)
	})
}
