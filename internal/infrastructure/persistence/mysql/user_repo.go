package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/user"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

// userRepository stores users and their user_roles links.
// Notes:
//  1. Roles are always preloaded, a user without them cannot be authorized
//  2. A duplicate email that slips past the service check still surfaces as
//     user.ErrEmailTaken through the UNIQUE index
type userRepository struct {
	repository
}

// NewUserRepository creates the user repository.
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{repository{db: db}}
}

var userSorts = sortColumns{
	def: "id",
	cols: map[string]string{
		"id":        "users.id",
		"email":     "users.email",
		"firstName": "users.first_name",
	},
}

func preloadRoles(db *gorm.DB) *gorm.DB {
	return db.Preload("Roles", func(db *gorm.DB) *gorm.DB {
		return db.Order("roles.id")
	})
}

func (r *userRepository) List() pagination.Query[uint, *user.User] {
	return &pagedQuery[UserModel, *user.User]{
		name:     "user_list",
		table:    "users",
		db:       r.getDB,
		sorts:    userSorts,
		eager:    preloadRoles,
		toEntity: toUserEntity,
		idOf:     func(u *user.User) uint { return u.ID },
	}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.findOne(preloadRoles(r.getDB(ctx)).Where("users.id = ?", id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(preloadRoles(r.getDB(ctx)).Where("users.email = ?", email))
}

func (r *userRepository) findOne(db *gorm.DB) (*user.User, error) {
	var model UserModel
	if err := db.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "Find user failed")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return exists(r.getDB(ctx), &UserModel{}, id)
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		model := toUserModel(u)
		if err := tx.Omit("Roles").Create(model).Error; err != nil {
			if isDuplicateError(err) {
				return user.ErrEmailTaken
			}
			return apperrors.Wrap(err, "Create user failed")
		}
		u.ID = model.ID
		u.CreatedAt = model.CreatedAt
		u.UpdatedAt = model.UpdatedAt
		return linkRoles(tx, u.ID, u.Roles)
	})
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&UserModel{ID: u.ID}).
			Select("first_name", "last_name", "email", "password", "updated_at").
			Updates(toUserModel(u)).Error
		if err != nil {
			if isDuplicateError(err) {
				return user.ErrEmailTaken
			}
			return apperrors.Wrap(err, "Update user failed")
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&UserRoleModel{}).Error; err != nil {
			return apperrors.Wrap(err, "Clear user roles failed")
		}
		return linkRoles(tx, u.ID, u.Roles)
	})
}

// DeleteByID refuses users that still own orders or reviews.
func (r *userRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&UserRoleModel{}).Error; err != nil {
			return apperrors.Wrap(err, "Clear user roles failed")
		}
		return deleteByID(tx, &UserModel{}, id, user.UserIDNotFound)
	})
}

func linkRoles(tx *gorm.DB, userID uint, roles []user.Role) error {
	if len(roles) == 0 {
		return nil
	}
	links := make([]UserRoleModel, 0, len(roles))
	seen := make(map[uint]bool, len(roles))
	for _, role := range roles {
		if seen[role.ID] {
			continue
		}
		seen[role.ID] = true
		links = append(links, UserRoleModel{UserID: userID, RoleID: role.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		if isForeignKeyError(err) {
			return user.ErrRoleNotFound
		}
		return apperrors.Wrap(err, "Link user roles failed")
	}
	return nil
}

type roleRepository struct {
	repository
}

// NewRoleRepository creates the role repository.
func NewRoleRepository(db *gorm.DB) user.RoleRepository {
	return &roleRepository{repository{db: db}}
}

func (r *roleRepository) FindByAuthority(ctx context.Context, authority string) (*user.Role, error) {
	var model RoleModel
	if err := r.getDB(ctx).Where("authority = ?", authority).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "Find role failed")
	}
	return &user.Role{ID: model.ID, Authority: model.Authority}, nil
}

func (r *roleRepository) FindByIDs(ctx context.Context, ids []uint) ([]user.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []RoleModel
	if err := r.getDB(ctx).Where("id IN ?", ids).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "Find roles failed")
	}
	unique := make(map[uint]bool, len(ids))
	for _, id := range ids {
		unique[id] = true
	}
	if len(models) != len(unique) {
		return nil, user.ErrRoleNotFound
	}
	out := make([]user.Role, len(models))
	for i, m := range models {
		out[i] = user.Role{ID: m.ID, Authority: m.Authority}
	}
	return out, nil
}

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserEntity(m *UserModel) *user.User {
	u := &user.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Password:  m.Password,
		Roles:     make([]user.Role, len(m.Roles)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for i, role := range m.Roles {
		u.Roles[i] = user.Role{ID: role.ID, Authority: role.Authority}
	}
	return u
}
