package user

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/catalog/internal/application/tx"
	"github.com/xiebiao/catalog/internal/domain/user"
	"github.com/xiebiao/catalog/pkg/authz"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

var seededRoles = []user.Role{
	{ID: 1, Authority: user.AuthorityAdmin},
	{ID: 2, Authority: user.AuthorityOperator},
	{ID: 3, Authority: user.AuthorityClient},
}

type fakeUsers struct {
	rows    map[uint]*user.User
	nextID  uint
	deleted []uint
}

func (f *fakeUsers) sorted() []*user.User {
	out := make([]*user.User, 0, len(f.rows))
	for _, u := range f.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeUsers) List() pagination.Query[uint, *user.User] { return userQuery{f.sorted()} }

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*user.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUsers) ExistsByID(_ context.Context, id uint) (bool, error) {
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeUsers) Create(_ context.Context, u *user.User) error {
	f.nextID++
	u.ID = f.nextID
	f.rows[u.ID] = u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *user.User) error {
	f.rows[u.ID] = u
	return nil
}

func (f *fakeUsers) DeleteByID(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	delete(f.rows, id)
	return nil
}

type userQuery struct{ rows []*user.User }

func (q userQuery) Name() string { return "user_test" }

func (q userQuery) PageIDs(_ context.Context, req pagination.PageRequest) ([]uint, error) {
	var ids []uint
	for i := req.Offset(); i < len(q.rows) && len(ids) < req.Size; i++ {
		ids = append(ids, q.rows[i].ID)
	}
	return ids, nil
}

func (q userQuery) Count(context.Context) (int64, error) { return int64(len(q.rows)), nil }

func (q userQuery) Hydrate(_ context.Context, ids []uint) ([]*user.User, error) {
	return q.rows, nil
}

func (q userQuery) IDOf(u *user.User) uint { return u.ID }

type fakeRoles struct{}

func (fakeRoles) FindByAuthority(_ context.Context, authority string) (*user.Role, error) {
	for _, r := range seededRoles {
		if r.Authority == authority {
			r := r
			return &r, nil
		}
	}
	return nil, user.ErrRoleNotFound
}

func (fakeRoles) FindByIDs(_ context.Context, ids []uint) ([]user.Role, error) {
	var out []user.Role
	for _, id := range ids {
		if id == 0 || int(id) > len(seededRoles) {
			return nil, user.ErrRoleNotFound
		}
		out = append(out, seededRoles[id-1])
	}
	return out, nil
}

var (
	admin  = &authz.Principal{UserID: 1, Roles: []string{authz.RoleAdmin}}
	client = &authz.Principal{UserID: 2, Roles: []string{authz.RoleClient}}
)

func newService(t *testing.T) (*Service, *fakeUsers) {
	t.Helper()
	a, err := authz.NewAuthorizer()
	require.NoError(t, err)
	users := &fakeUsers{rows: map[uint]*user.User{}}
	domain := user.NewServiceWithCost(users, bcrypt.MinCost)
	return NewService(users, fakeRoles{}, domain, a, tx.Passthrough{}), users
}

func TestInsert(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	req := InsertRequest{FirstName: "Maria", LastName: "Green", Email: "maria@gmail.com", Password: "123456", RoleIDs: []uint{1, 2}}

	_, err := svc.Insert(ctx, client, req)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	dto, err := svc.Insert(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, []RoleDTO{{1, user.AuthorityAdmin}, {2, user.AuthorityOperator}}, dto.Roles)
	assert.NotEqual(t, "123456", users.rows[dto.ID].Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.rows[dto.ID].Password), []byte("123456")))

	_, err = svc.Insert(ctx, admin, req)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "email", appErr.Fields[0].FieldName)

	req.Email = "other@gmail.com"
	req.RoleIDs = []uint{9}
	_, err = svc.Insert(ctx, admin, req)
	assert.ErrorIs(t, err, user.ErrRoleNotFound)
}

func TestSignupGrantsClientRole(t *testing.T) {
	svc, _ := newService(t)

	dto, err := svc.Signup(context.Background(), SignupRequest{FirstName: "Bob", Email: "bob@gmail.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, []RoleDTO{{3, user.AuthorityClient}}, dto.Roles)
}

func TestUpdate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	maria, err := svc.Insert(ctx, admin, InsertRequest{FirstName: "Maria", Email: "maria@gmail.com", Password: "x", RoleIDs: []uint{3}})
	require.NoError(t, err)
	_, err = svc.Insert(ctx, admin, InsertRequest{FirstName: "Alex", Email: "alex@gmail.com", Password: "x", RoleIDs: []uint{3}})
	require.NoError(t, err)

	// Keeping one's own email is allowed.
	updated, err := svc.Update(ctx, admin, maria.ID, UpdateRequest{FirstName: "Maria", LastName: "Brown", Email: "maria@gmail.com", RoleIDs: []uint{2}})
	require.NoError(t, err)
	assert.Equal(t, "Brown", updated.LastName)
	assert.Equal(t, []RoleDTO{{2, user.AuthorityOperator}}, updated.Roles)

	_, err = svc.Update(ctx, admin, maria.ID, UpdateRequest{FirstName: "Maria", Email: "alex@gmail.com"})
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetAppError(err).Code)

	_, err = svc.Update(ctx, admin, 99, UpdateRequest{Email: "z@gmail.com"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Equal(t, "Id not found 99", apperrors.GetAppError(err).Message)
}

func TestDeleteAndMe(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	dto, err := svc.Insert(ctx, admin, InsertRequest{FirstName: "Maria", Email: "maria@gmail.com", Password: "x"})
	require.NoError(t, err)

	me, err := svc.Me(ctx, &authz.Principal{UserID: dto.ID, Roles: []string{authz.RoleClient}})
	require.NoError(t, err)
	assert.Equal(t, "maria@gmail.com", me.Email)

	_, err = svc.Me(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	err = svc.Delete(ctx, admin, 42)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Empty(t, users.deleted)

	require.NoError(t, svc.Delete(ctx, admin, dto.ID))
	assert.Empty(t, users.rows)

	page, err := svc.FindAllPaged(ctx, admin, pagination.Of(0, 10, ""))
	require.NoError(t, err)
	assert.True(t, page.Empty)
}
