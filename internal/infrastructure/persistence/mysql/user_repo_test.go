package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/catalog/internal/domain/order"
	"github.com/xiebiao/catalog/internal/domain/user"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

func TestUserCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "maria@gmail.com", user.AuthorityAdmin, user.AuthorityOperator)

	byEmail, err := repo.FindByEmail(ctx, "maria@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.ElementsMatch(t, []string{user.AuthorityAdmin, user.AuthorityOperator}, byEmail.Authorities())

	_, err = repo.FindByEmail(ctx, "nobody@gmail.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	dup := user.NewUser("Other", "", "maria@gmail.com", "x", nil)
	assert.ErrorIs(t, repo.Create(ctx, dup), user.ErrEmailTaken)
}

func TestUserUpdateReplacesRoles(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "bob@gmail.com", user.AuthorityClient)

	admin, err := NewRoleRepository(db).FindByAuthority(ctx, user.AuthorityAdmin)
	require.NoError(t, err)
	u.UpdateProfile("Bob", "Brown", "bob.brown@gmail.com", []user.Role{*admin})
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob.brown@gmail.com", got.Email)
	assert.Equal(t, []string{user.AuthorityAdmin}, got.Authorities())
}

func TestUserList(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "a@gmail.com", user.AuthorityClient)
	seedUser(t, db, "b@gmail.com", user.AuthorityMember)
	seedUser(t, db, "c@gmail.com", user.AuthorityVisitor)

	page, err := pagination.Search(context.Background(), NewUserRepository(db).List(), pagination.Of(0, 2, "email"),
		func(u *user.User) *user.User { return u })
	require.NoError(t, err)

	assert.EqualValues(t, 3, page.TotalElements)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "a@gmail.com", page.Content[0].Email)
	assert.Equal(t, []string{user.AuthorityClient}, page.Content[0].Authorities())
}

func TestUserDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	free := seedUser(t, db, "free@gmail.com", user.AuthorityClient)
	buyer := seedUser(t, db, "buyer@gmail.com", user.AuthorityClient)
	require.NoError(t, NewOrderRepository(db).Create(ctx, order.NewOrder(buyer.ID, nil)))

	require.NoError(t, repo.DeleteByID(ctx, free.ID))
	_, err := repo.FindByID(ctx, free.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	err = repo.DeleteByID(ctx, buyer.ID)
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	still, err := repo.FindByID(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{user.AuthorityClient}, still.Authorities())

	err = repo.DeleteByID(ctx, 999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRoleFindByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoleRepository(db)
	ctx := context.Background()

	roles, err := repo.FindByIDs(ctx, []uint{1, 2, 2})
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	_, err = repo.FindByIDs(ctx, []uint{1, 99})
	assert.ErrorIs(t, err, user.ErrRoleNotFound)
}
