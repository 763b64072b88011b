package mysql

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/internal/domain/user"
)

// newTestDB opens a private in-memory SQLite database with foreign keys on.
// A single connection keeps the in-memory database alive for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := Open(sqlite.Open(dsn), "test", time.Second)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, SeedRoles(context.Background(), db))
	return db
}

func seedCategories(t *testing.T, db *gorm.DB, names ...string) []*catalog.Category {
	t.Helper()
	repo := NewCategoryRepository(db)
	out := make([]*catalog.Category, len(names))
	for i, name := range names {
		c := catalog.NewCategory(name)
		require.NoError(t, repo.Create(context.Background(), c))
		out[i] = c
	}
	return out
}

func seedUser(t *testing.T, db *gorm.DB, email string, authorities ...string) *user.User {
	t.Helper()
	ctx := context.Background()
	roleRepo := NewRoleRepository(db)

	roles := make([]user.Role, 0, len(authorities))
	for _, a := range authorities {
		role, err := roleRepo.FindByAuthority(ctx, a)
		require.NoError(t, err)
		roles = append(roles, *role)
	}
	u := user.NewUser("Test", "User", email, "$2a$10$hash", roles)
	require.NoError(t, NewUserRepository(db).Create(ctx, u))
	return u
}

func TestSeedRolesIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedRoles(context.Background(), db))

	var n int64
	require.NoError(t, db.Model(&RoleModel{}).Count(&n).Error)
	assert.EqualValues(t, 5, n)
}

func TestTxManager(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	t.Run("rollback on error", func(t *testing.T) {
		err := tm.Transaction(ctx, func(ctx context.Context) error {
			require.NoError(t, repo.Create(ctx, catalog.NewCategory("Rolled back")))
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("commit", func(t *testing.T) {
		err := tm.Transaction(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, catalog.NewCategory("Books"))
		})
		require.NoError(t, err)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = tm.Transaction(ctx, func(ctx context.Context) error {
				_ = repo.Create(ctx, catalog.NewCategory("Panicked"))
				panic("boom")
			})
		})

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("nested joins outer", func(t *testing.T) {
		err := tm.Transaction(ctx, func(ctx context.Context) error {
			inner := tm.Transaction(ctx, func(ctx context.Context) error {
				return repo.Create(ctx, catalog.NewCategory("Inner"))
			})
			require.NoError(t, inner)
			return assert.AnError
		})
		assert.Error(t, err)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
