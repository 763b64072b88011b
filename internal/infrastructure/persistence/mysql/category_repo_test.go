package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

func TestCategoryList(t *testing.T) {
	db := newTestDB(t)
	seedCategories(t, db, "Livros", "Computadores", "Eletrônicos")
	repo := NewCategoryRepository(db)

	page, err := pagination.Search(context.Background(), repo.List(), pagination.Of(0, 2, ""),
		func(c *catalog.Category) string { return c.Name })
	require.NoError(t, err)

	assert.Equal(t, []string{"Computadores", "Eletrônicos"}, page.Content)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
}

func TestCategoryCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	c := catalog.NewCategory("Livros")
	require.NoError(t, repo.Create(ctx, c))
	require.NotZero(t, c.ID)

	c.Rename("Books")
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", got.Name)

	found, err := repo.FindByIDs(ctx, []uint{c.ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.DeleteByID(ctx, c.ID))
	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
}

func TestCategoryDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)

	err := repo.DeleteByID(context.Background(), 42)

	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	assert.Equal(t, "Id not found 42", apperrors.GetAppError(err).Message)
}

func TestCategoryDeleteInUse(t *testing.T) {
	db := newTestDB(t)
	cats := seedCategories(t, db, "Livros")
	ctx := context.Background()
	p := catalog.NewProduct("The Lord of the Rings", "", 90.5, "", time.Now(), []catalog.Category{*cats[0]})
	require.NoError(t, NewProductRepository(db).Create(ctx, p))

	repo := NewCategoryRepository(db)
	err := repo.DeleteByID(ctx, cats[0].ID)

	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	ok, err := repo.ExistsByID(ctx, cats[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
