package mysql

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/internal/domain/order"
	"github.com/xiebiao/catalog/internal/domain/user"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

type productFixture struct {
	db         *gorm.DB
	repo       catalog.ProductRepository
	categories []*catalog.Category // Livros, Eletrônicos, Computadores
	products   []*catalog.Product
}

// newProductFixture seeds 25 products named "Product 01".."Product 25",
// except #3 "Macbook Pro" and #11 "Macbook Air".
// Every product is in Computadores; even-numbered ones also in Eletrônicos.
func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	db := newTestDB(t)
	f := &productFixture{
		db:         db,
		repo:       NewProductRepository(db),
		categories: seedCategories(t, db, "Livros", "Eletrônicos", "Computadores"),
	}

	date := time.Date(2020, 7, 14, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		name := fmt.Sprintf("Product %02d", i)
		switch i {
		case 3:
			name = "Macbook Pro"
		case 11:
			name = "Macbook Air"
		}
		cats := []catalog.Category{*f.categories[2]}
		if i%2 == 0 {
			cats = append(cats, *f.categories[1])
		}
		p := catalog.NewProduct(name, "Lorem ipsum", float64(i)*100, "https://img/"+name, date, cats)
		require.NoError(t, f.repo.Create(context.Background(), p))
		f.products = append(f.products, p)
	}
	return f
}

func (f *productFixture) search(t *testing.T, filter catalog.ProductFilter, req pagination.PageRequest) *pagination.Page[*catalog.Product] {
	t.Helper()
	page, err := pagination.Search(context.Background(), f.repo.Search(filter), req,
		func(p *catalog.Product) *catalog.Product { return p })
	require.NoError(t, err)
	return page
}

func names(products []*catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestProductSearchFirstPage(t *testing.T) {
	f := newProductFixture(t)

	page := f.search(t, catalog.ProductFilter{}, pagination.Of(0, 10, ""))

	assert.Len(t, page.Content, 10)
	assert.EqualValues(t, 25, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
	// sorted by name: the two Macbooks come first
	assert.Equal(t, []string{"Macbook Air", "Macbook Pro", "Product 01"}, names(page.Content[:3]))
}

func TestProductSearchByName(t *testing.T) {
	f := newProductFixture(t)

	page := f.search(t, catalog.ProductFilter{Name: "macbook"}, pagination.Of(0, 10, ""))

	assert.EqualValues(t, 2, page.TotalElements)
	assert.Equal(t, []string{"Macbook Air", "Macbook Pro"}, names(page.Content))
}

func TestProductSearchOutOfRange(t *testing.T) {
	f := newProductFixture(t)

	page := f.search(t, catalog.ProductFilter{}, pagination.Of(50, 10, ""))

	assert.Empty(t, page.Content)
	assert.EqualValues(t, 25, page.TotalElements)
	assert.True(t, page.Empty)
}

func TestProductSearchHugePageIndex(t *testing.T) {
	f := newProductFixture(t)

	// 92233720368547759*100 overflows int
	page := f.search(t, catalog.ProductFilter{}, pagination.Of(92233720368547759, 100, ""))

	assert.Empty(t, page.Content)
	assert.EqualValues(t, 25, page.TotalElements)
	assert.Equal(t, 92233720368547759, page.PageNumber)
}

func TestProductSearchByCategoriesIsDistinct(t *testing.T) {
	f := newProductFixture(t)
	ids := []uint{f.categories[1].ID, f.categories[2].ID}

	// even products match both categories but must appear once
	page := f.search(t, catalog.ProductFilter{CategoryIDs: ids}, pagination.Of(0, 100, "id"))

	assert.EqualValues(t, 25, page.TotalElements)
	require.Len(t, page.Content, 25)
	seen := map[uint]bool{}
	for _, p := range page.Content {
		assert.False(t, seen[p.ID], "duplicate product %d", p.ID)
		seen[p.ID] = true
	}

	page = f.search(t, catalog.ProductFilter{CategoryIDs: []uint{f.categories[1].ID}}, pagination.Of(0, 5, "id"))
	assert.EqualValues(t, 12, page.TotalElements)
	assert.Len(t, page.Content, 5)

	page = f.search(t, catalog.ProductFilter{CategoryIDs: []uint{f.categories[0].ID}}, pagination.Of(0, 5, ""))
	assert.EqualValues(t, 0, page.TotalElements)
	assert.Empty(t, page.Content)
}

func TestProductSearchHydratesFullCategorySet(t *testing.T) {
	f := newProductFixture(t)

	// filtering on one category still returns both categories of each product
	page := f.search(t, catalog.ProductFilter{CategoryIDs: []uint{f.categories[1].ID}}, pagination.Of(0, 20, "id"))

	require.NotEmpty(t, page.Content)
	for _, p := range page.Content {
		assert.ElementsMatch(t, []uint{f.categories[1].ID, f.categories[2].ID}, p.CategoryIDs(), p.Name)
	}
}

func TestProductSearchPagesConcatenate(t *testing.T) {
	f := newProductFixture(t)

	all := f.search(t, catalog.ProductFilter{}, pagination.Of(0, 25, "price"))
	p0 := f.search(t, catalog.ProductFilter{}, pagination.Of(0, 10, "price"))
	p1 := f.search(t, catalog.ProductFilter{}, pagination.Of(1, 10, "price"))
	p2 := f.search(t, catalog.ProductFilter{}, pagination.Of(2, 10, "price"))

	joined := append(append(names(p0.Content), names(p1.Content)...), names(p2.Content)...)
	assert.Equal(t, names(all.Content), joined)
	assert.Len(t, p2.Content, 5)
	assert.True(t, p2.Last)

	again := f.search(t, catalog.ProductFilter{}, pagination.Of(1, 10, "price"))
	assert.Equal(t, names(p1.Content), names(again.Content))
}

func TestProductSearchIsRepeatable(t *testing.T) {
	f := newProductFixture(t)
	filter := catalog.ProductFilter{Name: "product", CategoryIDs: []uint{f.categories[1].ID}}
	req := pagination.Of(1, 4, "name")

	first := f.search(t, filter, req)
	second := f.search(t, filter, req)

	require.NotEmpty(t, first.Content)
	assert.Equal(t, first.TotalElements, second.TotalElements)
	assert.Equal(t, first.TotalPages, second.TotalPages)
	require.Len(t, second.Content, len(first.Content))
	for i := range first.Content {
		assert.Equal(t, first.Content[i].ID, second.Content[i].ID)
		assert.Equal(t, first.Content[i].CategoryIDs(), second.Content[i].CategoryIDs())
	}
}

func TestProductSearchNameWildcardsAreLiteral(t *testing.T) {
	f := newProductFixture(t)
	date := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	special := catalog.NewProduct("100% Cotton_Shirt", "Lorem ipsum", 50, "https://img/shirt", date,
		[]catalog.Category{*f.categories[0]})
	require.NoError(t, f.repo.Create(context.Background(), special))

	for _, fragment := range []string{"_", "%", "0%", "n_s"} {
		page := f.search(t, catalog.ProductFilter{Name: fragment}, pagination.Of(0, 50, ""))
		assert.Equal(t, []string{"100% Cotton_Shirt"}, names(page.Content), fragment)
		assert.EqualValues(t, 1, page.TotalElements, fragment)
	}

	page := f.search(t, catalog.ProductFilter{Name: "!"}, pagination.Of(0, 50, ""))
	assert.Empty(t, page.Content)
}

func TestProductSearchDescending(t *testing.T) {
	f := newProductFixture(t)

	page := f.search(t, catalog.ProductFilter{}, pagination.PageRequest{Page: 0, Size: 3, Sort: "price", Desc: true})

	require.Len(t, page.Content, 3)
	assert.Equal(t, 2500.0, page.Content[0].Price)
	assert.Equal(t, 2300.0, page.Content[2].Price)
}

func TestProductFindByID(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	p, err := f.repo.FindByID(ctx, f.products[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Product 02", p.Name)
	assert.Len(t, p.Categories, 2)

	_, err = f.repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	n, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 25, n)
}

func TestProductUpdateReplacesCategories(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	p, err := f.repo.FindByID(ctx, f.products[1].ID)
	require.NoError(t, err)
	p.Name = "Updated"
	p.Price = 1.5
	p.ReplaceCategories([]catalog.Category{*f.categories[0]})
	require.NoError(t, f.repo.Update(ctx, p))

	got, err := f.repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Name)
	assert.Equal(t, 1.5, got.Price)
	assert.Equal(t, []uint{f.categories[0].ID}, got.CategoryIDs())
}

func TestProductDeleteMissing(t *testing.T) {
	f := newProductFixture(t)

	err := f.repo.DeleteByID(context.Background(), 1000)

	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "Id not found 1000")
	n, _ := f.repo.Count(context.Background())
	assert.EqualValues(t, 25, n)
}

func TestProductDeleteReferencedByOrder(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	target := f.products[0]

	client := seedUser(t, f.db, "alex@gmail.com", user.AuthorityClient)
	o := order.NewOrder(client.ID, []order.Item{{ProductID: target.ID, Quantity: 1, Price: target.Price}})
	require.NoError(t, NewOrderRepository(f.db).Create(ctx, o))

	err := f.repo.DeleteByID(ctx, target.ID)

	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	assert.Equal(t, 409, apperrors.GetAppError(err).HTTPStatus())

	still, err := f.repo.FindByID(ctx, target.ID)
	require.NoError(t, err, "row must stay persisted")
	assert.Len(t, still.Categories, 1, "category links restored")
}

func TestProductDelete(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repo.DeleteByID(ctx, f.products[0].ID))

	ok, err := f.repo.ExistsByID(ctx, f.products[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var links int64
	require.NoError(t, f.db.Model(&ProductCategoryModel{}).Where("product_id = ?", f.products[0].ID).Count(&links).Error)
	assert.Zero(t, links)
}
