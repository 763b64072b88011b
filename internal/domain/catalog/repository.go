package catalog

import (
	"context"

	"github.com/xiebiao/catalog/pkg/pagination"
)

// ProductFilter narrows a product search.
// An empty Name and an empty CategoryIDs both match every product.
type ProductFilter struct {
	Name        string
	CategoryIDs []uint
}

// ProductRepository is implemented by the mysql package.
type ProductRepository interface {
	// Search binds filter to a two-step paged query.
	// Sort fields: name (default), id, price.
	Search(filter ProductFilter) pagination.Query[uint, *Product]

	// FindByID loads the product with its categories, ErrProductNotFound if missing.
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindByIDs loads products without categories, in no particular order.
	FindByIDs(ctx context.Context, ids []uint) ([]*Product, error)

	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// Create inserts the product and its category links.
	Create(ctx context.Context, product *Product) error

	// Update saves the scalar fields and replaces the category links.
	Update(ctx context.Context, product *Product) error

	// DeleteByID removes the category links and the product.
	// A row still referenced elsewhere yields a conflict and stays persisted.
	DeleteByID(ctx context.Context, id uint) error
}

// CategoryRepository is implemented by the mysql package.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]*Category, error)

	// List binds a paged list of all categories. Sort fields: name (default), id.
	List() pagination.Query[uint, *Category]

	FindByID(ctx context.Context, id uint) (*Category, error)

	// FindByIDs returns the categories found; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []uint) ([]*Category, error)

	ExistsByID(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	DeleteByID(ctx context.Context, id uint) error
}
