package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

type productRepository struct {
	repository
}

// NewProductRepository creates the product repository.
func NewProductRepository(db *gorm.DB) catalog.ProductRepository {
	return &productRepository{repository{db: db}}
}

var productSorts = sortColumns{
	def: "name",
	cols: map[string]string{
		"name":  "products.name",
		"id":    "products.id",
		"price": "products.price",
	},
}

// Search builds the product catalog query.
//
// Step 1 (ids and count):
//
//	SELECT DISTINCT products.id, products.name FROM products
//	INNER JOIN product_categories pc ON pc.product_id = products.id  -- only with category ids
//	WHERE pc.category_id IN (?) AND LOWER(products.name) LIKE '%macbook%' ESCAPE '!'
//	ORDER BY products.name ASC, products.id ASC LIMIT ? OFFSET ?
//
// Step 2 (hydrate): products WHERE id IN (?) plus one preload query for the
// categories of all of them.
func (r *productRepository) Search(filter catalog.ProductFilter) pagination.Query[uint, *catalog.Product] {
	return &pagedQuery[ProductModel, *catalog.Product]{
		name:  "product_search",
		table: "products",
		db:    r.getDB,
		filter: func(db *gorm.DB) *gorm.DB {
			if len(filter.CategoryIDs) > 0 {
				db = db.Joins("INNER JOIN product_categories pc ON pc.product_id = products.id").
					Where("pc.category_id IN ?", filter.CategoryIDs)
			}
			if filter.Name != "" {
				db = db.Where("LOWER(products.name) LIKE ? ESCAPE '"+likeEscape+"'", likePattern(filter.Name))
			}
			return db
		},
		sorts:    productSorts,
		eager:    preloadCategories,
		toEntity: toProductEntity,
		idOf:     func(p *catalog.Product) uint { return p.ID },
	}
}

func preloadCategories(db *gorm.DB) *gorm.DB {
	return db.Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("categories.name").Order("categories.id")
	})
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*catalog.Product, error) {
	var model ProductModel
	if err := preloadCategories(r.getDB(ctx)).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "Find product failed")
	}
	return toProductEntity(&model), nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uint) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []ProductModel
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "Find products failed")
	}
	out := make([]*catalog.Product, len(models))
	for i := range models {
		out[i] = toProductEntity(&models[i])
	}
	return out, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.getDB(ctx).Model(&ProductModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(err, "Count products failed")
	}
	return n, nil
}

func (r *productRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return exists(r.getDB(ctx), &ProductModel{}, id)
}

// Create inserts the product row, then one join row per category.
func (r *productRepository) Create(ctx context.Context, p *catalog.Product) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		model := toProductModel(p)
		if err := tx.Omit("Categories").Create(model).Error; err != nil {
			return apperrors.Wrap(err, "Create product failed")
		}
		p.ID = model.ID
		return linkCategories(tx, p.ID, p.CategoryIDs())
	})
}

// Update saves the scalar columns and replaces the join rows.
func (r *productRepository) Update(ctx context.Context, p *catalog.Product) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		model := toProductModel(p)
		err := tx.Model(&ProductModel{ID: p.ID}).
			Select("name", "description", "price", "img_url", "date").
			Updates(model).Error
		if err != nil {
			return apperrors.Wrap(err, "Update product failed")
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&ProductCategoryModel{}).Error; err != nil {
			return apperrors.Wrap(err, "Clear product categories failed")
		}
		return linkCategories(tx, p.ID, p.CategoryIDs())
	})
}

// DeleteByID clears the category links first. Both statements share a
// savepoint, so a conflict on the product row restores the links too.
func (r *productRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&ProductCategoryModel{}).Error; err != nil {
			return apperrors.Wrap(err, "Clear product categories failed")
		}
		return deleteByID(tx, &ProductModel{}, id, catalog.ProductIDNotFound)
	})
}

func linkCategories(tx *gorm.DB, productID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]ProductCategoryModel, 0, len(categoryIDs))
	seen := make(map[uint]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, ProductCategoryModel{ProductID: productID, CategoryID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		if isForeignKeyError(err) {
			return apperrors.Conflict(err)
		}
		return apperrors.Wrap(err, "Link product categories failed")
	}
	return nil
}

func toProductModel(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      p.ImgURL,
		Date:        p.Date,
	}
}

func toProductEntity(m *ProductModel) *catalog.Product {
	p := &catalog.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		ImgURL:      m.ImgURL,
		Date:        m.Date,
		Categories:  make([]catalog.Category, len(m.Categories)),
	}
	for i := range m.Categories {
		p.Categories[i] = *toCategoryEntity(&m.Categories[i])
	}
	return p
}
