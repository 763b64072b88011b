package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/catalog/internal/application/tx"
	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/pkg/authz"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/pagination"
)

// ProductService manages products. Mutations require ROLE_OPERATOR, which
// ROLE_ADMIN inherits.
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	authz      *authz.Authorizer
	tx         tx.Manager
}

// NewProductService creates the product service.
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	authorizer *authz.Authorizer,
	txManager tx.Manager,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		authz:      authorizer,
		tx:         txManager,
	}
}

// Search pages products matching name (case-insensitive substring) and any
// of categoryIDs. Empty values match every product. Each product carries
// all of its categories, not just the matching ones.
func (s *ProductService) Search(ctx context.Context, name string, categoryIDs []uint, req pagination.PageRequest) (*pagination.Page[ProductDTO], error) {
	filter := catalog.ProductFilter{Name: name, CategoryIDs: categoryIDs}

	var page *pagination.Page[ProductDTO]
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		page, err = pagination.Search(ctx, s.products.Search(filter), req, toProductDTO)
		return err
	})
	return page, err
}

func (s *ProductService) FindByID(ctx context.Context, id uint) (*ProductDTO, error) {
	logger.FromContext(ctx).Debug("finding product", zap.Uint("id", id))
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toProductDTO(p)
	return &dto, nil
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}

func (s *ProductService) Insert(ctx context.Context, p *authz.Principal, req ProductRequest) (dto *ProductDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceProduct, authz.ActionWrite); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("product", "insert", err) }()

	var product *catalog.Product
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		cats, err := s.resolveCategories(ctx, req.CategoryIDs)
		if err != nil {
			return err
		}
		product = catalog.NewProduct(req.Name, req.Description, req.Price, req.ImgURL, req.Date, cats)
		return s.products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("product created",
		zap.Uint("id", product.ID),
		zap.Uint("by", p.UserID))
	out := toProductDTO(product)
	return &out, nil
}

// Update overwrites the product and replaces its category set.
func (s *ProductService) Update(ctx context.Context, p *authz.Principal, id uint, req ProductRequest) (dto *ProductDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceProduct, authz.ActionWrite); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("product", "update", err) }()

	var product *catalog.Product
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return catalog.ProductIDNotFound(id)
			}
			return err
		}

		cats, err := s.resolveCategories(ctx, req.CategoryIDs)
		if err != nil {
			return err
		}

		product.Name = req.Name
		product.Description = req.Description
		product.Price = req.Price
		product.ImgURL = req.ImgURL
		product.Date = req.Date
		product.ReplaceCategories(cats)
		return s.products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	out := toProductDTO(product)
	return &out, nil
}

// Delete removes a product and its category links. A product referenced by
// an order yields a conflict and stays persisted with its links.
func (s *ProductService) Delete(ctx context.Context, p *authz.Principal, id uint) (err error) {
	if err := s.authz.Check(p, authz.ResourceProduct, authz.ActionWrite); err != nil {
		return err
	}
	defer func() { metrics.RecordMutation("product", "delete", err) }()

	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.products.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return catalog.ProductIDNotFound(id)
		}
		return s.products.DeleteByID(ctx, id)
	})
}

// resolveCategories loads ids in request order, failing on the first unknown id.
func (s *ProductService) resolveCategories(ctx context.Context, ids []uint) ([]catalog.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*catalog.Category, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	out := make([]catalog.Category, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, catalog.CategoryIDNotFound(id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, *c)
	}
	return out, nil
}
