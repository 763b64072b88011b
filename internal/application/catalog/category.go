// Package catalog holds the category and product use cases.
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

// CategoryService manages categories. Mutations require ROLE_ADMIN.
type CategoryService struct {
	categories catalog.CategoryRepository
	authz      *authz.Authorizer
	tx         tx.Manager
}

// NewCategoryService creates the category service.
func NewCategoryService(categories catalog.CategoryRepository, authorizer *authz.Authorizer, txManager tx.Manager) *CategoryService {
	return &CategoryService{categories: categories, authz: authorizer, tx: txManager}
}

// FindAllPaged lists categories, sorted by name unless req says otherwise.
func (s *CategoryService) FindAllPaged(ctx context.Context, req pagination.PageRequest) (*pagination.Page[CategoryDTO], error) {
	var page *pagination.Page[CategoryDTO]
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		page, err = pagination.Search(ctx, s.categories.List(), req, toCategoryDTO)
		return err
	})
	return page, err
}

func (s *CategoryService) FindByID(ctx context.Context, id uint) (*CategoryDTO, error) {
	logger.FromContext(ctx).Debug("finding category", zap.Uint("id", id))
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toCategoryDTO(c)
	return &dto, nil
}

func (s *CategoryService) Insert(ctx context.Context, p *authz.Principal, req CategoryRequest) (dto *CategoryDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceCategory, authz.ActionWrite); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("category", "insert", err) }()

	c := catalog.NewCategory(req.Name)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		return s.categories.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("category created", zap.Uint("id", c.ID))
	out := toCategoryDTO(c)
	return &out, nil
}

func (s *CategoryService) Update(ctx context.Context, p *authz.Principal, id uint, req CategoryRequest) (dto *CategoryDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceCategory, authz.ActionWrite); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("category", "update", err) }()

	var c *catalog.Category
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.categories.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrCategoryNotFound) {
				return catalog.CategoryIDNotFound(id)
			}
			return err
		}
		c.Rename(req.Name)
		return s.categories.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	out := toCategoryDTO(c)
	return &out, nil
}

// Delete removes a category. A category still linked to products yields a
// conflict and stays persisted.
func (s *CategoryService) Delete(ctx context.Context, p *authz.Principal, id uint) (err error) {
	if err := s.authz.Check(p, authz.ResourceCategory, authz.ActionWrite); err != nil {
		return err
	}
	defer func() { metrics.RecordMutation("category", "delete", err) }()

	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.categories.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return catalog.CategoryIDNotFound(id)
		}
		return s.categories.DeleteByID(ctx, id)
	})
}
