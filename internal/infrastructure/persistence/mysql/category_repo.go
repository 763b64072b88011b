package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

type categoryRepository struct {
	repository
}

// NewCategoryRepository creates the category repository.
func NewCategoryRepository(db *gorm.DB) catalog.CategoryRepository {
	return &categoryRepository{repository{db: db}}
}

var categorySorts = sortColumns{
	def: "name",
	cols: map[string]string{
		"name": "categories.name",
		"id":   "categories.id",
	},
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*catalog.Category, error) {
	var models []CategoryModel
	if err := r.getDB(ctx).Order("name").Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "Find categories failed")
	}
	return toCategoryEntities(models), nil
}

func (r *categoryRepository) List() pagination.Query[uint, *catalog.Category] {
	return &pagedQuery[CategoryModel, *catalog.Category]{
		name:     "category_list",
		table:    "categories",
		db:       r.getDB,
		sorts:    categorySorts,
		toEntity: toCategoryEntity,
		idOf:     func(c *catalog.Category) uint { return c.ID },
	}
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*catalog.Category, error) {
	var model CategoryModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "Find category failed")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uint) ([]*catalog.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []CategoryModel
	if err := r.getDB(ctx).Where("id IN ?", ids).Order("name").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "Find categories failed")
	}
	return toCategoryEntities(models), nil
}

func (r *categoryRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return exists(r.getDB(ctx), &CategoryModel{}, id)
}

func (r *categoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	model := &CategoryModel{Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "Create category failed")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, c *catalog.Category) error {
	result := r.getDB(ctx).Model(&CategoryModel{ID: c.ID}).Updates(map[string]interface{}{
		"name":       c.Name,
		"updated_at": c.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Update category failed")
	}
	return nil
}

// DeleteByID fails with a conflict while products still reference the category.
func (r *categoryRepository) DeleteByID(ctx context.Context, id uint) error {
	return deleteByID(r.getDB(ctx), &CategoryModel{}, id, catalog.CategoryIDNotFound)
}

func toCategoryEntity(m *CategoryModel) *catalog.Category {
	return &catalog.Category{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toCategoryEntities(models []CategoryModel) []*catalog.Category {
	out := make([]*catalog.Category, len(models))
	for i := range models {
		out[i] = toCategoryEntity(&models[i])
	}
	return out
}

// exists checks a primary key with COUNT.
func exists(db *gorm.DB, model interface{}, id uint) (bool, error) {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, apperrors.Wrap(err, "Existence check failed")
	}
	return n > 0, nil
}

// deleteByID hard-deletes one row.
// Zero affected rows is notFound(id), a foreign key violation is a conflict.
func deleteByID(db *gorm.DB, model interface{}, id uint, notFound func(uint) *apperrors.AppError) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return apperrors.Conflict(result.Error)
		}
		return apperrors.Wrap(result.Error, "Delete failed")
	}
	if result.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}
