package catalog

import (
	"time"

	"github.com/xiebiao/catalog/internal/domain/catalog"
)

// CategoryDTO is the category returned by the API.
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProductDTO is a product with its full category set.
type ProductDTO struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	ImgURL      string        `json:"img_url"`
	Date        time.Time     `json:"date"`
	Categories  []CategoryDTO `json:"categories"`
}

// CategoryRequest carries insert and update input.
type CategoryRequest struct {
	Name string
}

// ProductRequest carries insert and update input. CategoryIDs replaces the
// whole category set on update.
type ProductRequest struct {
	Name        string
	Description string
	Price       float64
	ImgURL      string
	Date        time.Time
	CategoryIDs []uint
}

func toCategoryDTO(c *catalog.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

func toProductDTO(p *catalog.Product) ProductDTO {
	cats := make([]CategoryDTO, len(p.Categories))
	for i := range p.Categories {
		cats[i] = toCategoryDTO(&p.Categories[i])
	}
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      p.ImgURL,
		Date:        p.Date,
		Categories:  cats,
	}
}
