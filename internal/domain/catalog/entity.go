package catalog

import (
	"time"
)

// Category groups products. Categories are referenced by products through
// the product_categories join table, so a category still in use cannot be
// deleted.
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a category with its timestamps set.
func NewCategory(name string) *Category {
	now := time.Now()
	return &Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename changes the category name.
func (c *Category) Rename(name string) {
	c.Name = name
	c.UpdatedAt = time.Now()
}

// Product is the catalog aggregate root.
// Notes:
//  1. Categories is the full association set; Update replaces it as a whole
//  2. Price is a plain float, the catalog never does arithmetic on it beyond
//     snapshotting it into order items
type Product struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	ImgURL      string
	Date        time.Time
	Categories  []Category
}

// NewProduct creates a product with the given categories.
func NewProduct(name, description string, price float64, imgURL string, date time.Time, categories []Category) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		ImgURL:      imgURL,
		Date:        date,
		Categories:  categories,
	}
}

// CategoryIDs lists the ids of the associated categories.
func (p *Product) CategoryIDs() []uint {
	ids := make([]uint, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}

// ReplaceCategories swaps the whole category set.
func (p *Product) ReplaceCategories(categories []Category) {
	p.Categories = append([]Category(nil), categories...)
}
