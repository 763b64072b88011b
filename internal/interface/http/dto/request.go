// Package dto holds the HTTP request bodies and their binding rules.
package dto

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

// PageQuery is ?page=0&size=12&sort=name,desc.
type PageQuery struct {
	Page int    `form:"page" binding:"omitempty,min=0"`
	Size int    `form:"size" binding:"omitempty,min=1"`
	Sort string `form:"sort"`
}

func (q PageQuery) PageRequest() pagination.PageRequest {
	field, desc := pagination.ParseSort(q.Sort)
	return pagination.PageRequest{Page: q.Page, Size: q.Size, Sort: field, Desc: desc}
}

// ParseIDList reads comma separated ids from one or more query values,
// e.g. ?categoryId=1,3&categoryId=4. Empty values are skipped.
func ParseIDList(field string, values []string) ([]uint, error) {
	var ids []uint
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				return nil, apperrors.Validation(apperrors.FieldError{
					FieldName: field,
					Message:   "Must be a list of positive ids",
				})
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=3,max=80"`
}

type ProductRequest struct {
	Name        string    `json:"name" binding:"required,min=5,max=60"`
	Description string    `json:"description" binding:"required"`
	Price       float64   `json:"price" binding:"required,gt=0"`
	ImgURL      string    `json:"img_url" binding:"omitempty,url"`
	Date        time.Time `json:"date" binding:"required,lte"`
	CategoryIDs []uint    `json:"category_ids" binding:"required,min=1,dive,gt=0"`
}

type ReviewRequest struct {
	MovieID uint   `json:"movie_id" binding:"required"`
	Text    string `json:"text" binding:"required,max=2000"`
}

type CityRequest struct {
	Name string `json:"name" binding:"required"`
}

type EventRequest struct {
	Name   string    `json:"name" binding:"required"`
	Date   time.Time `json:"date" binding:"required"`
	URL    string    `json:"url" binding:"omitempty,url"`
	CityID uint      `json:"city_id" binding:"required"`
}

type UserInsertRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	RoleIDs   []uint `json:"role_ids" binding:"dive,gt=0"`
}

type UserUpdateRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	RoleIDs   []uint `json:"role_ids" binding:"dive,gt=0"`
}

type SignupRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type OrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}
