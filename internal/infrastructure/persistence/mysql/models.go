package mysql

import (
	"time"
)

// GORM models.
// Notes:
// 1. Domain entities carry no gorm tags, repositories convert in both directions
// 2. No gorm.DeletedAt anywhere: deletes are real so foreign keys can refuse them
// 3. Association fields are pointers or slices, so a zero value is never
//    upserted by accident on Create

type CategoryModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CategoryModel) TableName() string {
	return "categories"
}

type ProductModel struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:120;not null;index"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"not null;index"`
	ImgURL      string  `gorm:"column:img_url;size:500"`
	Date        time.Time
	Categories  []CategoryModel `gorm:"many2many:product_categories;joinForeignKey:ProductID;joinReferences:CategoryID"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ProductCategoryModel is a row of the product_categories join table, written
// directly so the category set is replaced without touching categories.
type ProductCategoryModel struct {
	ProductID  uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey"`
}

func (ProductCategoryModel) TableName() string {
	return "product_categories"
}

type GenreModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:60;not null;uniqueIndex"`
}

func (GenreModel) TableName() string {
	return "genres"
}

type MovieModel struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"size:200;not null;index"`
	SubTitle string `gorm:"size:200"`
	Year     int
	ImgURL   string      `gorm:"column:img_url;size:500"`
	Synopsis string      `gorm:"type:text"`
	GenreID  uint        `gorm:"index;not null"`
	Genre    *GenreModel `gorm:"foreignKey:GenreID;constraint:OnDelete:RESTRICT"`
}

func (MovieModel) TableName() string {
	return "movies"
}

type ReviewModel struct {
	ID        uint   `gorm:"primaryKey"`
	Text      string `gorm:"type:text;not null"`
	MovieID   uint   `gorm:"index;not null"`
	UserID    uint   `gorm:"index;not null"`
	CreatedAt time.Time
	Movie     *MovieModel `gorm:"foreignKey:MovieID;constraint:OnDelete:RESTRICT"`
	User      *UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

type CityModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;index"`
}

func (CityModel) TableName() string {
	return "cities"
}

type EventModel struct {
	ID     uint       `gorm:"primaryKey"`
	Name   string     `gorm:"size:150;not null"`
	Date   time.Time  `gorm:"index"`
	URL    string     `gorm:"column:url;size:500"`
	CityID uint       `gorm:"index;not null"`
	City   *CityModel `gorm:"foreignKey:CityID;constraint:OnDelete:RESTRICT"`
}

func (EventModel) TableName() string {
	return "events"
}

type RoleModel struct {
	ID        uint   `gorm:"primaryKey"`
	Authority string `gorm:"size:40;not null;uniqueIndex"`
}

func (RoleModel) TableName() string {
	return "roles"
}

type UserModel struct {
	ID        uint        `gorm:"primaryKey"`
	FirstName string      `gorm:"size:60;not null"`
	LastName  string      `gorm:"size:60"`
	Email     string      `gorm:"uniqueIndex;size:100;not null"`
	Password  string      `gorm:"size:255;not null"`
	Roles     []RoleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// UserRoleModel is a row of the user_roles join table.
type UserRoleModel struct {
	UserID uint `gorm:"primaryKey"`
	RoleID uint `gorm:"primaryKey"`
}

func (UserRoleModel) TableName() string {
	return "user_roles"
}

type OrderModel struct {
	ID       uint             `gorm:"primaryKey"`
	Moment   time.Time        `gorm:"index;not null"`
	Status   string           `gorm:"size:20;index;not null"`
	ClientID uint             `gorm:"index;not null"`
	Client   *UserModel       `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
	Items    []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel keys on (order_id, product_id). Price is the snapshot taken
// when the order was placed.
type OrderItemModel struct {
	OrderID   uint          `gorm:"primaryKey"`
	ProductID uint          `gorm:"primaryKey"`
	Quantity  int           `gorm:"not null"`
	Price     float64       `gorm:"not null"`
	Product   *ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// allModels is the AutoMigrate set. Join tables come from the many2many tags.
func allModels() []interface{} {
	return []interface{}{
		&CategoryModel{},
		&ProductModel{},
		&GenreModel{},
		&MovieModel{},
		&RoleModel{},
		&UserModel{},
		&ReviewModel{},
		&CityModel{},
		&EventModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
