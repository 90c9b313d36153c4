package model

import "time"

type ProductCategory string

const (
	CategoryCoin      ProductCategory = "coin"
	CategoryBar       ProductCategory = "bar"
	CategoryJewellery ProductCategory = "jewellery"
)

// ValidCategory reports whether c is a known catalog category.
func ValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryCoin, CategoryBar, CategoryJewellery:
		return true
	}
	return false
}

// Product is one retail catalog item. The catalog lives in an in-process
// repository; ids are assigned on create and never reused.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Category    ProductCategory `json:"category" validate:"required,oneof=coin bar jewellery"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	Price       float64         `json:"price,omitempty"`
	Weight      float64         `json:"weight,omitempty"` // grams
	Purity      string          `json:"purity,omitempty"` // "916" or "999.9"
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductUpdate carries the fields a staff update may change. Nil means
// leave the current value alone.
type ProductUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Category    *ProductCategory `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Price       *float64         `json:"price,omitempty"`
	Weight      *float64         `json:"weight,omitempty"`
	Purity      *string          `json:"purity,omitempty"`
}
