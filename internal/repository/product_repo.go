package repository

import (
	"errors"
	"sync"
	"time"

	"kvt-storefront/internal/model"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository abstracts catalog storage so a persistent store can be
// substituted without touching the service layer.
type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindByCategory(category model.ProductCategory) ([]model.Product, error)
	FindByID(id string) (*model.Product, error)
	Create(product *model.Product) error
	Update(id string, update model.ProductUpdate) (*model.Product, error)
	Delete(id string) error
}

// memoryProductRepo is the in-process catalog store, seeded with the retail
// lineup at startup.
type memoryProductRepo struct {
	mu       sync.RWMutex
	products []model.Product
}

func NewMemoryProductRepo() ProductRepository {
	return &memoryProductRepo{products: seedProducts()}
}

func seedProducts() []model.Product {
	now := time.Now()
	return []model.Product{
		{
			ID:          uuid.New().String(),
			Name:        "916 Gold Ring - Classic Design",
			Category:    model.CategoryJewellery,
			Description: "916 gold ring with classic design, suited for everyday wear.",
			Images:      []string{"/placeholder-jewelry.jpg"},
			Price:       1200,
			Weight:      5.2,
			Purity:      "916",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "999.9 Gold Bar - 1 oz",
			Category:    model.CategoryBar,
			Description: "Pure 999.9 gold bar, 1 troy ounce. Investment grade.",
			Images:      []string{"/placeholder-bar.jpg"},
			Price:       8500,
			Weight:      31.1,
			Purity:      "999.9",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "916 Gold Coin - Limited Edition",
			Category:    model.CategoryCoin,
			Description: "Limited edition 916 gold coin with commemorative design.",
			Images:      []string{"/placeholder-coin.jpg"},
			Price:       2500,
			Weight:      7.5,
			Purity:      "916",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "916 Gold Necklace - Elegant",
			Category:    model.CategoryJewellery,
			Description: "Elegant 916 gold necklace with intricate design.",
			Images:      []string{"/placeholder-jewelry.jpg"},
			Price:       3500,
			Weight:      12.8,
			Purity:      "916",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "999.9 Gold Bar - 10g",
			Category:    model.CategoryBar,
			Description: "Pure 999.9 gold bar, 10 grams.",
			Images:      []string{"/placeholder-bar.jpg"},
			Price:       2800,
			Weight:      10,
			Purity:      "999.9",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func (r *memoryProductRepo) FindAll() ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *memoryProductRepo) FindByCategory(category model.ProductCategory) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryProductRepo) FindByID(id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *memoryProductRepo) Create(product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product.ID = uuid.New().String()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products = append(r.products, *product)
	return nil
}

func (r *memoryProductRepo) Update(id string, update model.ProductUpdate) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID != id {
			continue
		}
		p := &r.products[i]
		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.Category != nil {
			p.Category = *update.Category
		}
		if update.Description != nil {
			p.Description = *update.Description
		}
		if update.Images != nil {
			p.Images = update.Images
		}
		if update.Price != nil {
			p.Price = *update.Price
		}
		if update.Weight != nil {
			p.Weight = *update.Weight
		}
		if update.Purity != nil {
			p.Purity = *update.Purity
		}
		p.UpdatedAt = time.Now()
		out := *p
		return &out, nil
	}
	return nil, ErrProductNotFound
}

func (r *memoryProductRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}
