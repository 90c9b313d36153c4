package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"kvt-storefront/internal/model"
	"kvt-storefront/internal/repository"
	"kvt-storefront/pkg/validator"
)

type ProductService interface {
	GetAll() ([]model.Product, error)
	GetByCategory(category model.ProductCategory) ([]model.Product, error)
	GetByID(id string) (*model.Product, error)
	Create(req *model.Product, actor model.Actor) error
	Update(id string, update model.ProductUpdate, actor model.Actor) (*model.Product, error)
	Delete(id string, actor model.Actor) error
	ExportCSV() ([]byte, error)
}

type productService struct {
	repo     repository.ProductRepository
	activity *repository.ActivityLog
}

func NewProductService(repo repository.ProductRepository, activity *repository.ActivityLog) ProductService {
	return &productService{repo: repo, activity: activity}
}

func (s *productService) GetAll() ([]model.Product, error) {
	return s.repo.FindAll()
}

func (s *productService) GetByCategory(category model.ProductCategory) ([]model.Product, error) {
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return s.repo.FindByCategory(category)
}

func (s *productService) GetByID(id string) (*model.Product, error) {
	return s.repo.FindByID(id)
}

func (s *productService) Create(req *model.Product, actor model.Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.repo.Create(req); err != nil {
		return err
	}

	s.activity.Append(model.ActivityEntry{
		Type:       model.ActivityProductCreated,
		UserID:     actor.ID,
		UserName:   actor.Name,
		EntityType: model.EntityProduct,
		EntityID:   req.ID,
		EntityName: req.Name,
		Action:     fmt.Sprintf("Created product '%s'", req.Name),
	})
	return nil
}

func (s *productService) Update(id string, update model.ProductUpdate, actor model.Actor) (*model.Product, error) {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	changes := diffProductUpdate(existing, update)

	updated, err := s.repo.Update(id, update)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.activity.Append(model.ActivityEntry{
			Type:       model.ActivityProductUpdated,
			UserID:     actor.ID,
			UserName:   actor.Name,
			EntityType: model.EntityProduct,
			EntityID:   updated.ID,
			EntityName: updated.Name,
			Action:     fmt.Sprintf("Updated product '%s'", updated.Name),
			Changes:    changes,
		})
	}
	return updated, nil
}

func (s *productService) Delete(id string, actor model.Actor) error {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.activity.Append(model.ActivityEntry{
		Type:       model.ActivityProductDeleted,
		UserID:     actor.ID,
		UserName:   actor.Name,
		EntityType: model.EntityProduct,
		EntityID:   existing.ID,
		EntityName: existing.Name,
		Action:     fmt.Sprintf("Deleted product '%s'", existing.Name),
	})
	return nil
}

// ExportCSV serializes the catalog for the staff console.
func (s *productService) ExportCSV() ([]byte, error) {
	products, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"ID", "Name", "Category", "Description", "Price", "Weight", "Purity", "Created At", "Updated At"}); err != nil {
		return nil, err
	}
	for _, p := range products {
		row := []string{
			p.ID,
			p.Name,
			string(p.Category),
			p.Description,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.FormatFloat(p.Weight, 'f', -1, 64),
			p.Purity,
			p.CreatedAt.UTC().Format(time.RFC3339),
			p.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// IsNotFound reports whether err is the repository's not-found outcome,
// letting handlers distinguish it from validation failures.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, ErrPriceNotFound)
}

func diffProductUpdate(current *model.Product, update model.ProductUpdate) map[string]model.FieldChange {
	changes := make(map[string]model.FieldChange)
	if update.Name != nil && *update.Name != current.Name {
		changes["name"] = model.FieldChange{From: current.Name, To: *update.Name}
	}
	if update.Category != nil && *update.Category != current.Category {
		changes["category"] = model.FieldChange{From: current.Category, To: *update.Category}
	}
	if update.Description != nil && *update.Description != current.Description {
		changes["description"] = model.FieldChange{From: current.Description, To: *update.Description}
	}
	if update.Price != nil && *update.Price != current.Price {
		changes["price"] = model.FieldChange{From: current.Price, To: *update.Price}
	}
	if update.Weight != nil && *update.Weight != current.Weight {
		changes["weight"] = model.FieldChange{From: current.Weight, To: *update.Weight}
	}
	if update.Purity != nil && *update.Purity != current.Purity {
		changes["purity"] = model.FieldChange{From: current.Purity, To: *update.Purity}
	}
	return changes
}
