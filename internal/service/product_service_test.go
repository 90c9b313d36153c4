package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"kvt-storefront/internal/model"
	"kvt-storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService(t *testing.T) (ProductService, *repository.ActivityLog) {
	t.Helper()
	activity := repository.NewActivityLog()
	return NewProductService(repository.NewMemoryProductRepo(), activity), activity
}

func TestProductCreateAndFetch(t *testing.T) {
	svc, activity := newProductService(t)

	p := &model.Product{
		Name:     "916 Gold Bangle",
		Category: model.CategoryJewellery,
		Price:    4200,
		Weight:   15.3,
		Purity:   "916",
	}
	require.NoError(t, svc.Create(p, testActor))
	require.NotEmpty(t, p.ID)

	got, err := svc.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "916 Gold Bangle", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	entries := activity.Recent(1)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActivityProductCreated, entries[0].Type)
	assert.Equal(t, p.ID, entries[0].EntityID)
	assert.Equal(t, "Priya", entries[0].UserName)
}

func TestProductCreateValidation(t *testing.T) {
	svc, activity := newProductService(t)

	err := svc.Create(&model.Product{Category: model.CategoryCoin}, testActor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")

	err = svc.Create(&model.Product{Name: "Odd item", Category: "gemstone"}, testActor)
	require.Error(t, err)

	// Rejected creates never reach the audit trail.
	assert.Equal(t, 0, activity.Len())
}

func TestProductGetByCategory(t *testing.T) {
	svc, _ := newProductService(t)

	bars, err := svc.GetByCategory(model.CategoryBar)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	for _, p := range bars {
		assert.Equal(t, model.CategoryBar, p.Category)
	}

	_, err = svc.GetByCategory("gemstone")
	assert.Error(t, err)
}

func TestProductUpdateDiffsAndAudits(t *testing.T) {
	svc, activity := newProductService(t)

	all, err := svc.GetAll()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	target := all[0]

	newPrice := target.Price + 100
	updated, err := svc.Update(target.ID, model.ProductUpdate{Price: &newPrice}, testActor)
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.Price)
	assert.Equal(t, target.Name, updated.Name)

	entries := activity.Recent(1)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActivityProductUpdated, entries[0].Type)
	require.Contains(t, entries[0].Changes, "price")
	assert.Equal(t, target.Price, entries[0].Changes["price"].From)
	assert.Equal(t, newPrice, entries[0].Changes["price"].To)
}

func TestProductUpdateNoOpSkipsAudit(t *testing.T) {
	svc, activity := newProductService(t)

	all, err := svc.GetAll()
	require.NoError(t, err)
	target := all[0]

	samePrice := target.Price
	_, err = svc.Update(target.ID, model.ProductUpdate{Price: &samePrice}, testActor)
	require.NoError(t, err)
	assert.Equal(t, 0, activity.Len())
}

func TestProductUpdateNotFound(t *testing.T) {
	svc, _ := newProductService(t)

	name := "Ghost"
	_, err := svc.Update("no-such-id", model.ProductUpdate{Name: &name}, testActor)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestProductDelete(t *testing.T) {
	svc, activity := newProductService(t)

	all, err := svc.GetAll()
	require.NoError(t, err)
	target := all[0]

	require.NoError(t, svc.Delete(target.ID, testActor))

	_, err = svc.GetByID(target.ID)
	assert.True(t, IsNotFound(err))

	entries := activity.Recent(1)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActivityProductDeleted, entries[0].Type)
	assert.Equal(t, target.Name, entries[0].EntityName)

	assert.Error(t, svc.Delete(target.ID, testActor))
}

func TestProductExportCSV(t *testing.T) {
	svc, _ := newProductService(t)

	out, err := svc.ExportCSV()
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"ID", "Name", "Category", "Description", "Price", "Weight", "Purity", "Created At", "Updated At"}, rows[0])

	all, err := svc.GetAll()
	require.NoError(t, err)
	assert.Len(t, rows, len(all)+1)
}
