package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/testutil"
)

var ctx = context.Background()

func newApp() *testutil.App {
	return testutil.NewApp(time.Date(2024, 3, 10, 12, 0, 0, 0, testutil.ART))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_Validaciones(t *testing.T) {
	app := newApp()

	_, err := app.Products.Create(ctx, dto.CreateProductRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = app.Products.Create(ctx, dto.CreateProductRequest{Name: "Martillo", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = app.Products.Create(ctx, dto.CreateProductRequest{Name: "Martillo", StockTotal: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p := app.MustProduct(t, "Martillo", 200, 50)
	assert.Equal(t, 50, p.StockActual)
	assert.Equal(t, 0, p.Rented)
}

func TestProductUpdate_StockTotalConservaAlquiladas(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 6))

	total := 15
	got, err := app.Products.Update(ctx, p.ID, dto.UpdateProductRequest{StockTotal: &total})
	require.NoError(t, err)
	assert.Equal(t, 15, got.StockTotal)
	assert.Equal(t, 9, got.StockActual)
	assert.Equal(t, 6, got.Rented)

	total = 5
	_, err = app.Products.Update(ctx, p.ID, dto.UpdateProductRequest{StockTotal: &total})
	assert.ErrorIs(t, err, domain.ErrConflict)
	actual, stockTotal := app.Stock(t, p.ID)
	assert.Equal(t, 9, actual)
	assert.Equal(t, 15, stockTotal)
}

func TestProductUpdate_RenombraLineas(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	r := app.MustRental(t, s.ID, "", "", testutil.Item(p.ID, 1))

	name := "Andamio tubular"
	_, err := app.Products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	got, err := app.Rentals.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Items[0].ProductName)
}

func TestProductAdjustCapacity(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 7))

	got, err := app.Products.AdjustCapacity(ctx, p.ID, dto.AdjustCapacityRequest{Delta: 5})
	require.NoError(t, err)
	assert.Equal(t, 15, got.StockTotal)
	assert.Equal(t, 8, got.StockActual)

	got, err = app.Products.AdjustCapacity(ctx, p.ID, dto.AdjustCapacityRequest{Delta: -8})
	require.NoError(t, err)
	assert.Equal(t, 7, got.StockTotal)
	assert.Equal(t, 0, got.StockActual)

	_, err = app.Products.AdjustCapacity(ctx, p.ID, dto.AdjustCapacityRequest{Delta: -1})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = app.Products.AdjustCapacity(ctx, p.ID, dto.AdjustCapacityRequest{Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = app.Products.AdjustCapacity(ctx, "no-existe", dto.AdjustCapacityRequest{Delta: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDelete(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	q := app.MustProduct(t, "Nivel láser", 800, 8)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 1))

	assert.ErrorIs(t, app.Products.Delete(ctx, p.ID), domain.ErrConflict)
	require.NoError(t, app.Products.Delete(ctx, q.ID))
	assert.ErrorIs(t, app.Products.Delete(ctx, q.ID), domain.ErrNotFound)

	list, err := app.Products.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, p.ID, list.Items[0].ID)
}

func TestProductList_Busqueda(t *testing.T) {
	app := newApp()
	app.MustProduct(t, "Taladro", 500, 30)
	app.MustProduct(t, "Andamio", 1200, 15)

	list, err := app.Products.List(ctx, "TALA", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Taladro", list.Items[0].Name)

	list, err = app.Products.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Andamio", list.Items[0].Name, "ordenados por nombre")
}
