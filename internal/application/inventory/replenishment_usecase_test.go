package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/application/inventory"
	"github.com/jhoicas/alquileres-api/internal/testutil"
)

func TestGenerateReplenishmentList_VacioSinProductos(t *testing.T) {
	app := testutil.NewApp(time.Date(2024, 3, 10, 12, 0, 0, 0, testutil.ART))
	uc := inventory.NewReplenishmentUseCase(app.Repos.Products, app.Repos.Rentals, app.Cal)

	list, err := uc.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerateReplenishmentList_DeficitYStockBajo(t *testing.T) {
	app := testutil.NewApp(time.Date(2024, 3, 10, 12, 0, 0, 0, testutil.ART))
	uc := inventory.NewReplenishmentUseCase(app.Repos.Products, app.Repos.Rentals, app.Cal)

	andamio := app.MustProduct(t, "Andamio", 100, 5)
	app.MustProduct(t, "Taladro", 50, 50)
	vallas := app.MustProduct(t, "Vallas", 20, 20)

	site := app.MustSite(t, "Constructora Sur", "Edificio Norte")
	// el presupuesto entra en stock al crearse; el alquiler iniciado después lo deja corto
	app.MustRental(t, site.ID, "presupuestado", "2024-03-20", testutil.Item(andamio.ID, 5))
	app.MustRental(t, site.ID, "iniciado", "", testutil.Item(andamio.ID, 2))
	app.MustRental(t, site.ID, "iniciado", "", testutil.Item(vallas.ID, 15))

	list, err := uc.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2, "el taladro tiene stock suficiente y no entra")

	first := list[0]
	assert.Equal(t, andamio.ID, first.ProductID)
	assert.Equal(t, 1, first.Priority)
	assert.Equal(t, 3, first.StockActual)
	assert.Equal(t, 2, first.Rented)
	assert.Equal(t, 5, first.PendingDemand)
	assert.Equal(t, 2, first.Deficit)
	assert.Equal(t, 12, first.SuggestedRestock, "cubre el déficit y deja el umbral de stock bajo")
	assert.Equal(t, 7, first.UnitsRentedLast90Days)

	second := list[1]
	assert.Equal(t, vallas.ID, second.ProductID)
	assert.Equal(t, 2, second.Priority)
	assert.Equal(t, 0, second.Deficit)
	assert.Equal(t, 5, second.StockActual)
	assert.Equal(t, 15, second.Rented)
	assert.Equal(t, 15, second.UnitsRentedLast90Days)
	assert.Equal(t, 5, second.SuggestedRestock)
}
