package site_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/inventory"
	"github.com/jhoicas/alquileres-api/internal/testutil"
)

var ctx = context.Background()

func newApp() *testutil.App {
	return testutil.NewApp(time.Date(2024, 3, 10, 12, 0, 0, 0, testutil.ART))
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ClienteInexistente(t *testing.T) {
	app := newApp()

	_, err := app.Sites.Create(ctx, dto.CreateSiteRequest{ClientID: "no-existe", Name: "Obra"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = app.Sites.Create(ctx, dto.CreateSiteRequest{ClientID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_DesnormalizaCliente(t *testing.T) {
	app := newApp()
	s := app.MustSite(t, "Juan Pérez", "Casa Pérez")

	assert.Equal(t, "active", s.Status)
	assert.Equal(t, "Juan Pérez", s.ClientName)
	assert.True(t, s.TotalPrice.IsZero())
}

func TestUpdate_RenombraAlquileres(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Juan Pérez", "Casa Pérez")
	r := app.MustRental(t, s.ID, "", "", testutil.Item(p.ID, 1))

	name := "Casa Pérez - ampliación"
	got, err := app.Sites.Update(ctx, s.ID, dto.UpdateSiteRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)

	rr, err := app.Rentals.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, name, rr.WorkName)

	empty := "  "
	_, err = app.Sites.Update(ctx, s.ID, dto.UpdateSiteRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_FiltraPorEstado(t *testing.T) {
	app := newApp()
	a := app.MustSite(t, "Constructora ABC", "Torre Norte")
	app.MustSite(t, "Juan Pérez", "Casa Pérez")
	_, err := app.Sites.Pause(ctx, a.ID)
	require.NoError(t, err)

	list, err := app.Sites.List(ctx, dto.SiteListQuery{Status: "paused"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.ID, list.Items[0].ID)

	list, err = app.Sites.List(ctx, dto.SiteListQuery{Search: "pérez"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = app.Sites.List(ctx, dto.SiteListQuery{Status: "archivada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales y pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestRollup_SumaTodosLosAlquileres(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 2))
	app.MustRental(t, s.ID, "presupuestado", "", testutil.Item(p.ID, 3))

	got, err := app.Sites.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(500)))

	got, err = app.Sites.RecordPayment(ctx, s.ID, dto.PaymentRequest{Amount: decimal.NewFromInt(900)})
	require.NoError(t, err)
	assert.True(t, got.Pagado.Equal(decimal.NewFromInt(500)))
	assert.True(t, got.Resto.IsZero())

	got, err = app.Sites.RecordPayment(ctx, s.ID, dto.PaymentRequest{Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)
	assert.True(t, got.Resto.Equal(decimal.NewFromInt(300)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestFinish_DevuelveIniciadosYMarcaPagada(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	a := app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 2))
	b := app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 3))
	c := app.MustRental(t, s.ID, "presupuestado", "", testutil.Item(p.ID, 1))

	res, err := app.Sites.Finish(ctx, s.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, res.Returned)
	assert.Equal(t, "completed", res.Site.Status)
	assert.True(t, res.Site.TotalPrice.Equal(decimal.NewFromInt(600)))
	assert.True(t, res.Site.Pagado.Equal(res.Site.TotalPrice))
	assert.True(t, res.Site.Resto.IsZero())

	actual, _ := app.Stock(t, p.ID)
	assert.Equal(t, 10, actual)

	ra, err := app.Rentals.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "finalizado", ra.Status)
	assert.True(t, ra.Pagado.Equal(ra.TotalPrice))

	rc, err := app.Rentals.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "presupuestado", rc.Status, "solo se devuelven los iniciados")

	_, err = app.Sites.Finish(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPausaYReactivacionSinEfectos(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 4))

	got, err := app.Sites.Pause(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "paused", got.Status)

	_, err = app.Sites.Pause(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err = app.Sites.Reactivate(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", got.Status)
	actual, _ := app.Stock(t, p.ID)
	assert.Equal(t, 6, actual, "pausar y reactivar no mueve stock")

	_, err = app.Sites.Reactivate(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReactivarConReposicion_ObraPausadaRechazada(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	_, err := app.Sites.Pause(ctx, s.ID)
	require.NoError(t, err)

	_, err = app.Sites.ReactivateWithRestock(ctx, s.ID, dto.RestockRequest{Restock: []dto.RentalItemInput{testutil.Item(p.ID, 5)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	actual, total := app.Stock(t, p.ID)
	assert.Equal(t, 10, actual)
	assert.Equal(t, 10, total, "la capacidad no cambia")
	got, err := app.Sites.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "paused", got.Status)

	// líneas en cero no reponen nada y se aceptan
	got, err = app.Sites.ReactivateWithRestock(ctx, s.ID, dto.RestockRequest{Restock: []dto.RentalItemInput{testutil.Item(p.ID, 0)}})
	require.NoError(t, err)
	assert.Equal(t, "active", got.Status)
}

func TestReactivar_ObraCompletadaConFaltante(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	otra := app.MustSite(t, "Juan Pérez", "Casa Pérez")
	a := app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 4))
	app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 3))
	_, err := app.Sites.Finish(ctx, s.ID)
	require.NoError(t, err)
	app.MustRental(t, otra.ID, "iniciado", "", testutil.Item(p.ID, 5))

	missing, err := app.Sites.ReactivationShortfall(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, inventory.StockShortfall{ProductID: p.ID, ProductName: "Andamio", Needed: 7, Current: 5, Missing: 2}, missing[0])

	_, err = app.Sites.Reactivate(ctx, s.ID)
	var sf *inventory.ShortfallError
	require.True(t, errors.As(err, &sf))
	got, err := app.Sites.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)

	got, err = app.Sites.ReactivateWithRestock(ctx, s.ID, dto.RestockRequest{Restock: []dto.RentalItemInput{testutil.Item(p.ID, 2)}})
	require.NoError(t, err)
	assert.Equal(t, "active", got.Status)
	actual, total := app.Stock(t, p.ID)
	assert.Equal(t, 0, actual)
	assert.Equal(t, 12, total)

	ra, err := app.Rentals.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "iniciado", ra.Status)

	missing, err = app.Sites.ReactivationShortfall(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestDelete_BloqueadoConIniciados(t *testing.T) {
	app := newApp()
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 1))

	err := app.Sites.Delete(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = app.Sites.Finish(ctx, s.ID)
	require.NoError(t, err)
	require.NoError(t, app.Sites.Delete(ctx, s.ID))

	_, err = app.Sites.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, app.Sites.Delete(ctx, s.ID), domain.ErrNotFound)
}
