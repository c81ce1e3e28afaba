// Package testutil arma los casos de uso sobre el store en memoria con un reloj controlable.
// Solo lo usan los tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/application/rental"
	"github.com/jhoicas/alquileres-api/internal/application/site"
	"github.com/jhoicas/alquileres-api/internal/application/usecase"
	"github.com/jhoicas/alquileres-api/internal/infrastructure/memory"
	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// ART zona fija UTC-3 usada por los tests.
var ART = time.FixedZone("ART", -3*60*60)

// App casos de uso cableados sobre un store en memoria.
type App struct {
	Store    *memory.Store
	Repos    ports.TxRepos
	Cal      ports.Calendar
	Log      *logger.Logger
	Products *usecase.ProductUseCase
	Clients  *usecase.ClientUseCase
	Sites    *site.UseCase
	Rentals  *rental.UseCase

	now time.Time
}

// NewApp crea la aplicación con "ahora" fijo en now.
func NewApp(now time.Time) *App {
	a := &App{Store: memory.NewStore(), Log: logger.Nop(), now: now}
	a.Repos = a.Store.Repos()
	a.Cal = ports.Calendar{Location: ART, Now: func() time.Time { return a.now }}
	a.Products = usecase.NewProductUseCase(a.Store, a.Repos.Products, a.Cal, a.Log)
	a.Clients = usecase.NewClientUseCase(a.Store, a.Repos.Clients, a.Cal)
	a.Sites = site.NewUseCase(a.Store, a.Repos.Sites, a.Cal, a.Log)
	a.Rentals = rental.NewUseCase(a.Store, a.Repos.Rentals, a.Cal, a.Log)
	return a
}

// SetNow mueve el reloj.
func (a *App) SetNow(t time.Time) { a.now = t }

// Date fecha a medianoche en ART.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, ART)
}

// MustProduct crea un producto.
func (a *App) MustProduct(t testing.TB, name string, price int64, stock int) *dto.ProductResponse {
	t.Helper()
	p, err := a.Products.Create(context.Background(), dto.CreateProductRequest{
		Name: name, Price: decimal.NewFromInt(price), StockTotal: stock,
	})
	require.NoError(t, err)
	return p
}

// MustSite crea un cliente y una obra activa para él.
func (a *App) MustSite(t testing.TB, clientName, siteName string) *dto.SiteResponse {
	t.Helper()
	c, err := a.Clients.Create(context.Background(), dto.CreateClientRequest{Name: clientName, Address: "Av. Siempreviva 742"})
	require.NoError(t, err)
	s, err := a.Sites.Create(context.Background(), dto.CreateSiteRequest{ClientID: c.ID, Name: siteName, Address: "Ruta 8 km 50"})
	require.NoError(t, err)
	return s
}

// MustRental crea un alquiler con el estado pedido.
func (a *App) MustRental(t testing.TB, siteID, status, start string, items ...dto.RentalItemInput) *dto.RentalResponse {
	t.Helper()
	r, err := a.Rentals.Create(context.Background(), dto.CreateRentalRequest{
		WorkID:     siteID,
		Items:      items,
		StartDate:  start,
		ReturnDate: "2030-01-01",
		Status:     status,
	})
	require.NoError(t, err)
	return r
}

// Stock devuelve (stock_actual, stock_total) de un producto.
func (a *App) Stock(t testing.TB, productID string) (int, int) {
	t.Helper()
	p, err := a.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.StockActual, p.StockTotal
}

// Item atajo para una línea pedida.
func Item(productID string, qty int) dto.RentalItemInput {
	return dto.RentalItemInput{ProductID: productID, Quantity: qty}
}
