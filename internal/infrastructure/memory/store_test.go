package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
	"github.com/jhoicas/alquileres-api/internal/infrastructure/memory"
)

var ctx = context.Background()

func seedProduct(t *testing.T, repos ports.TxRepos, id, name string, stock int) {
	t.Helper()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: id, Name: name, Price: decimal.NewFromInt(100), StockTotal: stock, StockActual: stock,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_ConfirmaSoloSinError(t *testing.T) {
	store := memory.NewStore()
	live := store.Repos()
	seedProduct(t, live, "p1", "Andamio", 10)

	boom := errors.New("boom")
	err := store.Run(ctx, func(repos ports.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, "p1")
		require.NoError(t, err)
		p.StockActual = 3
		require.NoError(t, repos.Products.Update(ctx, p))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	p, err := live.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockActual, "un error descarta todos los cambios")

	err = store.Run(ctx, func(repos ports.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, "p1")
		if err != nil {
			return err
		}
		p.StockActual = 3
		return repos.Products.Update(ctx, p)
	})
	require.NoError(t, err)
	p, err = live.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.StockActual)
}

func TestRun_SerializaEscritores(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store.Repos(), "p1", "Andamio", 100)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Run(ctx, func(repos ports.TxRepos) error {
				p, err := repos.Products.GetForUpdate(ctx, "p1")
				if err != nil {
					return err
				}
				p.StockActual--
				return repos.Products.Update(ctx, p)
			})
		}()
	}
	wg.Wait()

	p, err := store.Repos().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 50, p.StockActual)
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	cctx, cancel := context.WithCancel(ctx)
	cancel()

	called := false
	err := store.Run(cctx, func(ports.TxRepos) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_CopiasAisladas(t *testing.T) {
	live := memory.NewStore().Repos()
	seedProduct(t, live, "p1", "Andamio", 10)

	p, err := live.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	p.StockActual = 0

	again, err := live.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, again.StockActual)

	missing, err := live.Products.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = live.Products.Create(ctx, &entity.Product{ID: "p1", Name: "otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_ListPaginado(t *testing.T) {
	live := memory.NewStore().Repos()
	seedProduct(t, live, "p1", "Taladro", 1)
	seedProduct(t, live, "p2", "Andamio", 1)
	seedProduct(t, live, "p3", "Martillo", 1)

	list, err := live.Products.List(ctx, repository.ProductFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Martillo", list[0].Name)
	assert.Equal(t, "Taladro", list[1].Name)

	list, err = live.Products.List(ctx, repository.ProductFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRentalRepo_Filtros(t *testing.T) {
	live := memory.NewStore().Repos()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rentals := []*entity.Rental{
		{ID: "r1", WorkID: "s1", ClientID: "c1", WorkName: "Torre Norte", Status: entity.RentalStatusStarted,
			CreatedAt: base, ReturnDate: base.AddDate(0, 0, 5),
			Items: []entity.RentalItem{{ProductID: "p1", ProductName: "Andamio", Quantity: 1}}},
		{ID: "r2", WorkID: "s2", ClientID: "c1", WorkName: "Casa Pérez", Status: entity.RentalStatusBudgeted,
			CreatedAt: base.AddDate(0, 0, 1), ReturnDate: base.AddDate(0, 0, 20),
			Items: []entity.RentalItem{{ProductID: "p2", ProductName: "Carretilla", Quantity: 1}}},
	}
	for _, r := range rentals {
		require.NoError(t, live.Rentals.Create(ctx, r))
	}

	list, err := live.Rentals.List(ctx, repository.RentalFilter{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID, "más recientes primero")

	list, err = live.Rentals.List(ctx, repository.RentalFilter{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)

	list, err = live.Rentals.List(ctx, repository.RentalFilter{Search: "carretilla"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r2", list[0].ID)

	from, to := base.AddDate(0, 0, 10), base.AddDate(0, 0, 30)
	list, err = live.Rentals.List(ctx, repository.RentalFilter{ReturnFrom: &from, ReturnTo: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r2", list[0].ID)

	got, err := live.Rentals.GetByID(ctx, "r1")
	require.NoError(t, err)
	got.Items[0].Quantity = 99
	again, err := live.Rentals.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity, "las líneas también se copian")
}
