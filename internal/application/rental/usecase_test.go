package rental_test

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

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var ctx = context.Background()

// now: 10/03/2024 12:00 en Buenos Aires.
var now = time.Date(2024, 3, 10, 12, 0, 0, 0, testutil.ART)

func setup(t *testing.T) (*testutil.App, string, string) {
	t.Helper()
	app := testutil.NewApp(now)
	p := app.MustProduct(t, "Andamio", 100, 10)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	return app, p.ID, s.ID
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func transition(action string, items ...dto.RentalItemInput) dto.TransitionRequest {
	return dto.TransitionRequest{Action: action, Items: items}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_IniciadoReservaStockYActualizaObra(t *testing.T) {
	app, pid, sid := setup(t)

	r := app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 4))

	assert.Equal(t, "iniciado", r.Status)
	assert.Equal(t, "Torre Norte", r.WorkName)
	assert.Equal(t, "Constructora ABC", r.ClientName)
	assert.True(t, r.TotalPrice.Equal(dec(400)))
	assert.True(t, r.Resto.Equal(dec(400)))
	actual, total := app.Stock(t, pid)
	assert.Equal(t, 6, actual)
	assert.Equal(t, 10, total)

	s, err := app.Sites.GetByID(ctx, sid)
	require.NoError(t, err)
	assert.True(t, s.TotalPrice.Equal(dec(400)))
	assert.True(t, s.Resto.Equal(dec(400)))
}

func TestCreate_SinPresupuestarNoReserva(t *testing.T) {
	app, pid, sid := setup(t)

	r := app.MustRental(t, sid, "", "", testutil.Item(pid, 4), testutil.Item(pid, 2))

	assert.Equal(t, "sin presupuestar", r.Status)
	require.Len(t, r.Items, 1, "las líneas repetidas se agrupan")
	assert.Equal(t, 6, r.Items[0].Quantity)
	actual, _ := app.Stock(t, pid)
	assert.Equal(t, 10, actual)
}

func TestCreate_Validaciones(t *testing.T) {
	app, pid, sid := setup(t)
	base := func() dto.CreateRentalRequest {
		return dto.CreateRentalRequest{WorkID: sid, Items: []dto.RentalItemInput{testutil.Item(pid, 1)}, ReturnDate: "2024-04-01"}
	}

	in := base()
	in.Items = nil
	_, err := app.Rentals.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = base()
	in.Status = "finalizado"
	_, err = app.Rentals.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = base()
	in.ReturnDate = ""
	_, err = app.Rentals.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = base()
	in.WorkID = "no-existe"
	_, err = app.Rentals.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = base()
	in.Items = []dto.RentalItemInput{testutil.Item("no-existe", 1)}
	_, err = app.Rentals.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = base()
	in.Items = []dto.RentalItemInput{testutil.Item(pid, 11)}
	_, err = app.Rentals.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreate_ObraPausadaRechazada(t *testing.T) {
	app, pid, sid := setup(t)
	_, err := app.Sites.Pause(ctx, sid)
	require.NoError(t, err)

	_, err = app.Rentals.Create(ctx, dto.CreateRentalRequest{
		WorkID: sid, Items: []dto.RentalItemInput{testutil.Item(pid, 1)}, ReturnDate: "2024-04-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestSetItemQuantity_IniciadoReservaSoloElDelta(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 4))

	_, err := app.Rentals.SetItemQuantity(ctx, r.ID, pid, 8)
	require.NoError(t, err)
	actual, _ := app.Stock(t, pid)
	assert.Equal(t, 2, actual)

	// 8 propias + 2 libres = 10 disponibles para este alquiler
	_, err = app.Rentals.SetItemQuantity(ctx, r.ID, pid, 11)
	var sf *inventory.ShortfallError
	require.True(t, errors.As(err, &sf))
	assert.Equal(t, 1, sf.Items[0].Missing)
	actual, _ = app.Stock(t, pid)
	assert.Equal(t, 2, actual, "un cambio rechazado no toca el stock")

	got, err := app.Rentals.SetItemQuantity(ctx, r.ID, pid, 3)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(dec(300)))
	actual, _ = app.Stock(t, pid)
	assert.Equal(t, 7, actual)
}

func TestSetItemQuantity_SinIniciarContraStockDisponible(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "presupuestado", "", testutil.Item(pid, 4))

	_, err := app.Rentals.SetItemQuantity(ctx, r.ID, pid, 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = app.Rentals.SetItemQuantity(ctx, r.ID, pid, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := app.Rentals.SetItemQuantity(ctx, r.ID, pid, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Items[0].Quantity)
	actual, _ := app.Stock(t, pid)
	assert.Equal(t, 10, actual)
}

func TestAddItem_AgrupaYReservaEnIniciado(t *testing.T) {
	app, pid, sid := setup(t)
	q := app.MustProduct(t, "Carretilla", 50, 5)
	r := app.MustRental(t, sid, "iniciado", "2024-03-01", testutil.Item(pid, 2))

	got, err := app.Rentals.AddItem(ctx, r.ID, testutil.Item(pid, 3))
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Quantity)

	got, err = app.Rentals.AddItem(ctx, r.ID, testutil.Item(q.ID, 1))
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[1].AddedDate.Equal(now), "una línea nueva en un alquiler iniciado factura desde hoy")
	assert.True(t, got.TotalPrice.Equal(dec(550)))

	actual, _ := app.Stock(t, pid)
	assert.Equal(t, 5, actual)
	actual, _ = app.Stock(t, q.ID)
	assert.Equal(t, 4, actual)
}

func TestRemoveItem_LiberaStockYNoDejaVacio(t *testing.T) {
	app, pid, sid := setup(t)
	q := app.MustProduct(t, "Carretilla", 50, 5)
	r := app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 2), testutil.Item(q.ID, 3))

	got, err := app.Rentals.RemoveItem(ctx, r.ID, q.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	actual, _ := app.Stock(t, q.ID)
	assert.Equal(t, 5, actual)

	_, err = app.Rentals.RemoveItem(ctx, r.ID, pid)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = app.Rentals.RemoveItem(ctx, r.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineas_FinalizadoNoEditable(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 2))
	_, err := app.Rentals.Transition(ctx, r.ID, transition("devolver"))
	require.NoError(t, err)

	_, err = app.Rentals.SetItemQuantity(ctx, r.ID, pid, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = app.Rentals.AddItem(ctx, r.ID, testutil.Item(pid, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_PresupuestarEIniciar(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "", "", testutil.Item(pid, 3))

	got, err := app.Rentals.Transition(ctx, r.ID, transition("presupuestar"))
	require.NoError(t, err)
	assert.Equal(t, "presupuestado", got.Status)

	got, err = app.Rentals.Transition(ctx, r.ID, transition("iniciar"))
	require.NoError(t, err)
	assert.Equal(t, "iniciado", got.Status)
	actual, _ := app.Stock(t, pid)
	assert.Equal(t, 7, actual)

	_, err = app.Rentals.Transition(ctx, r.ID, transition("presupuestar"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = app.Rentals.Transition(ctx, r.ID, transition("volar"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_DevolucionTotal(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 4))

	got, err := app.Rentals.Transition(ctx, r.ID, transition("devolver"))
	require.NoError(t, err)
	assert.Equal(t, "finalizado", got.Status)
	assert.True(t, got.Pagado.Equal(dec(400)))
	assert.True(t, got.Resto.IsZero())
	actual, _ := app.Stock(t, pid)
	assert.Equal(t, 10, actual)

	_, err = app.Rentals.Transition(ctx, r.ID, transition("devolver"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	actual, _ = app.Stock(t, pid)
	assert.Equal(t, 10, actual, "una segunda devolución no libera de nuevo")
}

func TestTransition_DevolucionParcial(t *testing.T) {
	app, pid, sid := setup(t)
	q := app.MustProduct(t, "Carretilla", 50, 5)
	r := app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 4), testutil.Item(q.ID, 2))

	_, err := app.Rentals.Transition(ctx, r.ID, transition("devolver_parcial", testutil.Item(pid, 5)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := app.Rentals.Transition(ctx, r.ID, transition("devolver_parcial", testutil.Item(pid, 4)))
	require.NoError(t, err)
	assert.Equal(t, "iniciado", got.Status)
	require.Len(t, got.Items, 1)
	assert.True(t, got.TotalPrice.Equal(dec(100)))
	actual, _ := app.Stock(t, pid)
	assert.Equal(t, 10, actual)

	got, err = app.Rentals.Transition(ctx, r.ID, transition("devolver_parcial", testutil.Item(q.ID, 2)))
	require.NoError(t, err)
	assert.Equal(t, "finalizado", got.Status)
	assert.Empty(t, got.Items)
	assert.True(t, got.TotalPrice.IsZero())

	s, err := app.Sites.GetByID(ctx, sid)
	require.NoError(t, err)
	assert.True(t, s.TotalPrice.IsZero())
}

func TestReactivacion_BloqueadaYConReposicion(t *testing.T) {
	app, pid, sid := setup(t)
	a := app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 6))
	_, err := app.Rentals.Transition(ctx, a.ID, transition("devolver"))
	require.NoError(t, err)
	app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 8))

	_, err = app.Rentals.Transition(ctx, a.ID, transition("reactivar"))
	var sf *inventory.ShortfallError
	require.True(t, errors.As(err, &sf))
	require.Len(t, sf.Items, 1)
	assert.Equal(t, inventory.StockShortfall{ProductID: pid, ProductName: "Andamio", Needed: 6, Current: 2, Missing: 4}, sf.Items[0])

	// reposición insuficiente: no queda nada aplicado
	_, err = app.Rentals.ReactivateWithRestock(ctx, a.ID, dto.RestockRequest{Restock: []dto.RentalItemInput{testutil.Item(pid, 1)}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	actual, total := app.Stock(t, pid)
	assert.Equal(t, 2, actual)
	assert.Equal(t, 10, total)

	got, err := app.Rentals.ReactivateWithRestock(ctx, a.ID, dto.RestockRequest{Restock: []dto.RentalItemInput{testutil.Item(pid, 4)}})
	require.NoError(t, err)
	assert.Equal(t, "iniciado", got.Status)
	actual, total = app.Stock(t, pid)
	assert.Equal(t, 0, actual)
	assert.Equal(t, 14, total)
}

func TestTransition_ObraNoActivaNoReserva(t *testing.T) {
	app, pid, sid := setup(t)
	app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 2))
	quote := app.MustRental(t, sid, "presupuestado", "2024-03-12", testutil.Item(pid, 3))
	_, err := app.Sites.Finish(ctx, sid)
	require.NoError(t, err)

	_, err = app.Rentals.Transition(ctx, quote.ID, transition("iniciar"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = app.Rentals.ReactivateWithRestock(ctx, quote.ID, dto.RestockRequest{Restock: []dto.RentalItemInput{testutil.Item(pid, 1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := app.Rentals.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "presupuestado", got.Status)
	actual, total := app.Stock(t, pid)
	assert.Equal(t, 10, actual, "la obra completada devolvió todo y no reserva de nuevo")
	assert.Equal(t, 10, total)
}

func TestTransition_ObraPausadaNoInicia(t *testing.T) {
	app, pid, sid := setup(t)
	quote := app.MustRental(t, sid, "presupuestado", "", testutil.Item(pid, 3))
	_, err := app.Sites.Pause(ctx, sid)
	require.NoError(t, err)

	_, err = app.Rentals.Start(ctx, quote.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = app.Sites.Reactivate(ctx, sid)
	require.NoError(t, err)
	got, err := app.Rentals.Start(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "iniciado", got.Status)
	actual, _ := app.Stock(t, pid)
	assert.Equal(t, 7, actual)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos, consultas y facturación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPayment_Recorta(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "presupuestado", "", testutil.Item(pid, 4))

	got, err := app.Rentals.RecordPayment(ctx, r.ID, dto.PaymentRequest{Amount: dec(1000)})
	require.NoError(t, err)
	assert.True(t, got.Pagado.Equal(dec(400)))
	assert.True(t, got.Resto.IsZero())

	got, err = app.Rentals.RecordPayment(ctx, r.ID, dto.PaymentRequest{Amount: dec(-5)})
	require.NoError(t, err)
	assert.True(t, got.Pagado.IsZero())
	assert.True(t, got.Resto.Equal(dec(400)))
}

func TestUpdateYList(t *testing.T) {
	app, pid, sid := setup(t)
	q := app.MustProduct(t, "Nivel láser", 80, 3)
	a := app.MustRental(t, sid, "iniciado", "", testutil.Item(pid, 1))
	app.MustRental(t, sid, "presupuestado", "", testutil.Item(q.ID, 1))

	ret, notes := "2024-03-20", "entregar por la mañana"
	got, err := app.Rentals.Update(ctx, a.ID, dto.UpdateRentalRequest{ReturnDate: &ret, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, got.Notes)
	assert.True(t, got.ReturnDate.Equal(testutil.Date(2024, 3, 20)))

	list, err := app.Rentals.List(ctx, dto.RentalListQuery{Status: "iniciado"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.ID, list.Items[0].ID)

	list, err = app.Rentals.List(ctx, dto.RentalListQuery{Search: "láser"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	list, err = app.Rentals.List(ctx, dto.RentalListQuery{ReturnFrom: "2024-03-15", ReturnTo: "2024-03-25"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.ID, list.Items[0].ID)

	_, err = app.Rentals.List(ctx, dto.RentalListQuery{Status: "perdido"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBill_Ventanas(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "iniciado", "2024-03-01", testutil.Item(pid, 2))

	// 1..10 de marzo inclusive: 10 días * 100 * 2
	bill, err := app.Rentals.Bill(ctx, r.ID, dto.BillQuery{})
	require.NoError(t, err)
	assert.Equal(t, "to_date", bill.Mode)
	require.Len(t, bill.Lines, 1)
	assert.Equal(t, 10, bill.Lines[0].Days)
	assert.True(t, bill.Total.Equal(dec(2000)))

	_, err = app.Rentals.SetItemDailyRate(ctx, r.ID, pid, dec(50))
	require.NoError(t, err)

	bill, err = app.Rentals.Bill(ctx, r.ID, dto.BillQuery{Mode: "custom", Start: "2024-03-05", End: "2024-03-06"})
	require.NoError(t, err)
	assert.True(t, bill.Total.Equal(dec(200)))

	bill, err = app.Rentals.Bill(ctx, r.ID, dto.BillQuery{Mode: "current_month"})
	require.NoError(t, err)
	assert.Equal(t, 31, bill.Lines[0].Days)
	assert.True(t, bill.Total.Equal(dec(3100)))

	_, err = app.Rentals.Bill(ctx, r.ID, dto.BillQuery{Mode: "custom", Start: "2024-03-06", End: "2024-03-05"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = app.Rentals.Bill(ctx, "no-existe", dto.BillQuery{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBill_ALaFechaPresupuestoFuturo(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "presupuestado", "2024-03-20", testutil.Item(pid, 3))

	bill, err := app.Rentals.Bill(ctx, r.ID, dto.BillQuery{})
	require.NoError(t, err)
	require.Len(t, bill.Lines, 1)
	assert.Equal(t, 0, bill.Lines[0].Days)
	assert.True(t, bill.Total.IsZero())
}

func TestSetItemDailyRate_NegativaARecortada(t *testing.T) {
	app, pid, sid := setup(t)
	r := app.MustRental(t, sid, "", "", testutil.Item(pid, 1))

	got, err := app.Rentals.SetItemDailyRate(ctx, r.ID, pid, dec(-10))
	require.NoError(t, err)
	assert.True(t, got.Items[0].DailyPrice.IsZero())
	assert.True(t, got.TotalPrice.Equal(dec(100)), "la tarifa diaria no altera el presupuesto")
}
