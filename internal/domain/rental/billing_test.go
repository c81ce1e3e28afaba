package rental_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/rental"
)

var loc = time.FixedZone("ART", -3*60*60)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, loc)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// Escenario: línea agregada el 2024-01-10, tarifa 100, cantidad 2; ventana 10→12 → 3 días, 600.
func TestItemCharge_VentanaPersonalizada(t *testing.T) {
	it := entity.RentalItem{ProductID: "p1", Quantity: 2, UnitPrice: dec(80), DailyPrice: decPtr(100), AddedDate: day(2024, 1, 10, 15)}
	w, err := rental.Custom(day(2024, 1, 10, 0), day(2024, 1, 12, 9), loc)
	require.NoError(t, err)

	line := rental.ItemCharge(it, w, loc)
	assert.Equal(t, 3, line.Days)
	assert.True(t, line.Charge.Equal(dec(600)), "cargo esperado 600, obtenido %s", line.Charge)
}

// Inclusividad: agregado hoy y facturado "a la fecha" hoy cuenta un día.
func TestItemCharge_ALaFechaMismoDia(t *testing.T) {
	now := day(2024, 3, 5, 18)
	it := entity.RentalItem{Quantity: 3, UnitPrice: dec(50), AddedDate: day(2024, 3, 5, 17)}
	line := rental.ItemCharge(it, rental.ToDate(day(2024, 3, 5, 9), now), loc)
	assert.Equal(t, 1, line.Days)
	assert.True(t, line.Charge.Equal(dec(150)))
}

// Un presupuesto que arranca dentro de diez días no devenga nada "a la fecha".
func TestItemCharge_ALaFechaInicioFuturo(t *testing.T) {
	now := day(2024, 3, 5, 18)
	start := day(2024, 3, 15, 0)
	it := entity.RentalItem{Quantity: 3, UnitPrice: dec(100), AddedDate: start}
	line := rental.ItemCharge(it, rental.ToDate(start, now), loc)
	assert.Equal(t, 0, line.Days)
	assert.True(t, line.Charge.IsZero())
}

func TestItemCharge_SinTarifaDiariaUsaPrecioUnitario(t *testing.T) {
	it := entity.RentalItem{Quantity: 1, UnitPrice: dec(70), AddedDate: day(2024, 1, 1, 0)}
	w, _ := rental.Custom(day(2024, 1, 1, 0), day(2024, 1, 2, 0), loc)
	assert.True(t, rental.ItemCharge(it, w, loc).Charge.Equal(dec(140)))
}

func TestItemCharge_TarifaCeroExplicita(t *testing.T) {
	it := entity.RentalItem{Quantity: 1, UnitPrice: dec(70), DailyPrice: decPtr(0), AddedDate: day(2024, 1, 1, 0)}
	w, _ := rental.Custom(day(2024, 1, 1, 0), day(2024, 1, 2, 0), loc)
	assert.True(t, rental.ItemCharge(it, w, loc).Charge.IsZero())
}

func TestItemCharge_AgregadoDespuesDeLaVentana(t *testing.T) {
	it := entity.RentalItem{Quantity: 1, UnitPrice: dec(10), AddedDate: day(2024, 2, 1, 0)}
	w, _ := rental.Custom(day(2024, 1, 1, 0), day(2024, 1, 31, 0), loc)
	line := rental.ItemCharge(it, w, loc)
	assert.Equal(t, 0, line.Days)
	assert.True(t, line.Charge.IsZero())
}

func TestItemCharge_AgregadoAntesDeLaVentanaCuentaDesdeElInicio(t *testing.T) {
	it := entity.RentalItem{Quantity: 1, UnitPrice: dec(10), AddedDate: day(2023, 12, 1, 0)}
	w, _ := rental.Custom(day(2024, 1, 1, 0), day(2024, 1, 31, 0), loc)
	line := rental.ItemCharge(it, w, loc)
	assert.Equal(t, 31, line.Days)
	assert.Equal(t, day(2024, 1, 1, 0), line.From)
}

func TestCurrentMonth(t *testing.T) {
	w := rental.CurrentMonth(day(2024, 2, 14, 12), loc)
	assert.Equal(t, day(2024, 2, 1, 0), w.Start)
	assert.Equal(t, day(2024, 2, 29, 0), w.End)
	assert.Equal(t, rental.WindowCurrentMonth, w.Mode)
}

func TestCustom_FinAnteriorAlInicio(t *testing.T) {
	_, err := rental.Custom(day(2024, 1, 5, 0), day(2024, 1, 4, 23), loc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCharge_SumaLineas(t *testing.T) {
	r := &entity.Rental{
		ID: "r1",
		Items: []entity.RentalItem{
			{ProductID: "a", Quantity: 2, UnitPrice: dec(100), AddedDate: day(2024, 1, 10, 0)},
			{ProductID: "b", Quantity: 1, UnitPrice: dec(40), AddedDate: day(2024, 1, 12, 0)},
		},
	}
	w, _ := rental.Custom(day(2024, 1, 10, 0), day(2024, 1, 12, 0), loc)
	bill := rental.Charge(r, w, loc)
	require.Len(t, bill.Lines, 2)
	assert.Equal(t, 3, bill.Lines[0].Days)
	assert.Equal(t, 1, bill.Lines[1].Days)
	assert.True(t, bill.Total.Equal(dec(640)))
}

func TestDaysBetween_IgnoraHora(t *testing.T) {
	assert.Equal(t, 1, rental.DaysBetween(day(2024, 1, 2, 1), day(2024, 1, 1, 23), loc))
	assert.Equal(t, 0, rental.DaysBetween(day(2024, 1, 1, 23), day(2024, 1, 1, 0), loc))
	assert.Equal(t, -1, rental.DaysBetween(day(2023, 12, 31, 23), day(2024, 1, 1, 0), loc))
}
