// Package rental agrupa las reglas del agregado Alquiler: totales presupuestados, pagos,
// la máquina de estados del ciclo de vida y el cálculo de facturación prorrateada por día.
package rental

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/domain/entity"
)

// Recompute recalcula el total de cada línea, el total presupuestado y el resto.
// Pagado se recorta a [0, TotalPrice].
func Recompute(r *entity.Rental) {
	total := decimal.Zero
	for i := range r.Items {
		it := &r.Items[i]
		it.TotalPrice = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(it.TotalPrice)
	}
	r.TotalPrice = total
	r.Pagado = ClampPayment(r.Pagado, r.TotalPrice)
	r.Resto = r.TotalPrice.Sub(r.Pagado)
}

// RecordPayment fija el monto pagado (recortado) y recalcula el resto.
func RecordPayment(r *entity.Rental, amount decimal.Decimal) {
	r.Pagado = ClampPayment(amount, r.TotalPrice)
	r.Resto = r.TotalPrice.Sub(r.Pagado)
}

// ClampPayment recorta amount a [0, total].
func ClampPayment(amount, total decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(total) {
		return total
	}
	return amount
}

// Needs suma las cantidades por producto de todas las líneas.
func Needs(r *entity.Rental) map[string]int {
	needs := make(map[string]int, len(r.Items))
	for _, it := range r.Items {
		needs[it.ProductID] += it.Quantity
	}
	return needs
}

// MergeNeeds acumula src en dst.
func MergeNeeds(dst, src map[string]int) {
	for id, qty := range src {
		dst[id] += qty
	}
}

// Editable indica si las líneas del alquiler admiten cambios en el estado actual.
func Editable(status entity.RentalStatus) bool {
	switch status {
	case entity.RentalStatusUnbudgeted, entity.RentalStatusBudgeted, entity.RentalStatusStarted:
		return true
	case entity.RentalStatusFinished:
		return false
	}
	return false
}

// ClampRate recorta una tarifa diaria negativa a 0.
func ClampRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	return rate
}
