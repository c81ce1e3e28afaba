// Package inventory contiene el libro de stock: reservas, liberaciones y ajustes de capacidad.
// Todas las funciones mantienen 0 <= StockActual <= StockTotal.
package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
)

// Reserve descuenta qty unidades disponibles del producto.
func Reserve(p *entity.Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad a reservar debe ser positiva", domain.ErrInvalidInput)
	}
	if qty > p.StockActual {
		return fmt.Errorf("%w: %s requiere %d, disponible %d", domain.ErrInsufficientStock, p.Name, qty, p.StockActual)
	}
	p.StockActual -= qty
	return nil
}

// Release devuelve qty unidades al stock disponible, sin superar StockTotal.
// clamped indica que la devolución excedía lo comprometido y se recortó.
func Release(p *entity.Product, qty int) (clamped bool) {
	if qty <= 0 {
		return false
	}
	next := p.StockActual + qty
	if next > p.StockTotal {
		next = p.StockTotal
		clamped = true
	}
	p.StockActual = next
	return clamped
}

// AdjustCapacity suma delta a StockTotal y StockActual (reposición o baja), con piso en 0.
func AdjustCapacity(p *entity.Product, delta int) {
	p.StockTotal += delta
	p.StockActual += delta
	if p.StockTotal < 0 {
		p.StockTotal = 0
	}
	if p.StockActual < 0 {
		p.StockActual = 0
	}
	if p.StockActual > p.StockTotal {
		p.StockActual = p.StockTotal
	}
}

// StockShortfall faltante de un producto para cubrir una reserva.
type StockShortfall struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Needed      int    `json:"needed"`
	Current     int    `json:"current"`
	Missing     int    `json:"missing"`
}

// Shortfall compara las necesidades agregadas por producto contra el stock disponible.
// Productos inexistentes cuentan con disponible 0. El resultado se ordena por nombre.
func Shortfall(needs map[string]int, products map[string]*entity.Product) []StockShortfall {
	var out []StockShortfall
	for id, needed := range needs {
		if needed <= 0 {
			continue
		}
		current, name := 0, id
		if p, ok := products[id]; ok && p != nil {
			current, name = p.StockActual, p.Name
		}
		if current < needed {
			out = append(out, StockShortfall{
				ProductID:   id,
				ProductName: name,
				Needed:      needed,
				Current:     current,
				Missing:     needed - current,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// ReserveAll reserva todas las necesidades o ninguna.
// Devuelve un *ShortfallError si algún producto no alcanza.
func ReserveAll(needs map[string]int, products map[string]*entity.Product) error {
	if missing := Shortfall(needs, products); len(missing) > 0 {
		return &ShortfallError{Items: missing}
	}
	for id, qty := range needs {
		if qty <= 0 {
			continue
		}
		if err := Reserve(products[id], qty); err != nil {
			return err
		}
	}
	return nil
}

// ShortfallError reporta los faltantes que bloquean una reserva. Envuelve ErrInsufficientStock.
type ShortfallError struct {
	Items []StockShortfall
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("%s: %d producto(s) sin stock suficiente", domain.ErrInsufficientStock, len(e.Items))
}

func (e *ShortfallError) Unwrap() error { return domain.ErrInsufficientStock }
