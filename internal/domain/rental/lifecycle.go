package rental

import (
	"fmt"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/inventory"
)

// Action acción que dispara una transición de estado.
type Action string

const (
	ActionBudget        Action = "presupuestar"
	ActionStart         Action = "iniciar"
	ActionReturn        Action = "devolver"
	ActionPartialReturn Action = "devolver_parcial"
	ActionReactivate    Action = "reactivar"
)

// ParseAction valida una acción recibida desde el exterior.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionBudget, ActionStart, ActionReturn, ActionPartialReturn, ActionReactivate:
		return a, nil
	}
	return "", fmt.Errorf("%w: acción desconocida %q", domain.ErrInvalidInput, s)
}

// Next aplica la tabla de transiciones. La devolución parcial devuelve iniciado;
// quien la ejecuta pasa a finalizado si no quedan líneas.
func Next(from entity.RentalStatus, a Action) (entity.RentalStatus, error) {
	switch from {
	case entity.RentalStatusUnbudgeted:
		switch a {
		case ActionBudget:
			return entity.RentalStatusBudgeted, nil
		case ActionStart:
			return entity.RentalStatusStarted, nil
		}
	case entity.RentalStatusBudgeted:
		switch a {
		case ActionBudget:
			return entity.RentalStatusBudgeted, nil
		case ActionStart:
			return entity.RentalStatusStarted, nil
		}
	case entity.RentalStatusStarted:
		switch a {
		case ActionReturn:
			return entity.RentalStatusFinished, nil
		case ActionPartialReturn:
			return entity.RentalStatusStarted, nil
		}
	case entity.RentalStatusFinished:
		if a == ActionReactivate {
			return entity.RentalStatusStarted, nil
		}
	}
	return from, fmt.Errorf("%w: %s no admite %q", domain.ErrInvalidTransition, from, a)
}

// Budget marca el alquiler como presupuestado.
func Budget(r *entity.Rental) error {
	next, err := Next(r.Status, ActionBudget)
	if err != nil {
		return err
	}
	r.Status = next
	return nil
}

// Start reserva el stock de todas las líneas y pasa el alquiler a iniciado.
// Si falta stock no se modifica nada y se devuelve *inventory.ShortfallError.
func Start(r *entity.Rental, products map[string]*entity.Product) error {
	next, err := Next(r.Status, ActionStart)
	if err != nil {
		return err
	}
	if err := inventory.ReserveAll(Needs(r), products); err != nil {
		return err
	}
	r.Status = next
	return nil
}

// Return devolución total: libera todo el stock, finaliza y marca el alquiler como pagado.
// Devuelve los IDs de producto cuya liberación se recortó a StockTotal.
func Return(r *entity.Rental, products map[string]*entity.Product) ([]string, error) {
	next, err := Next(r.Status, ActionReturn)
	if err != nil {
		return nil, err
	}
	var clamped []string
	for id, qty := range Needs(r) {
		p, ok := products[id]
		if !ok || p == nil {
			continue
		}
		if inventory.Release(p, qty) {
			clamped = append(clamped, id)
		}
	}
	r.Status = next
	Recompute(r)
	r.Pagado = r.TotalPrice
	r.Resto = r.TotalPrice.Sub(r.Pagado)
	return clamped, nil
}

// ReturnLine cantidad devuelta de un producto en una devolución parcial.
type ReturnLine struct {
	ProductID string
	Quantity  int
}

// PartialReturn libera las cantidades devueltas, reduce las líneas y elimina las que quedan en 0.
// Si no queda ninguna línea el alquiler pasa a finalizado.
func PartialReturn(r *entity.Rental, products map[string]*entity.Product, lines []ReturnLine) ([]string, error) {
	if _, err := Next(r.Status, ActionPartialReturn); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no hay cantidades a devolver", domain.ErrInvalidInput)
	}
	returned := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad devuelta debe ser positiva", domain.ErrInvalidInput)
		}
		returned[l.ProductID] += l.Quantity
	}
	for id, qty := range returned {
		idx := r.Item(id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: el producto %s no está en el alquiler", domain.ErrInvalidInput, id)
		}
		if qty > r.Items[idx].Quantity {
			return nil, fmt.Errorf("%w: se devuelven %d de %d unidades", domain.ErrInvalidInput, qty, r.Items[idx].Quantity)
		}
	}

	var clamped []string
	for id, qty := range returned {
		if p, ok := products[id]; ok && p != nil && inventory.Release(p, qty) {
			clamped = append(clamped, id)
		}
	}
	kept := r.Items[:0]
	for _, it := range r.Items {
		it.Quantity -= returned[it.ProductID]
		if it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	r.Items = kept
	if len(r.Items) == 0 {
		r.Status = entity.RentalStatusFinished
	}
	Recompute(r)
	return clamped, nil
}

// Reactivate vuelve un alquiler finalizado a iniciado reservando de nuevo su stock.
// Si algún producto no alcanza devuelve *inventory.ShortfallError sin modificar nada.
func Reactivate(r *entity.Rental, products map[string]*entity.Product) error {
	next, err := Next(r.Status, ActionReactivate)
	if err != nil {
		return err
	}
	if err := inventory.ReserveAll(Needs(r), products); err != nil {
		return err
	}
	r.Status = next
	return nil
}
