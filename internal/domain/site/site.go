// Package site replica el ciclo de vida del alquiler a nivel de obra y mantiene sus totales.
package site

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/inventory"
	"github.com/jhoicas/alquileres-api/internal/domain/rental"
)

// Rollup recalcula TotalPrice como la suma de los alquileres de la obra y el resto.
// Los alquileres de otras obras se ignoran.
func Rollup(s *entity.Site, rentals []*entity.Rental) {
	total := decimal.Zero
	for _, r := range rentals {
		if r.WorkID == s.ID {
			total = total.Add(r.TotalPrice)
		}
	}
	s.TotalPrice = total
	s.Pagado = rental.ClampPayment(s.Pagado, s.TotalPrice)
	s.Resto = s.TotalPrice.Sub(s.Pagado)
}

// RecordPayment fija el monto pagado de la obra (recortado a [0, TotalPrice]).
func RecordPayment(s *entity.Site, amount decimal.Decimal) {
	s.Pagado = rental.ClampPayment(amount, s.TotalPrice)
	s.Resto = s.TotalPrice.Sub(s.Pagado)
}

// Finish devuelve todos los alquileres iniciados, recalcula totales y marca la obra como completada y pagada.
// Devuelve los alquileres modificados y los productos cuya liberación se recortó.
func Finish(s *entity.Site, rentals []*entity.Rental, products map[string]*entity.Product) (changed []*entity.Rental, clamped []string, err error) {
	if s.Status == entity.SiteStatusCompleted {
		return nil, nil, fmt.Errorf("%w: la obra ya está finalizada", domain.ErrInvalidTransition)
	}
	for _, r := range rentals {
		if r.WorkID != s.ID || r.Status != entity.RentalStatusStarted {
			continue
		}
		c, err := rental.Return(r, products)
		if err != nil {
			return nil, nil, err
		}
		clamped = append(clamped, c...)
		changed = append(changed, r)
	}
	Rollup(s, rentals)
	s.Pagado = s.TotalPrice
	s.Resto = decimal.Zero
	s.Status = entity.SiteStatusCompleted
	return changed, clamped, nil
}

// Pause pausa la obra sin efectos sobre stock ni montos.
func Pause(s *entity.Site) error {
	if s.Status != entity.SiteStatusActive {
		return fmt.Errorf("%w: solo una obra activa puede pausarse", domain.ErrInvalidTransition)
	}
	s.Status = entity.SiteStatusPaused
	return nil
}

// Shortfall agrega las necesidades de todos los alquileres finalizados de la obra y las compara con el stock.
func Shortfall(s *entity.Site, rentals []*entity.Rental, products map[string]*entity.Product) []inventory.StockShortfall {
	return inventory.Shortfall(reactivationNeeds(s, rentals), products)
}

// Reactivate vuelve la obra a activa. Una obra pausada solo cambia de estado; una completada
// reactiva cada alquiler finalizado reservando su stock. Si falta stock en el agregado
// no se modifica nada y se devuelve *inventory.ShortfallError.
func Reactivate(s *entity.Site, rentals []*entity.Rental, products map[string]*entity.Product) ([]*entity.Rental, error) {
	switch s.Status {
	case entity.SiteStatusActive:
		return nil, fmt.Errorf("%w: la obra ya está activa", domain.ErrInvalidTransition)
	case entity.SiteStatusPaused:
		s.Status = entity.SiteStatusActive
		return nil, nil
	}
	if missing := Shortfall(s, rentals, products); len(missing) > 0 {
		return nil, &inventory.ShortfallError{Items: missing}
	}
	var changed []*entity.Rental
	for _, r := range rentals {
		if r.WorkID != s.ID || r.Status != entity.RentalStatusFinished {
			continue
		}
		if err := rental.Reactivate(r, products); err != nil {
			return nil, err
		}
		changed = append(changed, r)
	}
	s.Status = entity.SiteStatusActive
	Rollup(s, rentals)
	return changed, nil
}

func reactivationNeeds(s *entity.Site, rentals []*entity.Rental) map[string]int {
	needs := make(map[string]int)
	for _, r := range rentals {
		if r.WorkID == s.ID && r.Status == entity.RentalStatusFinished {
			rental.MergeNeeds(needs, rental.Needs(r))
		}
	}
	return needs
}
