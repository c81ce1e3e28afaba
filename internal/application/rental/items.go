package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	ledger "github.com/jhoicas/alquileres-api/internal/domain/inventory"
	domainrental "github.com/jhoicas/alquileres-api/internal/domain/rental"
)

// AddItem agrega un producto al alquiler. Si el producto ya tiene línea se suma a su cantidad.
// En un alquiler iniciado la cantidad nueva se reserva en el acto y la línea nueva
// empieza a facturar hoy.
func (uc *UseCase) AddItem(ctx context.Context, id string, in dto.RentalItemInput) (*dto.RentalResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: producto y cantidad positiva son obligatorios", domain.ErrInvalidInput)
	}
	r, err := uc.mutate(ctx, id, []string{in.ProductID}, func(c *command) error {
		if err := requireEditable(c.rental); err != nil {
			return err
		}
		p, err := c.stock.Require(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if idx := c.rental.Item(in.ProductID); idx >= 0 {
			return setQuantity(c, p, idx, c.rental.Items[idx].Quantity+in.Quantity)
		}
		if c.rental.Status == entity.RentalStatusStarted {
			if err := reserve(p, in.Quantity); err != nil {
				return err
			}
		} else if err := checkAvailable(p, in.Quantity); err != nil {
			return err
		}
		c.rental.Items = append(c.rental.Items, entity.RentalItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    in.Quantity,
			UnitPrice:   p.Price,
			AddedDate:   addedDate(c.rental, c.now),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRentalResponse(r), nil
}

// RemoveItem quita la línea de un producto. No se puede quitar la última línea;
// en un alquiler iniciado sus unidades vuelven al stock.
func (uc *UseCase) RemoveItem(ctx context.Context, id, productID string) (*dto.RentalResponse, error) {
	var clamped bool
	r, err := uc.mutate(ctx, id, nil, func(c *command) error {
		if err := requireEditable(c.rental); err != nil {
			return err
		}
		idx := c.rental.Item(productID)
		if idx < 0 {
			return fmt.Errorf("línea %s: %w", productID, domain.ErrNotFound)
		}
		if len(c.rental.Items) == 1 {
			return fmt.Errorf("%w: el alquiler debe conservar al menos un producto", domain.ErrInvalidInput)
		}
		if c.rental.Status == entity.RentalStatusStarted {
			if p, ok := c.stock.Products()[productID]; ok {
				clamped = ledger.Release(p, c.rental.Items[idx].Quantity)
			}
		}
		c.rental.Items = append(c.rental.Items[:idx], c.rental.Items[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if clamped {
		uc.warnClamped(id, []string{productID})
	}
	return toRentalResponse(r), nil
}

// SetItemQuantity cambia la cantidad de una línea. La cantidad debe ser positiva y no
// superar lo disponible; en un alquiler iniciado sus propias unidades cuentan como disponibles.
func (uc *UseCase) SetItemQuantity(ctx context.Context, id, productID string, qty int) (*dto.RentalResponse, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	r, err := uc.mutate(ctx, id, nil, func(c *command) error {
		if err := requireEditable(c.rental); err != nil {
			return err
		}
		idx := c.rental.Item(productID)
		if idx < 0 {
			return fmt.Errorf("línea %s: %w", productID, domain.ErrNotFound)
		}
		p, err := c.stock.Require(ctx, productID)
		if err != nil {
			return err
		}
		return setQuantity(c, p, idx, qty)
	})
	if err != nil {
		return nil, err
	}
	return toRentalResponse(r), nil
}

// SetItemDailyRate fija la tarifa diaria facturada de una línea; las negativas se recortan a 0.
func (uc *UseCase) SetItemDailyRate(ctx context.Context, id, productID string, rate decimal.Decimal) (*dto.RentalResponse, error) {
	r, err := uc.mutate(ctx, id, nil, func(c *command) error {
		if err := requireEditable(c.rental); err != nil {
			return err
		}
		idx := c.rental.Item(productID)
		if idx < 0 {
			return fmt.Errorf("línea %s: %w", productID, domain.ErrNotFound)
		}
		clampedRate := domainrental.ClampRate(rate)
		c.rental.Items[idx].DailyPrice = &clampedRate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRentalResponse(r), nil
}

// SetItemAddedDate cambia la fecha desde la que factura una línea. No se valida contra
// la fecha de creación: se permite retroactivo.
func (uc *UseCase) SetItemAddedDate(ctx context.Context, id, productID, date string) (*dto.RentalResponse, error) {
	d, err := dto.ParseDate(date, uc.cal.Loc())
	if err != nil {
		return nil, err
	}
	r, err := uc.mutate(ctx, id, nil, func(c *command) error {
		if err := requireEditable(c.rental); err != nil {
			return err
		}
		idx := c.rental.Item(productID)
		if idx < 0 {
			return fmt.Errorf("línea %s: %w", productID, domain.ErrNotFound)
		}
		c.rental.Items[idx].AddedDate = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRentalResponse(r), nil
}

func setQuantity(c *command, p *entity.Product, idx, qty int) error {
	it := &c.rental.Items[idx]
	if c.rental.Status != entity.RentalStatusStarted {
		if err := checkAvailable(p, qty); err != nil {
			return err
		}
		it.Quantity = qty
		return nil
	}
	switch delta := qty - it.Quantity; {
	case delta > 0:
		if err := reserve(p, delta); err != nil {
			return err
		}
	case delta < 0:
		ledger.Release(p, -delta)
	}
	it.Quantity = qty
	return nil
}

func requireEditable(r *entity.Rental) error {
	if !domainrental.Editable(r.Status) {
		return fmt.Errorf("%w: un alquiler %s no admite cambios de productos", domain.ErrInvalidTransition, r.Status)
	}
	return nil
}

// addedDate fecha de alta de una línea nueva: hoy si el alquiler ya está iniciado,
// si no la mayor entre hoy y el inicio programado.
func addedDate(r *entity.Rental, now time.Time) time.Time {
	if r.Status != entity.RentalStatusStarted && r.CreatedAt.After(now) {
		return r.CreatedAt
	}
	return now
}

func checkAvailable(p *entity.Product, qty int) error {
	if qty > p.StockActual {
		return shortfall(p, qty)
	}
	return nil
}

func reserve(p *entity.Product, qty int) error {
	if err := checkAvailable(p, qty); err != nil {
		return err
	}
	return ledger.Reserve(p, qty)
}

func shortfall(p *entity.Product, qty int) error {
	return &ledger.ShortfallError{Items: []ledger.StockShortfall{{
		ProductID:   p.ID,
		ProductName: p.Name,
		Needed:      qty,
		Current:     p.StockActual,
		Missing:     qty - p.StockActual,
	}}}
}
