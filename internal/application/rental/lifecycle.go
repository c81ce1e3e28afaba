package rental

import (
	"context"
	"fmt"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/domain"
	ledger "github.com/jhoicas/alquileres-api/internal/domain/inventory"
	domainrental "github.com/jhoicas/alquileres-api/internal/domain/rental"
)

// Transition aplica una acción del ciclo de vida (presupuestar, iniciar, devolver,
// devolver_parcial, reactivar). items solo se usa en la devolución parcial.
// Los bloqueos por falta de stock se devuelven como *inventory.ShortfallError.
func (uc *UseCase) Transition(ctx context.Context, id string, in dto.TransitionRequest) (*dto.RentalResponse, error) {
	action, err := domainrental.ParseAction(in.Action)
	if err != nil {
		return nil, err
	}
	var clamped []string
	r, err := uc.mutate(ctx, id, nil, func(c *command) error {
		products := c.stock.Products()
		var err error
		switch action {
		case domainrental.ActionBudget:
			err = domainrental.Budget(c.rental)
		case domainrental.ActionStart:
			if err = c.requireActiveSite(); err == nil {
				err = domainrental.Start(c.rental, products)
			}
		case domainrental.ActionReturn:
			clamped, err = domainrental.Return(c.rental, products)
		case domainrental.ActionPartialReturn:
			clamped, err = domainrental.PartialReturn(c.rental, products, toReturnLines(in.Items))
		case domainrental.ActionReactivate:
			if err = c.requireActiveSite(); err == nil {
				err = domainrental.Reactivate(c.rental, products)
			}
		default:
			err = fmt.Errorf("%w: acción %q", domain.ErrInvalidInput, action)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.warnClamped(id, clamped)
	uc.log.Info().Str("rental_id", id).Str("action", string(action)).Str("status", string(r.Status)).Msg("transición aplicada")
	return toRentalResponse(r), nil
}

// Start inicia un alquiler; atajo usado por el job de auto-inicio. Iniciar y reactivar
// exigen que la obra esté activa.
func (uc *UseCase) Start(ctx context.Context, id string) (*dto.RentalResponse, error) {
	return uc.Transition(ctx, id, dto.TransitionRequest{Action: string(domainrental.ActionStart)})
}

// ReactivateWithRestock amplía la capacidad de los productos indicados y reactiva el
// alquiler en la misma transacción: si la reactivación sigue bloqueada no se repone nada.
func (uc *UseCase) ReactivateWithRestock(ctx context.Context, id string, in dto.RestockRequest) (*dto.RentalResponse, error) {
	extra := make([]string, 0, len(in.Restock))
	for _, l := range in.Restock {
		if l.ProductID == "" || l.Quantity < 0 {
			return nil, fmt.Errorf("%w: reposición inválida", domain.ErrInvalidInput)
		}
		extra = append(extra, l.ProductID)
	}
	r, err := uc.mutate(ctx, id, extra, func(c *command) error {
		if err := c.requireActiveSite(); err != nil {
			return err
		}
		for _, l := range in.Restock {
			if l.Quantity == 0 {
				continue
			}
			p, err := c.stock.Require(ctx, l.ProductID)
			if err != nil {
				return err
			}
			ledger.AdjustCapacity(p, l.Quantity)
		}
		return domainrental.Reactivate(c.rental, c.stock.Products())
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("rental_id", id).Int("restocked_lines", len(in.Restock)).Msg("alquiler reactivado con reposición")
	return toRentalResponse(r), nil
}

func toReturnLines(items []dto.RentalItemInput) []domainrental.ReturnLine {
	lines := make([]domainrental.ReturnLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, domainrental.ReturnLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
