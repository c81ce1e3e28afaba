package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// Proyecciones: los nombres de cliente, obra y producto se copian en los registros que
// los referencian. Estas funciones los refrescan dentro de la transacción del renombre.

func refreshProductName(ctx context.Context, repos ports.TxRepos, p *entity.Product, now time.Time) error {
	rentals, err := repos.Rentals.List(ctx, repository.RentalFilter{ProductID: p.ID, ForUpdate: true})
	if err != nil {
		return err
	}
	for _, r := range rentals {
		idx := r.Item(p.ID)
		if idx < 0 {
			continue
		}
		r.Items[idx].ProductName = p.Name
		r.UpdatedAt = now
		if err := repos.Rentals.Update(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func refreshClientName(ctx context.Context, repos ports.TxRepos, c *entity.Client, now time.Time) error {
	sites, err := repos.Sites.List(ctx, repository.SiteFilter{ClientID: c.ID})
	if err != nil {
		return err
	}
	for _, s := range sites {
		s.ClientName = c.Name
		s.UpdatedAt = now
		if err := repos.Sites.Update(ctx, s); err != nil {
			return err
		}
	}
	rentals, err := repos.Rentals.List(ctx, repository.RentalFilter{ClientID: c.ID, ForUpdate: true})
	if err != nil {
		return err
	}
	for _, r := range rentals {
		r.ClientName = c.Name
		r.UpdatedAt = now
		if err := repos.Rentals.Update(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
