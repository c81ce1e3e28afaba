package repository

import (
	"context"

	"github.com/jhoicas/alquileres-api/internal/domain/entity"
)

// SiteFilter criterios de listado de obras.
type SiteFilter struct {
	Status   entity.SiteStatus
	ClientID string
	Search   string
	Limit    int
	Offset   int
}

// SiteRepository define el puerto de persistencia para Site (obra).
type SiteRepository interface {
	Create(ctx context.Context, site *entity.Site) error
	GetByID(ctx context.Context, id string) (*entity.Site, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Site, error)
	Update(ctx context.Context, site *entity.Site) error
	List(ctx context.Context, filter SiteFilter) ([]*entity.Site, error)
	Delete(ctx context.Context, id string) error
}
