package ports

import (
	"context"

	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// TxRepos repositorios ligados a una misma transacción.
type TxRepos struct {
	Products repository.ProductRepository
	Clients  repository.ClientRepository
	Sites    repository.SiteRepository
	Rentals  repository.RentalRepository
}

// TxRunner ejecuta fn dentro de una transacción. Si fn devuelve error se hace rollback
// y ningún cambio queda visible; en caso contrario se confirma.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
