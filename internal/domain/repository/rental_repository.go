package repository

import (
	"context"
	"time"

	"github.com/jhoicas/alquileres-api/internal/domain/entity"
)

// RentalFilter criterios de listado de alquileres. Los campos vacíos no filtran.
// ReturnFrom/ReturnTo filtran por fecha esperada de devolución (inclusive).
type RentalFilter struct {
	Status     entity.RentalStatus
	WorkID     string
	ClientID   string
	ProductID  string
	Search     string
	ReturnFrom *time.Time
	ReturnTo   *time.Time
	Limit      int
	Offset     int
	// ForUpdate bloquea las filas devueltas (solo tiene efecto dentro de una transacción).
	ForUpdate bool
}

// RentalRepository define el puerto de persistencia para Rental; las líneas viajan con el agregado.
type RentalRepository interface {
	Create(ctx context.Context, rental *entity.Rental) error
	GetByID(ctx context.Context, id string) (*entity.Rental, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Rental, error)
	// Update reemplaza el registro completo, incluidas sus líneas.
	Update(ctx context.Context, rental *entity.Rental) error
	List(ctx context.Context, filter RentalFilter) ([]*entity.Rental, error)
}
