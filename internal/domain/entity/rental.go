package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/domain"
)

// RentalStatus estado del ciclo de vida de un alquiler.
type RentalStatus string

const (
	RentalStatusUnbudgeted RentalStatus = "sin presupuestar"
	RentalStatusBudgeted   RentalStatus = "presupuestado"
	RentalStatusStarted    RentalStatus = "iniciado"
	RentalStatusFinished   RentalStatus = "finalizado"
)

// ParseRentalStatus valida un estado recibido desde el exterior.
func ParseRentalStatus(s string) (RentalStatus, error) {
	switch st := RentalStatus(s); st {
	case RentalStatusUnbudgeted, RentalStatusBudgeted, RentalStatusStarted, RentalStatusFinished:
		return st, nil
	}
	return "", fmt.Errorf("%w: estado de alquiler desconocido: %q", domain.ErrInvalidInput, s)
}

// RentalItem línea de un alquiler. TotalPrice = Quantity * UnitPrice (presupuesto, no facturación).
// DailyPrice es la tarifa efectivamente cobrada por unidad y día; nil significa "usar UnitPrice".
// AddedDate marca desde cuándo la línea acumula cargos.
type RentalItem struct {
	ProductID   string
	ProductName string // desnormalizado
	Quantity    int
	UnitPrice   decimal.Decimal
	DailyPrice  *decimal.Decimal
	TotalPrice  decimal.Decimal
	AddedDate   time.Time
}

// Rate devuelve la tarifa diaria por unidad a facturar.
func (it RentalItem) Rate() decimal.Decimal {
	if it.DailyPrice != nil {
		return *it.DailyPrice
	}
	return it.UnitPrice
}

// Rental orden de alquiler asociada a una obra.
type Rental struct {
	ID         string
	WorkID     string
	WorkName   string // desnormalizado
	ClientID   string
	ClientName string // desnormalizado
	Items      []RentalItem
	TotalPrice decimal.Decimal
	Pagado     decimal.Decimal
	Resto      decimal.Decimal
	ReturnDate time.Time // fecha esperada de devolución
	CreatedAt  time.Time
	Status     RentalStatus
	Notes      string
	UpdatedAt  time.Time
}

// Item devuelve el índice de la línea del producto o -1.
func (r *Rental) Item(productID string) int {
	for i := range r.Items {
		if r.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone copia el alquiler incluyendo sus líneas.
func (r *Rental) Clone() *Rental {
	c := *r
	c.Items = make([]RentalItem, len(r.Items))
	copy(c.Items, r.Items)
	for i := range c.Items {
		if r.Items[i].DailyPrice != nil {
			d := *r.Items[i].DailyPrice
			c.Items[i].DailyPrice = &d
		}
	}
	return &c
}
