package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/domain"
)

// SiteStatus estado de una obra.
type SiteStatus string

const (
	SiteStatusActive    SiteStatus = "active"
	SiteStatusCompleted SiteStatus = "completed"
	SiteStatusPaused    SiteStatus = "paused"
)

// ParseSiteStatus valida un estado recibido desde el exterior.
func ParseSiteStatus(s string) (SiteStatus, error) {
	switch st := SiteStatus(s); st {
	case SiteStatusActive, SiteStatusCompleted, SiteStatusPaused:
		return st, nil
	}
	return "", fmt.Errorf("%w: estado de obra desconocido: %q", domain.ErrInvalidInput, s)
}

// Site (obra) agrupa los alquileres de un cliente en un lugar de trabajo.
// TotalPrice es siempre la suma de los TotalPrice de sus alquileres; Resto = TotalPrice - Pagado.
type Site struct {
	ID          string
	ClientID    string
	ClientName  string // desnormalizado
	Name        string
	Description string
	Address     string
	Status      SiteStatus
	TotalPrice  decimal.Decimal
	Pagado      decimal.Decimal
	Resto       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
