package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSiteRequest body para POST /api/sites. Status vacío equivale a "active".
type CreateSiteRequest struct {
	ClientID    string `json:"client_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	Status      string `json:"status,omitempty"`
}

// UpdateSiteRequest actualización parcial de una obra. El estado cambia solo por acciones.
type UpdateSiteRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
}

// SiteListQuery filtros de GET /api/sites.
type SiteListQuery struct {
	Status   string `query:"status"`
	ClientID string `query:"client_id"`
	Search   string `query:"q"`
	PageRequest
}

// SiteResponse obra con sus totales agregados.
type SiteResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Address     string          `json:"address,omitempty"`
	Status      string          `json:"status"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Pagado      decimal.Decimal `json:"pagado"`
	Resto       decimal.Decimal `json:"resto"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SiteListResponse lista paginada de obras.
type SiteListResponse struct {
	Items []SiteResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SiteFinishResponse resultado de finalizar una obra: la obra y los alquileres devueltos.
type SiteFinishResponse struct {
	Site     SiteResponse `json:"site"`
	Returned []string     `json:"returned_rentals"`
}
