package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalItemInput línea pedida al crear un alquiler o agregar un producto.
type RentalItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateRentalRequest body para POST /api/rentals.
// StartDate (opcional, fecha de inicio programada) fija created_at; Status puede ser
// "sin presupuestar" (defecto), "presupuestado" o "iniciado" (reserva stock en el acto).
type CreateRentalRequest struct {
	WorkID     string            `json:"work_id"`
	Items      []RentalItemInput `json:"items"`
	ReturnDate string            `json:"return_date"`
	StartDate  string            `json:"start_date,omitempty"`
	Status     string            `json:"status,omitempty"`
	Pagado     decimal.Decimal   `json:"pagado"`
	Notes      string            `json:"notes,omitempty"`
}

// UpdateRentalRequest actualización de fecha de devolución y notas.
type UpdateRentalRequest struct {
	ReturnDate *string `json:"return_date"`
	Notes      *string `json:"notes"`
}

// ItemQuantityRequest body para PUT /api/rentals/:id/items/:productId/quantity.
type ItemQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ItemRateRequest body para PUT /api/rentals/:id/items/:productId/rate.
type ItemRateRequest struct {
	DailyPrice decimal.Decimal `json:"daily_price"`
}

// ItemAddedDateRequest body para PUT /api/rentals/:id/items/:productId/added-date.
type ItemAddedDateRequest struct {
	AddedDate string `json:"added_date"`
}

// PaymentRequest registra el monto total pagado (no incremental).
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransitionRequest body para POST /api/rentals/:id/transitions.
// Items solo aplica a "devolver_parcial".
type TransitionRequest struct {
	Action string            `json:"action"`
	Items  []RentalItemInput `json:"items,omitempty"`
}

// RestockRequest reposición de capacidad previa a una reactivación.
type RestockRequest struct {
	Restock []RentalItemInput `json:"restock"`
}

// RentalListQuery filtros de GET /api/rentals.
type RentalListQuery struct {
	Status     string `query:"status"`
	WorkID     string `query:"work_id"`
	ClientID   string `query:"client_id"`
	ProductID  string `query:"product_id"`
	Search     string `query:"q"`
	ReturnFrom string `query:"return_from"`
	ReturnTo   string `query:"return_to"`
	PageRequest
}

// RentalItemResponse línea de alquiler.
type RentalItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DailyPrice  decimal.Decimal `json:"daily_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	AddedDate   time.Time       `json:"added_date"`
}

// RentalResponse alquiler completo.
type RentalResponse struct {
	ID         string               `json:"id"`
	WorkID     string               `json:"work_id"`
	WorkName   string               `json:"work_name"`
	ClientID   string               `json:"client_id"`
	ClientName string               `json:"client_name"`
	Items      []RentalItemResponse `json:"items"`
	TotalPrice decimal.Decimal      `json:"total_price"`
	Pagado     decimal.Decimal      `json:"pagado"`
	Resto      decimal.Decimal      `json:"resto"`
	ReturnDate time.Time            `json:"return_date"`
	CreatedAt  time.Time            `json:"created_at"`
	Status     string               `json:"status"`
	Notes      string               `json:"notes,omitempty"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// RentalListResponse lista paginada de alquileres.
type RentalListResponse struct {
	Items []RentalResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// BillQuery parámetros de GET /api/rentals/:id/bill. Mode: to_date (defecto), current_month, custom.
type BillQuery struct {
	Mode  string `query:"mode"`
	Start string `query:"start"`
	End   string `query:"end"`
}

// BillLineResponse cargo de una línea en la ventana.
type BillLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Days        int             `json:"days"`
	Charge      decimal.Decimal `json:"charge"`
}

// BillResponse cargo prorrateado de un alquiler.
type BillResponse struct {
	RentalID string             `json:"rental_id"`
	Mode     string             `json:"mode"`
	Start    time.Time          `json:"start"`
	End      time.Time          `json:"end"`
	Lines    []BillLineResponse `json:"lines"`
	Total    decimal.Decimal    `json:"total"`
}
