package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLine línea de un documento comercial.
type DocumentLine struct {
	Quantity    int              `json:"quantity"`
	Description string           `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"`
}

// DocumentRecord registro plano de un remito, recibo o cotización.
type DocumentRecord struct {
	Kind          string          `json:"kind"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	RentalID      string          `json:"rental_id"`
	ClientName    string          `json:"client_name"`
	ClientAddress string          `json:"client_address,omitempty"`
	ClientPhone   string          `json:"client_phone,omitempty"`
	SiteName      string          `json:"site_name"`
	SiteAddress   string          `json:"site_address,omitempty"`
	Concept       string          `json:"concept,omitempty"`
	LineItems     []DocumentLine  `json:"line_items,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	Pagado        decimal.Decimal `json:"pagado"`
	Resto         decimal.Decimal `json:"resto"`
	AmountInWords string          `json:"amount_in_words,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	ReturnDate    time.Time       `json:"return_date"`
	Notes         string          `json:"notes,omitempty"`
}
