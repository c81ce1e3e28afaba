package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Alquileres iniciados con fecha de devolución anterior a hoy.
	Overdue       []RentalDueDTO  `json:"overdue"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	// Devoluciones previstas entre hoy y hoy+7.
	DueSoon       []RentalDueDTO  `json:"due_soon"`
	DueSoonAmount decimal.Decimal `json:"due_soon_amount"`

	ActiveCount       int             `json:"active_count"`
	ActiveAmount      decimal.Decimal `json:"active_amount"`
	BudgetedCount     int             `json:"budgeted_count"`
	BudgetedAmount    decimal.Decimal `json:"budgeted_amount"`
	QuotesToConfirm   int             `json:"quotes_to_confirm"` // sin presupuestar
	PendingCollection decimal.Decimal `json:"pending_collection"`

	LowStock    []StockAlertDTO   `json:"low_stock"`
	OutOfStock  []StockAlertDTO   `json:"out_of_stock"`
	Usage       []ProductUsageDTO `json:"usage"`
	TopProducts []TopProductDTO   `json:"top_products"`
	TopClients  []TopClientDTO    `json:"top_clients"`
	UnpaidSites []UnpaidSiteDTO   `json:"unpaid_sites"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// RentalDueDTO alquiler vencido o por vencer.
type RentalDueDTO struct {
	RentalID   string          `json:"rental_id"`
	ClientName string          `json:"client_name"`
	WorkName   string          `json:"work_name"`
	ReturnDate string          `json:"return_date"`
	DaysLate   int             `json:"days_late,omitempty"`
	DaysLeft   int             `json:"days_left,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// StockAlertDTO producto con stock bajo o agotado.
type StockAlertDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	StockActual int    `json:"stock_actual"`
	StockTotal  int    `json:"stock_total"`
}

// ProductUsageDTO unidades alquiladas vs disponibles y obras donde están.
type ProductUsageDTO struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	Rented      int      `json:"rented"`
	Available   int      `json:"available"`
	StockTotal  int      `json:"stock_total"`
	Sites       []string `json:"sites"`
}

// TopProductDTO producto más alquilado en los últimos 30 días.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TopClientDTO cliente con mayor facturación en los últimos 30 días.
type TopClientDTO struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	Rentals    int             `json:"rentals"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// UnpaidSiteDTO obra activa sin pagos registrados.
type UnpaidSiteDTO struct {
	SiteID     string          `json:"site_id"`
	SiteName   string          `json:"site_name"`
	ClientName string          `json:"client_name"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
