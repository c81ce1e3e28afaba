package dto

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto con stock bajo o
// con demanda presupuestada que el disponible no cubre.
type ReplenishmentSuggestionDTO struct {
	ProductID             string `json:"product_id"`
	ProductName           string `json:"product_name"`
	StockTotal            int    `json:"stock_total"`
	StockActual           int    `json:"stock_actual"`
	Rented                int    `json:"rented"`
	PendingDemand         int    `json:"pending_demand"`    // unidades en alquileres presupuestados
	Deficit               int    `json:"deficit"`           // PendingDemand - StockActual (si es positivo)
	SuggestedRestock      int    `json:"suggested_restock"` // unidades a sumar a la capacidad
	UnitsRentedLast90Days int    `json:"units_rented_last_90d"`
	Priority              int    `json:"priority"` // 1 = más urgente
}
