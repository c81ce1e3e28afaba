package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock disponible inicial es igual al total.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	StockTotal  int             `json:"stock_total"`
	Notes       string          `json:"notes,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto. StockTotal redefine la capacidad;
// no puede quedar por debajo de las unidades alquiladas.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	StockTotal  *int             `json:"stock_total"`
	Notes       *string          `json:"notes"`
}

// AdjustCapacityRequest body para POST /api/products/:id/capacity (delta puede ser negativo).
type AdjustCapacityRequest struct {
	Delta int `json:"delta"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	StockTotal  int             `json:"stock_total"`
	StockActual int             `json:"stock_actual"`
	Rented      int             `json:"rented"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
