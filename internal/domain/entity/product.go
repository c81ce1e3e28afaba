package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un equipo o herramienta disponible para alquiler.
// StockTotal son las unidades propias; StockActual las que no están comprometidas en un alquiler iniciado.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio unitario por día
	StockTotal  int
	StockActual int
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Rented devuelve las unidades actualmente comprometidas.
func (p *Product) Rented() int {
	return p.StockTotal - p.StockActual
}
