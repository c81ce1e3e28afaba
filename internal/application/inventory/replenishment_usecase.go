package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// LowStockLimit umbral de stock bajo: un producto con menos unidades disponibles entra en la lista.
const LowStockLimit = 10

// ReplenishmentUseCase genera la lista de reposición del depósito.
// Combina el stock disponible con la demanda de los alquileres presupuestados, que reservarán
// stock al iniciarse, para anticipar los faltantes del auto-inicio.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	rentals  repository.RentalRepository
	cal      ports.Calendar
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	products repository.ProductRepository,
	rentals repository.RentalRepository,
	cal ports.Calendar,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, rentals: rentals, cal: cal}
}

// GenerateReplenishmentList devuelve los productos con stock bajo o con déficit frente a la
// demanda presupuestada, con la reposición sugerida y una prioridad.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Catálogo completo
	products, err := uc.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Demanda pendiente y volumen reciente por producto
	rentals, err := uc.rentals.List(ctx, repository.RentalFilter{})
	if err != nil {
		return nil, err
	}
	since := uc.cal.Today().AddDate(0, 0, -90)
	pending := make(map[string]int)
	recent := make(map[string]int)
	for _, r := range rentals {
		for _, it := range r.Items {
			if r.Status == entity.RentalStatusBudgeted {
				pending[it.ProductID] += it.Quantity
			}
			if r.Status != entity.RentalStatusUnbudgeted && !r.CreatedAt.Before(since) {
				recent[it.ProductID] += it.Quantity
			}
		}
	}

	// 3. Sugerencias
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, p := range products {
		deficit := pending[p.ID] - p.StockActual
		if deficit < 0 {
			deficit = 0
		}
		if deficit == 0 && p.StockActual >= LowStockLimit {
			continue
		}
		restock := deficit
		if p.StockActual-pending[p.ID] < LowStockLimit {
			// lleva el remanente tras cubrir la demanda hasta el umbral de stock bajo
			restock = LowStockLimit - (p.StockActual - pending[p.ID])
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:             p.ID,
			ProductName:           p.Name,
			StockTotal:            p.StockTotal,
			StockActual:           p.StockActual,
			Rented:                p.Rented(),
			PendingDemand:         pending[p.ID],
			Deficit:               deficit,
			SuggestedRestock:      restock,
			UnitsRentedLast90Days: recent[p.ID],
		})
	}

	// 4. Ordenar: mayor déficit, luego mayor volumen alquilado, luego menor disponible.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		if a.UnitsRentedLast90Days != b.UnitsRentedLast90Days {
			return a.UnitsRentedLast90Days > b.UnitsRentedLast90Days
		}
		if a.StockActual != b.StockActual {
			return a.StockActual < b.StockActual
		}
		return a.ProductName < b.ProductName
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
