// Package analytics contiene el resumen operativo del dashboard: vencimientos,
// montos por estado, alertas de stock y rankings de productos y clientes.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/inventory"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
	domainrental "github.com/jhoicas/alquileres-api/internal/domain/rental"
)

const (
	dashboardTop  = 5 // filas de los rankings
	dueSoonDays   = 7
	rankingWindow = 30 // días hacia atrás del ranking por defecto
)

// Period ventana de los rankings: últimos 30 días o todo el histórico.
type Period string

const (
	PeriodLast30 Period = "30d"
	PeriodAll    Period = "all"
)

// DashboardUseCase genera el resumen del dashboard a partir de los repositorios (solo lectura).
type DashboardUseCase struct {
	rentals  repository.RentalRepository
	products repository.ProductRepository
	sites    repository.SiteRepository
	cal      ports.Calendar
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	rentals repository.RentalRepository,
	products repository.ProductRepository,
	sites repository.SiteRepository,
	cal ports.Calendar,
) *DashboardUseCase {
	return &DashboardUseCase{rentals: rentals, products: products, sites: sites, cal: cal}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres lecturas en paralelo:
//  1. alquileres (todos)
//  2. productos
//  3. obras activas
func (uc *DashboardUseCase) GetSummary(ctx context.Context, period Period) (*dto.DashboardSummaryDTO, error) {
	now := uc.cal.Today()
	loc := uc.cal.Loc()

	type rentalsResult struct {
		list []*entity.Rental
		err  error
	}
	type productsResult struct {
		list []*entity.Product
		err  error
	}
	type sitesResult struct {
		list []*entity.Site
		err  error
	}
	rentalsCh := make(chan rentalsResult, 1)
	productsCh := make(chan productsResult, 1)
	sitesCh := make(chan sitesResult, 1)

	go func() {
		list, err := uc.rentals.List(ctx, repository.RentalFilter{})
		rentalsCh <- rentalsResult{list, err}
	}()
	go func() {
		list, err := uc.products.List(ctx, repository.ProductFilter{})
		productsCh <- productsResult{list, err}
	}()
	go func() {
		list, err := uc.sites.List(ctx, repository.SiteFilter{Status: entity.SiteStatusActive})
		sitesCh <- sitesResult{list, err}
	}()

	rentals := <-rentalsCh
	products := <-productsCh
	sites := <-sitesCh
	if rentals.err != nil {
		return nil, fmt.Errorf("dashboard: alquileres: %w", rentals.err)
	}
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if sites.err != nil {
		return nil, fmt.Errorf("dashboard: obras: %w", sites.err)
	}

	out := &dto.DashboardSummaryDTO{
		Overdue:     []dto.RentalDueDTO{},
		DueSoon:     []dto.RentalDueDTO{},
		LowStock:    []dto.StockAlertDTO{},
		OutOfStock:  []dto.StockAlertDTO{},
		UnpaidSites: []dto.UnpaidSiteDTO{},
		DateLabel:   monthLabel(now),
	}
	active := make([]*entity.Rental, 0)
	for _, r := range rentals.list {
		switch r.Status {
		case entity.RentalStatusStarted:
			active = append(active, r)
			out.ActiveCount++
			out.ActiveAmount = out.ActiveAmount.Add(r.TotalPrice)
			out.PendingCollection = out.PendingCollection.Add(r.Resto)
			days := domainrental.DaysBetween(r.ReturnDate, now, loc)
			due := dto.RentalDueDTO{
				RentalID:   r.ID,
				ClientName: r.ClientName,
				WorkName:   r.WorkName,
				ReturnDate: r.ReturnDate.In(loc).Format("2006-01-02"),
				TotalPrice: r.TotalPrice,
			}
			switch {
			case days < 0:
				due.DaysLate = -days
				out.Overdue = append(out.Overdue, due)
				out.OverdueAmount = out.OverdueAmount.Add(r.TotalPrice)
			case days <= dueSoonDays:
				due.DaysLeft = days
				out.DueSoon = append(out.DueSoon, due)
				out.DueSoonAmount = out.DueSoonAmount.Add(r.TotalPrice)
			}
		case entity.RentalStatusBudgeted:
			out.BudgetedCount++
			out.BudgetedAmount = out.BudgetedAmount.Add(r.TotalPrice)
			out.QuotesToConfirm++
		case entity.RentalStatusUnbudgeted:
			out.QuotesToConfirm++
		}
	}
	sort.Slice(out.Overdue, func(i, j int) bool { return out.Overdue[i].DaysLate > out.Overdue[j].DaysLate })
	sort.Slice(out.DueSoon, func(i, j int) bool { return out.DueSoon[i].DaysLeft < out.DueSoon[j].DaysLeft })

	for _, p := range products.list {
		alert := dto.StockAlertDTO{ProductID: p.ID, ProductName: p.Name, StockActual: p.StockActual, StockTotal: p.StockTotal}
		switch {
		case p.StockActual == 0:
			out.OutOfStock = append(out.OutOfStock, alert)
		case p.StockActual < inventory.LowStockLimit:
			out.LowStock = append(out.LowStock, alert)
		}
	}
	out.Usage = productUsage(products.list, active)

	since := time.Time{}
	if period != PeriodAll {
		since = domainrental.StartOfDay(now, loc).AddDate(0, 0, -rankingWindow)
	}
	out.TopProducts, out.TopClients = rankings(rentals.list, since)

	for _, s := range sites.list {
		if s.TotalPrice.IsPositive() && s.Pagado.IsZero() {
			out.UnpaidSites = append(out.UnpaidSites, dto.UnpaidSiteDTO{
				SiteID:     s.ID,
				SiteName:   s.Name,
				ClientName: s.ClientName,
				TotalPrice: s.TotalPrice,
			})
		}
	}
	return out, nil
}

// productUsage unidades alquiladas por producto según los alquileres iniciados y las obras donde están.
func productUsage(products []*entity.Product, active []*entity.Rental) []dto.ProductUsageDTO {
	usage := make([]dto.ProductUsageDTO, 0, len(products))
	for _, p := range products {
		u := dto.ProductUsageDTO{ProductID: p.ID, ProductName: p.Name, StockTotal: p.StockTotal, Sites: []string{}}
		seen := make(map[string]bool)
		for _, r := range active {
			idx := r.Item(p.ID)
			if idx < 0 {
				continue
			}
			u.Rented += r.Items[idx].Quantity
			if !seen[r.WorkName] {
				seen[r.WorkName] = true
				u.Sites = append(u.Sites, r.WorkName)
			}
		}
		u.Available = p.StockTotal - u.Rented
		if u.Available < 0 {
			u.Available = 0
		}
		usage = append(usage, u)
	}
	return usage
}

// rankings top de productos por unidades y de clientes por monto, sobre alquileres creados desde since.
func rankings(rentals []*entity.Rental, since time.Time) ([]dto.TopProductDTO, []dto.TopClientDTO) {
	prodIdx := make(map[string]*dto.TopProductDTO)
	clientIdx := make(map[string]*dto.TopClientDTO)
	for _, r := range rentals {
		if r.CreatedAt.Before(since) {
			continue
		}
		for _, it := range r.Items {
			tp, ok := prodIdx[it.ProductID]
			if !ok {
				tp = &dto.TopProductDTO{ProductID: it.ProductID, ProductName: it.ProductName, Revenue: decimal.Zero}
				prodIdx[it.ProductID] = tp
			}
			tp.Quantity += it.Quantity
			tp.Revenue = tp.Revenue.Add(it.TotalPrice)
		}
		tc, ok := clientIdx[r.ClientID]
		if !ok {
			tc = &dto.TopClientDTO{ClientID: r.ClientID, ClientName: r.ClientName, Revenue: decimal.Zero}
			clientIdx[r.ClientID] = tc
		}
		tc.Rentals++
		tc.Revenue = tc.Revenue.Add(r.TotalPrice)
	}

	products := make([]dto.TopProductDTO, 0, len(prodIdx))
	for _, tp := range prodIdx {
		products = append(products, *tp)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Quantity != products[j].Quantity {
			return products[i].Quantity > products[j].Quantity
		}
		return products[i].ProductName < products[j].ProductName
	})
	clients := make([]dto.TopClientDTO, 0, len(clientIdx))
	for _, tc := range clientIdx {
		clients = append(clients, *tc)
	}
	sort.Slice(clients, func(i, j int) bool {
		if !clients[i].Revenue.Equal(clients[j].Revenue) {
			return clients[i].Revenue.GreaterThan(clients[j].Revenue)
		}
		return clients[i].ClientName < clients[j].ClientName
	})
	if len(products) > dashboardTop {
		products = products[:dashboardTop]
	}
	if len(clients) > dashboardTop {
		clients = clients[:dashboardTop]
	}
	return products, clients
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
