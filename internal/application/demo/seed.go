// Package demo carga un conjunto de datos de ejemplo a través de los casos de uso,
// de modo que stock, totales y obras quedan consistentes.
package demo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/application/rental"
	"github.com/jhoicas/alquileres-api/internal/application/site"
	"github.com/jhoicas/alquileres-api/internal/application/usecase"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// Seeder agrupa los casos de uso usados para sembrar.
type Seeder struct {
	Products *usecase.ProductUseCase
	Clients  *usecase.ClientUseCase
	Sites    *site.UseCase
	Rentals  *rental.UseCase
	Cal      ports.Calendar
	Log      *logger.Logger
}

// Seed crea productos, clientes, obras y alquileres de ejemplo si no hay productos cargados.
// Las fechas de inicio y devolución son relativas a hoy.
func (s *Seeder) Seed(ctx context.Context) error {
	now := s.Cal.Today()
	today := func(offsetDays int) string {
		return now.AddDate(0, 0, offsetDays).Format("2006-01-02")
	}

	existing, err := s.Products.List(ctx, "", dto.PageRequest{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing.Items) > 0 {
		s.Log.Info().Msg("datos de ejemplo omitidos: el catálogo no está vacío")
		return nil
	}

	catalog := []dto.CreateProductRequest{
		{Name: "Martillo de construcción", Description: "Martillo profesional para construcción, mango de fibra de vidrio", Price: decimal.NewFromInt(200), StockTotal: 50},
		{Name: "Taladro eléctrico", Description: "Taladro percutor 750W con maletín y accesorios", Price: decimal.NewFromInt(500), StockTotal: 30},
		{Name: "Andamio modular", Description: "Andamio de 2x1 metros, altura ajustable", Price: decimal.NewFromInt(1200), StockTotal: 15},
		{Name: "Carretilla", Description: "Carretilla de construcción, capacidad 100L", Price: decimal.NewFromInt(350), StockTotal: 25},
		{Name: "Nivel láser", Description: "Nivel láser rotativo profesional, alcance 50m", Price: decimal.NewFromInt(800), StockTotal: 8},
	}
	products := make([]string, 0, len(catalog))
	for _, in := range catalog {
		p, err := s.Products.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("demo: producto %s: %w", in.Name, err)
		}
		products = append(products, p.ID)
	}

	clients := []dto.CreateClientRequest{
		{Name: "Constructora ABC S.A.", Email: "contacto@constructoraabc.com", Phone: "+54 11 1234-5678", Address: "Av. Corrientes 1234, CABA"},
		{Name: "Obras y Proyectos SRL", Email: "info@obrasyproyectos.com", Phone: "+54 11 9876-5432", Address: "Av. Santa Fe 5678, CABA"},
		{Name: "Juan Pérez", Email: "juan.perez@email.com", Phone: "+54 11 5555-1234", Address: "Calle Falsa 123, Buenos Aires"},
	}
	clientIDs := make([]string, 0, len(clients))
	for _, in := range clients {
		c, err := s.Clients.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("demo: cliente %s: %w", in.Name, err)
		}
		clientIDs = append(clientIDs, c.ID)
	}

	sites := []dto.CreateSiteRequest{
		{ClientID: clientIDs[0], Name: "Torre Corrientes", Address: "Av. Corrientes 2500, CABA"},
		{ClientID: clientIDs[1], Name: "Remodelación Santa Fe", Address: "Av. Santa Fe 3100, CABA"},
		{ClientID: clientIDs[2], Name: "Casa Pérez", Address: "Calle Falsa 123, Buenos Aires"},
	}
	siteIDs := make([]string, 0, len(sites))
	for _, in := range sites {
		st, err := s.Sites.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("demo: obra %s: %w", in.Name, err)
		}
		siteIDs = append(siteIDs, st.ID)
	}

	rentals := []dto.CreateRentalRequest{
		{
			WorkID:     siteIDs[0],
			Items:      []dto.RentalItemInput{{ProductID: products[0], Quantity: 20}, {ProductID: products[1], Quantity: 5}},
			StartDate:  today(-2),
			ReturnDate: today(7),
			Status:     string(entity.RentalStatusStarted),
		},
		{
			WorkID:     siteIDs[1],
			Items:      []dto.RentalItemInput{{ProductID: products[2], Quantity: 3}},
			StartDate:  today(-5),
			ReturnDate: today(3),
			Status:     string(entity.RentalStatusStarted),
			Pagado:     decimal.NewFromInt(1000),
		},
		{
			WorkID:     siteIDs[2],
			Items:      []dto.RentalItemInput{{ProductID: products[3], Quantity: 2}, {ProductID: products[4], Quantity: 1}},
			StartDate:  today(1),
			ReturnDate: today(15),
			Status:     string(entity.RentalStatusBudgeted),
		},
	}
	for _, in := range rentals {
		if _, err := s.Rentals.Create(ctx, in); err != nil {
			return fmt.Errorf("demo: alquiler: %w", err)
		}
	}
	s.Log.Info().Int("products", len(products)).Int("clients", len(clientIDs)).Int("rentals", len(rentals)).Msg("datos de ejemplo cargados")
	return nil
}
