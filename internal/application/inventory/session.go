package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
	domainsite "github.com/jhoicas/alquileres-api/internal/domain/site"
)

// Session es el conjunto de productos bloqueados por un comando dentro de una transacción.
// Los productos se bloquean (SELECT FOR UPDATE) en orden de ID para evitar deadlocks, se
// mutan en memoria con las funciones del ledger y Flush persiste solo los que cambiaron.
type Session struct {
	repos    ports.TxRepos
	products map[string]*entity.Product
	before   map[string]entity.Product
}

// NewSession crea una sesión sobre los repositorios de la transacción en curso.
func NewSession(repos ports.TxRepos) *Session {
	return &Session{
		repos:    repos,
		products: make(map[string]*entity.Product),
		before:   make(map[string]entity.Product),
	}
}

// Lock bloquea los productos indicados. Los inexistentes se ignoran: el ledger los trata
// como disponible 0 y Require los reporta como no encontrados.
func (s *Session) Lock(ctx context.Context, ids ...string) error {
	pending := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := s.products[id]; !ok {
			pending = append(pending, id)
		}
	}
	sort.Strings(pending)
	for _, id := range pending {
		p, err := s.repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			continue
		}
		s.products[id] = p
		s.before[id] = *p
	}
	return nil
}

// LockNeeds bloquea los productos de un mapa de necesidades.
func (s *Session) LockNeeds(ctx context.Context, needs map[string]int) error {
	ids := make([]string, 0, len(needs))
	for id := range needs {
		ids = append(ids, id)
	}
	return s.Lock(ctx, ids...)
}

// Require bloquea y devuelve un producto; ErrNotFound si no existe.
func (s *Session) Require(ctx context.Context, id string) (*entity.Product, error) {
	if err := s.Lock(ctx, id); err != nil {
		return nil, err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// Products devuelve los productos bloqueados indexados por ID.
func (s *Session) Products() map[string]*entity.Product {
	return s.products
}

// Flush persiste los productos cuyo stock o capacidad cambió.
func (s *Session) Flush(ctx context.Context, now time.Time) error {
	ids := make([]string, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := s.products[id]
		prev := s.before[id]
		if p.StockActual == prev.StockActual && p.StockTotal == prev.StockTotal {
			continue
		}
		p.UpdatedAt = now
		if err := s.repos.Products.Update(ctx, p); err != nil {
			return err
		}
		s.before[id] = *p
	}
	return nil
}

// RollupSite recalcula los totales de la obra a partir de sus alquileres persistidos
// y la guarda. Una obra inexistente no es un error (alquileres huérfanos).
func RollupSite(ctx context.Context, repos ports.TxRepos, siteID string, now time.Time) (*entity.Site, error) {
	if siteID == "" {
		return nil, nil
	}
	s, err := repos.Sites.GetForUpdate(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	rentals, err := repos.Rentals.List(ctx, repository.RentalFilter{WorkID: siteID})
	if err != nil {
		return nil, err
	}
	domainsite.Rollup(s, rentals)
	s.UpdatedAt = now
	if err := repos.Sites.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
