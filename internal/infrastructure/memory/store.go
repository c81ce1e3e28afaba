// Package memory implementa los repositorios sobre un dataset en memoria con un único
// escritor. Cada transacción trabaja sobre una copia del dataset y la publica solo
// si termina sin error, así un comando fallido no deja cambios parciales.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
)

type dataset struct {
	products map[string]*entity.Product
	clients  map[string]*entity.Client
	sites    map[string]*entity.Site
	rentals  map[string]*entity.Rental
}

func newDataset() *dataset {
	return &dataset{
		products: make(map[string]*entity.Product),
		clients:  make(map[string]*entity.Client),
		sites:    make(map[string]*entity.Site),
		rentals:  make(map[string]*entity.Rental),
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		products: make(map[string]*entity.Product, len(d.products)),
		clients:  make(map[string]*entity.Client, len(d.clients)),
		sites:    make(map[string]*entity.Site, len(d.sites)),
		rentals:  make(map[string]*entity.Rental, len(d.rentals)),
	}
	for id, p := range d.products {
		c.products[id] = copyProduct(p)
	}
	for id, cl := range d.clients {
		c.clients[id] = copyClient(cl)
	}
	for id, s := range d.sites {
		c.sites[id] = copySite(s)
	}
	for id, r := range d.rentals {
		c.rentals[id] = r.Clone()
	}
	return c
}

// view acceso al dataset: en vivo (con bloqueo) o dentro de una transacción (sin bloqueo propio).
type view interface {
	read(ctx context.Context, fn func(d *dataset) error) error
	write(ctx context.Context, fn func(d *dataset) error) error
}

// Store dataset compartido. writer serializa escrituras y transacciones; mu protege el
// puntero al dataset frente a lecturas concurrentes.
type Store struct {
	writer sync.Mutex
	mu     sync.RWMutex
	data   *dataset
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// Repos devuelve repositorios que operan en vivo sobre el store (fuera de transacción).
func (s *Store) Repos() ports.TxRepos {
	return reposOver(liveView{s})
}

// Run ejecuta fn sobre una copia del dataset y la publica si fn no devuelve error.
// Las transacciones se serializan (un único escritor).
func (s *Store) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writer.Lock()
	defer s.writer.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(reposOver(&txView{data: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

var _ ports.TxRunner = (*Store)(nil)

func reposOver(v view) ports.TxRepos {
	return ports.TxRepos{
		Products: &ProductRepo{v: v},
		Clients:  &ClientRepo{v: v},
		Sites:    &SiteRepo{v: v},
		Rentals:  &RentalRepo{v: v},
	}
}

type liveView struct{ s *Store }

func (l liveView) read(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return fn(l.s.data)
}

// write fuera de transacción: toma el turno de escritor para no pisar una tx en curso.
func (l liveView) write(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.s.writer.Lock()
	defer l.s.writer.Unlock()
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return fn(l.s.data)
}

type txView struct{ data *dataset }

func (t *txView) read(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.data)
}

func (t *txView) write(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.data)
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func copyClient(c *entity.Client) *entity.Client {
	cp := *c
	return &cp
}

func copySite(s *entity.Site) *entity.Site {
	cp := *s
	return &cp
}

// page aplica offset/limit; limit <= 0 devuelve todo desde offset.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
