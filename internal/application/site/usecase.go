// Package site casos de uso de obras: alta y edición, pagos y el ciclo de vida
// (finalizar, pausar, reactivar) que arrastra a todos sus alquileres.
package site

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/inventory"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	ledger "github.com/jhoicas/alquileres-api/internal/domain/inventory"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
	domainrental "github.com/jhoicas/alquileres-api/internal/domain/rental"
	domainsite "github.com/jhoicas/alquileres-api/internal/domain/site"
	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// UseCase casos de uso de obras.
type UseCase struct {
	tx    ports.TxRunner
	sites repository.SiteRepository
	cal   ports.Calendar
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, sites repository.SiteRepository, cal ports.Calendar, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, sites: sites, cal: cal, log: log.Component("site")}
}

// command estado de una mutación de obra: la obra y sus alquileres bloqueados.
type command struct {
	repos   ports.TxRepos
	site    *entity.Site
	rentals []*entity.Rental
	stock   *inventory.Session
	now     time.Time
}

// mutate bloquea la obra, sus alquileres y los productos que estos referencian, aplica fn
// y persiste los alquileres devueltos por fn, el stock y la obra.
func (uc *UseCase) mutate(ctx context.Context, id string, extra []string, fn func(c *command) ([]*entity.Rental, error)) (*entity.Site, error) {
	now := uc.cal.Today()
	var out *entity.Site
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		s, err := repos.Sites.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		rentals, err := repos.Rentals.List(ctx, repository.RentalFilter{WorkID: id, ForUpdate: true})
		if err != nil {
			return err
		}
		stock := inventory.NewSession(repos)
		ids := append([]string(nil), extra...)
		for _, r := range rentals {
			for _, it := range r.Items {
				ids = append(ids, it.ProductID)
			}
		}
		if err := stock.Lock(ctx, ids...); err != nil {
			return err
		}
		c := &command{repos: repos, site: s, rentals: rentals, stock: stock, now: now}
		changed, err := fn(c)
		if err != nil {
			return err
		}
		for _, r := range changed {
			r.UpdatedAt = now
			if err := repos.Rentals.Update(ctx, r); err != nil {
				return err
			}
		}
		if err := stock.Flush(ctx, now); err != nil {
			return err
		}
		s.UpdatedAt = now
		if err := repos.Sites.Update(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create da de alta una obra para un cliente existente.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateSiteRequest) (*dto.SiteResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.ClientID == "" {
		return nil, fmt.Errorf("%w: nombre y cliente son obligatorios", domain.ErrInvalidInput)
	}
	status := entity.SiteStatusActive
	if in.Status != "" {
		st, err := entity.ParseSiteStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}
	now := uc.cal.Today()
	s := &entity.Site{
		ID:          uuid.New().String(),
		ClientID:    in.ClientID,
		Name:        name,
		Description: in.Description,
		Address:     in.Address,
		Status:      status,
		TotalPrice:  decimal.Zero,
		Pagado:      decimal.Zero,
		Resto:       decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		client, err := repos.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return fmt.Errorf("cliente %s: %w", in.ClientID, domain.ErrNotFound)
		}
		s.ClientName = client.Name
		return repos.Sites.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("site_id", s.ID).Str("client_id", s.ClientID).Msg("obra creada")
	return toSiteResponse(s), nil
}

// GetByID devuelve una obra; ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.SiteResponse, error) {
	s, err := uc.sites.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSiteResponse(s), nil
}

// List lista obras filtradas por estado, cliente o texto.
func (uc *UseCase) List(ctx context.Context, q dto.SiteListQuery) (*dto.SiteListResponse, error) {
	q.DefaultPage()
	filter := repository.SiteFilter{ClientID: q.ClientID, Search: q.Search, Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		st, err := entity.ParseSiteStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	list, err := uc.sites.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SiteResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSiteResponse(s))
	}
	return &dto.SiteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: len(items)},
	}, nil
}

// Update cambia nombre, descripción o dirección. Un cambio de nombre se proyecta a
// work_name de sus alquileres en la misma transacción.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateSiteRequest) (*dto.SiteResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
	}
	s, err := uc.mutate(ctx, id, nil, func(c *command) ([]*entity.Rental, error) {
		var changed []*entity.Rental
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name != c.site.Name {
				c.site.Name = name
				for _, r := range c.rentals {
					r.WorkName = name
					changed = append(changed, r)
				}
			}
		}
		if in.Description != nil {
			c.site.Description = *in.Description
		}
		if in.Address != nil {
			c.site.Address = *in.Address
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	return toSiteResponse(s), nil
}

// Delete elimina una obra. Se rechaza con ErrConflict mientras tenga alquileres iniciados.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		s, err := repos.Sites.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		started, err := repos.Rentals.List(ctx, repository.RentalFilter{WorkID: id, Status: entity.RentalStatusStarted, Limit: 1})
		if err != nil {
			return err
		}
		if len(started) > 0 {
			return fmt.Errorf("%w: la obra tiene alquileres iniciados", domain.ErrConflict)
		}
		return repos.Sites.Delete(ctx, id)
	})
}

// RecordPayment fija el monto pagado de la obra, recortado a [0, total].
func (uc *UseCase) RecordPayment(ctx context.Context, id string, in dto.PaymentRequest) (*dto.SiteResponse, error) {
	s, err := uc.mutate(ctx, id, nil, func(c *command) ([]*entity.Rental, error) {
		domainsite.Rollup(c.site, c.rentals)
		domainsite.RecordPayment(c.site, in.Amount)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return toSiteResponse(s), nil
}

// Finish devuelve todos los alquileres iniciados de la obra y la marca completada y pagada.
func (uc *UseCase) Finish(ctx context.Context, id string) (*dto.SiteFinishResponse, error) {
	var returned []string
	var clamped []string
	s, err := uc.mutate(ctx, id, nil, func(c *command) ([]*entity.Rental, error) {
		changed, cl, err := domainsite.Finish(c.site, c.rentals, c.stock.Products())
		if err != nil {
			return nil, err
		}
		clamped = cl
		for _, r := range changed {
			returned = append(returned, r.ID)
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}
	if len(clamped) > 0 {
		uc.log.Warn().Str("site_id", id).Strs("products", clamped).Msg("liberación de stock recortada al stock total")
	}
	uc.log.Info().Str("site_id", id).Int("returned", len(returned)).Msg("obra finalizada")
	if returned == nil {
		returned = []string{}
	}
	return &dto.SiteFinishResponse{Site: *toSiteResponse(s), Returned: returned}, nil
}

// Pause pausa una obra activa.
func (uc *UseCase) Pause(ctx context.Context, id string) (*dto.SiteResponse, error) {
	s, err := uc.mutate(ctx, id, nil, func(c *command) ([]*entity.Rental, error) {
		return nil, domainsite.Pause(c.site)
	})
	if err != nil {
		return nil, err
	}
	return toSiteResponse(s), nil
}

// Reactivate reactiva la obra. Si estaba completada, todos sus alquileres finalizados vuelven
// a iniciado; un faltante de stock agregado bloquea la operación (*inventory.ShortfallError).
func (uc *UseCase) Reactivate(ctx context.Context, id string) (*dto.SiteResponse, error) {
	return uc.ReactivateWithRestock(ctx, id, dto.RestockRequest{})
}

// ReactivateWithRestock amplía capacidad de los productos indicados y reactiva la obra,
// todo en una transacción. La reposición solo aplica a obras completadas: una pausada no
// reserva nada al reactivarse.
func (uc *UseCase) ReactivateWithRestock(ctx context.Context, id string, in dto.RestockRequest) (*dto.SiteResponse, error) {
	extra := make([]string, 0, len(in.Restock))
	for _, l := range in.Restock {
		if l.ProductID == "" || l.Quantity < 0 {
			return nil, fmt.Errorf("%w: reposición inválida", domain.ErrInvalidInput)
		}
		extra = append(extra, l.ProductID)
	}
	s, err := uc.mutate(ctx, id, extra, func(c *command) ([]*entity.Rental, error) {
		for _, l := range in.Restock {
			if l.Quantity == 0 {
				continue
			}
			if c.site.Status == entity.SiteStatusPaused {
				return nil, fmt.Errorf("%w: una obra pausada se reactiva sin reposición", domain.ErrInvalidInput)
			}
			p, err := c.stock.Require(ctx, l.ProductID)
			if err != nil {
				return nil, err
			}
			ledger.AdjustCapacity(p, l.Quantity)
		}
		return domainsite.Reactivate(c.site, c.rentals, c.stock.Products())
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("site_id", id).Str("status", string(s.Status)).Msg("obra reactivada")
	return toSiteResponse(s), nil
}

// ReactivationShortfall informa, sin modificar nada, qué faltaría para reactivar la obra.
func (uc *UseCase) ReactivationShortfall(ctx context.Context, id string) ([]ledger.StockShortfall, error) {
	var out []ledger.StockShortfall
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		s, err := repos.Sites.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		rentals, err := repos.Rentals.List(ctx, repository.RentalFilter{WorkID: id, Status: entity.RentalStatusFinished})
		if err != nil {
			return err
		}
		needs := make(map[string]int)
		for _, r := range rentals {
			domainrental.MergeNeeds(needs, domainrental.Needs(r))
		}
		products := make(map[string]*entity.Product, len(needs))
		for pid := range needs {
			p, err := repos.Products.GetByID(ctx, pid)
			if err != nil {
				return err
			}
			if p != nil {
				products[pid] = p
			}
		}
		out = domainsite.Shortfall(s, rentals, products)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []ledger.StockShortfall{}
	}
	return out, nil
}

func toSiteResponse(s *entity.Site) *dto.SiteResponse {
	return &dto.SiteResponse{
		ID:          s.ID,
		ClientID:    s.ClientID,
		ClientName:  s.ClientName,
		Name:        s.Name,
		Description: s.Description,
		Address:     s.Address,
		Status:      string(s.Status),
		TotalPrice:  s.TotalPrice,
		Pagado:      s.Pagado,
		Resto:       s.Resto,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
