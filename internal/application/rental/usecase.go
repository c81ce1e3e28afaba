// Package rental contiene los casos de uso del agregado Alquiler: alta, edición de líneas,
// pagos, transiciones de estado y facturación. Cada comando corre en una transacción y
// recalcula la obra a la que pertenece el alquiler.
package rental

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/inventory"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
	domainrental "github.com/jhoicas/alquileres-api/internal/domain/rental"
	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// UseCase casos de uso de alquileres.
type UseCase struct {
	tx      ports.TxRunner
	rentals repository.RentalRepository
	cal     ports.Calendar
	log     *logger.Logger
}

// NewUseCase construye el caso de uso. rentals se usa para lecturas fuera de transacción.
func NewUseCase(tx ports.TxRunner, rentals repository.RentalRepository, cal ports.Calendar, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, rentals: rentals, cal: cal, log: log.Component("rental")}
}

// command es el estado de una mutación en curso: repositorios de la tx, la obra y el
// alquiler bloqueados y la sesión de stock. site es nil si el alquiler no tiene obra.
type command struct {
	repos  ports.TxRepos
	site   *entity.Site
	rental *entity.Rental
	stock  *inventory.Session
	now    time.Time
}

// requireActiveSite impide reservar stock bajo una obra pausada o completada.
func (c *command) requireActiveSite() error {
	if c.site != nil && c.site.Status != entity.SiteStatusActive {
		return fmt.Errorf("%w: la obra %q está %s", domain.ErrInvalidTransition, c.site.Name, c.site.Status)
	}
	return nil
}

// mutate bloquea obra, alquiler y productos (en ese orden), aplica fn, recalcula totales,
// persiste y actualiza el rollup de la obra. extra son productos adicionales a bloquear.
func (uc *UseCase) mutate(ctx context.Context, id string, extra []string, fn func(c *command) error) (*entity.Rental, error) {
	current, err := uc.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.cal.Today()

	var out *entity.Rental
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		var site *entity.Site
		if current.WorkID != "" {
			s, err := repos.Sites.GetForUpdate(ctx, current.WorkID)
			if err != nil {
				return err
			}
			site = s
		}
		r, err := repos.Rentals.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		stock := inventory.NewSession(repos)
		ids := append(productIDs(r), extra...)
		if err := stock.Lock(ctx, ids...); err != nil {
			return err
		}
		c := &command{repos: repos, site: site, rental: r, stock: stock, now: now}
		if err := fn(c); err != nil {
			return err
		}
		domainrental.Recompute(r)
		r.UpdatedAt = now
		if err := repos.Rentals.Update(ctx, r); err != nil {
			return err
		}
		if err := stock.Flush(ctx, now); err != nil {
			return err
		}
		if _, err := inventory.RollupSite(ctx, repos, r.WorkID, now); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *UseCase) warnClamped(rentalID string, clamped []string) {
	if len(clamped) == 0 {
		return
	}
	uc.log.Warn().
		Str("rental_id", rentalID).
		Strs("products", clamped).
		Msg("liberación de stock recortada al stock total")
}

// Create da de alta un alquiler para una obra activa. Las líneas toman el precio del
// producto; si el estado pedido es "iniciado" se reserva el stock en la misma transacción.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateRentalRequest) (*dto.RentalResponse, error) {
	if strings.TrimSpace(in.WorkID) == "" {
		return nil, fmt.Errorf("%w: la obra es obligatoria", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el alquiler necesita al menos un producto", domain.ErrInvalidInput)
	}
	target := entity.RentalStatusUnbudgeted
	if in.Status != "" {
		st, err := entity.ParseRentalStatus(in.Status)
		if err != nil {
			return nil, err
		}
		if st == entity.RentalStatusFinished {
			return nil, fmt.Errorf("%w: no se puede crear un alquiler finalizado", domain.ErrInvalidInput)
		}
		target = st
	}
	loc := uc.cal.Loc()
	returnDate, err := dto.ParseDate(in.ReturnDate, loc)
	if err != nil {
		return nil, err
	}
	now := uc.cal.Today()
	createdAt := now
	if in.StartDate != "" {
		if createdAt, err = dto.ParseDate(in.StartDate, loc); err != nil {
			return nil, err
		}
	}
	needs := make(map[string]int, len(in.Items))
	order := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cada línea necesita producto y cantidad positiva", domain.ErrInvalidInput)
		}
		if _, seen := needs[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		needs[it.ProductID] += it.Quantity
	}

	var out *entity.Rental
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		site, err := repos.Sites.GetForUpdate(ctx, in.WorkID)
		if err != nil {
			return err
		}
		if site == nil {
			return fmt.Errorf("obra %s: %w", in.WorkID, domain.ErrNotFound)
		}
		if site.Status != entity.SiteStatusActive {
			return fmt.Errorf("%w: la obra %q no está activa", domain.ErrInvalidInput, site.Name)
		}
		stock := inventory.NewSession(repos)
		if err := stock.LockNeeds(ctx, needs); err != nil {
			return err
		}
		r := &entity.Rental{
			ID:         uuid.New().String(),
			WorkID:     site.ID,
			WorkName:   site.Name,
			ClientID:   site.ClientID,
			ClientName: site.ClientName,
			ReturnDate: returnDate,
			CreatedAt:  createdAt,
			Status:     entity.RentalStatusUnbudgeted,
			Notes:      in.Notes,
			UpdatedAt:  now,
		}
		for _, id := range order {
			p, err := stock.Require(ctx, id)
			if err != nil {
				return err
			}
			if err := checkAvailable(p, needs[id]); err != nil {
				return err
			}
			r.Items = append(r.Items, entity.RentalItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    needs[id],
				UnitPrice:   p.Price,
				AddedDate:   createdAt,
			})
		}
		domainrental.Recompute(r)
		switch target {
		case entity.RentalStatusBudgeted:
			if err := domainrental.Budget(r); err != nil {
				return err
			}
		case entity.RentalStatusStarted:
			if err := domainrental.Start(r, stock.Products()); err != nil {
				return err
			}
		}
		domainrental.RecordPayment(r, in.Pagado)
		if err := repos.Rentals.Create(ctx, r); err != nil {
			return err
		}
		if err := stock.Flush(ctx, now); err != nil {
			return err
		}
		if _, err := inventory.RollupSite(ctx, repos, r.WorkID, now); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("rental_id", out.ID).Str("work_id", out.WorkID).Str("status", string(out.Status)).Msg("alquiler creado")
	return toRentalResponse(out), nil
}

// GetByID devuelve un alquiler; ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.RentalResponse, error) {
	r, err := uc.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toRentalResponse(r), nil
}

// List lista alquileres con filtros opcionales.
func (uc *UseCase) List(ctx context.Context, q dto.RentalListQuery) (*dto.RentalListResponse, error) {
	q.DefaultPage()
	filter := repository.RentalFilter{
		WorkID:    q.WorkID,
		ClientID:  q.ClientID,
		ProductID: q.ProductID,
		Search:    q.Search,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.Status != "" {
		st, err := entity.ParseRentalStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	var err error
	loc := uc.cal.Loc()
	if filter.ReturnFrom, err = dto.ParseOptionalDate(q.ReturnFrom, loc); err != nil {
		return nil, err
	}
	if filter.ReturnTo, err = dto.ParseOptionalDate(q.ReturnTo, loc); err != nil {
		return nil, err
	}
	list, err := uc.rentals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RentalResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRentalResponse(r))
	}
	return &dto.RentalListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: len(items)},
	}, nil
}

// Update cambia fecha de devolución y/o notas. Se admite en cualquier estado.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateRentalRequest) (*dto.RentalResponse, error) {
	var returnDate *time.Time
	if in.ReturnDate != nil {
		d, err := dto.ParseDate(*in.ReturnDate, uc.cal.Loc())
		if err != nil {
			return nil, err
		}
		returnDate = &d
	}
	r, err := uc.mutate(ctx, id, nil, func(c *command) error {
		if returnDate != nil {
			c.rental.ReturnDate = *returnDate
		}
		if in.Notes != nil {
			c.rental.Notes = *in.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRentalResponse(r), nil
}

// RecordPayment fija el monto pagado del alquiler, recortado a [0, total].
func (uc *UseCase) RecordPayment(ctx context.Context, id string, in dto.PaymentRequest) (*dto.RentalResponse, error) {
	r, err := uc.mutate(ctx, id, nil, func(c *command) error {
		domainrental.RecordPayment(c.rental, in.Amount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRentalResponse(r), nil
}

func productIDs(r *entity.Rental) []string {
	ids := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func toRentalResponse(r *entity.Rental) *dto.RentalResponse {
	items := make([]dto.RentalItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.RentalItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			DailyPrice:  it.Rate(),
			TotalPrice:  it.TotalPrice,
			AddedDate:   it.AddedDate,
		})
	}
	return &dto.RentalResponse{
		ID:         r.ID,
		WorkID:     r.WorkID,
		WorkName:   r.WorkName,
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		Items:      items,
		TotalPrice: r.TotalPrice,
		Pagado:     r.Pagado,
		Resto:      r.Resto,
		ReturnDate: r.ReturnDate,
		CreatedAt:  r.CreatedAt,
		Status:     string(r.Status),
		Notes:      r.Notes,
		UpdatedAt:  r.UpdatedAt,
	}
}
