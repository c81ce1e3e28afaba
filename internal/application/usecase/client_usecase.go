package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// ClientUseCase CRUD de clientes.
type ClientUseCase struct {
	tx   ports.TxRunner
	repo repository.ClientRepository
	cal  ports.Calendar
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(tx ports.TxRunner, repo repository.ClientRepository, cal ports.Calendar) *ClientUseCase {
	return &ClientUseCase{tx: tx, repo: repo, cal: cal}
}

// Create crea un cliente.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	now := uc.cal.Today()
	c := &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   in.Address,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// GetByID obtiene un cliente.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(c), nil
}

// List lista clientes con búsqueda por nombre, email o teléfono.
func (uc *ClientUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.ClientListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Update actualiza un cliente; si cambia el nombre se refresca client_name en obras y alquileres.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
	}
	now := uc.cal.Today()
	var out *entity.Client
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		c, err := repos.Clients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		renamed := false
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			renamed = name != c.Name
			c.Name = name
		}
		if in.Email != nil {
			c.Email = strings.TrimSpace(*in.Email)
		}
		if in.Phone != nil {
			c.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Address != nil {
			c.Address = *in.Address
		}
		if in.Notes != nil {
			c.Notes = *in.Notes
		}
		c.UpdatedAt = now
		if err := repos.Clients.Update(ctx, c); err != nil {
			return err
		}
		if renamed {
			if err := refreshClientName(ctx, repos, c, now); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toClientResponse(out), nil
}

// Delete elimina un cliente sin obras.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		c, err := repos.Clients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		sites, err := repos.Sites.List(ctx, repository.SiteFilter{ClientID: id, Limit: 1})
		if err != nil {
			return err
		}
		if len(sites) > 0 {
			return fmt.Errorf("%w: el cliente tiene obras registradas", domain.ErrConflict)
		}
		return repos.Clients.Delete(ctx, id)
	})
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
