package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// ClientRepo implementación en memoria de repository.ClientRepository.
type ClientRepo struct{ v view }

var _ repository.ClientRepository = (*ClientRepo)(nil)

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.clients[c.ID]; ok {
			return domain.ErrDuplicate
		}
		d.clients[c.ID] = copyClient(c)
		return nil
	})
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	err := r.v.read(ctx, func(d *dataset) error {
		if c, ok := d.clients[id]; ok {
			out = copyClient(c)
		}
		return nil
	})
	return out, err
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.clients[c.ID]; !ok {
			return domain.ErrNotFound
		}
		d.clients[c.ID] = copyClient(c)
		return nil
	})
}

func (r *ClientRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	search = strings.ToLower(strings.TrimSpace(search))
	err := r.v.read(ctx, func(d *dataset) error {
		for _, c := range d.clients {
			if search != "" && !containsAny(search, c.Name, c.Email, c.Phone) {
				continue
			}
			out = append(out, copyClient(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.clients[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.clients, id)
		return nil
	})
}

// containsAny indica si needle (ya en minúsculas) aparece en alguno de los campos.
func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
