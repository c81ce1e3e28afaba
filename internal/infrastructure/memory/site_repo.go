package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// SiteRepo implementación en memoria de repository.SiteRepository.
type SiteRepo struct{ v view }

var _ repository.SiteRepository = (*SiteRepo)(nil)

func (r *SiteRepo) Create(ctx context.Context, s *entity.Site) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.sites[s.ID]; ok {
			return domain.ErrDuplicate
		}
		d.sites[s.ID] = copySite(s)
		return nil
	})
}

func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	var out *entity.Site
	err := r.v.read(ctx, func(d *dataset) error {
		if s, ok := d.sites[id]; ok {
			out = copySite(s)
		}
		return nil
	})
	return out, err
}

func (r *SiteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Site, error) {
	return r.GetByID(ctx, id)
}

func (r *SiteRepo) Update(ctx context.Context, s *entity.Site) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.sites[s.ID]; !ok {
			return domain.ErrNotFound
		}
		d.sites[s.ID] = copySite(s)
		return nil
	})
}

func (r *SiteRepo) List(ctx context.Context, f repository.SiteFilter) ([]*entity.Site, error) {
	var out []*entity.Site
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.v.read(ctx, func(d *dataset) error {
		for _, s := range d.sites {
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			if f.ClientID != "" && s.ClientID != f.ClientID {
				continue
			}
			if search != "" && !containsAny(search, s.Name, s.ClientName, s.Address) {
				continue
			}
			out = append(out, copySite(s))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *SiteRepo) Delete(ctx context.Context, id string) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.sites[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.sites, id)
		return nil
	})
}
