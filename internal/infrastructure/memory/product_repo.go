package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct{ v view }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		d.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(ctx, func(d *dataset) error {
		if p, ok := d.products[id]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya es exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		d.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.v.read(ctx, func(d *dataset) error {
		for _, p := range d.products {
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Description), search) {
				continue
			}
			out = append(out, copyProduct(p))
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
	return page(out, f.Limit, f.Offset), nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.products, id)
		return nil
	})
}
