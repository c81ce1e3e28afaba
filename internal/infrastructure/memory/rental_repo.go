package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// RentalRepo implementación en memoria de repository.RentalRepository.
type RentalRepo struct{ v view }

var _ repository.RentalRepository = (*RentalRepo)(nil)

func (r *RentalRepo) Create(ctx context.Context, rental *entity.Rental) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.rentals[rental.ID]; ok {
			return domain.ErrDuplicate
		}
		d.rentals[rental.ID] = rental.Clone()
		return nil
	})
}

func (r *RentalRepo) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	var out *entity.Rental
	err := r.v.read(ctx, func(d *dataset) error {
		if rental, ok := d.rentals[id]; ok {
			out = rental.Clone()
		}
		return nil
	})
	return out, err
}

func (r *RentalRepo) GetForUpdate(ctx context.Context, id string) (*entity.Rental, error) {
	return r.GetByID(ctx, id)
}

func (r *RentalRepo) Update(ctx context.Context, rental *entity.Rental) error {
	return r.v.write(ctx, func(d *dataset) error {
		if _, ok := d.rentals[rental.ID]; !ok {
			return domain.ErrNotFound
		}
		d.rentals[rental.ID] = rental.Clone()
		return nil
	})
}

// List filtra y ordena por fecha de creación descendente.
func (r *RentalRepo) List(ctx context.Context, f repository.RentalFilter) ([]*entity.Rental, error) {
	var out []*entity.Rental
	err := r.v.read(ctx, func(d *dataset) error {
		for _, rental := range d.rentals {
			if matches(rental, f) {
				out = append(out, rental.Clone())
			}
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

func matches(r *entity.Rental, f repository.RentalFilter) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.WorkID != "" && r.WorkID != f.WorkID {
		return false
	}
	if f.ClientID != "" && r.ClientID != f.ClientID {
		return false
	}
	if f.ProductID != "" && r.Item(f.ProductID) < 0 {
		return false
	}
	if f.ReturnFrom != nil && r.ReturnDate.Before(*f.ReturnFrom) {
		return false
	}
	if f.ReturnTo != nil && r.ReturnDate.After(*f.ReturnTo) {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		fields := []string{r.ID, r.ClientName, r.WorkName, r.Notes}
		for _, it := range r.Items {
			fields = append(fields, it.ProductName)
		}
		if !containsAny(search, fields...) {
			return false
		}
	}
	return true
}
