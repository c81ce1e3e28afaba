package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/inventory"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	ledger "github.com/jhoicas/alquileres-api/internal/domain/inventory"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
	"github.com/jhoicas/alquileres-api/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos. El stock disponible solo lo mueven
// los alquileres; aquí se administra la capacidad (StockTotal).
type ProductUseCase struct {
	tx   ports.TxRunner
	repo repository.ProductRepository
	cal  ports.Calendar
	log  *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx ports.TxRunner, repo repository.ProductRepository, cal ports.Calendar, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{tx: tx, repo: repo, cal: cal, log: log.Component("product")}
}

// Create crea un nuevo producto con todo su stock disponible.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() || in.StockTotal < 0 {
		return nil, fmt.Errorf("%w: precio y stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := uc.cal.Today()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		StockTotal:  in.StockTotal,
		StockActual: in.StockTotal,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Un nuevo StockTotal conserva las unidades alquiladas
// (StockActual = StockTotal - alquiladas) y no puede quedar por debajo de ellas.
// Un cambio de nombre se proyecta a las líneas de alquiler que lo referencian.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	now := uc.cal.Today()
	var out *entity.Product
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		renamed := false
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			renamed = name != product.Name
			product.Name = name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.Notes != nil {
			product.Notes = *in.Notes
		}
		if in.StockTotal != nil {
			if *in.StockTotal < 0 {
				return fmt.Errorf("%w: el stock total no puede ser negativo", domain.ErrInvalidInput)
			}
			delta := *in.StockTotal - product.StockTotal
			if err := guardCapacity(product, delta); err != nil {
				return err
			}
			ledger.AdjustCapacity(product, delta)
		}
		product.UpdatedAt = now
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		if renamed {
			if err := refreshProductName(ctx, repos, product, now); err != nil {
				return err
			}
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

// AdjustCapacity suma delta unidades a StockTotal y StockActual (alta o baja de capacidad).
// No se puede retirar capacidad que está alquilada.
func (uc *ProductUseCase) AdjustCapacity(ctx context.Context, id string, in dto.AdjustCapacityRequest) (*dto.ProductResponse, error) {
	if in.Delta == 0 {
		return nil, fmt.Errorf("%w: delta debe ser distinto de cero", domain.ErrInvalidInput)
	}
	now := uc.cal.Today()
	var out *entity.Product
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		stock := inventory.NewSession(repos)
		product, err := stock.Require(ctx, id)
		if err != nil {
			return err
		}
		if err := guardCapacity(product, in.Delta); err != nil {
			return err
		}
		ledger.AdjustCapacity(product, in.Delta)
		if err := stock.Flush(ctx, now); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", id).Int("delta", in.Delta).Int("stock_total", out.StockTotal).Msg("capacidad ajustada")
	return toProductResponse(out), nil
}

// List lista productos con búsqueda por nombre y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{Search: search, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Delete elimina un producto. Se rechaza con ErrConflict mientras un alquiler iniciado lo tenga reservado.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		inUse, err := repos.Rentals.List(ctx, repository.RentalFilter{
			ProductID: id,
			Status:    entity.RentalStatusStarted,
			Limit:     1,
		})
		if err != nil {
			return err
		}
		if len(inUse) > 0 {
			return fmt.Errorf("%w: el producto está alquilado", domain.ErrConflict)
		}
		return repos.Products.Delete(ctx, id)
	})
}

// guardCapacity impide que una baja de capacidad alcance unidades alquiladas.
func guardCapacity(p *entity.Product, delta int) error {
	if delta < 0 && -delta > p.StockActual {
		return fmt.Errorf("%w: solo hay %d unidades libres de %s para dar de baja", domain.ErrConflict, p.StockActual, p.Name)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		StockTotal:  p.StockTotal,
		StockActual: p.StockActual,
		Rented:      p.Rented(),
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
