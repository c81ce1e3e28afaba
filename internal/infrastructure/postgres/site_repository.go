package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)

// SiteRepo implementación de SiteRepository sobre PostgreSQL.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

const siteColumns = `id, client_id, client_name, name, description, address, status,
	total_price, pagado, resto, created_at, updated_at`

func scanSite(row pgx.Row) (*entity.Site, error) {
	var s entity.Site
	var status string
	err := row.Scan(&s.ID, &s.ClientID, &s.ClientName, &s.Name, &s.Description, &s.Address, &status,
		&s.TotalPrice, &s.Pagado, &s.Resto, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = entity.SiteStatus(status)
	return &s, nil
}

// Create persiste una nueva obra.
func (r *SiteRepo) Create(ctx context.Context, s *entity.Site) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sites (`+siteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.ClientID, s.ClientName, s.Name, s.Description, s.Address, string(s.Status),
		s.TotalPrice, s.Pagado, s.Resto, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

// GetByID obtiene una obra; (nil, nil) si no existe.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	return r.get(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id)
}

// GetForUpdate obtiene la obra bloqueando su fila.
func (r *SiteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Site, error) {
	return r.get(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1 FOR UPDATE`, id)
}

func (r *SiteRepo) get(ctx context.Context, query, id string) (*entity.Site, error) {
	s, err := scanSite(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return s, nil
}

// Update reemplaza la obra, totales incluidos.
func (r *SiteRepo) Update(ctx context.Context, s *entity.Site) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sites SET client_name = $2, name = $3, description = $4, address = $5, status = $6,
			total_price = $7, pagado = $8, resto = $9, updated_at = $10
		WHERE id = $1`,
		s.ID, s.ClientName, s.Name, s.Description, s.Address, string(s.Status),
		s.TotalPrice, s.Pagado, s.Resto, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista obras, más recientes primero.
func (r *SiteRepo) List(ctx context.Context, f repository.SiteFilter) ([]*entity.Site, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+siteColumns+`
		FROM sites
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR client_id = $2)
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR client_name ILIKE '%' || $3 || '%' OR address ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC, id
		LIMIT NULLIF($4, 0) OFFSET $5`,
		string(f.Status), f.ClientID, f.Search, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina una obra por ID.
func (r *SiteRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
