package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

var _ repository.RentalRepository = (*RentalRepo)(nil)

// RentalRepo implementación de RentalRepository sobre PostgreSQL. Las líneas viven en
// rental_items y se reescriben completas en cada Update.
type RentalRepo struct {
	q Querier
}

// NewRentalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRentalRepository(q Querier) *RentalRepo {
	return &RentalRepo{q: q}
}

const rentalColumns = `r.id, r.work_id, r.work_name, r.client_id, r.client_name, r.total_price, r.pagado, r.resto,
	r.return_date, r.created_at, r.status, r.notes, r.updated_at`

func scanRental(row pgx.Row) (*entity.Rental, error) {
	var r entity.Rental
	var status string
	err := row.Scan(&r.ID, &r.WorkID, &r.WorkName, &r.ClientID, &r.ClientName, &r.TotalPrice, &r.Pagado, &r.Resto,
		&r.ReturnDate, &r.CreatedAt, &status, &r.Notes, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Status = entity.RentalStatus(status)
	return &r, nil
}

// Create persiste el alquiler y sus líneas.
func (r *RentalRepo) Create(ctx context.Context, rental *entity.Rental) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO rentals (id, work_id, work_name, client_id, client_name, total_price, pagado, resto,
			return_date, created_at, status, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rental.ID, rental.WorkID, rental.WorkName, rental.ClientID, rental.ClientName,
		rental.TotalPrice, rental.Pagado, rental.Resto, rental.ReturnDate, rental.CreatedAt,
		string(rental.Status), rental.Notes, rental.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert rental: %w", err)
	}
	return r.insertItems(ctx, rental)
}

// GetByID obtiene un alquiler con sus líneas; (nil, nil) si no existe.
func (r *RentalRepo) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	return r.get(ctx, `SELECT `+rentalColumns+` FROM rentals r WHERE r.id = $1`, id)
}

// GetForUpdate obtiene el alquiler bloqueando su fila.
func (r *RentalRepo) GetForUpdate(ctx context.Context, id string) (*entity.Rental, error) {
	return r.get(ctx, `SELECT `+rentalColumns+` FROM rentals r WHERE r.id = $1 FOR UPDATE`, id)
}

func (r *RentalRepo) get(ctx context.Context, query, id string) (*entity.Rental, error) {
	rental, err := scanRental(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rental: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Rental{rental}); err != nil {
		return nil, err
	}
	return rental, nil
}

// Update reemplaza el alquiler y sus líneas.
func (r *RentalRepo) Update(ctx context.Context, rental *entity.Rental) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE rentals SET work_id = $2, work_name = $3, client_id = $4, client_name = $5,
			total_price = $6, pagado = $7, resto = $8, return_date = $9, created_at = $10,
			status = $11, notes = $12, updated_at = $13
		WHERE id = $1`,
		rental.ID, rental.WorkID, rental.WorkName, rental.ClientID, rental.ClientName,
		rental.TotalPrice, rental.Pagado, rental.Resto, rental.ReturnDate, rental.CreatedAt,
		string(rental.Status), rental.Notes, rental.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update rental: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM rental_items WHERE rental_id = $1`, rental.ID); err != nil {
		return fmt.Errorf("delete rental items: %w", err)
	}
	return r.insertItems(ctx, rental)
}

// List filtra alquileres, más recientes primero. Con ForUpdate bloquea las filas devueltas.
func (r *RentalRepo) List(ctx context.Context, f repository.RentalFilter) ([]*entity.Rental, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != "" {
		where = append(where, "r.status = "+arg(string(f.Status)))
	}
	if f.WorkID != "" {
		where = append(where, "r.work_id = "+arg(f.WorkID))
	}
	if f.ClientID != "" {
		where = append(where, "r.client_id = "+arg(f.ClientID))
	}
	if f.ProductID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM rental_items i WHERE i.rental_id = r.id AND i.product_id = "+arg(f.ProductID)+")")
	}
	if f.ReturnFrom != nil {
		where = append(where, "r.return_date >= "+arg(*f.ReturnFrom))
	}
	if f.ReturnTo != nil {
		where = append(where, "r.return_date <= "+arg(*f.ReturnTo))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg("%" + s + "%")
		where = append(where, "(r.id ILIKE "+p+" OR r.client_name ILIKE "+p+" OR r.work_name ILIKE "+p+
			" OR r.notes ILIKE "+p+" OR EXISTS (SELECT 1 FROM rental_items i WHERE i.rental_id = r.id AND i.product_name ILIKE "+p+"))")
	}

	var b strings.Builder
	b.WriteString("SELECT " + rentalColumns + " FROM rentals r")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY r.created_at DESC, r.id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	if f.Offset > 0 {
		b.WriteString(" OFFSET " + arg(f.Offset))
	}
	if f.ForUpdate {
		b.WriteString(" FOR UPDATE")
	}

	rows, err := r.q.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	var list []*entity.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan rental: %w", err)
		}
		list = append(list, rental)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga las líneas de todos los alquileres en una sola consulta.
func (r *RentalRepo) loadItems(ctx context.Context, rentals []*entity.Rental) error {
	if len(rentals) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Rental, len(rentals))
	ids := make([]string, 0, len(rentals))
	for _, rental := range rentals {
		rental.Items = []entity.RentalItem{}
		byID[rental.ID] = rental
		ids = append(ids, rental.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT rental_id, product_id, product_name, quantity, unit_price, daily_price, total_price, added_date
		FROM rental_items
		WHERE rental_id = ANY($1)
		ORDER BY rental_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list rental items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rentalID string
		var it entity.RentalItem
		if err := rows.Scan(&rentalID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice,
			&it.DailyPrice, &it.TotalPrice, &it.AddedDate); err != nil {
			return fmt.Errorf("scan rental item: %w", err)
		}
		if rental, ok := byID[rentalID]; ok {
			rental.Items = append(rental.Items, it)
		}
	}
	return rows.Err()
}

// insertItems escribe las líneas en un único batch.
func (r *RentalRepo) insertItems(ctx context.Context, rental *entity.Rental) error {
	if len(rental.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, it := range rental.Items {
		batch.Queue(`
			INSERT INTO rental_items (rental_id, position, product_id, product_name, quantity, unit_price,
				daily_price, total_price, added_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rental.ID, i, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice,
			it.DailyPrice, it.TotalPrice, it.AddedDate,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range rental.Items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert rental item: %w", err)
		}
	}
	return nil
}
