package rental

import (
	"context"
	"fmt"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/domain"
	domainrental "github.com/jhoicas/alquileres-api/internal/domain/rental"
)

// Bill calcula el cargo prorrateado del alquiler en la ventana pedida:
// to_date (desde la creación hasta hoy), current_month o custom (start/end obligatorios).
func (uc *UseCase) Bill(ctx context.Context, id string, q dto.BillQuery) (*dto.BillResponse, error) {
	r, err := uc.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	loc := uc.cal.Loc()
	now := uc.cal.Today()

	var w domainrental.Window
	switch domainrental.WindowMode(q.Mode) {
	case "", domainrental.WindowToDate:
		w = domainrental.ToDate(r.CreatedAt, now)
	case domainrental.WindowCurrentMonth:
		w = domainrental.CurrentMonth(now, loc)
	case domainrental.WindowCustom:
		start, err := dto.ParseDate(q.Start, loc)
		if err != nil {
			return nil, err
		}
		end, err := dto.ParseDate(q.End, loc)
		if err != nil {
			return nil, err
		}
		if w, err = domainrental.Custom(start, end, loc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: modo de facturación %q", domain.ErrInvalidInput, q.Mode)
	}

	bill := domainrental.Charge(r, w, loc)
	lines := make([]dto.BillLineResponse, 0, len(bill.Lines))
	for _, l := range bill.Lines {
		lines = append(lines, dto.BillLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			DailyRate:   l.DailyRate,
			From:        l.From,
			To:          l.To,
			Days:        l.Days,
			Charge:      l.Charge,
		})
	}
	return &dto.BillResponse{
		RentalID: r.ID,
		Mode:     string(w.Mode),
		Start:    w.Start,
		End:      w.End,
		Lines:    lines,
		Total:    bill.Total,
	}, nil
}
