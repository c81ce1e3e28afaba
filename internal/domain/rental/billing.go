package rental

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
)

// WindowMode modo de la ventana de facturación.
type WindowMode string

const (
	WindowToDate       WindowMode = "to_date"
	WindowCurrentMonth WindowMode = "current_month"
	WindowCustom       WindowMode = "custom"
)

// Window ventana de facturación [Start, End], ambos días inclusive.
// MinOneDay fuerza al menos un día cobrado por línea ya vigente al cierre (modo "a la fecha").
// Una línea que arranca después de End no cobra nada.
type Window struct {
	Mode      WindowMode
	Start     time.Time
	End       time.Time
	MinOneDay bool
}

// ToDate ventana desde la creación del alquiler hasta hoy.
func ToDate(createdAt, now time.Time) Window {
	return Window{Mode: WindowToDate, Start: createdAt, End: now, MinOneDay: true}
}

// CurrentMonth ventana del primer al último día del mes de now (en loc).
func CurrentMonth(now time.Time, loc *time.Location) Window {
	n := now.In(loc)
	first := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return Window{Mode: WindowCurrentMonth, Start: first, End: last}
}

// Custom ventana arbitraria; end no puede ser anterior a start.
func Custom(start, end time.Time, loc *time.Location) (Window, error) {
	if DaysBetween(end, start, loc) < 0 {
		return Window{}, fmt.Errorf("%w: la fecha de fin es anterior a la de inicio", domain.ErrInvalidInput)
	}
	return Window{Mode: WindowCustom, Start: start, End: end}, nil
}

// BillLine cargo calculado para una línea del alquiler.
type BillLine struct {
	ProductID   string
	ProductName string
	Quantity    int
	DailyRate   decimal.Decimal // por unidad
	From        time.Time
	To          time.Time
	Days        int
	Charge      decimal.Decimal
}

// Bill resultado de facturar un alquiler en una ventana.
type Bill struct {
	RentalID string
	Window   Window
	Lines    []BillLine
	Total    decimal.Decimal
}

// StartOfDay normaliza t a la medianoche de su día en loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween devuelve la diferencia en días calendario end - start (en loc), sin efecto de horario de verano.
func DaysBetween(end, start time.Time, loc *time.Location) int {
	e, s := end.In(loc), start.In(loc)
	eu := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	su := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	return int(eu.Sub(su).Hours() / 24)
}

// ItemCharge calcula el cargo de una línea en la ventana:
//
//	desde = max(AddedDate, Start); días = max(0, End - desde + 1); cargo = días * tarifa * cantidad
func ItemCharge(it entity.RentalItem, w Window, loc *time.Location) BillLine {
	from := it.AddedDate
	if DaysBetween(w.Start, from, loc) > 0 {
		from = w.Start
	}
	days := DaysBetween(w.End, from, loc) + 1
	if days < 0 {
		days = 0
	}
	if w.MinOneDay && days < 1 && DaysBetween(w.End, from, loc) >= 0 {
		days = 1
	}
	rate := it.Rate()
	daily := rate.Mul(decimal.NewFromInt(int64(it.Quantity)))
	return BillLine{
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		DailyRate:   rate,
		From:        StartOfDay(from, loc),
		To:          StartOfDay(w.End, loc),
		Days:        days,
		Charge:      daily.Mul(decimal.NewFromInt(int64(days))),
	}
}

// Charge factura todas las líneas del alquiler en la ventana.
func Charge(r *entity.Rental, w Window, loc *time.Location) Bill {
	bill := Bill{RentalID: r.ID, Window: w, Lines: make([]BillLine, 0, len(r.Items)), Total: decimal.Zero}
	for _, it := range r.Items {
		line := ItemCharge(it, w, loc)
		bill.Lines = append(bill.Lines, line)
		bill.Total = bill.Total.Add(line.Charge)
	}
	return bill
}
