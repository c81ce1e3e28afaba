// Package documents arma los registros de remito, recibo y cotización de un alquiler
// y delega su representación en PDF.
package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/application/ports"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/domain/entity"
	"github.com/jhoicas/alquileres-api/internal/domain/repository"
)

// Kind tipo de documento.
type Kind string

const (
	KindRemito     Kind = "remito"
	KindRecibo     Kind = "recibo"
	KindCotizacion Kind = "cotizacion"
)

// Formas de pago aceptadas en el recibo.
const (
	PaymentCash   = "Efectivo"
	PaymentCheque = "Cheque"
)

// ParseKind valida el tipo de documento.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindRemito, KindRecibo, KindCotizacion:
		return k, nil
	}
	return "", fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, s)
}

// Options parámetros opcionales del documento.
type Options struct {
	PaymentMethod string // recibo: Efectivo (defecto) o Cheque
}

// UseCase genera documentos comerciales a partir de un alquiler.
type UseCase struct {
	rentals   repository.RentalRepository
	sites     repository.SiteRepository
	clients   repository.ClientRepository
	generator PDFGenerator
	cal       ports.Calendar
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	rentals repository.RentalRepository,
	sites repository.SiteRepository,
	clients repository.ClientRepository,
	generator PDFGenerator,
	cal ports.Calendar,
) *UseCase {
	return &UseCase{rentals: rentals, sites: sites, clients: clients, generator: generator, cal: cal}
}

// Record arma el registro plano del documento pedido.
func (uc *UseCase) Record(ctx context.Context, rentalID string, kind Kind, opts Options) (*dto.DocumentRecord, error) {
	r, err := uc.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	rec := &dto.DocumentRecord{
		Kind:       string(kind),
		Number:     documentNumber(kind, r.ID),
		Date:       uc.cal.Today(),
		RentalID:   r.ID,
		ClientName: r.ClientName,
		SiteName:   r.WorkName,
		Subtotal:   r.TotalPrice,
		Total:      r.TotalPrice,
		Pagado:     r.Pagado,
		Resto:      r.Resto,
		ReturnDate: r.ReturnDate,
		Notes:      r.Notes,
	}
	// Direcciones: la del cliente va como domicilio y la de la obra como localidad.
	if c, err := uc.clients.GetByID(ctx, r.ClientID); err != nil {
		return nil, err
	} else if c != nil {
		rec.ClientAddress = c.Address
		rec.ClientPhone = c.Phone
	}
	if s, err := uc.sites.GetByID(ctx, r.WorkID); err != nil {
		return nil, err
	} else if s != nil {
		rec.SiteAddress = s.Address
	}

	switch kind {
	case KindRemito:
		rec.LineItems = plainLines(r)
	case KindRecibo:
		method, err := paymentMethod(opts.PaymentMethod)
		if err != nil {
			return nil, err
		}
		rec.PaymentMethod = method
		rec.Concept = "Alquiler de equipos - Obra: " + r.WorkName
		rec.AmountInWords = AmountInWords(r.TotalPrice)
	case KindCotizacion:
		rec.Concept = "Presupuesto de alquiler - Obra: " + r.WorkName
		rec.LineItems = pricedLines(r)
	default:
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, kind)
	}
	return rec, nil
}

// PDF genera el documento en PDF y su nombre de archivo sugerido.
func (uc *UseCase) PDF(ctx context.Context, rentalID string, kind Kind, opts Options) ([]byte, string, error) {
	rec, err := uc.Record(ctx, rentalID, kind, opts)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.generator.Generate(ctx, rec)
	if err != nil {
		return nil, "", fmt.Errorf("documento %s: generación fallida: %w", kind, err)
	}
	filename := fmt.Sprintf("%s_%s.pdf", kind, rec.Number)
	return b, filename, nil
}

func plainLines(r *entity.Rental) []dto.DocumentLine {
	lines := make([]dto.DocumentLine, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, dto.DocumentLine{Quantity: it.Quantity, Description: it.ProductName})
	}
	return lines
}

func pricedLines(r *entity.Rental) []dto.DocumentLine {
	lines := make([]dto.DocumentLine, 0, len(r.Items))
	for _, it := range r.Items {
		unit, total := it.UnitPrice, it.TotalPrice
		lines = append(lines, dto.DocumentLine{
			Quantity:    it.Quantity,
			Description: it.ProductName,
			UnitPrice:   &unit,
			Total:       &total,
		})
	}
	return lines
}

func paymentMethod(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "efectivo":
		return PaymentCash, nil
	case "cheque":
		return PaymentCheque, nil
	}
	return "", fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, s)
}

// documentNumber numeración derivada del alquiler: prefijo por tipo + 8 primeros caracteres del ID.
func documentNumber(kind Kind, rentalID string) string {
	prefix := map[Kind]string{KindRemito: "REM", KindRecibo: "REC", KindCotizacion: "COT"}[kind]
	id := strings.ToUpper(strings.ReplaceAll(rentalID, "-", ""))
	if len(id) > 8 {
		id = id[:8]
	}
	return prefix + "-" + id
}
