package documents

import (
	"context"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
)

// PDFGenerator puerto de salida que renderiza un documento comercial.
// El adaptador por defecto usa Maroto v2 (infrastructure/pdf).
type PDFGenerator interface {
	Generate(ctx context.Context, doc *dto.DocumentRecord) ([]byte, error)
}
