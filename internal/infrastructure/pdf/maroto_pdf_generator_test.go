package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/infrastructure/pdf"
)

func sampleRecord(kind string) *dto.DocumentRecord {
	unit := decimal.NewFromInt(1250)
	total := decimal.NewFromInt(2500)
	return &dto.DocumentRecord{
		Kind:          kind,
		Number:        "REM-ABCDEF12",
		Date:          time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		ClientName:    "Constructora Núñez",
		ClientAddress: "Av. Siempreviva 742",
		SiteName:      "Edificio Central",
		Concept:       "Alquiler de equipos - Obra: Edificio Central",
		LineItems: []dto.DocumentLine{
			{Quantity: 2, Description: "Andamio tubular", UnitPrice: &unit, Total: &total},
			{Quantity: 1, Description: "Hormigonera 150 L"},
		},
		Subtotal:      total,
		Total:         total,
		Pagado:        decimal.NewFromInt(1000),
		Resto:         decimal.NewFromInt(1500),
		AmountInWords: "dos mil quinientos pesos",
		PaymentMethod: "Cheque",
		ReturnDate:    time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Notes:         "Entregar por la mañana en el portón lateral de la obra.",
	}
}

func TestMarotoPDFGenerator_Generate(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("Alquileres del Sur")

	for _, kind := range []string{"remito", "recibo", "cotizacion"} {
		t.Run(kind, func(t *testing.T) {
			b, err := g.Generate(context.Background(), sampleRecord(kind))
			require.NoError(t, err)
			require.NotEmpty(t, b)
			assert.Equal(t, "%PDF", string(b[:4]))
		})
	}
}

func TestMarotoPDFGenerator_UnknownKind(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("")
	_, err := g.Generate(context.Background(), sampleRecord("factura"))
	assert.Error(t, err)
}

func TestMarotoPDFGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewMarotoPDFGenerator("x").Generate(ctx, sampleRecord("remito"))
	assert.ErrorIs(t, err, context.Canceled)
}
