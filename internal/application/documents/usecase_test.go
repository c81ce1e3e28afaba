package documents_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/alquileres-api/internal/application/documents"
	"github.com/jhoicas/alquileres-api/internal/application/dto"
	"github.com/jhoicas/alquileres-api/internal/domain"
	"github.com/jhoicas/alquileres-api/internal/testutil"
)

var ctx = context.Background()

// fakeGenerator registra el último documento recibido.
type fakeGenerator struct {
	last *dto.DocumentRecord
	err  error
}

func (g *fakeGenerator) Generate(_ context.Context, rec *dto.DocumentRecord) ([]byte, error) {
	g.last = rec
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func setup(t *testing.T) (*testutil.App, *documents.UseCase, *fakeGenerator, *dto.RentalResponse) {
	t.Helper()
	app := testutil.NewApp(time.Date(2024, 3, 10, 12, 0, 0, 0, testutil.ART))
	p := app.MustProduct(t, "Andamio", 1200, 15)
	q := app.MustProduct(t, "Carretilla", 350, 25)
	s := app.MustSite(t, "Constructora ABC", "Torre Norte")
	r := app.MustRental(t, s.ID, "iniciado", "", testutil.Item(p.ID, 2), testutil.Item(q.ID, 1))
	_, err := app.Rentals.RecordPayment(ctx, r.ID, dto.PaymentRequest{Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	gen := &fakeGenerator{}
	uc := documents.NewUseCase(app.Repos.Rentals, app.Repos.Sites, app.Repos.Clients, gen, app.Cal)
	return app, uc, gen, r
}

// ──────────────────────────────────────────────────────────────────────────────
// Registros
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_Remito(t *testing.T) {
	_, uc, _, r := setup(t)

	rec, err := uc.Record(ctx, r.ID, documents.KindRemito, documents.Options{})
	require.NoError(t, err)
	assert.Equal(t, "remito", rec.Kind)
	assert.True(t, strings.HasPrefix(rec.Number, "REM-"))
	assert.Len(t, rec.Number, len("REM-")+8)
	assert.Equal(t, "Constructora ABC", rec.ClientName)
	assert.Equal(t, "Av. Siempreviva 742", rec.ClientAddress)
	assert.Equal(t, "Torre Norte", rec.SiteName)
	assert.Equal(t, "Ruta 8 km 50", rec.SiteAddress)
	require.Len(t, rec.LineItems, 2)
	assert.Equal(t, dto.DocumentLine{Quantity: 2, Description: "Andamio"}, rec.LineItems[0])
	assert.True(t, rec.Total.Equal(decimal.NewFromInt(2750)))
	assert.True(t, rec.Resto.Equal(decimal.NewFromInt(1750)))
}

func TestRecord_Recibo(t *testing.T) {
	_, uc, _, r := setup(t)

	rec, err := uc.Record(ctx, r.ID, documents.KindRecibo, documents.Options{})
	require.NoError(t, err)
	assert.Equal(t, documents.PaymentCash, rec.PaymentMethod)
	assert.Equal(t, "Alquiler de equipos - Obra: Torre Norte", rec.Concept)
	assert.Equal(t, "dos mil setecientos cincuenta pesos", rec.AmountInWords)
	assert.Empty(t, rec.LineItems)

	rec, err = uc.Record(ctx, r.ID, documents.KindRecibo, documents.Options{PaymentMethod: "CHEQUE"})
	require.NoError(t, err)
	assert.Equal(t, documents.PaymentCheque, rec.PaymentMethod)

	_, err = uc.Record(ctx, r.ID, documents.KindRecibo, documents.Options{PaymentMethod: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_Cotizacion(t *testing.T) {
	_, uc, _, r := setup(t)

	rec, err := uc.Record(ctx, r.ID, documents.KindCotizacion, documents.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Presupuesto de alquiler - Obra: Torre Norte", rec.Concept)
	require.Len(t, rec.LineItems, 2)
	line := rec.LineItems[0]
	require.NotNil(t, line.UnitPrice)
	require.NotNil(t, line.Total)
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(1200)))
	assert.True(t, line.Total.Equal(decimal.NewFromInt(2400)))
}

func TestRecord_AlquilerInexistente(t *testing.T) {
	_, uc, _, _ := setup(t)

	_, err := uc.Record(ctx, "no-existe", documents.KindRemito, documents.Options{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestPDF_NombreDeArchivo(t *testing.T) {
	_, uc, gen, r := setup(t)

	b, name, err := uc.PDF(ctx, r.ID, documents.KindCotizacion, documents.Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	require.NotNil(t, gen.last)
	assert.Equal(t, "cotizacion_"+gen.last.Number+".pdf", name)
}

func TestPDF_ErrorDelGenerador(t *testing.T) {
	_, uc, gen, r := setup(t)
	gen.err = errors.New("sin fuentes")

	_, _, err := uc.PDF(ctx, r.ID, documents.KindRemito, documents.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sin fuentes")
}

func TestParseKind(t *testing.T) {
	k, err := documents.ParseKind("Recibo")
	require.NoError(t, err)
	assert.Equal(t, documents.KindRecibo, k)

	_, err = documents.ParseKind("factura")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
