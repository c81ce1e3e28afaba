// Package pdf implementa la representación impresa de los documentos comerciales
// de un alquiler: remito, recibo y cotización.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor               │  Tipo + N° + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Señor(es) / Domicilio / Tel                       │
//	│  OBRA: Nombre / Dirección                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CUERPO: tabla de equipos o leyenda del recibo              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES + FIRMAS                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/alquileres-api/internal/application/documents"
	"github.com/jhoicas/alquileres-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Los montos se imprimen con separadores de miles de es-AR ("$ 12.500").
var moneyPrinter = message.NewPrinter(language.MustParse("es-AR"))

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa documents.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer string
}

var _ documents.PDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador. issuer es el nombre que encabeza cada documento.
func NewMarotoPDFGenerator(issuer string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuer: nonEmpty(issuer, "Alquileres")}
}

// Generate genera el PDF del documento y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(ctx context.Context, doc *dto.DocumentRecord) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("pdf: documento vacío")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(doc.Kind)+" "+doc.Number, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(doc))
	m.AddRows(siteRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	switch documents.Kind(doc.Kind) {
	case documents.KindRemito:
		m.AddRows(remitoBody(doc)...)
	case documents.KindRecibo:
		m.AddRows(reciboBody(doc)...)
	case documents.KindCotizacion:
		m.AddRows(cotizacionBody(doc)...)
	default:
		return nil, fmt.Errorf("pdf: tipo de documento %q no soportado", doc.Kind)
	}

	if doc.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(notesRows(doc.Notes)...)
	}

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

// ── Secciones comunes ─────────────────────────────────────────────────────────

// headerRow: emisor (izq) y tipo + número + fecha (der).
func (g *MarotoPDFGenerator) headerRow(doc *dto.DocumentRecord) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuer, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Alquiler de equipos para la construcción", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title(doc.Kind), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+formatDate(doc), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func clientRow(doc *dto.DocumentRecord) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("SEÑOR(ES)", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.ClientName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Domicilio: %s   |   Tel: %s",
				nonEmpty(doc.ClientAddress, "—"),
				nonEmpty(doc.ClientPhone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func siteRow(doc *dto.DocumentRecord) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("OBRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   %s",
				nonEmpty(doc.SiteName, "—"),
				nonEmpty(doc.SiteAddress, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// ── Remito ────────────────────────────────────────────────────────────────────

func remitoBody(doc *dto.DocumentRecord) []core.Row {
	rows := []core.Row{tableHeaderRow(
		headerCol{"Cant.", 2, align.Center},
		headerCol{"Descripción del equipo", 10, align.Left},
	)}
	for _, l := range doc.LineItems {
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(strconv.Itoa(l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(10).Add(text.New(l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		))
	}
	if !doc.ReturnDate.IsZero() {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Devolución pactada: "+doc.ReturnDate.Format("02/01/2006"), props.Text{
				Size: 8, Top: 3, Color: colorGray,
			}),
		)))
	}
	rows = append(rows, line.NewRow(12))
	return append(rows, signatureRow("Entregó", "Recibí conforme"))
}

// ── Recibo ────────────────────────────────────────────────────────────────────

func reciboBody(doc *dto.DocumentRecord) []core.Row {
	cash, cheque := "[  ]", "[  ]"
	if doc.PaymentMethod == documents.PaymentCheque {
		cheque = "[X]"
	} else {
		cash = "[X]"
	}

	rows := []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New("Recibí la suma de pesos:", props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New(doc.AmountInWords, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
		)),
		row.New(12).Add(col.New(12).Add(
			text.New("En concepto de:", props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New(doc.Concept, props.Text{Size: 10, Top: 6}),
		)),
		row.New(10).Add(
			col.New(6).Add(text.New(
				fmt.Sprintf("%s Efectivo     %s Cheque", cash, cheque),
				props.Text{Size: 9, Top: 3},
			)),
			col.New(6).Add(text.New(money(doc.Total), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Right, Color: colorPrimary, Top: 1,
			})),
		),
		line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}),
		totalsRow(
			totalLine{"Total:", doc.Total, false},
			totalLine{"Pagado:", doc.Pagado, false},
			totalLine{"Resto:", doc.Resto, true},
		),
		line.NewRow(12),
	}
	return append(rows, signatureRow("Firma", "Aclaración"))
}

// ── Cotización ────────────────────────────────────────────────────────────────

func cotizacionBody(doc *dto.DocumentRecord) []core.Row {
	rows := []core.Row{}
	if doc.Concept != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(doc.Concept, props.Text{Size: 9, Top: 2}),
		)))
	}
	rows = append(rows, tableHeaderRow(
		headerCol{"Cant.", 1, align.Center},
		headerCol{"Descripción del equipo", 6, align.Left},
		headerCol{"Precio Unit.", 2, align.Right},
		headerCol{"Total", 3, align.Right},
	))
	for _, l := range doc.LineItems {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(optionalMoney(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(optionalMoney(l.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	rows = append(rows,
		line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}),
		totalsRow(
			totalLine{"Subtotal:", doc.Subtotal, false},
			totalLine{"TOTAL:", doc.Total, true},
		),
		row.New(8).Add(col.New(12).Add(
			text.New("Presupuesto sujeto a disponibilidad de stock al momento de la entrega.", props.Text{
				Size: 7, Top: 3, Color: colorGray,
			}),
		)),
	)
	return rows
}

// ── Bloques reutilizables ─────────────────────────────────────────────────────

type headerCol struct {
	label string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de tabla con texto blanco sobre fondo primario.
func tableHeaderRow(cols ...headerCol) core.Row {
	r := row.New(8)
	for _, h := range cols {
		r.Add(col.New(h.size).Add(text.New(h.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: h.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

type totalLine struct {
	label string
	value decimal.Decimal
	grand bool
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(lines ...totalLine) core.Row {
	labels := make([]core.Component, 0, len(lines))
	values := make([]core.Component, 0, len(lines))
	for i, l := range lines {
		top := float64(i) * 6
		p := props.Text{Size: 9, Align: align.Right, Top: top}
		if l.grand {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		lp, vp := p, p
		lp.Style = fontstyle.Bold
		lp.Right = 2
		vp.Right = 1
		labels = append(labels, text.New(l.label, lp))
		values = append(values, text.New(money(l.value), vp))
	}
	return row.New(float64(len(lines))*6+2).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

func signatureRow(left, right string) core.Row {
	sig := func(label string) core.Col {
		return col.New(5).Add(
			text.New("______________________________", props.Text{Size: 8, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 5, Color: colorGray}),
		)
	}
	return row.New(12).Add(sig(left), col.New(2), sig(right))
}

func notesRows(notes string) []core.Row {
	rows := []core.Row{row.New(5).Add(col.New(12).Add(
		text.New("Observaciones:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
	))}
	for _, chunk := range splitEvery(notes, 110) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func title(kind string) string {
	switch documents.Kind(kind) {
	case documents.KindRemito:
		return "REMITO"
	case documents.KindRecibo:
		return "RECIBO"
	case documents.KindCotizacion:
		return "COTIZACIÓN"
	}
	return "DOCUMENTO"
}

func formatDate(doc *dto.DocumentRecord) string {
	if doc.Date.IsZero() {
		return "—"
	}
	return doc.Date.Format("02/01/2006")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea un monto en pesos con separador de miles; los centavos se muestran solo si existen.
// Ej: 25000 → "$ 25.000", 1250.5 → "$ 1.250,50"
func money(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return moneyPrinter.Sprintf("$ %d", d.IntPart())
	}
	return moneyPrinter.Sprintf("$ %.2f", d.InexactFloat64())
}

func optionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return "—"
	}
	return money(*d)
}

// splitEvery divide s en trozos de como máximo n runas.
func splitEvery(s string, n int) []string {
	runes := []rune(s)
	var parts []string
	for len(runes) > n {
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
