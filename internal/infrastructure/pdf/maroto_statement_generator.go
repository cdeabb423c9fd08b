// Package pdf genera el estado de cuenta de un cierre SMD.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Código SMD + título  │  N° Cierre + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PARTES: Cliente / Referidor / Cerrado por                   │
//	│  CONDICIONES: Precio / Renta mensual / Participación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA ABONOS: Fecha | Medio | Referencia | Monto            │
//	│  TABLA LIQUIDACIONES: Mes | Fecha pago | Monto               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total adeudado / Pagado / Saldo / Renta liquidada  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/jhoicas/smd-api/internal/application/reporting"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ reporting.StatementGenerator = (*MarotoStatementGenerator)(nil)

// MarotoStatementGenerator implementa reporting.StatementGenerator usando Maroto v2.
type MarotoStatementGenerator struct {
	printer *message.Printer
}

// NewMarotoStatementGenerator construye el generador. Los montos se formatean con separadores en inglés.
func NewMarotoStatementGenerator() *MarotoStatementGenerator {
	return &MarotoStatementGenerator{printer: message.NewPrinter(language.English)}
}

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStatementGenerator) GenerateStatementPDF(_ context.Context, s reporting.Statement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("SMD closing statement", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(s.Closing))
	m.AddRows(g.termsRow(s.Closing))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PAYMENTS"))
	m.AddRows(tableHeader([]string{"Date", "Method", "Reference", "Amount"}, []int{3, 3, 3, 3}))
	for _, r := range g.paymentRows(s.Payments) {
		m.AddRows(r)
	}

	m.AddRows(row.New(4))
	m.AddRows(sectionTitle("MONTHLY RENT PAYOUTS"))
	m.AddRows(tableHeader([]string{"Month", "Paid at", "Paid by", "Amount"}, []int{3, 3, 3, 3}))
	for _, r := range g.payoutRows(s.Payouts) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: SMD (izq) y número de cierre + fecha de emisión (der).
func (g *MarotoStatementGenerator) headerRow(s reporting.Statement) core.Row {
	c := s.Closing
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(c.DeviceCode, c.Closing.DeviceID), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.DeviceTitle, "-")+"  "+location(c), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CLOSING STATEMENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Closing.ID, props.Text{
				Size: 7, Align: align.Right, Top: 7,
			}),
			text.New("Issued: "+s.GeneratedAt.Format("02/01/2006")+"   Status: "+strings.ToUpper(string(c.Closing.Status)), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func partiesRow(c repository.ClosingRow) core.Row {
	marketer := "-"
	if c.Closing.MarketerID != nil {
		marketer = nonEmpty(c.MarketerName, *c.Closing.MarketerID)
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CUSTOMER", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(c.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   Marketer: %s   |   Closed by: %s",
				nonEmpty(c.CustomerEmail, "-"),
				nonEmpty(c.ContactNumber, "-"),
				marketer,
				nonEmpty(c.ClosedByName, "-"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func (g *MarotoStatementGenerator) termsRow(c repository.ClosingRow) core.Row {
	item := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Size: 10, Top: 5}),
		)
	}
	return row.New(12).Add(
		item("SELL PRICE", g.money(c.Closing.SellPrice)),
		item("MONTHLY RENT", g.money(c.Closing.MonthlyRent)),
		item("SHARE", c.Closing.SharePercentage.StringFixed(2)+"%"),
		item("CLOSED ON", c.Closing.CreatedAt.Format("02/01/2006")),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

// tableHeader: cabecera de tabla; la última columna (monto) va a la derecha.
func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		a := align.Left
		if i == len(labels)-1 {
			a = align.Right
		}
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(cols...)
}

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func (g *MarotoStatementGenerator) paymentRows(payments []*entity.ClosingPayment) []core.Row {
	if len(payments) == 0 {
		return []core.Row{emptyRow("No payments recorded")}
	}
	rows := make([]core.Row, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, row.New(6).Add(
			cell(p.CreatedAt.Format("02/01/2006"), 3, align.Left),
			cell(nonEmpty(string(p.Method), "-"), 3, align.Left),
			cell(nonEmpty(p.ReferenceNo, "-"), 3, align.Left),
			cell(g.money(p.Amount), 3, align.Right),
		))
	}
	return rows
}

func (g *MarotoStatementGenerator) payoutRows(payouts []repository.PayoutRow) []core.Row {
	if len(payouts) == 0 {
		return []core.Row{emptyRow("No payouts recorded")}
	}
	rows := make([]core.Row, 0, len(payouts))
	for _, p := range payouts {
		rows = append(rows, row.New(6).Add(
			cell(p.Payout.Month.String(), 3, align.Left),
			cell(p.Payout.PaidAt.Format("02/01/2006"), 3, align.Left),
			cell(nonEmpty(p.PaidByName, "-"), 3, align.Left),
			cell(g.money(p.Payout.Amount), 3, align.Right),
		))
	}
	return rows
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoStatementGenerator) totalsRow(s reporting.Statement) core.Row {
	label := func(v string, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return text.New(v, p)
	}
	c := s.Closing.Closing
	rent := decimal.Zero
	for _, p := range s.Payouts {
		rent = rent.Add(p.Payout.Amount)
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Total amount due:", false),
			label("Amount paid:", false),
			label("Remaining balance:", true),
			label("Rent paid out:", false),
		),
		col.New(4).Add(
			label(g.money(c.TotalAmountDue), false),
			label(g.money(c.AmountPaid), false),
			label(g.money(c.RemainingBalance()), true),
			label(g.money(rent), false),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separador de miles y dos decimales. Ej: 1250000 → "1,250,000.00".
func (g *MarotoStatementGenerator) money(d decimal.Decimal) string {
	whole := d.Truncate(0)
	cents := d.Sub(whole).Abs().Shift(2).Round(0).IntPart()
	if cents == 100 {
		if d.IsNegative() {
			whole = whole.Sub(decimal.NewFromInt(1))
		} else {
			whole = whole.Add(decimal.NewFromInt(1))
		}
		cents = 0
	}
	sign := ""
	if d.IsNegative() && whole.IsZero() {
		sign = "-"
	}
	return sign + g.printer.Sprintf("%d.%02d", whole.IntPart(), cents)
}

func location(c repository.ClosingRow) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{c.DeviceArea, c.DeviceCity} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
