// Package pdf renders transaction receipts with Maroto v2.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: shop name        │  N° + date + type │
//	│  SOURCE (bought only)                         │
//	│  ───────────────────────────────────────────  │
//	│  TABLE: Qty | Product | Unit price | Subtotal │
//	│  ───────────────────────────────────────────  │
//	│  TOTAL                                        │
//	└───────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/shopdb-api/internal/application/ports"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.ReceiptRenderer = (*ReceiptRenderer)(nil)

// ReceiptRenderer implementa ports.ReceiptRenderer usando Maroto v2.
type ReceiptRenderer struct {
	printer *message.Printer
}

// NewReceiptRenderer builds a renderer that formats amounts for tag.
func NewReceiptRenderer(tag language.Tag) *ReceiptRenderer {
	return &ReceiptRenderer{printer: message.NewPrinter(tag)}
}

// Render genera el PDF y devuelve sus bytes.
func (g *ReceiptRenderer) Render(r ports.Receipt) ([]byte, error) {
	if r.Transaction == nil {
		return nil, fmt.Errorf("pdf: receipt without transaction")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Receipt %d", r.Transaction.ID), true).
		WithAuthor(nonEmpty(r.ShopName, "shopdb"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	if r.SourceName != "" {
		m.AddRows(sourceRow(r.SourceName))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, item := range r.Items {
		m.AddRows(g.itemRow(item))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(r.Transaction.Total))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptRenderer) headerRow(r ports.Receipt) core.Row {
	t := r.Transaction
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.ShopName, "shopdb"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(typeLabel(t.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(g.printer.Sprintf("N° %d", t.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New("Date: "+t.Date.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func sourceRow(name string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("SOURCE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(name, props.Text{Size: 9, Top: 5}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 2, align.Center),
		h("Product", 5, align.Left),
		h("Unit price", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func (g *ReceiptRenderer) itemRow(it *entity.TransactionItem) core.Row {
	name := it.ProductName
	if name == "" {
		name = fmt.Sprintf("#%d", it.ProductID)
	}
	subtotal := it.Price.Mul(decimal.NewFromInt(it.Quantity))
	return row.New(7).Add(
		col.New(2).Add(text.New(g.printer.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(g.money(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(g.money(subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func (g *ReceiptRenderer) totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(g.money(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formats with the locale's grouping and two decimals, e.g. 1234.5 → "$1,234.50".
func (g *ReceiptRenderer) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func typeLabel(t string) string {
	switch t {
	case entity.TransactionSold:
		return "SALE RECEIPT"
	case entity.TransactionBought:
		return "PURCHASE RECEIPT"
	}
	return strings.ToUpper(t)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
