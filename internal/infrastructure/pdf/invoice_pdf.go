// Package pdf renders invoices as A4 PDFs.
//
// Page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: issuer name + GSTIN │ TAX INVOICE, number, dates   │
//	│  ISSUER: address / phone / email / PAN / MSME               │
//	│  BILL TO: client name, billing address, GSTIN               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: # | Item | PO | Qty | Unit price | Amount           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Subtotal / GST / TOTAL                             │
//	│  PAYMENT: bank details + terms + notes                      │
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
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/billing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// ── palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var (
	printer = message.NewPrinter(language.MustParse("en-IN"))
	titler  = cases.Title(language.English)
)

// ── generator ─────────────────────────────────────────────────────────────────

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implements billing.InvoicePDFGenerator with Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renders doc and returns the PDF bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	inv, client, issuer := doc.Invoice, doc.Client, doc.Issuer
	if inv == nil || client == nil || issuer == nil {
		return nil, fmt.Errorf("pdf: invoice, client and issuer are required")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(issuer.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(issuer))
	m.AddRows(billToRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(inv)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, doc.TaxRate))

	m.AddRows(line.NewRow(3))
	m.AddRows(paymentRows(inv, issuer)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return out.GetBytes(), nil
}

// ── sections ──────────────────────────────────────────────────────────────────

func headerRow(inv *entity.Invoice, issuer *entity.CompanySettings) core.Row {
	return row.New(24).Add(
		col.New(7).Add(
			text.New(issuer.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(labelled("GSTIN", issuer.GSTNumber), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Date: "+inv.CreatedAt.Format("02 Jan 2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Due: "+inv.DueDate.Format("02 Jan 2006")+"   Status: "+titler.String(string(inv.Status)), props.Text{
				Size: 8, Align: align.Right, Top: 18, Color: colorGray,
			}),
		),
	)
}

func issuerRow(issuer *entity.CompanySettings) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(formatAddress(issuer.Address), props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New(joinNonEmpty("   |   ",
				labelled("Tel", issuer.Phone),
				labelled("Email", issuer.Email),
				labelled("PAN", issuer.PANNumber),
				labelled("MSME", issuer.MSMENumber),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func billToRow(client *entity.Client) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(formatAddress(client.BillingAddress), props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(joinNonEmpty("   |   ",
				labelled("GSTIN", client.GSTNumber),
				labelled("Attn", client.ContactPerson),
				labelled("Email", client.Email),
			), props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Item", 4, align.Left),
		h("PO", 2, align.Left),
		h("Qty", 1, align.Right),
		h("Unit price", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

func itemRows(inv *entity.Invoice) []core.Row {
	rows := make([]core.Row, 0, len(inv.Items))
	for i, it := range inv.Items {
		name := it.Name
		if it.Model != "" {
			name += " (" + it.Model + ")"
		}
		qty := it.Quantity.String()
		if it.Unit != "" {
			qty += " " + it.Unit
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.PONumber, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(qty, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(Money(it.UnitPrice, it.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(Money(it.Total, it.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(inv *entity.Invoice, rate decimal.Decimal) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	gst := "GST"
	if !rate.IsZero() {
		gst = fmt.Sprintf("GST (%s%%)", rate.Mul(decimal.NewFromInt(100)).String())
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label(gst+":", 6),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12}),
		),
		col.New(3).Add(
			value(Money(inv.Subtotal, inv.Currency), 1),
			value(Money(inv.Tax, inv.Currency), 6),
			text.New(Money(inv.Total, inv.Currency), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12}),
		),
	)
}

func paymentRows(inv *entity.Invoice, issuer *entity.CompanySettings) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("PAYMENT", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
		row.New(5).Add(col.New(12).Add(text.New(
			fmt.Sprintf("Payment terms: %d days from invoice date", inv.PaymentTerms),
			props.Text{Size: 8, Top: 1},
		))),
	}
	if b := issuer.BankDetails; b != nil {
		rows = append(rows, row.New(5).Add(col.New(12).Add(text.New(joinNonEmpty("   |   ",
			labelled("Account", b.AccountName),
			labelled("A/c No", b.AccountNumber),
			labelled("Bank", b.BankName),
			labelled("IFSC", b.IFSC),
			labelled("Branch", b.Branch),
		), props.Text{Size: 8, Top: 1, Color: colorGray}))))
	}
	if strings.TrimSpace(inv.Notes) != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(text.New("Notes: "+inv.Notes, props.Text{Size: 8, Top: 2}))))
	}
	if strings.TrimSpace(issuer.TermsAndConditions) != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(text.New(issuer.TermsAndConditions, props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}))))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// Money formats an amount with en-IN digit grouping and two decimals, prefixed by the currency code.
func Money(v decimal.Decimal, currency string) string {
	if currency == "" {
		currency = "INR"
	}
	return currency + " " + printer.Sprint(number.Decimal(v.Round(2).InexactFloat64(), number.Scale(2)))
}

func formatAddress(a entity.Address) string {
	city := joinNonEmpty(" ", a.City, a.PostalCode)
	return joinNonEmpty(", ", a.Line1, a.Line2, city, a.State, a.Country)
}

func labelled(label, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return label + ": " + v
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
