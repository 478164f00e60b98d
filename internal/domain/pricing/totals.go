package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// Totals document-level amounts in the base currency.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal quantity * unitPrice rounded to paise.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// PriceItems recomputes every item total in place and validates quantities, prices and currencies.
// Items without a currency take base.
func PriceItems(items []entity.PurchaseItem, base string) error {
	if len(items) == 0 {
		return domain.Validation("at least one item is required")
	}
	for i := range items {
		it := &items[i]
		if it.Name == "" {
			return domain.Validation("items[%d].name is required", i)
		}
		if !it.Quantity.IsPositive() {
			return domain.Validation("items[%d].quantity must be greater than 0", i)
		}
		if it.UnitPrice.IsNegative() {
			return domain.Validation("items[%d].unitPrice must not be negative", i)
		}
		if it.Currency == "" {
			it.Currency = base
		}
		if !Supported(it.Currency) {
			return unsupported(it.Currency)
		}
		it.Total = LineTotal(it.Quantity, it.UnitPrice)
	}
	return nil
}

// Compute sums converted item totals into base and applies taxRate.
// tax = round(subtotal * taxRate, 2) and total = subtotal + tax hold exactly.
func Compute(items []entity.PurchaseItem, base string, taxRate decimal.Decimal) (Totals, error) {
	subtotal := decimal.Zero
	for _, it := range items {
		amount, err := Convert(it.Total, it.Currency, base)
		if err != nil {
			return Totals{}, err
		}
		subtotal = subtotal.Add(amount)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}, nil
}

// Consistent reports whether client supplied totals satisfy the invariants for taxRate.
func Consistent(t Totals, taxRate decimal.Decimal) bool {
	if t.Subtotal.IsNegative() {
		return false
	}
	return t.Tax.Equal(t.Subtotal.Mul(taxRate).Round(2)) && t.Total.Equal(t.Subtotal.Add(t.Tax))
}

func unsupported(code string) error {
	return domain.Validation("unsupported currency %q", code)
}

// Policy money rules shared by purchases and invoices.
type Policy struct {
	BaseCurrency string
	TaxRate      decimal.Decimal
}
