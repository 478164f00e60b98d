package normalize

import (
	"strings"
	"time"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/pricing"
)

// DefaultCurrency used when a stored document carries none.
const DefaultCurrency = "INR"

// DefaultPaymentTerms days applied to invoices stored without terms.
const DefaultPaymentTerms = 30

// Client converts a stored client document.
func Client(doc map[string]any, now time.Time) entity.Client {
	c := entity.Client{
		ID:              String(doc["id"]),
		CompanyName:     String(doc["companyName"]),
		ContactPerson:   String(doc["contactPerson"]),
		Email:           strings.ToLower(String(doc["email"])),
		Phone:           String(doc["phone"]),
		BillingAddress:  Address(doc["billingAddress"]),
		ShippingAddress: Address(doc["shippingAddress"]),
		GSTNumber:       strings.ToUpper(String(doc["gstNumber"])),
		PANNumber:       strings.ToUpper(String(doc["panNumber"])),
		MSMENumber:      String(doc["msmeNumber"]),
		BankDetails:     BankDetails(doc["bankDetails"]),
		Status:          entity.ClientStatus(strings.ToLower(String(doc["status"]))),
		Notes:           String(doc["notes"]),
		SchemaVersion:   entity.SchemaVersion,
	}
	if c.Status != entity.ClientInactive {
		c.Status = entity.ClientActive
	}
	c.CreatedAt, c.UpdatedAt = stamps(doc, now)
	return c
}

// Address converts an address object; legacy plain strings land in Line1.
func Address(v any) entity.Address {
	if s, ok := v.(string); ok {
		return entity.Address{Line1: strings.TrimSpace(s)}
	}
	m := Object(v)
	return entity.Address{
		Line1:      String(first(m, "line1", "street")),
		Line2:      String(m["line2"]),
		City:       String(m["city"]),
		State:      String(m["state"]),
		PostalCode: String(first(m, "postalCode", "pincode", "zip")),
		Country:    String(m["country"]),
	}
}

// BankDetails converts a bank object; nil when absent or blank.
func BankDetails(v any) *entity.BankDetails {
	m := Object(v)
	if m == nil {
		return nil
	}
	b := &entity.BankDetails{
		AccountName:   String(m["accountName"]),
		AccountNumber: String(m["accountNumber"]),
		BankName:      String(m["bankName"]),
		IFSC:          strings.ToUpper(String(first(m, "ifsc", "ifscCode"))),
		Branch:        String(m["branch"]),
	}
	if *b == (entity.BankDetails{}) {
		return nil
	}
	return b
}

// PurchaseItems converts a stored item array. Missing line totals are recomputed.
func PurchaseItems(v any, base string) []entity.PurchaseItem {
	list, _ := v.([]any)
	out := make([]entity.PurchaseItem, 0, len(list))
	for _, raw := range list {
		out = append(out, purchaseItem(Object(raw), base))
	}
	return out
}

func purchaseItem(m map[string]any, base string) entity.PurchaseItem {
	it := entity.PurchaseItem{
		Name:      String(first(m, "name", "description")),
		Model:     String(m["model"]),
		Supplier:  String(m["supplier"]),
		Quantity:  Number(m["quantity"]),
		UnitPrice: Number(m["unitPrice"]),
		Unit:      String(m["unit"]),
		Currency:  strings.ToUpper(String(m["currency"])),
	}
	if it.Currency == "" {
		it.Currency = base
	}
	if total, ok := number(m["total"]); ok {
		it.Total = total
	} else {
		it.Total = pricing.LineTotal(it.Quantity, it.UnitPrice)
	}
	return it
}

// InvoiceItems converts stored invoice lines. Lines without a purchase are attributed to fallbackPurchaseID.
func InvoiceItems(v any, base, fallbackPurchaseID string) []entity.InvoiceItem {
	list, _ := v.([]any)
	out := make([]entity.InvoiceItem, 0, len(list))
	for _, raw := range list {
		m := Object(raw)
		it := entity.InvoiceItem{
			PurchaseItem: purchaseItem(m, base),
			PurchaseID:   String(m["purchaseId"]),
			PONumber:     String(m["poNumber"]),
		}
		if it.PurchaseID == "" {
			it.PurchaseID = fallbackPurchaseID
		}
		out = append(out, it)
	}
	return out
}

// Purchase converts a stored purchase document.
func Purchase(doc map[string]any, now time.Time) entity.Purchase {
	base := currency(doc["baseCurrency"])
	p := entity.Purchase{
		ID:            String(doc["id"]),
		ClientID:      String(doc["clientId"]),
		PONumber:      String(doc["poNumber"]),
		Items:         PurchaseItems(doc["items"], base),
		Status:        entity.PurchaseStatus(strings.ToLower(String(doc["status"]))),
		BaseCurrency:  base,
		Subtotal:      Number(doc["subtotal"]),
		Tax:           Number(doc["tax"]),
		Total:         Number(doc["total"]),
		Notes:         String(doc["notes"]),
		SchemaVersion: entity.SchemaVersion,
	}
	if !p.Status.Valid() {
		p.Status = entity.PurchasePending
	}
	p.CreatedAt, p.UpdatedAt = stamps(doc, now)
	p.OrderDate = Time(doc["orderDate"], p.CreatedAt)
	return p
}

// Invoice converts a stored invoice document. The legacy single purchaseId folds into PurchaseIDs.
func Invoice(doc map[string]any, now time.Time) entity.Invoice {
	ids := uniq(append(Strings(doc["purchaseIds"]), Strings(doc["purchaseId"])...))
	fallback := ""
	if len(ids) > 0 {
		fallback = ids[0]
	}
	cur := currency(doc["currency"])
	inv := entity.Invoice{
		ID:            String(doc["id"]),
		InvoiceNumber: String(doc["invoiceNumber"]),
		ClientID:      String(doc["clientId"]),
		PurchaseIDs:   ids,
		Items:         InvoiceItems(doc["items"], cur, fallback),
		Currency:      cur,
		Subtotal:      Number(doc["subtotal"]),
		Tax:           Number(doc["tax"]),
		Total:         Number(doc["total"]),
		PaymentTerms:  Int(doc["paymentTerms"]),
		Notes:         String(doc["notes"]),
		Status:        entity.InvoiceStatus(strings.ToLower(String(doc["status"]))),
		SchemaVersion: entity.SchemaVersion,
	}
	if !inv.Status.Valid() {
		inv.Status = entity.InvoiceDraft
	}
	if inv.PaymentTerms <= 0 {
		inv.PaymentTerms = DefaultPaymentTerms
	}
	inv.CreatedAt, inv.UpdatedAt = stamps(doc, now)
	inv.DueDate = Time(doc["dueDate"], inv.CreatedAt.AddDate(0, 0, inv.PaymentTerms))
	return inv
}

// FinanceRecord converts a stored ledger entry. Amount falls back to quantity * unitPrice.
func FinanceRecord(doc map[string]any, now time.Time) entity.FinanceRecord {
	r := entity.FinanceRecord{
		ID:            String(doc["id"]),
		Type:          entity.FinanceType(strings.ToLower(String(doc["type"]))),
		Category:      strings.ToLower(String(doc["category"])),
		Description:   String(doc["description"]),
		PaymentMethod: strings.ToLower(String(doc["paymentMethod"])),
		Status:        entity.FinanceStatus(strings.ToLower(String(doc["status"]))),
		Reference:     String(doc["reference"]),
		TaxYear:       String(doc["taxYear"]),
		Notes:         String(doc["notes"]),
		SchemaVersion: entity.SchemaVersion,
	}
	if amount, ok := number(doc["amount"]); ok {
		r.Amount = amount
	} else {
		r.Amount = pricing.LineTotal(Number(doc["quantity"]), Number(doc["unitPrice"]))
	}
	if !r.Status.Valid() {
		r.Status = entity.FinanceCompleted
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = "other"
	}
	if r.Type != entity.FinanceTDS {
		r.TaxYear = ""
	}
	r.CreatedAt, r.UpdatedAt = stamps(doc, now)
	r.Date = Time(doc["date"], r.CreatedAt)
	return r
}

func stamps(doc map[string]any, now time.Time) (created, updated time.Time) {
	created = Time(doc["createdAt"], now)
	updated = Time(doc["updatedAt"], created)
	return created, updated
}

func currency(v any) string {
	if c := strings.ToUpper(String(v)); c != "" {
		return c
	}
	return DefaultCurrency
}

func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
