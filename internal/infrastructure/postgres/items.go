package postgres

import (
	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// itemRow JSONB shape of a purchase or invoice line.
type itemRow struct {
	Name       string          `json:"name"`
	Model      string          `json:"model,omitempty"`
	Supplier   string          `json:"supplier,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Unit       string          `json:"unit,omitempty"`
	Currency   string          `json:"currency"`
	Total      decimal.Decimal `json:"total"`
	PurchaseID string          `json:"purchaseId,omitempty"`
	PONumber   string          `json:"poNumber,omitempty"`
}

func rowFromItem(it entity.PurchaseItem) itemRow {
	return itemRow{
		Name: it.Name, Model: it.Model, Supplier: it.Supplier,
		Quantity: it.Quantity, UnitPrice: it.UnitPrice, Unit: it.Unit,
		Currency: it.Currency, Total: it.Total,
	}
}

func (r itemRow) item() entity.PurchaseItem {
	return entity.PurchaseItem{
		Name: r.Name, Model: r.Model, Supplier: r.Supplier,
		Quantity: r.Quantity, UnitPrice: r.UnitPrice, Unit: r.Unit,
		Currency: r.Currency, Total: r.Total,
	}
}

func purchaseItemsJSON(items []entity.PurchaseItem) ([]byte, error) {
	rows := make([]itemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, rowFromItem(it))
	}
	return toJSON(rows)
}

func purchaseItemsFromJSON(raw []byte) ([]entity.PurchaseItem, error) {
	var rows []itemRow
	if err := fromJSON(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.PurchaseItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.item())
	}
	return out, nil
}

func invoiceItemsJSON(items []entity.InvoiceItem) ([]byte, error) {
	rows := make([]itemRow, 0, len(items))
	for _, it := range items {
		row := rowFromItem(it.PurchaseItem)
		row.PurchaseID, row.PONumber = it.PurchaseID, it.PONumber
		rows = append(rows, row)
	}
	return toJSON(rows)
}

func invoiceItemsFromJSON(raw []byte) ([]entity.InvoiceItem, error) {
	var rows []itemRow
	if err := fromJSON(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.InvoiceItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.InvoiceItem{PurchaseItem: r.item(), PurchaseID: r.PurchaseID, PONumber: r.PONumber})
	}
	return out, nil
}
