package dto

import (
	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// PurchaseItemDTO purchase line, used both in requests and responses.
// Total is ignored on input and recomputed.
type PurchaseItemDTO struct {
	Name      string          `json:"name" validate:"required,max=300"`
	Model     string          `json:"model"`
	Supplier  string          `json:"supplier"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Unit      string          `json:"unit"`
	Currency  string          `json:"currency" validate:"omitempty,len=3"`
	Total     decimal.Decimal `json:"total"`
}

// CreatePurchaseRequest body for POST /api/purchases.
type CreatePurchaseRequest struct {
	ClientID     string            `json:"clientId" validate:"required"`
	Items        []PurchaseItemDTO `json:"items" validate:"required,min=1,dive"`
	Status       string            `json:"status" validate:"omitempty,oneofci=pending approved rejected completed"`
	BaseCurrency string            `json:"baseCurrency" validate:"omitempty,len=3"`
	OrderDate    string            `json:"orderDate"`
	Notes        string            `json:"notes"`
}

// UpdatePurchaseRequest merge patch for PATCH/PUT /api/purchases/:id. Nil fields are left untouched.
type UpdatePurchaseRequest struct {
	ClientID     *string            `json:"clientId" validate:"omitempty,min=1"`
	Items        *[]PurchaseItemDTO `json:"items" validate:"omitempty,min=1,dive"`
	Status       *string            `json:"status" validate:"omitempty,oneofci=pending approved rejected completed"`
	BaseCurrency *string            `json:"baseCurrency" validate:"omitempty,len=3"`
	OrderDate    *string            `json:"orderDate"`
	Notes        *string            `json:"notes"`
}

// PurchaseListQuery query string of GET /api/purchases.
type PurchaseListQuery struct {
	Limit     int    `query:"limit"`
	PageToken string `query:"pageToken"`
	Cursor    string `query:"cursor"`
	Status    string `query:"status" validate:"omitempty,oneofci=pending approved rejected completed"`
	ClientID  string `query:"clientId"`
	Order     string `query:"order" validate:"omitempty,oneofci=asc desc"`
	POPrefix  string `query:"poPrefix"`
}

// PurchaseByIDsRequest body for POST /api/purchases/byIds.
type PurchaseByIDsRequest struct {
	IDs []string `json:"ids" validate:"max=500"`
}

// PurchaseResponse purchase in responses.
type PurchaseResponse struct {
	ID            string            `json:"id"`
	ClientID      string            `json:"clientId"`
	PONumber      string            `json:"poNumber"`
	Items         []PurchaseItemDTO `json:"items"`
	Status        string            `json:"status"`
	BaseCurrency  string            `json:"baseCurrency"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	OrderDate     string            `json:"orderDate"`
	Notes         string            `json:"notes"`
	SchemaVersion int               `json:"schemaVersion"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

// PurchasePage one page of GET /api/purchases. Next* are null on the last page.
type PurchasePage struct {
	Items         []PurchaseResponse `json:"items"`
	NextCursor    *string            `json:"nextCursor"`
	NextPageToken *string            `json:"nextPageToken"`
}

// FromPurchase maps an entity to its response.
func FromPurchase(p *entity.Purchase) PurchaseResponse {
	items := make([]PurchaseItemDTO, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, FromPurchaseItem(it))
	}
	return PurchaseResponse{
		ID:            p.ID,
		ClientID:      p.ClientID,
		PONumber:      p.PONumber,
		Items:         items,
		Status:        string(p.Status),
		BaseCurrency:  p.BaseCurrency,
		Subtotal:      p.Subtotal,
		Tax:           p.Tax,
		Total:         p.Total,
		OrderDate:     ISO(p.OrderDate),
		Notes:         p.Notes,
		SchemaVersion: p.SchemaVersion,
		CreatedAt:     ISO(p.CreatedAt),
		UpdatedAt:     ISO(p.UpdatedAt),
	}
}

// FromPurchases maps a slice, never returning nil.
func FromPurchases(list []*entity.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromPurchase(p))
	}
	return out
}

// FromPurchaseItem maps one line.
func FromPurchaseItem(it entity.PurchaseItem) PurchaseItemDTO {
	return PurchaseItemDTO{
		Name:      it.Name,
		Model:     it.Model,
		Supplier:  it.Supplier,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Unit:      it.Unit,
		Currency:  it.Currency,
		Total:     it.Total,
	}
}

// ToPurchaseItem maps a request line; Total is left for pricing to compute.
func (d PurchaseItemDTO) ToPurchaseItem() entity.PurchaseItem {
	return entity.PurchaseItem{
		Name:      d.Name,
		Model:     d.Model,
		Supplier:  d.Supplier,
		Quantity:  d.Quantity,
		UnitPrice: d.UnitPrice,
		Unit:      d.Unit,
		Currency:  d.Currency,
	}
}

// ToPurchaseItems maps request lines.
func ToPurchaseItems(in []PurchaseItemDTO) []entity.PurchaseItem {
	out := make([]entity.PurchaseItem, 0, len(in))
	for _, d := range in {
		out = append(out, d.ToPurchaseItem())
	}
	return out
}
