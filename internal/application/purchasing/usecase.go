package purchasing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/normalize"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/pricing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

// Page size bounds for List.
const (
	DefaultLimit = 25
	MaxLimit     = 500
)

// PurchaseUseCase purchase order queries and CRUD.
type PurchaseUseCase struct {
	tx        repository.TxRunner
	purchases repository.PurchaseRepository
	clients   repository.ClientRepository
	policy    pricing.Policy
	log       *logger.Logger
	now       func() time.Time
}

// NewPurchaseUseCase builds the use case.
func NewPurchaseUseCase(
	tx repository.TxRunner,
	purchases repository.PurchaseRepository,
	clients repository.ClientRepository,
	policy pricing.Policy,
	log *logger.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		tx:        tx,
		purchases: purchases,
		clients:   clients,
		policy:    policy,
		log:       log.Component("purchasing"),
		now:       time.Now,
	}
}

// Page one page of purchases plus the continuation, empty when exhausted.
type Page struct {
	Items         []*entity.Purchase
	NextCursor    string
	NextPageToken string
}

// ClampLimit applies the default and the [1, MaxLimit] bounds.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

// List returns a page ordered by (createdAt, id). pageToken wins over cursor when both are set.
func (uc *PurchaseUseCase) List(ctx context.Context, q dto.PurchaseListQuery) (*Page, error) {
	limit := ClampLimit(q.Limit)
	filter := repository.PurchaseFilter{
		ClientID: strings.TrimSpace(q.ClientID),
		POPrefix: strings.TrimSpace(q.POPrefix),
		Desc:     true,
		Limit:    limit + 1,
	}
	switch strings.ToLower(q.Order) {
	case "", "desc":
	case "asc":
		filter.Desc = false
	default:
		return nil, domain.Validation("order must be asc or desc")
	}
	if q.Status != "" {
		st := entity.PurchaseStatus(strings.ToLower(q.Status))
		if !st.Valid() {
			return nil, domain.Validation("unknown status %q", q.Status)
		}
		filter.Status = st
	}

	switch {
	case q.PageToken != "":
		anchor, err := uc.purchases.GetByID(ctx, q.PageToken)
		if err != nil {
			return nil, err
		}
		if anchor == nil {
			return nil, domain.Validation("unknown pageToken %q", q.PageToken)
		}
		filter.After = &repository.Keyset{CreatedAt: anchor.CreatedAt, ID: anchor.ID}
	case q.Cursor != "":
		at, ok := normalize.TimeOK(q.Cursor)
		if !ok {
			return nil, domain.Validation("cursor must be an ISO-8601 date")
		}
		filter.After = &repository.Keyset{CreatedAt: at}
	}

	rows, err := uc.purchases.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &Page{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		page.NextCursor = dto.ISO(last.CreatedAt)
		page.NextPageToken = last.ID
	}
	return page, nil
}

// ListByClient returns every purchase of a client, newest first, optionally restricted to statuses.
func (uc *PurchaseUseCase) ListByClient(ctx context.Context, clientID string, statuses []string) ([]*entity.Purchase, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, domain.Validation("clientId is required")
	}
	filter := repository.PurchaseFilter{ClientID: clientID, Desc: true}
	for _, s := range statuses {
		st := entity.PurchaseStatus(strings.ToLower(strings.TrimSpace(s)))
		if !st.Valid() {
			return nil, domain.Validation("unknown status %q", s)
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	return uc.purchases.List(ctx, filter)
}

// GetByIDs fetches purchases in the order requested. Unknown ids are dropped silently.
func (uc *PurchaseUseCase) GetByIDs(ctx context.Context, ids []string) ([]*entity.Purchase, error) {
	wanted := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; id == "" || dup {
			continue
		}
		seen[id] = struct{}{}
		wanted = append(wanted, id)
	}
	if len(wanted) == 0 {
		return []*entity.Purchase{}, nil
	}
	found, err := uc.purchases.GetByIDs(ctx, wanted)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Purchase, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]*entity.Purchase, 0, len(found))
	for _, id := range wanted {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns the purchase or ErrNotFound.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("purchase", id)
	}
	return p, nil
}

// Create prices the items, allocates the next PO number and stores the order.
func (uc *PurchaseUseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest) (*entity.Purchase, error) {
	if err := uc.requireClient(ctx, in.ClientID); err != nil {
		return nil, err
	}
	now := entity.StoreTime(uc.now())
	p := &entity.Purchase{
		ID:            uuid.New().String(),
		ClientID:      in.ClientID,
		Items:         dto.ToPurchaseItems(in.Items),
		Status:        entity.PurchasePending,
		BaseCurrency:  strings.ToUpper(strings.TrimSpace(in.BaseCurrency)),
		OrderDate:     now,
		Notes:         in.Notes,
		SchemaVersion: entity.SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.BaseCurrency == "" {
		p.BaseCurrency = uc.policy.BaseCurrency
	}
	if in.Status != "" {
		p.Status = entity.PurchaseStatus(strings.ToLower(in.Status))
		if !p.Status.Valid() {
			return nil, domain.Validation("unknown status %q", in.Status)
		}
	}
	if in.OrderDate != "" {
		t, ok := normalize.TimeOK(in.OrderDate)
		if !ok {
			return nil, domain.Validation("orderDate is not a valid date")
		}
		p.OrderDate = entity.StoreTime(t)
	}
	if err := uc.reprice(p); err != nil {
		return nil, err
	}

	err := uc.tx.Run(ctx, func(s repository.Stores) error {
		settings, err := s.Settings.Get(ctx)
		if err != nil {
			return err
		}
		seq, err := s.Sequences.Next(ctx, repository.SequencePurchase, now.Year())
		if err != nil {
			return err
		}
		p.PONumber = entity.DocumentNumber(settings.PurchaseNumberPrefix(), now.Year(), seq)
		return s.Purchases.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("purchase_id", p.ID).Str("po_number", p.PONumber).Msg("purchase created")
	return p, nil
}

// Update applies a merge patch. Totals are recomputed when items or the base currency change.
func (uc *PurchaseUseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseRequest) (*entity.Purchase, error) {
	p, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	reprice := false
	if in.ClientID != nil && *in.ClientID != p.ClientID {
		if err := uc.requireClient(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		p.ClientID = *in.ClientID
	}
	if in.Items != nil {
		p.Items = dto.ToPurchaseItems(*in.Items)
		reprice = true
	}
	if in.BaseCurrency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*in.BaseCurrency))
		if cur != "" && cur != p.BaseCurrency {
			p.BaseCurrency = cur
			reprice = true
		}
	}
	if in.Status != nil {
		st := entity.PurchaseStatus(strings.ToLower(*in.Status))
		if !st.Valid() {
			return nil, domain.Validation("unknown status %q", *in.Status)
		}
		p.Status = st
	}
	if in.OrderDate != nil {
		t, ok := normalize.TimeOK(*in.OrderDate)
		if !ok {
			return nil, domain.Validation("orderDate is not a valid date")
		}
		p.OrderDate = entity.StoreTime(t)
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	if reprice {
		if err := uc.reprice(p); err != nil {
			return nil, err
		}
	}
	p.SchemaVersion = entity.SchemaVersion
	p.UpdatedAt = entity.StoreTime(uc.now())
	if err := uc.purchases.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete hard-deletes a purchase. Invoices that reference it are left untouched.
func (uc *PurchaseUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	if err := uc.purchases.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("purchase_id", id).Msg("purchase deleted")
	return nil
}

func (uc *PurchaseUseCase) reprice(p *entity.Purchase) error {
	if !pricing.Supported(p.BaseCurrency) {
		return domain.Validation("unsupported currency %q", p.BaseCurrency)
	}
	if err := pricing.PriceItems(p.Items, p.BaseCurrency); err != nil {
		return err
	}
	totals, err := pricing.Compute(p.Items, p.BaseCurrency, uc.policy.TaxRate)
	if err != nil {
		return err
	}
	p.Subtotal, p.Tax, p.Total = totals.Subtotal, totals.Tax, totals.Total
	return nil
}

func (uc *PurchaseUseCase) requireClient(ctx context.Context, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return domain.Validation("clientId is required")
	}
	c, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("client", clientID)
	}
	return nil
}
