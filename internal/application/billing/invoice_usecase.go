package billing

import (
	"context"
	"fmt"
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

// Config billing defaults.
type Config struct {
	Policy              pricing.Policy
	DefaultPaymentTerms int // days
}

// InvoiceUseCase invoice lifecycle: create from purchases, edit, status transitions, delete and KPIs.
type InvoiceUseCase struct {
	tx        repository.TxRunner
	invoices  repository.InvoiceRepository
	purchases repository.PurchaseRepository
	clients   repository.ClientRepository
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewInvoiceUseCase builds the use case.
func NewInvoiceUseCase(
	tx repository.TxRunner,
	invoices repository.InvoiceRepository,
	purchases repository.PurchaseRepository,
	clients repository.ClientRepository,
	cfg Config,
	log *logger.Logger,
) *InvoiceUseCase {
	if cfg.DefaultPaymentTerms <= 0 {
		cfg.DefaultPaymentTerms = normalize.DefaultPaymentTerms
	}
	return &InvoiceUseCase{
		tx:        tx,
		invoices:  invoices,
		purchases: purchases,
		clients:   clients,
		cfg:       cfg,
		log:       log.Component("billing"),
		now:       time.Now,
	}
}

// Create builds a draft invoice from approved/completed purchases of one client.
// The invoice number is allocated in the same transaction as the insert.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	// ── 1. Preconditions ──────────────────────────────────────────────────────
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return nil, domain.Validation("clientId is required")
	}
	dueDate, ok := normalize.TimeOK(strings.TrimSpace(in.DueDate))
	if !ok {
		return nil, domain.Validation("dueDate is not a valid date")
	}
	ids := purchaseRefs(in.PurchaseIDs, in.PurchaseID)
	if len(ids) == 0 {
		return nil, domain.Validation("at least one purchase is required")
	}
	if len(in.Items) == 0 {
		return nil, domain.Validation("at least one item is required")
	}
	terms := uc.cfg.DefaultPaymentTerms
	if in.PaymentTerms != nil {
		if *in.PaymentTerms < 0 {
			return nil, domain.Validation("paymentTerms must not be negative")
		}
		terms = *in.PaymentTerms
	}

	// ── 2. Client and source purchases ────────────────────────────────────────
	client, err := uc.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("client", clientID)
	}
	refs, err := uc.loadSources(ctx, clientID, ids)
	if err != nil {
		return nil, err
	}

	// ── 3. Items and totals ───────────────────────────────────────────────────
	now := entity.StoreTime(uc.now())
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		ClientID:      clientID,
		PurchaseIDs:   ids,
		Items:         dto.ToInvoiceItems(in.Items),
		Currency:      uc.cfg.Policy.BaseCurrency,
		DueDate:       entity.StoreTime(dueDate),
		PaymentTerms:  terms,
		Notes:         in.Notes,
		Status:        entity.InvoiceDraft,
		SchemaVersion: entity.SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.price(inv, refs); err != nil {
		return nil, err
	}

	// ── 4. Number allocation + insert ─────────────────────────────────────────
	err = uc.tx.Run(ctx, func(s repository.Stores) error {
		settings, err := s.Settings.Get(ctx)
		if err != nil {
			return err
		}
		seq, err := s.Sequences.Next(ctx, repository.SequenceInvoice, now.Year())
		if err != nil {
			return err
		}
		inv.InvoiceNumber = entity.DocumentNumber(settings.InvoiceNumberPrefix(), now.Year(), seq)
		return s.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Strs("purchase_ids", inv.PurchaseIDs).
		Msg("invoice created")
	return inv, nil
}

// Update applies a merge patch. New items always recompute the totals; client totals
// are only accepted without items and only when they satisfy the tax invariants.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*entity.Invoice, error) {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case in.Items != nil:
		if len(*in.Items) == 0 {
			return nil, domain.Validation("at least one item is required")
		}
		refs, err := uc.currentRefs(ctx, inv)
		if err != nil {
			return nil, err
		}
		inv.Items = dto.ToInvoiceItems(*in.Items)
		if err := uc.price(inv, refs); err != nil {
			return nil, err
		}
	case in.Subtotal != nil || in.Tax != nil || in.Total != nil:
		t := pricing.Totals{Subtotal: inv.Subtotal, Tax: inv.Tax, Total: inv.Total}
		if in.Subtotal != nil {
			t.Subtotal = *in.Subtotal
		}
		if in.Tax != nil {
			t.Tax = *in.Tax
		}
		if in.Total != nil {
			t.Total = *in.Total
		}
		if !pricing.Consistent(t, uc.cfg.Policy.TaxRate) {
			return nil, domain.Validation("totals must satisfy total = subtotal + tax and tax = round(subtotal * %s, 2)", uc.cfg.Policy.TaxRate)
		}
		inv.Subtotal, inv.Tax, inv.Total = t.Subtotal, t.Tax, t.Total
	}

	if in.DueDate != nil {
		due, ok := normalize.TimeOK(strings.TrimSpace(*in.DueDate))
		if !ok {
			return nil, domain.Validation("dueDate is not a valid date")
		}
		inv.DueDate = entity.StoreTime(due)
	}
	if in.PaymentTerms != nil {
		if *in.PaymentTerms < 0 {
			return nil, domain.Validation("paymentTerms must not be negative")
		}
		inv.PaymentTerms = *in.PaymentTerms
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	if in.Status != nil {
		next, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if !inv.Status.CanTransitionTo(next) {
			return nil, transitionError(inv.Status, next)
		}
		inv.Status = next
	}

	inv.SchemaVersion = entity.SchemaVersion
	inv.UpdatedAt = entity.StoreTime(uc.now())
	if err := uc.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// TransitionStatus moves the invoice along the state machine. Same-state requests are no-ops.
func (uc *InvoiceUseCase) TransitionStatus(ctx context.Context, id, status string) (*entity.Invoice, error) {
	next, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == next {
		return inv, nil
	}
	if !inv.Status.CanTransitionTo(next) {
		return nil, transitionError(inv.Status, next)
	}
	prev := inv.Status
	inv.Status = next
	inv.UpdatedAt = entity.StoreTime(uc.now())
	if err := uc.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("from", string(prev)).
		Str("to", string(next)).
		Msg("invoice status changed")
	return inv, nil
}

// Delete hard-deletes an invoice; the source purchases are not touched.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	if err := uc.invoices.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", id).Msg("invoice deleted")
	return nil
}

// Get returns the invoice or ErrNotFound.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("invoice", id)
	}
	return inv, nil
}

// List returns invoices newest first.
func (uc *InvoiceUseCase) List(ctx context.Context, q dto.InvoiceListQuery) ([]*entity.Invoice, error) {
	filter := repository.InvoiceFilter{ClientID: strings.TrimSpace(q.ClientID)}
	if q.Status != "" {
		st, err := parseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	return uc.invoices.List(ctx, filter)
}

// Now exposes the use case clock so responses derive isPastDue consistently.
func (uc *InvoiceUseCase) Now() time.Time {
	return uc.now()
}

// loadSources fetches every referenced purchase, checks it may be billed to clientID
// and returns purchase id -> PO number.
func (uc *InvoiceUseCase) loadSources(ctx context.Context, clientID string, ids []string) (map[string]string, error) {
	refs := make(map[string]string, len(ids))
	for _, pid := range ids {
		p, err := uc.purchases.GetByID(ctx, pid)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("purchase", pid)
		}
		if p.ClientID != clientID {
			return nil, domain.Validation("purchase %s belongs to another client", p.PONumber)
		}
		if !p.Status.Invoiceable() {
			return nil, domain.Validation("purchase %s is %s; only approved or completed purchases can be invoiced", p.PONumber, p.Status)
		}
		refs[pid] = p.PONumber
	}
	return refs, nil
}

// currentRefs resolves the PO numbers of an existing invoice. Purchases deleted since
// creation keep the number recorded on the invoice lines.
func (uc *InvoiceUseCase) currentRefs(ctx context.Context, inv *entity.Invoice) (map[string]string, error) {
	refs := make(map[string]string, len(inv.PurchaseIDs))
	for _, it := range inv.Items {
		refs[it.PurchaseID] = it.PONumber
	}
	for _, pid := range inv.PurchaseIDs {
		p, err := uc.purchases.GetByID(ctx, pid)
		if err != nil {
			return nil, err
		}
		if p != nil {
			refs[pid] = p.PONumber
		} else if _, ok := refs[pid]; !ok {
			refs[pid] = ""
		}
	}
	for id := range refs {
		if !containsID(inv.PurchaseIDs, id) {
			delete(refs, id)
		}
	}
	return refs, nil
}

// price attributes every item to one of the invoice purchases and recomputes all totals.
func (uc *InvoiceUseCase) price(inv *entity.Invoice, refs map[string]string) error {
	lines := make([]entity.PurchaseItem, len(inv.Items))
	for i := range inv.Items {
		it := &inv.Items[i]
		if it.PurchaseID == "" {
			it.PurchaseID = inv.PrimaryPurchaseID()
		}
		po, ok := refs[it.PurchaseID]
		if !ok {
			return domain.Validation("items[%d] references purchase %q which is not part of the invoice", i, it.PurchaseID)
		}
		if po != "" {
			it.PONumber = po
		}
		lines[i] = it.PurchaseItem
	}
	if err := pricing.PriceItems(lines, inv.Currency); err != nil {
		return err
	}
	totals, err := pricing.Compute(lines, inv.Currency, uc.cfg.Policy.TaxRate)
	if err != nil {
		return err
	}
	for i := range inv.Items {
		inv.Items[i].PurchaseItem = lines[i]
	}
	inv.Subtotal, inv.Tax, inv.Total = totals.Subtotal, totals.Tax, totals.Total
	return nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func parseStatus(s string) (entity.InvoiceStatus, error) {
	st := entity.InvoiceStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", domain.Validation("unknown invoice status %q", s)
	}
	return st, nil
}

func transitionError(from, to entity.InvoiceStatus) error {
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
}

// purchaseRefs merges the canonical list with the legacy single reference, keeping order.
func purchaseRefs(ids []string, legacy string) []string {
	seen := make(map[string]struct{}, len(ids)+1)
	out := make([]string, 0, len(ids)+1)
	for _, id := range append(append([]string{}, ids...), legacy) {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; id == "" || dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
