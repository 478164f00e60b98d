// Package legacy loads document-store exports into the relational store.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/normalize"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/pricing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

// Collections accepted by Import.
const (
	CollectionClients   = "clients"
	CollectionPurchases = "purchases"
	CollectionInvoices  = "invoices"
	CollectionFinance   = "finance"
)

// Importer converts exported documents through the normalization layer and stores them,
// keeping their ids and timestamps.
type Importer struct {
	tx     repository.TxRunner
	policy pricing.Policy
	log    *logger.Logger
	now    func() time.Time
}

// NewImporter builds the importer.
func NewImporter(tx repository.TxRunner, policy pricing.Policy, log *logger.Logger) *Importer {
	return &Importer{tx: tx, policy: policy, log: log.Component("legacy_import"), now: time.Now}
}

// Decode reads an export: either a JSON array of documents or an object keyed by
// document id. Keys fill in missing "id" fields; keyed exports come back sorted by key.
func Decode(r io.Reader) ([]map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, domain.Validation("export is empty")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if raw[0] == '[' {
		var docs []map[string]any
		if err := dec.Decode(&docs); err != nil {
			return nil, domain.Validation("export is not a JSON array of objects: %v", err)
		}
		return docs, nil
	}
	var keyed map[string]map[string]any
	if err := dec.Decode(&keyed); err != nil {
		return nil, domain.Validation("export is not a JSON object of documents: %v", err)
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	docs := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		doc := keyed[k]
		if doc == nil {
			doc = map[string]any{}
		}
		if normalize.String(doc["id"]) == "" {
			doc["id"] = k
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Import stores each document in its own transaction. Failures are reported per row
// (1-based) and do not stop the run.
func (im *Importer) Import(ctx context.Context, collection string, docs []map[string]any) (dto.ImportResult, error) {
	var store func(context.Context, repository.Stores, map[string]any, time.Time) error
	switch strings.ToLower(collection) {
	case CollectionClients:
		store = im.client
	case CollectionPurchases:
		store = im.purchase
	case CollectionInvoices:
		store = im.invoice
	case CollectionFinance:
		store = im.finance
	default:
		return dto.ImportResult{}, domain.Validation("unknown collection %q", collection)
	}

	res := dto.ImportResult{Errors: []dto.ImportRowError{}}
	now := entity.StoreTime(im.now())
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := im.tx.Run(ctx, func(s repository.Stores) error {
			return store(ctx, s, doc, now)
		})
		if err != nil {
			res.Fail++
			res.Errors = append(res.Errors, dto.ImportRowError{Row: i + 1, Error: err.Error()})
			continue
		}
		res.OK++
	}
	im.log.Info().
		Str("collection", collection).
		Int("ok", res.OK).
		Int("fail", res.Fail).
		Msg("legacy import finished")
	return res, nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

func (im *Importer) client(ctx context.Context, s repository.Stores, doc map[string]any, now time.Time) error {
	c := normalize.Client(doc, now)
	if c.CompanyName == "" {
		return domain.Validation("companyName is required")
	}
	c.ID = ensureID(c.ID)
	return s.Clients.Create(ctx, &c)
}

func (im *Importer) purchase(ctx context.Context, s repository.Stores, doc map[string]any, now time.Time) error {
	p := normalize.Purchase(doc, now)
	if p.ClientID == "" {
		return domain.Validation("clientId is required")
	}
	p.ID = ensureID(p.ID)
	if err := im.retotal(&p.Subtotal, &p.Tax, &p.Total, p.Items, p.BaseCurrency); err != nil {
		return err
	}
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		return err
	}
	number, err := im.number(ctx, s, p.PONumber, settings.PurchaseNumberPrefix(), repository.SequencePurchase, p.CreatedAt.Year())
	if err != nil {
		return err
	}
	p.PONumber = number
	return s.Purchases.Create(ctx, &p)
}

func (im *Importer) invoice(ctx context.Context, s repository.Stores, doc map[string]any, now time.Time) error {
	inv := normalize.Invoice(doc, now)
	if inv.ClientID == "" {
		return domain.Validation("clientId is required")
	}
	inv.ID = ensureID(inv.ID)
	items := make([]entity.PurchaseItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, it.PurchaseItem)
	}
	if err := im.retotal(&inv.Subtotal, &inv.Tax, &inv.Total, items, inv.Currency); err != nil {
		return err
	}
	for i := range inv.Items {
		inv.Items[i].PurchaseItem = items[i]
	}
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		return err
	}
	number, err := im.number(ctx, s, inv.InvoiceNumber, settings.InvoiceNumberPrefix(), repository.SequenceInvoice, inv.CreatedAt.Year())
	if err != nil {
		return err
	}
	inv.InvoiceNumber = number
	return s.Invoices.Create(ctx, &inv)
}

func (im *Importer) finance(ctx context.Context, s repository.Stores, doc map[string]any, now time.Time) error {
	rec := normalize.FinanceRecord(doc, now)
	if !rec.Type.Valid() {
		return domain.Validation("unknown type %q", normalize.String(doc["type"]))
	}
	if rec.Amount.IsNegative() {
		return domain.Validation("amount must not be negative")
	}
	rec.ID = ensureID(rec.ID)
	return s.Finance.Create(ctx, &rec)
}

// retotal keeps stored totals that add up and recomputes the rest from the items.
func (im *Importer) retotal(subtotal, tax, total *decimal.Decimal, items []entity.PurchaseItem, base string) error {
	if total.Equal(subtotal.Add(*tax)) && !total.IsZero() {
		return nil
	}
	if err := pricing.PriceItems(items, base); err != nil {
		return err
	}
	t, err := pricing.Compute(items, base, im.policy.TaxRate)
	if err != nil {
		return err
	}
	*subtotal, *tax, *total = t.Subtotal, t.Tax, t.Total
	return nil
}

// number keeps a parseable stored number and moves the counter past it, or allocates a new one.
func (im *Importer) number(ctx context.Context, s repository.Stores, stored, prefix, sequence string, year int) (string, error) {
	if _, y, seq, ok := entity.ParseDocumentNumber(stored); ok {
		if err := s.Sequences.Advance(ctx, sequence, y, seq); err != nil {
			return "", err
		}
		return stored, nil
	}
	if stored != "" {
		return stored, nil
	}
	seq, err := s.Sequences.Next(ctx, sequence, year)
	if err != nil {
		return "", err
	}
	return entity.DocumentNumber(prefix, year, seq), nil
}
