package finance

import (
	"context"
	"errors"
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

// FinanceUseCase ledger CRUD, KPIs and bulk import.
type FinanceUseCase struct {
	repo repository.FinanceRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewFinanceUseCase builds the use case.
func NewFinanceUseCase(repo repository.FinanceRepository, log *logger.Logger) *FinanceUseCase {
	return &FinanceUseCase{repo: repo, log: log.Component("finance"), now: time.Now}
}

// Create validates and stores a ledger entry.
func (uc *FinanceUseCase) Create(ctx context.Context, in dto.FinanceRequest) (*entity.FinanceRecord, error) {
	now := entity.StoreTime(uc.now())
	rec := &entity.FinanceRecord{
		ID:            uuid.New().String(),
		SchemaVersion: entity.SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := apply(rec, in, now); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the record or ErrNotFound.
func (uc *FinanceUseCase) Get(ctx context.Context, id string) (*entity.FinanceRecord, error) {
	rec, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.NotFound("finance record", id)
	}
	return rec, nil
}

// Update replaces the editable fields of a record.
func (uc *FinanceUseCase) Update(ctx context.Context, id string, in dto.FinanceRequest) (*entity.FinanceRecord, error) {
	rec, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(rec, in, rec.Date); err != nil {
		return nil, err
	}
	rec.SchemaVersion = entity.SchemaVersion
	rec.UpdatedAt = entity.StoreTime(uc.now())
	if err := uc.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete hard-deletes a record.
func (uc *FinanceUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List returns records matching the query, newest first.
func (uc *FinanceUseCase) List(ctx context.Context, q dto.FinanceQuery) ([]*entity.FinanceRecord, error) {
	filter, err := Filter(q)
	if err != nil {
		return nil, err
	}
	return uc.repo.List(ctx, filter)
}

// Stats returns the finance KPIs, aggregated by the store when supported and folded otherwise.
func (uc *FinanceUseCase) Stats(ctx context.Context, q dto.FinanceQuery) (repository.FinanceStats, error) {
	filter, err := Filter(q)
	if err != nil {
		return repository.FinanceStats{}, err
	}
	stats, err := uc.repo.Stats(ctx, filter)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, repository.ErrAggregationUnsupported) {
		return repository.FinanceStats{}, err
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return repository.FinanceStats{}, err
	}
	return Fold(list, filter), nil
}

// Fold computes the KPIs over records matching filter. Sums include completed records only;
// profit = invested - expenses - tds.
func Fold(list []*entity.FinanceRecord, filter repository.FinanceFilter) repository.FinanceStats {
	out := repository.FinanceStats{
		TotalInvested: decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalTDS:      decimal.Zero,
	}
	for _, r := range list {
		if !filter.Matches(r) {
			continue
		}
		out.RecordCount++
		switch r.Status {
		case entity.FinancePending:
			out.PendingCount++
			continue
		case entity.FinanceFailed:
			out.FailedCount++
			continue
		case entity.FinanceCompleted:
		default:
			continue
		}
		switch r.Type {
		case entity.FinanceInvested:
			out.TotalInvested = out.TotalInvested.Add(r.Amount)
		case entity.FinanceExpense:
			out.TotalExpenses = out.TotalExpenses.Add(r.Amount)
		case entity.FinanceTDS:
			out.TotalTDS = out.TotalTDS.Add(r.Amount)
		}
	}
	out.Profit = out.TotalInvested.Sub(out.TotalExpenses).Sub(out.TotalTDS)
	return out
}

// Filter converts and validates query parameters.
func Filter(q dto.FinanceQuery) (repository.FinanceFilter, error) {
	f := repository.FinanceFilter{
		Search:        strings.TrimSpace(q.Search),
		Type:          entity.FinanceType(strings.ToLower(q.Type)),
		Category:      strings.ToLower(strings.TrimSpace(q.Category)),
		Status:        entity.FinanceStatus(strings.ToLower(q.Status)),
		PaymentMethod: strings.ToLower(strings.TrimSpace(q.PaymentMethod)),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, domain.Validation("unknown type %q", q.Type)
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, domain.Validation("unknown status %q", q.Status)
	}
	var ok bool
	if f.DateFrom, ok = normalize.DateBound(q.DateFrom, false); !ok {
		return f, domain.Validation("invalid dateFrom %q", q.DateFrom)
	}
	if f.DateTo, ok = normalize.DateBound(q.DateTo, true); !ok {
		return f, domain.Validation("invalid dateTo %q", q.DateTo)
	}
	return f, nil
}

// apply validates in against the vocabularies and copies it onto rec.
func apply(rec *entity.FinanceRecord, in dto.FinanceRequest, defaultDate time.Time) error {
	typ := entity.FinanceType(strings.ToLower(strings.TrimSpace(in.Type)))
	if !typ.Valid() {
		return domain.Validation("type must be one of invested, expense, tds")
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if !typ.ValidCategory(category) {
		return domain.Validation("category %q is not valid for type %s", in.Category, typ)
	}

	var amount decimal.Decimal
	switch {
	case in.Amount != nil:
		amount = *in.Amount
	case in.Quantity != nil && in.UnitPrice != nil:
		if !in.Quantity.IsPositive() {
			return domain.Validation("quantity must be greater than 0")
		}
		amount = pricing.LineTotal(*in.Quantity, *in.UnitPrice)
	default:
		return domain.Validation("amount is required")
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return domain.Validation("amount must be greater than 0")
	}

	method := strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = "other"
	}
	if !entity.ValidPaymentMethod(method) {
		return domain.Validation("unknown paymentMethod %q", in.PaymentMethod)
	}
	status := entity.FinanceStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if status == "" {
		status = entity.FinanceCompleted
	}
	if !status.Valid() {
		return domain.Validation("unknown status %q", in.Status)
	}
	taxYear := strings.TrimSpace(in.TaxYear)
	if taxYear != "" {
		if typ != entity.FinanceTDS {
			return domain.Validation("taxYear is only accepted for tds records")
		}
		if !entity.ValidTaxYear(taxYear) {
			return domain.Validation("taxYear must look like 2024-25")
		}
	}
	date := defaultDate
	if s := strings.TrimSpace(in.Date); s != "" {
		t, ok := normalize.TimeOK(s)
		if !ok {
			return domain.Validation("date is not a valid date")
		}
		date = t
	}

	rec.Type = typ
	rec.Category = category
	rec.Amount = amount
	rec.Description = strings.TrimSpace(in.Description)
	rec.Date = entity.StoreTime(date)
	rec.PaymentMethod = method
	rec.Status = status
	rec.Reference = strings.TrimSpace(in.Reference)
	rec.TaxYear = taxYear
	rec.Notes = in.Notes
	return nil
}
