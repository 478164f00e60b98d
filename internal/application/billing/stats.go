package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/normalize"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

// Stats returns invoice KPIs. The store aggregates when it can; otherwise the
// filtered invoices are folded in process with the same partitioning.
func (uc *InvoiceUseCase) Stats(ctx context.Context, q dto.InvoiceStatsQuery) (repository.InvoiceStats, error) {
	filter := repository.InvoiceFilter{ClientID: strings.TrimSpace(q.ClientID)}
	var err error
	if filter.DateFrom, filter.DateTo, err = dateFilter(q.DateFrom, q.DateTo); err != nil {
		return repository.InvoiceStats{}, err
	}

	stats, err := uc.invoices.Stats(ctx, filter)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, repository.ErrAggregationUnsupported) {
		return repository.InvoiceStats{}, err
	}
	list, err := uc.invoices.List(ctx, filter)
	if err != nil {
		return repository.InvoiceStats{}, err
	}
	return FoldInvoiceStats(list, filter), nil
}

// FoldInvoiceStats computes the KPIs over invoices matching filter.
// Pending groups draft and sent; revenue is the sum of invoice totals.
func FoldInvoiceStats(list []*entity.Invoice, filter repository.InvoiceFilter) repository.InvoiceStats {
	out := repository.InvoiceStats{
		TotalRevenue: decimal.Zero,
		Paid:         repository.Bucket{Revenue: decimal.Zero},
		Pending:      repository.Bucket{Revenue: decimal.Zero},
		Overdue:      repository.Bucket{Revenue: decimal.Zero},
	}
	for _, inv := range list {
		if !filter.Matches(inv) {
			continue
		}
		out.TotalInvoices++
		out.TotalRevenue = out.TotalRevenue.Add(inv.Total)
		var b *repository.Bucket
		switch inv.Status {
		case entity.InvoicePaid:
			b = &out.Paid
		case entity.InvoiceDraft, entity.InvoiceSent:
			b = &out.Pending
		case entity.InvoiceOverdue:
			b = &out.Overdue
		default:
			continue
		}
		b.Count++
		b.Revenue = b.Revenue.Add(inv.Total)
	}
	return out
}

func dateFilter(from, to string) (lo, hi *time.Time, err error) {
	var ok bool
	if lo, ok = normalize.DateBound(from, false); !ok {
		return nil, nil, domain.Validation("invalid dateFrom %q", from)
	}
	if hi, ok = normalize.DateBound(to, true); !ok {
		return nil, nil, domain.Validation("invalid dateTo %q", to)
	}
	return lo, hi, nil
}
