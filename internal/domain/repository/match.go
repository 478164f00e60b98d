package repository

import (
	"strings"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// Matches reports whether c satisfies the filter.
func (f ClientFilter) Matches(c *entity.Client) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return containsFold(f.Search, c.CompanyName, c.ContactPerson, c.Email)
}

// Matches reports whether p satisfies every criterion except ordering, keyset and limit.
func (f PurchaseFilter) Matches(p *entity.Purchase) bool {
	if f.ClientID != "" && p.ClientID != f.ClientID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if p.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return f.POPrefix == "" || strings.HasPrefix(p.PONumber, f.POPrefix)
}

// Follows reports whether p comes strictly after the keyset in the given direction.
func (k Keyset) Follows(p *entity.Purchase, desc bool) bool {
	if k.ID == "" || !p.CreatedAt.Equal(k.CreatedAt) {
		if desc {
			return p.CreatedAt.Before(k.CreatedAt)
		}
		return p.CreatedAt.After(k.CreatedAt)
	}
	if desc {
		return p.ID < k.ID
	}
	return p.ID > k.ID
}

// Matches reports whether inv satisfies the filter.
func (f InvoiceFilter) Matches(inv *entity.Invoice) bool {
	if f.ClientID != "" && inv.ClientID != f.ClientID {
		return false
	}
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	if f.DateFrom != nil && inv.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && inv.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}

// Matches reports whether r satisfies the filter. Status is not implied: callers
// that need completed-only sums partition afterwards.
func (f FinanceFilter) Matches(r *entity.FinanceRecord) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.PaymentMethod != "" && r.PaymentMethod != f.PaymentMethod {
		return false
	}
	if f.DateFrom != nil && r.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && r.Date.After(*f.DateTo) {
		return false
	}
	return containsFold(f.Search, r.Description, r.Category, r.Reference, r.Notes)
}

func containsFold(needle string, haystack ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
