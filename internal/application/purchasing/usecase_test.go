package purchasing

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/pricing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/memory"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

var policy = pricing.Policy{BaseCurrency: "INR", TaxRate: decimal.RequireFromString("0.18")}

func setup(t *testing.T) (*PurchaseUseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	s := store.Stores()
	for _, id := range []string{"c1", "c2"} {
		require.NoError(t, s.Clients.Create(context.Background(), &entity.Client{ID: id, CompanyName: id, Status: entity.ClientActive}))
	}
	return NewPurchaseUseCase(store, s.Purchases, s.Clients, policy, logger.Nop()), store
}

func item(qty, price string) dto.PurchaseItemDTO {
	return dto.PurchaseItemDTO{Name: "Part", Quantity: decimal.RequireFromString(qty), UnitPrice: decimal.RequireFromString(price)}
}

// seed creates n purchases; every third one shares its timestamp with the previous one.
func seed(t *testing.T, uc *PurchaseUseCase, n int) []*entity.Purchase {
	t.Helper()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	statuses := []string{"pending", "approved", "rejected", "completed"}
	var out []*entity.Purchase
	tick := 0
	for i := 0; i < n; i++ {
		if i%3 != 2 {
			tick++
		}
		at := base.Add(time.Duration(tick) * time.Minute)
		uc.now = func() time.Time { return at }
		client := "c1"
		if i%2 == 1 {
			client = "c2"
		}
		p, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
			ClientID: client,
			Status:   statuses[i%len(statuses)],
			Items:    []dto.PurchaseItemDTO{item("1", "10")},
		})
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func expected(all []*entity.Purchase, f repository.PurchaseFilter) []string {
	var rows []*entity.Purchase
	for _, p := range all {
		if f.Matches(p) {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		less := a.CreatedAt.Before(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID)
		if f.Desc {
			return !less
		}
		return less
	})
	ids := make([]string, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestList_PaginationCompleteness(t *testing.T) {
	uc, _ := setup(t)
	all := seed(t, uc, 37)
	ctx := context.Background()

	queries := []dto.PurchaseListQuery{
		{},
		{ClientID: "c1"},
		{Status: "approved"},
		{ClientID: "c2", Status: "completed"},
		{POPrefix: "PO-2025-001"},
		{POPrefix: "PO-2024"},
	}
	for _, base := range queries {
		for _, order := range []string{"asc", "desc"} {
			for _, limit := range []int{1, 4, 25} {
				q := base
				q.Order, q.Limit = order, limit
				t.Run(fmt.Sprintf("%+v", q), func(t *testing.T) {
					var got []string
					seen := map[string]bool{}
					for pages := 0; ; pages++ {
						require.Less(t, pages, 100, "pagination does not terminate")
						page, err := uc.List(ctx, q)
						require.NoError(t, err)
						assert.LessOrEqual(t, len(page.Items), limit)
						for _, p := range page.Items {
							assert.False(t, seen[p.ID], "duplicate %s", p.ID)
							seen[p.ID] = true
							got = append(got, p.ID)
						}
						if page.NextPageToken == "" {
							assert.Empty(t, page.NextCursor)
							break
						}
						assert.Equal(t, page.Items[len(page.Items)-1].ID, page.NextPageToken)
						q.PageToken = page.NextPageToken
					}
					want := expected(all, repository.PurchaseFilter{
						ClientID: base.ClientID,
						Status:   entity.PurchaseStatus(base.Status),
						POPrefix: base.POPrefix,
						Desc:     order == "desc",
					})
					if len(want) == 0 {
						assert.Empty(t, got)
						return
					}
					assert.Equal(t, want, got)
				})
			}
		}
	}
}

func TestList_Cursor(t *testing.T) {
	uc, _ := setup(t)
	all := seed(t, uc, 6)
	ctx := context.Background()

	// all[0] is alone on its minute, so "after all[0]" in ascending order skips exactly one row.
	page, err := uc.List(ctx, dto.PurchaseListQuery{Order: "asc", Cursor: dto.ISO(all[0].CreatedAt)})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.NotEqual(t, all[0].ID, page.Items[0].ID)

	page, err = uc.List(ctx, dto.PurchaseListQuery{Order: "desc", Cursor: dto.ISO(all[0].CreatedAt)})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.NextPageToken)

	_, err = uc.List(ctx, dto.PurchaseListQuery{Cursor: "not-a-date"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestList_Validation(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	for _, q := range []dto.PurchaseListQuery{
		{PageToken: "does-not-exist"},
		{Order: "sideways"},
		{Status: "lost"},
	} {
		_, err := uc.List(ctx, q)
		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", q)
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 25, ClampLimit(0))
	assert.Equal(t, 25, ClampLimit(-3))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 500, ClampLimit(501))
	assert.Equal(t, 500, ClampLimit(500))
}

func TestListByClientAndGetByIDs(t *testing.T) {
	uc, _ := setup(t)
	all := seed(t, uc, 8)
	ctx := context.Background()

	eligible, err := uc.ListByClient(ctx, "c1", []string{"approved", "completed"})
	require.NoError(t, err)
	for _, p := range eligible {
		assert.Equal(t, "c1", p.ClientID)
		assert.True(t, p.Status.Invoiceable())
	}

	_, err = uc.ListByClient(ctx, "c1", []string{"bogus"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := uc.GetByIDs(ctx, []string{all[3].ID, "ghost", all[1].ID, all[3].ID, ""})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, all[3].ID, got[0].ID)
	assert.Equal(t, all[1].ID, got[1].ID)

	empty, err := uc.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateAndUpdate(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	uc.now = func() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) }

	p, err := uc.Create(ctx, dto.CreatePurchaseRequest{ClientID: "c1", Items: []dto.PurchaseItemDTO{item("10", "100")}})
	require.NoError(t, err)
	assert.Equal(t, "PO-2025-0001", p.PONumber)
	assert.Equal(t, entity.PurchasePending, p.Status)
	assert.Equal(t, "INR", p.BaseCurrency)
	assert.True(t, p.Total.Equal(decimal.RequireFromString("1180")))

	p2, err := uc.Create(ctx, dto.CreatePurchaseRequest{ClientID: "c2", Items: []dto.PurchaseItemDTO{item("1", "1")}})
	require.NoError(t, err)
	assert.Equal(t, "PO-2025-0002", p2.PONumber)

	items := []dto.PurchaseItemDTO{{Name: "Licence", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), Currency: "USD"}}
	status := "approved"
	updated, err := uc.Update(ctx, p.ID, dto.UpdatePurchaseRequest{Items: &items, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseApproved, updated.Status)
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(830)), updated.Subtotal.String())
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("979.4")), updated.Total.String())
	assert.Equal(t, "PO-2025-0001", updated.PONumber)

	bad := "shipped"
	_, err = uc.Update(ctx, p.ID, dto.UpdatePurchaseRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	ghost := "ghost"
	_, err = uc.Update(ctx, p.ID, dto.UpdatePurchaseRequest{ClientID: &ghost})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreatePurchaseRequest{ClientID: "c1", Items: []dto.PurchaseItemDTO{{Name: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1), Currency: "XXX"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, uc.Delete(ctx, p.ID))
	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestCreate_UsesSettingsPOPrefix(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	uc.now = func() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) }
	require.NoError(t, store.Stores().Settings.Save(ctx, &entity.CompanySettings{CompanyName: "Acme", PurchasePrefix: "ORD"}))

	p, err := uc.Create(ctx, dto.CreatePurchaseRequest{ClientID: "c1", Items: []dto.PurchaseItemDTO{item("1", "10")}})
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-0001", p.PONumber)
}
