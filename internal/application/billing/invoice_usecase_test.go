package billing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/crm"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/purchasing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/pricing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/memory"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

var policy = pricing.Policy{BaseCurrency: "INR", TaxRate: decimal.RequireFromString("0.18")}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	store     *memory.Store
	invoices  *InvoiceUseCase
	purchases *purchasing.PurchaseUseCase
	clients   *crm.ClientUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.New()
	s := store.Stores()
	return &env{
		store:     store,
		invoices:  NewInvoiceUseCase(store, s.Invoices, s.Purchases, s.Clients, Config{Policy: policy, DefaultPaymentTerms: 30}, logger.Nop()),
		purchases: purchasing.NewPurchaseUseCase(store, s.Purchases, s.Clients, policy, logger.Nop()),
		clients:   crm.NewClientUseCase(s.Clients),
	}
}

func (e *env) client(t *testing.T, name string) string {
	t.Helper()
	c, err := e.clients.Create(context.Background(), dto.ClientRequest{CompanyName: name})
	require.NoError(t, err)
	return c.ID
}

func (e *env) purchase(t *testing.T, clientID, status string, qty, price string) *entity.Purchase {
	t.Helper()
	p, err := e.purchases.Create(context.Background(), dto.CreatePurchaseRequest{
		ClientID: clientID,
		Status:   status,
		Items:    []dto.PurchaseItemDTO{{Name: "Widget", Quantity: d(qty), UnitPrice: d(price), Currency: "INR"}},
	})
	require.NoError(t, err)
	return p
}

func invoiceFrom(clientID string, p *entity.Purchase) dto.CreateInvoiceRequest {
	items := make([]dto.InvoiceItemDTO, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.InvoiceItemDTO{PurchaseItemDTO: dto.FromPurchaseItem(it), PurchaseID: p.ID})
	}
	return dto.CreateInvoiceRequest{
		ClientID:    clientID,
		DueDate:     "2030-01-31",
		PurchaseIDs: []string{p.ID},
		Items:       items,
	}
}

func assertTotalsInvariant(t *testing.T, inv *entity.Invoice) {
	t.Helper()
	assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.Tax)), "total %s != subtotal %s + tax %s", inv.Total, inv.Subtotal, inv.Tax)
	assert.True(t, inv.Tax.Equal(inv.Subtotal.Mul(policy.TaxRate).Round(2)), "tax %s", inv.Tax)
}

func TestInvoiceLifecycle_Scenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	p1 := e.purchase(t, c1, "approved", "10", "100")

	assert.True(t, p1.Subtotal.Equal(d("1000")))
	assert.True(t, p1.Tax.Equal(d("180")))
	assert.True(t, p1.Total.Equal(d("1180")))

	inv, err := e.invoices.Create(ctx, invoiceFrom(c1, p1))
	require.NoError(t, err)
	assert.True(t, inv.Subtotal.Equal(d("1000")))
	assert.True(t, inv.Tax.Equal(d("180")))
	assert.True(t, inv.Total.Equal(d("1180")))
	assert.Equal(t, entity.InvoiceDraft, inv.Status)
	assert.Equal(t, 30, inv.PaymentTerms)
	assert.Equal(t, fmt.Sprintf("INV-%d-0001", inv.CreatedAt.Year()), inv.InvoiceNumber)
	assert.Equal(t, p1.PONumber, inv.Items[0].PONumber)
	assertTotalsInvariant(t, inv)

	inv, err = e.invoices.TransitionStatus(ctx, inv.ID, "sent")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceSent, inv.Status)

	inv, err = e.invoices.TransitionStatus(ctx, inv.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePaid, inv.Status)

	stored, err := e.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePaid, stored.Status)
}

func TestCreate_Preconditions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	c2 := e.client(t, "C2")
	approved := e.purchase(t, c1, "approved", "1", "50")
	pending := e.purchase(t, c1, "pending", "1", "50")
	foreign := e.purchase(t, c2, "completed", "1", "50")

	tests := []struct {
		name   string
		mutate func(r *dto.CreateInvoiceRequest)
		want   error
	}{
		{"missing client", func(r *dto.CreateInvoiceRequest) { r.ClientID = "" }, domain.ErrValidation},
		{"unknown client", func(r *dto.CreateInvoiceRequest) { r.ClientID = "nope" }, domain.ErrNotFound},
		{"bad due date", func(r *dto.CreateInvoiceRequest) { r.DueDate = "someday" }, domain.ErrValidation},
		{"no purchases", func(r *dto.CreateInvoiceRequest) { r.PurchaseIDs = nil }, domain.ErrValidation},
		{"no items", func(r *dto.CreateInvoiceRequest) { r.Items = nil }, domain.ErrValidation},
		{"unknown purchase", func(r *dto.CreateInvoiceRequest) { r.PurchaseIDs = []string{"ghost"} }, domain.ErrNotFound},
		{"pending purchase", func(r *dto.CreateInvoiceRequest) { r.PurchaseIDs = []string{pending.ID}; r.Items[0].PurchaseID = pending.ID }, domain.ErrValidation},
		{"other client's purchase", func(r *dto.CreateInvoiceRequest) { r.PurchaseIDs = []string{foreign.ID}; r.Items[0].PurchaseID = foreign.ID }, domain.ErrValidation},
		{"item outside invoice", func(r *dto.CreateInvoiceRequest) { r.Items[0].PurchaseID = pending.ID }, domain.ErrValidation},
		{"zero quantity", func(r *dto.CreateInvoiceRequest) { r.Items[0].Quantity = decimal.Zero }, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := invoiceFrom(c1, approved)
			tt.mutate(&req)
			_, err := e.invoices.Create(ctx, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	list, err := e.invoices.List(ctx, dto.InvoiceListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_LegacyPurchaseIDAndDefaults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	p1 := e.purchase(t, c1, "approved", "2", "10")
	p2 := e.purchase(t, c1, "completed", "1", "5")

	req := invoiceFrom(c1, p2)
	req.PurchaseIDs = []string{p2.ID}
	req.PurchaseID = p1.ID
	req.Items = append(req.Items, dto.InvoiceItemDTO{PurchaseItemDTO: dto.PurchaseItemDTO{Name: "Extra", Quantity: d("1"), UnitPrice: d("1")}})
	zero := 0
	req.PaymentTerms = &zero

	inv, err := e.invoices.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{p2.ID, p1.ID}, inv.PurchaseIDs)
	assert.Equal(t, p2.ID, inv.PrimaryPurchaseID())
	assert.Equal(t, p2.ID, inv.Items[1].PurchaseID, "unattributed items go to the first purchase")
	assert.Equal(t, "INR", inv.Items[1].Currency)
	assert.Equal(t, 0, inv.PaymentTerms)
	assert.True(t, inv.Subtotal.Equal(d("6")))
	assertTotalsInvariant(t, inv)
}

func TestCreate_UsesSettingsPrefix(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.store.Stores().Settings.Save(ctx, &entity.CompanySettings{CompanyName: "Acme", InvoicePrefix: "ACME"}))
	c1 := e.client(t, "C1")
	p1 := e.purchase(t, c1, "approved", "1", "1")

	inv, err := e.invoices.Create(ctx, invoiceFrom(c1, p1))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ACME-%d-0001", inv.CreatedAt.Year()), inv.InvoiceNumber)
}

func TestTransitionStatus_Table(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	p1 := e.purchase(t, c1, "approved", "1", "100")
	inv, err := e.invoices.Create(ctx, invoiceFrom(c1, p1))
	require.NoError(t, err)

	_, err = e.invoices.TransitionStatus(ctx, inv.ID, "paid")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "draft cannot jump to paid")

	_, err = e.invoices.TransitionStatus(ctx, inv.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.invoices.TransitionStatus(ctx, "missing", "sent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := e.invoices.TransitionStatus(ctx, inv.ID, "draft")
	require.NoError(t, err)
	assert.Equal(t, inv.UpdatedAt, got.UpdatedAt, "same-state transition is a no-op")

	for _, step := range []string{"sent", "overdue"} {
		_, err = e.invoices.TransitionStatus(ctx, inv.ID, step)
		require.NoError(t, err)
	}
	_, err = e.invoices.TransitionStatus(ctx, inv.ID, "paid")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "overdue is only left through a reset")

	got, err = e.invoices.TransitionStatus(ctx, inv.ID, "draft")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceDraft, got.Status)
}

func TestUpdate_RecomputesTotals(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	p1 := e.purchase(t, c1, "approved", "10", "100")
	inv, err := e.invoices.Create(ctx, invoiceFrom(c1, p1))
	require.NoError(t, err)

	bogus := d("1")
	items := []dto.InvoiceItemDTO{{PurchaseItemDTO: dto.PurchaseItemDTO{Name: "Widget", Quantity: d("3"), UnitPrice: d("33.33")}, PurchaseID: p1.ID}}
	notes := "revised"
	got, err := e.invoices.Update(ctx, inv.ID, dto.UpdateInvoiceRequest{Items: &items, Subtotal: &bogus, Tax: &bogus, Total: &bogus, Notes: &notes})
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(d("99.99")), got.Subtotal.String())
	assert.True(t, got.Tax.Equal(d("18")), got.Tax.String())
	assert.True(t, got.Total.Equal(d("117.99")), got.Total.String())
	assert.Equal(t, "revised", got.Notes)
	assert.Equal(t, p1.PONumber, got.Items[0].PONumber)
	assertTotalsInvariant(t, got)
}

func TestUpdate_ClientTotalsWithoutItems(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	p1 := e.purchase(t, c1, "approved", "10", "100")
	inv, err := e.invoices.Create(ctx, invoiceFrom(c1, p1))
	require.NoError(t, err)

	sub, tax, total := d("500"), d("90"), d("590")
	got, err := e.invoices.Update(ctx, inv.ID, dto.UpdateInvoiceRequest{Subtotal: &sub, Tax: &tax, Total: &total})
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(total))

	wrong := d("600")
	_, err = e.invoices.Update(ctx, inv.ID, dto.UpdateInvoiceRequest{Total: &wrong})
	assert.ErrorIs(t, err, domain.ErrValidation)

	badDate := "31/31/2031"
	_, err = e.invoices.Update(ctx, inv.ID, dto.UpdateInvoiceRequest{DueDate: &badDate})
	assert.ErrorIs(t, err, domain.ErrValidation)

	paid := "paid"
	_, err = e.invoices.Update(ctx, inv.ID, dto.UpdateInvoiceRequest{Status: &paid})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.invoices.Update(ctx, "missing", dto.UpdateInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_LeavesPurchases(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	p1 := e.purchase(t, c1, "approved", "1", "1")
	inv, err := e.invoices.Create(ctx, invoiceFrom(c1, p1))
	require.NoError(t, err)

	require.NoError(t, e.invoices.Delete(ctx, inv.ID))
	_, err = e.invoices.Get(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.invoices.Delete(ctx, inv.ID), domain.ErrNotFound)

	p, err := e.purchases.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseApproved, p.Status)
}

func TestCreate_ConcurrentNumbersAreUnique(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	p1 := e.purchase(t, c1, "approved", "1", "100")

	const n = 40
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := e.invoices.Create(ctx, invoiceFrom(c1, p1))
			if err != nil {
				errs <- err
				return
			}
			numbers <- inv.InvoiceNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	year := time.Now().UTC().Year()
	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "duplicate invoice number %s", num)
		seen[num] = true
	}
	require.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[entity.DocumentNumber("INV", year, int64(i))], "gap at %d", i)
	}
}

func TestStats_FoldMatchesFilter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c1 := e.client(t, "C1")
	c2 := e.client(t, "C2")
	p1 := e.purchase(t, c1, "approved", "10", "100") // 1180
	p2 := e.purchase(t, c2, "approved", "1", "100")  // 118

	mk := func(client string, p *entity.Purchase, path ...string) {
		inv, err := e.invoices.Create(ctx, invoiceFrom(client, p))
		require.NoError(t, err)
		for _, s := range path {
			_, err = e.invoices.TransitionStatus(ctx, inv.ID, s)
			require.NoError(t, err)
		}
	}
	mk(c1, p1)                 // draft
	mk(c1, p1, "sent")         // sent
	mk(c1, p1, "sent", "paid") // paid
	mk(c1, p1, "overdue")      // overdue
	mk(c2, p2, "sent", "paid") // other client

	all, err := e.invoices.Stats(ctx, dto.InvoiceStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 5, all.TotalInvoices)
	assert.True(t, all.TotalRevenue.Equal(d("4838")), all.TotalRevenue.String())
	assert.Equal(t, 2, all.Paid.Count)
	assert.True(t, all.Paid.Revenue.Equal(d("1298")))
	assert.Equal(t, 2, all.Pending.Count)
	assert.True(t, all.Pending.Revenue.Equal(d("2360")))
	assert.Equal(t, 1, all.Overdue.Count)

	one, err := e.invoices.Stats(ctx, dto.InvoiceStatsQuery{ClientID: c1})
	require.NoError(t, err)
	assert.Equal(t, 4, one.TotalInvoices)
	assert.True(t, one.TotalRevenue.Equal(d("4720")))
	assert.Equal(t, 1, one.Paid.Count)

	future, err := e.invoices.Stats(ctx, dto.InvoiceStatsQuery{DateFrom: "2999-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 0, future.TotalInvoices)
	assert.True(t, future.TotalRevenue.IsZero())

	_, err = e.invoices.Stats(ctx, dto.InvoiceStatsQuery{DateTo: "yesterday"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := e.invoices.List(ctx, dto.InvoiceListQuery{})
	require.NoError(t, err)
	assert.Equal(t, all, FoldInvoiceStats(list, repository.InvoiceFilter{}))
}
