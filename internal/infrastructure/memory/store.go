// Package memory is a process-local implementation of every repository port.
// It backs STORE_DRIVER=memory and the service and HTTP tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

type seqKey struct {
	name string
	year int
}

type state struct {
	clients   map[string]entity.Client
	purchases map[string]entity.Purchase
	invoices  map[string]entity.Invoice
	finance   map[string]entity.FinanceRecord
	users     map[string]entity.User
	settings  *entity.CompanySettings
	seq       map[seqKey]int64
}

// Store holds all collections. Transactions are serialized against each other; a failed
// transaction undoes only its own writes.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   state
}

// New returns an empty store.
func New() *Store {
	return &Store{st: state{
		clients:   map[string]entity.Client{},
		purchases: map[string]entity.Purchase{},
		invoices:  map[string]entity.Invoice{},
		finance:   map[string]entity.FinanceRecord{},
		users:     map[string]entity.User{},
		seq:       map[seqKey]int64{},
	}}
}

// Stores returns repositories over s that write outside any transaction.
func (s *Store) Stores() repository.Stores {
	return s.stores(nil)
}

func (s *Store) stores(u *undoLog) repository.Stores {
	return repository.Stores{
		Clients:   ClientRepo{s: s, undo: u},
		Purchases: PurchaseRepo{s: s, undo: u},
		Invoices:  InvoiceRepo{s: s, undo: u},
		Finance:   FinanceRepo{s: s, undo: u},
		Settings:  SettingsRepo{s: s, undo: u},
		Users:     UserRepo{s: s, undo: u},
		Sequences: SequenceRepo{s: s, undo: u},
	}
}

var _ repository.TxRunner = (*Store)(nil)

// Run executes fn with repositories that record an undo step for every write.
// When fn fails the steps are replayed newest first.
func (s *Store) Run(ctx context.Context, fn func(repository.Stores) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	u := &undoLog{}
	if err := fn(s.stores(u)); err != nil {
		s.mu.Lock()
		u.rollback(&s.st)
		s.mu.Unlock()
		return err
	}
	return nil
}

// undoLog inverse operations of the writes made inside one transaction. Callers hold s.mu.
type undoLog struct {
	steps []func(*state)
}

func (u *undoLog) rollback(st *state) {
	for i := len(u.steps) - 1; i >= 0; i-- {
		u.steps[i](st)
	}
	u.steps = nil
}

// remember records how to put key k of the map chosen by pick back to its current value.
// It must run before the write, with s.mu held. A nil log records nothing.
func remember[K comparable, V any](u *undoLog, st *state, pick func(*state) map[K]V, k K) {
	if u == nil {
		return
	}
	prev, existed := pick(st)[k]
	u.steps = append(u.steps, func(st *state) {
		if existed {
			pick(st)[k] = prev
		} else {
			delete(pick(st), k)
		}
	})
}

func clientsOf(st *state) map[string]entity.Client { return st.clients }
func purchasesOf(st *state) map[string]entity.Purchase { return st.purchases }
func invoicesOf(st *state) map[string]entity.Invoice { return st.invoices }
func financeOf(st *state) map[string]entity.FinanceRecord { return st.finance }
func usersOf(st *state) map[string]entity.User { return st.users }

// ── clients ───────────────────────────────────────────────────────────────────

// ClientRepo repository.ClientRepository over a Store.
type ClientRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.ClientRepository = ClientRepo{}

func (r ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.clients[c.ID]; ok {
		return domain.ErrConflict
	}
	remember(r.undo, &r.s.st, clientsOf, c.ID)
	r.s.st.clients[c.ID] = copyClient(*c)
	return nil
}

func (r ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.st.clients[id]
	if !ok {
		return nil, nil
	}
	c = copyClient(c)
	return &c, nil
}

func (r ClientRepo) List(_ context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Client{}
	for _, c := range r.s.st.clients {
		c := copyClient(c)
		if f.Matches(&c) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].CompanyName), strings.ToLower(out[j].CompanyName)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.clients[c.ID]; !ok {
		return domain.NotFound("client", c.ID)
	}
	remember(r.undo, &r.s.st, clientsOf, c.ID)
	r.s.st.clients[c.ID] = copyClient(*c)
	return nil
}

func (r ClientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	remember(r.undo, &r.s.st, clientsOf, id)
	delete(r.s.st.clients, id)
	return nil
}

func copyClient(c entity.Client) entity.Client {
	if c.BankDetails != nil {
		b := *c.BankDetails
		c.BankDetails = &b
	}
	return c
}

// ── purchases ─────────────────────────────────────────────────────────────────

// PurchaseRepo repository.PurchaseRepository over a Store.
type PurchaseRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.PurchaseRepository = PurchaseRepo{}

func (r PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.purchases[p.ID]; ok {
		return domain.ErrConflict
	}
	for _, other := range r.s.st.purchases {
		if p.PONumber != "" && other.PONumber == p.PONumber {
			return domain.ErrConflict
		}
	}
	remember(r.undo, &r.s.st, purchasesOf, p.ID)
	r.s.st.purchases[p.ID] = copyPurchase(*p)
	return nil
}

func (r PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.st.purchases[id]
	if !ok {
		return nil, nil
	}
	p = copyPurchase(p)
	return &p, nil
}

func (r PurchaseRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Purchase, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.st.purchases[id]; ok {
			p = copyPurchase(p)
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r PurchaseRepo) List(_ context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Purchase{}
	for _, p := range r.s.st.purchases {
		p := copyPurchase(p)
		if !f.Matches(&p) {
			continue
		}
		if f.After != nil && !f.After.Follows(&p, f.Desc) {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		less := a.CreatedAt.Before(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID)
		if f.Desc {
			return !less
		}
		return less
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r PurchaseRepo) Update(_ context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.purchases[p.ID]; !ok {
		return domain.NotFound("purchase", p.ID)
	}
	remember(r.undo, &r.s.st, purchasesOf, p.ID)
	r.s.st.purchases[p.ID] = copyPurchase(*p)
	return nil
}

func (r PurchaseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	remember(r.undo, &r.s.st, purchasesOf, id)
	delete(r.s.st.purchases, id)
	return nil
}

func copyPurchase(p entity.Purchase) entity.Purchase {
	p.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return p
}

// ── invoices ──────────────────────────────────────────────────────────────────

// InvoiceRepo repository.InvoiceRepository over a Store.
type InvoiceRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.InvoiceRepository = InvoiceRepo{}

func (r InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.invoices[inv.ID]; ok {
		return domain.ErrConflict
	}
	for _, other := range r.s.st.invoices {
		if other.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrConflict
		}
	}
	remember(r.undo, &r.s.st, invoicesOf, inv.ID)
	r.s.st.invoices[inv.ID] = copyInvoice(*inv)
	return nil
}

func (r InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.st.invoices[id]
	if !ok {
		return nil, nil
	}
	inv = copyInvoice(inv)
	return &inv, nil
}

func (r InvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Invoice{}
	for _, inv := range r.s.st.invoices {
		inv := copyInvoice(inv)
		if f.Matches(&inv) {
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (r InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.invoices[inv.ID]; !ok {
		return domain.NotFound("invoice", inv.ID)
	}
	remember(r.undo, &r.s.st, invoicesOf, inv.ID)
	r.s.st.invoices[inv.ID] = copyInvoice(*inv)
	return nil
}

func (r InvoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	remember(r.undo, &r.s.st, invoicesOf, id)
	delete(r.s.st.invoices, id)
	return nil
}

// Stats is not computed by this store; callers fold.
func (r InvoiceRepo) Stats(context.Context, repository.InvoiceFilter) (repository.InvoiceStats, error) {
	return repository.InvoiceStats{}, repository.ErrAggregationUnsupported
}

func copyInvoice(inv entity.Invoice) entity.Invoice {
	inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	inv.PurchaseIDs = append([]string(nil), inv.PurchaseIDs...)
	return inv
}

// ── finance ───────────────────────────────────────────────────────────────────

// FinanceRepo repository.FinanceRepository over a Store.
type FinanceRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.FinanceRepository = FinanceRepo{}

func (r FinanceRepo) Create(_ context.Context, rec *entity.FinanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.finance[rec.ID]; ok {
		return domain.ErrConflict
	}
	remember(r.undo, &r.s.st, financeOf, rec.ID)
	r.s.st.finance[rec.ID] = *rec
	return nil
}

func (r FinanceRepo) GetByID(_ context.Context, id string) (*entity.FinanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.st.finance[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r FinanceRepo) List(_ context.Context, f repository.FinanceFilter) ([]*entity.FinanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.FinanceRecord{}
	for _, rec := range r.s.st.finance {
		rec := rec
		if f.Matches(&rec) {
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (r FinanceRepo) Update(_ context.Context, rec *entity.FinanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.finance[rec.ID]; !ok {
		return domain.NotFound("finance record", rec.ID)
	}
	remember(r.undo, &r.s.st, financeOf, rec.ID)
	r.s.st.finance[rec.ID] = *rec
	return nil
}

func (r FinanceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	remember(r.undo, &r.s.st, financeOf, id)
	delete(r.s.st.finance, id)
	return nil
}

// Stats is not computed by this store; callers fold.
func (r FinanceRepo) Stats(context.Context, repository.FinanceFilter) (repository.FinanceStats, error) {
	return repository.FinanceStats{}, repository.ErrAggregationUnsupported
}

// ── settings, users, sequences ────────────────────────────────────────────────

// SettingsRepo repository.SettingsRepository over a Store.
type SettingsRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.SettingsRepository = SettingsRepo{}

func (r SettingsRepo) Get(context.Context) (*entity.CompanySettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.st.settings == nil {
		return nil, nil
	}
	cp := *r.s.st.settings
	return &cp, nil
}

func (r SettingsRepo) Save(_ context.Context, settings *entity.CompanySettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.undo != nil {
		prev := r.s.st.settings
		r.undo.steps = append(r.undo.steps, func(st *state) { st.settings = prev })
	}
	cp := *settings
	r.s.st.settings = &cp
	return nil
}

// UserRepo repository.UserRepository over a Store.
type UserRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.UserRepository = UserRepo{}

func (r UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	remember(r.undo, &r.s.st, usersOf, u.ID)
	r.s.st.users[u.ID] = *u
	return nil
}

func (r UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

// SequenceRepo repository.SequenceRepository over a Store.
type SequenceRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.SequenceRepository = SequenceRepo{}

func (r SequenceRepo) Next(_ context.Context, name string, year int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := seqKey{name: name, year: year}
	r.s.st.seq[k]++
	r.undoCounter(k, r.s.st.seq[k]-1)
	return r.s.st.seq[k], nil
}

func (r SequenceRepo) Advance(_ context.Context, name string, year int, value int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := seqKey{name: name, year: year}
	if prev := r.s.st.seq[k]; value > prev {
		r.s.st.seq[k] = value
		r.undoCounter(k, prev)
	}
	return nil
}

// undoCounter restores k to prev unless the counter moved again after this write;
// a skipped number is preferred over handing one out twice.
func (r SequenceRepo) undoCounter(k seqKey, prev int64) {
	if r.undo == nil {
		return
	}
	set := r.s.st.seq[k]
	r.undo.steps = append(r.undo.steps, func(st *state) {
		if st.seq[k] == set {
			st.seq[k] = prev
		}
	})
}
