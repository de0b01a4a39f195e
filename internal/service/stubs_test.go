package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"carniceria/internal/dto"
	"carniceria/internal/event"
	"carniceria/internal/model"
	"carniceria/internal/repository"
	"carniceria/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store ───────────────────────────────────────────────────────────
// memStore backs every stub repository. The stub transactor holds mu for the
// whole transaction and restores a snapshot when fn fails, so *Tx methods
// never lock and the other methods always do.

type memStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]*model.Product
	customers []*model.Customer
	sales     map[uuid.UUID]*model.Sale
	items     []model.SaleItem
	movements []model.StockMovement

	failItemInsert error
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[uuid.UUID]*model.Product),
		sales:    make(map[uuid.UUID]*model.Sale),
	}
}

type memSnapshot struct {
	products  map[uuid.UUID]model.Product
	customers []*model.Customer
	sales     map[uuid.UUID]*model.Sale
	items     []model.SaleItem
	movements []model.StockMovement
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:  make(map[uuid.UUID]model.Product, len(s.products)),
		customers: append([]*model.Customer(nil), s.customers...),
		sales:     make(map[uuid.UUID]*model.Sale, len(s.sales)),
		items:     append([]model.SaleItem(nil), s.items...),
		movements: append([]model.StockMovement(nil), s.movements...),
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	for id, sale := range s.sales {
		snap.sales[id] = sale
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = make(map[uuid.UUID]*model.Product, len(snap.products))
	for id, p := range snap.products {
		cp := p
		s.products[id] = &cp
	}
	s.customers = snap.customers
	s.sales = snap.sales
	s.items = snap.items
	s.movements = snap.movements
}

// seedProduct stores a product with the given stock and returns its id.
func (s *memStore) seedProduct(name string, stock int64) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &model.Product{
		ID:       uuid.New(),
		Name:     name,
		IsActive: stock > 0,
		Stock:    decimal.NewFromInt(stock),
		Price:    decimal.NewFromInt(1000),
	}
	s.products[p.ID] = p
	return p.ID
}

func (s *memStore) stock(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) product(id uuid.UUID) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.products[id]
}

func (s *memStore) counts() (sales, items, customers, movements int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales), len(s.items), len(s.customers), len(s.movements)
}

// ── Transactor ────────────────────────────────────────────────────────────────

type stubTransactor struct{ store *memStore }

func (t stubTransactor) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

var _ repository.Transactor = stubTransactor{}

// ── Product repository ────────────────────────────────────────────────────────

type stubProductRepo struct{ store *memStore }

func (r stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]model.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r stubProductRepo) ListLowStock(_ context.Context, threshold decimal.Decimal) ([]model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Product
	for _, p := range r.store.products {
		if p.Stock.LessThanOrEqual(threshold) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r stubProductRepo) UpdateTx(_ *gorm.DB, p *model.Product) error {
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty decimal.Decimal) (*model.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if p.Stock.LessThan(qty) {
		return nil, repository.ErrInsufficientStock
	}
	p.Stock = p.Stock.Sub(qty)
	if !p.Stock.IsPositive() {
		p.IsActive = false
	}
	cp := *p
	return &cp, nil
}

var _ repository.ProductRepository = stubProductRepo{}

// ── Customer repository ───────────────────────────────────────────────────────

type stubCustomerRepo struct{ store *memStore }

func (r stubCustomerRepo) FindOrCreateTx(_ *gorm.DB, phone *string, name string) (*model.Customer, error) {
	for _, c := range r.store.customers {
		samePhone := (c.Phone == nil && phone == nil) || (c.Phone != nil && phone != nil && *c.Phone == *phone)
		if samePhone && c.Name == name {
			return c, nil
		}
	}
	c := &model.Customer{ID: uuid.New(), Name: name, Phone: phone}
	r.store.customers = append(r.store.customers, c)
	return c, nil
}

var _ repository.CustomerRepository = stubCustomerRepo{}

// ── Sale repository ───────────────────────────────────────────────────────────

type stubSaleRepo struct{ store *memStore }

func (r stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	r.store.sales[s.ID] = &cp
	return nil
}

func (r stubSaleRepo) CreateItemTx(_ *gorm.DB, item *model.SaleItem) error {
	if r.store.failItemInsert != nil {
		return r.store.failItemInsert
	}
	item.ID = uuid.New()
	r.store.items = append(r.store.items, *item)
	return nil
}

func (r stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	for _, it := range r.store.items {
		if it.SaleID == id {
			cp.Items = append(cp.Items, it)
		}
	}
	return &cp, nil
}

func (r stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]model.Sale, 0, len(r.store.sales))
	for _, s := range r.store.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r stubSaleRepo) CountItemsByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, it := range r.store.items {
		if it.ProductID == productID {
			n++
		}
	}
	return n, nil
}

var _ repository.SaleRepository = stubSaleRepo{}

// ── Stock movement repository ─────────────────────────────────────────────────

type stubMovementRepo struct{ store *memStore }

func (r stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	m.ID = uuid.New()
	r.store.movements = append(r.store.movements, *m)
	return nil
}

func (r stubMovementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.store.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = stubMovementRepo{}

// ── Catalog repositories ──────────────────────────────────────────────────────
// Not guarded by memStore.mu: the product service reads them inside a transaction.

type stubCategoryRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

type stubCutRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Cut
}

func newStubCutRepo() *stubCutRepo {
	return &stubCutRepo{byID: make(map[uuid.UUID]*model.Cut)}
}

func (r *stubCutRepo) Create(_ context.Context, c *model.Cut) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *stubCutRepo) List(_ context.Context, categoryID *uuid.UUID) ([]model.Cut, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Cut
	for _, c := range r.byID {
		if categoryID == nil || c.CategoryID == *categoryID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCutRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cut, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCutRepo) FindByName(_ context.Context, name string) (*model.Cut, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCutRepo) Update(_ context.Context, c *model.Cut) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *stubCutRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

var _ repository.CutRepository = (*stubCutRepo)(nil)

// ── Event publisher / notifier ────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.StockChanged
	// onPublish runs before the events are recorded.
	onPublish func([]event.StockChanged)
}

func (p *recordingPublisher) PublishStockChanged(events ...event.StockChanged) {
	if p.onPublish != nil {
		p.onPublish(events)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) published() []event.StockChanged {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.StockChanged(nil), p.events...)
}

type recordingNotifier struct {
	mu       sync.Mutex
	payloads []worker.EmailJobPayload
	err      error
}

func (n *recordingNotifier) EnqueueEmail(_ context.Context, payload worker.EmailJobPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.payloads = append(n.payloads, payload)
	return nil
}

func (n *recordingNotifier) sent() []worker.EmailJobPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]worker.EmailJobPayload(nil), n.payloads...)
}
