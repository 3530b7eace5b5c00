// Package memory provides an in-memory store implementation used by the
// test suite and by the server's memory driver. All record spaces honor
// the same per-key atomicity rules as the postgres implementation.
package memory

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/store"
)

// customerStripes bounds lock granularity for per-customer writes.
// Writes to one customer serialize on their stripe; customers hashed to
// different stripes never contend.
const customerStripes = 64

// New returns a fully wired in-memory store.
func New() *store.Store {
	counters := &counterStore{values: make(map[string]int64)}
	return &store.Store{
		Catalog:   &catalogStore{products: make(map[int64]domain.Product)},
		Customers: &customerStore{customers: make(map[string]domain.Customer)},
		Carousel:  &carouselStore{items: make(map[int64]domain.CarouselItem)},
		Audit:     &auditStore{counters: counters},
		Counters:  counters,
		Sales:     &salesStore{},
	}
}

// =============================================================================
// COUNTERS
// =============================================================================

type counterStore struct {
	mu     sync.Mutex
	values map[string]int64
}

func (s *counterStore) Next(_ context.Context, namespace string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[namespace]++
	return s.values[namespace], nil
}

// =============================================================================
// CATALOG
// =============================================================================

type catalogStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

func (s *catalogStore) Get(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (s *catalogStore) List(_ context.Context) ([]domain.Product, error) {
	return s.list(func(domain.Product) bool { return true })
}

func (s *catalogStore) ListByCategory(_ context.Context, category string) ([]domain.Product, error) {
	return s.list(func(p domain.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

func (s *catalogStore) ListOnSale(_ context.Context) ([]domain.Product, error) {
	return s.list(func(p domain.Product) bool { return p.OnSale })
}

func (s *catalogStore) list(keep func(domain.Product) bool) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *catalogStore) Put(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

func (s *catalogStore) Update(_ context.Context, id int64, fn func(*domain.Product) error) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := cur
	if err := fn(&cp); err != nil {
		return nil, err
	}
	s.products[id] = cp
	return &cp, nil
}

func (s *catalogStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *catalogStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

// =============================================================================
// CUSTOMERS
// =============================================================================

type customerStore struct {
	mu        sync.RWMutex
	stripes   [customerStripes]sync.Mutex
	customers map[string]domain.Customer
}

func (s *customerStore) stripe(email string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(email))
	return &s.stripes[h.Sum32()%customerStripes]
}

func (s *customerStore) Get(_ context.Context, email string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return c.Clone(), nil
}

func (s *customerStore) List(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, *c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *customerStore) Create(_ context.Context, c *domain.Customer) error {
	key := strings.ToLower(c.Email)

	st := s.stripe(key)
	st.Lock()
	defer st.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[key]; exists {
		return domain.ErrDuplicateEmail
	}
	s.customers[key] = *c.Clone()
	return nil
}

func (s *customerStore) Update(_ context.Context, email string, fn func(*domain.Customer) error) (*domain.Customer, error) {
	key := strings.ToLower(email)

	st := s.stripe(key)
	st.Lock()
	defer st.Unlock()

	s.mu.RLock()
	cur, ok := s.customers[key]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}

	cp := cur.Clone()
	if err := fn(cp); err != nil {
		return nil, err
	}
	cp.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.customers[key] = *cp
	s.mu.Unlock()
	return cp.Clone(), nil
}

func (s *customerStore) Delete(_ context.Context, email string) error {
	key := strings.ToLower(email)

	st := s.stripe(key)
	st.Lock()
	defer st.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[key]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(s.customers, key)
	return nil
}

func (s *customerStore) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.customers {
		if c.Role == role {
			n++
		}
	}
	return n, nil
}

// =============================================================================
// CAROUSEL
// =============================================================================

type carouselStore struct {
	mu    sync.RWMutex
	items map[int64]domain.CarouselItem
}

func (s *carouselStore) Get(_ context.Context, id int64) (*domain.CarouselItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrCarouselItemNotFound
	}
	return &item, nil
}

func (s *carouselStore) List(_ context.Context) ([]domain.CarouselItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CarouselItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *carouselStore) Put(_ context.Context, item *domain.CarouselItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = *item
	return nil
}

func (s *carouselStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.ErrCarouselItemNotFound
	}
	delete(s.items, id)
	return nil
}

// =============================================================================
// AUDIT
// =============================================================================

type auditStore struct {
	mu       sync.Mutex
	counters store.Counters
	entries  []domain.AuditEntry
}

// Append holds the log mutex across allocation and insertion so the
// sequence stays gap-free: nothing can fail between the two steps.
func (s *auditStore) Append(ctx context.Context, actor, action string) (*domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := s.counters.Next(ctx, store.NamespaceAudit)
	if err != nil {
		return nil, domain.Unavailable(err, "audit.append", "sequence allocation failed")
	}

	entry := domain.AuditEntry{
		SequenceID: seq,
		Timestamp:  time.Now().UTC(),
		Actor:      actor,
		Action:     action,
	}
	s.entries = append(s.entries, entry)
	return &entry, nil
}

func (s *auditStore) List(_ context.Context, afterSeq int64, limit int) ([]domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.AuditEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.SequenceID > afterSeq {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceID < out[j].SequenceID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// =============================================================================
// SALES
// =============================================================================

type salesStore struct {
	mu    sync.Mutex
	total int64
}

func (s *salesStore) Record(_ context.Context, amountCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total += amountCents
	return nil
}

func (s *salesStore) Total(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, nil
}
