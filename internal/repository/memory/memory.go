// Package memory implements every repository contract on top of in-process maps.
// It backs STORAGE_DRIVER=memory for local runs and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
)

// Store holds all collections behind a single lock. Reads hand out copies so
// callers cannot mutate stored rows without going through a repository method.
type Store struct {
	mu            sync.RWMutex
	now           func() time.Time
	products      map[uuid.UUID]model.Product
	transactions  map[uuid.UUID]model.Transaction
	audits        map[uuid.UUID]model.Audit
	notifications map[uuid.UUID]model.Notification
	users         map[uuid.UUID]model.User

	// seq orders rows created within the same clock tick.
	seq     int64
	created map[uuid.UUID]int64
}

func New() *Store {
	return &Store{
		now:           time.Now,
		products:      make(map[uuid.UUID]model.Product),
		transactions:  make(map[uuid.UUID]model.Transaction),
		audits:        make(map[uuid.UUID]model.Audit),
		notifications: make(map[uuid.UUID]model.Notification),
		users:         make(map[uuid.UUID]model.User),
		created:       make(map[uuid.UUID]int64),
	}
}

// Set exposes the store through the repository interfaces.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Products:      &productRepo{s},
		Transactions:  &transactionRepo{s},
		Audits:        &auditRepo{s},
		Notifications: &notificationRepo{s},
		Users:         &userRepo{s},
	}
}

// stamp assigns an id and creation order; callers hold the write lock.
func (s *Store) stamp(id *uuid.UUID) time.Time {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	s.seq++
	s.created[*id] = s.seq
	return s.now()
}

// newerFirst orders by creation time then insertion sequence, newest first.
func (s *Store) newerFirst(a, b uuid.UUID, ta, tb time.Time) bool {
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return s.created[a] > s.created[b]
}

func page[T any](rows []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(rows) {
		return []T{}
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func normalize(p, l, def, max int) (int, int) {
	if p < 1 {
		p = 1
	}
	if l < 1 {
		l = def
	}
	if l > max {
		l = max
	}
	return p, l
}

// ── Products ─────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return repository.ErrDuplicate
		}
	}
	now := r.s.stamp(&p.ID)
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *productRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *productRepo) List(_ context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	var out []model.Product
	for _, p := range r.s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	sortByName(out)
	pg, limit := normalize(filter.Page, filter.Limit, 20, 100)
	return page(out, pg, limit), int64(len(out)), nil
}

func (r *productRepo) ListAll(_ context.Context) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sortByName(out)
	return out, nil
}

func (r *productRepo) ListLowStock(_ context.Context) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.Stock <= p.LowStockThreshold {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *productRepo) Update(_ context.Context, p *model.Product, expectedStock int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[p.ID]
	if !ok {
		return false, repository.ErrNotFound
	}
	for id, existing := range r.s.products {
		if id != p.ID && existing.SKU == p.SKU {
			return false, repository.ErrDuplicate
		}
	}
	if stored.Stock != expectedStock {
		return false, nil
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = r.s.now()
	r.s.products[p.ID] = *p
	return true, nil
}

func (r *productRepo) UpdateStock(_ context.Context, id uuid.UUID, expected, stock int, status string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.Stock != expected {
		return false, nil
	}
	p.Stock = stock
	p.Status = status
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return true, nil
}

func (r *productRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func sortByName(ps []model.Product) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
}

// ── Transactions ─────────────────────────────────────────────────────────────

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(_ context.Context, t *model.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.CreatedAt = r.s.stamp(&t.ID)
	if t.Status == "" {
		t.Status = model.TransactionCompleted
	}
	row := *t
	row.Product, row.Actor = nil, nil
	r.s.transactions[t.ID] = row
	return nil
}

func (r *transactionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.withProduct(&t)
	return &t, nil
}

func (r *transactionRepo) List(_ context.Context, filter repository.TransactionFilter) ([]model.Transaction, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.sorted(func(t model.Transaction) bool {
		if filter.ProductID != nil && t.ProductID != *filter.ProductID {
			return false
		}
		if filter.Type != "" && t.Type != filter.Type {
			return false
		}
		return filter.Status == "" || t.Status == filter.Status
	})
	pg, limit := normalize(filter.Page, filter.Limit, 20, 100)
	return page(out, pg, limit), int64(len(out)), nil
}

func (r *transactionRepo) ListRecent(_ context.Context, limit int) ([]model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := r.sorted(func(model.Transaction) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *transactionRepo) ListByStatus(_ context.Context, status string) ([]model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.sorted(func(t model.Transaction) bool { return t.Status == status }), nil
}

func (r *transactionRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	r.s.transactions[id] = t
	return true, nil
}

// sorted returns matching rows newest first with their product attached;
// callers hold the read lock.
func (r *transactionRepo) sorted(keep func(model.Transaction) bool) []model.Transaction {
	out := make([]model.Transaction, 0)
	for _, t := range r.s.transactions {
		if keep(t) {
			r.withProduct(&t)
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return r.s.newerFirst(out[i].ID, out[j].ID, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out
}

func (r *transactionRepo) withProduct(t *model.Transaction) {
	if p, ok := r.s.products[t.ProductID]; ok {
		t.Product = &p
	}
}

// ── Audits ───────────────────────────────────────────────────────────────────

type auditRepo struct{ s *Store }

func (r *auditRepo) Create(_ context.Context, a *model.Audit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.stamp(&a.ID)
	a.CreatedAt, a.UpdatedAt = now, now
	row := *a
	row.Creator = nil
	r.s.audits[a.ID] = row
	return nil
}

func (r *auditRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Audit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.audits[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.withCreator(&a)
	return &a, nil
}

func (r *auditRepo) Latest(ctx context.Context) (*model.Audit, error) {
	list, _ := r.List(ctx)
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return &list[0], nil
}

func (r *auditRepo) List(_ context.Context) ([]model.Audit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Audit, 0, len(r.s.audits))
	for _, a := range r.s.audits {
		r.withCreator(&a)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.s.newerFirst(out[i].ID, out[j].ID, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out, nil
}

func (r *auditRepo) ListDue(_ context.Context, now time.Time, limit int) ([]model.Audit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Audit
	for _, a := range r.s.audits {
		if a.Status == model.AuditScheduled && !a.Date.After(now) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *auditRepo) Transition(_ context.Context, a *model.Audit, from string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.audits[a.ID]
	if !ok || stored.Status != from {
		return false, nil
	}
	stored.Status = a.Status
	stored.Discrepancies = a.Discrepancies
	stored.DiscrepancyDetails = a.DiscrepancyDetails
	stored.Notes = a.Notes
	stored.CompletedAt = a.CompletedAt
	stored.UpdatedAt = r.s.now()
	r.s.audits[a.ID] = stored
	return true, nil
}

func (r *auditRepo) withCreator(a *model.Audit) {
	if u, ok := r.s.users[a.CreatedBy]; ok {
		a.Creator = &u
	}
}

// ── Notifications ────────────────────────────────────────────────────────────

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.CreatedAt = r.s.stamp(&n.ID)
	row := *n
	row.Sender, row.RelatedProduct = nil, nil
	r.s.notifications[n.ID] = row
	return nil
}

func (r *notificationRepo) List(_ context.Context, filter repository.NotificationFilter) ([]model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Notification
	for _, n := range r.s.notifications {
		if !visible(n, filter.RecipientID) {
			continue
		}
		if filter.IsRead != nil && n.IsRead != *filter.IsRead {
			continue
		}
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		if n.SenderID != nil {
			if u, ok := r.s.users[*n.SenderID]; ok {
				n.Sender = &u
			}
		}
		if n.RelatedProductID != nil {
			if p, ok := r.s.products[*n.RelatedProductID]; ok {
				n.RelatedProduct = &p
			}
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.s.newerFirst(out[i].ID, out[j].ID, out[i].CreatedAt, out[j].CreatedAt)
	})
	_, limit := normalize(1, filter.Limit, 50, 200)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id uuid.UUID, recipientID *uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || !visible(n, recipientID) {
		return false, nil
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return true, nil
}

func (r *notificationRepo) MarkAllRead(_ context.Context, recipientID *uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var updated int64
	for id, n := range r.s.notifications {
		if visible(n, recipientID) && !n.IsRead {
			n.IsRead = true
			r.s.notifications[id] = n
			updated++
		}
	}
	return updated, nil
}

func (r *notificationRepo) CountUnread(_ context.Context, recipientID *uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, n := range r.s.notifications {
		if visible(n, recipientID) && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func visible(n model.Notification, recipientID *uuid.UUID) bool {
	return recipientID == nil || n.RecipientID == *recipientID
}

// ── Users ────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	now := r.s.stamp(&u.ID)
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) List(_ context.Context) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *userRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.User
	for _, u := range r.s.users {
		if u.Role == role && u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *userRepo) Update(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.Email = strings.ToLower(u.Email)
	for id, existing := range r.s.users {
		if id != u.ID && existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.UpdatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = false
	r.s.users[id] = u
	return nil
}
