package services

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/production"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/eventbus"
)

// memStore - общее хранилище фейковых репозиториев.
type memStore struct {
	mu          sync.Mutex
	orders      map[uint64]*entities.Order
	worklogs    map[uint64]*entities.Worklog
	ingredients map[uint64]*entities.Ingredient
	nextID      uint64
}

func newMemStore() *memStore {
	return &memStore{
		orders:      make(map[uint64]*entities.Order),
		worklogs:    make(map[uint64]*entities.Worklog),
		ingredients: make(map[uint64]*entities.Ingredient),
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) worklogsOf(orderID uint64) []entities.Worklog {
	var out []entities.Worklog
	for _, w := range m.worklogs {
		if w.OrderID == orderID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeOrderRepo struct{ s *memStore }

func (r fakeOrderRepo) GetOrdersForRanking(ctx context.Context, search string) ([]entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Order
	for _, o := range r.s.orders {
		if search != "" && !strings.Contains(strings.ToLower(o.Name+" "+o.CustomerName), strings.ToLower(search)) {
			continue
		}
		cp := *o
		cp.Worklogs = r.s.worklogsOf(o.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeOrderRepo) FindOrder(ctx context.Context, id uint64) (*entities.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *o
	cp.Worklogs = r.s.worklogsOf(id)
	for _, ing := range r.s.ingredients {
		if ing.OrderID == id {
			cp.Ingredients = append(cp.Ingredients, *ing)
		}
	}
	return &cp, nil
}

func (r fakeOrderRepo) OrderExists(ctx context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r fakeOrderRepo) CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error) {
	r.s.mu.Lock()
	order.ID = r.s.id()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(order.ID) * time.Hour)
	}
	r.s.orders[order.ID] = &order
	r.s.mu.Unlock()
	return r.FindOrder(ctx, order.ID)
}

func (r fakeOrderRepo) UpdateOrder(ctx context.Context, id uint64, patch dto.UpdateOrderDTO, completionDate *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if patch.Sent("name") {
		o.Name = patch.Name.String
	}
	if patch.Sent("customer_name") {
		o.CustomerName = patch.CustomerName.String
	}
	if patch.Sent("capsule_count") {
		o.CapsuleCount = patch.CapsuleCount.Int
	}
	if patch.Sent("notes") {
		o.Notes = patch.Notes.Ptr()
	}
	if patch.Sent("completion_date") {
		o.CompletionDate = completionDate
	}
	return nil
}

func (r fakeOrderRepo) DeleteOrder(ctx context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.orders, id)
	for wid, w := range r.s.worklogs {
		if w.OrderID == id {
			delete(r.s.worklogs, wid)
		}
	}
	return nil
}

type fakeWorklogRepo struct {
	s       *memStore
	updates int
	// beforeComputedUpdate вызывается перед записью пересчета, до сверки полей
	beforeComputedUpdate func(id uint64)
}

func (r *fakeWorklogRepo) ListByOrder(ctx context.Context, orderID uint64) ([]entities.Worklog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.worklogsOf(orderID), nil
}

func (r *fakeWorklogRepo) ListByOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, orderID uint64) ([]entities.Worklog, error) {
	return r.ListByOrder(ctx, orderID)
}

func (r *fakeWorklogRepo) ListForExport(ctx context.Context, orderID *uint64) ([]repositories.WorklogExportRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repositories.WorklogExportRow
	for _, w := range r.s.worklogs {
		if orderID != nil && w.OrderID != *orderID {
			continue
		}
		out = append(out, repositories.WorklogExportRow{Worklog: *w, OrderName: r.s.orders[w.OrderID].Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeWorklogRepo) FindWorklog(ctx context.Context, id uint64) (*entities.Worklog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.worklogs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWorklogRepo) CreateWorklog(ctx context.Context, w entities.Worklog) (*entities.Worklog, error) {
	r.s.mu.Lock()
	w.ID = r.s.id()
	r.s.worklogs[w.ID] = &w
	r.s.mu.Unlock()
	return r.FindWorklog(ctx, w.ID)
}

func (r *fakeWorklogRepo) UpdateWorklog(ctx context.Context, w entities.Worklog) (*entities.Worklog, error) {
	r.s.mu.Lock()
	if _, ok := r.s.worklogs[w.ID]; !ok {
		r.s.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}
	r.s.worklogs[w.ID] = &w
	r.s.mu.Unlock()
	return r.FindWorklog(ctx, w.ID)
}

func (r *fakeWorklogRepo) DeleteWorklog(ctx context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.worklogs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.worklogs, id)
	return nil
}

func (r *fakeWorklogRepo) UpdateComputedInTx(ctx context.Context, tx pgx.Tx, read entities.Worklog, result production.WorkUnitResult) (bool, error) {
	if r.beforeComputedUpdate != nil {
		r.beforeComputedUpdate(read.ID)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.worklogs[read.ID]
	if !ok || !w.WorkDate.Equal(read.WorkDate) || w.StartTime != read.StartTime || w.EndTime != read.EndTime || w.Headcount != read.Headcount {
		return false, nil
	}
	w.EffectiveMinutes = result.EffectiveMinutes
	w.WorkUnits = result.WorkUnits
	r.updates++
	return true, nil
}

type fakeIngredientRepo struct{ s *memStore }

func (r fakeIngredientRepo) ListByOrder(ctx context.Context, orderID uint64) ([]entities.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Ingredient
	for _, ing := range r.s.ingredients {
		if ing.OrderID == orderID {
			out = append(out, *ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeIngredientRepo) FindIngredient(ctx context.Context, id uint64) (*entities.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ing, ok := r.s.ingredients[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *ing
	return &cp, nil
}

func (r fakeIngredientRepo) CreateIngredient(ctx context.Context, ing entities.Ingredient) (*entities.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ing.ID = r.s.id()
	r.s.ingredients[ing.ID] = &ing
	cp := ing
	return &cp, nil
}

func (r fakeIngredientRepo) UpdateIngredient(ctx context.Context, ing entities.Ingredient) (*entities.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ingredients[ing.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	r.s.ingredients[ing.ID] = &ing
	cp := ing
	return &cp, nil
}

func (r fakeIngredientRepo) DeleteIngredient(ctx context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ingredients[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.ingredients, id)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Name()
	}
	return out
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	c.sets++
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) GetObject(ctx context.Context, key string, dst interface{}) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dst)
}

func (c *memCache) SetObject(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, payload, ttl)
}

func (c *memCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

type fakeDashboardRepo struct{ s *memStore }

func (r fakeDashboardRepo) inPeriod(from, to time.Time) []entities.Worklog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	fromDay, toDay := from.Format(production.DateLayout), to.Format(production.DateLayout)
	var out []entities.Worklog
	for _, w := range r.s.worklogs {
		d := w.WorkDate.Format(production.DateLayout)
		if d >= fromDay && d < toDay {
			out = append(out, *w)
		}
	}
	return out
}

func (r fakeDashboardRepo) SumWorkUnits(ctx context.Context, from, to time.Time) (float64, error) {
	var sum float64
	for _, w := range r.inPeriod(from, to) {
		sum += w.WorkUnits
	}
	return sum, nil
}

func (r fakeDashboardRepo) GetDailyWorkUnits(ctx context.Context, from, to time.Time) ([]repositories.DailyWorkUnits, error) {
	byDay := make(map[string]*repositories.DailyWorkUnits)
	var keys []string
	for _, w := range r.inPeriod(from, to) {
		k := w.WorkDate.Format(production.DateLayout)
		if _, ok := byDay[k]; !ok {
			byDay[k] = &repositories.DailyWorkUnits{Day: w.WorkDate}
			keys = append(keys, k)
		}
		byDay[k].WorkUnits += w.WorkUnits
		byDay[k].Worklogs++
	}
	sort.Strings(keys)
	out := make([]repositories.DailyWorkUnits, len(keys))
	for i, k := range keys {
		out[i] = *byDay[k]
	}
	return out, nil
}
