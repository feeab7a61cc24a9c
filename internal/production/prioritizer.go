package production

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder: пустое значение дает desc, как и в остальных списках API.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SortDesc, nil
	case string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	}
	return "", fmt.Errorf("sort_order должен быть asc или desc, получено %q", s)
}

// OrderFacts - все, что нужно для классификации и сортировки заказа.
// Нулевое время означает, что дата отсутствует или не распарсилась.
type OrderFacts struct {
	HasWorklog     bool
	Completed      bool
	CompletionDate time.Time
	CreatedAt      time.Time
}

func (f OrderFacts) Status() Status {
	return Classify(f.HasWorklog, f.Completed)
}

// secondaryKey: завершенные сортируются по дате завершения, остальные по дате создания.
func (f OrderFacts) secondaryKey() (time.Time, string) {
	if f.Status() == StatusCompleted {
		return f.CompletionDate, "completion_date"
	}
	return f.CreatedAt, "created_at"
}

type Prioritizable interface {
	ProductionFacts() OrderFacts
}

// DegradedOrderingWarning - у элемента нет ключа вторичной сортировки;
// он встает на место нулевой даты (раньше всех), ранжирование не прерывается.
type DegradedOrderingWarning struct {
	Index int
	Field string
}

func (w DegradedOrderingWarning) String() string {
	return fmt.Sprintf("элемент %d: отсутствует %s, используется нулевая дата", w.Index, w.Field)
}

type rankedItem[T any] struct {
	item   T
	status Status
	key    time.Time
}

// Rank возвращает новый срез в порядке приоритета производства. Сортировка стабильна:
// элементы с равными ключами сохраняют входной порядок.
func Rank[T Prioritizable](items []T, order SortOrder) ([]T, []DegradedOrderingWarning) {
	keyed := make([]rankedItem[T], len(items))
	var warnings []DegradedOrderingWarning
	for i, it := range items {
		facts := it.ProductionFacts()
		key, field := facts.secondaryKey()
		if key.IsZero() {
			warnings = append(warnings, DegradedOrderingWarning{Index: i, Field: field})
		}
		keyed[i] = rankedItem[T]{item: it, status: facts.Status(), key: key}
	}

	desc := order == SortDesc
	sort.SliceStable(keyed, func(i, j int) bool {
		ri, rj := keyed[i].status.Rank(), keyed[j].status.Rank()
		if ri != rj {
			return ri < rj
		}
		if desc {
			return keyed[i].key.After(keyed[j].key)
		}
		return keyed[i].key.Before(keyed[j].key)
	})

	out := make([]T, len(keyed))
	for i, k := range keyed {
		out[i] = k.item
	}
	return out, warnings
}

// FilterByStatus оставляет элементы с указанными статусами; пустой список - все.
func FilterByStatus[T Prioritizable](items []T, statuses []Status) []T {
	if len(statuses) == 0 {
		return items
	}
	allowed := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if allowed[it.ProductionFacts().Status()] {
			out = append(out, it)
		}
	}
	return out
}

// RankingOptions передаются явно, без глобального состояния фильтров.
type RankingOptions struct {
	SortOrder SortOrder
	Statuses  []Status
	Page      int
	Limit     int
}

type Ranking[T any] struct {
	Items    []T
	Page     PageMeta
	Warnings []DegradedOrderingWarning
}

// Prioritize: фильтр -> полная сортировка -> окно страницы.
// Весь набор кандидатов должен быть в памяти; это ограничение масштабирования.
func Prioritize[T Prioritizable](items []T, opts RankingOptions) Ranking[T] {
	filtered := FilterByStatus(items, opts.Statuses)
	ranked, warnings := Rank(filtered, opts.SortOrder)
	window, meta := Paginate(ranked, opts.Page, opts.Limit)
	return Ranking[T]{Items: window, Page: meta, Warnings: warnings}
}
