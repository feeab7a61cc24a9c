package production

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOrder struct {
	name  string
	facts OrderFacts
}

func (o testOrder) ProductionFacts() OrderFacts { return o.facts }

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func names(orders []testOrder) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.name
	}
	return out
}

func TestClassify_Exhaustive(t *testing.T) {
	assert.Equal(t, StatusInProgress, Classify(true, false))
	assert.Equal(t, StatusNotStarted, Classify(false, false))
	assert.Equal(t, StatusCompleted, Classify(true, true))
	assert.Equal(t, StatusCompleted, Classify(false, true))

	for _, hasWorklog := range []bool{true, false} {
		for _, completed := range []bool{true, false} {
			assert.True(t, Classify(hasWorklog, completed).Valid())
		}
	}
}

func TestRank_ExampleScenario(t *testing.T) {
	a := testOrder{"A", OrderFacts{HasWorklog: true, CreatedAt: day(3)}}
	b := testOrder{"B", OrderFacts{CreatedAt: day(2)}}
	c := testOrder{"C", OrderFacts{HasWorklog: true, Completed: true, CompletionDate: day(1), CreatedAt: day(1)}}

	for _, order := range []SortOrder{SortAsc, SortDesc} {
		for _, input := range [][]testOrder{{a, b, c}, {c, b, a}, {b, c, a}} {
			ranked, warnings := Rank(input, order)
			assert.Equal(t, []string{"A", "B", "C"}, names(ranked))
			assert.Empty(t, warnings)
		}
	}
}

func TestRank_SecondaryKeys(t *testing.T) {
	orders := []testOrder{
		{"done-old", OrderFacts{Completed: true, CompletionDate: day(1), CreatedAt: day(20)}},
		{"new-2", OrderFacts{CreatedAt: day(2)}},
		{"work-5", OrderFacts{HasWorklog: true, CreatedAt: day(5)}},
		{"done-new", OrderFacts{Completed: true, CompletionDate: day(9), CreatedAt: day(1)}},
		{"work-1", OrderFacts{HasWorklog: true, CreatedAt: day(1)}},
		{"new-8", OrderFacts{CreatedAt: day(8)}},
	}

	asc, _ := Rank(orders, SortAsc)
	assert.Equal(t, []string{"work-1", "work-5", "new-2", "new-8", "done-old", "done-new"}, names(asc))

	desc, _ := Rank(orders, SortDesc)
	assert.Equal(t, []string{"work-5", "work-1", "new-8", "new-2", "done-new", "done-old"}, names(desc))

	// Вход не изменяется.
	assert.Equal(t, "done-old", orders[0].name)
}

func TestRank_StableForEqualKeys(t *testing.T) {
	orders := []testOrder{
		{"c1", OrderFacts{Completed: true, CompletionDate: day(4)}},
		{"c2", OrderFacts{Completed: true, CompletionDate: day(4)}},
		{"c3", OrderFacts{Completed: true, CompletionDate: day(4)}},
	}
	for _, order := range []SortOrder{SortAsc, SortDesc} {
		ranked, _ := Rank(orders, order)
		assert.Equal(t, []string{"c1", "c2", "c3"}, names(ranked))
	}
}

func TestRank_Deterministic(t *testing.T) {
	orders := []testOrder{
		{"x", OrderFacts{HasWorklog: true, CreatedAt: day(7)}},
		{"y", OrderFacts{CreatedAt: day(7)}},
		{"z", OrderFacts{Completed: true, CompletionDate: day(7)}},
		{"w", OrderFacts{HasWorklog: true, CreatedAt: day(7)}},
	}
	first, _ := Rank(orders, SortDesc)
	for i := 0; i < 10; i++ {
		again, _ := Rank(orders, SortDesc)
		assert.Equal(t, names(first), names(again))
	}
}

func TestRank_DegradedKeysFallBackToZeroTime(t *testing.T) {
	orders := []testOrder{
		{"dated", OrderFacts{CreatedAt: day(5)}},
		{"missing", OrderFacts{}},
		{"done-missing", OrderFacts{Completed: true}},
		{"done", OrderFacts{Completed: true, CompletionDate: day(2)}},
	}

	asc, warnings := Rank(orders, SortAsc)
	assert.Equal(t, []string{"missing", "dated", "done-missing", "done"}, names(asc))
	require.Len(t, warnings, 2)
	assert.Equal(t, DegradedOrderingWarning{Index: 1, Field: "created_at"}, warnings[0])
	assert.Equal(t, DegradedOrderingWarning{Index: 2, Field: "completion_date"}, warnings[1])

	desc, _ := Rank(orders, SortDesc)
	assert.Equal(t, []string{"dated", "missing", "done", "done-missing"}, names(desc))
}

func TestPaginate_ConcatenationReproducesSequence(t *testing.T) {
	var orders []testOrder
	for i := 1; i <= 23; i++ {
		orders = append(orders, testOrder{name: string(rune('a' + i - 1)), facts: OrderFacts{HasWorklog: i%3 == 0, Completed: i%5 == 0, CompletionDate: day(i), CreatedAt: day(i)}})
	}
	ranked, _ := Rank(orders, SortAsc)

	for _, limit := range []int{1, 4, 5, 23, 50} {
		var joined []testOrder
		_, meta := Paginate(ranked, 1, limit)
		for page := 1; page <= meta.TotalPages; page++ {
			window, m := Paginate(ranked, page, limit)
			assert.Equal(t, 23, m.Total)
			joined = append(joined, window...)
		}
		assert.Equal(t, names(ranked), names(joined), "limit %d", limit)
	}
}

func TestPaginate_Edges(t *testing.T) {
	items := []int{1, 2, 3}

	window, meta := Paginate(items, 5, 2)
	assert.Empty(t, window)
	assert.Equal(t, PageMeta{Page: 5, Limit: 2, Total: 3, TotalPages: 2}, meta)

	window, meta = Paginate(items, 0, 0)
	assert.Equal(t, []int{1}, window)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 3, meta.TotalPages)

	window, meta = Paginate([]int{}, 1, 10)
	assert.Empty(t, window)
	assert.Equal(t, 0, meta.TotalPages)

	window, meta = Paginate(items, 1, math.MaxInt)
	assert.Equal(t, items, window)
	assert.Equal(t, PageMeta{Page: 1, Limit: math.MaxInt, Total: 3, TotalPages: 1}, meta)

	window, meta = Paginate(items, 2, math.MaxInt)
	assert.Empty(t, window)
	assert.Equal(t, 1, meta.TotalPages)

	window, meta = Paginate(items, 2, math.MaxInt-1)
	assert.Empty(t, window)
}

func TestPrioritize_FiltersBeforeWindow(t *testing.T) {
	orders := []testOrder{
		{"n1", OrderFacts{CreatedAt: day(1)}},
		{"w1", OrderFacts{HasWorklog: true, CreatedAt: day(1)}},
		{"n2", OrderFacts{CreatedAt: day(2)}},
		{"d1", OrderFacts{Completed: true, CompletionDate: day(3)}},
		{"n3", OrderFacts{CreatedAt: day(3)}},
	}

	res := Prioritize(orders, RankingOptions{SortOrder: SortAsc, Statuses: []Status{StatusNotStarted}, Page: 2, Limit: 2})
	assert.Equal(t, []string{"n3"}, names(res.Items))
	assert.Equal(t, 3, res.Page.Total)
	assert.Equal(t, 2, res.Page.TotalPages)

	all := Prioritize(orders, RankingOptions{SortOrder: SortDesc, Page: 1, Limit: 10})
	assert.Equal(t, []string{"w1", "n3", "n2", "n1", "d1"}, names(all.Items))
}

func TestParseSortOrderAndStatuses(t *testing.T) {
	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, o)
	o, err = ParseSortOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, SortAsc, o)
	_, err = ParseSortOrder("up")
	assert.Error(t, err)

	sts, err := ParseStatuses("inProgress, completed")
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusInProgress, StatusCompleted}, sts)
	_, err = ParseStatuses("archived")
	assert.Error(t, err)
}
