package entities

import (
	"time"

	"production-system/internal/production"
	"production-system/pkg/types"
)

// Order - производственный заказ на капсулы.
type Order struct {
	ID             uint64
	Name           string
	CustomerName   string
	CapsuleCount   int
	Notes          *string
	CompletionDate *time.Time
	Ingredients    []Ingredient
	Worklogs       []Worklog

	types.BaseEntity
}

func (o Order) ProductionFacts() production.OrderFacts {
	facts := production.OrderFacts{
		HasWorklog: len(o.Worklogs) > 0,
		Completed:  o.CompletionDate != nil,
		CreatedAt:  o.CreatedAt,
	}
	if o.CompletionDate != nil {
		facts.CompletionDate = *o.CompletionDate
	}
	return facts
}

func (o Order) Status() production.Status {
	return o.ProductionFacts().Status()
}

// TotalWorkUnits суммирует сохраненные значения смен без пересчета.
func (o Order) TotalWorkUnits() float64 {
	results := make([]production.WorkUnitResult, len(o.Worklogs))
	for i, w := range o.Worklogs {
		results[i] = w.Result()
	}
	return production.TotalWorkUnits(results)
}
