package entities

import (
	"time"

	"production-system/internal/production"
	"production-system/pkg/types"
)

// Worklog - запись о смене; effective_minutes и work_units хранятся рядом для отображения.
type Worklog struct {
	ID               uint64
	OrderID          uint64
	WorkDate         time.Time
	StartTime        string
	EndTime          string
	Headcount        int
	Notes            *string
	EffectiveMinutes int
	WorkUnits        float64

	types.BaseEntity
}

func (w Worklog) Result() production.WorkUnitResult {
	return production.WorkUnitResult{EffectiveMinutes: w.EffectiveMinutes, WorkUnits: w.WorkUnits}
}

// ShiftEntry собирает вход калькулятора из сохраненной записи.
func (w Worklog) ShiftEntry() (production.ShiftEntry, error) {
	start, err := production.ParseClock(w.StartTime)
	if err != nil {
		return production.ShiftEntry{}, err
	}
	end, err := production.ParseClock(w.EndTime)
	if err != nil {
		return production.ShiftEntry{}, err
	}
	return production.ShiftEntry{WorkDate: w.WorkDate, StartTime: start, EndTime: end, Headcount: w.Headcount}, nil
}
