package production

import (
	"fmt"
	"time"
)

const (
	DefaultTimezone   = "Asia/Hong_Kong"
	hongKongOffsetSec = 8 * 60 * 60
	halfHourMinutes   = 30
)

var (
	DefaultLunchStart = ClockTime{Hour: 12, Minute: 30}
	DefaultLunchEnd   = ClockTime{Hour: 13, Minute: 30}
)

// ShiftEntry - одна смена по заказу: дата, начало, конец и число работников.
type ShiftEntry struct {
	WorkDate  time.Time
	StartTime ClockTime
	EndTime   ClockTime
	Headcount int
}

type WorkUnitResult struct {
	EffectiveMinutes int     `json:"effective_minutes"`
	WorkUnits        float64 `json:"work_units"`
}

type CalculatorConfig struct {
	Timezone   string
	LunchStart ClockTime
	LunchEnd   ClockTime
}

// Calculator переводит смену в эффективные минуты и рабочие единицы.
// Не хранит изменяемого состояния, безопасен для конкурентного использования.
type Calculator struct {
	location   *time.Location
	lunchStart ClockTime
	lunchEnd   ClockTime
}

func NewCalculator(cfg CalculatorConfig) (*Calculator, error) {
	loc, err := LoadBusinessLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	lunchStart, lunchEnd := cfg.LunchStart, cfg.LunchEnd
	if lunchStart == (ClockTime{}) && lunchEnd == (ClockTime{}) {
		lunchStart, lunchEnd = DefaultLunchStart, DefaultLunchEnd
	}
	if !lunchStart.Before(lunchEnd) {
		return nil, fmt.Errorf("обеденный перерыв %s-%s задан некорректно", lunchStart, lunchEnd)
	}
	return &Calculator{location: loc, lunchStart: lunchStart, lunchEnd: lunchEnd}, nil
}

// NewDefaultCalculator - Гонконг, обед 12:30-13:30.
func NewDefaultCalculator() *Calculator {
	loc, _ := LoadBusinessLocation(DefaultTimezone)
	return &Calculator{location: loc, lunchStart: DefaultLunchStart, lunchEnd: DefaultLunchEnd}
}

// ParseCalculatorConfig собирает конфигурацию из строковых значений окружения.
func ParseCalculatorConfig(timezone, lunchStart, lunchEnd string) (CalculatorConfig, error) {
	start, err := ParseClock(lunchStart)
	if err != nil {
		return CalculatorConfig{}, fmt.Errorf("начало обеда: %w", err)
	}
	end, err := ParseClock(lunchEnd)
	if err != nil {
		return CalculatorConfig{}, fmt.Errorf("конец обеда: %w", err)
	}
	return CalculatorConfig{Timezone: timezone, LunchStart: start, LunchEnd: end}, nil
}

// LoadBusinessLocation загружает зону; если tzdata недоступна, для Гонконга берется фиксированный UTC+8.
func LoadBusinessLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if name == DefaultTimezone {
		return time.FixedZone("HKT", hongKongOffsetSec), nil
	}
	return nil, fmt.Errorf("не удалось загрузить часовой пояс %q: %w", name, err)
}

func (c *Calculator) Location() *time.Location {
	return c.location
}

// Calculate ожидает start < end в пределах одних суток (проверяется ParseShiftEntry).
func (c *Calculator) Calculate(entry ShiftEntry) WorkUnitResult {
	raw := entry.EndTime.Minutes() - entry.StartTime.Minutes()
	effective := raw - c.LunchOverlapMinutes(entry.StartTime, entry.EndTime)
	if effective < 0 {
		effective = 0
	}
	return WorkUnitResult{
		EffectiveMinutes: effective,
		WorkUnits:        BillableHours(effective) * float64(entry.Headcount),
	}
}

// LunchOverlapMinutes - пересечение смены с обеденным окном.
func (c *Calculator) LunchOverlapMinutes(start, end ClockTime) int {
	overlap := minInt(end.Minutes(), c.lunchEnd.Minutes()) - maxInt(start.Minutes(), c.lunchStart.Minutes())
	if overlap < 0 {
		return 0
	}
	return overlap
}

// BillableHours округляет вверх до ближайшего получаса: ceil(minutes/60*2)/2.
func BillableHours(effectiveMinutes int) float64 {
	if effectiveMinutes <= 0 {
		return 0
	}
	halfHours := (effectiveMinutes + halfHourMinutes - 1) / halfHourMinutes
	return float64(halfHours) / 2
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
