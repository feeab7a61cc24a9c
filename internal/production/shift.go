package production

import (
	"fmt"
	"strings"
	"time"

	apperrors "production-system/pkg/errors"
)

const DateLayout = "2006-01-02"

// InvalidShiftEntryError - смена не прошла проверку до расчета.
type InvalidShiftEntryError struct {
	Field  string
	Reason string
}

func (e *InvalidShiftEntryError) Error() string {
	return fmt.Sprintf("некорректная смена (%s): %s", e.Field, e.Reason)
}

func (e *InvalidShiftEntryError) Unwrap() error { return apperrors.ErrBadRequest }

func invalidShift(field, format string, args ...interface{}) error {
	return &InvalidShiftEntryError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseShiftEntry проверяет сырые поля формы и собирает ShiftEntry.
// Смены через полночь (end <= start) отклоняются.
func (c *Calculator) ParseShiftEntry(workDate, startTime, endTime string, headcount int) (ShiftEntry, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(workDate), c.location)
	if err != nil {
		return ShiftEntry{}, invalidShift("work_date", "дата %q должна быть в формате ГГГГ-ММ-ДД", workDate)
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return ShiftEntry{}, invalidShift("start_time", "%v", err)
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return ShiftEntry{}, invalidShift("end_time", "%v", err)
	}
	if !start.Before(end) {
		return ShiftEntry{}, invalidShift("end_time", "окончание %s должно быть позже начала %s", end, start)
	}
	if headcount < 1 {
		return ShiftEntry{}, invalidShift("headcount", "число работников должно быть положительным, получено %d", headcount)
	}
	return ShiftEntry{WorkDate: date, StartTime: start, EndTime: end, Headcount: headcount}, nil
}
