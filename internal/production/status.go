package production

import (
	"fmt"
	"strings"
)

// Status - производственное состояние заказа, вычисляется при каждом чтении.
type Status string

const (
	StatusInProgress Status = "inProgress"
	StatusNotStarted Status = "notStarted"
	StatusCompleted  Status = "completed"
)

var AllStatuses = []Status{StatusInProgress, StatusNotStarted, StatusCompleted}

// Classify: завершение всегда важнее наличия смен.
func Classify(hasWorklog, isCompleted bool) Status {
	switch {
	case isCompleted:
		return StatusCompleted
	case hasWorklog:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// Rank - первичный ключ сортировки: в работе < не начат < завершен.
func (s Status) Rank() int {
	switch s {
	case StatusInProgress:
		return 0
	case StatusNotStarted:
		return 1
	default:
		return 2
	}
}

func (s Status) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("неизвестный статус производства %q", s)
}

// ParseStatuses принимает список через запятую; пустая строка - без фильтра.
func ParseStatuses(s string) ([]Status, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []Status
	for _, part := range strings.Split(s, ",") {
		st, err := ParseStatus(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
