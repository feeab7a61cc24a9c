package production

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockTime - время суток с точностью до минуты, без даты и зоны.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock разбирает строку вида "HH:MM" (допускается "H:MM" и "HH:MM:SS" из БД).
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ClockTime{}, fmt.Errorf("время %q должно быть в формате ЧЧ:ММ", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("некорректный час в %q", s)
	}
	if len(parts[1]) != 2 {
		return ClockTime{}, fmt.Errorf("некорректные минуты в %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("некорректные минуты в %q", s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec != 0 {
			return ClockTime{}, fmt.Errorf("секунды не поддерживаются в %q", s)
		}
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Minutes - минуты от полуночи.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) Before(other ClockTime) bool {
	return c.Minutes() < other.Minutes()
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
