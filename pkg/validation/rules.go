package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var clockRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d(:00)?$`)

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("clock_hhmm", isClockTime); err != nil {
		return err
	}
	if err := v.RegisterValidation("date_ymd", isDateYMD); err != nil {
		return err
	}
	if err := v.RegisterValidation("sort_order", isSortOrder); err != nil {
		return err
	}
	return nil
}

// isClockTime - время суток "09:00" или "9:00"; секунды допускаются только нулевые.
func isClockTime(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// isDateYMD - календарная дата ГГГГ-ММ-ДД.
func isDateYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func isSortOrder(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "", "asc", "desc":
		return true
	}
	return false
}
