package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "production-system/pkg/errors"
	"production-system/pkg/types"
)

// ParseFilterFromQuery разбирает search, sort_order, sort[...], filter[...], page и limit.
// Нечисловые page/limit - ошибка 400; значения меньше 1 приводятся к 1, limit обрезается по maxLimit.
func ParseFilterFromQuery(values url.Values, defaultLimit, maxLimit int) (types.Filter, error) {
	f := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  defaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil {
			return f, apperrors.NewInvalidInputError("limit должен быть целым числом, получено %q", limitStr)
		}
		f.Limit = l
	}
	if f.Limit < 1 {
		f.Limit = 1
	}
	if maxLimit > 0 && f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if pageStr := values.Get("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil {
			return f, apperrors.NewInvalidInputError("page должен быть целым числом, получено %q", pageStr)
		}
		f.Page = p
	}
	if f.Page < 1 {
		f.Page = 1
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		switch {
		case key == "search":
			f.Search = strings.TrimSpace(vals[0])
		case key == "sort_order":
			f.SortOrder = vals[0]
		case strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]"):
			field := key[5 : len(key)-1]
			f.Sort[field] = strings.ToLower(vals[0])
		case strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]"):
			field := key[7 : len(key)-1]
			f.Filter[field] = strings.Join(vals, ",")
		}
	}

	// sort[priority]=asc - старая форма параметра сортировки.
	if f.SortOrder == "" {
		f.SortOrder = f.Sort["priority"]
	}
	return f, nil
}

// ParseIDParam читает положительный числовой параметр пути.
func ParseIDParam(c echo.Context, name string) (uint64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewInvalidInputError("некорректный %s: %q", name, raw)
	}
	return id, nil
}

// BindWithSentFields привязывает тело к dst и возвращает множество ключей верхнего уровня,
// реально присутствовавших в JSON. Нужно для PATCH-семантики с явным null.
func BindWithSentFields(c echo.Context, dst interface{}) (map[string]bool, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать тело запроса: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperrors.NewInvalidInputError("неверный формат JSON: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		return nil, apperrors.NewInvalidInputError("неверные данные в запросе: %v", err)
	}

	sent := make(map[string]bool, len(fields))
	for k := range fields {
		sent[k] = true
	}
	return sent, nil
}
