package production

type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate берет окно из уже отсортированного среза: skip = (page-1)*limit.
// page и limit меньше 1 приводятся к 1.
func Paginate[T any](sorted []T, page, limit int) ([]T, PageMeta) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	total := len(sorted)
	meta := PageMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: total / limit,
	}
	// без total+limit-1: limit может быть близок к MaxInt
	if total%limit != 0 {
		meta.TotalPages++
	}

	if page > meta.TotalPages {
		return []T{}, meta
	}
	skip := (page - 1) * limit
	end := total
	if limit < total-skip {
		end = skip + limit
	}
	window := make([]T, end-skip)
	copy(window, sorted[skip:end])
	return window, meta
}
