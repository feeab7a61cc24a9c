package types

// Filter - параметры списка из query-строки.
// ?search=vitamin&filter[status]=inProgress,notStarted&sort_order=asc&page=2&limit=20
type Filter struct {
	Search    string                 `json:"search,omitempty"`
	Sort      map[string]string      `json:"sort,omitempty"`
	Filter    map[string]interface{} `json:"filter,omitempty"`
	SortOrder string                 `json:"sort_order,omitempty"`
	Limit     int                    `json:"limit"`
	Page      int                    `json:"page"`
}

// FilterString возвращает значение filter[key] строкой.
func (f Filter) FilterString(key string) string {
	if v, ok := f.Filter[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
