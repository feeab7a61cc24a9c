package dto

import "strings"

// ReportFormat - формат выгрузки.
type ReportFormat string

const (
	ReportCSV  ReportFormat = "csv"
	ReportXLSX ReportFormat = "xlsx"
)

// ParseReportFormat: пустое значение дает xlsx.
func ParseReportFormat(s string) (ReportFormat, bool) {
	switch ReportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ReportXLSX:
		return ReportXLSX, true
	case ReportCSV:
		return ReportCSV, true
	}
	return "", false
}

// Report - готовая к записи таблица: заголовки и строки значений.
type Report struct {
	Title   string
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}
