package dto

type StatusCountDTO struct {
	InProgress int `json:"in_progress"`
	NotStarted int `json:"not_started"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

type DailyWorkUnitsDTO struct {
	Date      string  `json:"date"`
	WorkUnits float64 `json:"work_units"`
	Worklogs  int     `json:"worklogs"`
}

type DashboardDTO struct {
	Counts         StatusCountDTO      `json:"counts"`
	TotalWorkUnits float64             `json:"total_work_units"`
	MonthWorkUnits float64             `json:"month_work_units"`
	Month          string              `json:"month"`
	Daily          []DailyWorkUnitsDTO `json:"daily"`
	PriorityOrders []OrderDTO          `json:"priority_orders"`
	Warnings       []string            `json:"warnings,omitempty"`
	GeneratedAt    string              `json:"generated_at"`
}
