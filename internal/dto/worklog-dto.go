package dto

import "github.com/aarondl/null/v8"

type CreateWorklogDTO struct {
	WorkDate  string      `json:"work_date" validate:"required,date_ymd"`
	StartTime string      `json:"start_time" validate:"required,clock_hhmm"`
	EndTime   string      `json:"end_time" validate:"required,clock_hhmm"`
	Headcount int         `json:"headcount" validate:"required,gte=1"`
	Notes     null.String `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateWorklogDTO заменяет запись целиком, поэтому поля те же.
type UpdateWorklogDTO = CreateWorklogDTO

type WorklogDTO struct {
	ID               uint64  `json:"id"`
	OrderID          uint64  `json:"order_id"`
	WorkDate         string  `json:"work_date"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	Headcount        int     `json:"headcount"`
	Notes            *string `json:"notes"`
	EffectiveMinutes int     `json:"effective_minutes"`
	WorkUnits        float64 `json:"work_units"`
	CreatedAt        string  `json:"created_at"`
}

type WorklogListDTO struct {
	List           []WorklogDTO `json:"list"`
	TotalWorkUnits float64      `json:"total_work_units"`
}

type RecalculateResultDTO struct {
	Checked        int     `json:"checked"`
	Corrected      int     `json:"corrected"`
	Skipped        int     `json:"skipped,omitempty"`
	TotalWorkUnits float64 `json:"total_work_units"`
}
