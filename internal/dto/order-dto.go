package dto

import (
	"github.com/aarondl/null/v8"

	"production-system/internal/production"
)

type CreateOrderDTO struct {
	Name           string      `json:"name" validate:"required,min=1,max=255"`
	CustomerName   string      `json:"customer_name" validate:"omitempty,max=255"`
	CapsuleCount   int         `json:"capsule_count" validate:"gte=0"`
	Notes          null.String `json:"notes" validate:"omitempty,max=2000"`
	CompletionDate null.String `json:"completion_date" validate:"omitempty,date_ymd"`
}

// UpdateOrderDTO - частичное обновление. SentFields заполняет контроллер по сырому телу,
// чтобы отличить "поле не передано" от явного null (например, снятие даты завершения).
type UpdateOrderDTO struct {
	Name           null.String `json:"name" validate:"omitempty,min=1,max=255"`
	CustomerName   null.String `json:"customer_name" validate:"omitempty,max=255"`
	CapsuleCount   null.Int    `json:"capsule_count" validate:"omitempty,gte=0"`
	Notes          null.String `json:"notes" validate:"omitempty,max=2000"`
	CompletionDate null.String `json:"completion_date" validate:"omitempty,date_ymd"`

	SentFields map[string]bool `json:"-"`
}

func (d UpdateOrderDTO) Sent(field string) bool {
	return d.SentFields[field]
}

type OrderDTO struct {
	ID             uint64            `json:"id"`
	Name           string            `json:"name"`
	CustomerName   string            `json:"customer_name"`
	CapsuleCount   int               `json:"capsule_count"`
	Notes          *string           `json:"notes"`
	CompletionDate *string           `json:"completion_date"`
	Status         production.Status `json:"status"`
	TotalWorkUnits float64           `json:"total_work_units"`
	WorklogCount   int               `json:"worklog_count"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`

	Ingredients []IngredientDTO `json:"ingredients,omitempty"`
	Worklogs    []WorklogDTO    `json:"worklogs,omitempty"`
}

// OrderListQuery - параметры списка заказов, передаются в сервис явно.
type OrderListQuery struct {
	Search    string
	Statuses  []production.Status
	SortOrder production.SortOrder
	Page      int
	Limit     int
}

// OrderPageDTO - окно отсортированного списка и предупреждения о неполных датах.
type OrderPageDTO struct {
	List     []OrderDTO
	Page     production.PageMeta
	Warnings []string
}
