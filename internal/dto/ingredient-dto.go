package dto

import "github.com/aarondl/null/v8"

type CreateIngredientDTO struct {
	Name       string      `json:"name" validate:"required,min=1,max=255"`
	QuantityMg float64     `json:"quantity_mg" validate:"gte=0"`
	Notes      null.String `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateIngredientDTO = CreateIngredientDTO

type IngredientDTO struct {
	ID         uint64  `json:"id"`
	OrderID    uint64  `json:"order_id"`
	Name       string  `json:"name"`
	QuantityMg float64 `json:"quantity_mg"`
	Notes      *string `json:"notes"`
}
