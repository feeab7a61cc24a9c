package entities

import "production-system/pkg/types"

type Ingredient struct {
	ID         uint64
	OrderID    uint64
	Name       string
	QuantityMg float64
	Notes      *string

	types.BaseEntity
}
