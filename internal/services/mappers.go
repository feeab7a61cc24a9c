package services

import (
	"context"
	"time"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/production"
	"production-system/pkg/eventbus"
	"production-system/pkg/utils"
)

// EventPublisher - часть eventbus.Bus, нужная сервисам.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

func orderToDTO(o entities.Order, loc *time.Location) dto.OrderDTO {
	return dto.OrderDTO{
		ID:             o.ID,
		Name:           o.Name,
		CustomerName:   o.CustomerName,
		CapsuleCount:   o.CapsuleCount,
		Notes:          o.Notes,
		CompletionDate: utils.FormatDate(o.CompletionDate),
		Status:         o.Status(),
		TotalWorkUnits: o.TotalWorkUnits(),
		WorklogCount:   len(o.Worklogs),
		CreatedAt:      utils.FormatDateTime(o.CreatedAt, loc),
		UpdatedAt:      utils.FormatDateTime(o.UpdatedAt, loc),
	}
}

func orderToDetailDTO(o entities.Order, loc *time.Location) dto.OrderDTO {
	d := orderToDTO(o, loc)
	d.Worklogs = make([]dto.WorklogDTO, len(o.Worklogs))
	for i, w := range o.Worklogs {
		d.Worklogs[i] = worklogToDTO(w, loc)
	}
	d.Ingredients = make([]dto.IngredientDTO, len(o.Ingredients))
	for i, ing := range o.Ingredients {
		d.Ingredients[i] = ingredientToDTO(ing)
	}
	return d
}

func worklogToDTO(w entities.Worklog, loc *time.Location) dto.WorklogDTO {
	return dto.WorklogDTO{
		ID:               w.ID,
		OrderID:          w.OrderID,
		WorkDate:         w.WorkDate.Format(production.DateLayout),
		StartTime:        w.StartTime,
		EndTime:          w.EndTime,
		Headcount:        w.Headcount,
		Notes:            w.Notes,
		EffectiveMinutes: w.EffectiveMinutes,
		WorkUnits:        w.WorkUnits,
		CreatedAt:        utils.FormatDateTime(w.CreatedAt, loc),
	}
}

func ingredientToDTO(ing entities.Ingredient) dto.IngredientDTO {
	return dto.IngredientDTO{
		ID:         ing.ID,
		OrderID:    ing.OrderID,
		Name:       ing.Name,
		QuantityMg: ing.QuantityMg,
		Notes:      ing.Notes,
	}
}

func warningsToStrings(warnings []production.DegradedOrderingWarning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}
