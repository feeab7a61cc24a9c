package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/services"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/utils"
)

type IngredientController struct {
	ingredientService services.IngredientServiceInterface
	logger            *zap.Logger
}

func NewIngredientController(ingredientService services.IngredientServiceInterface, logger *zap.Logger) *IngredientController {
	return &IngredientController{ingredientService: ingredientService, logger: logger}
}

func (c *IngredientController) GetIngredients(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.ingredientService.ListByOrder(ctx.Request().Context(), orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Ингредиенты успешно получены", http.StatusOK)
}

func (c *IngredientController) CreateIngredient(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var data dto.CreateIngredientDTO
	if err := ctx.Bind(&data); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("неверные данные в запросе"), c.logger)
	}
	if err := ctx.Validate(&data); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.ingredientService.CreateIngredient(ctx.Request().Context(), orderID, data)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Ингредиент успешно добавлен", http.StatusCreated)
}

func (c *IngredientController) UpdateIngredient(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var data dto.UpdateIngredientDTO
	if err := ctx.Bind(&data); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("неверные данные в запросе"), c.logger)
	}
	if err := ctx.Validate(&data); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.ingredientService.UpdateIngredient(ctx.Request().Context(), id, data)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Ингредиент успешно обновлен", http.StatusOK)
}

func (c *IngredientController) DeleteIngredient(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.ingredientService.DeleteIngredient(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Ингредиент успешно удален", http.StatusOK)
}
