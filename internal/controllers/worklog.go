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

type WorklogController struct {
	worklogService services.WorklogServiceInterface
	logger         *zap.Logger
}

func NewWorklogController(worklogService services.WorklogServiceInterface, logger *zap.Logger) *WorklogController {
	return &WorklogController{worklogService: worklogService, logger: logger}
}

func (c *WorklogController) GetWorklogs(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.worklogService.ListByOrder(ctx.Request().Context(), orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Смены успешно получены", http.StatusOK)
}

func (c *WorklogController) bindWorklog(ctx echo.Context) (dto.CreateWorklogDTO, error) {
	var data dto.CreateWorklogDTO
	if err := ctx.Bind(&data); err != nil {
		return data, apperrors.NewInvalidInputError("неверные данные в запросе")
	}
	if err := ctx.Validate(&data); err != nil {
		return data, err
	}
	return data, nil
}

func (c *WorklogController) CreateWorklog(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	data, err := c.bindWorklog(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.worklogService.CreateWorklog(ctx.Request().Context(), orderID, data)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Смена успешно добавлена", http.StatusCreated)
}

func (c *WorklogController) UpdateWorklog(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	data, err := c.bindWorklog(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.worklogService.UpdateWorklog(ctx.Request().Context(), id, data)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Смена успешно обновлена", http.StatusOK)
}

func (c *WorklogController) DeleteWorklog(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.worklogService.DeleteWorklog(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Смена успешно удалена", http.StatusOK)
}

func (c *WorklogController) Recalculate(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.worklogService.Recalculate(ctx.Request().Context(), orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Смены пересчитаны", http.StatusOK)
}
