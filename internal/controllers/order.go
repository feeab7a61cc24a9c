package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/production"
	"production-system/internal/services"
	"production-system/pkg/api"
	"production-system/pkg/config"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	pagination   config.PaginationConfig
	logger       *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	pagination config.PaginationConfig,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		orderService: orderService,
		pagination:   pagination,
		logger:       logger,
	}
}

// parseOrderListQuery: ?search=&filter[status]=inProgress,notStarted&sort_order=asc&page=1&limit=20
func parseOrderListQuery(ctx echo.Context, pagination config.PaginationConfig) (dto.OrderListQuery, error) {
	filter, err := utils.ParseFilterFromQuery(ctx.Request().URL.Query(), pagination.DefaultLimit, pagination.MaxLimit)
	if err != nil {
		return dto.OrderListQuery{}, err
	}
	order, err := production.ParseSortOrder(filter.SortOrder)
	if err != nil {
		return dto.OrderListQuery{}, apperrors.NewInvalidInputError("%v", err)
	}
	statuses, err := production.ParseStatuses(filter.FilterString("status"))
	if err != nil {
		return dto.OrderListQuery{}, apperrors.NewInvalidInputError("%v", err)
	}
	return dto.OrderListQuery{
		Search:    filter.Search,
		Statuses:  statuses,
		SortOrder: order,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}, nil
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	query, err := parseOrderListQuery(ctx, c.pagination)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.GetOrders(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return api.SuccessList(ctx, "Заказы успешно получены", res.List, api.PaginationMeta{
		TotalCount: res.Page.Total,
		TotalPages: res.Page.TotalPages,
		Page:       res.Page.Page,
		Limit:      res.Page.Limit,
	}, res.Warnings)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.orderService.FindOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ успешно получен", http.StatusOK)
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	var data dto.CreateOrderDTO
	if err := ctx.Bind(&data); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("неверные данные в запросе"), c.logger)
	}
	if err := ctx.Validate(&data); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.CreateOrder(ctx.Request().Context(), data)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ успешно создан", http.StatusCreated)
}

// UpdateOrder - частичное обновление: отсутствующие поля не трогаются,
// "completion_date": null снимает отметку о завершении.
func (c *OrderController) UpdateOrder(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var data dto.UpdateOrderDTO
	sent, err := utils.BindWithSentFields(ctx, &data)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	data.SentFields = sent
	if err := ctx.Validate(&data); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.UpdateOrder(ctx.Request().Context(), id, data)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заказ успешно обновлен", http.StatusOK)
}

func (c *OrderController) DeleteOrder(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.orderService.DeleteOrder(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Заказ успешно удален", http.StatusOK)
}
