package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/events"
	"production-system/internal/production"
	"production-system/internal/repositories"
	"production-system/pkg/config"
	apperrors "production-system/pkg/errors"
)

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, query dto.OrderListQuery) (*dto.OrderPageDTO, error)
	RankedOrders(ctx context.Context, search string, statuses []production.Status, order production.SortOrder) ([]entities.Order, error)
	FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error)
	CreateOrder(ctx context.Context, orderData dto.CreateOrderDTO) (*dto.OrderDTO, error)
	UpdateOrder(ctx context.Context, id uint64, orderData dto.UpdateOrderDTO) (*dto.OrderDTO, error)
	DeleteOrder(ctx context.Context, id uint64) error
}

type OrderService struct {
	orderRepo  repositories.OrderRepositoryInterface
	calc       *production.Calculator
	publisher  EventPublisher
	pagination config.PaginationConfig
	logger     *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	calc *production.Calculator,
	publisher EventPublisher,
	pagination config.PaginationConfig,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:  orderRepo,
		calc:       calc,
		publisher:  publisher,
		pagination: pagination,
		logger:     logger,
	}
}

// loadCandidates загружает весь набор заказов для ранжирования.
// Пагинация в БД невозможна: статус вычисляется, а порядок зависит от всех строк.
func (s *OrderService) loadCandidates(ctx context.Context, search string) ([]entities.Order, error) {
	orders, err := s.orderRepo.GetOrdersForRanking(ctx, search)
	if err != nil {
		return nil, err
	}
	if s.pagination.RankingWarnThreshold > 0 && len(orders) > s.pagination.RankingWarnThreshold {
		s.logger.Warn("Ранжирование в памяти по большому набору заказов",
			zap.Int("candidates", len(orders)),
			zap.Int("threshold", s.pagination.RankingWarnThreshold),
		)
	}
	return orders, nil
}

func (s *OrderService) rank(orders []entities.Order, statuses []production.Status, order production.SortOrder) ([]entities.Order, []string) {
	filtered := production.FilterByStatus(orders, statuses)
	ranked, warnings := production.Rank(filtered, order)

	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		o := filtered[w.Index]
		s.logger.Warn("Неполные данные для сортировки заказа",
			zap.Uint64("orderID", o.ID),
			zap.String("field", w.Field),
		)
		messages = append(messages, fmt.Sprintf("заказ %d: отсутствует %s, используется нулевая дата", o.ID, w.Field))
	}
	if len(messages) == 0 {
		messages = nil
	}
	return ranked, messages
}

func (s *OrderService) GetOrders(ctx context.Context, query dto.OrderListQuery) (*dto.OrderPageDTO, error) {
	orders, err := s.loadCandidates(ctx, query.Search)
	if err != nil {
		return nil, err
	}

	ranked, warnings := s.rank(orders, query.Statuses, query.SortOrder)
	window, meta := production.Paginate(ranked, query.Page, query.Limit)

	list := make([]dto.OrderDTO, len(window))
	for i, o := range window {
		list[i] = orderToDTO(o, s.calc.Location())
	}
	return &dto.OrderPageDTO{List: list, Page: meta, Warnings: warnings}, nil
}

// RankedOrders - полный отсортированный список без окна, для выгрузок.
func (s *OrderService) RankedOrders(ctx context.Context, search string, statuses []production.Status, order production.SortOrder) ([]entities.Order, error) {
	orders, err := s.loadCandidates(ctx, search)
	if err != nil {
		return nil, err
	}
	ranked, _ := s.rank(orders, statuses, order)
	return ranked, nil
}

func (s *OrderService) FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error) {
	order, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	d := orderToDetailDTO(*order, s.calc.Location())
	return &d, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, orderData dto.CreateOrderDTO) (*dto.OrderDTO, error) {
	name := strings.TrimSpace(orderData.Name)
	if name == "" {
		return nil, apperrors.NewInvalidInputError("название заказа обязательно")
	}

	order := entities.Order{
		Name:         name,
		CustomerName: strings.TrimSpace(orderData.CustomerName),
		CapsuleCount: orderData.CapsuleCount,
		Notes:        orderData.Notes.Ptr(),
	}
	if orderData.CompletionDate.Valid {
		date, err := parseCompletionDate(orderData.CompletionDate.String)
		if err != nil {
			return nil, err
		}
		order.CompletionDate = &date
	}

	created, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создан заказ", zap.Uint64("orderID", created.ID), zap.String("name", created.Name))
	s.publisher.Publish(ctx, events.NewOrderChanged(created.ID, events.ActionCreated))

	d := orderToDetailDTO(*created, s.calc.Location())
	return &d, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uint64, orderData dto.UpdateOrderDTO) (*dto.OrderDTO, error) {
	if orderData.Sent("name") && (!orderData.Name.Valid || strings.TrimSpace(orderData.Name.String) == "") {
		return nil, apperrors.NewInvalidInputError("название заказа не может быть пустым")
	}
	if orderData.Sent("capsule_count") && !orderData.CapsuleCount.Valid {
		return nil, apperrors.NewInvalidInputError("capsule_count не может быть null")
	}
	if orderData.Name.Valid {
		orderData.Name.String = strings.TrimSpace(orderData.Name.String)
	}

	var completionDate *time.Time
	if orderData.Sent("completion_date") && orderData.CompletionDate.Valid {
		date, err := parseCompletionDate(orderData.CompletionDate.String)
		if err != nil {
			return nil, err
		}
		completionDate = &date
	}

	if err := s.orderRepo.UpdateOrder(ctx, id, orderData, completionDate); err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.NewOrderChanged(id, events.ActionUpdated))
	return s.FindOrder(ctx, id)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint64) error {
	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Заказ удален", zap.Uint64("orderID", id))
	s.publisher.Publish(ctx, events.NewOrderChanged(id, events.ActionDeleted))
	return nil
}

// parseCompletionDate: дата завершения хранится как календарный день без зоны.
func parseCompletionDate(raw string) (time.Time, error) {
	date, err := time.Parse(production.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError("completion_date должна быть в формате ГГГГ-ММ-ДД, получено %q", raw)
	}
	return date, nil
}
