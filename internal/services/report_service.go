package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/production"
	"production-system/internal/repositories"
	"production-system/pkg/utils"
)

type ReportServiceInterface interface {
	OrdersReport(ctx context.Context, search string, statuses []production.Status, order production.SortOrder) (*dto.Report, error)
	WorklogsReport(ctx context.Context, orderID *uint64) (*dto.Report, error)
}

type reportService struct {
	orderService OrderServiceInterface
	orderRepo    repositories.OrderRepositoryInterface
	worklogRepo  repositories.WorklogRepositoryInterface
	calc         *production.Calculator
	logger       *zap.Logger
}

func NewReportService(
	orderService OrderServiceInterface,
	orderRepo repositories.OrderRepositoryInterface,
	worklogRepo repositories.WorklogRepositoryInterface,
	calc *production.Calculator,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{
		orderService: orderService,
		orderRepo:    orderRepo,
		worklogRepo:  worklogRepo,
		calc:         calc,
		logger:       logger,
	}
}

var orderReportHeaders = []string{
	"№", "ID заказа", "Название", "Клиент", "Капсул", "Статус",
	"Рабочие единицы", "Смен", "Дата завершения", "Создан",
}

// OrdersReport - заказы в порядке приоритета производства, без пагинации.
func (s *reportService) OrdersReport(ctx context.Context, search string, statuses []production.Status, order production.SortOrder) (*dto.Report, error) {
	orders, err := s.orderService.RankedOrders(ctx, search, statuses, order)
	if err != nil {
		return nil, err
	}

	loc := s.calc.Location()
	rows := make([][]interface{}, len(orders))
	for i, o := range orders {
		rows[i] = []interface{}{
			i + 1, o.ID, o.Name, o.CustomerName, o.CapsuleCount, string(o.Status()),
			o.TotalWorkUnits(), len(o.Worklogs),
			utils.SafeDeref(utils.FormatDate(o.CompletionDate)),
			utils.FormatDateTime(o.CreatedAt, loc),
		}
	}
	s.logger.Info("Сформирован отчет по заказам", zap.Int("rows", len(rows)))
	return &dto.Report{
		Title:   "orders",
		Sheet:   "Заказы",
		Headers: orderReportHeaders,
		Rows:    rows,
	}, nil
}

var worklogReportHeaders = []string{
	"ID смены", "ID заказа", "Заказ", "Дата", "Начало", "Окончание",
	"Работников", "Эффективные минуты", "Рабочие единицы", "Комментарий",
}

func (s *reportService) WorklogsReport(ctx context.Context, orderID *uint64) (*dto.Report, error) {
	title := "worklogs"
	if orderID != nil {
		if err := s.orderRepo.OrderExists(ctx, *orderID); err != nil {
			return nil, err
		}
		title = fmt.Sprintf("worklogs_order_%d", *orderID)
	}

	list, err := s.worklogRepo.ListForExport(ctx, orderID)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(list))
	for i, w := range list {
		rows[i] = []interface{}{
			w.ID, w.OrderID, w.OrderName, w.WorkDate.Format(production.DateLayout),
			w.StartTime, w.EndTime, w.Headcount, w.EffectiveMinutes, w.WorkUnits,
			utils.SafeDeref(w.Notes),
		}
	}
	return &dto.Report{
		Title:   title,
		Sheet:   "Смены",
		Headers: worklogReportHeaders,
		Rows:    rows,
	}, nil
}
