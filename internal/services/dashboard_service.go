package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/production"
	"production-system/internal/repositories"
	"production-system/pkg/config"
	"production-system/pkg/utils"
)

// DashboardVersionKey - счетчик версии сводки; его сдвигает слушатель изменений заказов.
const DashboardVersionKey = "dashboard:version"

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

type DashboardService struct {
	repo      repositories.DashboardRepositoryInterface
	orderRepo repositories.OrderRepositoryInterface
	cache     repositories.CacheRepositoryInterface
	calc      *production.Calculator
	cfg       config.DashboardConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	calc *production.Calculator,
	cfg config.DashboardConfig,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		repo:      repo,
		orderRepo: orderRepo,
		cache:     cache,
		calc:      calc,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *DashboardService) cacheKey(ctx context.Context) string {
	version := "0"
	if s.cache != nil {
		v, err := s.cache.Get(ctx, DashboardVersionKey)
		switch {
		case err == nil:
			version = v
		case !errors.Is(err, repositories.ErrCacheMiss):
			s.logger.Warn("Не удалось прочитать версию кеша дашборда", zap.Error(err))
		}
	}
	return "dashboard:summary:" + version
}

// GetDashboard отдает сводку из Redis; при промахе считает ее заново.
// Недоступность кеша не ломает ответ.
func (s *DashboardService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	key := s.cacheKey(ctx)
	if s.cache != nil {
		var cached dto.DashboardDTO
		err := s.cache.GetObject(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("Не удалось прочитать дашборд из кеша", zap.String("key", key), zap.Error(err))
		}
	}

	result, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetObject(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("Не удалось сохранить дашборд в кеш", zap.Error(err))
		}
	}
	return result, nil
}

func (s *DashboardService) build(ctx context.Context) (*dto.DashboardDTO, error) {
	loc := s.calc.Location()
	now := s.now().In(loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var (
		orders     []entities.Order
		monthTotal float64
		daily      []repositories.DailyWorkUnits
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		orders, err = s.orderRepo.GetOrdersForRanking(egCtx, "")
		return err
	})
	eg.Go(func() (err error) {
		monthTotal, err = s.repo.SumWorkUnits(egCtx, monthStart, monthEnd)
		return err
	})
	eg.Go(func() (err error) {
		daily, err = s.repo.GetDailyWorkUnits(egCtx, monthStart, monthEnd)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("ошибка сборки дашборда: %w", err)
	}

	result := &dto.DashboardDTO{
		MonthWorkUnits: monthTotal,
		Month:          monthStart.Format("2006-01"),
		Daily:          make([]dto.DailyWorkUnitsDTO, len(daily)),
		GeneratedAt:    utils.FormatDateTime(now, loc),
	}
	for i, d := range daily {
		result.Daily[i] = dto.DailyWorkUnitsDTO{Date: d.Day.Format(production.DateLayout), WorkUnits: d.WorkUnits, Worklogs: d.Worklogs}
	}

	results := make([]production.WorkUnitResult, 0)
	for _, o := range orders {
		switch o.Status() {
		case production.StatusInProgress:
			result.Counts.InProgress++
		case production.StatusNotStarted:
			result.Counts.NotStarted++
		case production.StatusCompleted:
			result.Counts.Completed++
		}
		for _, w := range o.Worklogs {
			results = append(results, w.Result())
		}
	}
	result.Counts.Total = len(orders)
	result.TotalWorkUnits = production.TotalWorkUnits(results)

	top := s.cfg.TopOrders
	if top < 1 {
		top = 5
	}
	ranking := production.Prioritize(orders, production.RankingOptions{
		SortOrder: production.SortDesc,
		Statuses:  []production.Status{production.StatusInProgress, production.StatusNotStarted},
		Page:      1,
		Limit:     top,
	})
	result.PriorityOrders = make([]dto.OrderDTO, len(ranking.Items))
	for i, o := range ranking.Items {
		result.PriorityOrders[i] = orderToDTO(o, loc)
	}
	result.Warnings = warningsToStrings(ranking.Warnings)
	if len(result.Warnings) > 0 {
		s.logger.Warn("Неполные даты в приоритетном списке дашборда", zap.Strings("warnings", result.Warnings))
	}
	return result, nil
}
