package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"production-system/internal/production"
)

// DailyWorkUnits - сумма рабочих единиц за день по сохраненным значениям смен.
type DailyWorkUnits struct {
	Day       time.Time
	WorkUnits float64
	Worklogs  int
}

type DashboardRepositoryInterface interface {
	SumWorkUnits(ctx context.Context, from, to time.Time) (float64, error)
	GetDailyWorkUnits(ctx context.Context, from, to time.Time) ([]DailyWorkUnits, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

// periodFilter - полуинтервал [from, to) по дате смены.
func periodFilter(from, to time.Time) sq.And {
	return sq.And{
		sq.GtOrEq{"work_date": from.Format(production.DateLayout)},
		sq.Lt{"work_date": to.Format(production.DateLayout)},
	}
}

func (r *DashboardRepository) SumWorkUnits(ctx context.Context, from, to time.Time) (float64, error) {
	query, args, err := psql.Select("COALESCE(SUM(work_units), 0)").
		From(worklogTable).
		Where(periodFilter(from, to)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса суммы: %w", err)
	}

	var total float64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчета рабочих единиц: %w", err)
	}
	return total, nil
}

func (r *DashboardRepository) GetDailyWorkUnits(ctx context.Context, from, to time.Time) ([]DailyWorkUnits, error) {
	query, args, err := psql.Select("work_date", "COALESCE(SUM(work_units), 0)", "COUNT(*)").
		From(worklogTable).
		Where(periodFilter(from, to)).
		GroupBy("work_date").
		OrderBy("work_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса по дням: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики по дням: %w", err)
	}
	defer rows.Close()

	result := make([]DailyWorkUnits, 0)
	for rows.Next() {
		var d DailyWorkUnits
		if err := rows.Scan(&d.Day, &d.WorkUnits, &d.Worklogs); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статистики по дням: %w", err)
		}
		result = append(result, d)
	}
	r.logger.Debug("Статистика по дням", zap.Int("days", len(result)))
	return result, rows.Err()
}
