package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"production-system/internal/entities"
	"production-system/internal/production"
	apperrors "production-system/pkg/errors"
)

const worklogTable = "order_worklogs"

var worklogColumns = []string{
	"w.id", "w.order_id", "w.work_date",
	"to_char(w.start_time, 'HH24:MI')", "to_char(w.end_time, 'HH24:MI')",
	"w.headcount", "w.notes", "w.effective_minutes", "w.work_units",
	"w.created_at", "w.updated_at",
}

type dbWorklog struct {
	ID               uint64
	OrderID          uint64
	WorkDate         time.Time
	StartTime        string
	EndTime          string
	Headcount        int
	Notes            sql.NullString
	EffectiveMinutes int
	WorkUnits        float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (db *dbWorklog) toEntity() entities.Worklog {
	w := entities.Worklog{
		ID:               db.ID,
		OrderID:          db.OrderID,
		WorkDate:         db.WorkDate,
		StartTime:        db.StartTime,
		EndTime:          db.EndTime,
		Headcount:        db.Headcount,
		EffectiveMinutes: db.EffectiveMinutes,
		WorkUnits:        db.WorkUnits,
	}
	if db.Notes.Valid {
		w.Notes = &db.Notes.String
	}
	w.CreatedAt = db.CreatedAt
	w.UpdatedAt = db.UpdatedAt
	return w
}

func scanWorklog(row pgx.Row) (entities.Worklog, error) {
	var db dbWorklog
	err := row.Scan(
		&db.ID, &db.OrderID, &db.WorkDate, &db.StartTime, &db.EndTime,
		&db.Headcount, &db.Notes, &db.EffectiveMinutes, &db.WorkUnits,
		&db.CreatedAt, &db.UpdatedAt,
	)
	if err != nil {
		return entities.Worklog{}, err
	}
	return db.toEntity(), nil
}

// queryWorklogs выполняет SELECT по order_worklogs и сканирует все строки.
func queryWorklogs(ctx context.Context, q querier, builder sq.SelectBuilder) ([]entities.Worklog, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса смен: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения смен: %w", err)
	}
	defer rows.Close()

	worklogs := make([]entities.Worklog, 0)
	for rows.Next() {
		w, err := scanWorklog(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования смены: %w", err)
		}
		worklogs = append(worklogs, w)
	}
	return worklogs, rows.Err()
}

func worklogSelect() sq.SelectBuilder {
	return psql.Select(worklogColumns...).From(worklogTable + " w")
}

type WorklogExportRow struct {
	entities.Worklog
	OrderName string
}

type WorklogRepositoryInterface interface {
	ListByOrder(ctx context.Context, orderID uint64) ([]entities.Worklog, error)
	ListByOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, orderID uint64) ([]entities.Worklog, error)
	ListForExport(ctx context.Context, orderID *uint64) ([]WorklogExportRow, error)
	FindWorklog(ctx context.Context, id uint64) (*entities.Worklog, error)
	CreateWorklog(ctx context.Context, w entities.Worklog) (*entities.Worklog, error)
	UpdateWorklog(ctx context.Context, w entities.Worklog) (*entities.Worklog, error)
	DeleteWorklog(ctx context.Context, id uint64) error
	UpdateComputedInTx(ctx context.Context, tx pgx.Tx, w entities.Worklog, result production.WorkUnitResult) (bool, error)
}

type WorklogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorklogRepository(storage *pgxpool.Pool, logger *zap.Logger) WorklogRepositoryInterface {
	return &WorklogRepository{storage: storage, logger: logger}
}

func (r *WorklogRepository) ListByOrder(ctx context.Context, orderID uint64) ([]entities.Worklog, error) {
	return queryWorklogs(ctx, r.storage, worklogSelect().
		Where(sq.Eq{"w.order_id": orderID}).
		OrderBy("w.work_date", "w.start_time", "w.id"))
}

// ListByOrderForUpdateInTx блокирует строки смен заказа до конца транзакции.
func (r *WorklogRepository) ListByOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, orderID uint64) ([]entities.Worklog, error) {
	return queryWorklogs(ctx, tx, worklogSelect().
		Where(sq.Eq{"w.order_id": orderID}).
		OrderBy("w.work_date", "w.start_time", "w.id").
		Suffix("FOR UPDATE"))
}

func loadWorklogsByOrders(ctx context.Context, q querier, orderIDs []uint64) (map[uint64][]entities.Worklog, error) {
	grouped := make(map[uint64][]entities.Worklog, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}
	worklogs, err := queryWorklogs(ctx, q, worklogSelect().
		Where("w.order_id = ANY(?)", toInt64s(orderIDs)).
		OrderBy("w.order_id", "w.work_date", "w.start_time", "w.id"))
	if err != nil {
		return nil, err
	}
	for _, w := range worklogs {
		grouped[w.OrderID] = append(grouped[w.OrderID], w)
	}
	return grouped, nil
}

func (r *WorklogRepository) ListForExport(ctx context.Context, orderID *uint64) ([]WorklogExportRow, error) {
	builder := psql.Select(append(append([]string{}, worklogColumns...), "o.name")...).
		From(worklogTable + " w").
		Join("orders o ON o.id = w.order_id").
		OrderBy("w.work_date", "w.start_time", "w.id")
	if orderID != nil {
		builder = builder.Where(sq.Eq{"w.order_id": *orderID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса выгрузки смен: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выгрузки смен: %w", err)
	}
	defer rows.Close()

	result := make([]WorklogExportRow, 0)
	for rows.Next() {
		var db dbWorklog
		var orderName string
		if err := rows.Scan(
			&db.ID, &db.OrderID, &db.WorkDate, &db.StartTime, &db.EndTime,
			&db.Headcount, &db.Notes, &db.EffectiveMinutes, &db.WorkUnits,
			&db.CreatedAt, &db.UpdatedAt, &orderName,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки выгрузки: %w", err)
		}
		result = append(result, WorklogExportRow{Worklog: db.toEntity(), OrderName: orderName})
	}
	return result, rows.Err()
}

func (r *WorklogRepository) FindWorklog(ctx context.Context, id uint64) (*entities.Worklog, error) {
	query, args, err := worklogSelect().Where(sq.Eq{"w.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса смены: %w", err)
	}
	w, err := scanWorklog(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения смены: %w", err)
	}
	return &w, nil
}

func (r *WorklogRepository) CreateWorklog(ctx context.Context, w entities.Worklog) (*entities.Worklog, error) {
	query, args, err := psql.Insert(worklogTable).
		Columns("order_id", "work_date", "start_time", "end_time", "headcount", "notes", "effective_minutes", "work_units").
		Values(w.OrderID, w.WorkDate.Format(production.DateLayout), w.StartTime, w.EndTime, w.Headcount, w.Notes, w.EffectiveMinutes, w.WorkUnits).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки INSERT смены: %w", err)
	}

	var newID uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return nil, fmt.Errorf("ошибка записи смены: %w", err)
	}
	r.logger.Debug("Смена записана", zap.Uint64("worklogID", newID), zap.Uint64("orderID", w.OrderID))
	return r.FindWorklog(ctx, newID)
}

func (r *WorklogRepository) UpdateWorklog(ctx context.Context, w entities.Worklog) (*entities.Worklog, error) {
	query, args, err := psql.Update(worklogTable).
		Set("work_date", w.WorkDate.Format(production.DateLayout)).
		Set("start_time", w.StartTime).
		Set("end_time", w.EndTime).
		Set("headcount", w.Headcount).
		Set("notes", w.Notes).
		Set("effective_minutes", w.EffectiveMinutes).
		Set("work_units", w.WorkUnits).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": w.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки UPDATE смены: %w", err)
	}

	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления смены: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindWorklog(ctx, w.ID)
}

func (r *WorklogRepository) DeleteWorklog(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM order_worklogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления смены: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateComputedInTx записывает пересчитанные значения, только если поля смены
// совпадают с прочитанными. false - смену успели изменить или удалить.
func (r *WorklogRepository) UpdateComputedInTx(ctx context.Context, tx pgx.Tx, w entities.Worklog, result production.WorkUnitResult) (bool, error) {
	query, args, err := psql.Update(worklogTable).
		Set("effective_minutes", result.EffectiveMinutes).
		Set("work_units", result.WorkUnits).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":         w.ID,
			"work_date":  w.WorkDate.Format(production.DateLayout),
			"start_time": w.StartTime,
			"end_time":   w.EndTime,
			"headcount":  w.Headcount,
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("ошибка сборки UPDATE пересчета: %w", err)
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("ошибка пересчета смены %d: %w", w.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}
