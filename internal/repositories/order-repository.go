package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/production"
	apperrors "production-system/pkg/errors"
)

const orderTable = "orders"

var orderColumns = []string{
	"o.id", "o.name", "o.customer_name", "o.capsule_count", "o.notes",
	"o.completion_date", "o.created_at", "o.updated_at",
}

type dbOrder struct {
	ID             uint64
	Name           string
	CustomerName   string
	CapsuleCount   int
	Notes          sql.NullString
	CompletionDate sql.NullTime
	CreatedAt      sql.NullTime
	UpdatedAt      sql.NullTime
}

// toEntity: отсутствующий created_at остается нулевым временем,
// такой заказ ранжируется с предупреждением.
func (db *dbOrder) toEntity() entities.Order {
	o := entities.Order{
		ID:           db.ID,
		Name:         db.Name,
		CustomerName: db.CustomerName,
		CapsuleCount: db.CapsuleCount,
	}
	if db.Notes.Valid {
		o.Notes = &db.Notes.String
	}
	if db.CompletionDate.Valid {
		t := db.CompletionDate.Time
		o.CompletionDate = &t
	}
	if db.CreatedAt.Valid {
		o.CreatedAt = db.CreatedAt.Time
	}
	if db.UpdatedAt.Valid {
		o.UpdatedAt = db.UpdatedAt.Time
	}
	return o
}

func scanOrder(row pgx.Row) (entities.Order, error) {
	var db dbOrder
	if err := row.Scan(
		&db.ID, &db.Name, &db.CustomerName, &db.CapsuleCount, &db.Notes,
		&db.CompletionDate, &db.CreatedAt, &db.UpdatedAt,
	); err != nil {
		return entities.Order{}, err
	}
	return db.toEntity(), nil
}

type OrderRepositoryInterface interface {
	GetOrdersForRanking(ctx context.Context, search string) ([]entities.Order, error)
	FindOrder(ctx context.Context, id uint64) (*entities.Order, error)
	OrderExists(ctx context.Context, id uint64) error
	CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error)
	UpdateOrder(ctx context.Context, id uint64, patch dto.UpdateOrderDTO, completionDate *time.Time) error
	DeleteOrder(ctx context.Context, id uint64) error
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

// GetOrdersForRanking загружает весь набор кандидатов вместе со сменами:
// статус зависит от наличия смен, а сортировка идет по всему набору.
func (r *OrderRepository) GetOrdersForRanking(ctx context.Context, search string) ([]entities.Order, error) {
	builder := psql.Select(orderColumns...).From(orderTable + " o").OrderBy("o.id")
	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + s + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"o.name": pattern},
			sq.ILike{"o.customer_name": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса заказов: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заказов: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заказа в списке: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	worklogs, err := loadWorklogsByOrders(ctx, r.storage, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Worklogs = worklogs[orders[i].ID]
	}
	return orders, nil
}

// FindOrder находит заказ по ID вместе со сменами и ингредиентами.
func (r *OrderRepository) FindOrder(ctx context.Context, id uint64) (*entities.Order, error) {
	query, args, err := psql.Select(orderColumns...).From(orderTable + " o").Where(sq.Eq{"o.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса заказа: %w", err)
	}
	order, err := scanOrder(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения заказа: %w", err)
	}

	order.Worklogs, err = queryWorklogs(ctx, r.storage, worklogSelect().
		Where(sq.Eq{"w.order_id": id}).
		OrderBy("w.work_date", "w.start_time", "w.id"))
	if err != nil {
		return nil, err
	}
	order.Ingredients, err = queryIngredients(ctx, r.storage, id)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) OrderExists(ctx context.Context, id uint64) error {
	var exists bool
	if err := r.storage.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("ошибка проверки заказа: %w", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error) {
	query, args, err := psql.Insert(orderTable).
		Columns("name", "customer_name", "capsule_count", "notes", "completion_date").
		Values(order.Name, order.CustomerName, order.CapsuleCount, order.Notes, dateArg(order.CompletionDate)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки INSERT заказа: %w", err)
	}

	var newID uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		return nil, fmt.Errorf("ошибка создания заказа: %w", err)
	}
	r.logger.Debug("Заказ создан", zap.Uint64("orderID", newID))
	return r.FindOrder(ctx, newID)
}

// UpdateOrder обновляет только переданные поля. completionDate уже распарсена сервисом;
// nil при переданном completion_date снимает отметку о завершении.
func (r *OrderRepository) UpdateOrder(ctx context.Context, id uint64, patch dto.UpdateOrderDTO, completionDate *time.Time) error {
	builder := psql.Update(orderTable).Where(sq.Eq{"id": id})
	changed := false

	if patch.Sent("name") && patch.Name.Valid {
		builder = builder.Set("name", patch.Name.String)
		changed = true
	}
	if patch.Sent("customer_name") {
		builder = builder.Set("customer_name", patch.CustomerName.String)
		changed = true
	}
	if patch.Sent("capsule_count") && patch.CapsuleCount.Valid {
		builder = builder.Set("capsule_count", patch.CapsuleCount.Int)
		changed = true
	}
	if patch.Sent("notes") {
		builder = builder.Set("notes", patch.Notes.Ptr())
		changed = true
	}
	if patch.Sent("completion_date") {
		builder = builder.Set("completion_date", dateArg(completionDate))
		changed = true
	}

	if !changed {
		return r.OrderExists(ctx, id)
	}

	query, args, err := builder.Set("updated_at", sq.Expr("NOW()")).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки UPDATE заказа: %w", err)
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteOrder удаляет заказ; смены и ингредиенты удаляются каскадно.
func (r *OrderRepository) DeleteOrder(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func dateArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(production.DateLayout)
}
