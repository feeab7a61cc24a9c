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

	"production-system/internal/entities"
	apperrors "production-system/pkg/errors"
)

const ingredientTable = "order_ingredients"

var ingredientColumns = []string{"id", "order_id", "name", "quantity_mg", "notes", "created_at", "updated_at"}

type dbIngredient struct {
	ID         uint64
	OrderID    uint64
	Name       string
	QuantityMg float64
	Notes      sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (db *dbIngredient) toEntity() entities.Ingredient {
	ing := entities.Ingredient{
		ID:         db.ID,
		OrderID:    db.OrderID,
		Name:       db.Name,
		QuantityMg: db.QuantityMg,
	}
	if db.Notes.Valid {
		ing.Notes = &db.Notes.String
	}
	ing.CreatedAt = db.CreatedAt
	ing.UpdatedAt = db.UpdatedAt
	return ing
}

func scanIngredient(row pgx.Row) (entities.Ingredient, error) {
	var db dbIngredient
	if err := row.Scan(&db.ID, &db.OrderID, &db.Name, &db.QuantityMg, &db.Notes, &db.CreatedAt, &db.UpdatedAt); err != nil {
		return entities.Ingredient{}, err
	}
	return db.toEntity(), nil
}

func queryIngredients(ctx context.Context, q querier, orderID uint64) ([]entities.Ingredient, error) {
	query, args, err := psql.Select(ingredientColumns...).
		From(ingredientTable).
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса ингредиентов: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ингредиентов: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования ингредиента: %w", err)
		}
		list = append(list, ing)
	}
	return list, rows.Err()
}

type IngredientRepositoryInterface interface {
	ListByOrder(ctx context.Context, orderID uint64) ([]entities.Ingredient, error)
	FindIngredient(ctx context.Context, id uint64) (*entities.Ingredient, error)
	CreateIngredient(ctx context.Context, ing entities.Ingredient) (*entities.Ingredient, error)
	UpdateIngredient(ctx context.Context, ing entities.Ingredient) (*entities.Ingredient, error)
	DeleteIngredient(ctx context.Context, id uint64) error
}

type IngredientRepository struct {
	storage *pgxpool.Pool
}

func NewIngredientRepository(storage *pgxpool.Pool) IngredientRepositoryInterface {
	return &IngredientRepository{storage: storage}
}

func (r *IngredientRepository) ListByOrder(ctx context.Context, orderID uint64) ([]entities.Ingredient, error) {
	return queryIngredients(ctx, r.storage, orderID)
}

func (r *IngredientRepository) FindIngredient(ctx context.Context, id uint64) (*entities.Ingredient, error) {
	query, args, err := psql.Select(ingredientColumns...).From(ingredientTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса ингредиента: %w", err)
	}
	ing, err := scanIngredient(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения ингредиента: %w", err)
	}
	return &ing, nil
}

func (r *IngredientRepository) CreateIngredient(ctx context.Context, ing entities.Ingredient) (*entities.Ingredient, error) {
	query, args, err := psql.Insert(ingredientTable).
		Columns("order_id", "name", "quantity_mg", "notes").
		Values(ing.OrderID, ing.Name, ing.QuantityMg, ing.Notes).
		Suffix("RETURNING " + joinColumns(ingredientColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки INSERT ингредиента: %w", err)
	}
	created, err := scanIngredient(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания ингредиента: %w", err)
	}
	return &created, nil
}

func (r *IngredientRepository) UpdateIngredient(ctx context.Context, ing entities.Ingredient) (*entities.Ingredient, error) {
	query, args, err := psql.Update(ingredientTable).
		Set("name", ing.Name).
		Set("quantity_mg", ing.QuantityMg).
		Set("notes", ing.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": ing.ID}).
		Suffix("RETURNING " + joinColumns(ingredientColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки UPDATE ингредиента: %w", err)
	}
	updated, err := scanIngredient(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления ингредиента: %w", err)
	}
	return &updated, nil
}

func (r *IngredientRepository) DeleteIngredient(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM order_ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления ингредиента: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
