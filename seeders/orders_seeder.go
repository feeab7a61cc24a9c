package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"production-system/internal/production"
)

func seedOrders(ctx context.Context, db *pgxpool.Pool, calc *production.Calculator) error {
	log.Println("  - Наполнение таблиц 'orders', 'order_ingredients', 'order_worklogs'...")

	var existing int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		log.Printf("    - В таблице уже %d заказов, пропуск", existing)
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, o := range demoOrdersData {
		if err := seedOrder(ctx, tx, calc, o); err != nil {
			log.Printf("Ошибка при вставке заказа '%s': %v", o.Name, err)
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedOrder(ctx context.Context, tx pgx.Tx, calc *production.Calculator, o orderSeed) error {
	var completion interface{}
	if o.CompletionDate != "" {
		completion = o.CompletionDate
	}

	var orderID uint64
	err := tx.QueryRow(ctx,
		`INSERT INTO orders (name, customer_name, capsule_count, completion_date) VALUES ($1, $2, $3, $4) RETURNING id`,
		o.Name, o.CustomerName, o.CapsuleCount, completion,
	).Scan(&orderID)
	if err != nil {
		return err
	}

	for _, ing := range o.Ingredients {
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_ingredients (order_id, name, quantity_mg) VALUES ($1, $2, $3)`,
			orderID, ing.Name, ing.QuantityMg,
		); err != nil {
			return err
		}
	}

	for _, sh := range o.Shifts {
		entry, err := calc.ParseShiftEntry(sh.WorkDate, sh.StartTime, sh.EndTime, sh.Headcount)
		if err != nil {
			return fmt.Errorf("смена %s %s-%s: %w", sh.WorkDate, sh.StartTime, sh.EndTime, err)
		}
		res := calc.Calculate(entry)
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_worklogs (order_id, work_date, start_time, end_time, headcount, effective_minutes, work_units)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			orderID, sh.WorkDate, sh.StartTime, sh.EndTime, sh.Headcount, res.EffectiveMinutes, res.WorkUnits,
		); err != nil {
			return err
		}
	}
	return nil
}
