package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/production"
	"production-system/pkg/database/postgresql"
	apperrors "production-system/pkg/errors"
)

// RepositorySuite работает с настоящей БД: TEST_DATABASE_URL=postgres://.../production-system-test
type RepositorySuite struct {
	suite.Suite
	pool        *pgxpool.Pool
	orders      OrderRepositoryInterface
	worklogs    WorklogRepositoryInterface
	ingredients IngredientRepositoryInterface
	dashboard   DashboardRepositoryInterface
	tx          TxManagerInterface
	calc        *production.Calculator
}

func TestRepositorySuite(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан, интеграционные тесты пропущены")
	}
	suite.Run(t, &RepositorySuite{})
}

func (s *RepositorySuite) SetupSuite() {
	pool, err := pgxpool.New(context.Background(), os.Getenv("TEST_DATABASE_URL"))
	s.Require().NoError(err)
	s.Require().NoError(postgresql.Migrate(pool))

	logger := zap.NewNop()
	s.pool = pool
	s.orders = NewOrderRepository(pool, logger)
	s.worklogs = NewWorklogRepository(pool, logger)
	s.ingredients = NewIngredientRepository(pool)
	s.dashboard = NewDashboardRepository(pool, logger)
	s.tx = NewTxManager(pool)
	s.calc = production.NewDefaultCalculator()
}

func (s *RepositorySuite) TearDownSuite() {
	s.pool.Close()
}

func (s *RepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE TABLE order_worklogs, order_ingredients, orders RESTART IDENTITY CASCADE`)
	s.Require().NoError(err, "Не удалось очистить таблицы")
}

func (s *RepositorySuite) createOrder(name string) *entities.Order {
	o, err := s.orders.CreateOrder(context.Background(), entities.Order{Name: name, CustomerName: "Клиент", CapsuleCount: 1000})
	s.Require().NoError(err)
	return o
}

func (s *RepositorySuite) addShift(orderID uint64, date, start, end string, headcount int) *entities.Worklog {
	entry, err := s.calc.ParseShiftEntry(date, start, end, headcount)
	s.Require().NoError(err)
	res := s.calc.Calculate(entry)
	w, err := s.worklogs.CreateWorklog(context.Background(), entities.Worklog{
		OrderID:          orderID,
		WorkDate:         entry.WorkDate,
		StartTime:        start,
		EndTime:          end,
		Headcount:        headcount,
		EffectiveMinutes: res.EffectiveMinutes,
		WorkUnits:        res.WorkUnits,
	})
	s.Require().NoError(err)
	return w
}

func (s *RepositorySuite) TestOrderLifecycle() {
	ctx := context.Background()
	o := s.createOrder("Омега-3")
	s.NotZero(o.ID)
	s.Nil(o.CompletionDate)
	s.False(o.CreatedAt.IsZero())

	completed := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	patch := dto.UpdateOrderDTO{
		Notes:          null.StringFrom("срочно"),
		CompletionDate: null.StringFrom("2025-01-10"),
		SentFields:     map[string]bool{"notes": true, "completion_date": true},
	}
	s.Require().NoError(s.orders.UpdateOrder(ctx, o.ID, patch, &completed))

	found, err := s.orders.FindOrder(ctx, o.ID)
	s.Require().NoError(err)
	s.Equal("Омега-3", found.Name)
	s.Require().NotNil(found.Notes)
	s.Equal("срочно", *found.Notes)
	s.Require().NotNil(found.CompletionDate)
	s.Equal("2025-01-10", found.CompletionDate.Format(production.DateLayout))

	reset := dto.UpdateOrderDTO{SentFields: map[string]bool{"completion_date": true}}
	s.Require().NoError(s.orders.UpdateOrder(ctx, o.ID, reset, nil))
	found, err = s.orders.FindOrder(ctx, o.ID)
	s.Require().NoError(err)
	s.Nil(found.CompletionDate)

	s.Require().NoError(s.orders.DeleteOrder(ctx, o.ID))
	_, err = s.orders.FindOrder(ctx, o.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.ErrorIs(s.orders.DeleteOrder(ctx, o.ID), apperrors.ErrNotFound)
	s.ErrorIs(s.orders.UpdateOrder(ctx, o.ID, dto.UpdateOrderDTO{}, nil), apperrors.ErrNotFound)
}

func (s *RepositorySuite) TestRankingCandidatesCarryWorklogs() {
	ctx := context.Background()
	a := s.createOrder("Витамин C")
	s.createOrder("Магний")
	s.addShift(a.ID, "2025-01-10", "09:00", "17:00", 2)
	s.addShift(a.ID, "2025-01-11", "13:00", "14:00", 1)

	orders, err := s.orders.GetOrdersForRanking(ctx, "")
	s.Require().NoError(err)
	s.Require().Len(orders, 2)
	s.Len(orders[0].Worklogs, 2)
	s.Empty(orders[1].Worklogs)
	s.Equal(production.StatusInProgress, orders[0].Status())
	s.Equal(production.StatusNotStarted, orders[1].Status())
	s.InDelta(14.5, orders[0].TotalWorkUnits(), 0.001)

	filtered, err := s.orders.GetOrdersForRanking(ctx, "Витамин")
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(a.ID, filtered[0].ID)
}

func (s *RepositorySuite) TestWorklogTimesRoundTrip() {
	ctx := context.Background()
	o := s.createOrder("Q10")
	w := s.addShift(o.ID, "2025-01-10", "09:00", "12:45", 3)

	s.Equal("09:00", w.StartTime)
	s.Equal("12:45", w.EndTime)
	s.Equal(225, w.EffectiveMinutes)
	s.InDelta(12.0, w.WorkUnits, 0.001)
	s.Equal("2025-01-10", w.WorkDate.Format(production.DateLayout))

	err := s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		locked, err := s.worklogs.ListByOrderForUpdateInTx(ctx, tx, o.ID)
		if err != nil {
			return err
		}
		s.Require().Len(locked, 1)

		applied, err := s.worklogs.UpdateComputedInTx(ctx, tx, locked[0], production.WorkUnitResult{EffectiveMinutes: 1, WorkUnits: 0.5})
		s.True(applied)
		if err != nil {
			return err
		}

		moved := locked[0]
		moved.EndTime = "13:00"
		applied, err = s.worklogs.UpdateComputedInTx(ctx, tx, moved, production.WorkUnitResult{EffectiveMinutes: 2, WorkUnits: 1})
		s.False(applied)
		return err
	})
	s.Require().NoError(err)
	reloaded, err := s.worklogs.FindWorklog(ctx, w.ID)
	s.Require().NoError(err)
	s.Equal(1, reloaded.EffectiveMinutes)

	rows, err := s.worklogs.ListForExport(ctx, &o.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("Q10", rows[0].OrderName)

	s.Require().NoError(s.worklogs.DeleteWorklog(ctx, w.ID))
	s.ErrorIs(s.worklogs.DeleteWorklog(ctx, w.ID), apperrors.ErrNotFound)
}

func (s *RepositorySuite) TestIngredientsCascade() {
	ctx := context.Background()
	o := s.createOrder("Цинк")
	ing, err := s.ingredients.CreateIngredient(ctx, entities.Ingredient{OrderID: o.ID, Name: "Цинка пиколинат", QuantityMg: 25})
	s.Require().NoError(err)
	s.InDelta(25.0, ing.QuantityMg, 0.0001)

	list, err := s.ingredients.ListByOrder(ctx, o.ID)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.orders.DeleteOrder(ctx, o.ID))
	_, err = s.ingredients.FindIngredient(ctx, ing.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RepositorySuite) TestDashboardSums() {
	ctx := context.Background()
	o := s.createOrder("D3")
	s.addShift(o.ID, "2025-01-10", "09:00", "17:00", 1)
	s.addShift(o.ID, "2025-01-31", "09:00", "10:00", 2)
	s.addShift(o.ID, "2025-02-01", "09:00", "10:00", 1)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	total, err := s.dashboard.SumWorkUnits(ctx, from, to)
	s.Require().NoError(err)
	s.InDelta(9.0, total, 0.001)

	daily, err := s.dashboard.GetDailyWorkUnits(ctx, from, to)
	s.Require().NoError(err)
	s.Require().Len(daily, 2)
	s.InDelta(7.0, daily[0].WorkUnits, 0.001)
	s.Equal(1, daily[1].Worklogs)
}
