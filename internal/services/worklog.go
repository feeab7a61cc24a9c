package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/events"
	"production-system/internal/production"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/locking"
)

const recalculateLockTTL = time.Minute

type WorklogServiceInterface interface {
	ListByOrder(ctx context.Context, orderID uint64) (*dto.WorklogListDTO, error)
	CreateWorklog(ctx context.Context, orderID uint64, data dto.CreateWorklogDTO) (*dto.WorklogDTO, error)
	UpdateWorklog(ctx context.Context, id uint64, data dto.UpdateWorklogDTO) (*dto.WorklogDTO, error)
	DeleteWorklog(ctx context.Context, id uint64) error
	Recalculate(ctx context.Context, orderID uint64) (*dto.RecalculateResultDTO, error)
}

type WorklogService struct {
	worklogRepo repositories.WorklogRepositoryInterface
	orderRepo   repositories.OrderRepositoryInterface
	txManager   repositories.TxManagerInterface
	calc        *production.Calculator
	publisher   EventPublisher
	locker      locking.LockerInterface
	logger      *zap.Logger
}

func NewWorklogService(
	worklogRepo repositories.WorklogRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	txManager repositories.TxManagerInterface,
	calc *production.Calculator,
	publisher EventPublisher,
	locker locking.LockerInterface,
	logger *zap.Logger,
) WorklogServiceInterface {
	return &WorklogService{
		worklogRepo: worklogRepo,
		orderRepo:   orderRepo,
		txManager:   txManager,
		calc:        calc,
		publisher:   publisher,
		locker:      locker,
		logger:      logger,
	}
}

func (s *WorklogService) ListByOrder(ctx context.Context, orderID uint64) (*dto.WorklogListDTO, error) {
	if err := s.orderRepo.OrderExists(ctx, orderID); err != nil {
		return nil, err
	}
	worklogs, err := s.worklogRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	list := make([]dto.WorklogDTO, len(worklogs))
	results := make([]production.WorkUnitResult, len(worklogs))
	for i, w := range worklogs {
		list[i] = worklogToDTO(w, s.calc.Location())
		results[i] = w.Result()
	}
	return &dto.WorklogListDTO{List: list, TotalWorkUnits: production.TotalWorkUnits(results)}, nil
}

// buildWorklog проверяет поля смены и считает единицы; время сохраняется в нормализованном виде.
func (s *WorklogService) buildWorklog(data dto.CreateWorklogDTO) (entities.Worklog, error) {
	entry, err := s.calc.ParseShiftEntry(data.WorkDate, data.StartTime, data.EndTime, data.Headcount)
	if err != nil {
		return entities.Worklog{}, err
	}
	result := s.calc.Calculate(entry)

	w := entities.Worklog{
		WorkDate:         entry.WorkDate,
		StartTime:        entry.StartTime.String(),
		EndTime:          entry.EndTime.String(),
		Headcount:        entry.Headcount,
		EffectiveMinutes: result.EffectiveMinutes,
		WorkUnits:        result.WorkUnits,
	}
	if data.Notes.Valid && strings.TrimSpace(data.Notes.String) != "" {
		notes := strings.TrimSpace(data.Notes.String)
		w.Notes = &notes
	}
	return w, nil
}

func (s *WorklogService) CreateWorklog(ctx context.Context, orderID uint64, data dto.CreateWorklogDTO) (*dto.WorklogDTO, error) {
	if err := s.orderRepo.OrderExists(ctx, orderID); err != nil {
		return nil, err
	}
	w, err := s.buildWorklog(data)
	if err != nil {
		return nil, err
	}
	w.OrderID = orderID

	created, err := s.worklogRepo.CreateWorklog(ctx, w)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Добавлена смена",
		zap.Uint64("orderID", orderID),
		zap.Uint64("worklogID", created.ID),
		zap.Int("effectiveMinutes", created.EffectiveMinutes),
		zap.Float64("workUnits", created.WorkUnits),
	)
	s.publisher.Publish(ctx, events.NewWorklogChanged(orderID, created.ID, events.ActionCreated))

	d := worklogToDTO(*created, s.calc.Location())
	return &d, nil
}

func (s *WorklogService) UpdateWorklog(ctx context.Context, id uint64, data dto.UpdateWorklogDTO) (*dto.WorklogDTO, error) {
	existing, err := s.worklogRepo.FindWorklog(ctx, id)
	if err != nil {
		return nil, err
	}
	w, err := s.buildWorklog(data)
	if err != nil {
		return nil, err
	}
	w.ID = existing.ID
	w.OrderID = existing.OrderID

	updated, err := s.worklogRepo.UpdateWorklog(ctx, w)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.NewWorklogChanged(updated.OrderID, updated.ID, events.ActionUpdated))

	d := worklogToDTO(*updated, s.calc.Location())
	return &d, nil
}

func (s *WorklogService) DeleteWorklog(ctx context.Context, id uint64) error {
	existing, err := s.worklogRepo.FindWorklog(ctx, id)
	if err != nil {
		return err
	}
	if err := s.worklogRepo.DeleteWorklog(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(ctx, events.NewWorklogChanged(existing.OrderID, id, events.ActionDeleted))
	return nil
}

// Recalculate пересчитывает сохраненные значения смен заказа текущими правилами
// (например, после смены обеденного окна) одной транзакцией.
// Параллельный пересчет того же заказа получает ErrConflict.
func (s *WorklogService) Recalculate(ctx context.Context, orderID uint64) (*dto.RecalculateResultDTO, error) {
	if err := s.orderRepo.OrderExists(ctx, orderID); err != nil {
		return nil, err
	}

	lock, err := s.locker.Acquire(ctx, fmt.Sprintf("lock:recalculate:order:%d", orderID), recalculateLockTTL)
	if errors.Is(err, locking.ErrLockBusy) {
		return nil, fmt.Errorf("%w: пересчет смен заказа %d", apperrors.ErrConflict, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось захватить блокировку пересчета: %w", err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Не удалось снять блокировку пересчета", zap.String("key", lock.Key()), zap.Error(err))
		}
	}()

	result := &dto.RecalculateResultDTO{}
	var results []production.WorkUnitResult

	// строки читаются под FOR UPDATE: правка смены ждет конца пересчета
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		worklogs, err := s.worklogRepo.ListByOrderForUpdateInTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		result.Checked = len(worklogs)
		results = make([]production.WorkUnitResult, 0, len(worklogs))

		for _, w := range worklogs {
			entry, err := w.ShiftEntry()
			if err != nil {
				return err
			}
			fresh := s.calc.Calculate(entry)
			if fresh == w.Result() {
				results = append(results, fresh)
				continue
			}
			applied, err := s.worklogRepo.UpdateComputedInTx(ctx, tx, w, fresh)
			if err != nil {
				return err
			}
			if !applied {
				result.Skipped++
				s.logger.Warn("Смена изменена во время пересчета, запись пропущена", zap.Uint64("worklogID", w.ID))
				continue
			}
			results = append(results, fresh)
			result.Corrected++
			s.logger.Info("Смена пересчитана",
				zap.Uint64("worklogID", w.ID),
				zap.Float64("old", w.WorkUnits),
				zap.Float64("new", fresh.WorkUnits),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Skipped > 0 {
		// пропущенные смены уже сохранены со своими значениями, итог берем из базы
		stored, err := s.worklogRepo.ListByOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		results = results[:0]
		for _, w := range stored {
			results = append(results, w.Result())
		}
	}
	result.TotalWorkUnits = production.TotalWorkUnits(results)
	if result.Corrected > 0 {
		s.publisher.Publish(ctx, events.NewWorklogChanged(orderID, 0, events.ActionRecalculated))
	}
	return result, nil
}
