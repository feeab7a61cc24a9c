package listeners

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"production-system/internal/events"
	"production-system/internal/repositories"
	"production-system/internal/services"
	"production-system/pkg/eventbus"
)

// DashboardCacheListener сбрасывает кеш дашборда при изменении заказов и смен.
// Серия изменений в пределах debounce схлопывается в один сброс.
type DashboardCacheListener struct {
	cache    repositories.CacheRepositoryInterface
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending int

	// запланированные и выполняющиеся отложенные сбросы
	inflight sync.WaitGroup
}

func NewDashboardCacheListener(cache repositories.CacheRepositoryInterface, debounce time.Duration, logger *zap.Logger) *DashboardCacheListener {
	return &DashboardCacheListener{cache: cache, logger: logger, debounce: debounce}
}

func (l *DashboardCacheListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderChangedName, l.Handle)
	bus.Subscribe(events.WorklogChangedName, l.Handle)
	bus.OnShutdown(l.Flush)
}

func (l *DashboardCacheListener) Handle(ctx context.Context, event eventbus.Event) error {
	switch e := event.(type) {
	case events.OrderChangedEvent:
		l.logger.Debug("Изменение заказа", zap.Uint64("orderID", e.OrderID), zap.String("action", string(e.Action)), zap.String("eventID", e.EventID))
	case events.WorklogChangedEvent:
		l.logger.Debug("Изменение смены", zap.Uint64("orderID", e.OrderID), zap.Uint64("worklogID", e.WorklogID), zap.String("action", string(e.Action)), zap.String("eventID", e.EventID))
	}

	if l.debounce <= 0 {
		return l.invalidate(ctx)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending++
	if l.timer != nil && l.timer.Stop() {
		l.inflight.Done()
	}
	l.inflight.Add(1)
	l.timer = time.AfterFunc(l.debounce, func() {
		defer l.inflight.Done()
		l.mu.Lock()
		grouped := l.pending
		l.pending = 0
		l.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := l.invalidate(ctx); err != nil {
			l.logger.Error("Не удалось сбросить кеш дашборда", zap.Int("events", grouped), zap.Error(err))
		}
	})
	return nil
}

// Flush выполняет отложенный сброс сразу, не дожидаясь debounce, и ждет уже запущенный.
func (l *DashboardCacheListener) Flush(ctx context.Context) error {
	l.mu.Lock()
	grouped := 0
	if l.timer != nil && l.timer.Stop() {
		l.inflight.Done()
		grouped = l.pending
		l.pending = 0
	}
	l.timer = nil
	l.mu.Unlock()

	var err error
	if grouped > 0 {
		l.logger.Info("Отложенный сброс кеша дашборда при остановке", zap.Int("events", grouped))
		err = l.invalidate(ctx)
	}
	l.inflight.Wait()
	return err
}

func (l *DashboardCacheListener) invalidate(ctx context.Context) error {
	version, err := l.cache.Incr(ctx, services.DashboardVersionKey)
	if err != nil {
		return err
	}
	l.logger.Debug("Кеш дашборда сброшен", zap.Int64("version", version))
	return nil
}
