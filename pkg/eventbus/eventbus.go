package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event - любое доменное событие.
type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

// Bus - шина событий внутри процесса. Обработчики выполняются в отдельных горутинах,
// поэтому Publish не блокирует HTTP-запрос.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	logger    *zap.Logger
	timeout   time.Duration
	wg        sync.WaitGroup

	shutdownHooks []func(ctx context.Context) error
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
		timeout:   time.Minute,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish вызывает всех подписчиков события. Контекст запроса не передается:
// обработчик получает свой с таймаутом и переживает завершение запроса.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()

			if err := l(ctx, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", event.Name()),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait дожидается завершения запущенных обработчиков (при остановке сервера и в тестах).
func (b *Bus) Wait() {
	b.wg.Wait()
}

// OnShutdown регистрирует хук, который Shutdown вызовет после завершения обработчиков.
func (b *Bus) OnShutdown(hook func(ctx context.Context) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdownHooks = append(b.shutdownHooks, hook)
}

// Shutdown ждет обработчики и выполняет хуки подписчиков, например сброс отложенной работы.
func (b *Bus) Shutdown(ctx context.Context) {
	b.Wait()

	b.mu.RLock()
	hooks := append([]func(ctx context.Context) error(nil), b.shutdownHooks...)
	b.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			b.logger.Error("Ошибка в хуке остановки шины событий", zap.Error(err))
		}
	}
}
