package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"production-system/internal/production"
	"production-system/internal/repositories"
	"production-system/internal/routes"
	"production-system/pkg/config"
	"production-system/pkg/database/postgresql"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/eventbus"
	"production-system/pkg/locking"
	applogger "production-system/pkg/logger"
	appmiddleware "production-system/pkg/middleware"
	"production-system/pkg/service"
	"production-system/pkg/utils"
	"production-system/pkg/validation"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	e := echo.New()
	e.HideBanner = true

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(appmiddleware.InjectLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition, appmiddleware.RequestIDHeader},
	}))

	e.Validator = validation.New()

	// 3. Расчет рабочих единиц: часовой пояс и обед из конфига
	calc, err := newCalculator(cfg.Business)
	if err != nil {
		logger.Fatal("Некорректные параметры учета времени", zap.Error(err))
	}

	// 4. База данных и миграции
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()
	if cfg.Postgres.AutoMigrate {
		if err := postgresql.Migrate(dbConn); err != nil {
			logger.Fatal("Ошибка применения миграций", zap.Error(err))
		}
	}

	// 5. Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	locker := locking.NewLockerRedis(redisClient)

	// 6. Шина событий и JWT
	bus := eventbus.New(logger.Named("eventbus"))
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)

	// 7. Роуты
	routes.InitRouter(e, dbConn, cacheRepo, locker, bus, calc, jwtSvc, routes.NewLoggers(logger), cfg)

	// 8. Запуск и корректная остановка
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Сервер запущен", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Остановка сервера...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Ошибка при остановке сервера", zap.Error(err))
	}
	bus.Shutdown(ctx)
	logger.Info("Сервер остановлен")
}

func newCalculator(cfg config.BusinessConfig) (*production.Calculator, error) {
	calcCfg, err := production.ParseCalculatorConfig(cfg.Timezone, cfg.LunchStart, cfg.LunchEnd)
	if err != nil {
		return nil, err
	}
	return production.NewCalculator(calcCfg)
}
