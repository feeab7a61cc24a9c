package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"production-system/internal/controllers"
	"production-system/internal/listeners"
	"production-system/internal/production"
	"production-system/internal/repositories"
	"production-system/internal/services"
	"production-system/pkg/config"
	"production-system/pkg/eventbus"
	"production-system/pkg/locking"
	"production-system/pkg/middleware"
	"production-system/pkg/service"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Order     *zap.Logger
	Worklog   *zap.Logger
	Dashboard *zap.Logger
}

// NewLoggers раздает именованные дочерние логгеры по модулям.
func NewLoggers(base *zap.Logger) *Loggers {
	return &Loggers{
		Main:      base,
		Auth:      base.Named("auth"),
		Order:     base.Named("order"),
		Worklog:   base.Named("worklog"),
		Dashboard: base.Named("dashboard"),
	}
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	locker locking.LockerInterface,
	bus *eventbus.Bus,
	calc *production.Calculator,
	jwtSvc service.JWTService,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. РЕПОЗИТОРИИ ---
	orderRepo := repositories.NewOrderRepository(dbConn, loggers.Order)
	worklogRepo := repositories.NewWorklogRepository(dbConn, loggers.Worklog)
	ingredientRepo := repositories.NewIngredientRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, loggers.Dashboard)

	// --- 2. СЕРВИСЫ ---
	orderService := services.NewOrderService(orderRepo, calc, bus, cfg.Pagination, loggers.Order)
	worklogService := services.NewWorklogService(worklogRepo, orderRepo, txManager, calc, bus, locker, loggers.Worklog)
	ingredientService := services.NewIngredientService(ingredientRepo, orderRepo, bus, loggers.Order)
	dashboardService := services.NewDashboardService(dashboardRepo, orderRepo, cacheRepo, calc, cfg.Dashboard, loggers.Dashboard)
	reportService := services.NewReportService(orderService, orderRepo, worklogRepo, calc, loggers.Main)

	listeners.NewDashboardCacheListener(cacheRepo, cfg.Dashboard.InvalidateDebounce, loggers.Dashboard).Register(bus)

	// --- 3. КОНТРОЛЛЕРЫ ---
	orderCtrl := controllers.NewOrderController(orderService, cfg.Pagination, loggers.Order)
	worklogCtrl := controllers.NewWorklogController(worklogService, loggers.Worklog)
	ingredientCtrl := controllers.NewIngredientController(ingredientService, loggers.Order)
	dashboardCtrl := controllers.NewDashboardController(dashboardService, loggers.Dashboard)
	reportCtrl := controllers.NewReportController(reportService, loggers.Main)

	// --- 4. РОУТЕРЫ ---
	var secureGroup *echo.Group
	if cfg.JWT.SecretKey != "" {
		authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
		secureGroup = api.Group("", authMW.Auth)
	} else {
		loggers.Main.Warn("JWT_SECRET_KEY не задан, API доступно без аутентификации")
		secureGroup = api.Group("")
	}

	runOrderRouter(secureGroup, orderCtrl)
	runWorklogRouter(secureGroup, worklogCtrl)
	runIngredientRouter(secureGroup, ingredientCtrl)
	runDashboardRouter(secureGroup, dashboardCtrl)
	runReportRouter(secureGroup, reportCtrl)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
