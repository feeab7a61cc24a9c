package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"production-system/internal/production"
	"production-system/pkg/config"
	"production-system/pkg/service"
)

// SeedDemoOrders наполняет пустую базу демонстрационными заказами со сменами и ингредиентами.
func SeedDemoOrders(db *pgxpool.Pool, calc *production.Calculator) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения демонстрационных заказов...")

	if err := seedOrders(ctx, db, calc); err != nil {
		log.Fatalf("❌ Ошибка наполнения Заказов (Orders): %v", err)
	}
	log.Println("✅ Наполнение демонстрационных заказов завершено!")
}

// IssueOperatorToken выпускает токен доступа для оператора цеха.
func IssueOperatorToken(cfg *config.Config, subject string) {
	if cfg.JWT.SecretKey == "" {
		log.Fatalf("❌ JWT_SECRET_KEY не задан, токен выпустить нельзя")
	}
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	token, err := jwtSvc.GenerateToken(subject)
	if err != nil {
		log.Fatalf("❌ Ошибка выпуска токена: %v", err)
	}
	log.Printf("🔑 Токен для %q (действует %s):", subject, jwtSvc.GetAccessTokenTTL())
	log.Println(token)
}
