package main

import (
	"flag"
	"log"

	"production-system/internal/production"
	"production-system/pkg/config"
	"production-system/pkg/database/postgresql"
	"production-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	// --- Определяем флаги ---
	runMigrate := flag.Bool("migrate", false, "Применить миграции")
	runDemo := flag.Bool("demo", false, "Наполнить базу демонстрационными заказами")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -migrate -demo)")
	tokenFor := flag.String("token", "", "Выпустить JWT для указанного оператора")

	flag.Parse()

	// Если ни один флаг не указан - показываем справку
	if !*runMigrate && !*runDemo && !*runAll && *tokenFor == "" {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("  go run ./seeders/cmd/seed -token operator")
		log.Println("======================================================")
		return
	}

	cfg := config.New()

	if *tokenFor != "" {
		seeders.IssueOperatorToken(cfg, *tokenFor)
		if !*runMigrate && !*runDemo && !*runAll {
			return
		}
	}

	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	log.Println("======================================================")

	if *runAll || *runMigrate {
		if err := postgresql.Migrate(dbPool); err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Println("✅ Миграции применены")
		log.Println("======================================================")
	}

	if *runAll || *runDemo {
		calcCfg, err := production.ParseCalculatorConfig(cfg.Business.Timezone, cfg.Business.LunchStart, cfg.Business.LunchEnd)
		if err != nil {
			log.Fatalf("❌ Некорректные параметры учета времени: %v", err)
		}
		calc, err := production.NewCalculator(calcCfg)
		if err != nil {
			log.Fatalf("❌ Некорректные параметры учета времени: %v", err)
		}
		seeders.SeedDemoOrders(dbPool, calc)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
