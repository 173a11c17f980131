package postgres

import (
	"log"

	"github.com/LavaJover/shvark-redsys-service/internal/config"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MustInitDB opens the order database and applies the SQL migrations.
func MustInitDB(cfg *config.RedsysServiceConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.OrderDB.Dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if err := migrate.RunMigrations(db, cfg.OrderDB.MigrationsPath); err != nil {
		log.Fatalf("failed to migrate db: %v\n", err.Error())
	}

	return db
}
