package database

import (
	"strings"
	"time"

	"kambafy/internal/domain"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// Connect opens Postgres for postgres:// DSNs and the cgo-free SQLite driver otherwise.
func Connect(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info().Msg("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info().Str("dsn", dsn).Msg("using SQLite for local development")

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// Models lists every table owned by the service in dependency order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Product{},
		&domain.MemberArea{},
		&domain.Module{},
		&domain.Lesson{},
		&domain.MemberAreaStudent{},
		&domain.LessonProgress{},
		&domain.LessonComment{},
		&domain.Order{},
		&domain.CheckoutSession{},
		&domain.WithdrawalRequest{},
		&domain.AdminActionLog{},
		&domain.MemberSession{},
		&domain.Quiz{},
		&domain.QuizQuestion{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
