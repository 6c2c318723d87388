package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hr_records/models"
	"hr_records/utils"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector picks the gorm driver for a connection string.
func Dialector(url string) (gorm.Dialector, string, error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return nil, "", fmt.Errorf("empty database url")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), "postgres", nil
	case strings.HasPrefix(url, "mysql://"):
		dsn := strings.TrimPrefix(url, "mysql://")
		if !strings.Contains(dsn, "parseTime") {
			dsn += separator(dsn) + "parseTime=true"
		}
		return mysql.Open(dsn), "mysql", nil
	default:
		return sqlite.Open(sqliteDSN(url)), "sqlite", nil
	}
}

// sqliteDSN turns "sqlite://hr.db" or "hr.db" into a DSN with foreign keys
// enforced and a busy timeout.
func sqliteDSN(url string) string {
	path := strings.TrimPrefix(url, "sqlite://")
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if !strings.Contains(path, "_foreign_keys") {
		path += separator(path) + "_foreign_keys=on"
	}
	if !strings.Contains(path, "_busy_timeout") {
		path += "&_busy_timeout=5000"
	}
	return path
}

func separator(dsn string) string {
	if strings.Contains(dsn, "?") {
		return "&"
	}
	return "?"
}

// Open connects to the store described by url.
func Open(url string, logger *zap.Logger) (*gorm.DB, error) {
	dialector, dialect, err := Dialector(url)
	if err != nil {
		return nil, err
	}

	gormLogger := gormlogger.New(
		utils.GormWriter{Sugar: logger.Sugar()},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if dialect == "sqlite" {
		// One connection: writers queue on the pool instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Database connected", zap.String("dialect", dialect))
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn in a single transaction bound to ctx.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
