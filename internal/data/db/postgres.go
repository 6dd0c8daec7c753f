package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mzflora/plantario-backend/internal/platform/envutil"
	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

// Connect opens the catalog database. DB_DRIVER selects the backend:
// "postgres" (default) builds a DSN from the DATABASE_* variables,
// "sqlite" opens SQLITE_PATH (":memory:" works for local runs).
func Connect(log *logger.Logger) (*gorm.DB, error) {
	driver := envutil.GetEnv("DB_DRIVER", "postgres", log)

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(log)),
	}

	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := envutil.GetEnv("SQLITE_PATH", "plantario.db", log)
		gdb, err = gorm.Open(sqlite.Open(path), gormCfg)
	case "postgres":
		gdb, err = gorm.Open(postgres.Open(postgresDSN(log)), gormCfg)
	default:
		return nil, fmt.Errorf("db: unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("db: open (%s): %w", driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("db: raw handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(envutil.GetEnvAsInt("DB_MAX_OPEN_CONNS", 25, log))
	sqlDB.SetMaxIdleConns(envutil.GetEnvAsInt("DB_MAX_IDLE_CONNS", 10, log))
	sqlDB.SetConnMaxLifetime(time.Duration(envutil.GetEnvAsInt("DB_CONN_MAX_LIFETIME_MIN", 30, log)) * time.Minute)

	log.Info("database connected", "driver", driver)
	return gdb, nil
}

func postgresDSN(log *logger.Logger) string {
	host := envutil.GetEnv("DATABASE_HOST", "localhost", log)
	port := envutil.GetEnv("DATABASE_PORT", "5432", log)
	user := envutil.GetEnv("DATABASE_USER", "plantario", log)
	pass := envutil.GetEnv("DATABASE_PASSWORD", "", log)
	name := envutil.GetEnv("DATABASE_NAME", "plantario", log)
	ssl := envutil.GetEnv("DATABASE_SSLMODE", "disable", log)
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl)
}

func gormLogLevel(log *logger.Logger) gormlogger.LogLevel {
	if envutil.GetEnvAsBool("DB_LOG_QUERIES", false, log) {
		return gormlogger.Info
	}
	return gormlogger.Warn
}
