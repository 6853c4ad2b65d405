package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicatePhone = errors.New("phone number already registered")
	ErrInvalidRole    = errors.New("invalid role")
)

// Open connects to the configured database and migrates the schema.
func Open(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var (
		conn *gorm.DB
		err  error
	)
	switch strings.ToLower(driver) {
	case DriverPostgres:
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			log.Info("connected to postgres")
		}
	case DriverSQLite, "":
		conn, err = gorm.Open(sqlite.Open(dsn), cfg)
		if err == nil {
			log.Info("connected to local sqlite", zap.String("dsn", dsn))
			// sqlite serializes writers; a single connection avoids SQLITE_BUSY
			// between concurrent transactions.
			if sqlDB, derr := conn.DB(); derr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	log.Info("database setup complete")
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Gateway is the persistence boundary of the bot.
type Gateway struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewGateway(conn *gorm.DB, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{db: conn, log: log}
}

// DB exposes the connection for maintenance commands.
func (g *Gateway) DB() *gorm.DB {
	return g.db
}

// transaction runs fn with a Gateway bound to a single transaction.
func (g *Gateway) transaction(ctx context.Context, fn func(tx *Gateway) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gateway{db: tx, log: g.log})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
