package db

import (
	"context"
	"fmt"
	"time"

	postgres "gorm.io/driver/postgres"
	gorm "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	logger "github.com/atmolab/gascalc/pkg/middleware/logger"
)

type LogConf struct {
	Level string
}

type Config struct {
	Host    string
	Port    int
	User    string
	PW      string
	DBName  string
	LogConf LogConf
}

// Datastore wraps the gorm handle and the transaction plumbing. A transaction
// started by ExecTx travels through the context so repos called inside the
// closure transparently join it.
type Datastore struct {
	db *gorm.DB
}

type txKey struct{}

var store *Datastore

func InitPostgres(ctx context.Context, conf *Config) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		conf.Host, conf.Port, conf.User, conf.PW, conf.DBName)

	gormLevel := gormlogger.Warn
	if conf.LogConf.Level == "debug" {
		gormLevel = gormlogger.Info
	}

	ins, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLevel),
	})
	if err != nil {
		logger.Fatalf(ctx, "init postgres fail err: %+v", err)
	}

	sqlDB, err := ins.DB()
	if err != nil {
		logger.Fatalf(ctx, "get sql db fail err: %+v", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	store = &Datastore{db: ins}
}

func ClosePostgres(_ context.Context) {
	if store == nil {
		return
	}
	if sqlDB, err := store.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func DB() *Datastore {
	return store
}

// SetDB swaps the global datastore, test use only.
func SetDB(ins *gorm.DB) {
	store = &Datastore{db: ins}
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// DBWithContext returns the transaction bound to ctx if one is active,
// otherwise the root handle scoped to ctx.
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn inside a transaction. Nested calls join the outer one.
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
