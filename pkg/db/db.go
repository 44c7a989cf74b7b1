package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"newshub/internal/conf"
	zLog "newshub/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	gormConn  = make(map[string]*gorm.DB)
	gormMutex sync.RWMutex
)

// GetConn returns the shared gorm connection for the configured driver,
// opening it on first use. The connection is keyed by database name so a
// second database can be attached without touching callers.
func GetConn(cfg *conf.DatabaseConfig) (*gorm.DB, error) {
	gormMutex.RLock()
	conn, ok := gormConn[cfg.DbName]
	gormMutex.RUnlock()
	if ok {
		return conn, nil
	}

	gormMutex.Lock()
	defer gormMutex.Unlock()
	if conn, ok = gormConn[cfg.DbName]; ok {
		return conn, nil
	}

	dialector, err := buildDialector(cfg)
	if err != nil {
		return nil, err
	}

	dbConn, err := gorm.Open(dialector, &gorm.Config{
		Logger: &ZapGormLogger{
			Logger: zLog.Logger,
			Config: gormLogger.Config{
				LogLevel:                  mapLogLevel(cfg.LogLevel),
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             500 * time.Millisecond,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	pool, poolErr := dbConn.DB()
	if poolErr != nil {
		zLog.Error(poolErr.Error())
	} else {
		pool.SetMaxOpenConns(30)
		pool.SetMaxIdleConns(15)
	}

	gormConn[cfg.DbName] = dbConn
	return dbConn, nil
}

func buildDialector(cfg *conf.DatabaseConfig) (gorm.Dialector, error) {
	port := strconv.Itoa(cfg.Port)
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.DbName, port)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := cfg.User + ":" + cfg.Password + "@tcp(" + cfg.Host + ":" + port + ")/" + cfg.DbName +
			"?charset=utf8mb4&parseTime=True&loc=Local"
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func mapLogLevel(envLogLevel string) gormLogger.LogLevel {
	switch envLogLevel {
	case "debug", "info":
		return gormLogger.Info
	case "warning":
		return gormLogger.Warn
	default:
		return gormLogger.Error
	}
}

// ZapGormLogger routes gorm logs through the shared zap logger.
type ZapGormLogger struct {
	Logger *zap.Logger
	Config gormLogger.Config
}

func (l *ZapGormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	newlogger := *l
	newlogger.Config.LogLevel = level
	return &newlogger
}

func (l *ZapGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.Logger.Info(fmt.Sprintf(msg, data...),
		zap.String("source", utils.FileWithLineNum()),
		zap.String("agg_type", "gorm"),
	)
}

func (l *ZapGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.Logger.Warn(fmt.Sprintf(msg, data...),
		zap.String("source", utils.FileWithLineNum()),
		zap.String("agg_type", "gorm"),
	)
}

func (l *ZapGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.Logger.Error(fmt.Sprintf(msg, data...),
		zap.String("source", utils.FileWithLineNum()),
		zap.String("agg_type", "gorm"),
	)
}

func (l *ZapGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.Config.LogLevel >= gormLogger.Error && (!errors.Is(err, gormLogger.ErrRecordNotFound) || !l.Config.IgnoreRecordNotFoundError):
		sql, rows := fc()
		l.Logger.Error(err.Error(),
			zap.String("source", utils.FileWithLineNum()),
			zap.Float64("query_time", float64(elapsed.Nanoseconds())/1e6),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
			zap.String("agg_type", "gorm"),
		)

	case elapsed > l.Config.SlowThreshold && l.Config.SlowThreshold != 0 && l.Config.LogLevel >= gormLogger.Warn:
		sql, rows := fc()
		slowLog := fmt.Sprintf("SLOW SQL >= %v", l.Config.SlowThreshold)
		l.Logger.Warn(slowLog,
			zap.String("source", utils.FileWithLineNum()),
			zap.Float64("query_time", float64(elapsed.Nanoseconds())/1e6),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
			zap.String("agg_type", "gorm"),
		)

	case l.Config.LogLevel == gormLogger.Info:
		sql, rows := fc()
		l.Logger.Debug("sql log",
			zap.String("source", utils.FileWithLineNum()),
			zap.Float64("query_time", float64(elapsed.Nanoseconds())/1e6),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
			zap.String("agg_type", "gorm"),
		)
	}
}
