package mysql

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/catalog/internal/domain/user"
	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/pkg/logger"
)

// NewDB opens the MySQL pool.
// Notes:
//  1. TranslateError maps driver codes 1062/1451/1452 to gorm.ErrDuplicatedKey
//     and gorm.ErrForeignKeyViolated, see isDuplicateError/isForeignKeyError
//  2. SQL is logged through zap: everything in debug mode, slow queries and
//     errors otherwise
//  3. AutoMigrate and role seeding run when database.auto_migrate is set
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(mysql.Open(cfg.Database.DSN()), cfg.Server.Mode, cfg.Database.SlowThreshold)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.L().Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		if err := SeedRoles(context.Background(), db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Open opens any gorm dialector with the service settings. Tests pass SQLite.
func Open(dialector gorm.Dialector, mode string, slowThreshold time.Duration) (*gorm.DB, error) {
	level := gormlogger.Warn
	if mode == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(level, slowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or extends every table. Columns are never dropped.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// SeedRoles makes sure every known authority exists.
func SeedRoles(ctx context.Context, db *gorm.DB) error {
	roles := []RoleModel{
		{Authority: user.AuthorityAdmin},
		{Authority: user.AuthorityOperator},
		{Authority: user.AuthorityClient},
		{Authority: user.AuthorityMember},
		{Authority: user.AuthorityVisitor},
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "authority"}}, DoNothing: true}).
		Create(&roles).Error
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}

// newGormLogger routes gorm's SQL log to the global zap logger.
func newGormLogger(level gormlogger.LogLevel, slowThreshold time.Duration) gormlogger.Interface {
	return gormlogger.New(zapWriter{}, gormlogger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.L().Sugar().Infof(format, args...)
}
