package db

import (
	"context"
	"fmt"
	"time"

	"dreambook/internal/dream"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the pool and checks it answers within timeout.
func Connect(ctx context.Context, dsn string, timeout time.Duration) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&dream.Dream{}); err != nil {
		return err
	}

	stmts := []string{
		`alter table dreams alter column ip_address set default 'unknown';`,
		`alter table dreams alter column status set default 'pending';`,
		`alter table dreams alter column tags set default '{}';`,
		`alter table dreams alter column is_public set default false;`,
		`create index if not exists idx_dreams_submitted on dreams(submitted_at desc);`,
		`create index if not exists idx_dreams_status_submitted on dreams(status, submitted_at desc);`,
		`create index if not exists idx_dreams_gender_marital on dreams(gender, marital_status);`,
		`create index if not exists idx_dreams_public_status on dreams(is_public, status);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
