package runlog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// IngestRun is one row in the ingest audit ledger.
type IngestRun struct {
	ID           uint      `gorm:"primaryKey"`
	StartedAt    time.Time `gorm:"not null;index"`
	FinishedAt   time.Time `gorm:"not null"`
	Seen         int       `gorm:"not null"`
	Stored       int       `gorm:"not null"`
	Duplicates   int       `gorm:"not null"`
	Filtered     int       `gorm:"not null"`
	SourceErrors int       `gorm:"not null"`
	Trimmed      int64     `gorm:"not null"`
}

func (IngestRun) TableName() string { return "ingest_runs" }

// Ledger persists run summaries to Postgres. A nil Ledger is valid and
// records nothing, so callers without a database configured skip the ledger
// without branching.
type Ledger struct {
	db *gorm.DB
}

// Open connects and migrates the ledger table. An empty DSN yields a nil
// Ledger and no error.
func Open(dsn string) (*Ledger, error) {
	if dsn == "" {
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open run ledger: %w", err)
	}
	if err := db.AutoMigrate(&IngestRun{}); err != nil {
		return nil, fmt.Errorf("migrate run ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Record(ctx context.Context, run IngestRun) error {
	if l == nil {
		return nil
	}
	if err := l.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("record ingest run: %w", err)
	}
	return nil
}

func (l *Ledger) Close() error {
	if l == nil {
		return nil
	}
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
