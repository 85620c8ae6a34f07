package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionSnapshot is one row per collection holding the same JSON
// document the file backend writes.
type CollectionSnapshot struct {
	Name      string `gorm:"primaryKey;size:64"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (CollectionSnapshot) TableName() string {
	return "collection_snapshots"
}

// SQLBackend stores snapshots in a relational database through gorm.
type SQLBackend struct {
	db     *gorm.DB
	driver string
}

// NewSQLBackend wraps an open gorm connection. It does not migrate.
func NewSQLBackend(db *gorm.DB) *SQLBackend {
	return &SQLBackend{db: db, driver: db.Dialector.Name()}
}

// OpenSQLBackend connects with the named driver ("sqlite" or "postgres")
// and migrates the snapshot table.
func OpenSQLBackend(driver, dsn string) (*SQLBackend, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(observability.GlobalLogger.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	b := NewSQLBackend(db)
	if err := b.Migrate(); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

// Migrate creates the snapshot table if needed.
func (b *SQLBackend) Migrate() error {
	if err := b.db.AutoMigrate(&CollectionSnapshot{}); err != nil {
		return fmt.Errorf("failed to migrate snapshot table: %w", err)
	}
	return nil
}

// Name reports the gorm dialect.
func (b *SQLBackend) Name() string {
	return b.driver
}

// Read returns the stored snapshot or ErrSnapshotNotFound.
func (b *SQLBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	var snap CollectionSnapshot
	err := b.db.WithContext(ctx).Where("name = ?", collection).Take(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(snap.Payload), nil
}

// Write upserts the collection's row.
func (b *SQLBackend) Write(ctx context.Context, collection string, data []byte) error {
	snap := CollectionSnapshot{
		Name:      collection,
		Payload:   string(data),
		UpdatedAt: time.Now().UTC(),
	}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snap).Error
}

// Ping checks the connection.
func (b *SQLBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying pool.
func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
