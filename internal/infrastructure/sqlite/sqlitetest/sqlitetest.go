// Package sqlitetest opens migrated in-memory databases for tests.
package sqlitetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/shopdb-api/pkg/migrate"
)

// New returns a fresh, migrated in-memory database closed at test end.
func New(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	migrate.SetLogger(nil)
	require.NoError(t, migrate.Up(ctx, sqlDB, migrate.DialectSQLite))
	return db
}

// Source inserts a supplier for owner and returns its id.
func Source(t *testing.T, db *gorm.DB, ownerID int64, name string) int64 {
	t.Helper()
	s := &entity.Source{OwnerID: ownerID, Name: name}
	require.NoError(t, sqlite.NewSourceRepository(db).Create(context.Background(), s))
	return s.ID
}

// Product inserts a product for owner and returns its id.
func Product(t *testing.T, db *gorm.DB, ownerID, sourceID int64, barcode, price string, qty int64) int64 {
	t.Helper()
	p := &entity.Product{
		OwnerID:      ownerID,
		Barcode:      barcode,
		Name:         "Product " + barcode,
		Price:        decimal.RequireFromString(price),
		Quantity:     qty,
		SourceID:     sourceID,
		DateAccepted: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sqlite.NewProductRepository(db).Create(context.Background(), p))
	return p.ID
}

// Count returns the number of rows in table.
func Count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
