package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite/sqlitetest"
)

const owner = int64(1)

// ──────────────────────────────────────────────────────────────────────────────
// Products
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_CreateAndLookups(t *testing.T) {
	db := sqlitetest.New(t)
	ctx := context.Background()
	src := sqlitetest.Source(t, db, owner, "ACME")
	repo := sqlite.NewProductRepository(db)

	id := sqlitetest.Product(t, db, owner, src, "X1", "9.99", 5)

	p, err := repo.GetByBarcode(ctx, owner, "X1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "ACME", p.SourceName)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 2024, p.DateAccepted.Year())

	other, err := repo.GetByBarcode(ctx, owner+1, "X1")
	require.NoError(t, err)
	assert.Nil(t, other, "products are owner-scoped")

	missing, err := repo.GetByID(ctx, owner, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepo_DuplicateBarcodePerOwner(t *testing.T) {
	db := sqlitetest.New(t)
	src := sqlitetest.Source(t, db, owner, "ACME")
	sqlitetest.Product(t, db, owner, src, "X1", "1", 1)

	err := sqlite.NewProductRepository(db).Create(context.Background(), &entity.Product{
		OwnerID: owner, Barcode: "X1", Name: "dup", Price: decimal.NewFromInt(1), SourceID: src, DateAccepted: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Same barcode under another owner is fine.
	sqlitetest.Product(t, db, owner+1, src, "X1", "1", 1)
}

func TestProductRepo_DecrementIsConditional(t *testing.T) {
	db := sqlitetest.New(t)
	ctx := context.Background()
	src := sqlitetest.Source(t, db, owner, "ACME")
	id := sqlitetest.Product(t, db, owner, src, "A", "2.00", 3)
	repo := sqlite.NewProductRepository(db)

	ok, err := repo.DecrementStock(ctx, owner, id, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, owner, id, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	levels, err := repo.StockLevels(ctx, owner, []int64{id})
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, int64(0), levels[0].Quantity)
}

func TestProductRepo_IncreaseStockOverwritesPrice(t *testing.T) {
	db := sqlitetest.New(t)
	ctx := context.Background()
	src := sqlitetest.Source(t, db, owner, "ACME")
	id := sqlitetest.Product(t, db, owner, src, "A", "2.00", 3)
	repo := sqlite.NewProductRepository(db)

	require.NoError(t, repo.IncreaseStock(ctx, owner, id, 2, decimal.RequireFromString("2.50")))

	p, err := repo.GetByID(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Quantity)
	assert.Equal(t, "2.5", p.Price.String())
}

func TestProductRepo_ListInStockAndCategories(t *testing.T) {
	db := sqlitetest.New(t)
	ctx := context.Background()
	src := sqlitetest.Source(t, db, owner, "ACME")
	repo := sqlite.NewProductRepository(db)

	a := sqlitetest.Product(t, db, owner, src, "A", "1", 2)
	b := sqlitetest.Product(t, db, owner, src, "B", "1", 2)
	sqlitetest.Product(t, db, owner, src, "C", "1", 0)
	require.NoError(t, db.Table("products").Where("product_id = ?", a).Update("category", "tools").Error)
	require.NoError(t, db.Table("products").Where("product_id = ?", b).Update("category", "food").Error)

	list, err := repo.ListInStock(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	cats, err := repo.Categories(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"food", "tools"}, cats)

	n, err := repo.ZeroQuantity(ctx, owner, []int64{a})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	list, err = repo.ListInStock(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	filtered, err := repo.ListForAdjustment(ctx, owner, entity.ProductFilter{Category: "food"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, b, filtered[0].ProductID)
}

func TestProductRepo_UpdateReportsMissingRow(t *testing.T) {
	db := sqlitetest.New(t)
	ok, err := sqlite.NewProductRepository(db).Update(context.Background(), &entity.Product{ID: 42, OwnerID: owner, Price: decimal.Zero})
	require.NoError(t, err)
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactionRepo_CreateListDelete(t *testing.T) {
	db := sqlitetest.New(t)
	ctx := context.Background()
	src := sqlitetest.Source(t, db, owner, "ACME")
	pid := sqlitetest.Product(t, db, owner, src, "A", "1.00", 9)
	repo := sqlite.NewTransactionRepository(db)

	first := &entity.Transaction{OwnerID: owner, Total: decimal.RequireFromString("3.00"), Type: entity.TransactionSold, Date: time.Now().Add(-time.Minute)}
	require.NoError(t, repo.Create(ctx, first))
	second := &entity.Transaction{OwnerID: owner, SourceID: &src, Total: decimal.RequireFromString("1.00"), Type: entity.TransactionBought, Date: time.Now()}
	require.NoError(t, repo.Create(ctx, second))

	items := []*entity.TransactionItem{
		{TransactionID: first.ID, ProductID: pid, OwnerID: owner, Quantity: 2, Price: decimal.RequireFromString("1.00")},
		{TransactionID: first.ID, ProductID: pid, OwnerID: owner, Quantity: 1, Price: decimal.RequireFromString("1.00")},
	}
	require.NoError(t, repo.CreateItems(ctx, items))
	assert.NotZero(t, items[1].ID)

	all, err := repo.List(ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	require.NotNil(t, all[0].SourceID)

	sold, err := repo.List(ctx, owner, entity.TransactionSold)
	require.NoError(t, err)
	assert.Len(t, sold, 1)

	lines, err := repo.ListItems(ctx, owner, first.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Product A", lines[0].ProductName)

	runner := sqlite.NewTxRunner(db)
	err = runner.Run(ctx, func(_ repository.ProductRepository, _ repository.SourceRepository, ledger repository.TransactionRepository) error {
		n, err := ledger.Delete(ctx, owner, []int64{first.ID})
		assert.Equal(t, int64(1), n)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), sqlitetest.Count(t, db, "transaction_items"))
	assert.Equal(t, int64(1), sqlitetest.Count(t, db, "transactions"))
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db := sqlitetest.New(t)
	ctx := context.Background()
	src := sqlitetest.Source(t, db, owner, "ACME")
	id := sqlitetest.Product(t, db, owner, src, "A", "1.00", 5)
	runner := sqlite.NewTxRunner(db)
	boom := errors.New("boom")

	err := runner.Run(ctx, func(products repository.ProductRepository, _ repository.SourceRepository, ledger repository.TransactionRepository) error {
		ok, err := products.DecrementStock(ctx, owner, id, 5)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, ledger.Create(ctx, &entity.Transaction{OwnerID: owner, Total: decimal.Zero, Type: entity.TransactionSold, Date: time.Now()}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := sqlite.NewProductRepository(db).GetByID(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Quantity)
	assert.Equal(t, int64(0), sqlitetest.Count(t, db, "transactions"))
	assert.Equal(t, inventory.AtomicityTransactional, runner.Atomicity())
}

func TestSchemaRejectsNegativeStock(t *testing.T) {
	db := sqlitetest.New(t)
	src := sqlitetest.Source(t, db, owner, "ACME")
	id := sqlitetest.Product(t, db, owner, src, "A", "1.00", 1)

	err := db.Exec("UPDATE products SET quantity = quantity - 2 WHERE product_id = ?", id).Error
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sources / users
// ──────────────────────────────────────────────────────────────────────────────

func TestSourceRepo_CRUD(t *testing.T) {
	db := sqlitetest.New(t)
	ctx := context.Background()
	repo := sqlite.NewSourceRepository(db)

	s := &entity.Source{OwnerID: owner, Name: "ACME", Phone: "555"}
	require.NoError(t, repo.Create(ctx, s))

	s.Name = "ACME Ltd"
	ok, err := repo.Update(ctx, s)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ACME Ltd", list[0].Name)

	n, err := repo.Delete(ctx, owner+1, []int64{s.ID})
	require.NoError(t, err)
	assert.Zero(t, n, "cannot delete another owner's source")

	n, err = repo.Delete(ctx, owner, []int64{s.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepo_UniqueUsername(t *testing.T) {
	db := sqlitetest.New(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepository(db)

	u := &entity.User{Username: "alice", PasswordHash: "x", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	err := repo.Create(ctx, &entity.User{Username: "alice", PasswordHash: "y", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}
