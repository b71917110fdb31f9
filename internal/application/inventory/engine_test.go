package inventory_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	inv "github.com/jhoicas/shopdb-api/internal/domain/inventory"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite/sqlitetest"
	"github.com/jhoicas/shopdb-api/pkg/logger"
	"github.com/jhoicas/shopdb-api/pkg/metrics"
)

const owner = int64(1)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func saleLine(id int64, qty string) inv.SaleRequestLine {
	return inv.SaleRequestLine{ProductID: id, Quantity: dec(qty)}
}

type fixture struct {
	db      *gorm.DB
	sell    *inventory.SellUseCase
	receive *inventory.ReceiveUseCase
	source  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := sqlitetest.New(t)
	runner := sqlite.NewTxRunner(db)
	products := sqlite.NewProductRepository(db)
	return &fixture{
		db:      db,
		sell:    inventory.NewSellUseCase(products, runner, nil, nil),
		receive: inventory.NewReceiveUseCase(runner, nil, nil),
		source:  sqlitetest.Source(t, db, owner, "ACME"),
	}
}

func (f *fixture) product(t *testing.T, id int64) *entity.Product {
	t.Helper()
	p, err := sqlite.NewProductRepository(f.db).GetByID(context.Background(), owner, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Sell
// ──────────────────────────────────────────────────────────────────────────────

func TestSell_CommitsHeaderItemsAndDecrements(t *testing.T) {
	f := newFixture(t)
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "10.00", 5)
	b := sqlitetest.Product(t, f.db, owner, f.source, "B", "3.50", 10)

	res, err := f.sell.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "2"), saleLine(b, "3")})
	require.NoError(t, err)
	assert.Equal(t, "30.5", res.Total.String())
	assert.NotZero(t, res.TransactionID)

	assert.Equal(t, int64(3), f.product(t, a).Quantity)
	assert.Equal(t, int64(7), f.product(t, b).Quantity)

	ledger := sqlite.NewTransactionRepository(f.db)
	tx, err := ledger.GetByID(context.Background(), owner, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionSold, tx.Type)
	assert.True(t, tx.Total.Equal(dec("30.50")))
	assert.Nil(t, tx.SourceID)

	items, err := ledger.ListItems(context.Background(), owner, res.TransactionID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Price.Equal(dec("10.00")))
	assert.Equal(t, int64(2), items[0].Quantity)
}

func TestSell_NoOversell(t *testing.T) {
	f := newFixture(t)
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "1.00", 3)

	_, err := f.sell.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "4")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(3), f.product(t, a).Quantity)
	assert.Equal(t, int64(0), sqlitetest.Count(t, f.db, "transactions"))
}

func TestSell_FailingLineWritesNothing(t *testing.T) {
	f := newFixture(t)
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "1.00", 10)
	b := sqlitetest.Product(t, f.db, owner, f.source, "B", "1.00", 1)

	_, err := f.sell.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "2"), saleLine(b, "2")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.sell.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "2"), saleLine(999, "1")})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Equal(t, int64(10), f.product(t, a).Quantity)
	assert.Equal(t, int64(0), sqlitetest.Count(t, f.db, "transactions"))
	assert.Equal(t, int64(0), sqlitetest.Count(t, f.db, "transaction_items"))
}

func TestSell_InvalidRequests(t *testing.T) {
	f := newFixture(t)
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "1.00", 10)

	_, err := f.sell.Sell(context.Background(), owner, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = f.sell.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "1.5")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestSell_OtherOwnersProductIsNotFound(t *testing.T) {
	f := newFixture(t)
	a := sqlitetest.Product(t, f.db, owner+1, f.source, "A", "1.00", 10)

	_, err := f.sell.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "1")})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestSell_PriceSnapshotSurvivesLaterPriceChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "10.00", 5)

	res, err := f.sell.Sell(ctx, owner, []inv.SaleRequestLine{saleLine(a, "1")})
	require.NoError(t, err)
	require.NoError(t, sqlite.NewProductRepository(f.db).UpdatePrice(ctx, owner, a, dec("12.00")))

	items, err := sqlite.NewTransactionRepository(f.db).ListItems(ctx, owner, res.TransactionID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(dec("10.00")))
}

// racingRunner lets another writer take stock between preflight and commit.
type racingRunner struct {
	inventory.TxRunner
	before func()
}

func (r racingRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.SourceRepository, repository.TransactionRepository) error) error {
	r.before()
	return r.TxRunner.Run(ctx, fn)
}

func TestSell_RevalidatesInsideTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "1.00", 2)
	products := sqlite.NewProductRepository(f.db)

	runner := racingRunner{TxRunner: sqlite.NewTxRunner(f.db), before: func() {
		ok, err := products.DecrementStock(ctx, owner, a, 1)
		require.NoError(t, err)
		require.True(t, ok)
	}}
	uc := inventory.NewSellUseCase(products, runner, nil, nil)

	_, err := uc.Sell(ctx, owner, []inv.SaleRequestLine{saleLine(a, "2")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), f.product(t, a).Quantity)
	assert.Equal(t, int64(0), sqlitetest.Count(t, f.db, "transactions"))
}

func TestSell_ConcurrentBuyersNeverOversell(t *testing.T) {
	f := newFixture(t)
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "1.00", 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sell.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "1")})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			fail++
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 7, fail)
	assert.Equal(t, int64(0), f.product(t, a).Quantity)
	assert.Equal(t, int64(5), sqlitetest.Count(t, f.db, "transactions"))
}

func TestSell_CancelledContextAbortsWithoutWrites(t *testing.T) {
	f := newFixture(t)
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "1.00", 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.sell.Sell(ctx, owner, []inv.SaleRequestLine{saleLine(a, "1")})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, int64(5), f.product(t, a).Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateSale_NeverMutates(t *testing.T) {
	f := newFixture(t)
	a := sqlitetest.Product(t, f.db, owner, f.source, "A", "10.00", 5)

	q, err := f.sell.ValidateSale(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "2")})
	require.NoError(t, err)
	assert.Equal(t, "20", q.Total.String())
	require.Len(t, q.Lines, 1)
	assert.Equal(t, "Product A", q.Lines[0].Name)

	assert.Equal(t, int64(5), f.product(t, a).Quantity)
	assert.Equal(t, int64(0), sqlitetest.Count(t, f.db, "transactions"))
}

// ──────────────────────────────────────────────────────────────────────────────
// AddOrIncrease
// ──────────────────────────────────────────────────────────────────────────────

func receiptLine(barcode, price, qty string, source int64) inv.ReceiptRequestLine {
	return inv.ReceiptRequestLine{Barcode: barcode, Name: "Item " + barcode, Price: dec(price), Quantity: dec(qty), SourceID: source}
}

func TestAddOrIncrease_RestocksExistingBarcode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := sqlitetest.Product(t, f.db, owner, f.source, "X1", "8.00", 5)

	res, err := f.receive.AddOrIncrease(ctx, owner, []inv.ReceiptRequestLine{receiptLine("X1", "9.99", "3", f.source)})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ItemsCount)
	assert.Equal(t, "29.97", res.Total.String())
	assert.Equal(t, []int64{id}, res.ProductIDs)

	p := f.product(t, id)
	assert.Equal(t, int64(8), p.Quantity)
	assert.True(t, p.Price.Equal(dec("9.99")), "restock overwrites the price")
	assert.Equal(t, int64(1), sqlitetest.Count(t, f.db, "products"))

	items, err := sqlite.NewTransactionRepository(f.db).ListItems(ctx, owner, res.TransactionID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(dec("9.99")))

	tx, err := sqlite.NewTransactionRepository(f.db).GetByID(ctx, owner, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionBought, tx.Type)
	require.NotNil(t, tx.SourceID)
	assert.Equal(t, f.source, *tx.SourceID)
}

func TestAddOrIncrease_SubCentPriceStoredRoundedAndTotalMatchesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.receive.AddOrIncrease(ctx, owner, []inv.ReceiptRequestLine{receiptLine("P1", "0.005", "100", f.source)})
	require.NoError(t, err)
	assert.Equal(t, "1", res.Total.String())

	p := f.product(t, res.ProductIDs[0])
	assert.True(t, p.Price.Equal(dec("0.01")), p.Price.String())

	txs := sqlite.NewTransactionRepository(f.db)
	items, err := txs.ListItems(ctx, owner, res.TransactionID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(dec("0.01")), items[0].Price.String())

	tx, err := txs.GetByID(ctx, owner, res.TransactionID)
	require.NoError(t, err)
	lineSum := items[0].Price.Mul(decimal.NewFromInt(items[0].Quantity))
	assert.True(t, tx.Total.Equal(lineSum), "header %s vs lines %s", tx.Total, lineSum)
}

func TestAddOrIncrease_NewBarcodeUsesServerDate(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2025, 3, 14, 16, 30, 0, 0, time.UTC)
	f.receive.WithClock(func() time.Time { return fixed })

	res, err := f.receive.AddOrIncrease(context.Background(), owner, []inv.ReceiptRequestLine{receiptLine("NEW", "2.00", "4", f.source)})
	require.NoError(t, err)

	p := f.product(t, res.ProductIDs[0])
	assert.Equal(t, int64(4), p.Quantity)
	assert.Equal(t, "2025-03-14", p.DateAccepted.Format("2006-01-02"))
	assert.Equal(t, "Item NEW", p.Name)
}

func TestAddOrIncrease_RepeatedBarcodeInOneBatch(t *testing.T) {
	f := newFixture(t)

	res, err := f.receive.AddOrIncrease(context.Background(), owner, []inv.ReceiptRequestLine{
		receiptLine("R", "1.00", "2", f.source),
		receiptLine("R", "1.50", "3", f.source),
	})
	require.NoError(t, err)
	require.Equal(t, res.ProductIDs[0], res.ProductIDs[1])

	p := f.product(t, res.ProductIDs[0])
	assert.Equal(t, int64(5), p.Quantity)
	assert.True(t, p.Price.Equal(dec("1.50")))
	assert.Equal(t, "6.5", res.Total.String())
}

func TestAddOrIncrease_UnknownSourceRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	id := sqlitetest.Product(t, f.db, owner, f.source, "X1", "1.00", 5)

	_, err := f.receive.AddOrIncrease(context.Background(), owner, []inv.ReceiptRequestLine{
		receiptLine("X1", "1.00", "3", f.source),
		receiptLine("NEW", "1.00", "1", 9999),
	})
	require.ErrorIs(t, err, domain.ErrInvalidProductData)
	assert.Contains(t, err.Error(), "source 9999")

	assert.Equal(t, int64(5), f.product(t, id).Quantity)
	assert.Equal(t, int64(1), sqlitetest.Count(t, f.db, "products"))
	assert.Equal(t, int64(0), sqlitetest.Count(t, f.db, "transactions"))
}

func TestAddOrIncrease_ValidatesBeforeWriting(t *testing.T) {
	f := newFixture(t)

	_, err := f.receive.AddOrIncrease(context.Background(), owner, []inv.ReceiptRequestLine{
		receiptLine("OK", "1.00", "1", f.source),
		receiptLine("BAD", "1.00", "0", f.source),
	})
	require.ErrorIs(t, err, domain.ErrInvalidProductData)
	assert.Equal(t, int64(0), sqlitetest.Count(t, f.db, "products"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Observability
// ──────────────────────────────────────────────────────────────────────────────

type batchRunner struct{ inventory.TxRunner }

func (batchRunner) Atomicity() inventory.Atomicity { return inventory.AtomicityBatch }

func TestSell_WarnsOnBatchOnlyStoreAndRecordsMetrics(t *testing.T) {
	db := sqlitetest.New(t)
	src := sqlitetest.Source(t, db, owner, "ACME")
	a := sqlitetest.Product(t, db, owner, src, "A", "1.00", 2)

	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "debug", Output: &buf})
	reg := prometheus.NewRegistry()
	rec := metrics.NewInventoryMetrics(reg)
	uc := inventory.NewSellUseCase(sqlite.NewProductRepository(db), batchRunner{sqlite.NewTxRunner(db)}, log, rec)

	_, err := uc.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "1")})
	require.NoError(t, err)
	_, err = uc.Sell(context.Background(), owner, []inv.SaleRequestLine{saleLine(a, "5")})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "batch-only atomicity")
	assert.Contains(t, out, "COMMITTED")
	assert.Contains(t, out, "ABORTED")
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "inventory_operations_total"))
}
