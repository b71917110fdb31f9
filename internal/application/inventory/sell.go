package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/inventory"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
	"github.com/jhoicas/shopdb-api/pkg/logger"
	"github.com/jhoicas/shopdb-api/pkg/metrics"
)

const opSell = "sell"

// Sell call states, logged as they are reached.
const (
	stateValidating = "VALIDATING"
	stateAborted    = "ABORTED"
	stateCommitting = "COMMITTING"
	stateCommitted  = "COMMITTED"
	stateRolledBack = "ROLLED_BACK"
)

// SaleResult is a committed sale.
type SaleResult struct {
	TransactionID int64
	Total         decimal.Decimal
	Lines         []inventory.PricedLine
}

// SellUseCase prices and commits sales. Stock is validated before the
// transaction and validated again, under row locks, inside it.
type SellUseCase struct {
	products repository.ProductRepository
	tx       TxRunner
	log      *logger.Logger
	metrics  Recorder
	now      func() time.Time
}

// NewSellUseCase builds the use case. log and rec may be nil.
func NewSellUseCase(products repository.ProductRepository, tx TxRunner, log *logger.Logger, rec Recorder) *SellUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &SellUseCase{products: products, tx: tx, log: log.Named("sell"), metrics: rec, now: time.Now}
}

// WithClock replaces the wall clock used for ledger and acceptance dates.
func (uc *SellUseCase) WithClock(now func() time.Time) *SellUseCase {
	uc.now = now
	return uc
}

// ValidateSale checks the request against current stock and returns the quote.
// It never writes.
func (uc *SellUseCase) ValidateSale(ctx context.Context, ownerID int64, lines []inventory.SaleRequestLine) (*inventory.Quote, error) {
	items, err := inventory.ParseSale(lines)
	if err != nil {
		return nil, err
	}
	return uc.quote(ctx, uc.products, ownerID, items, false)
}

// Sell validates, then records the sale and decrements stock atomically.
// Nothing is written unless every line can be satisfied.
func (uc *SellUseCase) Sell(ctx context.Context, ownerID int64, lines []inventory.SaleRequestLine) (*SaleResult, error) {
	l := uc.log.With().Int64("owner_id", ownerID).Int("lines", len(lines)).Logger()
	l.Debug().Str("state", stateValidating).Msg("sale")

	items, err := inventory.ParseSale(lines)
	if err == nil {
		_, err = uc.quote(ctx, uc.products, ownerID, items, false)
	}
	if err != nil {
		uc.abort(l, err)
		return nil, err
	}

	if uc.tx.Atomicity() == AtomicityBatch {
		l.Warn().Msg("store has batch-only atomicity; stock is not re-read under lock")
	}

	l.Debug().Str("state", stateCommitting).Msg("sale")
	started := time.Now()
	var result *SaleResult
	err = uc.tx.Run(ctx, func(products repository.ProductRepository, _ repository.SourceRepository, ledger repository.TransactionRepository) error {
		q, err := uc.quote(ctx, products, ownerID, items, true)
		if err != nil {
			return err
		}
		header := &entity.Transaction{
			OwnerID: ownerID,
			Total:   q.Total,
			Type:    entity.TransactionSold,
			Date:    uc.now(),
		}
		if err := ledger.Create(ctx, header); err != nil {
			return err
		}
		rows := make([]*entity.TransactionItem, 0, len(q.Lines))
		for _, pl := range q.Lines {
			rows = append(rows, &entity.TransactionItem{
				TransactionID: header.ID,
				ProductID:     pl.ProductID,
				OwnerID:       ownerID,
				Quantity:      pl.Quantity,
				Price:         pl.Price,
			})
		}
		if err := ledger.CreateItems(ctx, rows); err != nil {
			return err
		}
		if err := decrementAll(ctx, products, ownerID, items); err != nil {
			return err
		}
		result = &SaleResult{TransactionID: header.ID, Total: q.Total, Lines: q.Lines}
		return nil
	})
	uc.metrics.ObserveCommit(opSell, time.Since(started))
	if err != nil {
		err = classify(opSell, err)
		uc.metrics.Inc(opSell, outcomeFor(err))
		l.Warn().Err(err).Str("state", stateRolledBack).Msg("sale")
		return nil, err
	}

	uc.metrics.Inc(opSell, metrics.OutcomeCommitted)
	l.Info().Str("state", stateCommitted).
		Int64("transaction_id", result.TransactionID).
		Str("total", result.Total.StringFixed(2)).
		Msg("sale")
	return result, nil
}

func (uc *SellUseCase) quote(ctx context.Context, products repository.ProductRepository, ownerID int64, items []inventory.SaleItem, lock bool) (*inventory.Quote, error) {
	ids := inventory.ProductIDs(items)
	var (
		levels []entity.StockLevel
		err    error
	)
	if lock {
		levels, err = products.StockLevelsForUpdate(ctx, ownerID, ids)
	} else {
		levels, err = products.StockLevels(ctx, ownerID, ids)
	}
	if err != nil {
		return nil, domain.StorageFault("read stock", err)
	}
	return inventory.PriceSale(items, levels)
}

func (uc *SellUseCase) abort(l zerolog.Logger, err error) {
	uc.metrics.Inc(opSell, outcomeFor(err))
	l.Info().Err(err).Str("state", stateAborted).Msg("sale")
}

// decrementAll applies one conditional decrement per distinct product.
func decrementAll(ctx context.Context, products repository.ProductRepository, ownerID int64, items []inventory.SaleItem) error {
	demand := make(map[int64]int64, len(items))
	for _, it := range items {
		demand[it.ProductID] += it.Quantity
	}
	for _, id := range inventory.ProductIDs(items) {
		ok, err := products.DecrementStock(ctx, ownerID, id, demand[id])
		if err != nil {
			return err
		}
		if !ok {
			le := &domain.LineError{Err: domain.ErrInsufficientStock, ProductID: id, Requested: demand[id]}
			if cur, err := products.StockLevels(ctx, ownerID, []int64{id}); err == nil && len(cur) == 1 {
				le.Available = cur[0].Quantity
			}
			return le
		}
	}
	return nil
}

func outcomeFor(err error) string {
	if isRejection(err) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeRolledBack
}
