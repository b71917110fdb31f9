package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/inventory"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
	"github.com/jhoicas/shopdb-api/pkg/logger"
	"github.com/jhoicas/shopdb-api/pkg/metrics"
)

const opReceive = "add_or_increase"

// ReceiptResult is a committed incoming-goods batch.
type ReceiptResult struct {
	TransactionID int64
	Total         decimal.Decimal
	ItemsCount    int
	// ProductIDs holds the resolved product per request line.
	ProductIDs []int64
}

// ReceiveUseCase registers incoming goods: existing barcodes are restocked,
// unknown barcodes become new products, and one bought transaction records the batch.
type ReceiveUseCase struct {
	tx      TxRunner
	log     *logger.Logger
	metrics Recorder
	now     func() time.Time
}

// NewReceiveUseCase builds the use case. log and rec may be nil.
func NewReceiveUseCase(tx TxRunner, log *logger.Logger, rec Recorder) *ReceiveUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ReceiveUseCase{tx: tx, log: log.Named("receive"), metrics: rec, now: time.Now}
}

// WithClock replaces the wall clock used for ledger and acceptance dates.
func (uc *ReceiveUseCase) WithClock(now func() time.Time) *ReceiveUseCase {
	uc.now = now
	return uc
}

// AddOrIncrease applies the whole batch or nothing. Every line is validated
// before the first write.
func (uc *ReceiveUseCase) AddOrIncrease(ctx context.Context, ownerID int64, lines []inventory.ReceiptRequestLine) (*ReceiptResult, error) {
	l := uc.log.With().Int64("owner_id", ownerID).Int("lines", len(lines)).Logger()

	items, err := inventory.ParseReceipt(lines)
	if err != nil {
		uc.metrics.Inc(opReceive, metrics.OutcomeRejected)
		l.Info().Err(err).Str("state", stateAborted).Msg("receipt")
		return nil, err
	}
	total := inventory.ReceiptTotal(items)
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	l.Debug().Str("state", stateCommitting).Msg("receipt")
	started := time.Now()
	var result *ReceiptResult
	err = uc.tx.Run(ctx, func(products repository.ProductRepository, sources repository.SourceRepository, ledger repository.TransactionRepository) error {
		known := make(map[int64]bool)
		ids := make([]int64, len(items))
		for i, it := range items {
			if !known[it.SourceID] {
				src, err := sources.GetByID(ctx, ownerID, it.SourceID)
				if err != nil {
					return err
				}
				if src == nil {
					return &domain.LineError{
						Err:     domain.ErrInvalidProductData,
						Index:   i,
						Barcode: it.Barcode,
						Reason:  fmt.Sprintf("source %d does not exist", it.SourceID),
					}
				}
				known[it.SourceID] = true
			}

			existing, err := products.GetByBarcodeForUpdate(ctx, ownerID, it.Barcode)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := products.IncreaseStock(ctx, ownerID, existing.ID, it.Quantity, it.Price); err != nil {
					return err
				}
				ids[i] = existing.ID
				continue
			}
			p := &entity.Product{
				OwnerID:      ownerID,
				Barcode:      it.Barcode,
				Name:         it.Name,
				Price:        it.Price,
				Quantity:     it.Quantity,
				Category:     it.Category,
				SourceID:     it.SourceID,
				DateAccepted: today,
			}
			if err := products.Create(ctx, p); err != nil {
				return err
			}
			ids[i] = p.ID
		}

		sourceID := items[0].SourceID
		header := &entity.Transaction{
			OwnerID:  ownerID,
			SourceID: &sourceID,
			Total:    total,
			Type:     entity.TransactionBought,
			Date:     now,
		}
		if err := ledger.Create(ctx, header); err != nil {
			return err
		}
		rows := make([]*entity.TransactionItem, 0, len(items))
		for i, it := range items {
			rows = append(rows, &entity.TransactionItem{
				TransactionID: header.ID,
				ProductID:     ids[i],
				OwnerID:       ownerID,
				Quantity:      it.Quantity,
				Price:         it.Price,
			})
		}
		if err := ledger.CreateItems(ctx, rows); err != nil {
			return err
		}
		result = &ReceiptResult{TransactionID: header.ID, Total: total, ItemsCount: len(items), ProductIDs: ids}
		return nil
	})
	uc.metrics.ObserveCommit(opReceive, time.Since(started))
	if err != nil {
		err = classify(opReceive, err)
		uc.metrics.Inc(opReceive, outcomeFor(err))
		l.Warn().Err(err).Str("state", stateRolledBack).Msg("receipt")
		return nil, err
	}

	uc.metrics.Inc(opReceive, metrics.OutcomeCommitted)
	l.Info().Str("state", stateCommitted).
		Int64("transaction_id", result.TransactionID).
		Str("total", result.Total.StringFixed(2)).
		Msg("receipt")
	return result, nil
}
