package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

// Atomicity describes what a store guarantees for one TxRunner.Run call.
type Atomicity int

const (
	// AtomicityTransactional means BEGIN/COMMIT/ROLLBACK with reads that see
	// and lock the rows later statements depend on.
	AtomicityTransactional Atomicity = iota
	// AtomicityBatch means the writes apply all-or-nothing but reads inside
	// the unit are not isolated from concurrent writers.
	AtomicityBatch
)

func (a Atomicity) String() string {
	if a == AtomicityBatch {
		return "batch"
	}
	return "transactional"
}

// TxRunner runs fn inside one atomic unit of the store, handing it repositories
// bound to that unit. A non-nil error from fn rolls everything back.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		sources repository.SourceRepository,
		ledger repository.TransactionRepository,
	) error) error
	Atomicity() Atomicity
}

// Recorder receives engine outcomes; *metrics.InventoryMetrics satisfies it.
type Recorder interface {
	Inc(op, outcome string)
	ObserveCommit(op string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Inc(string, string)                  {}
func (nopRecorder) ObserveCommit(string, time.Duration) {}
