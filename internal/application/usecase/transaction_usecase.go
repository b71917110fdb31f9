package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	"github.com/jhoicas/shopdb-api/internal/application/ports"
	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

// TransactionUseCase consultas y mantenimiento del libro de transacciones.
// Entries that move stock are written by the inventory engine, not here.
type TransactionUseCase struct {
	repo     repository.TransactionRepository
	sources  repository.SourceRepository
	tx       inventory.TxRunner
	renderer ports.ReceiptRenderer
	shopName string
	now      func() time.Time
}

// NewTransactionUseCase construye el caso de uso. renderer may be nil, in
// which case Receipt is unavailable.
func NewTransactionUseCase(
	repo repository.TransactionRepository,
	sources repository.SourceRepository,
	tx inventory.TxRunner,
	renderer ports.ReceiptRenderer,
	shopName string,
) *TransactionUseCase {
	return &TransactionUseCase{
		repo:     repo,
		sources:  sources,
		tx:       tx,
		renderer: renderer,
		shopName: shopName,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for transaction dates.
func (uc *TransactionUseCase) WithClock(now func() time.Time) *TransactionUseCase {
	uc.now = now
	return uc
}

// List lista transacciones, las más recientes primero. txType may be empty.
func (uc *TransactionUseCase) List(ctx context.Context, ownerID int64, txType string) (*dto.TransactionListResponse, error) {
	if txType != "" && !entity.ValidTransactionType(txType) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidInput, txType)
	}
	list, err := uc.repo.List(ctx, ownerID, txType)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	return &dto.TransactionListResponse{Transactions: out}, nil
}

// Items returns the lines of one transaction.
func (uc *TransactionUseCase) Items(ctx context.Context, ownerID, transactionID int64) (*dto.TransactionItemsResponse, error) {
	if transactionID <= 0 {
		return nil, fmt.Errorf("%w: transaction_id is required", domain.ErrInvalidInput)
	}
	items, err := uc.repo.ListItems(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.TransactionItemResponse{
			TransactionItemID: it.ID,
			TransactionID:     it.TransactionID,
			ProductID:         it.ProductID,
			ProductName:       it.ProductName,
			Quantity:          it.Quantity,
			Price:             it.Price,
		})
	}
	return &dto.TransactionItemsResponse{Items: out}, nil
}

// AddManual records a header without lines, e.g. an expense paid to a supplier.
func (uc *TransactionUseCase) AddManual(ctx context.Context, ownerID int64, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if in.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: total_amount must not be negative", domain.ErrInvalidInput)
	}
	if !entity.ValidTransactionType(in.Type) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidInput, in.Type)
	}
	if in.SourceID != nil {
		s, err := uc.sources.GetByID(ctx, ownerID, *in.SourceID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("%w: source %d does not exist", domain.ErrInvalidInput, *in.SourceID)
		}
	}
	t := &entity.Transaction{
		OwnerID:  ownerID,
		SourceID: in.SourceID,
		Total:    in.TotalAmount.Round(2),
		Type:     in.Type,
		Date:     uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	out := toTransactionResponse(t)
	return &out, nil
}

// Delete removes transactions and their lines atomically. Stock is not restored.
func (uc *TransactionUseCase) Delete(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no transaction IDs provided", domain.ErrInvalidInput)
	}
	var n int64
	err := uc.tx.Run(ctx, func(_ repository.ProductRepository, _ repository.SourceRepository, ledger repository.TransactionRepository) error {
		var err error
		n, err = ledger.Delete(ctx, ownerID, ids)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Receipt renders one transaction as a PDF.
func (uc *TransactionUseCase) Receipt(ctx context.Context, ownerID, transactionID int64) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("receipt renderer not configured")
	}
	t, err := uc.repo.GetByID(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repo.ListItems(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}
	r := ports.Receipt{ShopName: uc.shopName, Transaction: t, Items: items}
	if t.SourceID != nil {
		s, err := uc.sources.GetByID(ctx, ownerID, *t.SourceID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			r.SourceName = s.Name
		}
	}
	return uc.renderer.Render(r)
}

func toTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID:   t.ID,
		SourceID:        t.SourceID,
		TotalAmount:     t.Total,
		Type:            t.Type,
		TransactionDate: t.Date,
	}
}
