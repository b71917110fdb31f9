package repository

import (
	"context"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
)

// SourceRepository is the persistence port for suppliers.
type SourceRepository interface {
	Create(ctx context.Context, source *entity.Source) error
	GetByID(ctx context.Context, ownerID, id int64) (*entity.Source, error)
	List(ctx context.Context, ownerID int64) ([]*entity.Source, error)
	Update(ctx context.Context, source *entity.Source) (bool, error)
	Delete(ctx context.Context, ownerID int64, ids []int64) (int64, error)
}
