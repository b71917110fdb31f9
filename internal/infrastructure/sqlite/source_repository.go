package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ repository.SourceRepository = (*SourceRepo)(nil)

// SourceRepo implements SourceRepository with gorm.
type SourceRepo struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

func (r *SourceRepo) Create(ctx context.Context, s *entity.Source) error {
	m := sourceModel{OwnerID: s.OwnerID, Name: s.Name, Phone: s.Phone, Address: s.Address}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	s.ID = m.ID
	return nil
}

func (r *SourceRepo) GetByID(ctx context.Context, ownerID, id int64) (*entity.Source, error) {
	var m sourceModel
	err := r.db.WithContext(ctx).Where("user_id = ? AND source_id = ?", ownerID, id).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get source: %w", err)
	}
	return m.toEntity(), nil
}

func (r *SourceRepo) List(ctx context.Context, ownerID int64) ([]*entity.Source, error) {
	var models []sourceModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("name, source_id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	out := make([]*entity.Source, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out, nil
}

func (r *SourceRepo) Update(ctx context.Context, s *entity.Source) (bool, error) {
	res := r.db.WithContext(ctx).Model(&sourceModel{}).
		Where("user_id = ? AND source_id = ?", s.OwnerID, s.ID).
		Updates(map[string]any{"name": s.Name, "phone": s.Phone, "address": s.Address})
	if res.Error != nil {
		return false, fmt.Errorf("update source: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *SourceRepo) Delete(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND source_id IN ?", ownerID, ids).Delete(&sourceModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete sources: %w", res.Error)
	}
	return res.RowsAffected, nil
}
