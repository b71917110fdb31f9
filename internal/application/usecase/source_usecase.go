package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

// SourceUseCase casos de uso de proveedores.
type SourceUseCase struct {
	repo repository.SourceRepository
}

// NewSourceUseCase construye el caso de uso.
func NewSourceUseCase(repo repository.SourceRepository) *SourceUseCase {
	return &SourceUseCase{repo: repo}
}

// List lista los proveedores del usuario.
func (uc *SourceUseCase) List(ctx context.Context, ownerID int64) (*dto.SourceListResponse, error) {
	list, err := uc.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SourceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSourceResponse(s))
	}
	return &dto.SourceListResponse{Sources: out}, nil
}

// Add crea un proveedor.
func (uc *SourceUseCase) Add(ctx context.Context, ownerID int64, in dto.CreateSourceRequest) (*dto.SourceResponse, error) {
	s := &entity.Source{
		OwnerID: ownerID,
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
	if s.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := toSourceResponse(s)
	return &out, nil
}

// Update overwrites a supplier; domain.ErrNotFound when the owner has no such id.
func (uc *SourceUseCase) Update(ctx context.Context, ownerID int64, in dto.UpdateSourceRequest) (*dto.SourceResponse, error) {
	in.Normalize()
	s := &entity.Source{
		ID:      in.SourceID,
		OwnerID: ownerID,
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
	if s.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	ok, err := uc.repo.Update(ctx, s)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := toSourceResponse(s)
	return &out, nil
}

// Delete removes suppliers. Products keep their source_id.
func (uc *SourceUseCase) Delete(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no source IDs provided", domain.ErrInvalidInput)
	}
	return uc.repo.Delete(ctx, ownerID, ids)
}

func toSourceResponse(s *entity.Source) dto.SourceResponse {
	return dto.SourceResponse{
		SourceID: s.ID,
		Name:     s.Name,
		Phone:    s.Phone,
		Address:  s.Address,
	}
}
