package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/shopdb-api/internal/domain/entity"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
)

var _ repository.SourceRepository = (*SourceRepo)(nil)

// SourceRepo implements SourceRepository over PostgreSQL.
type SourceRepo struct {
	q Querier
}

// NewSourceRepository builds the supplier adapter. Pass the pool or a tx.
func NewSourceRepository(q Querier) *SourceRepo {
	return &SourceRepo{q: q}
}

func (r *SourceRepo) Create(ctx context.Context, s *entity.Source) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO sources (user_id, name, phone, address) VALUES ($1, $2, $3, $4) RETURNING source_id`,
		s.OwnerID, s.Name, s.Phone, s.Address,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

func (r *SourceRepo) GetByID(ctx context.Context, ownerID, id int64) (*entity.Source, error) {
	var s entity.Source
	err := r.q.QueryRow(ctx,
		`SELECT source_id, user_id, name, phone, address FROM sources WHERE user_id = $1 AND source_id = $2`,
		ownerID, id,
	).Scan(&s.ID, &s.OwnerID, &s.Name, &s.Phone, &s.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get source: %w", err)
	}
	return &s, nil
}

func (r *SourceRepo) List(ctx context.Context, ownerID int64) ([]*entity.Source, error) {
	rows, err := r.q.Query(ctx,
		`SELECT source_id, user_id, name, phone, address FROM sources WHERE user_id = $1 ORDER BY name, source_id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()
	var list []*entity.Source
	for rows.Next() {
		var s entity.Source
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Phone, &s.Address); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *SourceRepo) Update(ctx context.Context, s *entity.Source) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sources SET name = $3, phone = $4, address = $5 WHERE user_id = $1 AND source_id = $2`,
		s.OwnerID, s.ID, s.Name, s.Phone, s.Address)
	if err != nil {
		return false, fmt.Errorf("update source: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *SourceRepo) Delete(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sources WHERE user_id = $1 AND source_id = ANY($2)`, ownerID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete sources: %w", err)
	}
	return cmd.RowsAffected(), nil
}
