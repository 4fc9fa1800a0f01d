package store

import (
	"context"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SpaceStore struct {
	db *pgxpool.Pool
}

func NewSpaceStore(db *pgxpool.Pool) *SpaceStore {
	return &SpaceStore{db: db}
}

const spaceColumns = `id, symbol, norm, description, field, created_at, updated_at`

func (s *SpaceStore) Create(ctx context.Context, sp *domain.Space) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO spaces (symbol, norm, description, field)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		sp.Symbol, sp.Norm, sp.Description, sp.Field,
	).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
	return translate(err)
}

func (s *SpaceStore) Update(ctx context.Context, sp *domain.Space) error {
	err := s.db.QueryRow(ctx,
		`UPDATE spaces SET symbol = $2, norm = $3, description = $4, field = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		sp.ID, sp.Symbol, sp.Norm, sp.Description, sp.Field,
	).Scan(&sp.CreatedAt, &sp.UpdatedAt)
	return translate(err)
}

func (s *SpaceStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM spaces WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SpaceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Space, error) {
	sp := &domain.Space{}
	err := s.db.QueryRow(ctx,
		`SELECT `+spaceColumns+` FROM spaces WHERE id = $1`, id,
	).Scan(&sp.ID, &sp.Symbol, &sp.Norm, &sp.Description, &sp.Field, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return sp, nil
}

func (s *SpaceStore) List(ctx context.Context) ([]domain.Space, error) {
	rows, err := s.db.Query(ctx, `SELECT `+spaceColumns+` FROM spaces ORDER BY LOWER(symbol)`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Space, error) {
		var sp domain.Space
		err := row.Scan(&sp.ID, &sp.Symbol, &sp.Norm, &sp.Description, &sp.Field, &sp.CreatedAt, &sp.UpdatedAt)
		return sp, err
	})
}
