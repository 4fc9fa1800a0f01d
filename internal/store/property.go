package store

import (
	"context"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyStore struct {
	db *pgxpool.Pool
}

func NewPropertyStore(db *pgxpool.Pool) *PropertyStore {
	return &PropertyStore{db: db}
}

func (s *PropertyStore) Create(ctx context.Context, p *domain.Property) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO properties (name, description, field)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.Field,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err)
}

func (s *PropertyStore) Update(ctx context.Context, p *domain.Property) error {
	err := s.db.QueryRow(ctx,
		`UPDATE properties SET name = $2, description = $3, field = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Field,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return translate(err)
}

func (s *PropertyStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	p := &domain.Property{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, field, created_at, updated_at
		 FROM properties WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Field, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (s *PropertyStore) List(ctx context.Context) ([]domain.Property, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, field, created_at, updated_at
		 FROM properties ORDER BY LOWER(name)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Field, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}
