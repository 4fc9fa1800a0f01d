package store

import (
	"context"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LinkStore struct {
	db *pgxpool.Pool
}

func NewLinkStore(db *pgxpool.Pool) *LinkStore {
	return &LinkStore{db: db}
}

const linkColumns = `id, space_id, property_id, field, description, created_at, updated_at`

func (s *LinkStore) Upsert(ctx context.Context, l *domain.Link) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO links (space_id, property_id, field, description)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (space_id, property_id)
		 DO UPDATE SET field = EXCLUDED.field, description = EXCLUDED.description, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		l.SpaceID, l.PropertyID, l.Field, l.Description,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return translate(err)
}

func (s *LinkStore) Delete(ctx context.Context, spaceID, propertyID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM links WHERE space_id = $1 AND property_id = $2`,
		spaceID, propertyID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *LinkStore) Get(ctx context.Context, spaceID, propertyID uuid.UUID) (*domain.Link, error) {
	l := &domain.Link{}
	err := s.db.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM links WHERE space_id = $1 AND property_id = $2`,
		spaceID, propertyID,
	).Scan(&l.ID, &l.SpaceID, &l.PropertyID, &l.Field, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return l, nil
}

func (s *LinkStore) ListBySpace(ctx context.Context, spaceID uuid.UUID) ([]domain.Link, error) {
	return listLinks(ctx, s.db, `SELECT `+linkColumns+` FROM links WHERE space_id = $1`, spaceID)
}

func (s *LinkStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.Link, error) {
	return listLinks(ctx, s.db, `SELECT `+linkColumns+` FROM links WHERE property_id = $1`, propertyID)
}

func (s *LinkStore) List(ctx context.Context) ([]domain.Link, error) {
	return listLinks(ctx, s.db, `SELECT `+linkColumns+` FROM links`)
}

func listLinks(ctx context.Context, q queryer, sql string, args ...any) ([]domain.Link, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var l domain.Link
		if err := rows.Scan(&l.ID, &l.SpaceID, &l.PropertyID, &l.Field, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
