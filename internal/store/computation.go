package store

import (
	"context"
	"fmt"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ComputationStore struct {
	db *pgxpool.Pool
}

func NewComputationStore(db *pgxpool.Pool) *ComputationStore {
	return &ComputationStore{db: db}
}

var computationCopyColumns = []string{"id", "space_id", "property_id", "theorem_id", "field", "created_at"}

func (s *ComputationStore) List(ctx context.Context) ([]domain.Computation, error) {
	return s.list(ctx, "")
}

func (s *ComputationStore) ListBySpace(ctx context.Context, spaceID uuid.UUID) ([]domain.Computation, error) {
	return s.list(ctx, `WHERE space_id = $1`, spaceID)
}

func (s *ComputationStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.Computation, error) {
	return s.list(ctx, `WHERE property_id = $1`, propertyID)
}

func (s *ComputationStore) ListBySpaceAndProperty(ctx context.Context, spaceID, propertyID uuid.UUID) ([]domain.Computation, error) {
	return s.list(ctx, `WHERE space_id = $1 AND property_id = $2`, spaceID, propertyID)
}

func (s *ComputationStore) list(ctx context.Context, where string, args ...any) ([]domain.Computation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, space_id, property_id, theorem_id, field, created_at FROM computations `+where,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var computations []domain.Computation
	for rows.Next() {
		var c domain.Computation
		if err := rows.Scan(&c.ID, &c.SpaceID, &c.PropertyID, &c.TheoremID, &c.Field, &c.CreatedAt); err != nil {
			return nil, err
		}
		computations = append(computations, c)
	}
	return computations, rows.Err()
}

// ReplaceAll deletes every computation and copies cs in within a single
// transaction, so readers observe either the old or the new table.
func (s *ComputationStore) ReplaceAll(ctx context.Context, cs []domain.Computation) error {
	return withTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM computations`); err != nil {
			return fmt.Errorf("delete computations: %w", err)
		}
		if len(cs) == 0 {
			return nil
		}

		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"computations"},
			computationCopyColumns,
			pgx.CopyFromSlice(len(cs), func(i int) ([]any, error) {
				c := cs[i]
				return []any{c.ID, c.SpaceID, c.PropertyID, c.TheoremID, string(c.Field), c.CreatedAt}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy computations: %w", err)
		}
		if int(n) != len(cs) {
			return fmt.Errorf("copy computations: wrote %d of %d rows", n, len(cs))
		}
		return nil
	})
}
