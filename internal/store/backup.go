package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BackupStore struct {
	db *pgxpool.Pool
}

func NewBackupStore(db *pgxpool.Pool) *BackupStore {
	return &BackupStore{db: db}
}

// ReplaceCurated empties every table, computations included, and bulk loads
// the rows of b in dependency order. Row ids are kept as exported.
func (s *BackupStore) ReplaceCurated(ctx context.Context, b *domain.Backup) error {
	return withTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`TRUNCATE computations, conclusions, conditions, theorems, links, properties, spaces`,
		); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}

		now := time.Now().UTC()
		stamp := func(t time.Time) time.Time {
			if t.IsZero() {
				return now
			}
			return t
		}

		steps := []struct {
			table   string
			columns []string
			rows    [][]any
		}{
			{"spaces", []string{"id", "symbol", "norm", "description", "field", "created_at", "updated_at"}, nil},
			{"properties", []string{"id", "name", "description", "field", "created_at", "updated_at"}, nil},
			{"links", []string{"id", "space_id", "property_id", "field", "description", "created_at", "updated_at"}, nil},
			{"theorems", []string{"id", "name", "description", "created_at", "updated_at"}, nil},
			{"conditions", []string{"id", "theorem_id", "property_id", "field", "position"}, nil},
			{"conclusions", []string{"id", "theorem_id", "property_id", "field", "position"}, nil},
		}

		for _, sp := range b.Spaces {
			steps[0].rows = append(steps[0].rows, []any{sp.ID, sp.Symbol, sp.Norm, sp.Description, string(sp.Field), stamp(sp.CreatedAt), stamp(sp.UpdatedAt)})
		}
		for _, p := range b.Properties {
			steps[1].rows = append(steps[1].rows, []any{p.ID, p.Name, p.Description, string(p.Field), stamp(p.CreatedAt), stamp(p.UpdatedAt)})
		}
		for _, l := range b.Links {
			steps[2].rows = append(steps[2].rows, []any{l.ID, l.SpaceID, l.PropertyID, string(l.Field), l.Description, stamp(l.CreatedAt), stamp(l.UpdatedAt)})
		}
		for _, t := range b.Theorems {
			steps[3].rows = append(steps[3].rows, []any{t.ID, t.Name, t.Description, stamp(t.CreatedAt), stamp(t.UpdatedAt)})
		}
		for _, c := range b.Conditions {
			steps[4].rows = append(steps[4].rows, []any{c.ID, c.TheoremID, c.PropertyID, string(c.Field), c.Position})
		}
		for _, c := range b.Conclusions {
			steps[5].rows = append(steps[5].rows, []any{c.ID, c.TheoremID, c.PropertyID, string(c.Field), c.Position})
		}

		for _, step := range steps {
			if len(step.rows) == 0 {
				continue
			}
			if _, err := tx.CopyFrom(ctx, pgx.Identifier{step.table}, step.columns, pgx.CopyFromRows(step.rows)); err != nil {
				return fmt.Errorf("copy %s: %w", step.table, err)
			}
		}
		return nil
	})
}
