package store

import (
	"context"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TheoremStore struct {
	db *pgxpool.Pool
}

func NewTheoremStore(db *pgxpool.Pool) *TheoremStore {
	return &TheoremStore{db: db}
}

func (s *TheoremStore) Create(ctx context.Context, t *domain.Theorem) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return withTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO theorems (id, name, description)
			 VALUES ($1, $2, $3)
			 RETURNING created_at, updated_at`,
			t.ID, t.Name, t.Description,
		).Scan(&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return err
		}
		return insertTheoremParts(ctx, tx, t)
	})
}

// Update rewrites the theorem row and replaces its conditions and
// conclusions.
func (s *TheoremStore) Update(ctx context.Context, t *domain.Theorem) error {
	return withTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE theorems SET name = $2, description = $3, updated_at = NOW()
			 WHERE id = $1
			 RETURNING created_at, updated_at`,
			t.ID, t.Name, t.Description,
		).Scan(&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM conditions WHERE theorem_id = $1`, t.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM conclusions WHERE theorem_id = $1`, t.ID); err != nil {
			return err
		}
		return insertTheoremParts(ctx, tx, t)
	})
}

func insertTheoremParts(ctx context.Context, tx pgx.Tx, t *domain.Theorem) error {
	for i := range t.Conditions {
		c := &t.Conditions[i]
		c.TheoremID = t.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO conditions (theorem_id, property_id, field, position)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			c.TheoremID, c.PropertyID, c.Field, c.Position,
		).Scan(&c.ID)
		if err != nil {
			return err
		}
	}
	for i := range t.Conclusions {
		c := &t.Conclusions[i]
		c.TheoremID = t.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO conclusions (theorem_id, property_id, field, position)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			c.TheoremID, c.PropertyID, c.Field, c.Position,
		).Scan(&c.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the theorem; its conditions and conclusions cascade.
func (s *TheoremStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM theorems WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TheoremStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Theorem, error) {
	t := &domain.Theorem{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM theorems WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	if t.Conditions, err = listConditions(ctx, s.db, `WHERE theorem_id = $1`, id); err != nil {
		return nil, err
	}
	if t.Conclusions, err = listConclusions(ctx, s.db, `WHERE theorem_id = $1`, id); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns every theorem with its conditions and conclusions attached.
func (s *TheoremStore) List(ctx context.Context) ([]domain.Theorem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM theorems ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	theorems, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Theorem, error) {
		var t domain.Theorem
		err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	})
	if err != nil {
		return nil, err
	}

	conditions, err := s.ListConditions(ctx)
	if err != nil {
		return nil, err
	}
	conclusions, err := s.ListConclusions(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(theorems))
	for i := range theorems {
		index[theorems[i].ID] = i
	}
	for _, c := range conditions {
		if i, ok := index[c.TheoremID]; ok {
			theorems[i].Conditions = append(theorems[i].Conditions, c)
		}
	}
	for _, c := range conclusions {
		if i, ok := index[c.TheoremID]; ok {
			theorems[i].Conclusions = append(theorems[i].Conclusions, c)
		}
	}
	return theorems, nil
}

func (s *TheoremStore) ListConditions(ctx context.Context) ([]domain.Condition, error) {
	return listConditions(ctx, s.db, "")
}

func (s *TheoremStore) ListConclusions(ctx context.Context) ([]domain.Conclusion, error) {
	return listConclusions(ctx, s.db, "")
}

// CountByProperty counts the theorems with a condition or conclusion on
// propertyID.
func (s *TheoremStore) CountByProperty(ctx context.Context, propertyID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT theorem_id) FROM (
		     SELECT theorem_id FROM conditions WHERE property_id = $1
		     UNION ALL
		     SELECT theorem_id FROM conclusions WHERE property_id = $1
		 ) AS uses`,
		propertyID,
	).Scan(&count)
	return count, err
}

func listConditions(ctx context.Context, q queryer, where string, args ...any) ([]domain.Condition, error) {
	rows, err := q.Query(ctx,
		`SELECT id, theorem_id, property_id, field, position FROM conditions `+where+` ORDER BY theorem_id, position`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conditions []domain.Condition
	for rows.Next() {
		var c domain.Condition
		if err := rows.Scan(&c.ID, &c.TheoremID, &c.PropertyID, &c.Field, &c.Position); err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	return conditions, rows.Err()
}

func listConclusions(ctx context.Context, q queryer, where string, args ...any) ([]domain.Conclusion, error) {
	rows, err := q.Query(ctx,
		`SELECT id, theorem_id, property_id, field, position FROM conclusions `+where+` ORDER BY theorem_id, position`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conclusions []domain.Conclusion
	for rows.Next() {
		var c domain.Conclusion
		if err := rows.Scan(&c.ID, &c.TheoremID, &c.PropertyID, &c.Field, &c.Position); err != nil {
			return nil, err
		}
		conclusions = append(conclusions, c)
	}
	return conclusions, rows.Err()
}
