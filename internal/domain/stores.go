package domain

import (
	"context"

	"github.com/google/uuid"
)

type SpaceStore interface {
	Create(ctx context.Context, s *Space) error
	Update(ctx context.Context, s *Space) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Space, error)
	List(ctx context.Context) ([]Space, error)
}

type PropertyStore interface {
	Create(ctx context.Context, p *Property) error
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	List(ctx context.Context) ([]Property, error)
}

type LinkStore interface {
	// Upsert creates the link for (SpaceID, PropertyID) or updates the
	// existing one in place, keeping its id.
	Upsert(ctx context.Context, l *Link) error
	Delete(ctx context.Context, spaceID, propertyID uuid.UUID) error
	Get(ctx context.Context, spaceID, propertyID uuid.UUID) (*Link, error)
	ListBySpace(ctx context.Context, spaceID uuid.UUID) ([]Link, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]Link, error)
	List(ctx context.Context) ([]Link, error)
}

// TheoremStore persists theorems together with their conditions and
// conclusions. Create and Update write all three in one transaction.
type TheoremStore interface {
	Create(ctx context.Context, t *Theorem) error
	Update(ctx context.Context, t *Theorem) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Theorem, error)
	List(ctx context.Context) ([]Theorem, error)
	ListConditions(ctx context.Context) ([]Condition, error)
	ListConclusions(ctx context.Context) ([]Conclusion, error)
	CountByProperty(ctx context.Context, propertyID uuid.UUID) (int, error)
}

type ComputationStore interface {
	List(ctx context.Context) ([]Computation, error)
	ListBySpace(ctx context.Context, spaceID uuid.UUID) ([]Computation, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]Computation, error)
	ListBySpaceAndProperty(ctx context.Context, spaceID, propertyID uuid.UUID) ([]Computation, error)
	// ReplaceAll atomically swaps the whole computation table for cs.
	ReplaceAll(ctx context.Context, cs []Computation) error
}

type BackupStore interface {
	// ReplaceCurated atomically deletes every curated row and computation and
	// inserts the contents of b.
	ReplaceCurated(ctx context.Context, b *Backup) error
}
