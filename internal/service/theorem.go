package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TheoremService struct {
	theoremStore  domain.TheoremStore
	propertyStore domain.PropertyStore
	recomputer    Recomputer
	logger        *zap.Logger
}

func NewTheoremService(ts domain.TheoremStore, ps domain.PropertyStore, r Recomputer, logger *zap.Logger) *TheoremService {
	return &TheoremService{
		theoremStore:  ts,
		propertyStore: ps,
		recomputer:    r,
		logger:        logger,
	}
}

// Create stores t with its conditions and conclusions. Positions and theorem
// ids of the parts are assigned from their order in t.
func (s *TheoremService) Create(ctx context.Context, t *domain.Theorem) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := s.prepare(ctx, t); err != nil {
		return err
	}

	if err := s.theoremStore.Create(ctx, t); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrTheoremConflict
		}
		return err
	}

	s.logger.Info("theorem created",
		zap.String("theorem_id", t.ID.String()),
		zap.Int("conditions", len(t.Conditions)),
		zap.Int("conclusions", len(t.Conclusions)))
	return recomputeAfter(ctx, s.recomputer)
}

// Update replaces t's name, description, conditions and conclusions.
func (s *TheoremService) Update(ctx context.Context, t *domain.Theorem) error {
	if _, err := s.GetByID(ctx, t.ID); err != nil {
		return err
	}
	if err := s.prepare(ctx, t); err != nil {
		return err
	}

	if err := s.theoremStore.Update(ctx, t); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return ErrTheoremConflict
		case errors.Is(err, store.ErrNotFound):
			return ErrTheoremNotFound
		}
		return err
	}

	return recomputeAfter(ctx, s.recomputer)
}

func (s *TheoremService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.theoremStore.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTheoremNotFound
		}
		return err
	}

	s.logger.Info("theorem deleted", zap.String("theorem_id", id.String()))
	return recomputeAfter(ctx, s.recomputer)
}

func (s *TheoremService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Theorem, error) {
	t, err := s.theoremStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTheoremNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns all theorems, or only those mentioning propertyID in a
// condition or conclusion when it is set.
func (s *TheoremService) List(ctx context.Context, propertyID *uuid.UUID) ([]domain.Theorem, error) {
	theorems, err := s.theoremStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if propertyID == nil {
		return theorems, nil
	}

	filtered := make([]domain.Theorem, 0, len(theorems))
	for i := range theorems {
		if theorems[i].Mentions(*propertyID) {
			filtered = append(filtered, theorems[i])
		}
	}
	return filtered, nil
}

func (s *TheoremService) prepare(ctx context.Context, t *domain.Theorem) error {
	t.Name = reduceToNil(t.Name)
	t.Description = reduceToNil(t.Description)

	v := &ValidationError{}
	validateOptional(v, t.Name, "name", maxShortText)
	validateOptional(v, t.Description, "description", maxLongText)

	switch {
	case len(t.Conditions) == 0:
		v.add("conditions", "Please add at least one condition.")
	case len(t.Conditions) > domain.MaxConditions:
		v.add("conditions", fmt.Sprintf("Please add at most %d conditions.", domain.MaxConditions))
	}
	switch {
	case len(t.Conclusions) == 0:
		v.add("conclusions", "Please add at least one conclusion.")
	case len(t.Conclusions) > domain.MaxConclusions:
		v.add("conclusions", fmt.Sprintf("Please add at most %d conclusions.", domain.MaxConclusions))
	}

	fields := make(map[uuid.UUID]domain.Field)
	check := func(key string, propertyID uuid.UUID, f domain.FieldLink) error {
		pf, ok := fields[propertyID]
		if !ok {
			p, err := s.propertyStore.GetByID(ctx, propertyID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					v.add(key, ErrPropertyNotFound.Error())
					return nil
				}
				return err
			}
			pf = p.Field
			fields[propertyID] = pf
		}
		if !containsFieldLink(AllowedTheoremFields(pf), f) {
			v.add(key, ErrFieldNotAllowed.Error())
		}
		return nil
	}

	for i := range t.Conditions {
		c := &t.Conditions[i]
		if err := check(fmt.Sprintf("condition[%d]", i), c.PropertyID, c.Field); err != nil {
			return err
		}
		c.TheoremID = t.ID
		c.Position = i
	}
	for i := range t.Conclusions {
		c := &t.Conclusions[i]
		if err := check(fmt.Sprintf("conclusion[%d]", i), c.PropertyID, c.Field); err != nil {
			return err
		}
		c.TheoremID = t.ID
		c.Position = i
	}

	return v.err()
}
