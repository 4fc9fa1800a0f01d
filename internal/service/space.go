package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkedProperty is a property that holds on a space, either by a curated
// link, by computation, or both.
type LinkedProperty struct {
	Property      domain.Property  `json:"property"`
	Field         domain.FieldLink `json:"field,omitempty"`
	Contradictory bool             `json:"contradictory,omitempty"`
	Linked        bool             `json:"linked"`
	Computed      bool             `json:"computed"`
}

type SpaceService struct {
	spaceStore       domain.SpaceStore
	propertyStore    domain.PropertyStore
	linkStore        domain.LinkStore
	computationStore domain.ComputationStore
	recomputer       Recomputer
	logger           *zap.Logger
}

func NewSpaceService(
	ss domain.SpaceStore,
	ps domain.PropertyStore,
	ls domain.LinkStore,
	cs domain.ComputationStore,
	r Recomputer,
	logger *zap.Logger,
) *SpaceService {
	return &SpaceService{
		spaceStore:       ss,
		propertyStore:    ps,
		linkStore:        ls,
		computationStore: cs,
		recomputer:       r,
		logger:           logger,
	}
}

func (s *SpaceService) Create(ctx context.Context, sp *domain.Space) error {
	normalizeSpace(sp)
	if err := validateSpace(sp); err != nil {
		return err
	}

	if err := s.spaceStore.Create(ctx, sp); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrSpaceConflict
		}
		return err
	}

	s.logger.Info("space created", zap.String("space_id", sp.ID.String()), zap.String("symbol", sp.Symbol))
	return recomputeAfter(ctx, s.recomputer)
}

func (s *SpaceService) Update(ctx context.Context, sp *domain.Space) error {
	if _, err := s.GetByID(ctx, sp.ID); err != nil {
		return err
	}

	normalizeSpace(sp)
	if err := validateSpace(sp); err != nil {
		return err
	}

	if err := s.spaceStore.Update(ctx, sp); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return ErrSpaceConflict
		case errors.Is(err, store.ErrNotFound):
			return ErrSpaceNotFound
		}
		return err
	}

	return recomputeAfter(ctx, s.recomputer)
}

func (s *SpaceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	links, err := s.linkStore.ListBySpace(ctx, id)
	if err != nil {
		return err
	}
	if len(links) > 0 {
		return ErrSpaceHasLinks
	}

	if err := s.spaceStore.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrSpaceNotFound
		case errors.Is(err, store.ErrReferenced):
			return ErrSpaceHasLinks
		}
		return err
	}

	s.logger.Info("space deleted", zap.String("space_id", id.String()))
	return recomputeAfter(ctx, s.recomputer)
}

func (s *SpaceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Space, error) {
	sp, err := s.spaceStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	return sp, nil
}

// List returns all spaces ordered case-insensitively by symbol.
func (s *SpaceService) List(ctx context.Context) ([]domain.Space, error) {
	spaces, err := s.spaceStore.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(spaces, func(i, j int) bool {
		return strings.ToLower(spaces[i].Symbol) < strings.ToLower(spaces[j].Symbol)
	})
	return spaces, nil
}

// LinkedProperties returns every property that is linked to or computed on
// the space, with its combined field projected onto the space's field,
// ordered by property name. Pairs whose computations contradict each other
// are kept and flagged.
func (s *SpaceService) LinkedProperties(ctx context.Context, spaceID uuid.UUID) ([]LinkedProperty, error) {
	sp, err := s.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	links, err := s.linkStore.ListBySpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	computations, err := s.computationStore.ListBySpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	properties, err := s.propertyStore.List(ctx)
	if err != nil {
		return nil, err
	}

	linkByProperty := make(map[uuid.UUID]*domain.Link, len(links))
	for i := range links {
		linkByProperty[links[i].PropertyID] = &links[i]
	}
	computationsByProperty := make(map[uuid.UUID][]domain.Computation)
	for _, c := range computations {
		computationsByProperty[c.PropertyID] = append(computationsByProperty[c.PropertyID], c)
	}

	var result []LinkedProperty
	for _, p := range properties {
		link := linkByProperty[p.ID]
		cs := computationsByProperty[p.ID]
		if link == nil && len(cs) == 0 {
			continue
		}

		reported := ReportedField(sp.Field, link, cs)
		if !reported.Known() {
			continue
		}
		if reported.Contradictory {
			s.logger.Warn("contradictory computations for property",
				zap.String("space_id", spaceID.String()),
				zap.String("property_id", p.ID.String()))
		}

		result = append(result, LinkedProperty{
			Property:      p,
			Field:         reported.Field,
			Contradictory: reported.Contradictory,
			Linked:        link != nil,
			Computed:      len(cs) > 0,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Property.Name) < strings.ToLower(result[j].Property.Name)
	})
	return result, nil
}

// UnlinkedProperties returns the properties without a curated link on the
// space whose field is compatible with the space's field.
func (s *SpaceService) UnlinkedProperties(ctx context.Context, spaceID uuid.UUID) ([]domain.Property, error) {
	sp, err := s.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	links, err := s.linkStore.ListBySpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	linked := make(map[uuid.UUID]bool, len(links))
	for _, l := range links {
		linked[l.PropertyID] = true
	}

	properties, err := s.propertyStore.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []domain.Property
	for _, p := range properties {
		if linked[p.ID] || !domain.SpaceCompatible(sp.Field, p.Field) {
			continue
		}
		result = append(result, p)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func normalizeSpace(sp *domain.Space) {
	sp.Symbol = strings.TrimSpace(sp.Symbol)
	sp.Norm = strings.TrimSpace(sp.Norm)
	sp.Description = strings.TrimSpace(sp.Description)
}

func validateSpace(sp *domain.Space) error {
	v := &ValidationError{}
	validateRequired(v, sp.Symbol, "symbol", maxShortText)
	validateRequired(v, sp.Norm, "norm", maxShortText)
	validateRequired(v, sp.Description, "description", maxLongText)
	if !sp.Field.Valid() {
		v.add("field", ErrFieldNotAllowed.Error())
	}
	return v.err()
}

func recomputeAfter(ctx context.Context, r Recomputer) error {
	if r == nil {
		return nil
	}
	if err := r.RecomputeAfterChange(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRecomputeFailed, err)
	}
	return nil
}
