package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkedSpace is a space on which a property holds, by link or computation.
type LinkedSpace struct {
	Space         domain.Space     `json:"space"`
	Field         domain.FieldLink `json:"field,omitempty"`
	Contradictory bool             `json:"contradictory,omitempty"`
	Linked        bool             `json:"linked"`
	Computed      bool             `json:"computed"`
}

type PropertyService struct {
	propertyStore    domain.PropertyStore
	spaceStore       domain.SpaceStore
	linkStore        domain.LinkStore
	theoremStore     domain.TheoremStore
	computationStore domain.ComputationStore
	recomputer       Recomputer
	logger           *zap.Logger
}

func NewPropertyService(
	ps domain.PropertyStore,
	ss domain.SpaceStore,
	ls domain.LinkStore,
	ts domain.TheoremStore,
	cs domain.ComputationStore,
	r Recomputer,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		propertyStore:    ps,
		spaceStore:       ss,
		linkStore:        ls,
		theoremStore:     ts,
		computationStore: cs,
		recomputer:       r,
		logger:           logger,
	}
}

func (s *PropertyService) Create(ctx context.Context, p *domain.Property) error {
	normalizeProperty(p)
	if err := validateProperty(p); err != nil {
		return err
	}

	if err := s.propertyStore.Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrPropertyConflict
		}
		return err
	}

	s.logger.Info("property created", zap.String("property_id", p.ID.String()), zap.String("name", p.Name))
	return recomputeAfter(ctx, s.recomputer)
}

func (s *PropertyService) Update(ctx context.Context, p *domain.Property) error {
	if _, err := s.GetByID(ctx, p.ID); err != nil {
		return err
	}

	normalizeProperty(p)
	if err := validateProperty(p); err != nil {
		return err
	}

	if err := s.propertyStore.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return ErrPropertyConflict
		case errors.Is(err, store.ErrNotFound):
			return ErrPropertyNotFound
		}
		return err
	}

	return recomputeAfter(ctx, s.recomputer)
}

func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	links, err := s.linkStore.ListByProperty(ctx, id)
	if err != nil {
		return err
	}
	uses, err := s.theoremStore.CountByProperty(ctx, id)
	if err != nil {
		return err
	}
	if len(links) > 0 || uses > 0 {
		return ErrPropertyInUse
	}

	if err := s.propertyStore.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return ErrPropertyNotFound
		case errors.Is(err, store.ErrReferenced):
			return ErrPropertyInUse
		}
		return err
	}

	s.logger.Info("property deleted", zap.String("property_id", id.String()))
	return recomputeAfter(ctx, s.recomputer)
}

func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	p, err := s.propertyStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns all properties ordered case-insensitively by name.
func (s *PropertyService) List(ctx context.Context) ([]domain.Property, error) {
	properties, err := s.propertyStore.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(properties, func(i, j int) bool {
		return strings.ToLower(properties[i].Name) < strings.ToLower(properties[j].Name)
	})
	return properties, nil
}

// LinkedSpaces returns every space the property is linked to or computed on,
// with the combined field projected onto each space's field, ordered by
// symbol.
func (s *PropertyService) LinkedSpaces(ctx context.Context, propertyID uuid.UUID) ([]LinkedSpace, error) {
	if _, err := s.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}

	links, err := s.linkStore.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	computations, err := s.computationStore.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	spaces, err := s.spaceStore.List(ctx)
	if err != nil {
		return nil, err
	}

	linkBySpace := make(map[uuid.UUID]*domain.Link, len(links))
	for i := range links {
		linkBySpace[links[i].SpaceID] = &links[i]
	}
	computationsBySpace := make(map[uuid.UUID][]domain.Computation)
	for _, c := range computations {
		computationsBySpace[c.SpaceID] = append(computationsBySpace[c.SpaceID], c)
	}

	var result []LinkedSpace
	for _, sp := range spaces {
		link := linkBySpace[sp.ID]
		cs := computationsBySpace[sp.ID]
		if link == nil && len(cs) == 0 {
			continue
		}

		reported := ReportedField(sp.Field, link, cs)
		if !reported.Known() {
			continue
		}

		result = append(result, LinkedSpace{
			Space:         sp,
			Field:         reported.Field,
			Contradictory: reported.Contradictory,
			Linked:        link != nil,
			Computed:      len(cs) > 0,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Space.Symbol) < strings.ToLower(result[j].Space.Symbol)
	})
	return result, nil
}

func normalizeProperty(p *domain.Property) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

func validateProperty(p *domain.Property) error {
	v := &ValidationError{}
	validateRequired(v, p.Name, "name", maxShortText)
	validateRequired(v, p.Description, "description", maxLongText)
	if !p.Field.Valid() {
		v.add("field", ErrFieldNotAllowed.Error())
	}
	return v.err()
}
