package service

import (
	"context"
	"errors"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkDetail is everything known about one (space, property) pair.
type LinkDetail struct {
	Space         domain.Space         `json:"space"`
	Property      domain.Property      `json:"property"`
	Field         domain.FieldLink     `json:"field,omitempty"`
	Contradictory bool                 `json:"contradictory"`
	Link          *domain.Link         `json:"link,omitempty"`
	Computations  []domain.Computation `json:"computations"`
}

type LinkService struct {
	linkStore        domain.LinkStore
	spaceStore       domain.SpaceStore
	propertyStore    domain.PropertyStore
	computationStore domain.ComputationStore
	recomputer       Recomputer
	logger           *zap.Logger
}

func NewLinkService(
	ls domain.LinkStore,
	ss domain.SpaceStore,
	ps domain.PropertyStore,
	cs domain.ComputationStore,
	r Recomputer,
	logger *zap.Logger,
) *LinkService {
	return &LinkService{
		linkStore:        ls,
		spaceStore:       ss,
		propertyStore:    ps,
		computationStore: cs,
		recomputer:       r,
		logger:           logger,
	}
}

// Upsert creates or replaces the curated link between l.SpaceID and
// l.PropertyID. The field must be allowed for the pair's fields.
func (s *LinkService) Upsert(ctx context.Context, l *domain.Link) error {
	sp, p, err := s.pair(ctx, l.SpaceID, l.PropertyID)
	if err != nil {
		return err
	}

	l.Description = reduceToNil(l.Description)
	v := &ValidationError{}
	validateOptional(v, l.Description, "description", maxLongText)
	if !containsFieldLink(AllowedLinkFields(sp.Field, p.Field), l.Field) {
		v.add("field", ErrFieldNotAllowed.Error())
	}
	if err := v.err(); err != nil {
		return err
	}

	if err := s.linkStore.Upsert(ctx, l); err != nil {
		if errors.Is(err, store.ErrReferenced) {
			return ErrSpaceNotFound
		}
		return err
	}

	s.logger.Info("link saved",
		zap.String("space_id", l.SpaceID.String()),
		zap.String("property_id", l.PropertyID.String()),
		zap.String("field", string(l.Field)))
	return recomputeAfter(ctx, s.recomputer)
}

func (s *LinkService) Delete(ctx context.Context, spaceID, propertyID uuid.UUID) error {
	if err := s.linkStore.Delete(ctx, spaceID, propertyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLinkNotFound
		}
		return err
	}

	s.logger.Info("link deleted",
		zap.String("space_id", spaceID.String()),
		zap.String("property_id", propertyID.String()))
	return recomputeAfter(ctx, s.recomputer)
}

// Detail reports the combined field of a pair together with its link and
// computations. It fails with ErrLinkNotFound when there is no link and no
// computation says anything about the space's field. A pair whose
// computations disagree is returned with Contradictory set.
func (s *LinkService) Detail(ctx context.Context, spaceID, propertyID uuid.UUID) (*LinkDetail, error) {
	sp, p, err := s.pair(ctx, spaceID, propertyID)
	if err != nil {
		return nil, err
	}

	link, err := s.linkStore.Get(ctx, spaceID, propertyID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		link = nil
	}

	computations, err := s.computationStore.ListBySpaceAndProperty(ctx, spaceID, propertyID)
	if err != nil {
		return nil, err
	}

	reported := ReportedField(sp.Field, link, computations)
	if link == nil && !reported.Known() {
		return nil, ErrLinkNotFound
	}
	if reported.Contradictory {
		s.logger.Warn("contradictory computations for pair",
			zap.String("space_id", spaceID.String()),
			zap.String("property_id", propertyID.String()),
			zap.Int("computations", len(computations)))
	}

	if computations == nil {
		computations = []domain.Computation{}
	}
	return &LinkDetail{
		Space:         *sp,
		Property:      *p,
		Field:         reported.Field,
		Contradictory: reported.Contradictory,
		Link:          link,
		Computations:  computations,
	}, nil
}

func (s *LinkService) pair(ctx context.Context, spaceID, propertyID uuid.UUID) (*domain.Space, *domain.Property, error) {
	sp, err := s.spaceStore.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrSpaceNotFound
		}
		return nil, nil, err
	}
	p, err := s.propertyStore.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrPropertyNotFound
		}
		return nil, nil, err
	}
	return sp, p, nil
}
