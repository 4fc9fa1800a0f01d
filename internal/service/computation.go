package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EligibilityPolicy decides on which dimensions a theorem's conclusions may
// be derived for a space.
type EligibilityPolicy string

const (
	// EligibilityMatched lets a condition constrain only the dimensions its
	// field defines. The theorem applies when every condition is satisfied by
	// the space's link on that property; both dimensions are then eligible.
	EligibilityMatched EligibilityPolicy = "matched"

	// EligibilityStrict evaluates each dimension on its own. A dimension is
	// eligible only if every condition defines a bit on it and the space's
	// link carries the same bit. A condition without a bit on a dimension
	// disqualifies that dimension for the whole theorem.
	EligibilityStrict EligibilityPolicy = "strict"
)

func ParseEligibilityPolicy(s string) (EligibilityPolicy, error) {
	switch EligibilityPolicy(s) {
	case EligibilityMatched, EligibilityStrict:
		return EligibilityPolicy(s), nil
	case "":
		return EligibilityMatched, nil
	}
	return "", fmt.Errorf("unknown eligibility policy %q", s)
}

// DerivationInput is the full curated state a derivation runs over.
type DerivationInput struct {
	Spaces      []domain.Space
	Links       []domain.Link
	Theorems    []domain.Theorem
	Conditions  []domain.Condition
	Conclusions []domain.Conclusion
}

// Derive applies every theorem to every space once. Derived facts are not fed
// back into further theorem applications. Each (space, theorem, conclusion)
// triple yields at most one computation.
func Derive(in DerivationInput, policy EligibilityPolicy, now time.Time) []domain.Computation {
	linksBySpace := make(map[uuid.UUID]map[uuid.UUID]domain.Link)
	for _, l := range in.Links {
		byProperty, ok := linksBySpace[l.SpaceID]
		if !ok {
			byProperty = make(map[uuid.UUID]domain.Link)
			linksBySpace[l.SpaceID] = byProperty
		}
		byProperty[l.PropertyID] = l
	}

	conditionsByTheorem := make(map[uuid.UUID][]domain.Condition)
	for _, c := range in.Conditions {
		conditionsByTheorem[c.TheoremID] = append(conditionsByTheorem[c.TheoremID], c)
	}
	conclusionsByTheorem := make(map[uuid.UUID][]domain.Conclusion)
	for _, c := range in.Conclusions {
		conclusionsByTheorem[c.TheoremID] = append(conclusionsByTheorem[c.TheoremID], c)
	}
	for id := range conclusionsByTheorem {
		cs := conclusionsByTheorem[id]
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].Position < cs[j].Position })
	}

	var computations []domain.Computation
	for _, space := range in.Spaces {
		spaceLinks := linksBySpace[space.ID]
		if len(spaceLinks) == 0 {
			continue
		}

		for _, theorem := range in.Theorems {
			realEligible, complexEligible := eligibility(policy, conditionsByTheorem[theorem.ID], spaceLinks)
			if !realEligible && !complexEligible {
				continue
			}

			for _, conclusion := range conclusionsByTheorem[theorem.ID] {
				var derivedReal, derivedComplex domain.Bit
				if realEligible {
					derivedReal = domain.RealBit(conclusion.Field)
				}
				if complexEligible {
					derivedComplex = domain.ComplexBit(conclusion.Field)
				}

				field, ok := domain.Merge(derivedReal, derivedComplex)
				if !ok {
					continue
				}

				computations = append(computations, domain.Computation{
					ID:         uuid.New(),
					SpaceID:    space.ID,
					PropertyID: conclusion.PropertyID,
					TheoremID:  theorem.ID,
					Field:      field,
					CreatedAt:  now,
				})
			}
		}
	}

	return computations
}

func eligibility(policy EligibilityPolicy, conditions []domain.Condition, links map[uuid.UUID]domain.Link) (realEligible, complexEligible bool) {
	if policy == EligibilityStrict {
		realEligible, complexEligible = true, true
		for _, c := range conditions {
			condReal, condComplex := domain.Split(c.Field)
			link, ok := links[c.PropertyID]
			if !ok {
				return false, false
			}
			linkReal, linkComplex := domain.Split(link.Field)
			realEligible = realEligible && condReal.Defined() && linkReal == condReal
			complexEligible = complexEligible && condComplex.Defined() && linkComplex == condComplex
		}
		return realEligible, complexEligible
	}

	for _, c := range conditions {
		condReal, condComplex := domain.Split(c.Field)
		link, ok := links[c.PropertyID]
		if !ok {
			return false, false
		}
		linkReal, linkComplex := domain.Split(link.Field)
		if condReal.Defined() && linkReal != condReal {
			return false, false
		}
		if condComplex.Defined() && linkComplex != condComplex {
			return false, false
		}
	}
	return true, true
}

// Recomputer is notified after every change to curated data.
type Recomputer interface {
	RecomputeAfterChange(ctx context.Context) error
}

// ComputationService owns the computation table. Recompute replaces it as a
// whole and never runs concurrently with itself.
type ComputationService struct {
	spaceStore       domain.SpaceStore
	linkStore        domain.LinkStore
	theoremStore     domain.TheoremStore
	computationStore domain.ComputationStore
	logger           *zap.Logger
	metrics          *telemetry.Metrics

	policy EligibilityPolicy
	now    func() time.Time

	mu sync.Mutex
}

func NewComputationService(
	ss domain.SpaceStore,
	ls domain.LinkStore,
	ts domain.TheoremStore,
	cs domain.ComputationStore,
	logger *zap.Logger,
) *ComputationService {
	return &ComputationService{
		spaceStore:       ss,
		linkStore:        ls,
		theoremStore:     ts,
		computationStore: cs,
		logger:           logger,
		policy:           EligibilityMatched,
		now:              time.Now,
	}
}

func (s *ComputationService) SetEligibilityPolicy(p EligibilityPolicy) {
	s.policy = p
}

func (s *ComputationService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

// Recompute derives the computation table from the current curated state and
// stores it in place of the previous one.
func (s *ComputationService) Recompute(ctx context.Context) ([]domain.Computation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	computations, err := s.recompute(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveRecompute(elapsed, len(computations), err)

	if err != nil {
		s.logger.Error("recompute failed", zap.Duration("duration", elapsed), zap.Error(err))
		return nil, err
	}

	s.logger.Info("recompute finished",
		zap.Int("computations", len(computations)),
		zap.String("policy", string(s.policy)),
		zap.Duration("duration", elapsed))
	return computations, nil
}

func (s *ComputationService) RecomputeAfterChange(ctx context.Context) error {
	_, err := s.Recompute(ctx)
	return err
}

func (s *ComputationService) recompute(ctx context.Context) ([]domain.Computation, error) {
	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	computations := Derive(in, s.policy, s.now())

	if err := s.computationStore.ReplaceAll(ctx, computations); err != nil {
		return nil, fmt.Errorf("replace computations: %w", err)
	}
	return computations, nil
}

func (s *ComputationService) load(ctx context.Context) (DerivationInput, error) {
	var in DerivationInput
	var err error

	if in.Spaces, err = s.spaceStore.List(ctx); err != nil {
		return in, fmt.Errorf("load spaces: %w", err)
	}
	if in.Links, err = s.linkStore.List(ctx); err != nil {
		return in, fmt.Errorf("load links: %w", err)
	}
	if in.Theorems, err = s.theoremStore.List(ctx); err != nil {
		return in, fmt.Errorf("load theorems: %w", err)
	}
	if in.Conditions, err = s.theoremStore.ListConditions(ctx); err != nil {
		return in, fmt.Errorf("load conditions: %w", err)
	}
	if in.Conclusions, err = s.theoremStore.ListConclusions(ctx); err != nil {
		return in, fmt.Errorf("load conclusions: %w", err)
	}
	return in, nil
}
