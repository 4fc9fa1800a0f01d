package service

import (
	"context"
	"testing"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLinkService(f *fixture) *LinkService {
	return NewLinkService(f.links, f.spaces, f.properties, f.computations, f.recomputer, zap.NewNop())
}

func TestLinkService_Upsert(t *testing.T) {
	f := newFixture()
	s := f.addSpace("c0", domain.FieldReal)
	p := f.addProperty("separable", domain.FieldRealOrComplex)
	svc := newTestLinkService(f)

	blank := "  "
	l := &domain.Link{SpaceID: s.ID, PropertyID: p.ID, Field: domain.FieldLinkReal, Description: &blank}
	require.NoError(t, svc.Upsert(context.Background(), l))
	assert.Nil(t, l.Description)
	firstID := l.ID

	again := &domain.Link{SpaceID: s.ID, PropertyID: p.ID, Field: domain.FieldLinkNotReal}
	require.NoError(t, svc.Upsert(context.Background(), again))

	require.Len(t, f.links.links, 1)
	assert.Equal(t, firstID, f.links.links[0].ID)
	assert.Equal(t, domain.FieldLinkNotReal, f.links.links[0].Field)
	assert.Equal(t, 2, f.recomputer.calls)
}

func TestLinkService_UpsertFieldNotAllowed(t *testing.T) {
	f := newFixture()
	s := f.addSpace("c0", domain.FieldReal)
	p := f.addProperty("separable", domain.FieldRealOrComplex)
	q := f.addProperty("holomorphic", domain.FieldComplex)
	svc := newTestLinkService(f)

	err := svc.Upsert(context.Background(), &domain.Link{SpaceID: s.ID, PropertyID: p.ID, Field: domain.FieldLinkComplex})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrFieldNotAllowed.Error(), verr.Fields["field"])

	err = svc.Upsert(context.Background(), &domain.Link{SpaceID: s.ID, PropertyID: q.ID, Field: domain.FieldLinkReal})
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, f.links.links)
	assert.Zero(t, f.recomputer.calls)
}

func TestLinkService_UpsertMissingPair(t *testing.T) {
	f := newFixture()
	s := f.addSpace("c0", domain.FieldReal)
	svc := newTestLinkService(f)

	err := svc.Upsert(context.Background(), &domain.Link{SpaceID: uuid.New(), PropertyID: uuid.New(), Field: domain.FieldLinkReal})
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	err = svc.Upsert(context.Background(), &domain.Link{SpaceID: s.ID, PropertyID: uuid.New(), Field: domain.FieldLinkReal})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestLinkService_Delete(t *testing.T) {
	f := newFixture()
	s := f.addSpace("c0", domain.FieldReal)
	p := f.addProperty("separable", domain.FieldReal)
	f.addLink(s, p, domain.FieldLinkReal)
	svc := newTestLinkService(f)

	require.NoError(t, svc.Delete(context.Background(), s.ID, p.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), s.ID, p.ID), ErrLinkNotFound)
}

func TestLinkService_Detail(t *testing.T) {
	f := newFixture()
	s := f.addSpace("l2", domain.FieldRealOrComplex)
	p := f.addProperty("hilbert", domain.FieldRealOrComplex)
	q := f.addProperty("reflexive", domain.FieldRealOrComplex)
	f.addLink(s, p, domain.FieldLinkReal)
	f.computations.computations = []domain.Computation{
		{ID: uuid.New(), SpaceID: s.ID, PropertyID: p.ID, Field: domain.FieldLinkNotComplex},
	}
	svc := newTestLinkService(f)

	detail, err := svc.Detail(context.Background(), s.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FieldLinkRealAndNotComplex, detail.Field)
	require.NotNil(t, detail.Link)
	assert.Len(t, detail.Computations, 1)

	_, err = svc.Detail(context.Background(), s.ID, q.ID)
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestLinkService_DetailContradictoryComputations(t *testing.T) {
	f := newFixture()
	s := f.addSpace("c0", domain.FieldReal)
	a := f.addProperty("separable", domain.FieldReal)
	b := f.addProperty("banach", domain.FieldReal)
	q := f.addProperty("reflexive", domain.FieldReal)
	f.addLink(s, a, domain.FieldLinkReal)
	f.addLink(s, b, domain.FieldLinkReal)
	f.addTheorem(a, domain.FieldLinkReal, q, domain.FieldLinkReal)
	f.addTheorem(b, domain.FieldLinkReal, q, domain.FieldLinkNotReal)

	computations, err := newTestComputationService(f).Recompute(context.Background())
	require.NoError(t, err)
	require.Len(t, computations, 2)

	detail, err := newTestLinkService(f).Detail(context.Background(), s.ID, q.ID)

	require.NoError(t, err)
	assert.True(t, detail.Contradictory)
	assert.Empty(t, detail.Field)
	assert.Nil(t, detail.Link)
	assert.Len(t, detail.Computations, 2)
}

func TestLinkService_DetailProjectsOntoSpaceField(t *testing.T) {
	f := newFixture()
	s := f.addSpace("c0", domain.FieldReal)
	a := f.addProperty("separable", domain.FieldReal)
	q := f.addProperty("reflexive", domain.FieldRealOrComplex)
	f.addLink(s, a, domain.FieldLinkReal)
	f.addTheorem(a, domain.FieldLinkReal, q, domain.FieldLinkRealAndComplex)

	computations, err := newTestComputationService(f).Recompute(context.Background())
	require.NoError(t, err)
	require.Len(t, computations, 1)
	assert.Equal(t, domain.FieldLinkRealAndComplex, computations[0].Field)

	detail, err := newTestLinkService(f).Detail(context.Background(), s.ID, q.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.FieldLinkReal, detail.Field)
	assert.Contains(t, AllowedLinkFields(s.Field, q.Field), detail.Field)
	assert.False(t, detail.Contradictory)
}
