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

func newTestPropertyService(f *fixture) *PropertyService {
	return NewPropertyService(f.properties, f.spaces, f.links, f.theorems, f.computations, f.recomputer, zap.NewNop())
}

func TestPropertyService_CreateAndUpdate(t *testing.T) {
	f := newFixture()
	svc := newTestPropertyService(f)

	p := &domain.Property{Name: "separable", Description: "has a countable dense subset", Field: domain.FieldRealOrComplex}
	require.NoError(t, svc.Create(context.Background(), p))

	p.Description = "  countable dense subset  "
	require.NoError(t, svc.Update(context.Background(), p))

	got, err := svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "countable dense subset", got.Description)
	assert.Equal(t, 2, f.recomputer.calls)
}

func TestPropertyService_UpdateMissing(t *testing.T) {
	f := newFixture()
	err := newTestPropertyService(f).Update(context.Background(), &domain.Property{ID: uuid.New(), Name: "x", Description: "y", Field: domain.FieldReal})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyService_DeleteRefusedWhileInUse(t *testing.T) {
	f := newFixture()
	s := f.addSpace("c0", domain.FieldReal)
	linked := f.addProperty("separable", domain.FieldReal)
	inTheorem := f.addProperty("reflexive", domain.FieldReal)
	other := f.addProperty("complete", domain.FieldReal)
	free := f.addProperty("archimedean", domain.FieldReal)
	f.addLink(s, linked, domain.FieldLinkReal)
	f.addTheorem(inTheorem, domain.FieldLinkReal, other, domain.FieldLinkReal)
	svc := newTestPropertyService(f)

	assert.ErrorIs(t, svc.Delete(context.Background(), linked.ID), ErrPropertyInUse)
	assert.ErrorIs(t, svc.Delete(context.Background(), inTheorem.ID), ErrPropertyInUse)
	assert.ErrorIs(t, svc.Delete(context.Background(), other.ID), ErrPropertyInUse)
	assert.NoError(t, svc.Delete(context.Background(), free.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), free.ID), ErrPropertyNotFound)
}

func TestPropertyService_LinkedSpaces(t *testing.T) {
	f := newFixture()
	c0 := f.addSpace("c0", domain.FieldReal)
	l1 := f.addSpace("l1", domain.FieldReal)
	f.addSpace("l2", domain.FieldReal)
	p := f.addProperty("separable", domain.FieldReal)
	f.addLink(l1, p, domain.FieldLinkNotReal)
	f.computations.computations = []domain.Computation{
		{ID: uuid.New(), SpaceID: c0.ID, PropertyID: p.ID, Field: domain.FieldLinkReal},
	}

	result, err := newTestPropertyService(f).LinkedSpaces(context.Background(), p.ID)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "c0", result[0].Space.Symbol)
	assert.True(t, result[0].Computed)
	assert.False(t, result[0].Linked)
	assert.Equal(t, "l1", result[1].Space.Symbol)
	assert.Equal(t, domain.FieldLinkNotReal, result[1].Field)
}

func TestPropertyService_LinkedSpacesProjectsOntoSpaceField(t *testing.T) {
	f := newFixture()
	realSpace := f.addSpace("c0", domain.FieldReal)
	cplx := f.addSpace("H2", domain.FieldComplex)
	both := f.addSpace("l2", domain.FieldRealOrComplex)
	p := f.addProperty("reflexive", domain.FieldRealOrComplex)
	f.computations.computations = []domain.Computation{
		{ID: uuid.New(), SpaceID: realSpace.ID, PropertyID: p.ID, Field: domain.FieldLinkRealAndNotComplex},
		{ID: uuid.New(), SpaceID: cplx.ID, PropertyID: p.ID, Field: domain.FieldLinkRealAndNotComplex},
		{ID: uuid.New(), SpaceID: both.ID, PropertyID: p.ID, Field: domain.FieldLinkRealAndNotComplex},
	}

	result, err := newTestPropertyService(f).LinkedSpaces(context.Background(), p.ID)

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "c0", result[0].Space.Symbol)
	assert.Equal(t, domain.FieldLinkReal, result[0].Field)
	assert.Equal(t, "H2", result[1].Space.Symbol)
	assert.Equal(t, domain.FieldLinkNotComplex, result[1].Field)
	assert.Equal(t, "l2", result[2].Space.Symbol)
	assert.Equal(t, domain.FieldLinkRealAndNotComplex, result[2].Field)
}
