package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBackupService_Export(t *testing.T) {
	f := newFixture()
	s := f.addSpace("c0", domain.FieldReal)
	p := f.addProperty("a", domain.FieldReal)
	q := f.addProperty("b", domain.FieldReal)
	f.addLink(s, p, domain.FieldLinkReal)
	f.addTheorem(p, domain.FieldLinkReal, q, domain.FieldLinkReal)
	svc := NewBackupService(f.spaces, f.properties, f.links, f.theorems, &mockBackupStore{}, f.recomputer, zap.NewNop())

	b, err := svc.Export(context.Background())

	require.NoError(t, err)
	assert.Len(t, b.Spaces, 1)
	assert.Len(t, b.Properties, 2)
	assert.Len(t, b.Links, 1)
	require.Len(t, b.Theorems, 1)
	assert.Nil(t, b.Theorems[0].Conditions)
	assert.Len(t, b.Conditions, 1)
	assert.Len(t, b.Conclusions, 1)
	// Export must not strip the stored theorem.
	assert.Len(t, f.theorems.theorems[b.Theorems[0].ID].Conditions, 1)
}

func backupFixture() *domain.Backup {
	s := domain.Space{ID: uuid.New(), Symbol: "c0", Norm: "sup", Description: "d", Field: domain.FieldReal}
	p := domain.Property{ID: uuid.New(), Name: "a", Description: "d", Field: domain.FieldReal}
	q := domain.Property{ID: uuid.New(), Name: "b", Description: "d", Field: domain.FieldReal}
	theoremID := uuid.New()
	return &domain.Backup{
		Spaces:     []domain.Space{s},
		Properties: []domain.Property{p, q},
		Links:      []domain.Link{{ID: uuid.New(), SpaceID: s.ID, PropertyID: p.ID, Field: domain.FieldLinkReal}},
		Theorems: []domain.Theorem{{
			ID:          theoremID,
			Conditions:  []domain.Condition{{ID: uuid.New(), PropertyID: p.ID, Field: domain.FieldLinkReal}},
			Conclusions: []domain.Conclusion{{ID: uuid.New(), PropertyID: q.ID, Field: domain.FieldLinkReal}},
		}},
	}
}

func TestBackupService_ImportReplacesAndRecomputes(t *testing.T) {
	f := newFixture()
	bs := &mockBackupStore{}
	bs.On("ReplaceCurated", mock.Anything, mock.MatchedBy(func(b *domain.Backup) bool {
		return len(b.Conditions) == 1 && len(b.Conclusions) == 1 && b.Theorems[0].Conditions == nil &&
			b.Conditions[0].TheoremID == b.Theorems[0].ID
	})).Return(nil)
	r := &mockRecomputer{}
	r.On("RecomputeAfterChange", mock.Anything).Return(nil).Once()
	svc := NewBackupService(f.spaces, f.properties, f.links, f.theorems, bs, r, zap.NewNop())

	err := svc.Import(context.Background(), backupFixture())

	require.NoError(t, err)
	bs.AssertExpectations(t)
	r.AssertExpectations(t)
}

func TestBackupService_ImportRejectsInvalid(t *testing.T) {
	f := newFixture()
	bs := &mockBackupStore{}
	r := &mockRecomputer{}
	svc := NewBackupService(f.spaces, f.properties, f.links, f.theorems, bs, r, zap.NewNop())

	b := backupFixture()
	b.Links[0].Field = "SOMETIMES"
	b.Theorems[0].Conclusions[0].PropertyID = uuid.New()

	err := svc.Import(context.Background(), b)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "links[0]")
	assert.Contains(t, verr.Fields, "conclusions[0]")
	bs.AssertNotCalled(t, "ReplaceCurated", mock.Anything, mock.Anything)
	r.AssertNotCalled(t, "RecomputeAfterChange", mock.Anything)
}

func TestBackupService_ImportStoreFailure(t *testing.T) {
	f := newFixture()
	bs := &mockBackupStore{}
	boom := errors.New("tx aborted")
	bs.On("ReplaceCurated", mock.Anything, mock.Anything).Return(boom)
	r := &mockRecomputer{}
	svc := NewBackupService(f.spaces, f.properties, f.links, f.theorems, bs, r, zap.NewNop())

	err := svc.Import(context.Background(), backupFixture())

	assert.ErrorIs(t, err, boom)
	r.AssertNotCalled(t, "RecomputeAfterChange", mock.Anything)
}

func TestBackupService_ImportAssignsTopLevelPartIDs(t *testing.T) {
	b := backupFixture()
	theorem := &b.Theorems[0]
	b.Conditions = []domain.Condition{
		{TheoremID: theorem.ID, PropertyID: b.Properties[0].ID, Field: domain.FieldLinkReal},
		{TheoremID: theorem.ID, PropertyID: b.Properties[1].ID, Field: domain.FieldLinkNotReal},
	}
	b.Conclusions = []domain.Conclusion{
		{TheoremID: theorem.ID, PropertyID: b.Properties[1].ID, Field: domain.FieldLinkReal},
		{TheoremID: theorem.ID, PropertyID: b.Properties[0].ID, Field: domain.FieldLinkNotReal},
	}
	theorem.Conditions = nil
	theorem.Conclusions = nil

	var stored *domain.Backup
	bs := &mockBackupStore{}
	bs.On("ReplaceCurated", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Backup) }).
		Return(nil)
	f := newFixture()
	svc := NewBackupService(f.spaces, f.properties, f.links, f.theorems, bs, f.recomputer, zap.NewNop())

	require.NoError(t, svc.Import(context.Background(), b))

	require.NotNil(t, stored)
	seen := make(map[uuid.UUID]bool)
	for _, c := range stored.Conditions {
		assert.NotEqual(t, uuid.Nil, c.ID)
		seen[c.ID] = true
	}
	for _, c := range stored.Conclusions {
		assert.NotEqual(t, uuid.Nil, c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 4)
}
