package handlers

import (
	"context"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockSpaceService struct{ mock.Mock }

func (m *mockSpaceService) Create(ctx context.Context, sp *domain.Space) error {
	return m.Called(ctx, sp).Error(0)
}

func (m *mockSpaceService) Update(ctx context.Context, sp *domain.Space) error {
	return m.Called(ctx, sp).Error(0)
}

func (m *mockSpaceService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSpaceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Space, error) {
	args := m.Called(ctx, id)
	sp, _ := args.Get(0).(*domain.Space)
	return sp, args.Error(1)
}

func (m *mockSpaceService) List(ctx context.Context) ([]domain.Space, error) {
	args := m.Called(ctx)
	spaces, _ := args.Get(0).([]domain.Space)
	return spaces, args.Error(1)
}

func (m *mockSpaceService) LinkedProperties(ctx context.Context, spaceID uuid.UUID) ([]service.LinkedProperty, error) {
	args := m.Called(ctx, spaceID)
	lp, _ := args.Get(0).([]service.LinkedProperty)
	return lp, args.Error(1)
}

func (m *mockSpaceService) UnlinkedProperties(ctx context.Context, spaceID uuid.UUID) ([]domain.Property, error) {
	args := m.Called(ctx, spaceID)
	ps, _ := args.Get(0).([]domain.Property)
	return ps, args.Error(1)
}

type mockPropertyService struct{ mock.Mock }

func (m *mockPropertyService) Create(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyService) Update(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPropertyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Property)
	return p, args.Error(1)
}

func (m *mockPropertyService) List(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Property)
	return ps, args.Error(1)
}

func (m *mockPropertyService) LinkedSpaces(ctx context.Context, propertyID uuid.UUID) ([]service.LinkedSpace, error) {
	args := m.Called(ctx, propertyID)
	ls, _ := args.Get(0).([]service.LinkedSpace)
	return ls, args.Error(1)
}

type mockLinkService struct{ mock.Mock }

func (m *mockLinkService) Upsert(ctx context.Context, l *domain.Link) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLinkService) Delete(ctx context.Context, spaceID, propertyID uuid.UUID) error {
	return m.Called(ctx, spaceID, propertyID).Error(0)
}

func (m *mockLinkService) Detail(ctx context.Context, spaceID, propertyID uuid.UUID) (*service.LinkDetail, error) {
	args := m.Called(ctx, spaceID, propertyID)
	d, _ := args.Get(0).(*service.LinkDetail)
	return d, args.Error(1)
}

type mockTheoremService struct{ mock.Mock }

func (m *mockTheoremService) Create(ctx context.Context, t *domain.Theorem) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTheoremService) Update(ctx context.Context, t *domain.Theorem) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTheoremService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTheoremService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Theorem, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*domain.Theorem)
	return t, args.Error(1)
}

func (m *mockTheoremService) List(ctx context.Context, propertyID *uuid.UUID) ([]domain.Theorem, error) {
	args := m.Called(ctx, propertyID)
	ts, _ := args.Get(0).([]domain.Theorem)
	return ts, args.Error(1)
}

type mockEngine struct{ mock.Mock }

func (m *mockEngine) Recompute(ctx context.Context) ([]domain.Computation, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]domain.Computation)
	return cs, args.Error(1)
}

type mockBackupService struct{ mock.Mock }

func (m *mockBackupService) Export(ctx context.Context) (*domain.Backup, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).(*domain.Backup)
	return b, args.Error(1)
}

func (m *mockBackupService) Import(ctx context.Context, b *domain.Backup) error {
	return m.Called(ctx, b).Error(0)
}
