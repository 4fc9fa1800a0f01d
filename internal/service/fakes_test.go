package service

import (
	"context"
	"sync"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockSpaceStore implements domain.SpaceStore for testing.
type mockSpaceStore struct {
	spaces map[uuid.UUID]*domain.Space
}

func newMockSpaceStore() *mockSpaceStore {
	return &mockSpaceStore{spaces: make(map[uuid.UUID]*domain.Space)}
}

func (m *mockSpaceStore) Create(ctx context.Context, s *domain.Space) error {
	for _, existing := range m.spaces {
		if existing.Symbol == s.Symbol {
			return store.ErrConflict
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	m.spaces[s.ID] = &cp
	return nil
}

func (m *mockSpaceStore) Update(ctx context.Context, s *domain.Space) error {
	if _, ok := m.spaces[s.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *s
	m.spaces[s.ID] = &cp
	return nil
}

func (m *mockSpaceStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.spaces[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.spaces, id)
	return nil
}

func (m *mockSpaceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Space, error) {
	s, ok := m.spaces[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSpaceStore) List(ctx context.Context) ([]domain.Space, error) {
	var result []domain.Space
	for _, s := range m.spaces {
		result = append(result, *s)
	}
	return result, nil
}

// mockPropertyStore implements domain.PropertyStore for testing.
type mockPropertyStore struct {
	properties map[uuid.UUID]*domain.Property
}

func newMockPropertyStore() *mockPropertyStore {
	return &mockPropertyStore{properties: make(map[uuid.UUID]*domain.Property)}
}

func (m *mockPropertyStore) Create(ctx context.Context, p *domain.Property) error {
	for _, existing := range m.properties {
		if existing.Name == p.Name {
			return store.ErrConflict
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.properties[p.ID] = &cp
	return nil
}

func (m *mockPropertyStore) Update(ctx context.Context, p *domain.Property) error {
	if _, ok := m.properties[p.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *p
	m.properties[p.ID] = &cp
	return nil
}

func (m *mockPropertyStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.properties[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.properties, id)
	return nil
}

func (m *mockPropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPropertyStore) List(ctx context.Context) ([]domain.Property, error) {
	var result []domain.Property
	for _, p := range m.properties {
		result = append(result, *p)
	}
	return result, nil
}

// mockLinkStore implements domain.LinkStore for testing.
type mockLinkStore struct {
	links []domain.Link
}

func newMockLinkStore() *mockLinkStore {
	return &mockLinkStore{}
}

func (m *mockLinkStore) Upsert(ctx context.Context, l *domain.Link) error {
	for i := range m.links {
		if m.links[i].SpaceID == l.SpaceID && m.links[i].PropertyID == l.PropertyID {
			l.ID = m.links[i].ID
			m.links[i] = *l
			return nil
		}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	m.links = append(m.links, *l)
	return nil
}

func (m *mockLinkStore) Delete(ctx context.Context, spaceID, propertyID uuid.UUID) error {
	for i := range m.links {
		if m.links[i].SpaceID == spaceID && m.links[i].PropertyID == propertyID {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockLinkStore) Get(ctx context.Context, spaceID, propertyID uuid.UUID) (*domain.Link, error) {
	for _, l := range m.links {
		if l.SpaceID == spaceID && l.PropertyID == propertyID {
			cp := l
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockLinkStore) ListBySpace(ctx context.Context, spaceID uuid.UUID) ([]domain.Link, error) {
	var result []domain.Link
	for _, l := range m.links {
		if l.SpaceID == spaceID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLinkStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.Link, error) {
	var result []domain.Link
	for _, l := range m.links {
		if l.PropertyID == propertyID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLinkStore) List(ctx context.Context) ([]domain.Link, error) {
	return append([]domain.Link(nil), m.links...), nil
}

// mockTheoremStore implements domain.TheoremStore for testing.
type mockTheoremStore struct {
	theorems map[uuid.UUID]*domain.Theorem
}

func newMockTheoremStore() *mockTheoremStore {
	return &mockTheoremStore{theorems: make(map[uuid.UUID]*domain.Theorem)}
}

func (m *mockTheoremStore) Create(ctx context.Context, t *domain.Theorem) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	m.theorems[t.ID] = &cp
	return nil
}

func (m *mockTheoremStore) Update(ctx context.Context, t *domain.Theorem) error {
	if _, ok := m.theorems[t.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *t
	m.theorems[t.ID] = &cp
	return nil
}

func (m *mockTheoremStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.theorems[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.theorems, id)
	return nil
}

func (m *mockTheoremStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Theorem, error) {
	t, ok := m.theorems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTheoremStore) List(ctx context.Context) ([]domain.Theorem, error) {
	var result []domain.Theorem
	for _, t := range m.theorems {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTheoremStore) ListConditions(ctx context.Context) ([]domain.Condition, error) {
	var result []domain.Condition
	for _, t := range m.theorems {
		result = append(result, t.Conditions...)
	}
	return result, nil
}

func (m *mockTheoremStore) ListConclusions(ctx context.Context) ([]domain.Conclusion, error) {
	var result []domain.Conclusion
	for _, t := range m.theorems {
		result = append(result, t.Conclusions...)
	}
	return result, nil
}

func (m *mockTheoremStore) CountByProperty(ctx context.Context, propertyID uuid.UUID) (int, error) {
	count := 0
	for _, t := range m.theorems {
		if t.Mentions(propertyID) {
			count++
		}
	}
	return count, nil
}

// mockComputationStore implements domain.ComputationStore for testing.
type mockComputationStore struct {
	mu           sync.Mutex
	computations []domain.Computation
	replaceErr   error
	replaces     int
}

func newMockComputationStore() *mockComputationStore {
	return &mockComputationStore{}
}

func (m *mockComputationStore) List(ctx context.Context) ([]domain.Computation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Computation(nil), m.computations...), nil
}

func (m *mockComputationStore) filter(keep func(domain.Computation) bool) []domain.Computation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Computation
	for _, c := range m.computations {
		if keep(c) {
			result = append(result, c)
		}
	}
	return result
}

func (m *mockComputationStore) ListBySpace(ctx context.Context, spaceID uuid.UUID) ([]domain.Computation, error) {
	return m.filter(func(c domain.Computation) bool { return c.SpaceID == spaceID }), nil
}

func (m *mockComputationStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.Computation, error) {
	return m.filter(func(c domain.Computation) bool { return c.PropertyID == propertyID }), nil
}

func (m *mockComputationStore) ListBySpaceAndProperty(ctx context.Context, spaceID, propertyID uuid.UUID) ([]domain.Computation, error) {
	return m.filter(func(c domain.Computation) bool {
		return c.SpaceID == spaceID && c.PropertyID == propertyID
	}), nil
}

func (m *mockComputationStore) ReplaceAll(ctx context.Context, cs []domain.Computation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaces++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.computations = append([]domain.Computation(nil), cs...)
	return nil
}

// mockBackupStore implements domain.BackupStore for testing.
type mockBackupStore struct {
	mock.Mock
}

func (m *mockBackupStore) ReplaceCurated(ctx context.Context, b *domain.Backup) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// mockRecomputer implements Recomputer for testing.
type mockRecomputer struct {
	mock.Mock
}

func (m *mockRecomputer) RecomputeAfterChange(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// countingRecomputer records how often a recompute was requested.
type countingRecomputer struct {
	calls int
}

func (r *countingRecomputer) RecomputeAfterChange(ctx context.Context) error {
	r.calls++
	return nil
}

type fixture struct {
	spaces       *mockSpaceStore
	properties   *mockPropertyStore
	links        *mockLinkStore
	theorems     *mockTheoremStore
	computations *mockComputationStore
	recomputer   *countingRecomputer
}

func newFixture() *fixture {
	return &fixture{
		spaces:       newMockSpaceStore(),
		properties:   newMockPropertyStore(),
		links:        newMockLinkStore(),
		theorems:     newMockTheoremStore(),
		computations: newMockComputationStore(),
		recomputer:   &countingRecomputer{},
	}
}

func (f *fixture) addSpace(symbol string, field domain.Field) domain.Space {
	s := domain.Space{ID: uuid.New(), Symbol: symbol, Norm: "sup", Description: symbol + " space", Field: field}
	f.spaces.spaces[s.ID] = &s
	return s
}

func (f *fixture) addProperty(name string, field domain.Field) domain.Property {
	p := domain.Property{ID: uuid.New(), Name: name, Description: name + " property", Field: field}
	f.properties.properties[p.ID] = &p
	return p
}

func (f *fixture) addLink(s domain.Space, p domain.Property, field domain.FieldLink) domain.Link {
	l := domain.Link{ID: uuid.New(), SpaceID: s.ID, PropertyID: p.ID, Field: field}
	f.links.links = append(f.links.links, l)
	return l
}

// addTheorem stores a theorem with one condition and one conclusion.
func (f *fixture) addTheorem(cond domain.Property, condField domain.FieldLink, concl domain.Property, conclField domain.FieldLink) domain.Theorem {
	id := uuid.New()
	t := domain.Theorem{
		ID:          id,
		Conditions:  []domain.Condition{{ID: uuid.New(), TheoremID: id, PropertyID: cond.ID, Field: condField}},
		Conclusions: []domain.Conclusion{{ID: uuid.New(), TheoremID: id, PropertyID: concl.ID, Field: conclField}},
	}
	f.theorems.theorems[id] = &t
	return t
}
