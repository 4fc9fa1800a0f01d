package service

import (
	"context"
	"fmt"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BackupService struct {
	spaceStore    domain.SpaceStore
	propertyStore domain.PropertyStore
	linkStore     domain.LinkStore
	theoremStore  domain.TheoremStore
	backupStore   domain.BackupStore
	recomputer    Recomputer
	logger        *zap.Logger
}

func NewBackupService(
	ss domain.SpaceStore,
	ps domain.PropertyStore,
	ls domain.LinkStore,
	ts domain.TheoremStore,
	bs domain.BackupStore,
	r Recomputer,
	logger *zap.Logger,
) *BackupService {
	return &BackupService{
		spaceStore:    ss,
		propertyStore: ps,
		linkStore:     ls,
		theoremStore:  ts,
		backupStore:   bs,
		recomputer:    r,
		logger:        logger,
	}
}

// Export returns every curated row. Conditions and conclusions are listed at
// the top level only, not nested in their theorems.
func (s *BackupService) Export(ctx context.Context) (*domain.Backup, error) {
	b := &domain.Backup{}
	var err error

	if b.Spaces, err = s.spaceStore.List(ctx); err != nil {
		return nil, fmt.Errorf("export spaces: %w", err)
	}
	if b.Properties, err = s.propertyStore.List(ctx); err != nil {
		return nil, fmt.Errorf("export properties: %w", err)
	}
	if b.Links, err = s.linkStore.List(ctx); err != nil {
		return nil, fmt.Errorf("export links: %w", err)
	}
	if b.Theorems, err = s.theoremStore.List(ctx); err != nil {
		return nil, fmt.Errorf("export theorems: %w", err)
	}
	if b.Conditions, err = s.theoremStore.ListConditions(ctx); err != nil {
		return nil, fmt.Errorf("export conditions: %w", err)
	}
	if b.Conclusions, err = s.theoremStore.ListConclusions(ctx); err != nil {
		return nil, fmt.Errorf("export conclusions: %w", err)
	}

	for i := range b.Theorems {
		b.Theorems[i].Conditions = nil
		b.Theorems[i].Conclusions = nil
	}
	return b, nil
}

// Import replaces all curated data with b and recomputes. Conditions and
// conclusions nested in b's theorems are accepted as well as top-level ones.
func (s *BackupService) Import(ctx context.Context, b *domain.Backup) error {
	normalizeBackup(b)
	if err := validateBackup(b); err != nil {
		return err
	}

	if err := s.backupStore.ReplaceCurated(ctx, b); err != nil {
		return fmt.Errorf("replace curated data: %w", err)
	}

	s.logger.Info("backup imported",
		zap.Int("spaces", len(b.Spaces)),
		zap.Int("properties", len(b.Properties)),
		zap.Int("links", len(b.Links)),
		zap.Int("theorems", len(b.Theorems)))
	return recomputeAfter(ctx, s.recomputer)
}

// normalizeBackup moves nested theorem parts to the top level and assigns
// ids to rows that nothing else references.
func normalizeBackup(b *domain.Backup) {
	for i := range b.Links {
		if b.Links[i].ID == uuid.Nil {
			b.Links[i].ID = uuid.New()
		}
	}
	for i := range b.Conditions {
		if b.Conditions[i].ID == uuid.Nil {
			b.Conditions[i].ID = uuid.New()
		}
	}
	for i := range b.Conclusions {
		if b.Conclusions[i].ID == uuid.Nil {
			b.Conclusions[i].ID = uuid.New()
		}
	}
	for i := range b.Theorems {
		t := &b.Theorems[i]
		for _, c := range t.Conditions {
			c.TheoremID = t.ID
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			b.Conditions = append(b.Conditions, c)
		}
		for _, c := range t.Conclusions {
			c.TheoremID = t.ID
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			b.Conclusions = append(b.Conclusions, c)
		}
		t.Conditions = nil
		t.Conclusions = nil
	}
}

func validateBackup(b *domain.Backup) error {
	v := &ValidationError{}

	spaces := make(map[uuid.UUID]bool, len(b.Spaces))
	for i, sp := range b.Spaces {
		if sp.ID == uuid.Nil {
			v.add(fmt.Sprintf("spaces[%d].id", i), "missing id")
		}
		if !sp.Field.Valid() {
			v.add(fmt.Sprintf("spaces[%d].field", i), ErrFieldNotAllowed.Error())
		}
		spaces[sp.ID] = true
	}
	properties := make(map[uuid.UUID]bool, len(b.Properties))
	for i, p := range b.Properties {
		if p.ID == uuid.Nil {
			v.add(fmt.Sprintf("properties[%d].id", i), "missing id")
		}
		if !p.Field.Valid() {
			v.add(fmt.Sprintf("properties[%d].field", i), ErrFieldNotAllowed.Error())
		}
		properties[p.ID] = true
	}
	for i, l := range b.Links {
		key := fmt.Sprintf("links[%d]", i)
		switch {
		case !l.Field.Valid():
			v.add(key, ErrFieldNotAllowed.Error())
		case !spaces[l.SpaceID]:
			v.add(key, ErrSpaceNotFound.Error())
		case !properties[l.PropertyID]:
			v.add(key, ErrPropertyNotFound.Error())
		}
	}

	theorems := make(map[uuid.UUID]bool, len(b.Theorems))
	for i, t := range b.Theorems {
		if t.ID == uuid.Nil {
			v.add(fmt.Sprintf("theorems[%d].id", i), "missing id")
		}
		theorems[t.ID] = true
	}
	for i, c := range b.Conditions {
		validateBackupPart(v, fmt.Sprintf("conditions[%d]", i), c.TheoremID, c.PropertyID, c.Field, theorems, properties)
	}
	for i, c := range b.Conclusions {
		validateBackupPart(v, fmt.Sprintf("conclusions[%d]", i), c.TheoremID, c.PropertyID, c.Field, theorems, properties)
	}

	return v.err()
}

func validateBackupPart(v *ValidationError, key string, theoremID, propertyID uuid.UUID, f domain.FieldLink, theorems, properties map[uuid.UUID]bool) {
	switch {
	case !f.Valid():
		v.add(key, ErrFieldNotAllowed.Error())
	case !theorems[theoremID]:
		v.add(key, ErrTheoremNotFound.Error())
	case !properties[propertyID]:
		v.add(key, ErrPropertyNotFound.Error())
	}
}
