package domain

import (
	"time"

	"github.com/google/uuid"
)

type Space struct {
	ID          uuid.UUID `json:"id"`
	Symbol      string    `json:"symbol"`
	Norm        string    `json:"norm"`
	Description string    `json:"description"`
	Field       Field     `json:"field"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Property struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Field       Field     `json:"field"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Link is a curated assertion that a property holds on a space. There is at
// most one link per (space, property) pair.
type Link struct {
	ID          uuid.UUID `json:"id"`
	SpaceID     uuid.UUID `json:"space_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	Field       FieldLink `json:"field"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SpaceCompatible reports whether properties of field p may be listed as link
// candidates on a space of field s.
func SpaceCompatible(s, p Field) bool {
	switch s {
	case FieldReal:
		return p == FieldReal || p == FieldRealOrComplex
	case FieldComplex:
		return p == FieldComplex || p == FieldRealOrComplex
	case FieldRealOrComplex:
		return p.Valid()
	}
	return false
}
