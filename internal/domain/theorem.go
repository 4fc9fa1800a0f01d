package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxConditions  = 5
	MaxConclusions = 5
)

type Theorem struct {
	ID          uuid.UUID    `json:"id"`
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Conditions  []Condition  `json:"conditions,omitempty"`
	Conclusions []Conclusion `json:"conclusions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Condition struct {
	ID         uuid.UUID `json:"id"`
	TheoremID  uuid.UUID `json:"theorem_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Field      FieldLink `json:"field"`
	Position   int       `json:"position"`
}

type Conclusion struct {
	ID         uuid.UUID `json:"id"`
	TheoremID  uuid.UUID `json:"theorem_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Field      FieldLink `json:"field"`
	Position   int       `json:"position"`
}

// Mentions reports whether any condition or conclusion of t is on propertyID.
func (t *Theorem) Mentions(propertyID uuid.UUID) bool {
	for _, c := range t.Conditions {
		if c.PropertyID == propertyID {
			return true
		}
	}
	for _, c := range t.Conclusions {
		if c.PropertyID == propertyID {
			return true
		}
	}
	return false
}
