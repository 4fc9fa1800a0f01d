package domain

import (
	"time"

	"github.com/google/uuid"
)

// Computation is a derived fact: theorem TheoremID applied to the links of
// space SpaceID yields Field for property PropertyID. Computations are owned
// by the inference engine and replaced as a whole on every recompute.
type Computation struct {
	ID         uuid.UUID `json:"id"`
	SpaceID    uuid.UUID `json:"space_id"`
	PropertyID uuid.UUID `json:"property_id"`
	TheoremID  uuid.UUID `json:"theorem_id"`
	Field      FieldLink `json:"field"`
	CreatedAt  time.Time `json:"created_at"`
}

// ComputationKey identifies a computation independently of its row id.
type ComputationKey struct {
	SpaceID    uuid.UUID
	PropertyID uuid.UUID
	TheoremID  uuid.UUID
}

func (c Computation) Key() ComputationKey {
	return ComputationKey{SpaceID: c.SpaceID, PropertyID: c.PropertyID, TheoremID: c.TheoremID}
}
