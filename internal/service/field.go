package service

import "github.com/Wilmersdorf/spaceoverview/internal/domain"

// CombinedField reconciles the curated link of a (space, property) pair with
// every computation targeting that pair. Each dimension is resolved on its
// own: a defined link bit always wins, otherwise the computations' bit is
// used if they all agree on it. The result is false when neither the link
// nor the computations settle any bit.
func CombinedField(link *domain.Link, computations []domain.Computation) (domain.FieldLink, bool) {
	var linkReal, linkComplex domain.Bit
	if link != nil {
		linkReal, linkComplex = domain.Split(link.Field)
	}

	computedReal, _ := agreedBit(computations, domain.RealBit)
	computedComplex, _ := agreedBit(computations, domain.ComplexBit)

	return domain.Merge(combineBit(linkReal, computedReal), combineBit(linkComplex, computedComplex))
}

// PairField is what the API reports for a (space, property) pair. Field is
// empty when no bit is settled. Contradictory is set when the link leaves a
// dimension open and the computations disagree on it.
type PairField struct {
	Field         domain.FieldLink
	Contradictory bool
}

// Known reports whether the pair has anything worth listing.
func (pf PairField) Known() bool {
	return pf.Field != "" || pf.Contradictory
}

// ReportedField projects the link and the computations onto the space's
// field before combining them, so a REAL space only ever reports its real
// bit and a COMPLEX space its complex bit.
func ReportedField(space domain.Field, link *domain.Link, computations []domain.Computation) PairField {
	var linkReal, linkComplex domain.Bit
	if link != nil {
		if f, ok := domain.ProjectOnto(link.Field, space); ok {
			linkReal, linkComplex = domain.Split(f)
		}
	}

	projected := make([]domain.Computation, 0, len(computations))
	for _, c := range computations {
		f, ok := domain.ProjectOnto(c.Field, space)
		if !ok {
			continue
		}
		c.Field = f
		projected = append(projected, c)
	}

	realBit, realConflict := resolveBit(linkReal, projected, domain.RealBit)
	complexBit, complexConflict := resolveBit(linkComplex, projected, domain.ComplexBit)

	field, _ := domain.Merge(realBit, complexBit)
	return PairField{Field: field, Contradictory: realConflict || complexConflict}
}

func resolveBit(linkBit domain.Bit, computations []domain.Computation, project func(domain.FieldLink) domain.Bit) (domain.Bit, bool) {
	if linkBit.Defined() {
		return linkBit, false
	}
	return agreedBit(computations, project)
}

// agreedBit returns the single defined bit the computations project to, or
// BitUnknown if there is none. The second result is true when two
// computations carry opposite bits.
func agreedBit(computations []domain.Computation, project func(domain.FieldLink) domain.Bit) (domain.Bit, bool) {
	agreed := domain.BitUnknown
	for _, c := range computations {
		b := project(c.Field)
		if !b.Defined() {
			continue
		}
		if agreed == domain.BitUnknown {
			agreed = b
		} else if agreed != b {
			return domain.BitUnknown, true
		}
	}
	return agreed, false
}

func combineBit(linkBit, computedBit domain.Bit) domain.Bit {
	if linkBit.Defined() {
		return linkBit
	}
	return computedBit
}
