package domain

// Field classifies a space or a property.
type Field string

const (
	FieldReal          Field = "REAL"
	FieldComplex       Field = "COMPLEX"
	FieldRealOrComplex Field = "REAL_OR_COMPLEX"
)

func AllFields() []Field {
	return []Field{FieldReal, FieldComplex, FieldRealOrComplex}
}

func (f Field) Valid() bool {
	switch f {
	case FieldReal, FieldComplex, FieldRealOrComplex:
		return true
	}
	return false
}

// FieldLink asserts membership or non-membership of a property independently
// in the real and the complex subdomain. Each of the eight values is one
// non-empty combination of a real bit and a complex bit.
type FieldLink string

const (
	FieldLinkReal                 FieldLink = "REAL"
	FieldLinkNotReal              FieldLink = "NOT_REAL"
	FieldLinkComplex              FieldLink = "COMPLEX"
	FieldLinkNotComplex           FieldLink = "NOT_COMPLEX"
	FieldLinkRealAndComplex       FieldLink = "REAL_AND_COMPLEX"
	FieldLinkRealAndNotComplex    FieldLink = "REAL_AND_NOT_COMPLEX"
	FieldLinkNotRealAndComplex    FieldLink = "NOT_REAL_AND_COMPLEX"
	FieldLinkNotRealAndNotComplex FieldLink = "NOT_REAL_AND_NOT_COMPLEX"
)

func AllFieldLinks() []FieldLink {
	return []FieldLink{
		FieldLinkReal,
		FieldLinkNotReal,
		FieldLinkComplex,
		FieldLinkNotComplex,
		FieldLinkRealAndComplex,
		FieldLinkRealAndNotComplex,
		FieldLinkNotRealAndComplex,
		FieldLinkNotRealAndNotComplex,
	}
}

func (f FieldLink) Valid() bool {
	r, c := Split(f)
	return r.Defined() || c.Defined()
}

// Bit is a ternary boolean. The zero value is BitUnknown.
type Bit uint8

const (
	BitUnknown Bit = iota
	BitTrue
	BitFalse
)

func BitOf(b bool) Bit {
	if b {
		return BitTrue
	}
	return BitFalse
}

func (b Bit) Defined() bool {
	return b == BitTrue || b == BitFalse
}

func (b Bit) String() string {
	switch b {
	case BitTrue:
		return "true"
	case BitFalse:
		return "false"
	default:
		return "unknown"
	}
}

// Split returns the real bit and the complex bit of f. Values outside the
// enumeration split to (BitUnknown, BitUnknown).
func Split(f FieldLink) (realBit, complexBit Bit) {
	switch f {
	case FieldLinkReal:
		return BitTrue, BitUnknown
	case FieldLinkNotReal:
		return BitFalse, BitUnknown
	case FieldLinkComplex:
		return BitUnknown, BitTrue
	case FieldLinkNotComplex:
		return BitUnknown, BitFalse
	case FieldLinkRealAndComplex:
		return BitTrue, BitTrue
	case FieldLinkRealAndNotComplex:
		return BitTrue, BitFalse
	case FieldLinkNotRealAndComplex:
		return BitFalse, BitTrue
	case FieldLinkNotRealAndNotComplex:
		return BitFalse, BitFalse
	}
	return BitUnknown, BitUnknown
}

// Merge is the inverse of Split. It reports false only for the all-unknown
// pair, which carries no assertion.
func Merge(realBit, complexBit Bit) (FieldLink, bool) {
	switch realBit {
	case BitTrue:
		switch complexBit {
		case BitTrue:
			return FieldLinkRealAndComplex, true
		case BitFalse:
			return FieldLinkRealAndNotComplex, true
		default:
			return FieldLinkReal, true
		}
	case BitFalse:
		switch complexBit {
		case BitTrue:
			return FieldLinkNotRealAndComplex, true
		case BitFalse:
			return FieldLinkNotRealAndNotComplex, true
		default:
			return FieldLinkNotReal, true
		}
	default:
		switch complexBit {
		case BitTrue:
			return FieldLinkComplex, true
		case BitFalse:
			return FieldLinkNotComplex, true
		default:
			return "", false
		}
	}
}

func RealBit(f FieldLink) Bit {
	r, _ := Split(f)
	return r
}

func ComplexBit(f FieldLink) Bit {
	_, c := Split(f)
	return c
}

// ProjectOnto drops the bits of f that a space of the given field cannot
// carry: a REAL space keeps only the real bit, a COMPLEX space only the
// complex bit. It reports false when nothing is left.
func ProjectOnto(f FieldLink, space Field) (FieldLink, bool) {
	realBit, complexBit := Split(f)
	switch space {
	case FieldReal:
		complexBit = BitUnknown
	case FieldComplex:
		realBit = BitUnknown
	}
	return Merge(realBit, complexBit)
}
