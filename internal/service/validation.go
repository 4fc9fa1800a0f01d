package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
)

const (
	maxShortText = 128
	maxLongText  = 1024
)

var (
	realLinks    = []domain.FieldLink{domain.FieldLinkReal, domain.FieldLinkNotReal}
	complexLinks = []domain.FieldLink{domain.FieldLinkComplex, domain.FieldLinkNotComplex}
)

// AllowedLinkFields lists the assertions a link may carry between a space and
// a property of the given fields.
func AllowedLinkFields(space, property domain.Field) []domain.FieldLink {
	switch {
	case space == domain.FieldRealOrComplex && property == domain.FieldRealOrComplex:
		return domain.AllFieldLinks()
	case space == domain.FieldReal && property != domain.FieldComplex,
		space == domain.FieldRealOrComplex && property == domain.FieldReal:
		return realLinks
	case space == domain.FieldComplex && property != domain.FieldReal,
		space == domain.FieldRealOrComplex && property == domain.FieldComplex:
		return complexLinks
	}
	return nil
}

// AllowedTheoremFields lists the assertions a condition or conclusion may use
// on a property of the given field.
func AllowedTheoremFields(property domain.Field) []domain.FieldLink {
	switch property {
	case domain.FieldReal:
		return realLinks
	case domain.FieldComplex:
		return complexLinks
	case domain.FieldRealOrComplex:
		return []domain.FieldLink{
			domain.FieldLinkReal,
			domain.FieldLinkNotReal,
			domain.FieldLinkComplex,
			domain.FieldLinkNotComplex,
			domain.FieldLinkRealAndComplex,
			domain.FieldLinkNotRealAndNotComplex,
		}
	}
	return nil
}

func containsFieldLink(list []domain.FieldLink, f domain.FieldLink) bool {
	for _, l := range list {
		if l == f {
			return true
		}
	}
	return false
}

func validateRequired(v *ValidationError, value, name string, maxLength int) {
	if strings.TrimSpace(value) == "" {
		v.add(name, fmt.Sprintf("Please enter a %s.", name))
	} else if utf8.RuneCountInString(value) > maxLength {
		v.add(name, fmt.Sprintf("Please enter a %s with at most %d characters.", name, maxLength))
	}
}

func validateOptional(v *ValidationError, value *string, name string, maxLength int) {
	if value != nil && utf8.RuneCountInString(*value) > maxLength {
		v.add(name, fmt.Sprintf("Please enter a %s with at most %d characters or leave empty.", name, maxLength))
	}
}

// reduceToNil trims s and returns nil for blank input.
func reduceToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
