package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrSpaceNotFound = errors.New("space not found")
	ErrSpaceConflict = errors.New("a space with this symbol already exists")
	ErrSpaceHasLinks = errors.New("unable to delete space, because it is linked to properties")

	ErrPropertyNotFound = errors.New("property not found")
	ErrPropertyConflict = errors.New("a property with this name already exists")
	ErrPropertyInUse    = errors.New("unable to delete property, because it is used by links or theorems")

	ErrLinkNotFound    = errors.New("link not found")
	ErrFieldNotAllowed = errors.New("this field is not allowed")

	ErrTheoremNotFound = errors.New("theorem not found")
	ErrTheoremConflict = errors.New("a theorem with this name already exists")

	// ErrRecomputeFailed wraps an engine failure that happened after a
	// mutation was already stored.
	ErrRecomputeFailed = errors.New("recompute failed")
)

// ValidationError maps input fields to human readable problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(key, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[key]; !exists {
		e.Fields[key] = msg
	}
}

// err returns nil when nothing was recorded.
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
