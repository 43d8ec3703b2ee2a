package catalog

import (
	"errors"
	"fmt"
)

// ErrLoad matches every *LoadError via errors.Is.
var ErrLoad = errors.New("catalog load failed")

// ErrUnknownCriterion is returned by ParseCriterion for values outside newest/hot/name.
var ErrUnknownCriterion = errors.New("unknown sort criterion")

// ErrInvalidRecord indicates a record that breaks the catalog invariants.
var ErrInvalidRecord = errors.New("invalid catalog record")

// LoadError wraps any failure to fetch or decode the catalog source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}
