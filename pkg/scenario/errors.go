package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/routes64/pkg/domain"
)

// LoadError aggregates every structural failure found while loading a scenario.
// It matches domain.ErrInvalidScenario and each wrapped cause through errors.Is.
type LoadError struct {
	Errors []error
}

func (e *LoadError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid scenario: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid scenario: %d errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual causes.
func (e *LoadError) Unwrap() []error {
	return e.Errors
}

// Is reports true for domain.ErrInvalidScenario.
func (e *LoadError) Is(target error) bool {
	return target == domain.ErrInvalidScenario
}

// Errors returns the individual failures if err is a LoadError, otherwise nil.
func Errors(err error) []error {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Errors
	}
	return nil
}

func newLoadError(errs ...error) error {
	if len(errs) == 0 {
		return nil
	}
	return &LoadError{Errors: errs}
}
