package runtime

import (
	"errors"
	"fmt"

	"github.com/aretw0/routes64/pkg/domain"
)

// TransitionError reports a rejected transition. Kind is one of
// domain.ErrNodeNotFound or domain.ErrInvalidChoiceIndex.
type TransitionError struct {
	Kind    error
	NodeID  string
	Index   int
	Choices int
}

func (e *TransitionError) Error() string {
	if errors.Is(e.Kind, domain.ErrInvalidChoiceIndex) {
		return fmt.Sprintf("%v %d for node %q (%d choices)", e.Kind, e.Index, e.NodeID, e.Choices)
	}
	return fmt.Sprintf("%v: %q", e.Kind, e.NodeID)
}

// Unwrap allows errors.Is against the Kind sentinel.
func (e *TransitionError) Unwrap() error {
	return e.Kind
}
