package domain

import "errors"

// ErrNodeNotFound is returned when a state points at an identifier the scenario does not define.
var ErrNodeNotFound = errors.New("node not found")

// ErrInvalidChoiceIndex is returned when a choice index is outside the node's choices.
var ErrInvalidChoiceIndex = errors.New("invalid choice index")

// ErrSaveNotFound is returned by save stores when the slot holds no record.
var ErrSaveNotFound = errors.New("save not found")

// ErrInvalidScenario marks structural problems in a scenario definition.
var ErrInvalidScenario = errors.New("invalid scenario")

// ErrDuplicateNode is returned when two nodes share an identifier.
var ErrDuplicateNode = errors.New("duplicate node id")

// ErrDanglingReference is returned when a choice targets an undefined node.
var ErrDanglingReference = errors.New("dangling choice reference")

// ErrInvalidChoiceCount is returned when a node has neither zero nor two choices.
var ErrInvalidChoiceCount = errors.New("node must have zero or two choices")
