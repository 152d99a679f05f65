package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SimulationID identifies one stored simulation record. It is the handle
// callers pass back for every inference request.
type SimulationID ID

// NewSimulationID creates a fresh time-ordered simulation handle
func NewSimulationID() SimulationID {
	return SimulationID(NewID())
}

func (id SimulationID) String() string { return ID(id).String() }

// IsEmpty checks if the handle is unset
func (id SimulationID) IsEmpty() bool { return ID(id).IsEmpty() }

// ParseSimulationID parses a string into SimulationID. The value must be a UUID.
func ParseSimulationID(s string) (SimulationID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewInvalidParameterError("simulation_id", "cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", NewInvalidParameterError("simulation_id", fmt.Sprintf("%q is not a UUID", s))
	}
	return SimulationID(strings.ToLower(s)), nil
}
