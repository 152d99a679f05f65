package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseSimulationID tests simulation handle parsing
func TestParseSimulationID(t *testing.T) {
	fresh := NewSimulationID()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"fresh id", fresh.String(), false},
		{"padded id", "  " + fresh.String() + " ", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"not a uuid", "sim-123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSimulationID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSimulationID(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSimulationID(%q) unexpected error: %v", tt.input, err)
			}
			if got != fresh {
				t.Errorf("ParseSimulationID(%q) = %s, want %s", tt.input, got, fresh)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsInvalidParameter(NewInvalidParameterError("N", "must be >= 1")) {
		t.Error("expected invalid parameter error to match")
	}
	if !IsDegenerateInput(NewDegenerateInputError("zero variance")) {
		t.Error("expected degenerate input error to match")
	}
	if !IsMissingState(NewMissingStateError("no record")) {
		t.Error("expected missing state error to match")
	}
	if !IsNotFoundError(ErrSimulationNotFound) {
		t.Error("expected simulation not found to be a not found error")
	}
	if errors.Is(ErrInvalidParameter, ErrDegenerateInput) {
		t.Error("error kinds must stay distinct")
	}
}
