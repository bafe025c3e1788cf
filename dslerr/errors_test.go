package dslerr

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	err := NewFormat(CodeEmptyYAML, "Failed to parse DSL: %s", "empty yaml")
	if err.Kind != KindFormat {
		t.Fatalf("expected KindFormat, got %v", err.Kind)
	}
	if err.Code != CodeEmptyYAML {
		t.Fatalf("expected code %d, got %d", CodeEmptyYAML, err.Code)
	}
	if !strings.Contains(err.Error(), "empty yaml") {
		t.Errorf("expected message in Error(), got %q", err.Error())
	}
}

func TestNewLogicWith_CircularDependency(t *testing.T) {
	trail := []string{"A", "B", "A"}
	err := NewLogicWith(CodeCircularDependency, "Circular dependency detected: "+CircularTrail(trail),
		WithCircularDependency(trail))

	if err.Kind != KindLogic {
		t.Fatalf("expected KindLogic, got %v", err.Kind)
	}
	if len(err.CircularDependency) != 3 {
		t.Fatalf("expected 3 entries in trail, got %d", len(err.CircularDependency))
	}
	if err.TraceID.String() == "" {
		t.Error("expected a non-empty trace id")
	}
}

func TestWithDuplicateInterface(t *testing.T) {
	err := NewLogicWith(CodeDuplicateNodeInterface, "duplicate interface",
		WithDuplicateInterface("scalable", "n1"))
	if err.DuplicateInterfaceName != "scalable" || err.NodeName != "n1" {
		t.Errorf("expected context fields to be set, got %+v", err)
	}
}

func TestStamp_OverwritesTraceID(t *testing.T) {
	err := NewFormat(CodeEmptyYAML, "empty")
	original := err.TraceID
	id := original
	id[0]++
	Stamp(err, id)
	if err.TraceID == original {
		t.Error("expected Stamp to overwrite the trace id")
	}
	if err.TraceID != id {
		t.Errorf("expected trace id %v, got %v", id, err.TraceID)
	}
}

func TestCircularTrail(t *testing.T) {
	got := CircularTrail([]string{"A", "B", "A"})
	if got != "A --> B --> A" {
		t.Errorf("unexpected trail rendering: %q", got)
	}
}
