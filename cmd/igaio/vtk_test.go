package main

import (
	"testing"

	"github.com/openspline/igaio/pkg/vtk"
)

func TestParseScalarAttrs(t *testing.T) {
	attrs, err := parseScalarAttrs([]string{"temperature=1", "2"})
	if err != nil {
		t.Fatalf("parseScalarAttrs returned error: %v", err)
	}
	want := []vtk.ScalarAttr{
		{Name: "temperature", Component: 1},
		{Component: 2},
	}
	if len(attrs) != len(want) {
		t.Fatalf("unexpected attr count: got %d want %d", len(attrs), len(want))
	}
	for i := range want {
		if attrs[i] != want[i] {
			t.Fatalf("attr %d: got %+v want %+v", i, attrs[i], want[i])
		}
	}

	if _, err := parseScalarAttrs([]string{"temperature=abc"}); err == nil {
		t.Fatalf("expected error for non-integer component")
	}
}

func TestParseVectorAttrs(t *testing.T) {
	attrs, err := parseVectorAttrs([]string{"displacement=0, 1,2", "0,1"})
	if err != nil {
		t.Fatalf("parseVectorAttrs returned error: %v", err)
	}
	if len(attrs) != 2 {
		t.Fatalf("unexpected attr count: got %d want 2", len(attrs))
	}
	if attrs[0].Name != "displacement" {
		t.Fatalf("unexpected name: got %q", attrs[0].Name)
	}
	if got := attrs[0].Components; len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("unexpected components: %v", got)
	}
	if attrs[1].Name != "" {
		t.Fatalf("expected empty name, got %q", attrs[1].Name)
	}
	if got := attrs[1].Components; len(got) != 2 || got[1] != 1 {
		t.Fatalf("unexpected components: %v", got)
	}

	if _, err := parseVectorAttrs([]string{"displacement=0,x"}); err == nil {
		t.Fatalf("expected error for non-integer component")
	}
}
