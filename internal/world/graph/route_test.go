package graph

import (
	"errors"
	"slices"
	"testing"
)

func TestRoute(t *testing.T) {
	m := mustParse(t, officeYAML)

	got, err := m.Route("ELV", "J_OD")
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	want := []string{"ELV", "C1", "C2", "J_OD"}
	if !slices.Equal(got, want) {
		t.Errorf("Route() = %v, want %v", got, want)
	}

	if got, _ := m.Route("C2", "C2"); !slices.Equal(got, []string{"C2"}) {
		t.Errorf("Route(C2, C2) = %v, want [C2]", got)
	}
}

func TestRoute_PrefersShorterGridLength(t *testing.T) {
	// A-B-D is two steps, A-C-D detours three grid units east first
	m := mustParse(t, `
nodes:
  - {id: A, pos: [0, 0]}
  - {id: B, pos: [0, -1]}
  - {id: C, pos: [3, 0]}
  - {id: D, pos: [0, -2]}
edges:
  - {from: A, to: C}
  - {from: C, to: D}
  - {from: A, to: B}
  - {from: B, to: D}
`)
	got, err := m.Route("A", "D")
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if !slices.Equal(got, []string{"A", "B", "D"}) {
		t.Errorf("Route() = %v, want [A B D]", got)
	}
}

func TestRoute_SecretNodes(t *testing.T) {
	m := mustParse(t, `
nodes:
  - {id: A, pos: [0, 0]}
  - {id: S, pos: [0, -1], secret: true}
  - {id: B, pos: [0, -2]}
edges:
  - {from: A, to: S}
  - {from: S, to: B}
`)
	if _, err := m.Route("A", "B"); !errors.Is(err, ErrNoRoute) {
		t.Errorf("Route through a secret node: error = %v, want ErrNoRoute", err)
	}
	if got, err := m.Route("A", "S"); err != nil || !slices.Equal(got, []string{"A", "S"}) {
		t.Errorf("Route(A, S) = %v, %v, want [A S]", got, err)
	}
}

func TestRoute_Errors(t *testing.T) {
	m := mustParse(t, officeYAML)

	if _, err := m.Route("NOPE", "C1"); err == nil {
		t.Error("unknown start should fail")
	}
	if _, err := m.Route("C1", "NOPE"); err == nil {
		t.Error("unknown goal should fail")
	}
	// VAULT has no edges in the fixture
	if _, err := m.Route("ELV", "VAULT"); !errors.Is(err, ErrNoRoute) {
		t.Errorf("Route to isolated node: error = %v, want ErrNoRoute", err)
	}
}
