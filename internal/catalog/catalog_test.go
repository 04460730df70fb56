package catalog

import (
	"errors"
	"testing"
)

func TestBuiltInCatalog(t *testing.T) {
	c := Default()
	if got := len(c.All()); got != 17 {
		t.Fatalf("expected 17 rockets, got %d", got)
	}
	f9, err := c.ByID("falcon-9")
	if err != nil {
		t.Fatalf("falcon-9: %v", err)
	}
	if f9.ThrustRating != 7600 || f9.Height != 70 {
		t.Fatalf("unexpected falcon-9 data: %+v", f9)
	}
	if c.All()[0].ID != "falcon-9" {
		t.Fatalf("catalog order not preserved")
	}
}

func TestByIDUnknown(t *testing.T) {
	_, err := Default().ByID("saturn-v")
	if !errors.Is(err, ErrUnknownRocket) {
		t.Fatalf("expected ErrUnknownRocket, got %v", err)
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	cases := map[string][]RocketModel{
		"missing id": {{Name: "x", Mass: 1, ThrustRating: 1}},
		"duplicate":  {{ID: "a", Mass: 1, ThrustRating: 1}, {ID: "a", Mass: 1, ThrustRating: 1}},
		"no thrust":  {{ID: "a", Mass: 1}},
	}
	for name, models := range cases {
		if _, err := New(models); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	c, err := Load("testdata/small.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r, err := c.ByID("test-lifter")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if r.ThrustRating != 600 || r.Color.R != 0.5 {
		t.Fatalf("unexpected model %+v", r)
	}
	if ids := c.IDs(); len(ids) != 1 || ids[0] != "test-lifter" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestLoadEmptyPathUsesBuiltIn(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.All()) != len(BuiltIn()) {
		t.Fatalf("expected built-in catalog")
	}
}
