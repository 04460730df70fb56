package scenario

import "testing"

func TestLoadScript(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "example" {
		t.Fatalf("unexpected name %s", sc.Name)
	}
	if len(sc.Injections) != 2 {
		t.Fatalf("expected 2 injections, got %d", len(sc.Injections))
	}
	if sc.Injections[0].Fault != FaultThrustDecay || sc.Injections[0].At != 4.5 {
		t.Fatalf("injections not sorted: %+v", sc.Injections)
	}
	if !sc.Injections[1].Applies("falcon-9") || sc.Injections[1].Applies("electron") {
		t.Fatalf("rocket filter not applied")
	}
}

func TestLoadRejectsUnknownFault(t *testing.T) {
	if _, err := Load("testdata/bad.yaml"); err == nil {
		t.Fatalf("expected error for unknown fault")
	}
}

func TestDueWindow(t *testing.T) {
	s := &Script{Injections: []Injection{{At: 5, Fault: FaultThrustDecay}, {At: 5.1, Fault: FaultGuidanceGlitch}}}
	if got := s.Due(4.9, 5); len(got) != 1 || got[0].Fault != FaultThrustDecay {
		t.Fatalf("Due(4.9,5) = %+v", got)
	}
	if got := s.Due(5, 5.05); len(got) != 0 {
		t.Fatalf("Due(5,5.05) = %+v", got)
	}
	if got := s.Due(0, 10); len(got) != 2 {
		t.Fatalf("Due(0,10) = %+v", got)
	}
	var nilScript *Script
	if nilScript.Due(0, 10) != nil {
		t.Fatalf("nil script should have no injections")
	}
}

func TestBuiltInScripts(t *testing.T) {
	scripts := BuiltIn()
	for _, n := range []string{"nominal", "thrust-decay", "guidance-glitch"} {
		s, ok := scripts[n]
		if !ok {
			t.Fatalf("script %s not found", n)
		}
		if s.Description == "" {
			t.Fatalf("script %s missing description", n)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("script %s invalid: %v", n, err)
		}
	}
	sc, err := Resolve("thrust-decay")
	if err != nil || sc == nil || len(sc.Injections) != 1 {
		t.Fatalf("resolve = %+v %v", sc, err)
	}
	if sc, err := Resolve(""); sc != nil || err != nil {
		t.Fatalf("empty name should resolve to nil")
	}
}
