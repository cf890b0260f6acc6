package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadBasicGesture(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "config.yaml", `
options:
  move_threshold: 0.15
gestures:
  - name: three-up
    sequence:
      - action: move_up
        fingers: 3
    command: "echo up"
`)

	cat, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(cat.Gestures))
	}
	g := cat.Gestures[0]
	if g.Name != "three-up" || len(g.Sequence) != 1 {
		t.Fatalf("unexpected gesture: %+v", g)
	}
	if g.Sequence[0].Kind != StepMove || g.Sequence[0].Fingers != 3 {
		t.Fatalf("unexpected step: %+v", g.Sequence[0])
	}
}

func TestLoadImportMerge(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "extra.yaml", `
gestures:
  - name: imported
    sequence:
      - action: move_left
        fingers: 2
    command: "echo left"
`)
	path := writeTemp(t, dir, "config.yaml", `
import: ["extra.yaml"]
gestures:
  - name: main
    sequence:
      - action: move_right
        fingers: 2
    command: "echo right"
`)

	cat, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Gestures) != 2 {
		t.Fatalf("expected 2 gestures after import merge, got %d", len(cat.Gestures))
	}
}

func TestLoadNamedDistance(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "config.yaml", `
options:
  distance:
    far: 0.4
gestures:
  - name: far-swipe
    sequence:
      - action: move_up
        fingers: 3
        distance: far
    command: "echo up"
`)
	cat, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	step := cat.Gestures[0].Sequence[0]
	if step.MinDistance == nil || *step.MinDistance != 0.4 {
		t.Fatalf("expected resolved min_distance 0.4, got %+v", step.MinDistance)
	}
}

func TestLoadUnknownNamedDistanceIsNoMinimum(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "config.yaml", `
gestures:
  - name: mystery
    sequence:
      - action: move_up
        fingers: 3
        distance: nonexistent
    command: "echo up"
`)
	cat, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Gestures[0].Sequence[0].MinDistance != nil {
		t.Fatalf("expected nil min_distance for unresolved name")
	}
}

func TestApplicationBindingKeyForms(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "config.yaml", `
application_gestures:
  "class:^firefox$":
    - name: a
      sequence: [{action: move_up, fingers: 2}]
      command: "a"
  "bare-regex":
    - name: b
      sequence: [{action: move_up, fingers: 2}]
      command: "b"
  "title:^Inbox$":
    - name: c
      sequence: [{action: move_up, fingers: 2}]
      command: "c"
  "class:^code$,title:^main.go$":
    - name: d
      sequence: [{action: move_up, fingers: 2}]
      command: "d"
`)
	cat, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.ApplicationGestures.ByClass) != 3 { // class:, bare-regex, composite
		t.Fatalf("expected 3 by_class bindings, got %d", len(cat.ApplicationGestures.ByClass))
	}
	if len(cat.ApplicationGestures.ByTitle) != 1 {
		t.Fatalf("expected 1 by_title binding, got %d", len(cat.ApplicationGestures.ByTitle))
	}

	wantClassOrder := []string{"class:^firefox$", "bare-regex", "class:^code$,title:^main.go$"}
	for i, want := range wantClassOrder {
		if got := cat.ApplicationGestures.ByClass[i].Raw; got != want {
			t.Fatalf("by_class[%d] = %q, want %q (document order not preserved)", i, got, want)
		}
	}

	candidates := cat.AllCandidates("code", "main.go")
	found := false
	for _, g := range candidates {
		if g.Name == "d" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected composite binding to match both class and title")
	}

	candidatesWrongTitle := cat.AllCandidates("code", "other.go")
	for _, g := range candidatesWrongTitle {
		if g.Name == "d" {
			t.Fatalf("composite binding should not match when title differs")
		}
	}
}

// TestApplicationBindingOrderIsStable loads the same document many times
// and asserts by_class comes back in document order every time. Go map
// iteration is randomized per process, so a map-backed decode would flake
// across runs even though each individual run's input is byte-identical.
func TestApplicationBindingOrderIsStable(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "config.yaml", `
application_gestures:
  "class:^a$":
    - name: a
      sequence: [{action: move_up, fingers: 2}]
      command: "a"
  "class:^b$":
    - name: b
      sequence: [{action: move_up, fingers: 2}]
      command: "b"
  "class:^c$":
    - name: c
      sequence: [{action: move_up, fingers: 2}]
      command: "c"
  "class:^d$":
    - name: d
      sequence: [{action: move_up, fingers: 2}]
      command: "d"
  "class:^e$":
    - name: e
      sequence: [{action: move_up, fingers: 2}]
      command: "e"
`)
	want := []string{"class:^a$", "class:^b$", "class:^c$", "class:^d$", "class:^e$"}

	for i := 0; i < 20; i++ {
		cat, err := Load(path, zerolog.Nop())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(cat.ApplicationGestures.ByClass) != len(want) {
			t.Fatalf("run %d: expected %d by_class bindings, got %d", i, len(want), len(cat.ApplicationGestures.ByClass))
		}
		for j, w := range want {
			if got := cat.ApplicationGestures.ByClass[j].Raw; got != w {
				t.Fatalf("run %d: by_class[%d] = %q, want %q", i, j, got, w)
			}
		}
	}
}

func TestRepeatModeParsing(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "config.yaml", `
gestures:
  - name: both
    repeat: [tap, slide]
    sequence: [{action: move_up, fingers: 2}]
    command: "x"
  - name: single
    repeat: tap
    sequence: [{action: move_up, fingers: 2}]
    command: "y"
`)
	cat, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Gestures[0].RepeatMode != RepeatTap|RepeatSlide {
		t.Fatalf("expected tap+slide, got %v", cat.Gestures[0].RepeatMode)
	}
	if cat.Gestures[1].RepeatMode != RepeatTap {
		t.Fatalf("expected tap, got %v", cat.Gestures[1].RepeatMode)
	}
}
