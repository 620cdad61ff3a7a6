package party

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleSheet = `{
  "name": "Elara Moonwhisper",
  "dnd_class": "Wizard",
  "level": 5,
  "personality_summary": "Curious scholar drawn to forgotten magic",
  "fears_weaknesses": ["fire", "crowds"],
  "class_abilities": ["Arcane Recovery"],
  "specialized_abilities": {
    "Portent": "replace a roll with a foreseen one",
    "Divination Savant": "cheaper divination spells"
  },
  "known_spells": ["Fireball", "Shield"],
  "equipment": {
    "weapons": ["quarterstaff"],
    "armor": [],
    "items": ["spellbook"]
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadSheet(t *testing.T) {
	path := writeFile(t, t.TempDir(), "elara.json", sampleSheet)

	p, err := LoadSheet(path)
	if err != nil {
		t.Fatalf("LoadSheet failed: %v", err)
	}

	if p.Name != "Elara Moonwhisper" {
		t.Errorf("unexpected name: %q", p.Name)
	}
	if p.Class != "Wizard" || p.Level != 5 {
		t.Errorf("unexpected class/level: %s %d", p.Class, p.Level)
	}
	if len(p.FearsWeaknesses) != 2 || p.FearsWeaknesses[0] != "fire" {
		t.Errorf("unexpected fears: %v", p.FearsWeaknesses)
	}
	if len(p.Equipment.Weapons) != 1 || p.Equipment.Weapons[0] != "quarterstaff" {
		t.Errorf("unexpected weapons: %v", p.Equipment.Weapons)
	}
}

func TestLoadSheetKeyedAbilitiesSorted(t *testing.T) {
	path := writeFile(t, t.TempDir(), "elara.json", sampleSheet)

	p, err := LoadSheet(path)
	if err != nil {
		t.Fatalf("LoadSheet failed: %v", err)
	}

	want := []string{"Divination Savant", "Portent"}
	if len(p.SpecializedAbilities) != len(want) {
		t.Fatalf("expected %d specialized abilities, got %v", len(want), p.SpecializedAbilities)
	}
	for i, name := range want {
		if p.SpecializedAbilities[i] != name {
			t.Errorf("specialized ability %d: expected %q, got %q", i, name, p.SpecializedAbilities[i])
		}
	}
}

func TestLoadSheetListAbilities(t *testing.T) {
	sheet := `{"name": "Borin", "specialized_abilities": ["Rage", "Reckless Attack"]}`
	path := writeFile(t, t.TempDir(), "borin.json", sheet)

	p, err := LoadSheet(path)
	if err != nil {
		t.Fatalf("LoadSheet failed: %v", err)
	}
	if len(p.SpecializedAbilities) != 2 || p.SpecializedAbilities[0] != "Rage" {
		t.Errorf("unexpected abilities: %v", p.SpecializedAbilities)
	}
}

func TestLoadSheetMissingName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "anon.json", `{"dnd_class": "Rogue"}`)

	if _, err := LoadSheet(path); !errors.Is(err, ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
}

func TestLoadSheetInvalidJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", "{not json")

	if _, err := LoadSheet(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadManifestAndCast(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "elara.json", sampleSheet)
	writeFile(t, dir, "borin.json", `{"name": "Borin Stonefist", "dnd_class": "Barbarian"}`)
	writeFile(t, dir, ManifestFileName, `series: Greenmere Chronicles
characters:
  - borin.json
  - elara.json
stories:
  - stories/ep1.md
  - stories/ep2.md
`)

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Series != "Greenmere Chronicles" {
		t.Errorf("unexpected series: %q", m.Series)
	}

	cast, err := LoadCast(dir, m)
	if err != nil {
		t.Fatalf("LoadCast failed: %v", err)
	}
	if len(cast) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(cast))
	}
	if cast[0].Name != "Borin Stonefist" || cast[1].Name != "Elara Moonwhisper" {
		t.Error("cast should preserve manifest order")
	}

	paths := m.StoryPaths(dir)
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "stories/ep1.md") {
		t.Errorf("unexpected story paths: %v", paths)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	if _, err := LoadManifest(t.TempDir()); !errors.Is(err, ErrNoManifest) {
		t.Errorf("expected ErrNoManifest, got %v", err)
	}
}

func TestLoadCastMissingSheet(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Characters: []string{"nobody.json"}}

	if _, err := LoadCast(dir, m); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestProfileHelpers(t *testing.T) {
	p := &Profile{
		Name:           "Elara Moonwhisper",
		ClassAbilities: []string{"Arcane Recovery"},
		KnownSpells:    []string{"Shield"},
		Feats:          []string{"Alert"},
	}

	if got := p.FirstName(); got != "Elara" {
		t.Errorf("expected first name Elara, got %q", got)
	}
	if got := p.Abilities(); len(got) != 3 {
		t.Errorf("expected 3 flattened abilities, got %v", got)
	}
	if got := p.Weapons(); got == nil || len(got) != 0 {
		t.Errorf("Weapons on empty equipment should be empty, not nil: %v", got)
	}
}
