// Package party holds the character-sheet data model and the loaders that
// turn campaign files (JSON sheets, YAML manifest) into profile snapshots.
// Profiles are read-only for the duration of an analysis run; every consumer
// receives them as already-loaded values and never mutates them.
package party

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Profile is a read-only snapshot of one character sheet.
type Profile struct {
	Name               string            `json:"name"`
	Class              string            `json:"dnd_class"`
	Level              int               `json:"level"`
	PersonalitySummary string            `json:"personality_summary"`
	BackgroundStory    string            `json:"background_story"`
	Traits             []string          `json:"personality_traits"`
	Ideals             []string          `json:"ideals"`
	Bonds              []string          `json:"bonds"`
	Motivations        []string          `json:"motivations"`
	Goals              []string          `json:"goals"`
	FearsWeaknesses    []string          `json:"fears_weaknesses"`
	Relationships      map[string]string `json:"relationships"`

	ClassAbilities       []string   `json:"class_abilities"`
	SpecializedAbilities StringList `json:"specialized_abilities"`
	KnownSpells          []string   `json:"known_spells"`
	Feats                []string   `json:"feats"`

	Equipment Equipment `json:"equipment"`
}

// Equipment lists a character's gear. Only weapons matter to the rule
// checkers; the rest is carried through for report context.
type Equipment struct {
	Weapons []string `json:"weapons"`
	Armor   []string `json:"armor,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// Abilities flattens class abilities, specialized abilities, known spells and
// feats into a single list. Fit scoring treats all four interchangeably.
func (p *Profile) Abilities() []string {
	out := make([]string, 0, len(p.ClassAbilities)+len(p.SpecializedAbilities)+len(p.KnownSpells)+len(p.Feats))
	out = append(out, p.ClassAbilities...)
	out = append(out, p.SpecializedAbilities...)
	out = append(out, p.KnownSpells...)
	out = append(out, p.Feats...)
	return out
}

// Weapons returns the equipped weapon list, never nil.
func (p *Profile) Weapons() []string {
	if p.Equipment.Weapons == nil {
		return []string{}
	}
	return p.Equipment.Weapons
}

// FirstName returns the first whitespace-separated token of the full name.
func (p *Profile) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return p.Name
	}
	return fields[0]
}

// StringList decodes either a JSON array of strings or a keyed mapping
// (ability name -> description). Sheets in the wild use both shapes for
// specialized abilities; mapping keys are taken in sorted order.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}

	var keyed map[string]string
	if err := json.Unmarshal(data, &keyed); err != nil {
		return fmt.Errorf("specialized abilities must be a string list or a string mapping: %w", err)
	}

	names := make([]string, 0, len(keyed))
	for name := range keyed {
		names = append(names, name)
	}
	sort.Strings(names)
	*s = names
	return nil
}
