package party

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingName = errors.New("character sheet has no name")
	ErrNoManifest  = errors.New("campaign manifest not found")
)

// ManifestFileName is the expected campaign manifest name inside a campaign
// directory.
const ManifestFileName = "campaign.yaml"

// Manifest describes a campaign: the series name, the character sheets that
// form the cast, and the story files in reading order. Paths are relative to
// the manifest's directory.
type Manifest struct {
	Series     string   `yaml:"series"`
	Characters []string `yaml:"characters"`
	Stories    []string `yaml:"stories"`
}

// LoadSheet reads one JSON character sheet.
func LoadSheet(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read character sheet: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse character sheet %s: %w", path, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingName, path)
	}
	return &p, nil
}

// LoadManifest reads a campaign manifest from a campaign directory.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// LoadCast resolves and loads every character sheet named by the manifest.
// Sheet order follows the manifest, so downstream ranking ties stay stable.
func LoadCast(dir string, m *Manifest) ([]*Profile, error) {
	cast := make([]*Profile, 0, len(m.Characters))
	for _, rel := range m.Characters {
		p, err := LoadSheet(filepath.Join(dir, rel))
		if err != nil {
			return nil, err
		}
		cast = append(cast, p)
	}
	return cast, nil
}

// StoryPaths resolves the manifest's story list against the campaign
// directory, preserving the declared reading order.
func (m *Manifest) StoryPaths(dir string) []string {
	paths := make([]string, len(m.Stories))
	for i, rel := range m.Stories {
		paths[i] = filepath.Join(dir, rel)
	}
	return paths
}
