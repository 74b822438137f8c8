package game

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tier is a difficulty level: a name and the board size it plays on.
type Tier struct {
	Name string `yaml:"name" json:"name"`
	Size int    `yaml:"size" json:"size"`
}

var DefaultTiers = []Tier{
	{Name: "easy", Size: 10},
	{Name: "medium", Size: 16},
	{Name: "hard", Size: 24},
}

type tiersFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadTiers reads a YAML document of the form
//
//	tiers:
//	  - name: easy
//	    size: 10
func LoadTiers(r io.Reader) ([]Tier, error) {
	var f tiersFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode tiers: %w", err)
	}
	if len(f.Tiers) == 0 {
		return nil, fmt.Errorf("decode tiers: no tiers defined")
	}
	seen := make(map[string]bool)
	for i, t := range f.Tiers {
		t.Name = strings.ToLower(strings.TrimSpace(t.Name))
		if t.Name == "" {
			return nil, fmt.Errorf("tier %d: missing name", i)
		}
		if t.Size < 2 {
			return nil, fmt.Errorf("tier %q: size %d below 2", t.Name, t.Size)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("tier %q: defined twice", t.Name)
		}
		seen[t.Name] = true
		f.Tiers[i] = t
	}
	return f.Tiers, nil
}

// LoadTiersFile reads tiers from path, or returns DefaultTiers when path is
// empty.
func LoadTiersFile(path string) ([]Tier, error) {
	if path == "" {
		return DefaultTiers, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadTiers(file)
}

func FindTier(tiers []Tier, name string) (Tier, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}
