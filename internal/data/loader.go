package data

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/suderio/shieldwall/internal/engine"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// Loader handles reading the game catalog from the read-only data layer
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a new Data Loader with the given data directory fallback hierarchy.
// The embedded defaults are always searched last.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// LoadCatalog reads every catalog file, resolves wave spawns to enemy
// definitions and validates the result.
func (l *Loader) LoadCatalog() (*Catalog, error) {
	var actions actionsFile
	if err := l.load("actions.yaml", &actions); err != nil {
		return nil, err
	}
	var enemies enemiesFile
	if err := l.load("enemies.yaml", &enemies); err != nil {
		return nil, err
	}
	var waves wavesFile
	if err := l.load("waves.yaml", &waves); err != nil {
		return nil, err
	}
	var brothers brothersFile
	if err := l.load("brothers.yaml", &brothers); err != nil {
		return nil, err
	}
	var tuning Tuning
	if err := l.load("tuning.yaml", &tuning); err != nil {
		return nil, err
	}

	c := &Catalog{
		Actions:  make([]*engine.ActionDefinition, 0, len(actions.Actions)),
		Enemies:  make(map[string]*engine.EnemyDefinition, len(enemies.Enemies)),
		Brothers: brothers.Brothers,
		Tuning:   tuning,
	}

	seen := make(map[string]bool)
	for _, a := range actions.Actions {
		if a == nil {
			continue
		}
		if a.ID == "" {
			return nil, fmt.Errorf("action %q has no id", a.Name)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate action id %q", a.ID)
		}
		if len(a.Required) == 0 {
			return nil, fmt.Errorf("action %q requires no runes", a.ID)
		}
		seen[a.ID] = true
		c.Actions = append(c.Actions, a)
	}

	for _, e := range enemies.Enemies {
		if e == nil {
			continue
		}
		if _, dup := c.Enemies[e.ID]; dup {
			return nil, fmt.Errorf("duplicate enemy id %q", e.ID)
		}
		c.Enemies[e.ID] = e
	}

	for i, w := range waves.Waves {
		wave := &engine.WaveDefinition{Name: w.Name}
		for _, s := range w.Spawns {
			def, ok := c.Enemies[s.Enemy]
			if !ok {
				return nil, fmt.Errorf("wave %d (%s): unknown enemy %q", i+1, w.Name, s.Enemy)
			}
			wave.Spawns = append(wave.Spawns, engine.SpawnEntry{Enemy: def, Count: s.Count})
		}
		c.Waves = append(c.Waves, wave)
	}
	if len(c.Waves) == 0 {
		return nil, fmt.Errorf("catalog defines no waves")
	}

	return c, nil
}

func (l *Loader) load(ref string, target interface{}) error {
	for _, dir := range l.dataDirs {
		f, err := os.Open(filepath.Join(dir, ref))
		if err == nil {
			defer f.Close()
			return decode(ref, f, target)
		}
	}

	f, err := defaults.Open(path.Join("defaults", ref))
	if err != nil {
		return fmt.Errorf("could not find or open reference %s in any available data directory", ref)
	}
	defer f.Close()
	return decode(ref, f, target)
}

func decode(ref string, r io.Reader, target interface{}) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
	}
	return nil
}
