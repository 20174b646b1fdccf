package data

import "github.com/suderio/shieldwall/internal/engine"

// Tuning holds the numeric knobs of a battle.
type Tuning struct {
	PlayerHealth int                  `yaml:"player_health"`
	BaseDice     int                  `yaml:"base_dice"`
	Stamina      engine.StaminaTuning `yaml:"stamina"`
}

// SpawnRecord references an enemy by ID as written in waves.yaml.
type SpawnRecord struct {
	Enemy string `yaml:"enemy"`
	Count int    `yaml:"count"`
}

// WaveRecord is a wave as written in waves.yaml, before enemy references are resolved.
type WaveRecord struct {
	Name   string        `yaml:"name"`
	Spawns []SpawnRecord `yaml:"spawns"`
}

type actionsFile struct {
	Actions []*engine.ActionDefinition `yaml:"actions"`
}

type enemiesFile struct {
	Enemies []*engine.EnemyDefinition `yaml:"enemies"`
}

type wavesFile struct {
	Waves []WaveRecord `yaml:"waves"`
}

type brothersFile struct {
	Brothers []*engine.BrotherDefinition `yaml:"brothers"`
}

// Catalog is the fully resolved game data a battle is built from.
type Catalog struct {
	Actions  []*engine.ActionDefinition
	Enemies  map[string]*engine.EnemyDefinition
	Waves    []*engine.WaveDefinition
	Brothers []*engine.BrotherDefinition
	Tuning   Tuning
}

// Action returns the action with the given ID, or nil.
func (c *Catalog) Action(id string) *engine.ActionDefinition {
	for _, a := range c.Actions {
		if a.ID == id {
			return a
		}
	}
	return nil
}
