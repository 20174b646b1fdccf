package engine

import (
	"fmt"
	"strings"

	"github.com/suderio/shieldwall/internal/logger"
	"gopkg.in/yaml.v3"
)

// TargetPolicy decides where an enemy aims.
type TargetPolicy int

const (
	TargetPlayer TargetPolicy = iota
	TargetLowestHealth
	TargetRandom
)

var policyNames = map[TargetPolicy]string{
	TargetPlayer:       "Player",
	TargetLowestHealth: "LowestHealth",
	TargetRandom:       "Random",
}

func (t TargetPolicy) String() string {
	if name, ok := policyNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TargetPolicy(%d)", int(t))
}

// ParseTargetPolicy resolves a policy name, ignoring case, spaces and underscores.
func ParseTargetPolicy(s string) (TargetPolicy, error) {
	norm := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
	for t, name := range policyNames {
		if strings.ToLower(name) == norm {
			return t, nil
		}
	}
	return TargetPlayer, fmt.Errorf("unknown targeting policy %q", s)
}

func (t *TargetPolicy) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseTargetPolicy(node.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// EnemyDefinition is an immutable enemy type.
type EnemyDefinition struct {
	ID            string       `yaml:"id"`
	Name          string       `yaml:"name"`
	Health        int          `yaml:"health"`
	Damage        int          `yaml:"damage"`
	Targeting     TargetPolicy `yaml:"targeting"`
	IgnoresBlocks bool         `yaml:"ignores_blocks"`
	DestroysBlock bool         `yaml:"destroys_block"`
}

// Attack is one enemy's blow for one turn.
type Attack struct {
	Source        *EnemyDefinition
	EnemyID       int
	Damage        int
	Target        WallPosition
	IgnoresBlocks bool
	DestroysBlock bool
}

func (a Attack) sourceName() string {
	if a.Source == nil {
		return "Unknown"
	}
	return a.Source.Name
}

// Enemy is a spawned instance of an EnemyDefinition. ID is unique within a
// battle and stable for the enemy's lifetime.
type Enemy struct {
	ID      int
	Def     *EnemyDefinition
	Health  int
	Stunned bool
}

func NewEnemy(id int, def *EnemyDefinition) *Enemy {
	return &Enemy{ID: id, Def: def, Health: def.Health}
}

func (e *Enemy) IsDead() bool { return e.Health <= 0 }

// TakeDamage lowers health, never below zero.
func (e *Enemy) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	e.Health -= amount
	if e.Health < 0 {
		e.Health = 0
	}
}

// Kill drops the enemy to zero health.
func (e *Enemy) Kill() {
	e.Health = 0
}

func (e *Enemy) ApplyStun() { e.Stunned = true }
func (e *Enemy) ClearStun() { e.Stunned = false }

// CreateAttack builds this enemy's attack against target.
func (e *Enemy) CreateAttack(target WallPosition) Attack {
	return Attack{
		Source:        e.Def,
		EnemyID:       e.ID,
		Damage:        e.Def.Damage,
		Target:        target,
		IgnoresBlocks: e.Def.IgnoresBlocks,
		DestroysBlock: e.Def.DestroysBlock,
	}
}

// TargetSelector resolves an enemy's targeting policy against the wall.
type TargetSelector struct {
	src Source
}

func NewTargetSelector(src Source) *TargetSelector {
	return &TargetSelector{src: src}
}

// SelectTarget picks the wall position def attacks. Anything it cannot
// resolve falls back to Center.
func (s *TargetSelector) SelectTarget(def *EnemyDefinition, wall WallState) WallPosition {
	if def == nil {
		return Center
	}

	switch def.Targeting {
	case TargetPlayer:
		return Center
	case TargetLowestHealth:
		return lowestHealth(wall)
	case TargetRandom:
		return s.random(wall)
	default:
		logger.Component("target_selector").
			WithField("policy", def.Targeting.String()).
			Warn("Unknown targeting policy, defaulting to Center")
		return Center
	}
}

func lowestHealth(wall WallState) WallPosition {
	if wall == nil {
		return Center
	}
	positions := wall.OccupiedPositions()
	if len(positions) == 0 {
		return Center
	}

	best := positions[0]
	bestHealth := wall.HealthAt(best)
	for _, pos := range positions[1:] {
		if h := wall.HealthAt(pos); h < bestHealth {
			best, bestHealth = pos, h
		}
	}
	return best
}

func (s *TargetSelector) random(wall WallState) WallPosition {
	if wall == nil || s.src == nil {
		return Center
	}
	positions := wall.OccupiedPositions()
	if len(positions) == 0 {
		return Center
	}
	return positions[s.src.Intn(len(positions))]
}
