package engine

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/suderio/shieldwall/internal/logger"
	"gopkg.in/yaml.v3"
)

// WallPosition is a formation slot. Center is the player; the four flanks
// hold shield-brothers.
type WallPosition int

const (
	Center WallPosition = iota
	FarLeft
	Left
	Right
	FarRight
)

// Flanks lists the brother positions in left-to-right order.
var Flanks = []WallPosition{FarLeft, Left, Right, FarRight}

// CoverPositions are the flanks adjacent to Center, in the order Cover
// checks them.
var CoverPositions = []WallPosition{Left, Right}

var positionNames = map[WallPosition]string{
	Center:   "Center",
	FarLeft:  "FarLeft",
	Left:     "Left",
	Right:    "Right",
	FarRight: "FarRight",
}

func (p WallPosition) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("WallPosition(%d)", int(p))
}

// ParseWallPosition resolves a position name, ignoring case, spaces and underscores.
func ParseWallPosition(s string) (WallPosition, error) {
	norm := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
	for p, name := range positionNames {
		if strings.ToLower(name) == norm {
			return p, nil
		}
	}
	return Center, fmt.Errorf("unknown wall position %q", s)
}

func (p WallPosition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *WallPosition) UnmarshalText(b []byte) error {
	parsed, err := ParseWallPosition(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p *WallPosition) UnmarshalYAML(node *yaml.Node) error {
	return p.UnmarshalText([]byte(node.Value))
}

// WallState is the read-only view of the formation used for targeting.
type WallState interface {
	// OccupiedPositions returns Center plus every flank with a living brother.
	OccupiedPositions() []WallPosition
	// HealthAt returns current health at pos, 0 when unoccupied.
	HealthAt(pos WallPosition) int
}

// Formation is the wall as the combat resolver needs it.
type Formation interface {
	WallState
	// HealAllBrothers heals every living brother and returns how many were healed.
	HealAllBrothers(amount int) int
}

// BrotherDefinition is a roster entry.
type BrotherDefinition struct {
	Name             string       `yaml:"name"`
	MaxHealth        int          `yaml:"max_health"`
	AutoDefendChance float64      `yaml:"auto_defend_chance"`
	Position         WallPosition `yaml:"position"`
}

// ShieldBrother is a roster entry bound to a flank for the whole battle.
type ShieldBrother struct {
	Def      *BrotherDefinition
	Position WallPosition
	Health   int
}

func NewShieldBrother(def *BrotherDefinition, pos WallPosition) *ShieldBrother {
	return &ShieldBrother{Def: def, Position: pos, Health: def.MaxHealth}
}

func (b *ShieldBrother) IsDead() bool { return b.Health <= 0 }

// TakeDamage lowers health, never below zero.
func (b *ShieldBrother) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	b.Health -= amount
	if b.Health < 0 {
		b.Health = 0
	}
}

// Heal raises health up to max. The dead stay dead.
func (b *ShieldBrother) Heal(amount int) {
	if b.IsDead() || amount <= 0 {
		return
	}
	b.Health += amount
	if b.Health > b.Def.MaxHealth {
		b.Health = b.Def.MaxHealth
	}
}

// AttemptAutoDefense is a Bernoulli trial with the brother's configured chance.
func (b *ShieldBrother) AttemptAutoDefense(src Source) bool {
	if b.IsDead() || src == nil {
		return false
	}
	return src.Float64() < b.Def.AutoDefendChance
}

// bonusDiceByAlive maps living brothers to bonus dice.
var bonusDiceByAlive = map[int]int{4: 1, 3: 0, 2: 0, 1: -1, 0: -2}

// playerTargetChanceByAlive maps living brothers to the chance an enemy
// goes for the player. Informational only.
var playerTargetChanceByAlive = map[int]float64{4: 0.2, 3: 0.2, 2: 0.6, 1: 0.8, 0: 1.0}

// ShieldWall holds the brothers flanking the player.
type ShieldWall struct {
	roster   []*BrotherDefinition
	brothers map[WallPosition]*ShieldBrother
	player   *Player
	src      Source
	bus      *Bus
	log      *logrus.Entry
}

// NewShieldWall creates an empty wall; call InitializeBrothers to populate it.
func NewShieldWall(roster []*BrotherDefinition, player *Player, src Source, bus *Bus) *ShieldWall {
	return &ShieldWall{
		roster:   roster,
		brothers: make(map[WallPosition]*ShieldBrother),
		player:   player,
		src:      src,
		bus:      bus,
		log:      logger.Component("shield_wall"),
	}
}

// InitializeBrothers rebuilds the wall from the roster at full health.
// Entries without an explicit flank take the next free flank left to right.
func (w *ShieldWall) InitializeBrothers() {
	w.brothers = make(map[WallPosition]*ShieldBrother)

	var unplaced []*BrotherDefinition
	for _, def := range w.roster {
		if def == nil {
			continue
		}
		if def.Position != Center {
			if _, taken := w.brothers[def.Position]; !taken {
				w.brothers[def.Position] = NewShieldBrother(def, def.Position)
				continue
			}
		}
		unplaced = append(unplaced, def)
	}

	for _, def := range unplaced {
		for _, pos := range Flanks {
			if _, taken := w.brothers[pos]; !taken {
				w.brothers[pos] = NewShieldBrother(def, pos)
				break
			}
		}
	}

	w.log.WithField("brothers", len(w.brothers)).Debug("Shield wall formed")
	w.bus.Publish(&WallIntegrityChangedEvent{Alive: w.AliveBrotherCount()})
}

// Brother returns the brother at pos, or nil.
func (w *ShieldWall) Brother(pos WallPosition) *ShieldBrother {
	return w.brothers[pos]
}

// AliveBrotherCount counts living brothers.
func (w *ShieldWall) AliveBrotherCount() int {
	alive := 0
	for _, b := range w.brothers {
		if !b.IsDead() {
			alive++
		}
	}
	return alive
}

// BonusDice is the dice pool bonus granted by the wall's integrity.
func (w *ShieldWall) BonusDice() int {
	return bonusDiceByAlive[clampAlive(w.AliveBrotherCount())]
}

// PlayerTargetChance is the likelihood an attack is aimed at the player.
func (w *ShieldWall) PlayerTargetChance() float64 {
	return playerTargetChanceByAlive[clampAlive(w.AliveBrotherCount())]
}

func clampAlive(n int) int {
	if n < 0 {
		return 0
	}
	if n > len(Flanks) {
		return len(Flanks)
	}
	return n
}

// ApplyDamageToBrother wounds the living brother at pos; otherwise no-op.
func (w *ShieldWall) ApplyDamageToBrother(pos WallPosition, damage int) {
	b := w.brothers[pos]
	if b == nil || b.IsDead() {
		return
	}

	b.TakeDamage(damage)
	w.log.WithFields(logrus.Fields{
		"position": pos.String(),
		"brother":  b.Def.Name,
		"damage":   damage,
		"health":   b.Health,
	}).Debug("Brother wounded")

	w.bus.Publish(&BrotherWoundedEvent{Position: pos, Name: b.Def.Name, Damage: damage, Health: b.Health})
	if b.IsDead() {
		w.bus.Publish(&BrotherDiedEvent{Position: pos, Name: b.Def.Name})
	}
	w.bus.Publish(&WallIntegrityChangedEvent{Alive: w.AliveBrotherCount()})
}

// TryAutoDefense lets the brother at pos attempt to parry on his own.
func (w *ShieldWall) TryAutoDefense(pos WallPosition) bool {
	b := w.brothers[pos]
	if b == nil || b.IsDead() {
		return false
	}
	return b.AttemptAutoDefense(w.src)
}

// HealAllBrothers heals every living brother and returns how many were healed.
func (w *ShieldWall) HealAllBrothers(amount int) int {
	healed := 0
	for _, pos := range Flanks {
		if b := w.brothers[pos]; b != nil && !b.IsDead() {
			b.Heal(amount)
			healed++
		}
	}
	return healed
}

// OccupiedPositions returns Center followed by every living flank.
func (w *ShieldWall) OccupiedPositions() []WallPosition {
	positions := []WallPosition{Center}
	for _, pos := range Flanks {
		if b := w.brothers[pos]; b != nil && !b.IsDead() {
			positions = append(positions, pos)
		}
	}
	return positions
}

// HealthAt returns the health of whoever holds pos.
func (w *ShieldWall) HealthAt(pos WallPosition) int {
	if pos == Center {
		if w.player == nil {
			return 0
		}
		return w.player.Health
	}
	if b := w.brothers[pos]; b != nil {
		return b.Health
	}
	return 0
}
