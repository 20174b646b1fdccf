package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suderio/shieldwall/internal/engine"
	"github.com/suderio/shieldwall/internal/parser"
)

// DieView is one die as shown to the player.
type DieView struct {
	Face   engine.Rune
	Locked bool
}

// BrotherView is one shield-brother as shown to the player.
type BrotherView struct {
	Position  engine.WallPosition
	Name      string
	Health    int
	MaxHealth int
}

func (b BrotherView) Dead() bool { return b.Health <= 0 }

// EnemyView is one living enemy.
type EnemyView struct {
	ID      int
	Name    string
	Health  int
	Stunned bool
}

// AttackView is one telegraphed attack.
type AttackView struct {
	Enemy         string
	Target        engine.WallPosition
	Damage        int
	IgnoresBlocks bool
}

// Snapshot is a read-only copy of the battle for display.
type Snapshot struct {
	Started      bool
	Ended        bool
	Victory      bool
	Phase        engine.TurnPhase
	Wave         int
	WaveCount    int
	PlayerHealth int
	PlayerMax    int
	Stamina      int
	StaminaMax   int
	Dice         []DieView
	Brothers     []BrotherView
	Enemies      []EnemyView
	Attacks      []AttackView
	Available    []*engine.ActionDefinition
}

// State returns the current battle as a Snapshot.
func (s *Session) State() Snapshot {
	snap := Snapshot{
		Started:      s.started,
		Ended:        s.turns.Ended(),
		Victory:      s.turns.Victory(),
		Phase:        s.turns.Phase(),
		Wave:         s.waves.CurrentWaveNumber(),
		WaveCount:    s.waves.WaveCount(),
		PlayerHealth: s.player.Health,
		PlayerMax:    s.player.MaxHealth,
		Stamina:      s.stamina.Current(),
		StaminaMax:   s.stamina.Tuning().Max,
		Available:    s.turns.AvailableActions(),
	}

	for i, face := range s.pool.Faces() {
		snap.Dice = append(snap.Dice, DieView{Face: face, Locked: s.pool.IsLocked(i)})
	}
	for _, pos := range engine.Flanks {
		if b := s.wall.Brother(pos); b != nil {
			snap.Brothers = append(snap.Brothers, BrotherView{
				Position:  pos,
				Name:      b.Def.Name,
				Health:    b.Health,
				MaxHealth: b.Def.MaxHealth,
			})
		}
	}
	for _, e := range s.waves.LiveEnemies() {
		snap.Enemies = append(snap.Enemies, EnemyView{ID: e.ID, Name: e.Def.Name, Health: e.Health, Stunned: e.Stunned})
	}
	for _, a := range s.turns.PendingAttacks() {
		name := "Unknown"
		if a.Source != nil {
			name = a.Source.Name
		}
		snap.Attacks = append(snap.Attacks, AttackView{Enemy: name, Target: a.Target, Damage: a.Damage, IgnoresBlocks: a.IgnoresBlocks})
	}

	return snap
}

// FormatStatus renders a snapshot as plain text.
func FormatStatus(snap Snapshot) string {
	if !snap.Started {
		return "No battle yet. Type 'start' to form the wall."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wave %d/%d  Phase %s\n", snap.Wave, snap.WaveCount, snap.Phase)
	fmt.Fprintf(&b, "Health %d/%d  Stamina %d/%d\n", snap.PlayerHealth, snap.PlayerMax, snap.Stamina, snap.StaminaMax)

	b.WriteString("Wall:")
	for _, br := range snap.Brothers {
		if br.Dead() {
			fmt.Fprintf(&b, "  %s[%s] fallen", br.Name, br.Position)
			continue
		}
		fmt.Fprintf(&b, "  %s[%s] %d/%d", br.Name, br.Position, br.Health, br.MaxHealth)
	}
	b.WriteString("\n")

	b.WriteString("Dice:")
	for i, d := range snap.Dice {
		mark := ""
		if d.Locked {
			mark = "*"
		}
		fmt.Fprintf(&b, "  %d:%s%s", i+1, d.Face, mark)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Enemies: %d\n", len(snap.Enemies))
	for _, a := range snap.Attacks {
		extra := ""
		if a.IgnoresBlocks {
			extra = " (unblockable)"
		}
		fmt.Fprintf(&b, "  %s -> %s for %d%s\n", a.Enemy, a.Target, a.Damage, extra)
	}

	if snap.Ended {
		if snap.Victory {
			b.WriteString("The battle is won.\n")
		} else {
			b.WriteString("The battle is lost.\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatActions lists actions with their rune costs.
func FormatActions(actions []*engine.ActionDefinition) string {
	if len(actions) == 0 {
		return "No actions available. Lock some dice."
	}
	lines := make([]string, len(actions))
	for i, a := range actions {
		runes := make([]string, len(a.Required))
		for j, r := range a.Required {
			runes[j] = r.String()
		}
		lines[i] = fmt.Sprintf("%-16s %-28s %s", a.ID, strings.Join(runes, "+"), a.Description)
	}
	return strings.Join(lines, "\n")
}

// Help returns usage for topic, or for every command when topic is empty.
func Help(topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic != "" {
		if usage, ok := parser.Usage[topic]; ok {
			return usage
		}
		return fmt.Sprintf("No help for %q", topic)
	}

	names := make([]string, 0, len(parser.Usage))
	for name := range parser.Usage {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = parser.Usage[name]
	}
	return strings.Join(lines, "\n")
}
