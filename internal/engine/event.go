package engine

import (
	"fmt"
	"strings"
)

type EventType string

const (
	EventPhaseChanged         EventType = "PhaseChanged"
	EventDiceRolled           EventType = "DiceRolled"
	EventDieLockToggled       EventType = "DieLockToggled"
	EventActionsChanged       EventType = "ActionsChanged"
	EventWaveStarted          EventType = "WaveStarted"
	EventWaveSpawned          EventType = "WaveSpawned"
	EventWaveCleared          EventType = "WaveCleared"
	EventEnemyKilled          EventType = "EnemyKilled"
	EventEnemyStunned         EventType = "EnemyStunned"
	EventAttackBlocked        EventType = "AttackBlocked"
	EventAttackLanded         EventType = "AttackLanded"
	EventBrotherWounded       EventType = "BrotherWounded"
	EventBrotherDied          EventType = "BrotherDied"
	EventBrothersHealed       EventType = "BrothersHealed"
	EventWallIntegrityChanged EventType = "WallIntegrityChanged"
	EventStaminaChanged       EventType = "StaminaChanged"
	EventStaminaExhausted     EventType = "StaminaExhausted"
	EventPlayerWounded        EventType = "PlayerWounded"
	EventBattleEnded          EventType = "BattleEnded"
)

// Event is a notification emitted by the core. Collaborators (UI, journal)
// observe events; Apply folds the event into a BattleRecord when a journal
// is replayed.
type Event interface {
	Type() EventType
	Message() string
	Apply(record *BattleRecord) error
}

// Bus dispatches events to subscribers in subscription order.
// A nil *Bus silently drops everything.
type Bus struct {
	handlers []func(Event)
}

// NewBus creates an empty dispatcher.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for every subsequently published event.
func (b *Bus) Subscribe(h func(Event)) {
	if b == nil || h == nil {
		return
	}
	b.handlers = append(b.handlers, h)
}

// Publish delivers evt to all subscribers.
func (b *Bus) Publish(evt Event) {
	if b == nil || evt == nil {
		return
	}
	for _, h := range b.handlers {
		h(evt)
	}
}

// PhaseChangedEvent marks a turn manager state transition.
type PhaseChangedEvent struct {
	Phase TurnPhase `json:"phase"`
}

func (e *PhaseChangedEvent) Type() EventType { return EventPhaseChanged }
func (e *PhaseChangedEvent) Apply(r *BattleRecord) error {
	if e.Phase == PhaseResolution {
		r.Turns++
	}
	return nil
}
func (e *PhaseChangedEvent) Message() string { return fmt.Sprintf("-- %s --", e.Phase) }

// DiceRolledEvent carries the face of every die in the pool after a roll.
type DiceRolledEvent struct {
	Faces  []Rune `json:"faces"`
	Reroll bool   `json:"reroll"`
}

func (e *DiceRolledEvent) Type() EventType { return EventDiceRolled }
func (e *DiceRolledEvent) Apply(r *BattleRecord) error {
	if e.Reroll {
		r.Rerolls++
	}
	return nil
}
func (e *DiceRolledEvent) Message() string {
	faces := make([]string, len(e.Faces))
	for i, f := range e.Faces {
		faces[i] = fmt.Sprintf("%d:%s", i+1, f)
	}
	verb := "Rolled"
	if e.Reroll {
		verb = "Rerolled"
	}
	return fmt.Sprintf("%s [%s]", verb, strings.Join(faces, " "))
}

// DieLockToggledEvent reports an actual change of a die's lock flag.
type DieLockToggledEvent struct {
	Index  int  `json:"index"`
	Locked bool `json:"locked"`
}

func (e *DieLockToggledEvent) Type() EventType           { return EventDieLockToggled }
func (e *DieLockToggledEvent) Apply(*BattleRecord) error { return nil }
func (e *DieLockToggledEvent) Message() string {
	if e.Locked {
		return fmt.Sprintf("Die %d locked", e.Index+1)
	}
	return fmt.Sprintf("Die %d unlocked", e.Index+1)
}

// ActionsChangedEvent lists the IDs of the currently affordable actions.
type ActionsChangedEvent struct {
	Actions []string `json:"actions"`
}

func (e *ActionsChangedEvent) Type() EventType           { return EventActionsChanged }
func (e *ActionsChangedEvent) Apply(*BattleRecord) error { return nil }
func (e *ActionsChangedEvent) Message() string {
	if len(e.Actions) == 0 {
		return "No actions available"
	}
	return "Available: " + strings.Join(e.Actions, ", ")
}

// WaveStartedEvent carries the 1-based number of the wave just spawned.
type WaveStartedEvent struct {
	Wave int `json:"wave"`
}

func (e *WaveStartedEvent) Type() EventType { return EventWaveStarted }
func (e *WaveStartedEvent) Apply(r *BattleRecord) error {
	if e.Wave > r.WavesReached {
		r.WavesReached = e.Wave
	}
	return nil
}
func (e *WaveStartedEvent) Message() string { return fmt.Sprintf("Wave %d approaches!", e.Wave) }

// WaveSpawnedEvent lists the enemy type names of a freshly spawned wave.
type WaveSpawnedEvent struct {
	Wave    int      `json:"wave"`
	Enemies []string `json:"enemies"`
}

func (e *WaveSpawnedEvent) Type() EventType           { return EventWaveSpawned }
func (e *WaveSpawnedEvent) Apply(*BattleRecord) error { return nil }
func (e *WaveSpawnedEvent) Message() string {
	return fmt.Sprintf("Enemies: %s", strings.Join(e.Enemies, ", "))
}

// WaveClearedEvent fires when the active list becomes empty or all dead.
type WaveClearedEvent struct {
	Wave int `json:"wave"`
}

func (e *WaveClearedEvent) Type() EventType { return EventWaveCleared }
func (e *WaveClearedEvent) Apply(r *BattleRecord) error {
	r.WavesCleared++
	return nil
}
func (e *WaveClearedEvent) Message() string { return fmt.Sprintf("Wave %d cleared!", e.Wave) }

type EnemyKilledEvent struct {
	EnemyID int    `json:"enemy_id"`
	Enemy   string `json:"enemy"`
}

func (e *EnemyKilledEvent) Type() EventType { return EventEnemyKilled }
func (e *EnemyKilledEvent) Apply(r *BattleRecord) error {
	r.EnemiesKilled++
	return nil
}
func (e *EnemyKilledEvent) Message() string { return fmt.Sprintf("%s #%d falls", e.Enemy, e.EnemyID) }

type EnemyStunnedEvent struct {
	EnemyID int    `json:"enemy_id"`
	Enemy   string `json:"enemy"`
}

func (e *EnemyStunnedEvent) Type() EventType { return EventEnemyStunned }
func (e *EnemyStunnedEvent) Apply(r *BattleRecord) error {
	r.EnemiesStunned++
	return nil
}
func (e *EnemyStunnedEvent) Message() string { return fmt.Sprintf("%s #%d is stunned", e.Enemy, e.EnemyID) }

// Reasons an attack can be canceled.
const (
	BlockReasonBlock       = "block"
	BlockReasonBlockAll    = "block_all"
	BlockReasonCover       = "cover"
	BlockReasonAutoDefense = "auto_defense"
)

// AttackBlockedEvent reports a canceled attack and what canceled it.
type AttackBlockedEvent struct {
	Enemy  string       `json:"enemy"`
	Target WallPosition `json:"target"`
	Damage int          `json:"damage"`
	Reason string       `json:"reason"`
}

func (e *AttackBlockedEvent) Type() EventType { return EventAttackBlocked }
func (e *AttackBlockedEvent) Apply(r *BattleRecord) error {
	r.AttacksBlocked++
	return nil
}
func (e *AttackBlockedEvent) Message() string {
	return fmt.Sprintf("%s's attack on %s stopped (%s)", e.Enemy, e.Target, e.Reason)
}

type AttackLandedEvent struct {
	Enemy  string       `json:"enemy"`
	Target WallPosition `json:"target"`
	Damage int          `json:"damage"`
}

func (e *AttackLandedEvent) Type() EventType { return EventAttackLanded }
func (e *AttackLandedEvent) Apply(r *BattleRecord) error {
	r.AttacksLanded++
	return nil
}
func (e *AttackLandedEvent) Message() string {
	return fmt.Sprintf("%s hits %s for %d", e.Enemy, e.Target, e.Damage)
}

type BrotherWoundedEvent struct {
	Position WallPosition `json:"position"`
	Name     string       `json:"name"`
	Damage   int          `json:"damage"`
	Health   int          `json:"health"`
}

func (e *BrotherWoundedEvent) Type() EventType { return EventBrotherWounded }
func (e *BrotherWoundedEvent) Apply(r *BattleRecord) error {
	r.BrotherDamage += e.Damage
	return nil
}
func (e *BrotherWoundedEvent) Message() string {
	return fmt.Sprintf("%s takes %d (%d left)", e.Name, e.Damage, e.Health)
}

type BrotherDiedEvent struct {
	Position WallPosition `json:"position"`
	Name     string       `json:"name"`
}

func (e *BrotherDiedEvent) Type() EventType { return EventBrotherDied }
func (e *BrotherDiedEvent) Apply(r *BattleRecord) error {
	r.BrothersLost++
	return nil
}
func (e *BrotherDiedEvent) Message() string {
	return fmt.Sprintf("%s has fallen at %s", e.Name, e.Position)
}

type BrothersHealedEvent struct {
	Count  int `json:"count"`
	Amount int `json:"amount"`
}

func (e *BrothersHealedEvent) Type() EventType           { return EventBrothersHealed }
func (e *BrothersHealedEvent) Apply(*BattleRecord) error { return nil }
func (e *BrothersHealedEvent) Message() string {
	return fmt.Sprintf("%d brothers healed for %d", e.Count, e.Amount)
}

// WallIntegrityChangedEvent carries the number of living shield-brothers.
type WallIntegrityChangedEvent struct {
	Alive int `json:"alive"`
}

func (e *WallIntegrityChangedEvent) Type() EventType           { return EventWallIntegrityChanged }
func (e *WallIntegrityChangedEvent) Apply(*BattleRecord) error { return nil }
func (e *WallIntegrityChangedEvent) Message() string {
	return fmt.Sprintf("Wall integrity: %d/%d", e.Alive, len(Flanks))
}

type StaminaChangedEvent struct {
	Current int `json:"current"`
	Delta   int `json:"delta"`
}

func (e *StaminaChangedEvent) Type() EventType { return EventStaminaChanged }
func (e *StaminaChangedEvent) Apply(r *BattleRecord) error {
	r.StaminaLeft = e.Current
	return nil
}
func (e *StaminaChangedEvent) Message() string {
	return fmt.Sprintf("Stamina %d (%+d)", e.Current, e.Delta)
}

type StaminaExhaustedEvent struct{}

func (e *StaminaExhaustedEvent) Type() EventType           { return EventStaminaExhausted }
func (e *StaminaExhaustedEvent) Apply(*BattleRecord) error { return nil }
func (e *StaminaExhaustedEvent) Message() string           { return "You are exhausted" }

type PlayerWoundedEvent struct {
	Damage int `json:"damage"`
	Health int `json:"health"`
}

func (e *PlayerWoundedEvent) Type() EventType { return EventPlayerWounded }
func (e *PlayerWoundedEvent) Apply(r *BattleRecord) error {
	r.DamageTaken += e.Damage
	return nil
}
func (e *PlayerWoundedEvent) Message() string {
	return fmt.Sprintf("You take %d (%d left)", e.Damage, e.Health)
}

type BattleEndedEvent struct {
	Victory bool `json:"victory"`
	Stamina int  `json:"stamina"`
}

func (e *BattleEndedEvent) Type() EventType { return EventBattleEnded }
func (e *BattleEndedEvent) Apply(r *BattleRecord) error {
	if r.Ended {
		return fmt.Errorf("battle already ended")
	}
	r.Ended = true
	r.Victory = e.Victory
	r.StaminaLeft = e.Stamina
	return nil
}
func (e *BattleEndedEvent) Message() string {
	if e.Victory {
		return "Victory! The wall holds."
	}
	return "Defeat. The wall is broken."
}
