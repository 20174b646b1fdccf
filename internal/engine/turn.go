package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/suderio/shieldwall/internal/logger"
)

// ErrWrongPhase is returned for player input outside the player turn or
// after the battle ended. Callers may drop it silently.
var ErrWrongPhase = errors.New("not accepted in the current phase")

// ErrNotEnoughStamina is returned when a reroll would exhaust the player.
var ErrNotEnoughStamina = errors.New("not enough stamina")

// TurnPhase is the state of the turn manager.
type TurnPhase int

const (
	// PhaseIdle is the state before the first battle starts.
	PhaseIdle TurnPhase = iota
	PhaseWaveStart
	PhasePlayerTurn
	PhaseResolution
	PhaseWaveEnd
)

var phaseNames = map[TurnPhase]string{
	PhaseIdle:       "Idle",
	PhaseWaveStart:  "WaveStart",
	PhasePlayerTurn: "PlayerTurn",
	PhaseResolution: "Resolution",
	PhaseWaveEnd:    "WaveEnd",
}

func (p TurnPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TurnPhase(%d)", int(p))
}

func (p TurnPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *TurnPhase) UnmarshalText(b []byte) error {
	for phase, name := range phaseNames {
		if strings.EqualFold(name, string(b)) {
			*p = phase
			return nil
		}
	}
	return fmt.Errorf("unknown turn phase %q", string(b))
}

// GateContext is the battle state an ActionGate may inspect.
type GateContext struct {
	AliveBrothers int
	Wave          int
	Stamina       int
	PlayerHealth  int
	Enemies       int
}

// ActionGate decides whether an affordable action may be offered.
type ActionGate func(action *ActionDefinition, ctx GateContext) bool

// TurnManagerConfig wires a TurnManager to its collaborators.
type TurnManagerConfig struct {
	Pool     *DicePool
	Waves    *WaveController
	Wall     *ShieldWall
	Player   *Player
	Stamina  *Stamina
	Resolver *CombatResolver
	Catalog  []*ActionDefinition
	Bus      *Bus

	// Optional.
	Gate        ActionGate
	Pacer       Pacer
	SettleDelay time.Duration
}

// TurnManager sequences a battle:
// WaveStart -> PlayerTurn -> Resolution -> WaveEnd -> WaveStart ...
// until victory (waves exhausted) or defeat (player dead or exhausted).
// It is synchronous; the only wait point is the player turn, which ends
// when ConfirmActions is called.
type TurnManager struct {
	pool     *DicePool
	waves    *WaveController
	wall     *ShieldWall
	player   *Player
	stamina  *Stamina
	resolver *CombatResolver
	catalog  []*ActionDefinition
	bus      *Bus
	gate     ActionGate
	pacer    Pacer
	delay    time.Duration

	phase      TurnPhase
	ended      bool
	victory    bool
	exhausted  bool
	attacks    []Attack
	available  []*ActionDefinition
	lastResult *ResolutionResult
	log        *logrus.Entry
}

func NewTurnManager(cfg TurnManagerConfig) *TurnManager {
	pacer := cfg.Pacer
	if pacer == nil {
		pacer = NoPause{}
	}
	tm := &TurnManager{
		pool:     cfg.Pool,
		waves:    cfg.Waves,
		wall:     cfg.Wall,
		player:   cfg.Player,
		stamina:  cfg.Stamina,
		resolver: cfg.Resolver,
		catalog:  cfg.Catalog,
		bus:      cfg.Bus,
		gate:     cfg.Gate,
		pacer:    pacer,
		delay:    cfg.SettleDelay,
		log:      logger.Component("turn_manager"),
	}

	// the battle ends at the next check, after every subscriber has seen the signal
	cfg.Bus.Subscribe(func(evt Event) {
		if _, ok := evt.(*StaminaExhaustedEvent); ok {
			tm.exhausted = true
		}
	})

	return tm
}

func (tm *TurnManager) Phase() TurnPhase { return tm.phase }
func (tm *TurnManager) Ended() bool      { return tm.ended }
func (tm *TurnManager) Victory() bool    { return tm.victory }

// PendingAttacks returns the attacks telegraphed for this turn.
func (tm *TurnManager) PendingAttacks() []Attack {
	out := make([]Attack, len(tm.attacks))
	copy(out, tm.attacks)
	return out
}

// AvailableActions returns the actions the locked dice currently afford.
func (tm *TurnManager) AvailableActions() []*ActionDefinition {
	out := make([]*ActionDefinition, len(tm.available))
	copy(out, tm.available)
	return out
}

// LastResult returns the most recent resolution, or nil.
func (tm *TurnManager) LastResult() *ResolutionResult {
	return tm.lastResult
}

// StartBattle resets every collaborator and runs up to the first player turn.
func (tm *TurnManager) StartBattle() {
	tm.ended = false
	tm.victory = false
	tm.attacks = nil
	tm.available = nil
	tm.lastResult = nil

	tm.stamina.Reset()
	tm.exhausted = false
	tm.player.Reset()
	tm.wall.InitializeBrothers()
	tm.waves.StartBattle()

	tm.log.WithField("waves", tm.waves.WaveCount()).Info("Battle started")
	tm.enterWaveStart()
}

// SetLocked locks or unlocks die i and refreshes the available actions.
func (tm *TurnManager) SetLocked(i int, locked bool) error {
	if !tm.acceptingInput() {
		return ErrWrongPhase
	}
	tm.pool.SetLocked(i, locked)
	tm.RefreshActions()
	return nil
}

// ToggleLock flips die i and refreshes the available actions.
func (tm *TurnManager) ToggleLock(i int) error {
	if !tm.acceptingInput() {
		return ErrWrongPhase
	}
	tm.pool.ToggleLock(i)
	tm.RefreshActions()
	return nil
}

// UnlockAll releases every die and refreshes the available actions.
func (tm *TurnManager) UnlockAll() error {
	if !tm.acceptingInput() {
		return ErrWrongPhase
	}
	tm.pool.UnlockAll()
	tm.RefreshActions()
	return nil
}

// Reroll re-rolls the unlocked dice for the configured stamina cost.
func (tm *TurnManager) Reroll() error {
	if !tm.acceptingInput() {
		return ErrWrongPhase
	}
	if !tm.stamina.SpendReroll() {
		return ErrNotEnoughStamina
	}
	tm.pool.Reroll()
	tm.RefreshActions()
	return nil
}

// ConfirmActions ends the player turn with the chosen actions and runs the
// battle forward to the next player turn or to the end of the battle.
func (tm *TurnManager) ConfirmActions(actions []*ActionDefinition) error {
	if !tm.acceptingInput() {
		return ErrWrongPhase
	}
	tm.runResolution(actions)
	return nil
}

// RefreshActions recomputes the affordable actions from the locked dice.
func (tm *TurnManager) RefreshActions() {
	combos := ResolveCombos(tm.pool.LockedRunes(), tm.catalog)
	if tm.gate != nil {
		ctx := tm.gateContext()
		allowed := combos[:0]
		for _, a := range combos {
			if tm.gate(a, ctx) {
				allowed = append(allowed, a)
			}
		}
		combos = allowed
	}
	tm.available = combos

	names := make([]string, len(combos))
	for i, a := range combos {
		names[i] = a.ID
	}
	tm.bus.Publish(&ActionsChangedEvent{Actions: names})
}

func (tm *TurnManager) gateContext() GateContext {
	return GateContext{
		AliveBrothers: tm.wall.AliveBrotherCount(),
		Wave:          tm.waves.CurrentWaveNumber(),
		Stamina:       tm.stamina.Current(),
		PlayerHealth:  tm.player.Health,
		Enemies:       len(tm.waves.LiveEnemies()),
	}
}

func (tm *TurnManager) acceptingInput() bool {
	return !tm.ended && tm.phase == PhasePlayerTurn
}

func (tm *TurnManager) setPhase(p TurnPhase) {
	tm.phase = p
	tm.log.WithField("phase", p.String()).Debug("Phase changed")
	tm.bus.Publish(&PhaseChangedEvent{Phase: p})
}

func (tm *TurnManager) enterWaveStart() {
	if tm.ended {
		return
	}
	tm.setPhase(PhaseWaveStart)

	if tm.waves.CurrentWaveNumber() == 0 || tm.waves.AllDead() {
		if !tm.waves.SpawnNextWave() {
			tm.endBattle(true)
			return
		}
	}

	tm.attacks = tm.resolver.GenerateEnemyAttacks(tm.waves.LiveEnemies(), tm.wall)
	tm.pacer.Pause(tm.delay)
	tm.enterPlayerTurn()
}

func (tm *TurnManager) enterPlayerTurn() {
	if tm.ended {
		return
	}
	tm.setPhase(PhasePlayerTurn)

	tm.pool.SetBonus(tm.wall.BonusDice())
	tm.pool.Reset()
	tm.pool.RollAll()
	tm.RefreshActions()
}

func (tm *TurnManager) runResolution(actions []*ActionDefinition) {
	if tm.ended {
		return
	}
	tm.setPhase(PhaseResolution)

	result := tm.resolver.Resolve(actions, tm.attacks, tm.wall)
	tm.attacks = nil
	tm.autoDefend(&result)
	tm.applyDamage(result)
	tm.lastResult = &result

	tm.log.WithFields(logrus.Fields{
		"killed":        result.EnemiesKilled,
		"player_damage": result.DamageToPlayer,
		"player_health": tm.player.Health,
	}).Info("Turn resolved")

	if tm.checkBattleEnd() {
		return
	}
	tm.pacer.Pause(tm.delay)
	tm.enterWaveEnd()
}

// autoDefend gives each brother a chance to parry an attack that landed on
// his flank.
func (tm *TurnManager) autoDefend(result *ResolutionResult) {
	kept := make([]Attack, 0, len(result.Landed))
	for _, atk := range result.Landed {
		if atk.Target != Center && tm.wall.TryAutoDefense(atk.Target) {
			result.DamageToBrothers[atk.Target] -= atk.Damage
			tm.bus.Publish(&AttackBlockedEvent{
				Enemy:  atk.sourceName(),
				Target: atk.Target,
				Damage: atk.Damage,
				Reason: BlockReasonAutoDefense,
			})
			continue
		}
		kept = append(kept, atk)
	}
	result.Landed = kept
}

func (tm *TurnManager) applyDamage(result ResolutionResult) {
	tm.player.TakeDamage(result.DamageToPlayer)
	for _, pos := range Flanks {
		if dmg := result.DamageToBrothers[pos]; dmg > 0 {
			tm.wall.ApplyDamageToBrother(pos, dmg)
		}
	}
}

func (tm *TurnManager) enterWaveEnd() {
	if tm.ended {
		return
	}
	tm.setPhase(PhaseWaveEnd)

	tm.stamina.TickTurnEnd()
	if tm.checkBattleEnd() {
		return
	}

	if tm.waves.AllDead() {
		tm.stamina.GrantWaveClearBonus()
		if !tm.waves.HasMoreWaves() {
			tm.endBattle(true)
			return
		}
	}

	tm.pacer.Pause(tm.delay)
	tm.enterWaveStart()
}

// checkBattleEnd ends the battle in defeat if the player died or ran out
// of stamina. It reports whether the battle is over.
func (tm *TurnManager) checkBattleEnd() bool {
	if tm.ended {
		return true
	}
	if tm.player.IsDead() || tm.exhausted || tm.stamina.Exhausted() {
		tm.endBattle(false)
		return true
	}
	return false
}

func (tm *TurnManager) endBattle(victory bool) {
	if tm.ended {
		return
	}
	tm.ended = true
	tm.victory = victory
	tm.available = nil

	tm.log.WithFields(logrus.Fields{
		"victory": victory,
		"wave":    tm.waves.CurrentWaveNumber(),
	}).Info("Battle ended")
	tm.bus.Publish(&BattleEndedEvent{Victory: victory, Stamina: tm.stamina.Current()})
}
