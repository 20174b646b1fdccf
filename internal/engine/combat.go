package engine

import (
	"github.com/sirupsen/logrus"
	"github.com/suderio/shieldwall/internal/logger"
)

// berserkerRecoil is the damage Berserker Rage deals its user.
const berserkerRecoil = 1

// ResolutionResult is the outcome of one resolution pass.
type ResolutionResult struct {
	EnemiesKilled    int
	EnemiesStunned   int
	BrothersHealed   int
	DamageToPlayer   int
	DamageToBrothers map[WallPosition]int
	// Landed holds every attack that got through, in attack order.
	Landed []Attack
}

func newResolutionResult() ResolutionResult {
	return ResolutionResult{DamageToBrothers: make(map[WallPosition]int)}
}

// CombatResolver applies player actions and enemy attacks.
type CombatResolver struct {
	roster  EnemyRoster
	targets *TargetSelector
	bus     *Bus
	log     *logrus.Entry
}

func NewCombatResolver(roster EnemyRoster, targets *TargetSelector, bus *Bus) *CombatResolver {
	return &CombatResolver{
		roster:  roster,
		targets: targets,
		bus:     bus,
		log:     logger.Component("combat_resolver"),
	}
}

// GenerateEnemyAttacks builds this turn's attacks in enemy order. Dead
// enemies are skipped; stunned enemies lose this attack and recover.
func (r *CombatResolver) GenerateEnemyAttacks(enemies []*Enemy, wall WallState) []Attack {
	attacks := make([]Attack, 0, len(enemies))
	for _, e := range enemies {
		if e == nil || e.IsDead() {
			continue
		}
		if e.Stunned {
			e.ClearStun()
			r.log.WithField("enemy_id", e.ID).Debug("Stunned enemy skips its attack")
			continue
		}
		target := r.targets.SelectTarget(e.Def, wall)
		attacks = append(attacks, e.CreateAttack(target))
	}
	return attacks
}

// Resolve runs one resolution pass. Phases run in a fixed order and each
// may cancel attacks the next phase would otherwise see:
// strikes, stuns, heals, blocks, cover, remaining damage.
func (r *CombatResolver) Resolve(actions []*ActionDefinition, attacks []Attack, wall Formation) ResolutionResult {
	result := newResolutionResult()

	pending := make([]Attack, len(attacks))
	copy(pending, attacks)

	r.executeStrikes(actions, &result)
	r.executeStuns(actions, &result)
	r.executeHeals(actions, wall, &result)
	pending = r.executeBlocks(actions, pending)
	pending = r.executeCover(actions, pending)
	r.applyRemaining(pending, &result)

	r.log.WithFields(logrus.Fields{
		"actions":          len(actions),
		"attacks":          len(attacks),
		"killed":           result.EnemiesKilled,
		"stunned":          result.EnemiesStunned,
		"healed":           result.BrothersHealed,
		"landed":           len(result.Landed),
		"damage_to_player": result.DamageToPlayer,
	}).Debug("Resolution complete")

	return result
}

func (r *CombatResolver) executeStrikes(actions []*ActionDefinition, result *ResolutionResult) {
	for _, a := range actions {
		if a == nil {
			continue
		}
		switch a.Effect {
		case EffectStrike, EffectMultiStrike:
			result.EnemiesKilled += r.killFromFront(a.Power)
		case EffectCounter:
			result.EnemiesKilled += r.killFromFront(1)
		case EffectBerserkerRage:
			result.EnemiesKilled += r.killFromFront(a.Power)
			result.DamageToPlayer += berserkerRecoil
		}
	}
}

// killFromFront removes up to n living enemies in roster order.
func (r *CombatResolver) killFromFront(n int) int {
	if r.roster == nil {
		return 0
	}
	live := r.roster.LiveEnemies()
	killed := 0
	for _, e := range live {
		if killed >= n {
			break
		}
		e.Kill()
		if r.roster.RemoveEnemy(e.ID) {
			killed++
		}
	}
	return killed
}

func (r *CombatResolver) executeStuns(actions []*ActionDefinition, result *ResolutionResult) {
	if r.roster == nil {
		return
	}
	for _, a := range actions {
		if a == nil || a.Effect != EffectStun {
			continue
		}
		for _, e := range r.roster.LiveEnemies() {
			e.ApplyStun()
			result.EnemiesStunned++
			r.bus.Publish(&EnemyStunnedEvent{EnemyID: e.ID, Enemy: e.Def.Name})
		}
	}
}

func (r *CombatResolver) executeHeals(actions []*ActionDefinition, wall Formation, result *ResolutionResult) {
	if wall == nil {
		return
	}
	for _, a := range actions {
		if a == nil || a.Effect != EffectHeal {
			continue
		}
		healed := wall.HealAllBrothers(a.Power)
		result.BrothersHealed += healed
		r.bus.Publish(&BrothersHealedEvent{Count: healed, Amount: a.Power})
	}
}

func (r *CombatResolver) executeBlocks(actions []*ActionDefinition, pending []Attack) []Attack {
	for _, a := range actions {
		if a == nil || len(pending) == 0 {
			continue
		}
		switch a.Effect {
		case EffectBlockAll:
			for _, atk := range pending {
				r.blocked(atk, BlockReasonBlockAll)
			}
			pending = pending[:0]
		case EffectBlock, EffectCounter:
			charges := a.Power
			for i := len(pending) - 1; i >= 0 && charges > 0; i-- {
				atk := pending[i]
				if atk.Target != Center {
					continue
				}
				if atk.IgnoresBlocks {
					r.log.WithFields(logrus.Fields{
						"enemy":  atk.sourceName(),
						"damage": atk.Damage,
					}).Debug("Attack ignores block")
					continue
				}
				r.blocked(atk, BlockReasonBlock)
				pending = append(pending[:i], pending[i+1:]...)
				charges--
			}
		}
	}
	return pending
}

func (r *CombatResolver) executeCover(actions []*ActionDefinition, pending []Attack) []Attack {
	for _, a := range actions {
		if a == nil || a.Effect != EffectCover {
			continue
		}
		for _, pos := range CoverPositions {
			for i := len(pending) - 1; i >= 0; i-- {
				if pending[i].Target == pos {
					r.blocked(pending[i], BlockReasonCover)
					pending = append(pending[:i], pending[i+1:]...)
					break
				}
			}
		}
	}
	return pending
}

func (r *CombatResolver) applyRemaining(pending []Attack, result *ResolutionResult) {
	for _, atk := range pending {
		if atk.Target == Center {
			result.DamageToPlayer += atk.Damage
		} else {
			result.DamageToBrothers[atk.Target] += atk.Damage
		}
		result.Landed = append(result.Landed, atk)
		r.bus.Publish(&AttackLandedEvent{Enemy: atk.sourceName(), Target: atk.Target, Damage: atk.Damage})
	}
}

func (r *CombatResolver) blocked(atk Attack, reason string) {
	r.bus.Publish(&AttackBlockedEvent{
		Enemy:  atk.sourceName(),
		Target: atk.Target,
		Damage: atk.Damage,
		Reason: reason,
	})
}
