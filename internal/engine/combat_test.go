package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	thrall = &EnemyDefinition{ID: "thrall", Name: "Thrall", Health: 1, Damage: 1, Targeting: TargetPlayer}
	hersir = &EnemyDefinition{ID: "hersir", Name: "Hersir", Health: 3, Damage: 2, Targeting: TargetPlayer, IgnoresBlocks: true}
)

// recorder collects every published event.
type recorder struct {
	events []Event
}

func (r *recorder) handle(evt Event) { r.events = append(r.events, evt) }

func (r *recorder) ofType(t EventType) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

func newRecordedBus() (*Bus, *recorder) {
	bus := NewBus()
	rec := &recorder{}
	bus.Subscribe(rec.handle)
	return bus, rec
}

func spawnedWave(t *testing.T, bus *Bus, entries ...SpawnEntry) *WaveController {
	t.Helper()
	waves := NewWaveController([]*WaveDefinition{{Name: "test", Spawns: entries}}, bus)
	require.True(t, waves.SpawnNextWave())
	return waves
}

func testRoster() []*BrotherDefinition {
	return []*BrotherDefinition{
		{Name: "Ulf", MaxHealth: 3, Position: FarLeft},
		{Name: "Bjorn", MaxHealth: 3, Position: Left},
		{Name: "Eirik", MaxHealth: 3, Position: Right},
		{Name: "Hakon", MaxHealth: 3, Position: FarRight},
	}
}

func newTestWall(bus *Bus) *ShieldWall {
	wall := NewShieldWall(testRoster(), NewPlayer(10, bus), &scriptedSource{floats: []float64{0.99}}, bus)
	wall.InitializeBrothers()
	return wall
}

func attacksAt(positions ...WallPosition) []Attack {
	out := make([]Attack, len(positions))
	for i, pos := range positions {
		out[i] = Attack{Source: thrall, EnemyID: i + 1, Damage: 1, Target: pos}
	}
	return out
}

func liveIDs(roster EnemyRoster) []int {
	var out []int
	for _, e := range roster.LiveEnemies() {
		out = append(out, e.ID)
	}
	return out
}

func TestStrikeKillsFromFront(t *testing.T) {
	bus, rec := newRecordedBus()
	waves := spawnedWave(t, bus, SpawnEntry{Enemy: thrall, Count: 3})
	resolver := NewCombatResolver(waves, NewTargetSelector(nil), bus)

	strike := &ActionDefinition{ID: "cleave", Effect: EffectMultiStrike, Power: 2}
	result := resolver.Resolve([]*ActionDefinition{strike}, nil, nil)

	assert.Equal(t, 2, result.EnemiesKilled)
	assert.Equal(t, []int{3}, liveIDs(waves))
	assert.Len(t, rec.ofType(EventEnemyKilled), 2)
	assert.Empty(t, rec.ofType(EventWaveCleared))
}

func TestStrikeClearingWaveAnnouncesIt(t *testing.T) {
	bus, rec := newRecordedBus()
	waves := spawnedWave(t, bus, SpawnEntry{Enemy: thrall, Count: 1})
	resolver := NewCombatResolver(waves, NewTargetSelector(nil), bus)

	strike := &ActionDefinition{ID: "strike", Effect: EffectStrike, Power: 3}
	result := resolver.Resolve([]*ActionDefinition{strike}, nil, nil)

	assert.Equal(t, 1, result.EnemiesKilled)
	assert.True(t, waves.AllDead())
	assert.Len(t, rec.ofType(EventWaveCleared), 1)
}

func TestCounterKillsOneAndBlocks(t *testing.T) {
	bus, _ := newRecordedBus()
	waves := spawnedWave(t, bus, SpawnEntry{Enemy: thrall, Count: 3})
	resolver := NewCombatResolver(waves, NewTargetSelector(nil), bus)

	counter := &ActionDefinition{ID: "riposte", Effect: EffectCounter, Power: 2}
	result := resolver.Resolve([]*ActionDefinition{counter}, attacksAt(Center, Center, Center), nil)

	assert.Equal(t, 1, result.EnemiesKilled)
	assert.Equal(t, 1, result.DamageToPlayer)
	require.Len(t, result.Landed, 1)
	assert.Equal(t, 1, result.Landed[0].EnemyID)
}

func TestBerserkerRecoilWithNoEnemies(t *testing.T) {
	bus, _ := newRecordedBus()
	waves := NewWaveController(nil, bus)
	resolver := NewCombatResolver(waves, NewTargetSelector(nil), bus)

	rage := &ActionDefinition{ID: "rage", Effect: EffectBerserkerRage, Power: 3}
	result := resolver.Resolve([]*ActionDefinition{rage}, nil, nil)

	assert.Equal(t, 0, result.EnemiesKilled)
	assert.Equal(t, 1, result.DamageToPlayer)
}

func TestBlockAllCancelsEverything(t *testing.T) {
	bus, rec := newRecordedBus()
	resolver := NewCombatResolver(nil, NewTargetSelector(nil), bus)

	testudo := &ActionDefinition{ID: "testudo", Effect: EffectBlockAll}
	result := resolver.Resolve([]*ActionDefinition{testudo}, attacksAt(Center, Left, Center), nil)

	assert.Empty(t, result.Landed)
	assert.Equal(t, 0, result.DamageToPlayer)
	assert.Empty(t, result.DamageToBrothers)
	assert.Len(t, rec.ofType(EventAttackBlocked), 3)
	assert.Empty(t, rec.ofType(EventAttackLanded))
}

func TestBlockCancelsLastCenterAttack(t *testing.T) {
	bus, rec := newRecordedBus()
	resolver := NewCombatResolver(nil, NewTargetSelector(nil), bus)

	block := &ActionDefinition{ID: "block", Effect: EffectBlock, Power: 1}
	result := resolver.Resolve([]*ActionDefinition{block}, attacksAt(Center, Left, Center), nil)

	require.Len(t, result.Landed, 2)
	assert.Equal(t, 1, result.Landed[0].EnemyID)
	assert.Equal(t, 2, result.Landed[1].EnemyID)
	assert.Equal(t, 1, result.DamageToPlayer)
	assert.Equal(t, 1, result.DamageToBrothers[Left])
	assert.Len(t, rec.ofType(EventAttackBlocked), 1)
	assert.Len(t, rec.ofType(EventAttackLanded), 2)
}

func TestBlockSkipsAttacksThatIgnoreBlocks(t *testing.T) {
	resolver := NewCombatResolver(nil, NewTargetSelector(nil), nil)

	attacks := []Attack{
		{Source: thrall, EnemyID: 1, Damage: 1, Target: Center},
		{Source: hersir, EnemyID: 2, Damage: 2, Target: Center, IgnoresBlocks: true},
	}
	block := &ActionDefinition{ID: "block", Effect: EffectBlock, Power: 1}
	result := resolver.Resolve([]*ActionDefinition{block}, attacks, nil)

	// the charge is not spent on the hersir, so the thrall is blocked
	require.Len(t, result.Landed, 1)
	assert.Equal(t, 2, result.Landed[0].EnemyID)
	assert.Equal(t, 2, result.DamageToPlayer)
}

func TestCoverCancelsOneAttackPerAdjacentFlank(t *testing.T) {
	bus, rec := newRecordedBus()
	resolver := NewCombatResolver(nil, NewTargetSelector(nil), bus)

	cover := &ActionDefinition{ID: "cover", Effect: EffectCover}
	result := resolver.Resolve([]*ActionDefinition{cover}, attacksAt(Left, Left), nil)

	require.Len(t, result.Landed, 1)
	assert.Equal(t, 1, result.Landed[0].EnemyID)
	assert.Equal(t, 1, result.DamageToBrothers[Left])

	blocked := rec.ofType(EventAttackBlocked)
	require.Len(t, blocked, 1)
	assert.Equal(t, BlockReasonCover, blocked[0].(*AttackBlockedEvent).Reason)
}

func TestCoverLeavesFarFlanksAndCenter(t *testing.T) {
	resolver := NewCombatResolver(nil, NewTargetSelector(nil), nil)

	cover := &ActionDefinition{ID: "cover", Effect: EffectCover}
	result := resolver.Resolve([]*ActionDefinition{cover}, attacksAt(FarLeft, Left, Center, Right, FarRight), nil)

	assert.Len(t, result.Landed, 3)
	assert.Equal(t, 1, result.DamageToPlayer)
	assert.Equal(t, 1, result.DamageToBrothers[FarLeft])
	assert.Equal(t, 1, result.DamageToBrothers[FarRight])
	assert.Zero(t, result.DamageToBrothers[Left])
	assert.Zero(t, result.DamageToBrothers[Right])
}

func TestStunSkipsNextAttack(t *testing.T) {
	bus, rec := newRecordedBus()
	waves := spawnedWave(t, bus, SpawnEntry{Enemy: thrall, Count: 2})
	resolver := NewCombatResolver(waves, NewTargetSelector(nil), bus)
	wall := newTestWall(bus)

	stun := &ActionDefinition{ID: "shout", Effect: EffectStun}
	result := resolver.Resolve([]*ActionDefinition{stun}, nil, wall)
	assert.Equal(t, 2, result.EnemiesStunned)
	assert.Len(t, rec.ofType(EventEnemyStunned), 2)

	assert.Empty(t, resolver.GenerateEnemyAttacks(waves.LiveEnemies(), wall))
	assert.Len(t, resolver.GenerateEnemyAttacks(waves.LiveEnemies(), wall), 2)
}

func TestHealCountsLivingBrothers(t *testing.T) {
	bus, _ := newRecordedBus()
	wall := newTestWall(bus)
	wall.ApplyDamageToBrother(Left, 3)
	wall.ApplyDamageToBrother(Right, 2)

	resolver := NewCombatResolver(nil, NewTargetSelector(nil), bus)
	heal := &ActionDefinition{ID: "mead", Effect: EffectHeal, Power: 1}
	result := resolver.Resolve([]*ActionDefinition{heal}, nil, wall)

	assert.Equal(t, 3, result.BrothersHealed)
	assert.Equal(t, 0, wall.Brother(Left).Health)
	assert.Equal(t, 2, wall.Brother(Right).Health)
}

func TestStrikesResolveBeforeBlocks(t *testing.T) {
	bus, _ := newRecordedBus()
	waves := spawnedWave(t, bus, SpawnEntry{Enemy: thrall, Count: 2})
	resolver := NewCombatResolver(waves, NewTargetSelector(nil), bus)
	wall := newTestWall(bus)

	attacks := resolver.GenerateEnemyAttacks(waves.LiveEnemies(), wall)
	actions := []*ActionDefinition{
		{ID: "block", Effect: EffectBlock, Power: 1},
		{ID: "strike", Effect: EffectStrike, Power: 1},
	}
	result := resolver.Resolve(actions, attacks, wall)

	// the struck enemy's attack was already telegraphed and still needs a block
	assert.Equal(t, 1, result.EnemiesKilled)
	assert.Equal(t, 1, result.DamageToPlayer)
	require.Len(t, result.Landed, 1)
	assert.Equal(t, 1, result.Landed[0].EnemyID)
}

func TestResolveToleratesNilActions(t *testing.T) {
	resolver := NewCombatResolver(nil, NewTargetSelector(nil), nil)
	result := resolver.Resolve([]*ActionDefinition{nil}, attacksAt(Center), nil)
	assert.Equal(t, 1, result.DamageToPlayer)
}
