package engine

import (
	"github.com/sirupsen/logrus"
	"github.com/suderio/shieldwall/internal/logger"
)

// SpawnEntry spawns Count copies of Enemy.
type SpawnEntry struct {
	Enemy *EnemyDefinition
	Count int
}

// WaveDefinition is one configured batch of enemies.
type WaveDefinition struct {
	Name   string
	Spawns []SpawnEntry
}

// EnemyRoster is the authoritative owner of live enemies as the combat
// resolver sees it.
type EnemyRoster interface {
	// LiveEnemies returns a fresh slice of living enemies in spawn order.
	LiveEnemies() []*Enemy
	// RemoveEnemy removes the enemy with the given ID.
	RemoveEnemy(id int) bool
}

// WaveController sequences configured waves and owns the active enemies.
type WaveController struct {
	waves  []*WaveDefinition
	index  int
	active []*Enemy
	nextID int
	bus    *Bus
	log    *logrus.Entry
}

func NewWaveController(waves []*WaveDefinition, bus *Bus) *WaveController {
	return &WaveController{
		waves: waves,
		index: -1,
		bus:   bus,
		log:   logger.Component("wave_controller"),
	}
}

// StartBattle rewinds to before the first wave and clears the field.
func (c *WaveController) StartBattle() {
	c.index = -1
	c.active = nil
	c.nextID = 0
}

// WaveCount returns the number of configured waves.
func (c *WaveController) WaveCount() int {
	return len(c.waves)
}

// CurrentWaveNumber is the 1-based number of the last spawned wave, 0 before any.
func (c *WaveController) CurrentWaveNumber() int {
	return c.index + 1
}

// HasMoreWaves reports whether a wave remains after the current one.
func (c *WaveController) HasMoreWaves() bool {
	return c.index < len(c.waves)-1
}

// SpawnNextWave spawns the following wave. It returns false when none is left.
func (c *WaveController) SpawnNextWave() bool {
	if !c.HasMoreWaves() {
		return false
	}
	return c.SpawnWave(c.index + 1)
}

// SpawnWave replaces the active enemies with the wave at index.
func (c *WaveController) SpawnWave(index int) bool {
	if index < 0 || index >= len(c.waves) || c.waves[index] == nil {
		return false
	}
	c.index = index
	wave := c.waves[index]

	c.active = make([]*Enemy, 0)
	names := make([]string, 0)
	for _, spawn := range wave.Spawns {
		if spawn.Enemy == nil {
			continue
		}
		for i := 0; i < spawn.Count; i++ {
			c.nextID++
			c.active = append(c.active, NewEnemy(c.nextID, spawn.Enemy))
			names = append(names, spawn.Enemy.Name)
		}
	}

	c.log.WithFields(logrus.Fields{
		"wave":    c.CurrentWaveNumber(),
		"name":    wave.Name,
		"enemies": len(c.active),
	}).Info("Wave spawned")

	c.bus.Publish(&WaveStartedEvent{Wave: c.CurrentWaveNumber()})
	c.bus.Publish(&WaveSpawnedEvent{Wave: c.CurrentWaveNumber(), Enemies: names})
	return true
}

// Enemies returns a fresh slice of every active enemy, dead or alive.
func (c *WaveController) Enemies() []*Enemy {
	out := make([]*Enemy, len(c.active))
	copy(out, c.active)
	return out
}

// LiveEnemies returns a fresh slice of enemies with health above zero.
func (c *WaveController) LiveEnemies() []*Enemy {
	live := make([]*Enemy, 0, len(c.active))
	for _, e := range c.active {
		if !e.IsDead() {
			live = append(live, e)
		}
	}
	return live
}

// AllDead reports whether no living enemy remains.
func (c *WaveController) AllDead() bool {
	for _, e := range c.active {
		if !e.IsDead() {
			return false
		}
	}
	return true
}

// RemoveEnemy removes the enemy with id from the field, announcing the kill
// and, if nothing living remains, the cleared wave.
func (c *WaveController) RemoveEnemy(id int) bool {
	for i, e := range c.active {
		if e.ID != id {
			continue
		}
		c.active = append(c.active[:i], c.active[i+1:]...)

		c.log.WithFields(logrus.Fields{"enemy_id": e.ID, "enemy": e.Def.Name}).Debug("Enemy removed")
		c.bus.Publish(&EnemyKilledEvent{EnemyID: e.ID, Enemy: e.Def.Name})
		if c.AllDead() {
			c.bus.Publish(&WaveClearedEvent{Wave: c.CurrentWaveNumber()})
		}
		return true
	}
	return false
}
