package engine

// DefaultPlayerHealth is used when no max health is configured.
const DefaultPlayerHealth = 10

// Player is the warrior holding Center.
type Player struct {
	MaxHealth int
	Health    int
	bus       *Bus
}

func NewPlayer(maxHealth int, bus *Bus) *Player {
	if maxHealth <= 0 {
		maxHealth = DefaultPlayerHealth
	}
	return &Player{MaxHealth: maxHealth, Health: maxHealth, bus: bus}
}

func (p *Player) IsDead() bool { return p.Health <= 0 }

// Reset restores full health.
func (p *Player) Reset() {
	p.Health = p.MaxHealth
}

// TakeDamage lowers health, never below zero.
func (p *Player) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	p.bus.Publish(&PlayerWoundedEvent{Damage: amount, Health: p.Health})
}

// Heal raises health up to max.
func (p *Player) Heal(amount int) {
	if amount <= 0 || p.IsDead() {
		return
	}
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}
