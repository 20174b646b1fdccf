package engine

// DefaultBaseDice is the pool size before wall bonuses.
const DefaultBaseDice = 4

// minPoolSize is the floor applied after bonuses.
const minPoolSize = 2

// RuneDie is a single weighted die over the rune alphabet.
type RuneDie struct {
	Face   Rune
	Locked bool
	src    Source
}

// NewRuneDie creates an unlocked die showing the default face.
func NewRuneDie(src Source) *RuneDie {
	return &RuneDie{Face: Tiwaz, src: src}
}

// Roll draws a new face unless the die is locked. It returns the face the
// die shows afterwards.
func (d *RuneDie) Roll() Rune {
	if d.Locked {
		return d.Face
	}

	total := 0.0
	for _, w := range runeWeights {
		total += w
	}

	draw := d.src.Float64() * total
	cumulative := 0.0
	for i, w := range runeWeights {
		cumulative += w
		if draw < cumulative {
			d.Face = Rune(i)
			return d.Face
		}
	}

	// float rounding can leave draw == total
	d.Face = AllRunes[len(AllRunes)-1]
	return d.Face
}

// Reset unlocks the die and shows the default face.
func (d *RuneDie) Reset() {
	d.Locked = false
	d.Face = Tiwaz
}

// DicePool is the player's ordered set of rune dice.
type DicePool struct {
	base  int
	bonus int
	dice  []*RuneDie
	src   Source
	bus   *Bus
}

// NewDicePool creates a pool of base dice (DefaultBaseDice if base <= 0).
func NewDicePool(base int, src Source, bus *Bus) *DicePool {
	if base <= 0 {
		base = DefaultBaseDice
	}
	p := &DicePool{base: base, src: src, bus: bus}
	p.resize()
	return p
}

// SetBonus changes the bonus dice count and resizes the pool. Growing keeps
// existing dice; shrinking drops dice from the tail.
func (p *DicePool) SetBonus(bonus int) {
	p.bonus = bonus
	p.resize()
}

func (p *DicePool) resize() {
	size := p.base + p.bonus
	if size < minPoolSize {
		size = minPoolSize
	}
	for len(p.dice) < size {
		p.dice = append(p.dice, NewRuneDie(p.src))
	}
	if len(p.dice) > size {
		p.dice = p.dice[:size]
	}
}

// Size returns the number of live dice.
func (p *DicePool) Size() int {
	return len(p.dice)
}

// Bonus returns the current bonus dice count.
func (p *DicePool) Bonus() int {
	return p.bonus
}

// RollAll rolls every unlocked die and returns the faces of the whole pool.
func (p *DicePool) RollAll() []Rune {
	return p.roll(false)
}

// Reroll is RollAll flagged as a paid reroll for observers.
func (p *DicePool) Reroll() []Rune {
	return p.roll(true)
}

func (p *DicePool) roll(reroll bool) []Rune {
	for _, d := range p.dice {
		d.Roll()
	}
	faces := p.Faces()
	p.bus.Publish(&DiceRolledEvent{Faces: faces, Reroll: reroll})
	return faces
}

// Faces returns the current face of every die.
func (p *DicePool) Faces() []Rune {
	faces := make([]Rune, len(p.dice))
	for i, d := range p.dice {
		faces[i] = d.Face
	}
	return faces
}

// IsLocked reports whether die i is locked; out of range is false.
func (p *DicePool) IsLocked(i int) bool {
	if i < 0 || i >= len(p.dice) {
		return false
	}
	return p.dice[i].Locked
}

// ToggleLock flips the lock of die i. Out-of-range indices are ignored.
func (p *DicePool) ToggleLock(i int) {
	if i < 0 || i >= len(p.dice) {
		return
	}
	p.SetLocked(i, !p.dice[i].Locked)
}

// SetLocked sets the lock of die i. Out-of-range indices are ignored.
func (p *DicePool) SetLocked(i int, locked bool) {
	if i < 0 || i >= len(p.dice) {
		return
	}
	d := p.dice[i]
	if d.Locked == locked {
		return
	}
	d.Locked = locked
	p.bus.Publish(&DieLockToggledEvent{Index: i, Locked: locked})
}

// LockedRunes returns the faces of locked dice in pool order.
func (p *DicePool) LockedRunes() []Rune {
	locked := make([]Rune, 0, len(p.dice))
	for _, d := range p.dice {
		if d.Locked {
			locked = append(locked, d.Face)
		}
	}
	return locked
}

// UnlockAll clears every lock, signaling once per die actually unlocked.
func (p *DicePool) UnlockAll() {
	for i := range p.dice {
		p.SetLocked(i, false)
	}
}

// Reset unlocks every die and restores default faces.
func (p *DicePool) Reset() {
	p.UnlockAll()
	for _, d := range p.dice {
		d.Reset()
	}
}
