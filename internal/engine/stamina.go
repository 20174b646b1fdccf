package engine

// StaminaTuning holds the stamina constants of a battle.
type StaminaTuning struct {
	Starting       int `yaml:"starting"`
	Max            int `yaml:"max"`
	TurnCost       int `yaml:"turn_cost"`
	RerollCost     int `yaml:"reroll_cost"`
	WaveClearBonus int `yaml:"wave_clear_bonus"`
}

// DefaultStaminaTuning is used for zero-valued tuning fields.
var DefaultStaminaTuning = StaminaTuning{
	Starting:       12,
	Max:            12,
	TurnCost:       1,
	RerollCost:     1,
	WaveClearBonus: 2,
}

// Stamina is the player's endurance. Running out loses the battle.
type Stamina struct {
	tuning    StaminaTuning
	current   int
	exhausted bool
	bus       *Bus
}

// NewStamina creates a full stamina meter. Zero costs and bonus take the
// defaults; a zero Max means "same as Starting".
func NewStamina(tuning StaminaTuning, bus *Bus) *Stamina {
	if tuning.Starting <= 0 {
		tuning.Starting = DefaultStaminaTuning.Starting
	}
	if tuning.TurnCost <= 0 {
		tuning.TurnCost = DefaultStaminaTuning.TurnCost
	}
	if tuning.RerollCost <= 0 {
		tuning.RerollCost = DefaultStaminaTuning.RerollCost
	}
	if tuning.WaveClearBonus <= 0 {
		tuning.WaveClearBonus = DefaultStaminaTuning.WaveClearBonus
	}
	if tuning.Max <= 0 || tuning.Max < tuning.Starting {
		tuning.Max = tuning.Starting
	}
	s := &Stamina{tuning: tuning, bus: bus}
	s.current = tuning.Starting
	return s
}

func (s *Stamina) Current() int          { return s.current }
func (s *Stamina) Exhausted() bool       { return s.current <= 0 }
func (s *Stamina) Tuning() StaminaTuning { return s.tuning }

// Reset refills stamina to the starting amount.
func (s *Stamina) Reset() {
	s.exhausted = false
	s.change(s.tuning.Starting - s.current)
}

// TickTurnEnd pays the per-turn cost.
func (s *Stamina) TickTurnEnd() {
	s.change(-s.tuning.TurnCost)
}

// SpendReroll pays for a reroll. It returns false, spending nothing, when
// the player cannot afford it without dropping to zero.
func (s *Stamina) SpendReroll() bool {
	if s.current-s.tuning.RerollCost <= 0 {
		return false
	}
	s.change(-s.tuning.RerollCost)
	return true
}

// GrantWaveClearBonus adds the wave-clear bonus, capped at Max.
func (s *Stamina) GrantWaveClearBonus() {
	s.change(s.tuning.WaveClearBonus)
}

func (s *Stamina) change(delta int) {
	next := s.current + delta
	if next < 0 {
		next = 0
	}
	if next > s.tuning.Max {
		next = s.tuning.Max
	}
	delta = next - s.current
	if delta == 0 {
		return
	}
	s.current = next
	s.bus.Publish(&StaminaChangedEvent{Current: s.current, Delta: delta})

	if s.current <= 0 && !s.exhausted {
		s.exhausted = true
		s.bus.Publish(&StaminaExhaustedEvent{})
	}
}
