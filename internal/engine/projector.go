package engine

import "fmt"

// BattleRecord is the summary of one battle, folded from its event journal.
type BattleRecord struct {
	WavesReached   int  `json:"waves_reached"`
	WavesCleared   int  `json:"waves_cleared"`
	Turns          int  `json:"turns"`
	EnemiesKilled  int  `json:"enemies_killed"`
	EnemiesStunned int  `json:"enemies_stunned"`
	AttacksBlocked int  `json:"attacks_blocked"`
	AttacksLanded  int  `json:"attacks_landed"`
	DamageTaken    int  `json:"damage_taken"`
	BrotherDamage  int  `json:"brother_damage"`
	BrothersLost   int  `json:"brothers_lost"`
	Rerolls        int  `json:"rerolls"`
	StaminaLeft    int  `json:"stamina_left"`
	Ended          bool `json:"ended"`
	Victory        bool `json:"victory"`
}

// Projector computes a BattleRecord from an event sequence.
type Projector struct{}

// NewProjector creates a standard projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Build folds every event into a fresh record.
func (p *Projector) Build(events []Event) (*BattleRecord, error) {
	record := &BattleRecord{}

	for i, evt := range events {
		if err := evt.Apply(record); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, evt.Type(), err)
		}
	}

	return record, nil
}

// BuildAll folds a journal that may hold several battles, one record per
// battle in journal order. A trailing unfinished battle is included.
func (p *Projector) BuildAll(events []Event) ([]*BattleRecord, error) {
	var records []*BattleRecord
	record := &BattleRecord{}
	started := false

	for i, evt := range events {
		if err := evt.Apply(record); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i, evt.Type(), err)
		}
		started = true
		if record.Ended {
			records = append(records, record)
			record = &BattleRecord{}
			started = false
		}
	}
	if started {
		records = append(records, record)
	}

	return records, nil
}
