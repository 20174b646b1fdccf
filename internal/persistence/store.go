package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/suderio/shieldwall/internal/engine"
)

// EventWrapper facilitates serialization of polyphormic events
type EventWrapper struct {
	Type  engine.EventType `json:"type"`
	Event json.RawMessage  `json:"data"`
}

// newEvent returns an empty event of the given type, ready to be decoded into.
func newEvent(t engine.EventType) (engine.Event, error) {
	switch t {
	case engine.EventPhaseChanged:
		return &engine.PhaseChangedEvent{}, nil
	case engine.EventDiceRolled:
		return &engine.DiceRolledEvent{}, nil
	case engine.EventDieLockToggled:
		return &engine.DieLockToggledEvent{}, nil
	case engine.EventActionsChanged:
		return &engine.ActionsChangedEvent{}, nil
	case engine.EventWaveStarted:
		return &engine.WaveStartedEvent{}, nil
	case engine.EventWaveSpawned:
		return &engine.WaveSpawnedEvent{}, nil
	case engine.EventWaveCleared:
		return &engine.WaveClearedEvent{}, nil
	case engine.EventEnemyKilled:
		return &engine.EnemyKilledEvent{}, nil
	case engine.EventEnemyStunned:
		return &engine.EnemyStunnedEvent{}, nil
	case engine.EventAttackBlocked:
		return &engine.AttackBlockedEvent{}, nil
	case engine.EventAttackLanded:
		return &engine.AttackLandedEvent{}, nil
	case engine.EventBrotherWounded:
		return &engine.BrotherWoundedEvent{}, nil
	case engine.EventBrotherDied:
		return &engine.BrotherDiedEvent{}, nil
	case engine.EventBrothersHealed:
		return &engine.BrothersHealedEvent{}, nil
	case engine.EventWallIntegrityChanged:
		return &engine.WallIntegrityChangedEvent{}, nil
	case engine.EventStaminaChanged:
		return &engine.StaminaChangedEvent{}, nil
	case engine.EventStaminaExhausted:
		return &engine.StaminaExhaustedEvent{}, nil
	case engine.EventPlayerWounded:
		return &engine.PlayerWoundedEvent{}, nil
	case engine.EventBattleEnded:
		return &engine.BattleEndedEvent{}, nil
	default:
		return nil, fmt.Errorf("unknown event type in log: %s", t)
	}
}

// Store handles append-only storing of event log.
type Store struct {
	file *os.File
}

// NewStore opens or creates the file at path for appending lines
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return &Store{file: file}, nil
}

// Append takes an Event interface and marshals it to jsonl log.
func (s *Store) Append(evt engine.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	wrapper := EventWrapper{
		Type:  evt.Type(),
		Event: data,
	}

	wrapperData, err := json.Marshal(wrapper)
	if err != nil {
		return err
	}

	if _, err := s.file.Write(append(wrapperData, '\n')); err != nil {
		return err
	}
	return s.file.Sync()
}

// Load replays all jsonl strings and unpacks them to Event slice.
func (s *Store) Load() ([]engine.Event, error) {
	var events []engine.Event

	// Reset file pointer to beginning
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(s.file)
	line := 0
	for scanner.Scan() {
		line++
		var wrapper EventWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode wrapper: %w", line, err)
		}

		evt, err := newEvent(wrapper.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := json.Unmarshal(wrapper.Event, evt); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse event data into specific type: %w", line, err)
		}

		events = append(events, evt)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}
