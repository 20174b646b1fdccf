package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suderio/shieldwall/internal/data"
	"github.com/suderio/shieldwall/internal/engine"
	"github.com/suderio/shieldwall/internal/rules"
)

// memStore keeps the journal in memory.
type memStore struct {
	events []engine.Event
	fail   error
	closed bool
}

func (m *memStore) Append(evt engine.Event) error {
	if m.fail != nil {
		return m.fail
	}
	m.events = append(m.events, evt)
	return nil
}

func (m *memStore) Load() ([]engine.Event, error) { return m.events, nil }
func (m *memStore) Close() error                  { m.closed = true; return nil }

// runeCatalog offers one single-rune strike per rune so any locked die buys something.
func runeCatalog() *data.Catalog {
	raider := &engine.EnemyDefinition{ID: "raider", Name: "Raider", Health: 1, Damage: 1}
	c := &data.Catalog{
		Enemies: map[string]*engine.EnemyDefinition{"raider": raider},
		Waves: []*engine.WaveDefinition{
			{Name: "one", Spawns: []engine.SpawnEntry{{Enemy: raider, Count: 2}}},
			{Name: "two", Spawns: []engine.SpawnEntry{{Enemy: raider, Count: 3}}},
		},
		Brothers: []*engine.BrotherDefinition{
			{Name: "Ulf", MaxHealth: 3},
			{Name: "Bjorn", MaxHealth: 3},
			{Name: "Eirik", MaxHealth: 3},
			{Name: "Hakon", MaxHealth: 3},
		},
		Tuning: data.Tuning{PlayerHealth: 10, BaseDice: 4},
	}
	for _, r := range engine.AllRunes {
		c.Actions = append(c.Actions, &engine.ActionDefinition{
			ID:       hitID(r),
			Name:     "Hit " + r.String(),
			Required: []engine.Rune{r},
			Effect:   engine.EffectStrike,
			Power:    1,
		})
	}
	return c
}

func hitID(r engine.Rune) string {
	return "hit_" + strings.ToLower(r.String())
}

func newTestSession(t *testing.T, store Store) *Session {
	t.Helper()
	s, err := NewSession(runeCatalog(), Options{Seed: 42, Store: store})
	require.NoError(t, err)
	return s
}

func eventTypes(events []engine.Event) []engine.EventType {
	out := make([]engine.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type()
	}
	return out
}

func TestNewSessionValidatesCatalog(t *testing.T) {
	_, err := NewSession(nil, Options{})
	assert.Error(t, err)

	c := runeCatalog()
	c.Waves = nil
	_, err = NewSession(c, Options{})
	assert.Error(t, err)
}

func TestInputBeforeStartIsIgnored(t *testing.T) {
	s := newTestSession(t, nil)

	resp, err := s.Execute("lock 1")
	require.NoError(t, err)
	assert.Empty(t, resp.Events)

	resp, err = s.Execute("pass")
	require.NoError(t, err)
	assert.Empty(t, resp.Events)

	resp, err = s.Execute("status")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "No battle yet")
}

func TestStartRunsToPlayerTurn(t *testing.T) {
	s := newTestSession(t, nil)

	resp, err := s.Execute("start")
	require.NoError(t, err)
	types := eventTypes(resp.Events)
	assert.Contains(t, types, engine.EventWaveStarted)
	assert.Contains(t, types, engine.EventDiceRolled)

	snap := s.State()
	assert.True(t, snap.Started)
	assert.Equal(t, engine.PhasePlayerTurn, snap.Phase)
	assert.Equal(t, 1, snap.Wave)
	assert.Len(t, snap.Dice, 5)
	assert.Len(t, snap.Brothers, 4)
	assert.Len(t, snap.Enemies, 2)
	assert.Len(t, snap.Attacks, 2)

	_, err = s.Execute("start")
	assert.ErrorIs(t, err, ErrBattleInProgress)
}

func TestLockAndUnlock(t *testing.T) {
	s := newTestSession(t, nil)
	_, err := s.Execute("start")
	require.NoError(t, err)

	resp, err := s.Execute("lock 1 3")
	require.NoError(t, err)
	assert.Len(t, resp.Events, 4) // two toggles, each followed by a refresh
	snap := s.State()
	assert.True(t, snap.Dice[0].Locked)
	assert.False(t, snap.Dice[1].Locked)
	assert.True(t, snap.Dice[2].Locked)
	assert.NotEmpty(t, snap.Available)

	_, err = s.Execute("lock 6")
	assert.ErrorContains(t, err, "there is no die 6")

	_, err = s.Execute("unlock all")
	require.NoError(t, err)
	assert.Empty(t, s.State().Available)
}

func TestUseValidatesActions(t *testing.T) {
	s := newTestSession(t, nil)
	_, err := s.Execute("start")
	require.NoError(t, err)

	_, err = s.Execute("use fireball")
	assert.ErrorContains(t, err, `unknown action "fireball"`)

	_, err = s.Execute("lock 1")
	require.NoError(t, err)
	face := s.State().Dice[0].Face
	hit := hitID(face)

	var other engine.Rune
	for _, r := range engine.AllRunes {
		if r != face {
			other = r
			break
		}
	}
	_, err = s.Execute("use " + hitID(other))
	assert.ErrorContains(t, err, "is not available")

	_, err = s.Execute("use " + hit + " and " + hit)
	assert.ErrorContains(t, err, "cannot pay for all")
	assert.Equal(t, engine.PhasePlayerTurn, s.State().Phase)

	resp, err := s.Execute("use " + hit)
	require.NoError(t, err)
	assert.Contains(t, eventTypes(resp.Events), engine.EventEnemyKilled)
	assert.Contains(t, eventTypes(resp.Events), engine.EventPhaseChanged)
}

func TestParseErrorsAreMapped(t *testing.T) {
	s := newTestSession(t, nil)

	_, err := s.Execute("lock")
	assert.EqualError(t, err, "The command lock must be: lock <die> [<die>]*")

	_, err = s.Execute("fly away")
	assert.EqualError(t, err, "I wasn't able to understand your command")
}

func TestInformationalCommands(t *testing.T) {
	s := newTestSession(t, nil)
	_, err := s.Execute("start")
	require.NoError(t, err)

	resp, err := s.Execute("status")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Wave 1/2")
	assert.Contains(t, resp.Text, "Raider -> Center for 1")
	assert.Empty(t, resp.Events)

	resp, err = s.Execute("actions")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Lock some dice")

	resp, err = s.Execute("help use")
	require.NoError(t, err)
	assert.Equal(t, "use <action> [and <action>]*", resp.Text)

	resp, err = s.Execute("help")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "unlock all")
}

func TestJournalReceivesEveryEvent(t *testing.T) {
	store := &memStore{}
	s := newTestSession(t, store)

	resp, err := s.Execute("start")
	require.NoError(t, err)
	assert.Equal(t, resp.Events, store.events)

	require.NoError(t, s.Close())
	assert.True(t, store.closed)
}

func TestJournalFailureIsReported(t *testing.T) {
	store := &memStore{fail: errors.New("disk full")}
	s := newTestSession(t, store)

	_, err := s.Execute("start")
	assert.ErrorContains(t, err, "disk full")

	// reported once
	_, err = s.Execute("status")
	assert.NoError(t, err)
}

func TestStaminaDefeatReplaysAsOneBattle(t *testing.T) {
	c := runeCatalog()
	c.Tuning.Stamina = engine.StaminaTuning{Starting: 1}
	store := &memStore{}
	s, err := NewSession(c, Options{Seed: 3, Store: store})
	require.NoError(t, err)

	_, err = s.Execute("start")
	require.NoError(t, err)
	_, err = s.Execute("pass")
	require.NoError(t, err)
	require.True(t, s.State().Ended)

	types := eventTypes(store.events)
	assert.Equal(t, engine.EventBattleEnded, types[len(types)-1])
	assert.Equal(t, engine.EventStaminaExhausted, types[len(types)-2])

	records, err := engine.NewProjector().BuildAll(store.events)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Ended)
	assert.False(t, records[0].Victory)
}

func TestAutopilotFinishesBattle(t *testing.T) {
	catalog, err := data.NewLoader(nil).LoadCatalog()
	require.NoError(t, err)
	gate, err := rules.NewGate()
	require.NoError(t, err)

	store := &memStore{}
	s, err := NewSession(catalog, Options{Seed: 7, Store: store, Gate: gate.ActionGate()})
	require.NoError(t, err)

	record, err := NewAutopilot(s, 0).Run(context.Background())
	require.NoError(t, err)

	snap := s.State()
	assert.True(t, snap.Ended)
	assert.True(t, record.Ended)
	assert.Equal(t, snap.Victory, record.Victory)
	assert.Equal(t, snap.Wave, record.WavesReached)
	assert.Positive(t, record.Turns)

	journal, err := engine.NewProjector().Build(store.events)
	require.NoError(t, err)
	assert.Equal(t, record, journal)
}

func TestAutopilotHonoursContext(t *testing.T) {
	s := newTestSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAutopilot(s, 0).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
