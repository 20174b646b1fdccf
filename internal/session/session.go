package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/sirupsen/logrus"
	"github.com/suderio/shieldwall/internal/data"
	"github.com/suderio/shieldwall/internal/engine"
	"github.com/suderio/shieldwall/internal/logger"
	"github.com/suderio/shieldwall/internal/parser"
)

// ErrBattleInProgress is returned by "start" while a battle is still running.
var ErrBattleInProgress = errors.New("a battle is already in progress")

// Store defines the dependency required by Session to persist events
type Store interface {
	Append(evt engine.Event) error
	Load() ([]engine.Event, error)
	Close() error
}

// Options tunes how a Session is wired. The zero value is a headless,
// time-seeded session without a journal.
type Options struct {
	Seed        int64
	Pacer       engine.Pacer
	SettleDelay time.Duration
	Store       Store
	Gate        engine.ActionGate
}

// Response is what a single command produced.
type Response struct {
	// Events emitted while handling the command, in order.
	Events []engine.Event
	// Text is the reply of informational commands.
	Text string
}

// Session manages the cohesive loop of taking commands, driving the battle
// engine and persisting every event it emits.
type Session struct {
	catalog *data.Catalog
	seed    int64
	bus     *engine.Bus
	pool    *engine.DicePool
	waves   *engine.WaveController
	wall    *engine.ShieldWall
	player  *engine.Player
	stamina *engine.Stamina
	turns   *engine.TurnManager
	store   Store
	parser  *participle.Parser[parser.Command]

	started    bool
	pending    []engine.Event
	history    []engine.Event
	journalErr error
	log        *logrus.Entry
}

// NewSession builds every battle component from catalog and wires them together.
func NewSession(catalog *data.Catalog, opts Options) (*Session, error) {
	if catalog == nil {
		return nil, fmt.Errorf("no catalog")
	}
	if len(catalog.Waves) == 0 {
		return nil, fmt.Errorf("catalog defines no waves")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := engine.NewSource(seed)
	bus := engine.NewBus()

	player := engine.NewPlayer(catalog.Tuning.PlayerHealth, bus)
	wall := engine.NewShieldWall(catalog.Brothers, player, src, bus)
	waves := engine.NewWaveController(catalog.Waves, bus)
	stamina := engine.NewStamina(catalog.Tuning.Stamina, bus)
	pool := engine.NewDicePool(catalog.Tuning.BaseDice, src, bus)
	resolver := engine.NewCombatResolver(waves, engine.NewTargetSelector(src), bus)

	turns := engine.NewTurnManager(engine.TurnManagerConfig{
		Pool:        pool,
		Waves:       waves,
		Wall:        wall,
		Player:      player,
		Stamina:     stamina,
		Resolver:    resolver,
		Catalog:     catalog.Actions,
		Bus:         bus,
		Gate:        opts.Gate,
		Pacer:       opts.Pacer,
		SettleDelay: opts.SettleDelay,
	})

	s := &Session{
		catalog: catalog,
		seed:    seed,
		bus:     bus,
		pool:    pool,
		waves:   waves,
		wall:    wall,
		player:  player,
		stamina: stamina,
		turns:   turns,
		store:   opts.Store,
		parser:  parser.Build(),
		log:     logger.Component("session").WithField("seed", seed),
	}
	bus.Subscribe(s.record)

	return s, nil
}

// Subscribe registers h for every event the battle emits.
func (s *Session) Subscribe(h func(engine.Event)) {
	s.bus.Subscribe(h)
}

// Seed returns the seed of the session's random source.
func (s *Session) Seed() int64 { return s.seed }

// Catalog returns the game data the session was built from.
func (s *Session) Catalog() *data.Catalog { return s.catalog }

func (s *Session) record(evt engine.Event) {
	s.pending = append(s.pending, evt)
	s.history = append(s.history, evt)

	if s.store == nil {
		return
	}
	if err := s.store.Append(evt); err != nil && s.journalErr == nil {
		s.journalErr = fmt.Errorf("failed to append %s to journal: %w", evt.Type(), err)
		s.log.WithError(err).Error("Journal write failed")
	}
}

// Execute takes a raw command string from a UI client, drives the battle and
// returns everything the command produced.
func (s *Session) Execute(input string) (*Response, error) {
	cmd, err := s.parser.ParseString("", input)
	if err != nil {
		return nil, parser.MapError(input, err)
	}

	s.pending = nil
	resp := &Response{}
	err = s.dispatch(cmd, resp)
	resp.Events = s.pending
	s.pending = nil

	if errors.Is(err, engine.ErrWrongPhase) {
		s.log.WithField("input", input).Debug("Command ignored outside the player turn")
		return resp, nil
	}
	if err != nil {
		return resp, err
	}
	if s.journalErr != nil {
		err, s.journalErr = s.journalErr, nil
		return resp, err
	}
	return resp, nil
}

func (s *Session) dispatch(cmd *parser.Command, resp *Response) error {
	switch {
	case cmd.Start != nil:
		return s.start()
	case cmd.Roll != nil:
		return s.turns.Reroll()
	case cmd.Lock != nil:
		return s.setLocks(cmd.Lock.Dice, true)
	case cmd.Unlock != nil:
		if cmd.Unlock.All {
			return s.turns.UnlockAll()
		}
		return s.setLocks(cmd.Unlock.Dice, false)
	case cmd.Use != nil:
		return s.use(cmd.Use.Actions)
	case cmd.Pass != nil:
		return s.turns.ConfirmActions(nil)
	case cmd.Status != nil:
		resp.Text = FormatStatus(s.State())
	case cmd.Actions != nil:
		resp.Text = FormatActions(s.State().Available)
	case cmd.Help != nil:
		resp.Text = Help(cmd.Help.Topic)
	}
	return nil
}

func (s *Session) start() error {
	if s.started && !s.turns.Ended() {
		return ErrBattleInProgress
	}
	s.started = true
	s.history = nil
	s.log.Info("Starting battle")
	s.turns.StartBattle()
	return nil
}

func (s *Session) setLocks(dice []int, locked bool) error {
	if !s.started {
		return engine.ErrWrongPhase
	}
	for _, n := range dice {
		if n < 1 || n > s.pool.Size() {
			return fmt.Errorf("there is no die %d, the pool has %d", n, s.pool.Size())
		}
	}
	for _, n := range dice {
		if err := s.turns.SetLocked(n-1, locked); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) use(ids []string) error {
	if !s.started || s.turns.Ended() || s.turns.Phase() != engine.PhasePlayerTurn {
		return engine.ErrWrongPhase
	}

	available := make(map[string]bool)
	for _, a := range s.turns.AvailableActions() {
		available[a.ID] = true
	}

	chosen := make([]*engine.ActionDefinition, 0, len(ids))
	for _, id := range ids {
		action := s.catalog.Action(strings.ToLower(id))
		if action == nil {
			return fmt.Errorf("unknown action %q", id)
		}
		if !available[action.ID] {
			return fmt.Errorf("%s is not available with the locked runes", action.Name)
		}
		chosen = append(chosen, action)
	}

	if !engine.CanAffordAll(chosen, s.pool.LockedRunes()) {
		return fmt.Errorf("the locked runes cannot pay for all of %s together", strings.Join(ids, ", "))
	}
	return s.turns.ConfirmActions(chosen)
}

// Record summarizes the current (or last) battle from its events.
func (s *Session) Record() (*engine.BattleRecord, error) {
	return engine.NewProjector().Build(s.history)
}

// Close flushes the journal, if any.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
