package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/suderio/shieldwall/internal/engine"
)

// DefaultMaxTurns bounds an autopilot battle.
const DefaultMaxTurns = 500

// Autopilot plays a session through its command interface: lock every die,
// spend the locked runes greedily on the offered actions, confirm.
type Autopilot struct {
	session  *Session
	maxTurns int
}

func NewAutopilot(s *Session, maxTurns int) *Autopilot {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Autopilot{session: s, maxTurns: maxTurns}
}

// PlayTurn plays one player turn.
func (a *Autopilot) PlayTurn() error {
	s := a.session
	if s.pool.Size() == 0 {
		return fmt.Errorf("empty dice pool")
	}

	dice := make([]string, s.pool.Size())
	for i := range dice {
		dice[i] = fmt.Sprint(i + 1)
	}
	if _, err := s.Execute("lock " + strings.Join(dice, " ")); err != nil {
		return err
	}

	chosen := engine.ResolveGreedy(s.pool.LockedRunes(), s.turns.AvailableActions())
	if len(chosen) == 0 {
		_, err := s.Execute("pass")
		return err
	}

	ids := make([]string, len(chosen))
	for i, c := range chosen {
		ids[i] = c.ID
	}
	_, err := s.Execute("use " + strings.Join(ids, " and "))
	return err
}

// Run starts a battle and plays it to the end, returning its record.
func (a *Autopilot) Run(ctx context.Context) (*engine.BattleRecord, error) {
	if _, err := a.session.Execute("start"); err != nil {
		return nil, err
	}

	for turn := 0; !a.session.turns.Ended(); turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if turn >= a.maxTurns {
			return nil, fmt.Errorf("battle did not end within %d turns", a.maxTurns)
		}
		if err := a.PlayTurn(); err != nil {
			return nil, fmt.Errorf("turn %d: %w", turn+1, err)
		}
	}

	return a.session.Record()
}
