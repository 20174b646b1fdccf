package rules

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/suderio/shieldwall/internal/engine"
	"github.com/suderio/shieldwall/internal/logger"
)

// BuildEvalContext exposes the battle state and the action under test to CEL.
func BuildEvalContext(action *engine.ActionDefinition, ctx engine.GateContext) map[string]any {
	res := map[string]any{
		"alive_brothers": int64(ctx.AliveBrothers),
		"wave":           int64(ctx.Wave),
		"stamina":        int64(ctx.Stamina),
		"player_health":  int64(ctx.PlayerHealth),
		"enemies":        int64(ctx.Enemies),
		"action":         map[string]any{},
	}
	if action != nil {
		runes := make([]string, len(action.Required))
		for i, r := range action.Required {
			runes[i] = r.String()
		}
		res["action"] = map[string]any{
			"id":     action.ID,
			"effect": action.Effect.String(),
			"power":  int64(action.Power),
			"runes":  runes,
		}
	}
	return res
}

// Gate decides action availability from each action's `when` expression.
type Gate struct {
	registry *Registry
	log      *logrus.Entry
}

func NewGate() (*Gate, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build rules environment: %w", err)
	}
	return &Gate{registry: registry, log: logger.Component("rules")}, nil
}

// Validate compiles every non-empty `when` expression in actions.
func (g *Gate) Validate(actions []*engine.ActionDefinition) error {
	for _, a := range actions {
		if a == nil || a.When == "" {
			continue
		}
		if _, err := g.registry.Compile(a.When); err != nil {
			return fmt.Errorf("action %q: invalid when expression: %w", a.ID, err)
		}
	}
	return nil
}

// Allow reports whether action may be offered. Actions without an
// expression are always allowed; broken expressions never are.
func (g *Gate) Allow(action *engine.ActionDefinition, ctx engine.GateContext) bool {
	if action == nil {
		return false
	}
	if action.When == "" {
		return true
	}

	out, err := g.registry.Eval(action.When, BuildEvalContext(action, ctx))
	if err != nil {
		g.log.WithFields(logrus.Fields{"action": action.ID, "when": action.When}).
			WithError(err).Warn("Gate expression failed")
		return false
	}
	allowed, ok := out.(bool)
	return ok && allowed
}

// ActionGate adapts the gate for the turn manager.
func (g *Gate) ActionGate() engine.ActionGate {
	return g.Allow
}
