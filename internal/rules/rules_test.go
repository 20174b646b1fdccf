package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suderio/shieldwall/internal/engine"
)

func TestCELRegistry(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	t.Run("Basic Boolean Expression", func(t *testing.T) {
		ctx := BuildEvalContext(nil, engine.GateContext{AliveBrothers: 3})
		out, err := registry.Eval("alive_brothers > 2", ctx)
		assert.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("Action Fields", func(t *testing.T) {
		action := &engine.ActionDefinition{ID: "cleave", Required: []engine.Rune{engine.Tiwaz, engine.Tiwaz}, Effect: engine.EffectMultiStrike, Power: 2}
		ctx := BuildEvalContext(action, engine.GateContext{Enemies: 2})
		out, err := registry.Eval("action.effect == 'MultiStrike' && action.power <= enemies && size(action.runes) == 2", ctx)
		assert.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("Non Boolean Rejected", func(t *testing.T) {
		_, err := registry.Compile("stamina + 1")
		assert.Error(t, err)
	})

	t.Run("Unknown Variable", func(t *testing.T) {
		_, err := registry.Compile("gold > 3")
		assert.Error(t, err)
	})

	t.Run("Programs Are Cached", func(t *testing.T) {
		first, err := registry.Compile("wave >= 3")
		require.NoError(t, err)
		second, err := registry.Compile("wave >= 3")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, registry.programs, 3)
	})
}

func TestGateAllow(t *testing.T) {
	gate, err := NewGate()
	require.NoError(t, err)

	free := &engine.ActionDefinition{ID: "strike"}
	lastStand := &engine.ActionDefinition{ID: "last_stand", When: "alive_brothers <= 1"}
	broken := &engine.ActionDefinition{ID: "broken", When: "alive_brothers >"}

	full := engine.GateContext{AliveBrothers: 4}
	broke := engine.GateContext{AliveBrothers: 1}

	assert.True(t, gate.Allow(free, full))
	assert.False(t, gate.Allow(lastStand, full))
	assert.True(t, gate.Allow(lastStand, broke))
	assert.False(t, gate.Allow(broken, broke))
	assert.False(t, gate.Allow(nil, broke))

	allow := gate.ActionGate()
	assert.True(t, allow(lastStand, broke))
}

func TestGateValidate(t *testing.T) {
	gate, err := NewGate()
	require.NoError(t, err)

	assert.NoError(t, gate.Validate([]*engine.ActionDefinition{
		{ID: "mend", When: "alive_brothers > 0"},
		{ID: "strike"},
		nil,
	}))

	err = gate.Validate([]*engine.ActionDefinition{{ID: "odd", When: "wave"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `action "odd"`)
}
