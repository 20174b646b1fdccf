package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suderio/shieldwall/internal/engine"
)

func TestLoaderEmbeddedFallback(t *testing.T) {
	// Initialize loader with NO external directories
	l := NewLoader(nil)

	c, err := l.LoadCatalog()
	require.NoError(t, err)

	assert.Len(t, c.Waves, 5)
	assert.Len(t, c.Brothers, 4)
	assert.Equal(t, 10, c.Tuning.PlayerHealth)
	assert.Equal(t, 4, c.Tuning.BaseDice)
	assert.Equal(t, 12, c.Tuning.Stamina.Starting)

	testudo := c.Action("testudo")
	require.NotNil(t, testudo)
	assert.Equal(t, engine.EffectBlockAll, testudo.Effect)
	assert.Equal(t, []engine.Rune{engine.Algiz, engine.Algiz, engine.Othala}, testudo.Required)
	assert.Nil(t, c.Action("fireball"))

	berserker := c.Enemies["berserker"]
	require.NotNil(t, berserker)
	assert.True(t, berserker.IgnoresBlocks)
	assert.Equal(t, engine.TargetLowestHealth, c.Enemies["spearman"].Targeting)

	first := c.Waves[0]
	require.Len(t, first.Spawns, 1)
	assert.Same(t, c.Enemies["raider"], first.Spawns[0].Enemy)

	assert.Equal(t, engine.FarLeft, c.Brothers[0].Position)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoaderPrefersDataDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "waves.yaml", `
waves:
  - name: Lone Raider
    spawns:
      - enemy: raider
        count: 1
`)
	writeFile(t, dir, "tuning.yaml", `
player_health: 5
base_dice: 3
stamina:
  starting: 4
`)

	c, err := NewLoader([]string{dir}).LoadCatalog()
	require.NoError(t, err)

	require.Len(t, c.Waves, 1)
	assert.Equal(t, "Lone Raider", c.Waves[0].Name)
	assert.Equal(t, 5, c.Tuning.PlayerHealth)
	assert.Equal(t, 4, c.Tuning.Stamina.Starting)
	// untouched files still come from the defaults
	assert.NotNil(t, c.Action("strike"))
}

func TestLoaderValidation(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{
			name: "unknown enemy",
			file: "waves.yaml",
			content: `
waves:
  - name: Ghosts
    spawns:
      - enemy: draugr
        count: 1
`,
			errMsg: `unknown enemy "draugr"`,
		},
		{
			name:    "no waves",
			file:    "waves.yaml",
			content: "waves: []\n",
			errMsg:  "no waves",
		},
		{
			name: "duplicate action",
			file: "actions.yaml",
			content: `
actions:
  - id: strike
    runes: [Tiwaz]
    effect: Strike
  - id: strike
    runes: [Algiz]
    effect: Block
`,
			errMsg: `duplicate action id "strike"`,
		},
		{
			name: "free action",
			file: "actions.yaml",
			content: `
actions:
  - id: pray
    effect: Heal
`,
			errMsg: `requires no runes`,
		},
		{
			name: "unknown rune",
			file: "actions.yaml",
			content: `
actions:
  - id: strike
    runes: [Fehu]
    effect: Strike
`,
			errMsg: "actions.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := NewLoader([]string{dir}).LoadCatalog()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
