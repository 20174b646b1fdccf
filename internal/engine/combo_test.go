package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog() []*ActionDefinition {
	return []*ActionDefinition{
		{ID: "strike", Name: "Strike", Required: []Rune{Tiwaz}, Effect: EffectStrike, Power: 1},
		{ID: "block", Name: "Block", Required: []Rune{Algiz}, Effect: EffectBlock, Power: 1},
		{ID: "cleave", Name: "Cleave", Required: []Rune{Tiwaz, Tiwaz}, Effect: EffectMultiStrike, Power: 2},
		{ID: "testudo", Name: "Testudo", Required: []Rune{Algiz, Algiz, Othala}, Effect: EffectBlockAll},
		{ID: "empty", Name: "Empty", Effect: EffectStrike, Power: 9},
	}
}

func ids(actions []*ActionDefinition) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.ID
	}
	return out
}

func TestResolveCombosIndependentAffordability(t *testing.T) {
	locked := []Rune{Tiwaz, Tiwaz, Algiz}
	got := ResolveCombos(locked, testCatalog())

	// cleave and strike both listed even though they compete for Tiwaz
	assert.Equal(t, []string{"cleave", "strike", "block"}, ids(got))
}

func TestResolveCombosLargestFirst(t *testing.T) {
	locked := []Rune{Algiz, Algiz, Othala, Tiwaz}
	got := ResolveCombos(locked, testCatalog())
	assert.Equal(t, []string{"testudo", "strike", "block"}, ids(got))
}

func TestResolveCombosEdgeCases(t *testing.T) {
	assert.Empty(t, ResolveCombos(nil, testCatalog()))
	assert.Empty(t, ResolveCombos([]Rune{}, testCatalog()))
	assert.Empty(t, ResolveCombos([]Rune{Tiwaz}, nil))
	assert.NotNil(t, ResolveCombos(nil, nil))
}

func TestResolveCombosNeverReturnsEmptyRequirement(t *testing.T) {
	runes := [][]Rune{
		{Tiwaz},
		{Tiwaz, Algiz, Uruz, Berkano, Ansuz, Othala},
		{Othala, Othala, Othala},
	}
	for _, locked := range runes {
		for _, a := range ResolveCombos(locked, testCatalog()) {
			assert.NotEmpty(t, a.Required)
		}
	}
}

func TestResolveGreedyConsumesAndRepeats(t *testing.T) {
	locked := []Rune{Tiwaz, Tiwaz, Tiwaz, Algiz, Algiz}
	got := ResolveGreedy(locked, testCatalog())
	// cleave takes two Tiwaz, strike the third, block both Algiz
	assert.Equal(t, []string{"cleave", "strike", "block", "block"}, ids(got))
	assert.True(t, CanAffordAll(got, locked))
}

func TestResolveGreedyEmpty(t *testing.T) {
	assert.Empty(t, ResolveGreedy(nil, testCatalog()))
	assert.Empty(t, ResolveGreedy([]Rune{Uruz}, testCatalog()))
}

func TestCanAffordAction(t *testing.T) {
	cleave := testCatalog()[2]

	tests := []struct {
		name  string
		runes []Rune
		want  bool
	}{
		{"exact", []Rune{Tiwaz, Tiwaz}, true},
		{"surplus", []Rune{Tiwaz, Tiwaz, Tiwaz, Uruz}, true},
		{"short", []Rune{Tiwaz, Uruz}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAffordAction(cleave, tt.runes))
		})
	}

	assert.False(t, CanAffordAction(nil, []Rune{Tiwaz}))
	assert.False(t, CanAffordAction(&ActionDefinition{}, []Rune{Tiwaz}))
}

func TestCanAffordAllRejectsSharedRunes(t *testing.T) {
	cat := testCatalog()
	assert.False(t, CanAffordAll([]*ActionDefinition{cat[2], cat[0]}, []Rune{Tiwaz, Tiwaz}))
	assert.True(t, CanAffordAll([]*ActionDefinition{cat[0], cat[1]}, []Rune{Tiwaz, Algiz}))
	assert.True(t, CanAffordAll(nil, nil))
}

func TestParseEffectKind(t *testing.T) {
	k, err := ParseEffectKind("berserker_rage")
	assert.NoError(t, err)
	assert.Equal(t, EffectBerserkerRage, k)

	k, err = ParseEffectKind("Block All")
	assert.NoError(t, err)
	assert.Equal(t, EffectBlockAll, k)

	_, err = ParseEffectKind("fireball")
	assert.Error(t, err)
}
