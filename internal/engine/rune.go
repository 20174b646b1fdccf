package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rune is a symbolic die face used as combo currency.
type Rune int

const (
	Tiwaz Rune = iota
	Algiz
	Uruz
	Berkano
	Ansuz
	Othala
)

// AllRunes lists the rune alphabet in die-face order.
var AllRunes = []Rune{Tiwaz, Algiz, Uruz, Berkano, Ansuz, Othala}

// runeWeights is the relative likelihood of each face, indexed by Rune.
// The last two runes come up half as often as the first four.
var runeWeights = []float64{1, 1, 1, 1, 0.5, 0.5}

var runeNames = []string{"Tiwaz", "Algiz", "Uruz", "Berkano", "Ansuz", "Othala"}

func (r Rune) String() string {
	if r < 0 || int(r) >= len(runeNames) {
		return fmt.Sprintf("Rune(%d)", int(r))
	}
	return runeNames[r]
}

// Weight returns the face weight of r, or 0 for an unknown rune.
func (r Rune) Weight() float64 {
	if r < 0 || int(r) >= len(runeWeights) {
		return 0
	}
	return runeWeights[r]
}

// ParseRune resolves a rune name, case-insensitively.
func ParseRune(s string) (Rune, error) {
	for i, name := range runeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Rune(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rune %q", s)
}

func (r Rune) MarshalYAML() (any, error) {
	return r.String(), nil
}

func (r *Rune) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseRune(node.Value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Rune) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rune) UnmarshalText(b []byte) error {
	parsed, err := ParseRune(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Source is the randomness provider for every draw the core makes:
// die faces, random targeting and auto-defense trials.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

// NewSource returns a deterministic Source seeded with seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// tally counts runes per type.
func tally(runes []Rune) map[Rune]int {
	counts := make(map[Rune]int, len(AllRunes))
	for _, r := range runes {
		counts[r]++
	}
	return counts
}
