package engine

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EffectKind selects how the combat resolver applies an action.
type EffectKind int

const (
	EffectUnknown EffectKind = iota
	EffectStrike
	EffectMultiStrike
	EffectCounter
	EffectBerserkerRage
	EffectBlock
	EffectBlockAll
	EffectCover
	EffectStun
	EffectHeal
)

var effectNames = map[EffectKind]string{
	EffectUnknown:       "Unknown",
	EffectStrike:        "Strike",
	EffectMultiStrike:   "MultiStrike",
	EffectCounter:       "Counter",
	EffectBerserkerRage: "BerserkerRage",
	EffectBlock:         "Block",
	EffectBlockAll:      "BlockAll",
	EffectCover:         "Cover",
	EffectStun:          "Stun",
	EffectHeal:          "Heal",
}

func (k EffectKind) String() string {
	if name, ok := effectNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EffectKind(%d)", int(k))
}

// ParseEffectKind resolves an effect name, ignoring case, spaces and underscores.
func ParseEffectKind(s string) (EffectKind, error) {
	norm := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
	for k, name := range effectNames {
		if k != EffectUnknown && strings.ToLower(name) == norm {
			return k, nil
		}
	}
	return EffectUnknown, fmt.Errorf("unknown effect kind %q", s)
}

func (k EffectKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *EffectKind) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseEffectKind(node.Value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ActionDefinition is an immutable catalog entry: what an action costs in
// runes and what it does. The core references definitions by pointer.
type ActionDefinition struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Required    []Rune     `yaml:"runes"`
	Effect      EffectKind `yaml:"effect"`
	Power       int        `yaml:"power"`
	// When is an optional availability expression evaluated by an ActionGate.
	When string `yaml:"when"`
}

func (a *ActionDefinition) String() string {
	if a == nil {
		return "<nil action>"
	}
	runes := make([]string, len(a.Required))
	for i, r := range a.Required {
		runes[i] = r.String()
	}
	return fmt.Sprintf("%s [%s] %s %d", a.Name, strings.Join(runes, "+"), a.Effect, a.Power)
}
