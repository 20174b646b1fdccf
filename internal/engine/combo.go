package engine

import "sort"

// ResolveCombos lists every catalog action that the locked runes could pay
// for on its own. Each action is checked against the full tally, so the
// result may hold actions that cannot all be paid for together. Actions
// with more required runes come first.
func ResolveCombos(locked []Rune, catalog []*ActionDefinition) []*ActionDefinition {
	available := make([]*ActionDefinition, 0)
	if len(locked) == 0 || len(catalog) == 0 {
		return available
	}

	counts := tally(locked)
	for _, action := range sortedByCost(catalog) {
		if canAfford(action, counts) {
			available = append(available, action)
		}
	}
	return available
}

// ResolveGreedy picks as many actions as the locked runes can pay for at
// once, consuming runes as it goes and trying the most expensive actions
// first. The same action may appear more than once.
func ResolveGreedy(locked []Rune, catalog []*ActionDefinition) []*ActionDefinition {
	chosen := make([]*ActionDefinition, 0)
	if len(locked) == 0 || len(catalog) == 0 {
		return chosen
	}

	pool := tally(locked)
	for _, action := range sortedByCost(catalog) {
		for canAfford(action, pool) {
			chosen = append(chosen, action)
			for _, r := range action.Required {
				pool[r]--
			}
		}
	}
	return chosen
}

// CanAffordAction reports whether runes cover every rune type action
// requires. Actions without requirements are never affordable.
func CanAffordAction(action *ActionDefinition, runes []Rune) bool {
	return canAfford(action, tally(runes))
}

// CanAffordAll reports whether runes can pay for every action in actions
// simultaneously.
func CanAffordAll(actions []*ActionDefinition, runes []Rune) bool {
	pool := tally(runes)
	for _, action := range actions {
		if !canAfford(action, pool) {
			return false
		}
		for _, r := range action.Required {
			pool[r]--
		}
	}
	return true
}

func canAfford(action *ActionDefinition, available map[Rune]int) bool {
	if action == nil || len(action.Required) == 0 {
		return false
	}
	for r, need := range tally(action.Required) {
		if available[r] < need {
			return false
		}
	}
	return true
}

func sortedByCost(catalog []*ActionDefinition) []*ActionDefinition {
	sorted := make([]*ActionDefinition, 0, len(catalog))
	for _, a := range catalog {
		if a != nil {
			sorted = append(sorted, a)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Required) > len(sorted[j].Required)
	})
	return sorted
}
