package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const logFile = "log.jsonl"

// BattleManager bridges configuration settings with local file organization.
type BattleManager struct {
	BattlesDir string
}

// NewBattleManager returns manager localized to the specified battles directory.
func NewBattleManager(battlesDir string) *BattleManager {
	return &BattleManager{BattlesDir: battlesDir}
}

// GetBattlePath produces the directory of a named battle.
func (m *BattleManager) GetBattlePath(battle string) string {
	return filepath.Join(m.BattlesDir, battle)
}

// GetLogPath produces the journal path of a named battle.
func (m *BattleManager) GetLogPath(battle string) string {
	return filepath.Join(m.GetBattlePath(battle), logFile)
}

// Create makes the battle directory if needed and opens its journal for appending.
func (m *BattleManager) Create(battle string) (*Store, error) {
	path := m.GetBattlePath(battle)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return NewStore(m.GetLogPath(battle))
}

// Load opens the journal of an existing battle.
func (m *BattleManager) Load(battle string) (*Store, error) {
	path := m.GetBattlePath(battle)
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return nil, fmt.Errorf("battle folder not properly found: %s", path)
	}
	return NewStore(m.GetLogPath(battle))
}

// List returns the names of every battle with a journal, sorted.
func (m *BattleManager) List() ([]string, error) {
	entries, err := os.ReadDir(m.BattlesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read battles directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(m.GetLogPath(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
