/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/suderio/shieldwall/internal/persistence"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// battleCmd represents the battle command
var battleCmd = &cobra.Command{
	Use:   "battle",
	Short: "Manage battle journals",
	Long: `The battle command manages the append-only journals written by 'play'.

Use subcommands 'create', 'list' and 'show' to prepare, find and replay
the JSONL logs kept under battles_dir.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// battleManager resolves battles_dir from the configuration.
func battleManager() *persistence.BattleManager {
	dir := viper.GetString("battles_dir")
	if dir == "" {
		dir = "./battles"
	}
	return persistence.NewBattleManager(dir)
}

var battleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled battles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		manager := battleManager()
		names, err := manager.List()
		if err != nil {
			fmt.Printf("Error listing battles: %v\n", err)
			os.Exit(1)
		}
		if len(names) == 0 {
			fmt.Printf("No battles under %s\n", manager.BattlesDir)
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(battleCmd)
	battleCmd.AddCommand(battleListCmd)
}
