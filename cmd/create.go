/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create [battle_name]",
	Short: "Create an empty battle journal",
	Long: `Bootstraps a fresh append-only log.jsonl under battles_dir/<battle_name>.
'play <battle_name>' appends to it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager := battleManager()
		store, err := manager.Create(args[0])
		if err != nil {
			fmt.Printf("Error creating battle: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		fmt.Printf("Successfully created battle!\n")
		fmt.Printf("Log file stored at: %s\n", manager.GetLogPath(args[0]))
	},
}

func init() {
	battleCmd.AddCommand(createCmd)
}
