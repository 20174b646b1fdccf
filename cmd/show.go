/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/suderio/shieldwall/internal/engine"

	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [battle_name]",
	Short: "Replay a battle journal and print its record",
	Long: `Reads the log.jsonl of a battle and folds it through the event
Projector. A journal holding several battles prints one record each.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("events")

		store, err := battleManager().Load(args[0])
		if err != nil {
			fmt.Printf("Error finding battle: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		events, err := store.Load()
		if err != nil {
			fmt.Printf("Error reading event log: %v\n", err)
			os.Exit(1)
		}

		if verbose {
			for _, evt := range events {
				if msg := evt.Message(); msg != "" {
					fmt.Println(msg)
				}
			}
			fmt.Println()
		}

		records, err := engine.NewProjector().BuildAll(events)
		if err != nil {
			fmt.Printf("Error building battle record: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Processed %d events.\n", len(events))
		for i, r := range records {
			printRecord(os.Stdout, i+1, r)
		}
	},
}

func printRecord(w io.Writer, n int, r *engine.BattleRecord) {
	outcome := "in progress"
	if r.Ended && r.Victory {
		outcome = "victory"
	} else if r.Ended {
		outcome = "defeat"
	}

	fmt.Fprintf(w, "\nBattle %d: %s\n", n, outcome)
	fmt.Fprintf(w, "- Waves: reached %d, cleared %d\n", r.WavesReached, r.WavesCleared)
	fmt.Fprintf(w, "- Turns: %d (%d rerolls)\n", r.Turns, r.Rerolls)
	fmt.Fprintf(w, "- Enemies: %d killed, %d stunned\n", r.EnemiesKilled, r.EnemiesStunned)
	fmt.Fprintf(w, "- Attacks: %d blocked, %d landed\n", r.AttacksBlocked, r.AttacksLanded)
	fmt.Fprintf(w, "- Damage: %d to you, %d to the wall, %d brothers lost\n", r.DamageTaken, r.BrotherDamage, r.BrothersLost)
	fmt.Fprintf(w, "- Stamina left: %d\n", r.StaminaLeft)
}

func init() {
	battleCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("events", false, "Print every journaled event before the record")
}
